/*
 * Copyright 2026 quarrylabs.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package clients is the reference entity module: it shows how a concrete
// entity binds its model, rule sets, and hooks onto the generic facade.
package clients

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/quarrylabs/quarry"
	"github.com/quarrylabs/quarry/apperr"
	"github.com/quarrylabs/quarry/database"
	"github.com/quarrylabs/quarry/modules"
	"github.com/quarrylabs/quarry/types"
	"github.com/quarrylabs/quarry/validation"
)

// Client is a customer account. Code is the short human-assigned identifier;
// ExternalID is a generated opaque reference for integrations.
type Client struct {
	bun.BaseModel `bun:"table:clients,alias:c"`

	ID            int64            `bun:"id,pk,autoincrement" json:"id"`
	ExternalID    string           `bun:"external_id,notnull,unique" json:"external_id"`
	Code          string           `bun:"code,notnull,unique" json:"code"`
	Name          string           `bun:"name,notnull" json:"name"`
	Email         string           `bun:"email" json:"email"`
	Status        string           `bun:"status,notnull,default:'active'" json:"status"`
	TeamID        int64            `bun:"team_id,nullzero" json:"team_id"`
	ContractStart time.Time        `bun:"contract_start,nullzero" json:"contract_start"`
	ContractEnd   time.Time        `bun:"contract_end,nullzero" json:"contract_end"`
	Attributes    types.JSONObject `bun:"attributes,type:jsonb" json:"attributes"`
	Team          *Team            `bun:"rel:belongs-to,join:team_id=id" json:"team,omitempty"`
	CreatedAt     time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time        `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Team is the parent entity that clients can be transferred between.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull,unique" json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

var (
	codePattern  = regexp.MustCompile(`^[A-Z][A-Z0-9-]{1,15}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// NewClient returns a client with a generated external reference and
// timestamps set; app-side timestamps keep round-trips uniform across
// database types.
func NewClient(code, name string) *Client {
	now := time.Now().UTC().Truncate(time.Second)
	return &Client{
		ExternalID: uuid.NewString(),
		Code:       code,
		Name:       name,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func rules() []validation.Rule {
	return []validation.Rule{
		validation.Required("code"),
		validation.Required("name"),
		validation.Format("code", codePattern),
		validation.Format("email", emailPattern),
		validation.Length("name", 1, 255),
		validation.Business("contract_dates", contractDatesOrdered),
	}
}

// contractDatesOrdered rejects a contract that ends before it starts.
func contractDatesOrdered(_ context.Context, data validation.Data) (bool, string, error) {
	start, okStart := data["contract_start"].(time.Time)
	end, okEnd := data["contract_end"].(time.Time)
	if !okStart || !okEnd {
		return true, "", nil
	}
	if end.Before(start) {
		return false, "contract_end must not be before contract_start", nil
	}
	return true, "", nil
}

// teamExists checks the transfer target through the same session so the
// check joins the transfer's transaction.
func teamExists(session *database.Session) modules.ParentExistsFunc {
	return func(ctx context.Context, id interface{}) (bool, error) {
		return session.Conn().NewSelect().Model((*Team)(nil)).Where("id = ?", id).Exists(ctx)
	}
}

// deleteGuard refuses to remove a client that is still active.
func deleteGuard(session *database.Session) modules.DeleteGuard {
	return func(ctx context.Context, id interface{}) error {
		var client Client
		err := session.Conn().NewSelect().
			Model(&client).
			Column("status").
			Where("id = ?", id).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if client.Status == "active" {
			return apperr.BusinessLogic("delete", "Client", "cannot delete an active client")
		}
		return nil
	}
}

// NewFacade binds the Client entity to the generic facade for one unit of
// work.
func NewFacade(session *database.Session) *quarry.Facade[Client] {
	return quarry.New(session, quarry.Spec[Client]{
		CreateRules:  rules(),
		UpdateRules:  rules(),
		UniqueFields: []string{"code", "external_id"},
		SearchFields: []string{"code", "name", "email"},
		Relations:    []string{"Team"},
		ParentField:  "team_id",
		ParentExists: teamExists(session),
		DeleteGuard:  deleteGuard(session),
		Mode:         validation.FailFast,
	})
}

// NewTeamFacade binds the Team entity; teams only need basic capabilities.
func NewTeamFacade(session *database.Session) *quarry.Facade[Team] {
	return quarry.New(session, quarry.Spec[Team]{
		CreateRules: []validation.Rule{
			validation.Required("name"),
			validation.Length("name", 1, 128),
		},
		UpdateRules: []validation.Rule{
			validation.Length("name", 1, 128),
		},
		UniqueFields: []string{"name"},
		SearchFields: []string{"name"},
		Mode:         validation.CollectAll,
	})
}
