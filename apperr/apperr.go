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

// Package apperr defines the closed error taxonomy exposed by the data-access
// layer. Callers branch on Kind (and Subkind) instead of inspecting driver
// errors; the original cause is retained for diagnostics only.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the top-level error category.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindBusinessLogic
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBusinessLogic:
		return "business_logic"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// Subkind refines a Kind. Validation and Infrastructure errors always carry
// one; the other kinds may leave it empty.
type Subkind string

const (
	SubRequired   Subkind = "required"
	SubFormat     Subkind = "format"
	SubLength     Subkind = "length"
	SubRange      Subkind = "range"
	SubUniqueness Subkind = "uniqueness"
	SubBusiness   Subkind = "business_rule"

	SubIntegrity Subkind = "integrity"

	SubConnection    Subkind = "connection"
	SubTimeout       Subkind = "timeout"
	SubConfiguration Subkind = "configuration"
	SubUnknown       Subkind = "unknown"
)

// Violation is one field-level validation failure.
type Violation struct {
	Field   string  `json:"field"`
	Rule    Subkind `json:"rule"`
	Message string  `json:"message"`
}

// Error is the single error type crossing the facade boundary. Kind is the
// stable contract; Op, Entity, and EntityID locate the failure; Field/Value
// carry constraint context when known.
type Error struct {
	Kind       Kind
	Subkind    Subkind
	Op         string
	Entity     string
	EntityID   interface{}
	Field      string
	Value      interface{}
	Message    string
	Violations []Violation
	cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s %s", e.Kind, e.Op, e.Entity)
	if e.EntityID != nil {
		msg += fmt.Sprintf(" id=%v", e.EntityID)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap exposes the original cause for diagnostics. Control flow must use
// Kind, never the cause chain.
func (e *Error) Unwrap() error { return e.cause }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// GetKind extracts the kind from err, or zero if err is not an *Error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// NotFound reports that the requested entity id does not exist.
func NotFound(op, entity string, id interface{}) *Error {
	return &Error{
		Kind:     KindNotFound,
		Op:       op,
		Entity:   entity,
		EntityID: id,
		Message:  "entity not found",
	}
}

// Validation folds field violations into one error. Validation errors never
// wrap a store-layer cause.
func Validation(op, entity string, violations []Violation) *Error {
	sub := SubUnknown
	msg := "validation failed"
	if len(violations) > 0 {
		sub = violations[0].Rule
		msg = fmt.Sprintf("validation failed: %s", violations[0].Message)
	}
	return &Error{
		Kind:       KindValidation,
		Subkind:    sub,
		Op:         op,
		Entity:     entity,
		Message:    msg,
		Violations: violations,
	}
}

// BusinessLogic reports a well-formed request that violates a domain invariant.
func BusinessLogic(op, entity, message string) *Error {
	return &Error{
		Kind:    KindBusinessLogic,
		Op:      op,
		Entity:  entity,
		Message: message,
	}
}

// Conflict reports a storage-enforced integrity violation, with optional
// field/value context supplied by the caller.
func Conflict(op, entity string, field string, value interface{}, cause error) *Error {
	msg := "integrity constraint violated"
	if field != "" {
		msg = fmt.Sprintf("integrity constraint violated on field %q", field)
	}
	return &Error{
		Kind:    KindConflict,
		Subkind: SubIntegrity,
		Op:      op,
		Entity:  entity,
		Field:   field,
		Value:   value,
		Message: msg,
		cause:   cause,
	}
}

// Infrastructure reports a store-layer failure, always retaining the cause.
func Infrastructure(op, entity string, sub Subkind, cause error) *Error {
	return &Error{
		Kind:    KindInfrastructure,
		Subkind: sub,
		Op:      op,
		Entity:  entity,
		Message: fmt.Sprintf("storage failure: %v", cause),
		cause:   cause,
	}
}
