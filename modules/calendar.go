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

package modules

import "time"

// Holidays is a set of non-working days, compared by calendar date.
type Holidays map[string]struct{}

// NewHolidays builds a holiday set from the given days.
func NewHolidays(days ...time.Time) Holidays {
	set := make(Holidays, len(days))
	for _, day := range days {
		set[day.Format("2006-01-02")] = struct{}{}
	}
	return set
}

// Contains reports whether the day is in the set.
func (h Holidays) Contains(t time.Time) bool {
	if h == nil {
		return false
	}
	_, ok := h[t.Format("2006-01-02")]
	return ok
}

// IsBusinessDay reports whether t falls on a weekday that is not a holiday.
func IsBusinessDay(t time.Time, holidays Holidays) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(t)
}

// BusinessDaysBetween counts business days in [from, to], inclusive.
func BusinessDaysBetween(from, to time.Time, holidays Holidays) int {
	if to.Before(from) {
		return 0
	}
	days := 0
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	for !day.After(end) {
		if IsBusinessDay(day, holidays) {
			days++
		}
		day = day.AddDate(0, 0, 1)
	}
	return days
}
