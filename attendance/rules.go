/*
rules.go - Day classification

PURPOSE:
  Decides what kind of day a date is: normal, weekly rest, or holiday.
  Exactly one rule wins, in fixed precedence order:

    1. Explicit per-date override (highest)
    2. The weekly rest weekday
    3. Membership in the holiday set
    4. Normal (default)

  Rules are never merged: a Friday that is also in the holiday set is a
  rest day, not a holiday, unless an override says otherwise.

SEE ALSO:
  - aggregate.go: increments a different counter per day type
*/
package attendance

import "github.com/karvan/attendance-engine/calendar"

// =============================================================================
// DAY TYPES
// =============================================================================

// DayType classifies a calendar date. The string values double as the
// stored override values.
type DayType string

const (
	DayNormal  DayType = "normal"
	DayRest    DayType = "friday" // weekly rest day
	DayHoliday DayType = "holiday"
)

// RestWeekday is the fixed weekly rest day: Friday, the last weekday of the
// Saturday-first week.
const RestWeekday = 6

// =============================================================================
// RULE SET
// =============================================================================

// RuleSet carries everything needed to classify a day. It is built once per
// computation from project settings and passed in explicitly; the engine
// holds no implicit state.
type RuleSet struct {
	// RestWeekday is the weekly rest weekday index (0 = Saturday).
	RestWeekday int

	// Holidays is the explicit set of holiday date keys.
	Holidays map[string]bool

	// Overrides maps date keys to an explicit day type that beats both the
	// rest-weekday rule and the holiday set.
	Overrides map[string]DayType
}

// NewRuleSet builds a RuleSet with the fixed rest weekday.
func NewRuleSet(holidays []string, overrides map[string]DayType) RuleSet {
	set := make(map[string]bool, len(holidays))
	for _, key := range holidays {
		set[key] = true
	}
	if overrides == nil {
		overrides = map[string]DayType{}
	}
	return RuleSet{RestWeekday: RestWeekday, Holidays: set, Overrides: overrides}
}

// Classify returns the effective day type for a date.
func (r RuleSet) Classify(d calendar.Date) DayType {
	key := d.Key()
	if t, ok := r.Overrides[key]; ok {
		return t
	}
	if d.Weekday() == r.RestWeekday {
		return DayRest
	}
	if r.Holidays[key] {
		return DayHoliday
	}
	return DayNormal
}
