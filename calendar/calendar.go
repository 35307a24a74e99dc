/*
Package calendar implements the solar calendar used for every date in the
system.

PURPOSE:
  Attendance is keyed by dates in a solar calendar whose months run
  31/31/31/31/31/31/30/30/30/30/30/(29|30). The Gregorian calendar exists
  only inside this package, to borrow weekday arithmetic and the wall clock.
  No other package performs its own date math.

KEY RULES:
  - Leap years follow a 33-year cycle: year mod 33 in {1,5,9,13,17,22,26,30}.
    This is an approximation of the astronomical rule and is kept EXACTLY
    as-is: every stored date key was produced with it, and a "more correct"
    algorithm would shift them.
  - Weekday 0 is Saturday, the first day of the domain week. Weekday 6 is
    Friday, the weekly rest day.
  - The canonical external form of a date is the zero-padded key
    "YYYY-MM-DD", used as a map key everywhere. Keys round-trip exactly.

CONTRACT:
  Months outside 1..12 are a caller bug. DaysInMonth and the conversion
  functions panic rather than wrap silently; all internal call sites build
  month values from validated loops.

SEE ALSO:
  - month.go: YearMonth and inclusive month ranges
  - attendance: day classification built on Date.Weekday()
*/
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// =============================================================================
// DATE - A day in the domain calendar
// =============================================================================

type Date struct {
	Year  int
	Month int // 1..12
	Day   int // 1..DaysInMonth(Year, Month)
}

// ErrInvalidDateKey is returned by ParseKey for malformed or out-of-range keys.
var ErrInvalidDateKey = errors.New("calendar: invalid date key")

// IsLeapYear reports whether the year has a 30-day twelfth month.
// The residue set is fixed; do not replace it with the astronomical test.
func IsLeapYear(year int) bool {
	switch ((year % 33) + 33) % 33 {
	case 1, 5, 9, 13, 17, 22, 26, 30:
		return true
	}
	return false
}

// DaysInMonth returns the number of days in the given month.
// Panics if month is outside 1..12.
func DaysInMonth(year, month int) int {
	switch {
	case month >= 1 && month <= 6:
		return 31
	case month >= 7 && month <= 11:
		return 30
	case month == 12:
		if IsLeapYear(year) {
			return 30
		}
		return 29
	default:
		panic(fmt.Sprintf("calendar: month out of range: %d", month))
	}
}

// =============================================================================
// CONVERSION - The only two functions that know the Gregorian calendar
// =============================================================================

// ToGregorian converts a domain date to (year, month, day) in the Gregorian
// calendar. Pure integer arithmetic; mutually inverse with FromGregorian for
// every valid domain date across a multi-century range.
func ToGregorian(year, month, day int) (gy, gm, gd int) {
	jy := year + 1595
	days := -355668 + 365*jy + (jy/33)*8 + ((jy%33)+3)/4 + day
	if month < 7 {
		days += (month - 1) * 31
	} else {
		days += (month-7)*30 + 186
	}

	gy = 400 * (days / 146097)
	days %= 146097
	if days > 36524 {
		days--
		gy += 100 * (days / 36524)
		days %= 36524
		if days >= 365 {
			days++
		}
	}
	gy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		gy += (days - 1) / 365
		days = (days - 1) % 365
	}
	gd = days + 1

	monthDays := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if gy%4 == 0 && gy%100 != 0 || gy%400 == 0 {
		monthDays[1] = 29
	}
	gm = 1
	for gd > monthDays[gm-1] {
		gd -= monthDays[gm-1]
		gm++
	}
	return gy, gm, gd
}

// FromGregorian converts a Gregorian date to a domain (year, month, day).
func FromGregorian(gy, gm, gd int) (year, month, day int) {
	gdm := [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 355666 + 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 + gd + gdm[gm-1]

	year = -1595 + 33*(days/12053)
	days %= 12053
	year += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		year += (days - 1) / 365
		days = (days - 1) % 365
	}
	if days < 186 {
		month = 1 + days/31
		day = 1 + days%31
	} else {
		month = 7 + (days-186)/30
		day = 1 + (days-186)%30
	}
	return year, month, day
}

// =============================================================================
// WEEKDAYS - Saturday-first numbering
// =============================================================================

// Weekday returns the weekday index of the date: 0 = Saturday .. 6 = Friday.
// Gregorian weekday numbering (Sunday = 0) is remapped with a +1 rotation.
func (d Date) Weekday() int {
	gy, gm, gd := ToGregorian(d.Year, d.Month, d.Day)
	t := time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, time.UTC)
	return (int(t.Weekday()) + 1) % 7
}

// FirstWeekdayOfMonth returns the weekday index of day 1 of the month.
func FirstWeekdayOfMonth(year, month int) int {
	return Date{Year: year, Month: month, Day: 1}.Weekday()
}

// =============================================================================
// DATE KEYS - Canonical "YYYY-MM-DD" form
// =============================================================================

// FormatKey renders the canonical zero-padded date key.
func FormatKey(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// Key returns the canonical date key for d.
func (d Date) Key() string {
	return FormatKey(d.Year, d.Month, d.Day)
}

// ParseKey parses a canonical date key back into a Date. The parse is strict:
// fixed width, zero-padded, and the triple must denote a valid domain date.
func ParseKey(key string) (Date, error) {
	if len(key) != 10 || key[4] != '-' || key[7] != '-' {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	year, err := strconv.Atoi(key[0:4])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	month, err := strconv.Atoi(key[5:7])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	day, err := strconv.Atoi(key[8:10])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	if month < 1 || month > 12 || day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// Today returns the current wall-clock date converted into the domain calendar.
func Today() Date {
	now := time.Now()
	y, m, d := FromGregorian(now.Year(), int(now.Month()), now.Day())
	return Date{Year: y, Month: m, Day: d}
}
