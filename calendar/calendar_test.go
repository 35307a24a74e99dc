package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karvan/attendance-engine/calendar"
)

// =============================================================================
// LEAP YEAR TESTS
// =============================================================================

func TestIsLeapYear_KnownYears(t *testing.T) {
	leap := []int{1375, 1379, 1387, 1391, 1395, 1399, 1403, 1408}
	for _, y := range leap {
		assert.True(t, calendar.IsLeapYear(y), "year %d should be leap", y)
	}

	common := []int{1400, 1401, 1402, 1404, 1405, 1406, 1407}
	for _, y := range common {
		assert.False(t, calendar.IsLeapYear(y), "year %d should be common", y)
	}
}

func TestIsLeapYear_CyclePeriodicity(t *testing.T) {
	// The rule is periodic with period 33 and yields 8 leap years per cycle.
	for y := 1300; y <= 1500; y++ {
		assert.Equal(t, calendar.IsLeapYear(y), calendar.IsLeapYear(y+33), "year %d", y)
	}
	leaps := 0
	for y := 1400; y < 1433; y++ {
		if calendar.IsLeapYear(y) {
			leaps++
		}
	}
	assert.Equal(t, 8, leaps)
}

func TestDaysInMonth(t *testing.T) {
	for m := 1; m <= 6; m++ {
		assert.Equal(t, 31, calendar.DaysInMonth(1402, m))
	}
	for m := 7; m <= 11; m++ {
		assert.Equal(t, 30, calendar.DaysInMonth(1402, m))
	}
	assert.Equal(t, 29, calendar.DaysInMonth(1402, 12))
	assert.Equal(t, 30, calendar.DaysInMonth(1403, 12))
}

func TestDaysInMonth_PanicsOnBadMonth(t *testing.T) {
	assert.Panics(t, func() { calendar.DaysInMonth(1403, 0) })
	assert.Panics(t, func() { calendar.DaysInMonth(1403, 13) })
}

// =============================================================================
// GREGORIAN CONVERSION TESTS
// =============================================================================

func TestToGregorian_KnownDates(t *testing.T) {
	cases := []struct {
		year, month, day int
		gy, gm, gd       int
	}{
		// Nowruz of a leap year
		{1403, 1, 1, 2024, 3, 20},
		// Last day of a leap year
		{1403, 12, 30, 2025, 3, 20},
		{1402, 1, 1, 2023, 3, 21},
		{1400, 6, 31, 2021, 9, 22},
	}
	for _, tc := range cases {
		gy, gm, gd := calendar.ToGregorian(tc.year, tc.month, tc.day)
		assert.Equal(t, [3]int{tc.gy, tc.gm, tc.gd}, [3]int{gy, gm, gd},
			"converting %s", calendar.FormatKey(tc.year, tc.month, tc.day))
	}
}

func TestFromGregorian_KnownDates(t *testing.T) {
	y, m, d := calendar.FromGregorian(2024, 3, 20)
	assert.Equal(t, [3]int{1403, 1, 1}, [3]int{y, m, d})

	y, m, d = calendar.FromGregorian(2025, 3, 20)
	assert.Equal(t, [3]int{1403, 12, 30}, [3]int{y, m, d})
}

// Round-tripping every valid date across two centuries must be the
// identity in both directions.
func TestConversion_RoundTrip(t *testing.T) {
	for year := 1300; year <= 1500; year++ {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= calendar.DaysInMonth(year, month); day++ {
				gy, gm, gd := calendar.ToGregorian(year, month, day)
				y, m, d := calendar.FromGregorian(gy, gm, gd)
				if y != year || m != month || d != day {
					t.Fatalf("round trip failed: %s -> %s",
						calendar.FormatKey(year, month, day), calendar.FormatKey(y, m, d))
				}
			}
		}
	}
}

// Consecutive dates must map to consecutive Gregorian days. This pins
// the conversion against off-by-one drift at month and year boundaries.
func TestConversion_Continuity(t *testing.T) {
	toTime := func(year, month, day int) time.Time {
		gy, gm, gd := calendar.ToGregorian(year, month, day)
		return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, time.UTC)
	}

	prev := toTime(1399, 1, 1)
	for year := 1399; year <= 1405; year++ {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= calendar.DaysInMonth(year, month); day++ {
				if year == 1399 && month == 1 && day == 1 {
					continue
				}
				g := toTime(year, month, day)
				if g.Sub(prev) != 24*time.Hour {
					t.Fatalf("gap at %s: %s after %s",
						calendar.FormatKey(year, month, day), g, prev)
				}
				prev = g
			}
		}
	}
}

// =============================================================================
// WEEKDAY TESTS
// =============================================================================

func TestWeekday_SaturdayFirst(t *testing.T) {
	// 1403-01-01 is Wednesday; Saturday=0 so Wednesday=4.
	assert.Equal(t, 4, calendar.Date{Year: 1403, Month: 1, Day: 1}.Weekday())

	// Three days later is Saturday.
	assert.Equal(t, 0, calendar.Date{Year: 1403, Month: 1, Day: 4}.Weekday())

	// 1403-01-10 is Friday, the rest day.
	assert.Equal(t, 6, calendar.Date{Year: 1403, Month: 1, Day: 10}.Weekday())
}

func TestFirstWeekdayOfMonth(t *testing.T) {
	assert.Equal(t, 4, calendar.FirstWeekdayOfMonth(1403, 1))
}

// =============================================================================
// DATE KEY TESTS
// =============================================================================

func TestDateKey_RoundTrip(t *testing.T) {
	d := calendar.Date{Year: 1403, Month: 7, Day: 9}
	require.Equal(t, "1403-07-09", d.Key())

	parsed, err := calendar.ParseKey("1403-07-09")
	require.NoError(t, err)
	assert.Equal(t, d, parsed)
}

func TestParseKey_Invalid(t *testing.T) {
	bad := []string{
		"",
		"1403-7-9",     // not zero padded
		"1403/07/09",   // wrong separator
		"1403-13-01",   // month out of range
		"1403-06-32",   // day past month length
		"1402-12-30",   // day 30 of Esfand in a common year
		"1403-07-09x",  // trailing garbage
		"03-07-09",     // short year
		"1403-07-09 ",  // trailing space
	}
	for _, key := range bad {
		_, err := calendar.ParseKey(key)
		assert.ErrorIs(t, err, calendar.ErrInvalidDateKey, "key %q", key)
	}

	// Day 30 of Esfand in a leap year is valid.
	_, err := calendar.ParseKey("1403-12-30")
	assert.NoError(t, err)
}

// =============================================================================
// MONTH RANGE TESTS
// =============================================================================

func TestYearMonth_Days(t *testing.T) {
	days := calendar.YearMonth{Year: 1403, Month: 7}.Days()
	require.Len(t, days, 30)
	assert.Equal(t, "1403-07-01", days[0].Key())
	assert.Equal(t, "1403-07-30", days[29].Key())
}

func TestMonthRange_Months_CrossesYearBoundary(t *testing.T) {
	r := calendar.MonthRange{
		From: calendar.YearMonth{Year: 1402, Month: 11},
		To:   calendar.YearMonth{Year: 1403, Month: 2},
	}
	months := r.Months()
	require.Len(t, months, 4)
	assert.Equal(t, "1402-11", months[0].Key())
	assert.Equal(t, "1402-12", months[1].Key())
	assert.Equal(t, "1403-01", months[2].Key())
	assert.Equal(t, "1403-02", months[3].Key())
}

func TestMonthRange_Normalize_SwapsReversedBounds(t *testing.T) {
	r := calendar.MonthRange{
		From: calendar.YearMonth{Year: 1403, Month: 5},
		To:   calendar.YearMonth{Year: 1403, Month: 2},
	}.Normalize()
	assert.Equal(t, calendar.YearMonth{Year: 1403, Month: 2}, r.From)
	assert.Equal(t, calendar.YearMonth{Year: 1403, Month: 5}, r.To)
}

func TestParseMonthKey(t *testing.T) {
	ym, err := calendar.ParseMonthKey("1403-07")
	require.NoError(t, err)
	assert.Equal(t, calendar.YearMonth{Year: 1403, Month: 7}, ym)

	for _, key := range []string{"", "1403-7", "1403-13", "1403-07-01"} {
		_, err := calendar.ParseMonthKey(key)
		assert.Error(t, err, "key %q", key)
	}
}
