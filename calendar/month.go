package calendar

import (
	"fmt"
	"strconv"
)

// =============================================================================
// YEAR-MONTH - The unit of aggregation
// =============================================================================

// YearMonth identifies one whole calendar month. Aggregation and payroll
// always operate on whole months, never partial ones.
type YearMonth struct {
	Year  int
	Month int // 1..12
}

// Key returns the zero-padded "YYYY-MM" form, the prefix of every date key
// in the month.
func (ym YearMonth) Key() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// ParseMonthKey parses a "YYYY-MM" key.
func ParseMonthKey(key string) (YearMonth, error) {
	if len(key) != 7 || key[4] != '-' {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	year, err := strconv.Atoi(key[0:4])
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	month, err := strconv.Atoi(key[5:7])
	if err != nil || month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return YearMonth{Year: year, Month: month}, nil
}

// Next returns the month immediately after ym.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == 12 {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) After(other YearMonth) bool { return other.Before(ym) }

// Days returns every date of the month in order.
func (ym YearMonth) Days() []Date {
	n := DaysInMonth(ym.Year, ym.Month)
	days := make([]Date, n)
	for i := range days {
		days[i] = Date{Year: ym.Year, Month: ym.Month, Day: i + 1}
	}
	return days
}

// =============================================================================
// MONTH RANGE - Inclusive, chronologically ordered
// =============================================================================

// MonthRange is an inclusive range of whole months. From == To selects
// exactly one month. The core assumes From <= To; callers normalize first.
type MonthRange struct {
	From YearMonth
	To   YearMonth
}

// SingleMonth returns the range covering exactly ym.
func SingleMonth(ym YearMonth) MonthRange {
	return MonthRange{From: ym, To: ym}
}

// Normalize returns the range with bounds swapped if they arrived reversed.
// Used at the API boundary; the core never sees a reversed range.
func (r MonthRange) Normalize() MonthRange {
	if r.To.Before(r.From) {
		return MonthRange{From: r.To, To: r.From}
	}
	return r
}

// Months enumerates every month of the range in chronological order.
func (r MonthRange) Months() []YearMonth {
	var months []YearMonth
	for ym := r.From; !ym.After(r.To); ym = ym.Next() {
		months = append(months, ym)
	}
	return months
}

func (r MonthRange) String() string {
	return "[" + r.From.Key() + ", " + r.To.Key() + "]"
}
