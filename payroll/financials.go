/*
Package payroll derives pay from attendance summaries and per-month
financial adjustments.

PURPOSE:
  Attendance answers "how many payable days"; payroll answers "how much
  money". The calculator runs the same month-range pass as the attendance
  aggregator and additionally folds in each month's advance, bonus, and
  deduction.

KEY CONCEPTS IN THIS FILE (financials.go):
  - Adjustments: one month's advance/bonus/deduction for one employee
  - Financials: the sparse employee -> year -> month -> Adjustments map

INVARIANTS:
  - All amounts are non-negative; zero means "absent". Set removes
    all-zero entries so explicit zeros never persist.
  - A missing entry reads as all-zero, never as an error.

SEE ALSO:
  - payroll.go: the report calculation itself
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/karvan/attendance-engine/attendance"
)

// =============================================================================
// ADJUSTMENTS
// =============================================================================

// Adjustments holds one employee-month's financial lines. Zero values are
// equivalent to omission.
type Adjustments struct {
	Advance   decimal.Decimal
	Bonus     decimal.Decimal
	Deduction decimal.Decimal
}

// IsZero reports whether every line is zero or unset.
func (a Adjustments) IsZero() bool {
	return a.Advance.IsZero() && a.Bonus.IsZero() && a.Deduction.IsZero()
}

// =============================================================================
// FINANCIALS - Sparse per-employee, per-month map
// =============================================================================

// Financials maps employee -> year -> month -> adjustments.
type Financials map[attendance.EmployeeID]map[int]map[int]Adjustments

// For returns the adjustments for an employee-month, all-zero if absent.
func (f Financials) For(id attendance.EmployeeID, year, month int) Adjustments {
	adj := f[id][year][month]
	// Normalize unset decimals to zero so callers can Add without nil checks.
	if adj.Advance.IsZero() {
		adj.Advance = decimal.Zero
	}
	if adj.Bonus.IsZero() {
		adj.Bonus = decimal.Zero
	}
	if adj.Deduction.IsZero() {
		adj.Deduction = decimal.Zero
	}
	return adj
}

// Set records adjustments for an employee-month. All-zero adjustments
// remove the entry instead of persisting explicit zeros.
func (f Financials) Set(id attendance.EmployeeID, year, month int, adj Adjustments) {
	if adj.IsZero() {
		delete(f[id][year], month)
		if len(f[id][year]) == 0 {
			delete(f[id], year)
		}
		if len(f[id]) == 0 {
			delete(f, id)
		}
		return
	}
	years := f[id]
	if years == nil {
		years = make(map[int]map[int]Adjustments)
		f[id] = years
	}
	months := years[year]
	if months == nil {
		months = make(map[int]Adjustments)
		years[year] = months
	}
	months[month] = adj
}
