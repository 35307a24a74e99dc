/*
payroll.go - The payroll report calculation

PURPOSE:
  Turns attendance summaries plus base compensation and monthly financial
  adjustments into one PayrollReport per employee.

FORMULAS:
  dailyRate        = monthlySalary / baseDayCount   (baseDayCount <= 0 -> 30)
  totalPayableDays = effectiveDays + overtimeHours / 10
  totalPay         = totalPayableDays * dailyRate + bonus - advance - deduction

  Effective days are presence + leave + sick + rest-worked + holiday-worked;
  absence contributes nothing (the lost day IS the deduction). Ten overtime
  hours convert to exactly one extra payable day, pro-rated for fractions.

ROUNDING:
  Everything stays decimal end-to-end. Values are rounded only when
  formatted for display or export, so multi-month ranges never compound
  rounding error. Total pay is NOT floored at zero: a large deduction can
  legitimately drive it negative and must be surfaced as-is.
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/karvan/attendance-engine/attendance"
	"github.com/karvan/attendance-engine/calendar"
)

// DefaultBaseDays is the divisor for the daily rate when the project has no
// explicit base day count (or a non-positive one).
const DefaultBaseDays = 30

var overtimePerDay = decimal.NewFromInt(10)

// =============================================================================
// REPORT - Immutable per-employee result
// =============================================================================

type Report struct {
	EmployeeID attendance.EmployeeID
	Name       string

	MonthlySalary decimal.Decimal
	DailyRate     decimal.Decimal

	EffectiveDays int
	AbsenceDays   int
	LeaveDays     int
	OvertimeHours decimal.Decimal

	// TotalPayableDays = EffectiveDays + OvertimeHours/10 (fractional).
	TotalPayableDays decimal.Decimal

	Advance   decimal.Decimal
	Bonus     decimal.Decimal
	Deduction decimal.Decimal

	TotalPay decimal.Decimal
}

// Compute builds one report per employee over the inclusive month range.
// Output order matches the input employee order. The pass is independent of
// any earlier Aggregate call: it classifies days the same way and folds in
// the month range's financial adjustments.
func Compute(
	employees []attendance.Employee,
	ledger attendance.Ledger,
	rules attendance.RuleSet,
	financials Financials,
	baseDayCount int,
	r calendar.MonthRange,
) []Report {
	if baseDayCount <= 0 {
		baseDayCount = DefaultBaseDays
	}
	base := decimal.NewFromInt(int64(baseDayCount))

	summaries := attendance.Aggregate(employees, ledger, rules, r)
	months := r.Months()

	out := make([]Report, len(employees))
	for i, emp := range employees {
		s := summaries[i]

		advance, bonus, deduction := decimal.Zero, decimal.Zero, decimal.Zero
		for _, ym := range months {
			adj := financials.For(emp.ID, ym.Year, ym.Month)
			advance = advance.Add(adj.Advance)
			bonus = bonus.Add(adj.Bonus)
			deduction = deduction.Add(adj.Deduction)
		}

		dailyRate := emp.MonthlySalary.Div(base)
		payableDays := decimal.NewFromInt(int64(s.TotalWorked)).
			Add(s.OvertimeHours.Div(overtimePerDay))
		totalPay := payableDays.Mul(dailyRate).
			Add(bonus).
			Sub(advance).
			Sub(deduction)

		out[i] = Report{
			EmployeeID:       emp.ID,
			Name:             emp.FullName(),
			MonthlySalary:    emp.MonthlySalary,
			DailyRate:        dailyRate,
			EffectiveDays:    s.TotalWorked,
			AbsenceDays:      s.Absence,
			LeaveDays:        s.Leave,
			OvertimeHours:    s.OvertimeHours,
			TotalPayableDays: payableDays,
			Advance:          advance,
			Bonus:            bonus,
			Deduction:        deduction,
			TotalPay:         totalPay,
		}
	}
	return out
}
