/*
Package dashboard derives at-a-glance aggregates by repeatedly invoking the
attendance and payroll calculators over the project's observed months.

PURPOSE:
  Four read-only views feed the dashboard:
    - TodaySnapshot:      who is present / on leave / absent right now
    - ProjectTotals:      lifetime pay, worked days, overtime
    - EmployeeTrend:      active-employee count per observed month
    - SalaryDistribution: single-month pay per active employee, for charts

  Observed months are discovered from the ledger itself (distinct
  year-month of any cell), so the dashboard needs no separate bookkeeping
  of the project's lifetime.

SEE ALSO:
  - attendance: cell parsing and month discovery
  - payroll: the per-month pay calculation these views sum over
*/
package dashboard

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/karvan/attendance-engine/attendance"
	"github.com/karvan/attendance-engine/calendar"
	"github.com/karvan/attendance-engine/payroll"
)

// =============================================================================
// TODAY SNAPSHOT
// =============================================================================

type Snapshot struct {
	Present int
	OnLeave int
	Absent  int
}

// TodaySnapshot evaluates today's cell for every active employee.
func TodaySnapshot(employees []attendance.Employee, ledger attendance.Ledger) Snapshot {
	return SnapshotAt(employees, ledger, calendar.Today())
}

// SnapshotAt classifies purely by cell value: a positive number is present,
// the absence code is absent, the leave code is on leave. Everything else,
// including an empty cell, lands in no bucket.
func SnapshotAt(employees []attendance.Employee, ledger attendance.Ledger, day calendar.Date) Snapshot {
	var snap Snapshot
	key := day.Key()
	for _, emp := range employees {
		if emp.Archived {
			continue
		}
		cell := attendance.ParseCell(ledger.Cell(emp.ID, key))
		switch cell.Kind {
		case attendance.CellWorked:
			snap.Present++
		case attendance.CellCode:
			switch cell.Code {
			case attendance.CodeAbsence:
				snap.Absent++
			case attendance.CodeLeave:
				snap.OnLeave++
			}
		}
	}
	return snap
}

// =============================================================================
// PROJECT LIFETIME TOTALS
// =============================================================================

type Totals struct {
	// TotalPay sums payroll TotalPay over every observed month.
	TotalPay decimal.Decimal

	// WorkedDays counts every numeric cell > 0, regardless of day type.
	WorkedDays int

	// OvertimeHours sums max(0, hours-10) across all numeric cells.
	OvertimeHours decimal.Decimal

	// Months is the number of distinct observed months.
	Months int
}

// ProjectTotals runs the payroll calculator once per observed month and sums
// the results, then counts worked days and overtime straight off the ledger.
func ProjectTotals(
	employees []attendance.Employee,
	ledger attendance.Ledger,
	rules attendance.RuleSet,
	financials payroll.Financials,
	baseDayCount int,
) Totals {
	totals := Totals{TotalPay: decimal.Zero, OvertimeHours: decimal.Zero}

	months := ledger.ObservedMonths()
	totals.Months = len(months)
	for _, ym := range months {
		reports := payroll.Compute(employees, ledger, rules, financials, baseDayCount, calendar.SingleMonth(ym))
		for _, rep := range reports {
			totals.TotalPay = totals.TotalPay.Add(rep.TotalPay)
		}
	}

	for _, cells := range ledger {
		for _, raw := range cells {
			cell := attendance.ParseCell(raw)
			if cell.Kind != attendance.CellWorked {
				continue
			}
			totals.WorkedDays++
			totals.OvertimeHours = totals.OvertimeHours.Add(cell.Overtime())
		}
	}
	return totals
}

// =============================================================================
// MONTH-OVER-MONTH TREND
// =============================================================================

type TrendPoint struct {
	Month           calendar.YearMonth
	ActiveEmployees int
}

// EmployeeTrend counts, for each observed month in chronological order, the
// distinct employees with at least one attendance entry in that month.
func EmployeeTrend(ledger attendance.Ledger) []TrendPoint {
	months := ledger.ObservedMonths()
	points := make([]TrendPoint, 0, len(months))
	for _, ym := range months {
		prefix := ym.Key() + "-"
		count := 0
		for _, cells := range ledger {
			for dateKey, value := range cells {
				if value != "" && strings.HasPrefix(dateKey, prefix) {
					count++
					break
				}
			}
		}
		points = append(points, TrendPoint{Month: ym, ActiveEmployees: count})
	}
	return points
}

// =============================================================================
// PAY DISTRIBUTION
// =============================================================================

type DistributionEntry struct {
	Name     string
	TotalPay decimal.Decimal
}

// SalaryDistribution runs a single-month payroll pass restricted to active
// employees and keeps only positive pay, for chart rendering.
func SalaryDistribution(
	employees []attendance.Employee,
	ledger attendance.Ledger,
	rules attendance.RuleSet,
	financials payroll.Financials,
	baseDayCount int,
	ym calendar.YearMonth,
) []DistributionEntry {
	active := make([]attendance.Employee, 0, len(employees))
	for _, emp := range employees {
		if !emp.Archived {
			active = append(active, emp)
		}
	}

	reports := payroll.Compute(active, ledger, rules, financials, baseDayCount, calendar.SingleMonth(ym))
	entries := make([]DistributionEntry, 0, len(reports))
	for _, rep := range reports {
		if rep.TotalPay.IsPositive() {
			entries = append(entries, DistributionEntry{Name: rep.Name, TotalPay: rep.TotalPay})
		}
	}
	return entries
}
