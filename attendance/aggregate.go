/*
aggregate.go - The month-range aggregation pass

PURPOSE:
  Walks every date of an inclusive month range for a set of employees and
  accumulates per-employee counters from the raw ledger cells. This is the
  single place where a raw cell meets the day classifier.

COUNTING RULES:
  - Empty cells: skipped entirely (no classification, no counter)
  - Worked cells: exactly one of presence / rest-worked / holiday-worked
    depending on the day type, plus max(0, hours-10) overtime
  - Reserved codes: absence, leave, sick each have a counter; settlement
    only raises a per-month note flag (intentional: it marks a payout
    event, not a day category)
  - Unknown values: silently ignored

  Counters accumulate over the WHOLE range, never reset per month, so
  aggregating [m1,m2] equals aggregating m1 and m2 separately and adding
  field-by-field.

SEE ALSO:
  - payroll: the second pass that folds in financial adjustments
*/
package attendance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/karvan/attendance-engine/calendar"
)

// =============================================================================
// SUMMARY - Immutable per-employee result
// =============================================================================

// Summary is the aggregation result for one employee over a month range.
// Freshly allocated per call; never shares state with the inputs.
type Summary struct {
	EmployeeID EmployeeID

	Presence      int // worked on a normal day
	Leave         int // paid leave code
	Sick          int // paid sick-leave code
	Absence       int // unpaid absence code
	RestWorked    int // worked on the weekly rest day
	HolidayWorked int // worked on a holiday

	// OvertimeHours accumulates max(0, hours-10) across all worked cells.
	OvertimeHours decimal.Decimal

	// TotalWorked = Presence + Leave + Sick + RestWorked + HolidayWorked.
	// This is also the payable-day count used by payroll.
	TotalWorked int

	// Settled is set when a settlement marker appears anywhere in the range;
	// Notes carries one entry per month it occurred in.
	Settled bool
	Notes   []string
}

// Aggregate computes one Summary per employee over the inclusive month
// range. Output order matches the input employee order, and employees with
// no matching cells still get an all-zero summary.
func Aggregate(employees []Employee, ledger Ledger, rules RuleSet, r calendar.MonthRange) []Summary {
	out := make([]Summary, len(employees))
	for i, emp := range employees {
		out[i] = aggregateOne(emp.ID, ledger[emp.ID], rules, r)
	}
	return out
}

// SummariesByEmployee indexes summaries by employee ID for callers that
// join them with other per-employee data.
func SummariesByEmployee(summaries []Summary) map[EmployeeID]Summary {
	m := make(map[EmployeeID]Summary, len(summaries))
	for _, s := range summaries {
		m[s.EmployeeID] = s
	}
	return m
}

func aggregateOne(id EmployeeID, cells map[string]string, rules RuleSet, r calendar.MonthRange) Summary {
	s := Summary{EmployeeID: id, OvertimeHours: decimal.Zero}

	for _, ym := range r.Months() {
		settledThisMonth := false
		for _, d := range ym.Days() {
			cell := ParseCell(cells[d.Key()])
			switch cell.Kind {
			case CellEmpty, CellUnknown:
				continue

			case CellWorked:
				switch rules.Classify(d) {
				case DayRest:
					s.RestWorked++
				case DayHoliday:
					s.HolidayWorked++
				default:
					s.Presence++
				}
				s.OvertimeHours = s.OvertimeHours.Add(cell.Overtime())

			case CellCode:
				switch cell.Code {
				case CodeAbsence:
					s.Absence++
				case CodeLeave:
					s.Leave++
				case CodeSick:
					s.Sick++
				case CodeSettlement:
					settledThisMonth = true
				}
			}
		}
		if settledThisMonth {
			s.Settled = true
			s.Notes = append(s.Notes, fmt.Sprintf("settlement recorded in %s", ym.Key()))
		}
	}

	s.TotalWorked = s.Presence + s.Leave + s.Sick + s.RestWorked + s.HolidayWorked
	return s
}
