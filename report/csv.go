/*
Package report renders computed payroll results for printing and export.

PURPOSE:
  The calculators return exact decimal values; this package is the
  presentation boundary where rounding finally happens. Exporters only
  consume finished reports, they never recompute.

FORMATS:
  - csv.go: one payroll row per employee (spreadsheet import)
  - pdf.go: one payslip page per employee

SEE ALSO:
  - payroll: produces the Report values rendered here
*/
package report

import (
	"encoding/csv"
	"io"

	"github.com/shopspring/decimal"

	"github.com/karvan/attendance-engine/calendar"
	"github.com/karvan/attendance-engine/payroll"
)

// WritePayrollCSV writes one row per employee for the given month range.
// Money columns are rounded to whole units here, at presentation time.
func WritePayrollCSV(w io.Writer, reports []payroll.Report, r calendar.MonthRange) error {
	cw := csv.NewWriter(w)

	header := []string{
		"range", "employee", "monthly_salary", "daily_rate",
		"effective_days", "absence_days", "leave_days", "overtime_hours",
		"payable_days", "bonus", "advance", "deduction", "total_pay",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	rangeLabel := r.From.Key()
	if r.To != r.From {
		rangeLabel += ".." + r.To.Key()
	}

	for _, rep := range reports {
		row := []string{
			rangeLabel,
			rep.Name,
			money(rep.MonthlySalary),
			money(rep.DailyRate),
			itoa(rep.EffectiveDays),
			itoa(rep.AbsenceDays),
			itoa(rep.LeaveDays),
			rep.OvertimeHours.String(),
			rep.TotalPayableDays.String(),
			money(rep.Bonus),
			money(rep.Advance),
			money(rep.Deduction),
			money(rep.TotalPay),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func money(d decimal.Decimal) string { return d.Round(0).String() }

func itoa(n int) string { return decimal.NewFromInt(int64(n)).String() }
