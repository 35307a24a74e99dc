package report

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/karvan/attendance-engine/payroll"
)

// WritePayslipsPDF renders one payslip page per employee for a single
// month. Money is rounded to whole units at this boundary only.
func WritePayslipsPDF(w io.Writer, reports []payroll.Report, monthLabel string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslips "+monthLabel, false)

	for _, rep := range reports {
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 16)
		pdf.Cell(0, 10, "Payslip for "+monthLabel)
		pdf.Ln(14)

		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, rep.Name)
		pdf.Ln(12)

		pdf.SetFont("Helvetica", "", 11)
		line := func(label, value string) {
			pdf.CellFormat(70, 8, label, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 8, value, "", 1, "R", false, 0, "")
		}

		line("Monthly salary", money(rep.MonthlySalary))
		line("Daily rate", money(rep.DailyRate))
		line("Effective days", itoa(rep.EffectiveDays))
		line("Absence days", itoa(rep.AbsenceDays))
		line("Leave days", itoa(rep.LeaveDays))
		line("Overtime hours", rep.OvertimeHours.String())
		line("Payable days", rep.TotalPayableDays.String())
		line("Bonus", money(rep.Bonus))
		line("Advance", money(rep.Advance))
		line("Deduction", money(rep.Deduction))

		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		line("Total pay", money(rep.TotalPay))
	}

	return pdf.Output(w)
}
