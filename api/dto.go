/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external contract. This is the
  presentation boundary: decimal values become JSON numbers here, with
  money rounded to whole units. Nothing upstream of this file rounds.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - payroll, attendance, dashboard: the domain types converted here
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/karvan/attendance-engine/attendance"
	"github.com/karvan/attendance-engine/dashboard"
	"github.com/karvan/attendance-engine/payroll"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID               string  `json:"id"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Position         string  `json:"position"`
	Archived         bool    `json:"archived"`
	OfficialSalary   bool    `json:"official_salary"`
	MonthlySalary    float64 `json:"monthly_salary"`
	BaseSalary       float64 `json:"base_salary,omitempty"`
	HousingAllowance float64 `json:"housing_allowance,omitempty"`
	ChildAllowance   float64 `json:"child_allowance,omitempty"`
	OtherBenefits    float64 `json:"other_benefits,omitempty"`
}

// SaveEmployeeRequest creates or updates an employee. In official-salary
// mode the monthly salary is derived from the four components and the
// monthly_salary field is ignored.
type SaveEmployeeRequest struct {
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Position         string  `json:"position"`
	OfficialSalary   bool    `json:"official_salary"`
	MonthlySalary    float64 `json:"monthly_salary"`
	BaseSalary       float64 `json:"base_salary"`
	HousingAllowance float64 `json:"housing_allowance"`
	ChildAllowance   float64 `json:"child_allowance"`
	OtherBenefits    float64 `json:"other_benefits"`
}

type ArchiveRequest struct {
	Archived bool `json:"archived"`
}

type NoteDTO struct {
	ID        int64  `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

type NoteRequest struct {
	Body string `json:"body"`
}

// =============================================================================
// ATTENDANCE AND SETTINGS
// =============================================================================

type CellRequest struct {
	Value string `json:"value"`
}

type HolidayRequest struct {
	Date string `json:"date"`
}

type OverrideRequest struct {
	DayType string `json:"day_type"` // normal | friday | holiday
}

type CodeDTO struct {
	Char   string `json:"char"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	System bool   `json:"is_system_code"`
}

type BaseDaysDTO struct {
	BaseDayCount int `json:"base_day_count"`
}

type AdjustmentsDTO struct {
	Advance   float64 `json:"advance"`
	Bonus     float64 `json:"bonus"`
	Deduction float64 `json:"deduction"`
}

// =============================================================================
// REPORTS AND DASHBOARD
// =============================================================================

type SummaryDTO struct {
	EmployeeID    string   `json:"employee_id"`
	Name          string   `json:"name"`
	Presence      int      `json:"presence_days"`
	Leave         int      `json:"leave_days"`
	Sick          int      `json:"sick_days"`
	Absence       int      `json:"absence_days"`
	RestWorked    int      `json:"friday_work_days"`
	HolidayWorked int      `json:"holiday_work_days"`
	OvertimeHours float64  `json:"overtime_hours"`
	TotalWorked   int      `json:"total_worked_days"`
	Notes         []string `json:"notes,omitempty"`
}

type PayrollReportDTO struct {
	EmployeeID       string  `json:"employee_id"`
	Name             string  `json:"name"`
	MonthlySalary    float64 `json:"monthly_salary"`
	DailyRate        float64 `json:"daily_rate"`
	EffectiveDays    int     `json:"effective_days"`
	AbsenceDays      int     `json:"absence_days"`
	LeaveDays        int     `json:"leave_days"`
	OvertimeHours    float64 `json:"overtime_hours"`
	TotalPayableDays float64 `json:"total_payable_days"`
	Advance          float64 `json:"advance"`
	Bonus            float64 `json:"bonus"`
	Deduction        float64 `json:"deduction"`
	TotalPay         float64 `json:"total_pay"`
}

type SnapshotDTO struct {
	Present int `json:"present"`
	OnLeave int `json:"on_leave"`
	Absent  int `json:"absent"`
}

type TotalsDTO struct {
	TotalPay      float64 `json:"total_pay"`
	WorkedDays    int     `json:"worked_days"`
	OvertimeHours float64 `json:"overtime_hours"`
	Months        int     `json:"months"`
}

type TrendPointDTO struct {
	Month           string `json:"month"`
	ActiveEmployees int    `json:"active_employees"`
}

type DistributionEntryDTO struct {
	Name     string  `json:"name"`
	TotalPay float64 `json:"total_pay"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

// jsonMoney rounds a monetary decimal for presentation.
func jsonMoney(d decimal.Decimal) float64 {
	f, _ := d.Round(0).Float64()
	return f
}

func jsonNumber(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toEmployeeDTO(e attendance.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:               string(e.ID),
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		Position:         e.Position,
		Archived:         e.Archived,
		OfficialSalary:   e.OfficialSalary,
		MonthlySalary:    jsonMoney(e.MonthlySalary),
		BaseSalary:       jsonMoney(e.BaseSalary),
		HousingAllowance: jsonMoney(e.HousingAllowance),
		ChildAllowance:   jsonMoney(e.ChildAllowance),
		OtherBenefits:    jsonMoney(e.OtherBenefits),
	}
}

func toSummaryDTO(s attendance.Summary, name string) SummaryDTO {
	return SummaryDTO{
		EmployeeID:    string(s.EmployeeID),
		Name:          name,
		Presence:      s.Presence,
		Leave:         s.Leave,
		Sick:          s.Sick,
		Absence:       s.Absence,
		RestWorked:    s.RestWorked,
		HolidayWorked: s.HolidayWorked,
		OvertimeHours: jsonNumber(s.OvertimeHours),
		TotalWorked:   s.TotalWorked,
		Notes:         s.Notes,
	}
}

func toPayrollReportDTO(r payroll.Report) PayrollReportDTO {
	return PayrollReportDTO{
		EmployeeID:       string(r.EmployeeID),
		Name:             r.Name,
		MonthlySalary:    jsonMoney(r.MonthlySalary),
		DailyRate:        jsonMoney(r.DailyRate),
		EffectiveDays:    r.EffectiveDays,
		AbsenceDays:      r.AbsenceDays,
		LeaveDays:        r.LeaveDays,
		OvertimeHours:    jsonNumber(r.OvertimeHours),
		TotalPayableDays: jsonNumber(r.TotalPayableDays),
		Advance:          jsonMoney(r.Advance),
		Bonus:            jsonMoney(r.Bonus),
		Deduction:        jsonMoney(r.Deduction),
		TotalPay:         jsonMoney(r.TotalPay),
	}
}

func toTotalsDTO(t dashboard.Totals) TotalsDTO {
	return TotalsDTO{
		TotalPay:      jsonMoney(t.TotalPay),
		WorkedDays:    t.WorkedDays,
		OvertimeHours: jsonNumber(t.OvertimeHours),
		Months:        t.Months,
	}
}
