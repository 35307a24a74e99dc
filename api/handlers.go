/*
handlers.go - HTTP handlers for the attendance engine

PURPOSE:
  Exposes the roster, ledger, settings, and the pure calculators over a
  local REST API for the browser UI. Handlers load inputs from the store,
  call the pure functions, and serialize the immutable results. No domain
  logic lives here.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List (active by default)
    POST   /api/employees                    Create
    GET    /api/employees/{id}               Get one
    PUT    /api/employees/{id}               Update
    POST   /api/employees/{id}/archive       Archive / unarchive
    DELETE /api/employees/{id}               Permanent delete (cascades)

  Attendance:
    GET    /api/attendance/{id}?month=       Month cells for an employee
    PUT    /api/attendance/{id}/{date}       Set a raw cell (empty clears)

  Settings:
    GET/POST          /api/settings/holidays       DELETE /{date}
    GET               /api/settings/overrides
    PUT/DELETE        /api/settings/overrides/{date}
    GET/POST          /api/settings/codes          DELETE /{char}
    GET/PUT           /api/settings/base-days

  Financials:
    GET/PUT /api/financials/{id}/{year}/{month}

  Reports:
    GET /api/reports/attendance?from=&to=    Attendance summaries
    GET /api/reports/payroll?from=&to=       Payroll reports
    GET /api/reports/payroll.csv?from=&to=   CSV export
    GET /api/reports/payslips.pdf?month=     PDF payslips

  Dashboard:
    GET /api/dashboard/today | totals | trend | distribution?month=

ERROR HANDLING:
  400 invalid input, 404 missing employee, 409 reserved-code deletion,
  500 storage failures. Month ranges are normalized (from <= to) before
  they reach the calculators; the core never sees a reversed range.

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karvan/attendance-engine/attendance"
	"github.com/karvan/attendance-engine/calendar"
	"github.com/karvan/attendance-engine/dashboard"
	"github.com/karvan/attendance-engine/payroll"
	"github.com/karvan/attendance-engine/report"
	"github.com/karvan/attendance-engine/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// inputs bundles everything the calculators need for one computation.
type inputs struct {
	employees  []attendance.Employee
	ledger     attendance.Ledger
	rules      attendance.RuleSet
	financials payroll.Financials
	baseDays   int
}

func (h *Handler) loadInputs(ctx context.Context, includeArchived bool) (inputs, error) {
	employees, err := h.Store.ListEmployees(ctx, includeArchived)
	if err != nil {
		return inputs{}, err
	}
	ledger, err := h.Store.LoadLedger(ctx)
	if err != nil {
		return inputs{}, err
	}
	rules, err := h.Store.RuleSet(ctx)
	if err != nil {
		return inputs{}, err
	}
	financials, err := h.Store.LoadFinancials(ctx)
	if err != nil {
		return inputs{}, err
	}
	baseDays, err := h.Store.BaseDayCount(ctx)
	if err != nil {
		return inputs{}, err
	}
	return inputs{employees, ledger, rules, financials, baseDays}, nil
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns the roster. ?include_archived=true includes
// archived employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"
	employees, err := h.Store.ListEmployees(r.Context(), includeArchived)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates a new employee with a minted ID.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp := employeeFromRequest(attendance.EmployeeID(uuid.NewString()), req)
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if errors.Is(err, sqlite.ErrEmployeeNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// UpdateEmployee replaces an existing employee's fields.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	existing, err := h.Store.GetEmployee(r.Context(), id)
	if errors.Is(err, sqlite.ErrEmployeeNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}

	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp := employeeFromRequest(id, req)
	emp.Archived = existing.Archived
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// ArchiveEmployee flips the soft-delete flag.
func (h *Handler) ArchiveEmployee(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	var req ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.Store.SetArchived(r.Context(), id, req.Archived)
	if errors.Is(err, sqlite.ErrEmployeeNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to archive employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteEmployee permanently removes an employee and all dependent data.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	err := h.Store.DeleteEmployee(r.Context(), id)
	if errors.Is(err, sqlite.ErrEmployeeNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEmployeeNotes returns the free-text notes attached to an employee.
func (h *Handler) ListEmployeeNotes(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	notes, err := h.Store.ListNotes(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list notes", err)
		return
	}
	dtos := make([]NoteDTO, len(notes))
	for i, n := range notes {
		dtos[i] = NoteDTO{ID: n.ID, Body: n.Body, CreatedAt: n.CreatedAt}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddEmployeeNote attaches a free-text note to an employee.
func (h *Handler) AddEmployeeNote(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		writeError(w, http.StatusBadRequest, "Note body is required", nil)
		return
	}
	if _, err := h.Store.GetEmployee(r.Context(), id); err != nil {
		if errors.Is(err, sqlite.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, "Employee not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if err := h.Store.AddNote(r.Context(), id, req.Body); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add note", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func employeeFromRequest(id attendance.EmployeeID, req SaveEmployeeRequest) attendance.Employee {
	emp := attendance.Employee{
		ID:               id,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Position:         req.Position,
		OfficialSalary:   req.OfficialSalary,
		MonthlySalary:    decimal.NewFromFloat(req.MonthlySalary),
		BaseSalary:       decimal.NewFromFloat(req.BaseSalary),
		HousingAllowance: decimal.NewFromFloat(req.HousingAllowance),
		ChildAllowance:   decimal.NewFromFloat(req.ChildAllowance),
		OtherBenefits:    decimal.NewFromFloat(req.OtherBenefits),
	}
	emp.RecomputeSalary()
	return emp
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// GetMonthCells returns the raw cells of one employee for one month.
func (h *Handler) GetMonthCells(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	ym, err := calendar.ParseMonthKey(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}

	ledger, err := h.Store.LoadLedger(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load attendance", err)
		return
	}

	cells := make(map[string]string)
	for _, d := range ym.Days() {
		if raw := ledger.Cell(id, d.Key()); raw != "" {
			cells[d.Key()] = raw
		}
	}
	writeJSON(w, http.StatusOK, cells)
}

// SetCell records one raw attendance value. This is the UI boundary, so
// entry validation happens here: hours must be 1-23, codes must be defined.
// The aggregator itself stays tolerant of anything already stored.
func (h *Handler) SetCell(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	dateKey := chi.URLParam(r, "date")
	if _, err := calendar.ParseKey(dateKey); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date key (use YYYY-MM-DD)", err)
		return
	}

	var req CellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	value := strings.TrimSpace(req.Value)
	if value != "" {
		ok, err := h.validCellValue(r.Context(), value)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to validate value", err)
			return
		}
		if !ok {
			writeError(w, http.StatusBadRequest, "Value must be hours 1-23 or a defined code", nil)
			return
		}
	}

	if err := h.Store.SetCell(r.Context(), id, dateKey, value); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save cell", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) validCellValue(ctx context.Context, value string) (bool, error) {
	cell := attendance.ParseCell(value)
	switch cell.Kind {
	case attendance.CellWorked:
		min := decimal.NewFromInt(1)
		max := decimal.NewFromInt(23)
		return cell.Hours.GreaterThanOrEqual(min) && cell.Hours.LessThanOrEqual(max), nil
	case attendance.CellCode:
		return true, nil
	}
	// Unknown to the aggregator: accept only if it is a defined custom code.
	codes, err := h.Store.ListCodes(ctx)
	if err != nil {
		return false, err
	}
	for _, code := range codes {
		if strings.EqualFold(code.Char, value) {
			return true, nil
		}
	}
	return false, nil
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}
	if holidays == nil {
		holidays = []string{}
	}
	writeJSON(w, http.StatusOK, holidays)
}

func (h *Handler) AddHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, err := calendar.ParseKey(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date key (use YYYY-MM-DD)", err)
		return
	}
	if err := h.Store.AddHoliday(r.Context(), req.Date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add holiday", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) RemoveHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.RemoveHoliday(r.Context(), chi.URLParam(r, "date")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to remove holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.Store.ListOverrides(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list overrides", err)
		return
	}
	writeJSON(w, http.StatusOK, overrides)
}

func (h *Handler) SetOverride(w http.ResponseWriter, r *http.Request) {
	dateKey := chi.URLParam(r, "date")
	if _, err := calendar.ParseKey(dateKey); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date key (use YYYY-MM-DD)", err)
		return
	}

	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	dayType := attendance.DayType(req.DayType)
	switch dayType {
	case attendance.DayNormal, attendance.DayRest, attendance.DayHoliday:
	default:
		writeError(w, http.StatusBadRequest, "day_type must be normal, friday, or holiday", nil)
		return
	}

	if err := h.Store.SetOverride(r.Context(), dateKey, dayType); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set override", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.ClearOverride(r.Context(), chi.URLParam(r, "date")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear override", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.Store.ListCodes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list codes", err)
		return
	}
	dtos := make([]CodeDTO, len(codes))
	for i, c := range codes {
		dtos[i] = CodeDTO{Char: c.Char, Label: c.Label, Color: c.Color, System: c.System}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveCode(w http.ResponseWriter, r *http.Request) {
	var req CodeDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Char == "" {
		writeError(w, http.StatusBadRequest, "char is required", nil)
		return
	}
	code := attendance.CustomCode{Char: req.Char, Label: req.Label, Color: req.Color}
	if err := h.Store.SaveCode(r.Context(), code); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save code", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) DeleteCode(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteCode(r.Context(), chi.URLParam(r, "char"))
	if errors.Is(err, sqlite.ErrSystemCode) {
		writeError(w, http.StatusConflict, "System codes cannot be deleted", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete code", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetBaseDays(w http.ResponseWriter, r *http.Request) {
	n, err := h.Store.BaseDayCount(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read base day count", err)
		return
	}
	writeJSON(w, http.StatusOK, BaseDaysDTO{BaseDayCount: n})
}

func (h *Handler) SetBaseDays(w http.ResponseWriter, r *http.Request) {
	var req BaseDaysDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.BaseDayCount <= 0 {
		writeError(w, http.StatusBadRequest, "base_day_count must be positive", nil)
		return
	}
	if err := h.Store.SetBaseDayCount(r.Context(), req.BaseDayCount); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set base day count", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// FINANCIALS HANDLERS
// =============================================================================

func (h *Handler) GetAdjustments(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	year, month, ok := parseYearMonthParams(w, r)
	if !ok {
		return
	}

	financials, err := h.Store.LoadFinancials(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load financials", err)
		return
	}
	adj := financials.For(id, year, month)
	writeJSON(w, http.StatusOK, AdjustmentsDTO{
		Advance:   jsonMoney(adj.Advance),
		Bonus:     jsonMoney(adj.Bonus),
		Deduction: jsonMoney(adj.Deduction),
	})
}

func (h *Handler) SetAdjustments(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	year, month, ok := parseYearMonthParams(w, r)
	if !ok {
		return
	}

	var req AdjustmentsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Advance < 0 || req.Bonus < 0 || req.Deduction < 0 {
		writeError(w, http.StatusBadRequest, "Adjustments must be non-negative", nil)
		return
	}

	adj := payroll.Adjustments{
		Advance:   decimal.NewFromFloat(req.Advance),
		Bonus:     decimal.NewFromFloat(req.Bonus),
		Deduction: decimal.NewFromFloat(req.Deduction),
	}
	if err := h.Store.SetAdjustments(r.Context(), id, year, month, adj); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save adjustments", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseYearMonthParams(w http.ResponseWriter, r *http.Request) (year, month int, ok bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return 0, 0, false
	}
	month, err = strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return 0, 0, false
	}
	return year, month, true
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// parseRange reads from=/to= month keys. A missing "to" means a single
// month. The range is normalized so the calculators always see from <= to.
func parseRange(r *http.Request) (calendar.MonthRange, error) {
	from, err := calendar.ParseMonthKey(r.URL.Query().Get("from"))
	if err != nil {
		return calendar.MonthRange{}, err
	}
	toParam := r.URL.Query().Get("to")
	if toParam == "" {
		return calendar.SingleMonth(from), nil
	}
	to, err := calendar.ParseMonthKey(toParam)
	if err != nil {
		return calendar.MonthRange{}, err
	}
	return calendar.MonthRange{From: from, To: to}.Normalize(), nil
}

// AttendanceReport returns per-employee attendance summaries for a range.
func (h *Handler) AttendanceReport(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range (use from=YYYY-MM&to=YYYY-MM)", err)
		return
	}
	in, err := h.loadInputs(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	summaries := attendance.Aggregate(in.employees, in.ledger, in.rules, rng)
	dtos := make([]SummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toSummaryDTO(s, in.employees[i].FullName())
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PayrollReport returns per-employee payroll reports for a range.
func (h *Handler) PayrollReport(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range (use from=YYYY-MM&to=YYYY-MM)", err)
		return
	}
	in, err := h.loadInputs(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	reports := payroll.Compute(in.employees, in.ledger, in.rules, in.financials, in.baseDays, rng)
	dtos := make([]PayrollReportDTO, len(reports))
	for i, rep := range reports {
		dtos[i] = toPayrollReportDTO(rep)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PayrollCSV streams the payroll report as CSV.
func (h *Handler) PayrollCSV(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range (use from=YYYY-MM&to=YYYY-MM)", err)
		return
	}
	in, err := h.loadInputs(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	reports := payroll.Compute(in.employees, in.ledger, in.rules, in.financials, in.baseDays, rng)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="payroll.csv"`)
	if err := report.WritePayrollCSV(w, reports, rng); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write CSV", err)
	}
}

// PayslipsPDF streams one payslip page per employee for a single month.
func (h *Handler) PayslipsPDF(w http.ResponseWriter, r *http.Request) {
	ym, err := calendar.ParseMonthKey(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}
	in, err := h.loadInputs(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	reports := payroll.Compute(in.employees, in.ledger, in.rules, in.financials, in.baseDays, calendar.SingleMonth(ym))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="payslips.pdf"`)
	if err := report.WritePayslipsPDF(w, reports, ym.Key()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write PDF", err)
	}
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

func (h *Handler) DashboardToday(w http.ResponseWriter, r *http.Request) {
	in, err := h.loadInputs(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}
	snap := dashboard.TodaySnapshot(in.employees, in.ledger)
	writeJSON(w, http.StatusOK, SnapshotDTO{Present: snap.Present, OnLeave: snap.OnLeave, Absent: snap.Absent})
}

func (h *Handler) DashboardTotals(w http.ResponseWriter, r *http.Request) {
	in, err := h.loadInputs(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}
	totals := dashboard.ProjectTotals(in.employees, in.ledger, in.rules, in.financials, in.baseDays)
	writeJSON(w, http.StatusOK, toTotalsDTO(totals))
}

func (h *Handler) DashboardTrend(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.Store.LoadLedger(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load attendance", err)
		return
	}
	points := dashboard.EmployeeTrend(ledger)
	dtos := make([]TrendPointDTO, len(points))
	for i, p := range points {
		dtos[i] = TrendPointDTO{Month: p.Month.Key(), ActiveEmployees: p.ActiveEmployees}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) DashboardDistribution(w http.ResponseWriter, r *http.Request) {
	ym, err := calendar.ParseMonthKey(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}
	in, err := h.loadInputs(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	entries := dashboard.SalaryDistribution(in.employees, in.ledger, in.rules, in.financials, in.baseDays, ym)
	dtos := make([]DistributionEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = DistributionEntryDTO{Name: e.Name, TotalPay: jsonMoney(e.TotalPay)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
