/*
Package attendance holds the attendance ledger model and the aggregation
engine that turns raw daily cells into per-employee summaries.

PURPOSE:
  The ledger is a sparse map of raw string cells: employee -> date key ->
  value. A cell is either a number of hours worked, a single-character
  status code, or noise. This package resolves each cell ONCE into a tagged
  Cell value at the aggregation boundary, classifies the day against the
  project's rules, and accumulates counters.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: identity plus compensation (flat salary or four official
    components whose sum is the salary)
  - Ledger: the raw cell map, with month discovery helpers
  - Cell: the tagged union Empty | Worked(hours) | Code | Unknown
  - Reserved codes: the four system codes that always exist

DESIGN PRINCIPLES:
  1. Purity: nothing in this package mutates its inputs or performs I/O
  2. Precision: hours and overtime use decimal.Decimal, never float64
  3. Totality: unknown cell values are ignored, not errors (validation of
     allowed characters happens in the UI layer before data lands here)

SEE ALSO:
  - rules.go: day classification with override precedence
  - aggregate.go: the month-range aggregation pass
  - payroll: folds these summaries with financial adjustments
*/
package attendance

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/karvan/attendance-engine/calendar"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

type EmployeeID string

type Employee struct {
	ID        EmployeeID
	FirstName string
	LastName  string
	Position  string

	// Archived employees are kept for history but excluded from the active
	// roster (dashboard snapshot, salary distribution).
	Archived bool

	MonthlySalary decimal.Decimal

	// Official-salary mode: the monthly salary is DERIVED as the sum of the
	// four components below and is not independently editable. Call
	// RecomputeSalary after changing any component.
	OfficialSalary   bool
	BaseSalary       decimal.Decimal
	HousingAllowance decimal.Decimal
	ChildAllowance   decimal.Decimal
	OtherBenefits    decimal.Decimal
}

// FullName joins the name parts for display and reports.
func (e Employee) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(e.FirstName) + " " + strings.TrimSpace(e.LastName))
}

// RecomputeSalary restores the official-salary invariant: when official mode
// is active, MonthlySalary equals the sum of the four components.
func (e *Employee) RecomputeSalary() {
	if !e.OfficialSalary {
		return
	}
	e.MonthlySalary = e.BaseSalary.
		Add(e.HousingAllowance).
		Add(e.ChildAllowance).
		Add(e.OtherBenefits)
}

// =============================================================================
// LEDGER - Raw attendance cells
// =============================================================================

// Ledger maps employee -> date key -> raw cell value. Cells are stored
// exactly as entered; interpretation happens in ParseCell.
type Ledger map[EmployeeID]map[string]string

// Cell returns the raw value for an employee and date key ("" if absent).
func (l Ledger) Cell(id EmployeeID, dateKey string) string {
	return l[id][dateKey]
}

// Set records a raw cell value. An empty value removes the cell so the
// ledger stays sparse.
func (l Ledger) Set(id EmployeeID, dateKey, value string) {
	if value == "" {
		delete(l[id], dateKey)
		if len(l[id]) == 0 {
			delete(l, id)
		}
		return
	}
	cells := l[id]
	if cells == nil {
		cells = make(map[string]string)
		l[id] = cells
	}
	cells[dateKey] = value
}

// ObservedMonths returns every distinct year-month that has at least one
// cell, in chronological order. Used by the dashboard to discover the
// project's lifetime.
func (l Ledger) ObservedMonths() []calendar.YearMonth {
	seen := make(map[calendar.YearMonth]bool)
	for _, cells := range l {
		for dateKey, value := range cells {
			if value == "" {
				continue
			}
			ym, err := calendar.ParseMonthKey(monthPrefix(dateKey))
			if err != nil {
				continue
			}
			seen[ym] = true
		}
	}
	months := make([]calendar.YearMonth, 0, len(seen))
	for ym := range seen {
		months = append(months, ym)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

func monthPrefix(dateKey string) string {
	if len(dateKey) < 7 {
		return dateKey
	}
	return dateKey[:7]
}

// =============================================================================
// RESERVED CODES - Always present, never removable
// =============================================================================

// The four system-wide single-character codes. Projects may define extra
// codes with a label and color, but those are cosmetic: the aggregator only
// understands these four.
const (
	CodeAbsence    = "غ" // unpaid absence
	CodeLeave      = "م" // paid leave
	CodeSick       = "ا" // paid sick leave
	CodeSettlement = "ت" // settlement marker: surfaced via notes, no counter
)

// CustomCode is a project-defined attendance code. System codes mirror the
// reserved constants and cannot be deleted.
type CustomCode struct {
	Char   string
	Label  string
	Color  string
	System bool
}

// SystemCodes returns the built-in code set seeded into every project.
func SystemCodes() []CustomCode {
	return []CustomCode{
		{Char: CodeAbsence, Label: "absence", Color: "#ef4444", System: true},
		{Char: CodeLeave, Label: "leave", Color: "#3b82f6", System: true},
		{Char: CodeSick, Label: "sick leave", Color: "#f59e0b", System: true},
		{Char: CodeSettlement, Label: "settlement", Color: "#8b5cf6", System: true},
	}
}

// =============================================================================
// CELL - Tagged union resolved once at the aggregation boundary
// =============================================================================

type CellKind int

const (
	CellEmpty CellKind = iota
	CellWorked
	CellCode
	CellUnknown
)

// Cell is the resolved form of a raw ledger value.
type Cell struct {
	Kind  CellKind
	Hours decimal.Decimal // set when Kind == CellWorked
	Code  string          // set when Kind == CellCode, one of the reserved codes
}

var overtimeThreshold = decimal.NewFromInt(10)

// ParseCell resolves a raw cell value. Any positive decimal counts as hours
// worked (the UI constrains entry to 1-23, but any positive value is
// tolerated defensively). A reserved code matches case-insensitively.
// Everything else is Unknown and ignored by accounting.
func ParseCell(raw string) Cell {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Cell{Kind: CellEmpty}
	}
	if v, err := decimal.NewFromString(raw); err == nil {
		if v.IsPositive() {
			return Cell{Kind: CellWorked, Hours: v}
		}
		return Cell{Kind: CellUnknown}
	}
	for _, code := range []string{CodeAbsence, CodeLeave, CodeSick, CodeSettlement} {
		if strings.EqualFold(raw, code) {
			return Cell{Kind: CellCode, Code: code}
		}
	}
	return Cell{Kind: CellUnknown}
}

// Overtime returns the hours beyond the 10-hour threshold, zero for
// non-worked cells. Every 10 overtime hours later convert to one payable day.
func (c Cell) Overtime() decimal.Decimal {
	if c.Kind != CellWorked {
		return decimal.Zero
	}
	ot := c.Hours.Sub(overtimeThreshold)
	if ot.IsNegative() {
		return decimal.Zero
	}
	return ot
}
