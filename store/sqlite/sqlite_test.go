package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karvan/attendance-engine/attendance"
	"github.com/karvan/attendance-engine/payroll"
	"github.com/karvan/attendance-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testEmployee(id string) attendance.Employee {
	return attendance.Employee{
		ID:            attendance.EmployeeID(id),
		FirstName:     "Sara",
		LastName:      "Ahmadi",
		Position:      "welder",
		MonthlySalary: dec("9000000"),
	}
}

// =============================================================================
// EMPLOYEE TESTS
// =============================================================================

func TestEmployee_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee("emp-1")
	require.NoError(t, store.SaveEmployee(ctx, emp))

	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, emp.FirstName, got.FirstName)
	assert.Equal(t, emp.Position, got.Position)
	assert.True(t, got.MonthlySalary.Equal(dec("9000000")))
}

func TestEmployee_OfficialSalaryRecomputedOnSave(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee("emp-1")
	emp.OfficialSalary = true
	emp.BaseSalary = dec("5000000")
	emp.HousingAllowance = dec("900000")
	emp.ChildAllowance = dec("500000")
	emp.OtherBenefits = dec("100000")
	emp.MonthlySalary = dec("1") // stale value, must be overwritten
	require.NoError(t, store.SaveEmployee(ctx, emp))

	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, got.MonthlySalary.Equal(dec("6500000")), "salary %s", got.MonthlySalary)
}

func TestEmployee_GetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetEmployee(context.Background(), "nope")
	assert.ErrorIs(t, err, sqlite.ErrEmployeeNotFound)
}

func TestEmployee_ListFiltersArchived(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := testEmployee("emp-a")
	a.LastName = "Bakhtiari"
	b := testEmployee("emp-b")
	require.NoError(t, store.SaveEmployee(ctx, a))
	require.NoError(t, store.SaveEmployee(ctx, b))
	require.NoError(t, store.SetArchived(ctx, "emp-b", true))

	active, err := store.ListEmployees(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, attendance.EmployeeID("emp-a"), active[0].ID)

	all, err := store.ListEmployees(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by last name.
	assert.Equal(t, "Ahmadi", all[0].LastName)
	assert.Equal(t, "Bakhtiari", all[1].LastName)
}

func TestEmployee_ArchiveMissing(t *testing.T) {
	store := newTestStore(t)
	err := store.SetArchived(context.Background(), "nope", true)
	assert.ErrorIs(t, err, sqlite.ErrEmployeeNotFound)
}

func TestEmployee_DeleteCascades(t *testing.T) {
	// GIVEN: an employee with cells, financials, and a note
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))
	require.NoError(t, store.SetCell(ctx, "emp-1", "1403-07-01", "8"))
	require.NoError(t, store.SetAdjustments(ctx, "emp-1", 1403, 7, payroll.Adjustments{Bonus: dec("100")}))
	require.NoError(t, store.AddNote(ctx, "emp-1", "settled in cash"))

	// WHEN: hard-deleting the employee
	require.NoError(t, store.DeleteEmployee(ctx, "emp-1"))

	// THEN: every dependent row is gone
	ledger, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, ledger)

	fin, err := store.LoadFinancials(ctx)
	require.NoError(t, err)
	assert.Empty(t, fin)

	notes, err := store.ListNotes(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, notes)

	assert.ErrorIs(t, store.DeleteEmployee(ctx, "emp-1"), sqlite.ErrEmployeeNotFound)
}

// =============================================================================
// ATTENDANCE CELL TESTS
// =============================================================================

func TestCells_RoundTripAndClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))
	require.NoError(t, store.SetCell(ctx, "emp-1", "1403-07-01", "8"))
	require.NoError(t, store.SetCell(ctx, "emp-1", "1403-07-02", attendance.CodeLeave))

	// Overwrite keeps a single row per (employee, date).
	require.NoError(t, store.SetCell(ctx, "emp-1", "1403-07-01", "12"))

	ledger, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12", ledger.Cell("emp-1", "1403-07-01"))
	assert.Equal(t, attendance.CodeLeave, ledger.Cell("emp-1", "1403-07-02"))

	// Empty value deletes the row.
	require.NoError(t, store.SetCell(ctx, "emp-1", "1403-07-01", ""))
	ledger, err = store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", ledger.Cell("emp-1", "1403-07-01"))
}

// =============================================================================
// DAY RULE TESTS
// =============================================================================

func TestRuleSet_FromStorage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddHoliday(ctx, "1403-01-13"))
	require.NoError(t, store.AddHoliday(ctx, "1403-01-13")) // idempotent
	require.NoError(t, store.SetOverride(ctx, "1403-01-03", attendance.DayNormal))

	rules, err := store.RuleSet(ctx)
	require.NoError(t, err)
	assert.True(t, rules.Holidays["1403-01-13"])
	assert.Equal(t, attendance.DayNormal, rules.Overrides["1403-01-03"])

	require.NoError(t, store.RemoveHoliday(ctx, "1403-01-13"))
	require.NoError(t, store.ClearOverride(ctx, "1403-01-03"))
	rules, err = store.RuleSet(ctx)
	require.NoError(t, err)
	assert.False(t, rules.Holidays["1403-01-13"])
	assert.Empty(t, rules.Overrides)
}

// =============================================================================
// CUSTOM CODE TESTS
// =============================================================================

func TestCodes_SystemCodesSeeded(t *testing.T) {
	store := newTestStore(t)
	codes, err := store.ListCodes(context.Background())
	require.NoError(t, err)
	require.Len(t, codes, 4)
	for _, code := range codes {
		assert.True(t, code.System, "code %q should be system", code.Char)
	}
}

func TestCodes_SystemCodeUndeletable(t *testing.T) {
	store := newTestStore(t)
	err := store.DeleteCode(context.Background(), attendance.CodeAbsence)
	assert.ErrorIs(t, err, sqlite.ErrSystemCode)
}

func TestCodes_CustomLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	code := attendance.CustomCode{Char: "x", Label: "training", Color: "#16a34a"}
	require.NoError(t, store.SaveCode(ctx, code))

	codes, err := store.ListCodes(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 5)

	require.NoError(t, store.DeleteCode(ctx, "x"))
	codes, err = store.ListCodes(ctx)
	require.NoError(t, err)
	assert.Len(t, codes, 4)

	// Deleting a missing code is a no-op.
	assert.NoError(t, store.DeleteCode(ctx, "y"))
}

// =============================================================================
// FINANCIALS TESTS
// =============================================================================

func TestFinancials_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))
	adj := payroll.Adjustments{Advance: dec("50000"), Bonus: dec("200000"), Deduction: dec("0")}
	require.NoError(t, store.SetAdjustments(ctx, "emp-1", 1403, 7, adj))

	fin, err := store.LoadFinancials(ctx)
	require.NoError(t, err)
	got := fin.For("emp-1", 1403, 7)
	assert.True(t, got.Advance.Equal(dec("50000")))
	assert.True(t, got.Bonus.Equal(dec("200000")))
	assert.True(t, got.Deduction.IsZero())
}

func TestFinancials_AllZeroDeletesRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))
	require.NoError(t, store.SetAdjustments(ctx, "emp-1", 1403, 7, payroll.Adjustments{Bonus: dec("1")}))
	require.NoError(t, store.SetAdjustments(ctx, "emp-1", 1403, 7, payroll.Adjustments{}))

	fin, err := store.LoadFinancials(ctx)
	require.NoError(t, err)
	assert.Empty(t, fin)
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestBaseDayCount_DefaultAndOverride(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n, err := store.BaseDayCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, payroll.DefaultBaseDays, n)

	require.NoError(t, store.SetBaseDayCount(ctx, 26))
	n, err = store.BaseDayCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 26, n)
}
