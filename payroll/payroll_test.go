package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karvan/attendance-engine/attendance"
	"github.com/karvan/attendance-engine/calendar"
	"github.com/karvan/attendance-engine/payroll"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func salariedEmp(id, salary string) attendance.Employee {
	return attendance.Employee{
		ID:            attendance.EmployeeID(id),
		FirstName:     "Emp",
		LastName:      id,
		MonthlySalary: dec(salary),
	}
}

func mehr1403() calendar.MonthRange {
	// 1403-07 has 30 days, matching the default base day count.
	return calendar.SingleMonth(calendar.YearMonth{Year: 1403, Month: 7})
}

func computeOne(t *testing.T, emp attendance.Employee, ledger attendance.Ledger, fin payroll.Financials, baseDays int) payroll.Report {
	t.Helper()
	reports := payroll.Compute(
		[]attendance.Employee{emp}, ledger, attendance.NewRuleSet(nil, nil), fin, baseDays, mehr1403(),
	)
	require.Len(t, reports, 1)
	return reports[0]
}

// =============================================================================
// CORE FORMULA TESTS
// =============================================================================

func TestCompute_AbsenceOnlyMonth_PaysNothing(t *testing.T) {
	// GIVEN: salary 9,000,000 and a single absence cell in the month
	// THEN: daily rate is 300,000 but nothing is payable
	ledger := attendance.Ledger{}
	ledger.Set("e1", "1403-07-01", attendance.CodeAbsence)

	rep := computeOne(t, salariedEmp("e1", "9000000"), ledger, payroll.Financials{}, 0)

	assert.True(t, rep.DailyRate.Equal(dec("300000")), "daily rate %s", rep.DailyRate)
	assert.Equal(t, 0, rep.EffectiveDays)
	assert.Equal(t, 1, rep.AbsenceDays)
	assert.True(t, rep.TotalPay.IsZero(), "total pay %s", rep.TotalPay)
}

func TestCompute_FullMonth_PaysFullSalary(t *testing.T) {
	// GIVEN: all 30 days of 1403-07 worked at 8 hours
	// THEN: 30 payable days at salary/30 reproduce the salary exactly
	ledger := attendance.Ledger{}
	for day := 1; day <= 30; day++ {
		ledger.Set("e1", calendar.FormatKey(1403, 7, day), "8")
	}

	rep := computeOne(t, salariedEmp("e1", "9000000"), ledger, payroll.Financials{}, 0)

	assert.Equal(t, 30, rep.EffectiveDays)
	assert.True(t, rep.TotalPay.Equal(dec("9000000")), "total pay %s", rep.TotalPay)
}

func TestCompute_OvertimeConversion(t *testing.T) {
	// GIVEN: one 23-hour day
	// THEN: 13 overtime hours become 1.3 extra payable days
	ledger := attendance.Ledger{}
	ledger.Set("e1", "1403-07-01", "23")

	rep := computeOne(t, salariedEmp("e1", "3000000"), ledger, payroll.Financials{}, 0)

	assert.True(t, rep.OvertimeHours.Equal(dec("13")))
	assert.True(t, rep.TotalPayableDays.Equal(dec("2.3")), "payable days %s", rep.TotalPayableDays)
	// 2.3 * (3,000,000 / 30) = 230,000
	assert.True(t, rep.TotalPay.Equal(dec("230000")), "total pay %s", rep.TotalPay)
}

func TestCompute_LeaveAndSickArePaid(t *testing.T) {
	ledger := attendance.Ledger{}
	ledger.Set("e1", "1403-07-01", attendance.CodeLeave)
	ledger.Set("e1", "1403-07-02", attendance.CodeSick)
	ledger.Set("e1", "1403-07-03", attendance.CodeAbsence)

	rep := computeOne(t, salariedEmp("e1", "9000000"), ledger, payroll.Financials{}, 0)

	assert.Equal(t, 2, rep.EffectiveDays)
	assert.Equal(t, 1, rep.AbsenceDays)
	assert.True(t, rep.TotalPay.Equal(dec("600000")), "total pay %s", rep.TotalPay)
}

// =============================================================================
// ADJUSTMENT TESTS
// =============================================================================

func TestCompute_Adjustments(t *testing.T) {
	ledger := attendance.Ledger{}
	ledger.Set("e1", "1403-07-01", "8")

	fin := payroll.Financials{}
	fin.Set("e1", 1403, 7, payroll.Adjustments{
		Advance:   dec("50000"),
		Bonus:     dec("200000"),
		Deduction: dec("30000"),
	})

	rep := computeOne(t, salariedEmp("e1", "9000000"), ledger, fin, 0)

	// 1 day * 300,000 + 200,000 - 50,000 - 30,000
	assert.True(t, rep.TotalPay.Equal(dec("420000")), "total pay %s", rep.TotalPay)
}

func TestCompute_DeductionCanDrivePayNegative(t *testing.T) {
	// Total pay is never clamped at zero; a large deduction surfaces as a
	// negative balance.
	ledger := attendance.Ledger{}
	ledger.Set("e1", "1403-07-01", "8")

	fin := payroll.Financials{}
	fin.Set("e1", 1403, 7, payroll.Adjustments{Deduction: dec("1000000")})

	rep := computeOne(t, salariedEmp("e1", "9000000"), ledger, fin, 0)
	assert.True(t, rep.TotalPay.Equal(dec("-700000")), "total pay %s", rep.TotalPay)
}

func TestCompute_BonusDelta(t *testing.T) {
	// Raising only the bonus by X raises total pay by exactly X.
	ledger := attendance.Ledger{}
	ledger.Set("e1", "1403-07-01", "8")

	base := computeOne(t, salariedEmp("e1", "9000000"), ledger, payroll.Financials{}, 0)

	fin := payroll.Financials{}
	fin.Set("e1", 1403, 7, payroll.Adjustments{Bonus: dec("123456")})
	bumped := computeOne(t, salariedEmp("e1", "9000000"), ledger, fin, 0)

	assert.True(t, bumped.TotalPay.Sub(base.TotalPay).Equal(dec("123456")))
}

func TestCompute_AdjustmentsSumAcrossRange(t *testing.T) {
	// A two-month range folds in each month's adjustments.
	ledger := attendance.Ledger{}
	ledger.Set("e1", "1403-07-01", "8")
	ledger.Set("e1", "1403-08-01", "8")

	fin := payroll.Financials{}
	fin.Set("e1", 1403, 7, payroll.Adjustments{Bonus: dec("100")})
	fin.Set("e1", 1403, 8, payroll.Adjustments{Bonus: dec("250")})

	reports := payroll.Compute(
		[]attendance.Employee{salariedEmp("e1", "9000000")},
		ledger,
		attendance.NewRuleSet(nil, nil),
		fin,
		0,
		calendar.MonthRange{
			From: calendar.YearMonth{Year: 1403, Month: 7},
			To:   calendar.YearMonth{Year: 1403, Month: 8},
		},
	)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Bonus.Equal(dec("350")))
	assert.Equal(t, 2, reports[0].EffectiveDays)
}

// =============================================================================
// BASE DAY COUNT TESTS
// =============================================================================

func TestCompute_BaseDayCount(t *testing.T) {
	ledger := attendance.Ledger{}
	ledger.Set("e1", "1403-07-01", "8")

	// Non-positive falls back to 30.
	rep := computeOne(t, salariedEmp("e1", "9000000"), ledger, payroll.Financials{}, -5)
	assert.True(t, rep.DailyRate.Equal(dec("300000")))

	// An explicit base changes the rate.
	rep = computeOne(t, salariedEmp("e1", "9000000"), ledger, payroll.Financials{}, 25)
	assert.True(t, rep.DailyRate.Equal(dec("360000")))
}

// =============================================================================
// FINANCIALS STORE TESTS
// =============================================================================

func TestFinancials_SetAndFor(t *testing.T) {
	fin := payroll.Financials{}
	fin.Set("e1", 1403, 7, payroll.Adjustments{Bonus: dec("10")})

	adj := fin.For("e1", 1403, 7)
	assert.True(t, adj.Bonus.Equal(dec("10")))
	assert.True(t, adj.Advance.IsZero())

	// Missing entries come back zero-valued, never nil decimals.
	missing := fin.For("nobody", 1400, 1)
	assert.True(t, missing.Advance.IsZero())
	assert.True(t, missing.Bonus.IsZero())
	assert.True(t, missing.Deduction.IsZero())
}

func TestFinancials_ZeroCleanup(t *testing.T) {
	fin := payroll.Financials{}
	fin.Set("e1", 1403, 7, payroll.Adjustments{Bonus: dec("10")})

	// Writing all zeros removes the entry and empty parents.
	fin.Set("e1", 1403, 7, payroll.Adjustments{
		Advance: decimal.Zero, Bonus: decimal.Zero, Deduction: decimal.Zero,
	})
	_, ok := fin["e1"]
	assert.False(t, ok)
}
