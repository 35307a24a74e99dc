/*
Package sqlite provides the SQLite-backed persistence layer for the
attendance engine.

PURPOSE:
  Stores the raw inputs of the pure calculators: employees, attendance
  cells, day rules (holidays, overrides), custom codes, monthly financial
  adjustments, notes, and project settings. The calculators themselves
  never touch the database; the API layer loads inputs here and hands them
  to the pure functions.

KEY TABLES:
  employees:        roster with compensation fields and archive flag
  attendance_cells: sparse (employee, date key) -> raw value
  holidays:         explicit holiday date keys
  day_overrides:    per-date day-type overrides
  custom_codes:     attendance codes (the four system codes are seeded and
                    cannot be deleted)
  financials:       per employee-month advance/bonus/deduction (all-zero
                    rows are deleted on write, never stored)
  notes:            free-text per-employee notes
  settings:         key/value project settings (base day count)

CASCADES:
  Deleting an employee permanently removes their cells, financials, and
  notes via ON DELETE CASCADE (foreign keys are enabled on open).
  Archiving is a soft flag and removes nothing.

WAL MODE:
  The database is opened with WAL journaling: readers don't block, single
  writer, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - attendance, payroll: the pure consumers of the loaded data
  - api: the layer that wires loads to computations
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/karvan/attendance-engine/attendance"
	"github.com/karvan/attendance-engine/payroll"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrSystemCode is returned when attempting to delete a reserved code.
	ErrSystemCode = errors.New("system codes cannot be deleted")
)

// settingBaseDays is the settings key for the daily-rate divisor.
const settingBaseDays = "base_day_count"

// Store implements persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store backed by the database at path.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; a single pooled connection also keeps
	// ":memory:" databases from silently splitting per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		position TEXT NOT NULL DEFAULT '',
		archived INTEGER NOT NULL DEFAULT 0,
		official_salary INTEGER NOT NULL DEFAULT 0,
		monthly_salary TEXT NOT NULL DEFAULT '0',
		base_salary TEXT NOT NULL DEFAULT '0',
		housing_allowance TEXT NOT NULL DEFAULT '0',
		child_allowance TEXT NOT NULL DEFAULT '0',
		other_benefits TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance_cells (
		employee_id TEXT NOT NULL,
		date_key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (employee_id, date_key),
		FOREIGN KEY (employee_id) REFERENCES employees(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_cells_date ON attendance_cells(date_key);

	CREATE TABLE IF NOT EXISTS holidays (
		date_key TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS day_overrides (
		date_key TEXT PRIMARY KEY,
		day_type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS custom_codes (
		char TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		system INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS financials (
		employee_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		advance TEXT NOT NULL DEFAULT '0',
		bonus TEXT NOT NULL DEFAULT '0',
		deduction TEXT NOT NULL DEFAULT '0',
		PRIMARY KEY (employee_id, year, month),
		FOREIGN KEY (employee_id) REFERENCES employees(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (employee_id) REFERENCES employees(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_notes_employee ON notes(employee_id);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.seedSystemCodes()
}

// seedSystemCodes inserts the four reserved codes if missing. They are
// re-seeded on every open so they can never go missing.
func (s *Store) seedSystemCodes() error {
	for _, code := range attendance.SystemCodes() {
		_, err := s.db.Exec(
			`INSERT INTO custom_codes (char, label, color, system) VALUES (?, ?, ?, 1)
			 ON CONFLICT(char) DO UPDATE SET system = 1`,
			code.Char, code.Label, code.Color,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or updates an employee. The official-salary
// invariant is re-established before writing.
func (s *Store) SaveEmployee(ctx context.Context, emp attendance.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp.RecomputeSalary()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees
			(id, first_name, last_name, position, archived, official_salary,
			 monthly_salary, base_salary, housing_allowance, child_allowance, other_benefits, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			position = excluded.position,
			archived = excluded.archived,
			official_salary = excluded.official_salary,
			monthly_salary = excluded.monthly_salary,
			base_salary = excluded.base_salary,
			housing_allowance = excluded.housing_allowance,
			child_allowance = excluded.child_allowance,
			other_benefits = excluded.other_benefits`,
		string(emp.ID), emp.FirstName, emp.LastName, emp.Position,
		boolToInt(emp.Archived), boolToInt(emp.OfficialSalary),
		emp.MonthlySalary.String(), emp.BaseSalary.String(),
		emp.HousingAllowance.String(), emp.ChildAllowance.String(),
		emp.OtherBenefits.String(), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetEmployee returns one employee, or ErrEmployeeNotFound.
func (s *Store) GetEmployee(ctx context.Context, id attendance.EmployeeID) (attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, position, archived, official_salary,
		       monthly_salary, base_salary, housing_allowance, child_allowance, other_benefits
		FROM employees WHERE id = ?`, string(id))
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return attendance.Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

// ListEmployees returns the roster ordered by last name then first name.
// When includeArchived is false, archived employees are filtered out.
func (s *Store) ListEmployees(ctx context.Context, includeArchived bool) ([]attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, first_name, last_name, position, archived, official_salary,
		       monthly_salary, base_salary, housing_allowance, child_allowance, other_benefits
		FROM employees`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []attendance.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// SetArchived flips the soft-delete flag. Archived employees keep all data.
func (s *Store) SetArchived(ctx context.Context, id attendance.EmployeeID, archived bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE employees SET archived = ? WHERE id = ?`, boolToInt(archived), string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// DeleteEmployee permanently removes an employee. Attendance cells,
// financial adjustments, and notes cascade with the row.
func (s *Store) DeleteEmployee(ctx context.Context, id attendance.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (attendance.Employee, error) {
	var (
		emp                attendance.Employee
		id                 string
		archived, official int
		monthly, base      string
		housing, child     string
		other              string
	)
	err := row.Scan(&id, &emp.FirstName, &emp.LastName, &emp.Position,
		&archived, &official, &monthly, &base, &housing, &child, &other)
	if err != nil {
		return attendance.Employee{}, err
	}
	emp.ID = attendance.EmployeeID(id)
	emp.Archived = archived != 0
	emp.OfficialSalary = official != 0
	if emp.MonthlySalary, err = decimal.NewFromString(monthly); err != nil {
		return attendance.Employee{}, err
	}
	if emp.BaseSalary, err = decimal.NewFromString(base); err != nil {
		return attendance.Employee{}, err
	}
	if emp.HousingAllowance, err = decimal.NewFromString(housing); err != nil {
		return attendance.Employee{}, err
	}
	if emp.ChildAllowance, err = decimal.NewFromString(child); err != nil {
		return attendance.Employee{}, err
	}
	if emp.OtherBenefits, err = decimal.NewFromString(other); err != nil {
		return attendance.Employee{}, err
	}
	return emp, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// ATTENDANCE CELLS
// =============================================================================

// SetCell records a raw attendance value. An empty value deletes the cell
// so the stored ledger stays sparse, mirroring attendance.Ledger.Set.
func (s *Store) SetCell(ctx context.Context, id attendance.EmployeeID, dateKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM attendance_cells WHERE employee_id = ? AND date_key = ?`,
			string(id), dateKey)
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_cells (employee_id, date_key, value) VALUES (?, ?, ?)
		ON CONFLICT(employee_id, date_key) DO UPDATE SET value = excluded.value`,
		string(id), dateKey, value)
	return err
}

// LoadLedger loads the full attendance ledger into memory. The data set is
// bounded by employees x observed days, small enough to hold whole.
func (s *Store) LoadLedger(ctx context.Context) (attendance.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, date_key, value FROM attendance_cells`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := make(attendance.Ledger)
	for rows.Next() {
		var id, dateKey, value string
		if err := rows.Scan(&id, &dateKey, &value); err != nil {
			return nil, err
		}
		ledger.Set(attendance.EmployeeID(id), dateKey, value)
	}
	return ledger, rows.Err()
}

// =============================================================================
// DAY RULES - Holidays and overrides
// =============================================================================

func (s *Store) AddHoliday(ctx context.Context, dateKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO holidays (date_key) VALUES (?) ON CONFLICT(date_key) DO NOTHING`, dateKey)
	return err
}

func (s *Store) RemoveHoliday(ctx context.Context, dateKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE date_key = ?`, dateKey)
	return err
}

func (s *Store) ListHolidays(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT date_key FROM holidays ORDER BY date_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// SetOverride records an explicit day type for a date. Overrides beat both
// the rest-weekday rule and the holiday set, including an explicit "normal".
func (s *Store) SetOverride(ctx context.Context, dateKey string, dayType attendance.DayType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO day_overrides (date_key, day_type) VALUES (?, ?)
		ON CONFLICT(date_key) DO UPDATE SET day_type = excluded.day_type`,
		dateKey, string(dayType))
	return err
}

func (s *Store) ClearOverride(ctx context.Context, dateKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM day_overrides WHERE date_key = ?`, dateKey)
	return err
}

func (s *Store) ListOverrides(ctx context.Context) (map[string]attendance.DayType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT date_key, day_type FROM day_overrides`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make(map[string]attendance.DayType)
	for rows.Next() {
		var key, dayType string
		if err := rows.Scan(&key, &dayType); err != nil {
			return nil, err
		}
		overrides[key] = attendance.DayType(dayType)
	}
	return overrides, rows.Err()
}

// RuleSet assembles the current day-classification rules from storage.
func (s *Store) RuleSet(ctx context.Context) (attendance.RuleSet, error) {
	holidays, err := s.ListHolidays(ctx)
	if err != nil {
		return attendance.RuleSet{}, err
	}
	overrides, err := s.ListOverrides(ctx)
	if err != nil {
		return attendance.RuleSet{}, err
	}
	return attendance.NewRuleSet(holidays, overrides), nil
}

// =============================================================================
// CUSTOM CODES
// =============================================================================

// SaveCode inserts or updates a project-defined code. The system flag of a
// reserved code is preserved.
func (s *Store) SaveCode(ctx context.Context, code attendance.CustomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO custom_codes (char, label, color, system) VALUES (?, ?, ?, ?)
		ON CONFLICT(char) DO UPDATE SET label = excluded.label, color = excluded.color`,
		code.Char, code.Label, code.Color, boolToInt(code.System))
	return err
}

// DeleteCode removes a custom code. Reserved codes are refused.
func (s *Store) DeleteCode(ctx context.Context, char string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var system int
	err := s.db.QueryRowContext(ctx,
		`SELECT system FROM custom_codes WHERE char = ?`, char).Scan(&system)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if system != 0 {
		return ErrSystemCode
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM custom_codes WHERE char = ?`, char)
	return err
}

func (s *Store) ListCodes(ctx context.Context) ([]attendance.CustomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT char, label, color, system FROM custom_codes ORDER BY system DESC, char`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []attendance.CustomCode
	for rows.Next() {
		var code attendance.CustomCode
		var system int
		if err := rows.Scan(&code.Char, &code.Label, &code.Color, &system); err != nil {
			return nil, err
		}
		code.System = system != 0
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// =============================================================================
// FINANCIAL ADJUSTMENTS
// =============================================================================

// SetAdjustments records one employee-month's advance/bonus/deduction.
// All-zero adjustments delete the row: explicit zeros never persist.
func (s *Store) SetAdjustments(ctx context.Context, id attendance.EmployeeID, year, month int, adj payroll.Adjustments) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if adj.IsZero() {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM financials WHERE employee_id = ? AND year = ? AND month = ?`,
			string(id), year, month)
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO financials (employee_id, year, month, advance, bonus, deduction)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, year, month) DO UPDATE SET
			advance = excluded.advance,
			bonus = excluded.bonus,
			deduction = excluded.deduction`,
		string(id), year, month,
		adj.Advance.String(), adj.Bonus.String(), adj.Deduction.String())
	return err
}

// LoadFinancials loads every stored adjustment into the sparse map form the
// payroll calculator consumes.
func (s *Store) LoadFinancials(ctx context.Context) (payroll.Financials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, year, month, advance, bonus, deduction FROM financials`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	financials := make(payroll.Financials)
	for rows.Next() {
		var (
			id                        string
			year, month               int
			advance, bonus, deduction string
		)
		if err := rows.Scan(&id, &year, &month, &advance, &bonus, &deduction); err != nil {
			return nil, err
		}
		adj := payroll.Adjustments{}
		if adj.Advance, err = decimal.NewFromString(advance); err != nil {
			return nil, err
		}
		if adj.Bonus, err = decimal.NewFromString(bonus); err != nil {
			return nil, err
		}
		if adj.Deduction, err = decimal.NewFromString(deduction); err != nil {
			return nil, err
		}
		financials.Set(attendance.EmployeeID(id), year, month, adj)
	}
	return financials, rows.Err()
}

// =============================================================================
// NOTES
// =============================================================================

type Note struct {
	ID        int64
	Body      string
	CreatedAt string
}

func (s *Store) AddNote(ctx context.Context, id attendance.EmployeeID, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (employee_id, body, created_at) VALUES (?, ?, ?)`,
		string(id), body, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ListNotes(ctx context.Context, id attendance.EmployeeID) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body, created_at FROM notes WHERE employee_id = ? ORDER BY id`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// =============================================================================
// SETTINGS
// =============================================================================

// BaseDayCount returns the configured daily-rate divisor, defaulting to
// payroll.DefaultBaseDays when unset or non-positive.
func (s *Store) BaseDayCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, settingBaseDays).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.DefaultBaseDays, nil
	}
	if err != nil {
		return 0, err
	}
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
		return payroll.DefaultBaseDays, nil
	}
	return n, nil
}

func (s *Store) SetBaseDayCount(ctx context.Context, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		settingBaseDays, fmt.Sprintf("%d", n))
	return err
}
