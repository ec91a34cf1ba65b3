/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements every persistence interface of the engine (check-ins, issues,
  employees, action audit, schedules, holidays, policy documents, in-app
  notifications) using SQLite. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

IDEMPOTENT ISSUE INSERT:
  The issues table carries a UNIQUE index over (user_id, kind, date). Issue
  insertion is a plain INSERT whose constraint violation maps to
  attendance.ErrDuplicateIssue, so concurrent sweeps cannot race a duplicate
  past a read-then-write window, and a resolved issue is never raised again
  for the same day.

KEY TABLES:
  checkins:      Classified check-in events (immutable after classification
                 except requires_comment / comment)
  issues:        AttendanceIssues with the (user, kind, date) unique index
  employees:     Engine-visible employee records + late-minutes accumulator
  actions:       Append-only audit of executed side-effects
  schedules:     Admin-updated product-line schedules (JSON document)
  holidays:      Holiday calendar, optionally product-scoped
  policy_docs:   Partial policy documents keyed by scope
  notifications: Persisted in-app notifications

WAL MODE:
  Opened with WAL for better concurrency: readers don't block, single
  writer, better crash recovery.

USAGE:
  st, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - attendance/store.go: Interface definitions
  - attendance/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/notify"
	"github.com/warp/attendance-engine/policy"
	"github.com/warp/attendance-engine/schedule"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Check-in events
	CREATE TABLE IF NOT EXISTS checkins (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		kiosk_id TEXT,
		product_line TEXT,
		type TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		date TEXT NOT NULL,
		latitude REAL,
		longitude REAL,
		location_valid BOOLEAN NOT NULL DEFAULT TRUE,
		status TEXT NOT NULL,
		minutes_late INTEGER NOT NULL DEFAULT 0,
		minutes_early INTEGER NOT NULL DEFAULT 0,
		comment TEXT NOT NULL DEFAULT '',
		requires_comment BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	-- Hot path: the detector and classifier read one employee's day
	CREATE INDEX IF NOT EXISTS idx_checkins_user_date
		ON checkins(user_id, date, timestamp);

	-- Attendance issues
	CREATE TABLE IF NOT EXISTS issues (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		date TEXT NOT NULL,
		expected_at TEXT NOT NULL,
		detected_at TEXT NOT NULL,
		minutes_overdue INTEGER NOT NULL DEFAULT 0,
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		resolved_by TEXT,
		resolved_at TEXT,
		resolution TEXT
	);

	-- CRITICAL: at most one issue per (user, kind, date), resolved or not.
	-- Sweep idempotency rides on this constraint, not on a prior read, and
	-- resolving an issue keeps later sweeps from re-raising it.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_issues_identity
		ON issues(user_id, kind, date);

	CREATE INDEX IF NOT EXISTS idx_issues_date
		ON issues(date);
	CREATE INDEX IF NOT EXISTS idx_issues_user
		ON issues(user_id, date);

	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		role TEXT NOT NULL DEFAULT 'employee',
		product_line TEXT,
		kiosk_id TEXT,
		supervisor_id TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		total_late_minutes INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_employees_active
		ON employees(active, role);

	-- Punctuality action audit (append-only)
	CREATE TABLE IF NOT EXISTS actions (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		executed_at TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		error TEXT,
		details_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_actions_source
		ON actions(source_id, executed_at);

	-- Product-line schedules (admin-updated; absent = built-in default)
	CREATE TABLE IF NOT EXISTS schedules (
		product_line TEXT PRIMARY KEY,
		config_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Holidays
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		product_lines_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date
		ON holidays(date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);

	-- Policy documents ('global' or a product line name)
	CREATE TABLE IF NOT EXISTS policy_docs (
		scope TEXT PRIMARY KEY,
		doc_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- In-app notifications
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		recipient_id TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		source_id TEXT,
		created_at TEXT NOT NULL,
		read BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_recipient
		ON notifications(recipient_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CHECK-IN STORE (attendance.CheckInStore)
// =============================================================================

func (s *Store) Insert(ctx context.Context, ev attendance.CheckInEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lat, lon sql.NullFloat64
	if ev.Location != nil {
		lat = sql.NullFloat64{Float64: ev.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: ev.Location.Longitude, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkins
		(id, user_id, kiosk_id, product_line, type, timestamp, date,
		 latitude, longitude, location_valid, status, minutes_late,
		 minutes_early, comment, requires_comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.UserID, ev.KioskID, ev.ProductLine, ev.Type,
		ev.Timestamp.Format(time.RFC3339), ev.Date(),
		lat, lon, ev.LocationValid, ev.Status, ev.MinutesLate,
		ev.MinutesEarly, ev.Comment, ev.RequiresComment,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert check-in: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id attendance.EventID) (attendance.CheckInEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, checkinColumns+` WHERE id = ?`, id)
	ev, err := scanCheckin(row)
	if err == sql.ErrNoRows {
		return attendance.CheckInEvent{}, attendance.ErrEventNotFound
	}
	return ev, err
}

func (s *Store) ListDay(ctx context.Context, userID attendance.UserID, date attendance.Date) ([]attendance.CheckInEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		checkinColumns+` WHERE user_id = ? AND date = ? ORDER BY timestamp`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	var out []attendance.CheckInEvent
	for rows.Next() {
		ev, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) SetRequiresComment(ctx context.Context, id attendance.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE checkins SET requires_comment = TRUE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to flag comment requirement: %w", err)
	}
	return requireRowHit(res, attendance.ErrEventNotFound)
}

func (s *Store) SetComment(ctx context.Context, id attendance.EventID, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE checkins SET comment = ? WHERE id = ?`, comment, id)
	if err != nil {
		return fmt.Errorf("failed to set comment: %w", err)
	}
	return requireRowHit(res, attendance.ErrEventNotFound)
}

const checkinColumns = `
	SELECT id, user_id, kiosk_id, product_line, type, timestamp,
	       latitude, longitude, location_valid, status, minutes_late,
	       minutes_early, comment, requires_comment, created_at
	FROM checkins`

type rowScanner interface {
	Scan(dest ...any) error
}

// parseStamp decodes one stored RFC3339 timestamp into local time. A row
// that fails here is corrupt and surfaces an error, same as the corrupt-JSON
// branches.
func parseStamp(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt %s timestamp %q: %w", field, value, err)
	}
	return t.Local(), nil
}

func scanCheckin(row rowScanner) (attendance.CheckInEvent, error) {
	var ev attendance.CheckInEvent
	var kiosk, line, comment sql.NullString
	var lat, lon sql.NullFloat64
	var ts, created string

	err := row.Scan(&ev.ID, &ev.UserID, &kiosk, &line, &ev.Type, &ts,
		&lat, &lon, &ev.LocationValid, &ev.Status, &ev.MinutesLate,
		&ev.MinutesEarly, &comment, &ev.RequiresComment, &created)
	if err != nil {
		return attendance.CheckInEvent{}, err
	}

	ev.KioskID = kiosk.String
	ev.ProductLine = line.String
	ev.Comment = comment.String
	if lat.Valid && lon.Valid {
		ev.Location = &attendance.Geolocation{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if ev.Timestamp, err = parseStamp("checkin", ts); err != nil {
		return attendance.CheckInEvent{}, err
	}
	if ev.CreatedAt, err = parseStamp("checkin created_at", created); err != nil {
		return attendance.CheckInEvent{}, err
	}
	return ev, nil
}

// =============================================================================
// ISSUE STORE
// =============================================================================

func (s *Store) InsertIssue(ctx context.Context, issue attendance.AttendanceIssue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO issues
		(id, user_id, kind, date, expected_at, detected_at, minutes_overdue, resolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, FALSE)`,
		issue.ID, issue.UserID, issue.Kind, issue.Date,
		issue.ExpectedAt.Format(time.RFC3339),
		issue.DetectedAt.Format(time.RFC3339),
		issue.MinutesOverdue,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return attendance.ErrDuplicateIssue
		}
		return fmt.Errorf("failed to insert issue: %w", err)
	}
	return nil
}

func (s *Store) GetIssue(ctx context.Context, id attendance.IssueID) (attendance.AttendanceIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, issueColumns+` WHERE id = ?`, id)
	issue, err := scanIssue(row)
	if err == sql.ErrNoRows {
		return attendance.AttendanceIssue{}, attendance.ErrIssueNotFound
	}
	return issue, err
}

func (s *Store) ListIssues(ctx context.Context, filter attendance.IssueFilter) ([]attendance.AttendanceIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := issueColumns + ` WHERE 1=1`
	var args []any
	if filter.UserID != nil {
		query += ` AND user_id = ?`
		args = append(args, *filter.UserID)
	}
	if filter.Date != nil {
		query += ` AND date = ?`
		args = append(args, *filter.Date)
	}
	if filter.Kind != nil {
		query += ` AND kind = ?`
		args = append(args, *filter.Kind)
	}
	if filter.Resolved != nil {
		query += ` AND resolved = ?`
		args = append(args, *filter.Resolved)
	}
	query += ` ORDER BY detected_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var out []attendance.AttendanceIssue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, issue)
	}
	return out, rows.Err()
}

func (s *Store) ResolveIssue(ctx context.Context, id attendance.IssueID, by, resolution string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE issues
		SET resolved = TRUE, resolved_by = ?, resolution = ?, resolved_at = ?
		WHERE id = ?`,
		by, resolution, at.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to resolve issue: %w", err)
	}
	return requireRowHit(res, attendance.ErrIssueNotFound)
}

const issueColumns = `
	SELECT id, user_id, kind, date, expected_at, detected_at,
	       minutes_overdue, resolved, resolved_by, resolved_at, resolution
	FROM issues`

func scanIssue(row rowScanner) (attendance.AttendanceIssue, error) {
	var issue attendance.AttendanceIssue
	var expected, detected string
	var resolvedBy, resolvedAt, resolution sql.NullString

	err := row.Scan(&issue.ID, &issue.UserID, &issue.Kind, &issue.Date,
		&expected, &detected, &issue.MinutesOverdue, &issue.Resolved,
		&resolvedBy, &resolvedAt, &resolution)
	if err != nil {
		return attendance.AttendanceIssue{}, err
	}

	if issue.ExpectedAt, err = parseStamp("issue expected_at", expected); err != nil {
		return attendance.AttendanceIssue{}, err
	}
	if issue.DetectedAt, err = parseStamp("issue detected_at", detected); err != nil {
		return attendance.AttendanceIssue{}, err
	}
	issue.ResolvedBy = resolvedBy.String
	issue.Resolution = resolution.String
	if resolvedAt.Valid {
		t, err := parseStamp("issue resolved_at", resolvedAt.String)
		if err != nil {
			return attendance.AttendanceIssue{}, err
		}
		issue.ResolvedAt = &t
	}
	return issue, nil
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

func (s *Store) GetEmployee(ctx context.Context, id attendance.UserID) (attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, employeeColumns+` WHERE id = ?`, id)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return attendance.Employee{}, attendance.ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]attendance.Employee, error) {
	return s.listEmployees(ctx, employeeColumns+` ORDER BY id`)
}

func (s *Store) ListActive(ctx context.Context) ([]attendance.Employee, error) {
	return s.listEmployees(ctx, employeeColumns+` WHERE active = TRUE ORDER BY id`)
}

func (s *Store) ListActiveAdmins(ctx context.Context) ([]attendance.Employee, error) {
	return s.listEmployees(ctx,
		employeeColumns+` WHERE active = TRUE AND role IN ('admin', 'super_admin') ORDER BY id`)
}

func (s *Store) listEmployees(ctx context.Context, query string, args ...any) ([]attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []attendance.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) PutEmployee(ctx context.Context, e attendance.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees
		(id, name, email, role, product_line, kiosk_id, supervisor_id, active, total_late_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			product_line = excluded.product_line,
			kiosk_id = excluded.kiosk_id,
			supervisor_id = excluded.supervisor_id,
			active = excluded.active,
			total_late_minutes = excluded.total_late_minutes`,
		e.ID, e.Name, e.Email, e.Role, e.ProductLine, e.KioskID,
		e.SupervisorID, e.Active, e.TotalLateMinutes)
	if err != nil {
		return fmt.Errorf("failed to put employee: %w", err)
	}
	return nil
}

func (s *Store) AddLateMinutes(ctx context.Context, id attendance.UserID, minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE employees SET total_late_minutes = total_late_minutes + ? WHERE id = ?`,
		minutes, id)
	if err != nil {
		return fmt.Errorf("failed to add late minutes: %w", err)
	}
	return requireRowHit(res, attendance.ErrEmployeeNotFound)
}

const employeeColumns = `
	SELECT id, name, email, role, product_line, kiosk_id, supervisor_id,
	       active, total_late_minutes
	FROM employees`

func scanEmployee(row rowScanner) (attendance.Employee, error) {
	var emp attendance.Employee
	var email, line, kiosk, supervisor sql.NullString

	err := row.Scan(&emp.ID, &emp.Name, &email, &emp.Role, &line, &kiosk,
		&supervisor, &emp.Active, &emp.TotalLateMinutes)
	if err != nil {
		return attendance.Employee{}, err
	}
	emp.Email = email.String
	emp.ProductLine = line.String
	emp.KioskID = kiosk.String
	emp.SupervisorID = attendance.UserID(supervisor.String)
	return emp, nil
}

// =============================================================================
// ACTION LOG
// =============================================================================

func (s *Store) AppendAction(ctx context.Context, action attendance.PunctualityAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	detailsJSON, _ := json.Marshal(action.Details)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO actions (id, source_id, kind, executed_at, success, error, details_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		action.ID, action.SourceID, action.Kind,
		action.ExecutedAt.Format(time.RFC3339),
		action.Success, nullString(action.Error), string(detailsJSON))
	if err != nil {
		return fmt.Errorf("failed to append action: %w", err)
	}
	return nil
}

func (s *Store) ListBySource(ctx context.Context, sourceID string) ([]attendance.PunctualityAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, kind, executed_at, success, error, details_json
		FROM actions WHERE source_id = ? ORDER BY executed_at`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	var out []attendance.PunctualityAction
	for rows.Next() {
		var a attendance.PunctualityAction
		var executed string
		var errText, detailsJSON sql.NullString
		if err := rows.Scan(&a.ID, &a.SourceID, &a.Kind, &executed,
			&a.Success, &errText, &detailsJSON); err != nil {
			return nil, err
		}
		if a.ExecutedAt, err = parseStamp("action executed_at", executed); err != nil {
			return nil, err
		}
		a.Error = errText.String
		if detailsJSON.Valid && detailsJSON.String != "" && detailsJSON.String != "null" {
			_ = json.Unmarshal([]byte(detailsJSON.String), &a.Details)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// =============================================================================
// SCHEDULE STORE
// =============================================================================

// scheduleJSON is the persisted shape of a ProductSchedule. Clock times are
// stored as "15:04" strings to keep the document readable.
type scheduleJSON struct {
	WorkDays             []int  `json:"workDays"`
	EntryTime            string `json:"entryTime"`
	ExitTime             string `json:"exitTime"`
	LunchStartTime       string `json:"lunchStartTime"`
	LunchDurationMinutes int    `json:"lunchDurationMinutes"`
	ToleranceMinutes     int    `json:"toleranceMinutes"`
	WorksOnHolidays      bool   `json:"worksOnHolidays"`
}

func (s *Store) GetSchedule(ctx context.Context, productLine string) (schedule.ProductSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT config_json FROM schedules WHERE product_line = ?`, productLine).Scan(&configJSON)
	if err == sql.ErrNoRows {
		return schedule.ProductSchedule{}, schedule.ErrScheduleNotFound
	}
	if err != nil {
		return schedule.ProductSchedule{}, fmt.Errorf("failed to get schedule: %w", err)
	}

	var doc scheduleJSON
	if err := json.Unmarshal([]byte(configJSON), &doc); err != nil {
		return schedule.ProductSchedule{}, fmt.Errorf("corrupt schedule document for %s: %w", productLine, err)
	}

	out := schedule.ProductSchedule{
		ProductLine:          productLine,
		LunchDurationMinutes: doc.LunchDurationMinutes,
		ToleranceMinutes:     doc.ToleranceMinutes,
		WorksOnHolidays:      doc.WorksOnHolidays,
	}
	for _, wd := range doc.WorkDays {
		out.WorkDays = append(out.WorkDays, time.Weekday(wd))
	}
	if out.EntryTime, err = schedule.ParseClock(doc.EntryTime); err != nil {
		return schedule.ProductSchedule{}, err
	}
	if out.ExitTime, err = schedule.ParseClock(doc.ExitTime); err != nil {
		return schedule.ProductSchedule{}, err
	}
	if out.LunchStartTime, err = schedule.ParseClock(doc.LunchStartTime); err != nil {
		return schedule.ProductSchedule{}, err
	}
	return out, nil
}

func (s *Store) PutSchedule(ctx context.Context, sched schedule.ProductSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := scheduleJSON{
		EntryTime:            sched.EntryTime.String(),
		ExitTime:             sched.ExitTime.String(),
		LunchStartTime:       sched.LunchStartTime.String(),
		LunchDurationMinutes: sched.LunchDurationMinutes,
		ToleranceMinutes:     sched.ToleranceMinutes,
		WorksOnHolidays:      sched.WorksOnHolidays,
	}
	for _, wd := range sched.WorkDays {
		doc.WorkDays = append(doc.WorkDays, int(wd))
	}
	configJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schedules (product_line, config_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(product_line) DO UPDATE SET
			config_json = excluded.config_json,
			updated_at = excluded.updated_at`,
		sched.ProductLine, string(configJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to put schedule: %w", err)
	}
	return nil
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

func (s *Store) InsertHoliday(ctx context.Context, h schedule.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	linesJSON, _ := json.Marshal(h.ProductLines)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, product_lines_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		h.ID, h.Date, h.Name, string(linesJSON),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert holiday: %w", err)
	}
	return nil
}

func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

func (s *Store) ListHolidays(ctx context.Context) ([]schedule.Holiday, error) {
	return s.listHolidays(ctx,
		`SELECT id, date, name, product_lines_json FROM holidays ORDER BY date`)
}

func (s *Store) ListHolidaysByDate(ctx context.Context, date attendance.Date) ([]schedule.Holiday, error) {
	return s.listHolidays(ctx,
		`SELECT id, date, name, product_lines_json FROM holidays WHERE date = ?`, date)
}

func (s *Store) listHolidays(ctx context.Context, query string, args ...any) ([]schedule.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var out []schedule.Holiday
	for rows.Next() {
		var h schedule.Holiday
		var linesJSON sql.NullString
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &linesJSON); err != nil {
			return nil, err
		}
		if linesJSON.Valid && linesJSON.String != "" && linesJSON.String != "null" {
			_ = json.Unmarshal([]byte(linesJSON.String), &h.ProductLines)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// =============================================================================
// POLICY DOCUMENT STORE
// =============================================================================

func (s *Store) GetPolicyDoc(ctx context.Context, scope string) (*policy.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc_json FROM policy_docs WHERE scope = ?`, scope).Scan(&docJSON)
	if err == sql.ErrNoRows {
		// Absence is a valid state: the resolver falls through.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy document: %w", err)
	}

	var doc policy.Document
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return nil, fmt.Errorf("corrupt policy document for %s: %w", scope, err)
	}
	return &doc, nil
}

func (s *Store) PutPolicyDoc(ctx context.Context, scope string, doc policy.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode policy document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO policy_docs (scope, doc_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(scope) DO UPDATE SET
			doc_json = excluded.doc_json,
			updated_at = excluded.updated_at`,
		scope, string(docJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to put policy document: %w", err)
	}
	return nil
}

// =============================================================================
// NOTIFICATION STORE
// =============================================================================

func (s *Store) InsertNotification(ctx context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_id, title, message, source_id, created_at, read)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.RecipientID, n.Title, n.Message, nullString(n.SourceID),
		n.CreatedAt.Format(time.RFC3339), n.Read)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (s *Store) ListByRecipient(ctx context.Context, recipientID string) ([]notify.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recipient_id, title, message, source_id, created_at, read
		FROM notifications WHERE recipient_id = ? ORDER BY created_at DESC`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []notify.Notification
	for rows.Next() {
		var n notify.Notification
		var source sql.NullString
		var created string
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message,
			&source, &created, &n.Read); err != nil {
			return nil, err
		}
		n.SourceID = source.String
		if n.CreatedAt, err = parseStamp("notification created_at", created); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func requireRowHit(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
