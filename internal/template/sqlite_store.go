package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/username/employee-schedule/internal/schedule"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS employees (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS template_ranges (
	employee_id INTEGER NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
	weekday     INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
	position    INTEGER NOT NULL,
	start_time  TEXT NOT NULL,
	end_time    TEXT NOT NULL,
	PRIMARY KEY (employee_id, weekday, position)
);
`

// SQLiteStore keeps weekly templates in a SQLite database
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLiteStore opens the database at dsn and applies the schema
func OpenSQLiteStore(ctx context.Context, dsn string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite allows a single writer; a single connection also keeps
	// ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, logger: logger}
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite template store opened", zap.String("dsn", dsn))
	return store, nil
}

// withForeignKeys makes the driver enable foreign keys on every new connection,
// a PRAGMA executed once only reaches the connection it ran on
func withForeignKeys(dsn string) string {
	const pragma = "_pragma=foreign_keys(1)"
	if strings.Contains(dsn, pragma) {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragma
	}
	return dsn + "?" + pragma
}

// Migrate creates the schema if it does not exist yet
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveTemplate creates or replaces the employee and its template in one transaction
func (s *SQLiteStore) SaveTemplate(ctx context.Context, employeeID int64, name string, template schedule.WeeklyTemplate) error {
	if err := template.Validate(); err != nil {
		return err
	}

	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO employees (id, name) VALUES (?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
			employeeID, name); err != nil {
			return fmt.Errorf("failed to upsert employee: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM template_ranges WHERE employee_id = ?`, employeeID); err != nil {
			return fmt.Errorf("failed to clear template: %w", err)
		}

		for _, day := range sortedWeekdays(template) {
			for position, tr := range template[day] {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO template_ranges (employee_id, weekday, position, start_time, end_time)
					 VALUES (?, ?, ?, ?, ?)`,
					employeeID, int(day), position, tr.Start.String(), tr.End.String()); err != nil {
					return fmt.Errorf("failed to insert range: %w", err)
				}
			}
		}
		return nil
	})
}

// DeleteEmployee removes the employee and its template
func (s *SQLiteStore) DeleteEmployee(ctx context.Context, employeeID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return schedule.ErrEmployeeNotFound
	}
	return nil
}

// WeeklyTemplate reads the employee's template
func (s *SQLiteStore) WeeklyTemplate(ctx context.Context, employeeID int64) (schedule.WeeklyTemplate, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM employees WHERE id = ?`, employeeID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, schedule.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT weekday, start_time, end_time FROM template_ranges
		 WHERE employee_id = ? ORDER BY weekday, position`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query template: %w", err)
	}
	defer rows.Close()

	template := make(schedule.WeeklyTemplate)
	for rows.Next() {
		var (
			weekday    int
			start, end string
		)
		if err := rows.Scan(&weekday, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan range: %w", err)
		}

		startTime, err := schedule.ParseLocalTime(start)
		if err != nil {
			return nil, fmt.Errorf("%w: employee %d: %v", schedule.ErrInvalidTemplate, employeeID, err)
		}
		endTime, err := schedule.ParseLocalTime(end)
		if err != nil {
			return nil, fmt.Errorf("%w: employee %d: %v", schedule.ErrInvalidTemplate, employeeID, err)
		}

		day := time.Weekday(weekday)
		template[day] = append(template[day], schedule.TimeRange{Start: startTime, End: endTime})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read template rows: %w", err)
	}

	return template, nil
}

func (s *SQLiteStore) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func sortedWeekdays(template schedule.WeeklyTemplate) []time.Weekday {
	days := make([]time.Weekday, 0, len(template))
	for day := range template {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}
