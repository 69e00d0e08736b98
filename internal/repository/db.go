package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// An in-memory database exists per connection; pin the pool to one so
	// every query sees the same schema.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			org_number TEXT,
			address TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS bank_accounts (
			id TEXT PRIMARY KEY,
			account_number TEXT NOT NULL,
			account_name TEXT,
			is_default INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS drivers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			driver_id TEXT NOT NULL,
			commission_percentage REAL NOT NULL DEFAULT 45.0,
			bank_account_id TEXT,
			is_default INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (bank_account_id) REFERENCES bank_accounts(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drivers_driver_id ON drivers(driver_id)`,

		`CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			template_type TEXT NOT NULL,
			columns TEXT NOT NULL,
			is_default INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_templates_type ON templates(template_type)`,

		`CREATE TABLE IF NOT EXISTS shift_reports (
			id TEXT PRIMARY KEY,
			driver_id TEXT,
			file_name TEXT NOT NULL,
			columns TEXT NOT NULL,
			data TEXT NOT NULL,
			summary TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shift_reports_driver ON shift_reports(driver_id)`,

		`CREATE TABLE IF NOT EXISTS shift_report_edits (
			id TEXT PRIMARY KEY,
			report_id TEXT NOT NULL,
			row_index INTEGER NOT NULL,
			column_name TEXT NOT NULL,
			old_value TEXT,
			new_value TEXT,
			note TEXT,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (report_id) REFERENCES shift_reports(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shift_report_edits_report ON shift_report_edits(report_id)`,

		`CREATE TABLE IF NOT EXISTS salary_reports (
			id TEXT PRIMARY KEY,
			driver_id TEXT NOT NULL,
			report_period TEXT,
			file_names TEXT NOT NULL,
			columns TEXT NOT NULL,
			data TEXT NOT NULL,
			summary TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_salary_reports_driver ON salary_reports(driver_id)`,

		`CREATE TABLE IF NOT EXISTS transaction_reports (
			id TEXT PRIMARY KEY,
			report_month TEXT NOT NULL,
			account_info TEXT NOT NULL,
			payout_groups TEXT NOT NULL,
			total_brutto REAL NOT NULL,
			total_avgifter REAL NOT NULL,
			total_netto REAL NOT NULL,
			file_name TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transaction_reports_month ON transaction_reports(report_month)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	return nil
}
