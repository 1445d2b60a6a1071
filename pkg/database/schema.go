package database

import (
	"context"
	"fmt"

	"github.com/attendly/attendly-backend/pkg/config"
)

// The reporting service reads the attendance device schema as-is. These
// statements create it for fresh installs, local tooling and tests.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS hr_department (
		id INTEGER PRIMARY KEY,
		dept_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS hr_employee (
		id INTEGER PRIMARY KEY,
		emp_code TEXT,
		emp_pin TEXT,
		emp_firstname TEXT NOT NULL,
		emp_lastname TEXT NOT NULL,
		emp_email TEXT,
		emp_role TEXT,
		emp_dept INTEGER REFERENCES hr_department(id),
		emp_active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS att_punches (
		id INTEGER PRIMARY KEY,
		emp_id INTEGER NOT NULL,
		punch_time DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_att_punches_emp_time ON att_punches (emp_id, punch_time)`,
	`CREATE TABLE IF NOT EXISTS att_paycode (
		id INTEGER PRIMARY KEY,
		pc_desc TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS att_exceptionassign (
		id INTEGER PRIMARY KEY,
		employee_id INTEGER NOT NULL,
		exception_date DATE NOT NULL,
		starttime DATETIME,
		endtime DATETIME,
		paycode_id INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS att_shift (
		id INTEGER PRIMARY KEY,
		shift_start TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS att_day_details (
		id INTEGER PRIMARY KEY,
		employee_id INTEGER NOT NULL,
		att_date DATE NOT NULL,
		checkin DATETIME,
		shift_ID INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS att_day_summary (
		id INTEGER PRIMARY KEY,
		employee_id INTEGER NOT NULL,
		att_date DATE NOT NULL,
		paycode_id INTEGER
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS hr_department (
		id BIGINT PRIMARY KEY,
		dept_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS hr_employee (
		id BIGINT PRIMARY KEY,
		emp_code TEXT,
		emp_pin TEXT,
		emp_firstname TEXT NOT NULL,
		emp_lastname TEXT NOT NULL,
		emp_email TEXT,
		emp_role TEXT,
		emp_dept BIGINT REFERENCES hr_department(id),
		emp_active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS att_punches (
		id BIGSERIAL PRIMARY KEY,
		emp_id BIGINT NOT NULL,
		punch_time TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_att_punches_emp_time ON att_punches (emp_id, punch_time)`,
	`CREATE TABLE IF NOT EXISTS att_paycode (
		id BIGINT PRIMARY KEY,
		pc_desc TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS att_exceptionassign (
		id BIGSERIAL PRIMARY KEY,
		employee_id BIGINT NOT NULL,
		exception_date DATE NOT NULL,
		starttime TIMESTAMP,
		endtime TIMESTAMP,
		paycode_id BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS att_shift (
		id BIGINT PRIMARY KEY,
		shift_start TIME
	)`,
	`CREATE TABLE IF NOT EXISTS att_day_details (
		id BIGSERIAL PRIMARY KEY,
		employee_id BIGINT NOT NULL,
		att_date DATE NOT NULL,
		checkin TIMESTAMP,
		shift_id BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS att_day_summary (
		id BIGSERIAL PRIMARY KEY,
		employee_id BIGINT NOT NULL,
		att_date DATE NOT NULL,
		paycode_id BIGINT
	)`,
}

// Tables lists the schema tables in dependency order
var Tables = []string{
	"hr_department",
	"hr_employee",
	"att_punches",
	"att_paycode",
	"att_exceptionassign",
	"att_shift",
	"att_day_details",
	"att_day_summary",
}

// EnsureSchema creates any missing attendance tables
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := sqliteSchema
	if db.Dialect.Name() == config.DriverPostgres {
		statements = postgresSchema
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	db.logger.Debug().Str("driver", db.Dialect.Name()).Msg("schema ensured")
	return nil
}
