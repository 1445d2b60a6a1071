package repository

import (
	"context"

	"github.com/attendly/attendly-backend/pkg/database"
)

// Exception types derived from the paycode description
const (
	ExceptionVacation = "Vacaciones"
	ExceptionSick     = "Enfermedad"
)

// ExceptionRow is an exception assignment joined with employee and paycode
type ExceptionRow struct {
	ID            int64              `db:"id"`
	EmployeeID    int64              `db:"employee_id"`
	EmployeePin   *string            `db:"employee_pin"`
	FirstName     string             `db:"first_name"`
	LastName      string             `db:"last_name"`
	ExceptionDate database.Timestamp `db:"exception_date"`
	StartTime     database.Timestamp `db:"starttime"`
	EndTime       database.Timestamp `db:"endtime"`
	PaycodeID     int64              `db:"paycode_id"`
	Paycode       string             `db:"paycode"`
	ExceptionType string             `db:"exception_type"`
}

// ExceptionRepository reads exception assignments
type ExceptionRepository struct {
	db *database.DB
}

// NewExceptionRepository creates a new exception repository
func NewExceptionRepository(db *database.DB) *ExceptionRepository {
	return &ExceptionRepository{db: db}
}

const exceptionSelect = `
		SELECT
			ea.id,
			e.id AS employee_id,
			e.emp_pin AS employee_pin,
			e.emp_firstname AS first_name,
			e.emp_lastname AS last_name,
			ea.exception_date,
			ea.starttime,
			ea.endtime,
			ap.id AS paycode_id,
			ap.pc_desc AS paycode,
			CASE
				WHEN LOWER(ap.pc_desc) LIKE '%vacation%' THEN '` + ExceptionVacation + `'
				WHEN LOWER(ap.pc_desc) LIKE '%sick%' THEN '` + ExceptionSick + `'
				ELSE ap.pc_desc
			END AS exception_type
		FROM att_exceptionassign ea
		JOIN att_paycode ap ON ap.id = ea.paycode_id
		JOIN hr_employee e ON e.id = ea.employee_id`

// List returns the exceptions of active employees within [startDate, endDate]
func (r *ExceptionRepository) List(ctx context.Context, startDate, endDate string) ([]ExceptionRow, error) {
	d := r.db.Dialect
	query := exceptionSelect + `
		WHERE e.emp_active = 1
			AND ` + d.DateOf("ea.exception_date") + ` BETWEEN ` + d.DateParam(":start_date") + ` AND ` + d.DateParam(":end_date") + `
		ORDER BY e.emp_pin, ea.exception_date, ea.id`

	rows := []ExceptionRow{}
	err := r.db.SelectNamed(ctx, &rows, query, map[string]interface{}{
		"start_date": startDate,
		"end_date":   endDate,
	})
	if err != nil {
		return nil, database.Err(ctx, err, "exception")
	}
	return rows, nil
}

// ListByPaycode returns every exception of active employees with the given paycode
func (r *ExceptionRepository) ListByPaycode(ctx context.Context, paycodeID int64) ([]ExceptionRow, error) {
	query := exceptionSelect + `
		WHERE e.emp_active = 1 AND ea.paycode_id = :paycode_id
		ORDER BY e.emp_pin, ea.exception_date, ea.id`

	rows := []ExceptionRow{}
	err := r.db.SelectNamed(ctx, &rows, query, map[string]interface{}{"paycode_id": paycodeID})
	if err != nil {
		return nil, database.Err(ctx, err, "exception")
	}
	return rows, nil
}
