package testutil

import (
	"context"
	"testing"

	"github.com/attendly/attendly-backend/pkg/database"
)

// Fixtures inserts attendance rows for tests. Timestamps are passed as
// 'YYYY-MM-DD HH:MM:SS' text, the form the clock device writes.
type Fixtures struct {
	db *database.DB
	t  *testing.T
}

// NewFixtures creates a fixture writer for db
func NewFixtures(t *testing.T, db *database.DB) *Fixtures {
	return &Fixtures{db: db, t: t}
}

// EmployeeFixture represents test employee data
type EmployeeFixture struct {
	ID           int64
	Code         string
	Pin          string
	FirstName    string
	LastName     string
	Email        string
	DepartmentID int64
	Active       bool
}

func (f *Fixtures) exec(query string, args ...interface{}) {
	f.t.Helper()
	if _, err := f.db.ExecContext(context.Background(), f.db.Rebind(query), args...); err != nil {
		f.t.Fatalf("fixture insert failed: %v\n%s", err, query)
	}
}

// Department inserts a department
func (f *Fixtures) Department(id int64, name string) *Fixtures {
	f.t.Helper()
	f.exec(`INSERT INTO hr_department (id, dept_name) VALUES (?, ?)`, id, name)
	return f
}

// Employee inserts an employee
func (f *Fixtures) Employee(e EmployeeFixture) *Fixtures {
	f.t.Helper()
	active := 0
	if e.Active {
		active = 1
	}
	var dept interface{}
	if e.DepartmentID != 0 {
		dept = e.DepartmentID
	}
	f.exec(`INSERT INTO hr_employee (id, emp_code, emp_pin, emp_firstname, emp_lastname, emp_email, emp_dept, emp_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Code, e.Pin, e.FirstName, e.LastName, e.Email, dept, active)
	return f
}

// Punch inserts a punch for an employee
func (f *Fixtures) Punch(employeeID int64, at string) *Fixtures {
	f.t.Helper()
	f.exec(`INSERT INTO att_punches (emp_id, punch_time) VALUES (?, ?)`, employeeID, at)
	return f
}

// Paycode inserts a paycode
func (f *Fixtures) Paycode(id int64, desc string) *Fixtures {
	f.t.Helper()
	f.exec(`INSERT INTO att_paycode (id, pc_desc) VALUES (?, ?)`, id, desc)
	return f
}

// Exception assigns a paycode to an employee for a day
func (f *Fixtures) Exception(employeeID int64, date, start, end string, paycodeID int64) *Fixtures {
	f.t.Helper()
	f.exec(`INSERT INTO att_exceptionassign (employee_id, exception_date, starttime, endtime, paycode_id)
		VALUES (?, ?, ?, ?, ?)`, employeeID, date, start, end, paycodeID)
	return f
}

// Shift inserts a shift with its start time ('HH:MM:SS')
func (f *Fixtures) Shift(id int64, start string) *Fixtures {
	f.t.Helper()
	f.exec(`INSERT INTO att_shift (id, shift_start) VALUES (?, ?)`, id, start)
	return f
}

// DayDetail inserts a processed attendance day; an empty checkin is stored as NULL
func (f *Fixtures) DayDetail(employeeID int64, date, checkin string, shiftID int64) *Fixtures {
	f.t.Helper()
	var in interface{}
	if checkin != "" {
		in = checkin
	}
	f.exec(`INSERT INTO att_day_details (employee_id, att_date, checkin, shift_id) VALUES (?, ?, ?, ?)`,
		employeeID, date, in, shiftID)
	return f
}

// DaySummary inserts a processed day with its paycode
func (f *Fixtures) DaySummary(employeeID int64, date string, paycodeID int64) *Fixtures {
	f.t.Helper()
	f.exec(`INSERT INTO att_day_summary (employee_id, att_date, paycode_id) VALUES (?, ?, ?)`,
		employeeID, date, paycodeID)
	return f
}

// StandardPaycodes inserts the paycodes used by the default configuration
func (f *Fixtures) StandardPaycodes() *Fixtures {
	return f.
		Paycode(11, "Sick leave").
		Paycode(12, "Vacation").
		Paycode(13, "Permiso personal")
}
