package repository

import (
	"context"
	"strings"

	"github.com/attendly/attendly-backend/pkg/database"
	"github.com/attendly/attendly-backend/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// SearchLimit caps the unpaginated employee search
const SearchLimit = 50

// Employee represents an hr_employee row with its department name
type Employee struct {
	ID           int64   `db:"id" json:"id"`
	Code         *string `db:"emp_code" json:"emp_code,omitempty"`
	Pin          *string `db:"emp_pin" json:"emp_pin,omitempty"`
	FirstName    string  `db:"emp_firstname" json:"emp_firstname"`
	LastName     string  `db:"emp_lastname" json:"emp_lastname"`
	Email        *string `db:"emp_email" json:"emp_email"`
	Role         *string `db:"emp_role" json:"emp_role,omitempty"`
	DepartmentID *int64  `db:"emp_dept" json:"id_dept"`
	Department   *string `db:"dept_name" json:"dept_name"`
	Active       bool    `db:"emp_active" json:"emp_active"`
}

// FullName returns "first last"
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// EmployeeUpdate holds the editable employee fields
type EmployeeUpdate struct {
	FirstName    string
	LastName     string
	Email        *string
	DepartmentID *int64
	Active       bool
}

// Department represents an hr_department row
type Department struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"dept_name" json:"dept_name"`
}

// EmployeeRepository handles employee persistence
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeSelect = `
		SELECT
			e.id, e.emp_code, e.emp_pin, e.emp_firstname, e.emp_lastname,
			e.emp_email, e.emp_role, e.emp_dept, dp.dept_name, e.emp_active
		FROM hr_employee e
		LEFT JOIN hr_department dp ON dp.id = e.emp_dept`

// likeEscaper escapes LIKE wildcards so search terms match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lowercase LIKE pattern for a substring match.
// Queries using it must declare ESCAPE '\'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// termCondition matches active employees whose name, pin, email, role or
// department contains the term
func termCondition(term string, args map[string]interface{}) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return "e.emp_active = 1"
	}
	args["term"] = containsPattern(term)
	return `e.emp_active = 1 AND (
			LOWER(e.emp_firstname || ' ' || e.emp_lastname) LIKE :term ESCAPE '\'
			OR LOWER(COALESCE(e.emp_pin, '')) LIKE :term ESCAPE '\'
			OR LOWER(COALESCE(e.emp_email, '')) LIKE :term ESCAPE '\'
			OR LOWER(COALESCE(e.emp_role, '')) LIKE :term ESCAPE '\'
			OR LOWER(COALESCE(dp.dept_name, '')) LIKE :term ESCAPE '\'
		)`
}

// List returns a page of active employees matching term and the total match count
func (r *EmployeeRepository) List(ctx context.Context, term string, page Page) ([]Employee, int64, error) {
	args := map[string]interface{}{}
	where := termCondition(term, args)

	dataQuery := employeeSelect + `
		WHERE ` + where + `
		ORDER BY e.emp_firstname, e.emp_lastname, e.id` + pageClause(page, args)
	countQuery := `SELECT COUNT(*) FROM hr_employee e
		LEFT JOIN hr_department dp ON dp.id = e.emp_dept
		WHERE ` + where

	var (
		employees []Employee
		total     int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.SelectNamed(gctx, &employees, dataQuery, args)
	})
	g.Go(func() error {
		return r.db.GetNamed(gctx, &total, countQuery, args)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, database.Err(ctx, err, "employee")
	}

	if employees == nil {
		employees = []Employee{}
	}
	return employees, total, nil
}

// Search returns up to SearchLimit active employees matching term
func (r *EmployeeRepository) Search(ctx context.Context, term string) ([]Employee, error) {
	args := map[string]interface{}{}
	query := employeeSelect + `
		WHERE ` + termCondition(term, args) + `
		ORDER BY e.emp_firstname, e.emp_lastname, e.id` + pageClause(Page{Limit: SearchLimit}, args)

	employees := []Employee{}
	if err := r.db.SelectNamed(ctx, &employees, query, args); err != nil {
		return nil, database.Err(ctx, err, "employee")
	}
	return employees, nil
}

// All returns every employee, active or not
func (r *EmployeeRepository) All(ctx context.Context) ([]Employee, error) {
	employees := []Employee{}
	query := employeeSelect + `
		ORDER BY e.id`
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, database.Err(ctx, err, "employee")
	}
	return employees, nil
}

// GetByID returns an employee or NotFound
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*Employee, error) {
	var employee Employee
	query := employeeSelect + `
		WHERE e.id = :id`
	if err := r.db.GetNamed(ctx, &employee, query, map[string]interface{}{"id": id}); err != nil {
		return nil, database.Err(ctx, err, "employee")
	}
	return &employee, nil
}

// Update changes the editable fields of an employee
func (r *EmployeeRepository) Update(ctx context.Context, id int64, u EmployeeUpdate) error {
	active := 0
	if u.Active {
		active = 1
	}
	var email, department interface{}
	if u.Email != nil {
		email = *u.Email
	}
	if u.DepartmentID != nil {
		department = *u.DepartmentID
	}

	query, args, err := r.db.BindNamed(`
		UPDATE hr_employee
		SET emp_firstname = :first_name,
			emp_lastname = :last_name,
			emp_email = :email,
			emp_dept = :department_id,
			emp_active = :active
		WHERE id = :id`, map[string]interface{}{
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"email":         email,
		"department_id": department,
		"active":        active,
		"id":            id,
	})
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return database.Err(ctx, err, "employee")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("employee")
	}

	return nil
}

// Departments returns every department ordered by name
func (r *EmployeeRepository) Departments(ctx context.Context) ([]Department, error) {
	departments := []Department{}
	query := `SELECT id, dept_name FROM hr_department ORDER BY dept_name, id`
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, database.Err(ctx, err, "department")
	}
	return departments, nil
}
