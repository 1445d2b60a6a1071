package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/attendly/attendly-backend/pkg/database"
	"golang.org/x/sync/errgroup"
)

// Attendance statuses of an (employee, day) pair
const (
	StatusComplete = "Completo"
	StatusPending  = "Pendiente"
	StatusMissing  = "Sin Marcar"
	// StatusAll disables the status filter
	StatusAll = "Todos"
)

// AttendanceFilter narrows the attendance queries. Dates are 'YYYY-MM-DD'.
type AttendanceFilter struct {
	StartDate  string
	EndDate    string
	Name       string
	Department string
	EmployeeID *int64
	Status     string
}

// Page selects a window of a result set. A zero Limit returns every row.
type Page struct {
	Limit  int
	Offset int
}

// DayRow is one (employee, day) pair with its punches aggregated
type DayRow struct {
	EmployeeID   int64              `db:"employee_id"`
	EmployeeCode sql.NullString     `db:"employee_code"`
	FirstName    string             `db:"first_name"`
	LastName     string             `db:"last_name"`
	Department   sql.NullString     `db:"department"`
	Day          database.Timestamp `db:"day"`
	PunchCount   int                `db:"punch_count"`
	FirstPunch   database.Timestamp `db:"first_punch"`
	LastPunch    database.Timestamp `db:"last_punch"`
	Status       string             `db:"status"`
}

// ControlRow is one (employee, day) cell source of the monthly control report
type ControlRow struct {
	EmployeeID  int64              `db:"employee_id"`
	EmployeePin sql.NullString     `db:"employee_pin"`
	FirstName   string             `db:"first_name"`
	LastName    string             `db:"last_name"`
	Department  sql.NullString     `db:"department"`
	Day         database.Timestamp `db:"day"`
	PunchCount  int                `db:"punch_count"`
	FirstPunch  database.Timestamp `db:"first_punch"`
	LastPunch   database.Timestamp `db:"last_punch"`
	PaycodeID   sql.NullInt64      `db:"paycode_id"`
}

// AttendanceRepository runs the punch aggregation queries
type AttendanceRepository struct {
	db *database.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *database.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ============================================================================
// DATE SPINE SEARCH
// ============================================================================

// SearchByDay returns one row per active employee and calendar day of the
// filter range, including days without punches, together with the number
// of rows the unpaginated query yields.
func (r *AttendanceRepository) SearchByDay(ctx context.Context, f AttendanceFilter, page Page) ([]DayRow, int64, error) {
	args := map[string]interface{}{
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	}
	spine, grouped, outer := r.dayQuery(f, args)

	dataQuery := spine + `
		SELECT * FROM (` + grouped + `) g` + outer + `
		ORDER BY g.day, g.last_name, g.first_name, g.employee_id`
	dataQuery += pageClause(page, args)

	countQuery := spine + `
		SELECT COUNT(*) FROM (` + grouped + `) g` + outer

	var (
		rows  []DayRow
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.SelectNamed(gctx, &rows, dataQuery, args)
	})
	g.Go(func() error {
		return r.db.GetNamed(gctx, &total, countQuery, args)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, database.Err(ctx, err, "attendance")
	}

	if rows == nil {
		rows = []DayRow{}
	}
	return rows, total, nil
}

// dayQuery assembles the recursive spine, the grouped (employee, day)
// subquery and the post-aggregation status predicate
func (r *AttendanceRepository) dayQuery(f AttendanceFilter, args map[string]interface{}) (spine, grouped, outer string) {
	d := r.db.Dialect

	spine = `WITH RECURSIVE ` + d.DateSpine("dates", ":start_date", ":end_date")

	grouped = `
			SELECT
				e.id AS employee_id,
				e.emp_code AS employee_code,
				e.emp_firstname AS first_name,
				e.emp_lastname AS last_name,
				dp.dept_name AS department,
				dates.d AS day,
				COUNT(p.punch_time) AS punch_count,
				MIN(p.punch_time) AS first_punch,
				MAX(p.punch_time) AS last_punch,
				CASE
					WHEN COUNT(p.punch_time) = 0 THEN '` + StatusMissing + `'
					WHEN COUNT(p.punch_time) = 1 THEN '` + StatusPending + `'
					ELSE '` + StatusComplete + `'
				END AS status
			FROM hr_employee e
			CROSS JOIN dates
			LEFT JOIN att_punches p
				ON p.emp_id = e.id AND ` + d.DateOf("p.punch_time") + ` = dates.d
			LEFT JOIN hr_department dp ON dp.id = e.emp_dept
			WHERE ` + employeeConditions(f, args) + `
			GROUP BY e.id, e.emp_code, e.emp_firstname, e.emp_lastname, dp.dept_name, dates.d`

	if f.Status != "" && f.Status != StatusAll {
		args["status"] = f.Status
		outer = `
		WHERE g.status = :status`
	}

	return spine, grouped, outer
}

// employeeConditions renders the pre-aggregation filters
func employeeConditions(f AttendanceFilter, args map[string]interface{}) string {
	conds := []string{"e.emp_active = 1"}

	if name := strings.TrimSpace(f.Name); name != "" {
		conds = append(conds, "LOWER(e.emp_firstname || ' ' || e.emp_lastname) LIKE :name ESCAPE '\\'")
		args["name"] = containsPattern(name)
	}
	if f.Department != "" {
		conds = append(conds, "dp.dept_name = :department")
		args["department"] = f.Department
	}
	if f.EmployeeID != nil {
		conds = append(conds, "e.id = :employee_id")
		args["employee_id"] = *f.EmployeeID
	}

	return strings.Join(conds, " AND ")
}

func pageClause(page Page, args map[string]interface{}) string {
	if page.Limit <= 0 {
		return ""
	}
	args["limit"] = page.Limit
	args["offset"] = page.Offset
	return `
		LIMIT :limit OFFSET :offset`
}

// ============================================================================
// PUNCH DAYS
// ============================================================================

// PunchDays lists the days on which employees punched at least once, grouped
// by employee and date. Employees without punches do not appear.
func (r *AttendanceRepository) PunchDays(ctx context.Context, f AttendanceFilter, page Page) ([]DayRow, int64, error) {
	d := r.db.Dialect
	args := map[string]interface{}{
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	}

	where := d.DateOf("p.punch_time") + ` BETWEEN ` + d.DateParam(":start_date") + ` AND ` + d.DateParam(":end_date")
	if f.Department != "" {
		where += ` AND dp.dept_name = :department`
		args["department"] = f.Department
	}
	if f.EmployeeID != nil {
		where += ` AND e.id = :employee_id`
		args["employee_id"] = *f.EmployeeID
	}

	grouped := `
			SELECT
				e.id AS employee_id,
				e.emp_code AS employee_code,
				e.emp_firstname AS first_name,
				e.emp_lastname AS last_name,
				dp.dept_name AS department,
				` + d.DateOf("p.punch_time") + ` AS day,
				COUNT(*) AS punch_count,
				MIN(p.punch_time) AS first_punch,
				MAX(p.punch_time) AS last_punch
			FROM att_punches p
			JOIN hr_employee e ON e.id = p.emp_id
			LEFT JOIN hr_department dp ON dp.id = e.emp_dept
			WHERE ` + where + `
			GROUP BY e.id, e.emp_code, e.emp_firstname, e.emp_lastname, dp.dept_name, ` + d.DateOf("p.punch_time")

	dataQuery := `SELECT * FROM (` + grouped + `) g
		ORDER BY g.day, g.last_name, g.first_name, g.employee_id` + pageClause(page, args)
	countQuery := `SELECT COUNT(*) FROM (` + grouped + `) g`

	var (
		rows  []DayRow
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.SelectNamed(gctx, &rows, dataQuery, args)
	})
	g.Go(func() error {
		return r.db.GetNamed(gctx, &total, countQuery, args)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, database.Err(ctx, err, "attendance")
	}

	for i := range rows {
		rows[i].Status = StatusFor(rows[i].PunchCount)
	}
	if rows == nil {
		rows = []DayRow{}
	}
	return rows, total, nil
}

// StatusFor classifies a day by its number of punches
func StatusFor(punches int) string {
	switch {
	case punches == 0:
		return StatusMissing
	case punches == 1:
		return StatusPending
	default:
		return StatusComplete
	}
}

// ============================================================================
// CONTROL GRID
// ============================================================================

// ControlGrid returns every (active employee, day) pair of the range with
// its punch aggregate and the lowest paycode assigned that day.
func (r *AttendanceRepository) ControlGrid(ctx context.Context, startDate, endDate, department string) ([]ControlRow, error) {
	d := r.db.Dialect
	args := map[string]interface{}{
		"start_date": startDate,
		"end_date":   endDate,
	}

	where := "e.emp_active = 1"
	if department != "" {
		where += " AND dp.dept_name = :department"
		args["department"] = department
	}

	query := `WITH RECURSIVE ` + d.DateSpine("dates", ":start_date", ":end_date") + `
		SELECT
			e.id AS employee_id,
			e.emp_pin AS employee_pin,
			e.emp_firstname AS first_name,
			e.emp_lastname AS last_name,
			dp.dept_name AS department,
			dates.d AS day,
			COUNT(p.punch_time) AS punch_count,
			MIN(p.punch_time) AS first_punch,
			MAX(p.punch_time) AS last_punch,
			ex.paycode_id AS paycode_id
		FROM hr_employee e
		CROSS JOIN dates
		LEFT JOIN att_punches p
			ON p.emp_id = e.id AND ` + d.DateOf("p.punch_time") + ` = dates.d
		LEFT JOIN (
			SELECT employee_id, ` + d.DateOf("exception_date") + ` AS exception_day, MIN(paycode_id) AS paycode_id
			FROM att_exceptionassign
			WHERE ` + d.DateOf("exception_date") + ` BETWEEN ` + d.DateParam(":start_date") + ` AND ` + d.DateParam(":end_date") + `
			GROUP BY employee_id, ` + d.DateOf("exception_date") + `
		) ex ON ex.employee_id = e.id AND ex.exception_day = dates.d
		LEFT JOIN hr_department dp ON dp.id = e.emp_dept
		WHERE ` + where + `
		GROUP BY e.id, e.emp_pin, e.emp_firstname, e.emp_lastname, dp.dept_name, dates.d, ex.paycode_id
		ORDER BY dp.dept_name DESC, e.emp_lastname DESC, e.emp_firstname DESC, e.id, dates.d`

	var rows []ControlRow
	if err := r.db.SelectNamed(ctx, &rows, query, args); err != nil {
		return nil, database.Err(ctx, err, "attendance")
	}
	return rows, nil
}
