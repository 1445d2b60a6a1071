package repository

import (
	"context"

	"github.com/attendly/attendly-backend/pkg/database"
	"golang.org/x/sync/errgroup"
)

// DashboardQuery parameterizes the dashboard counters
type DashboardQuery struct {
	// Today is the reporting day, 'YYYY-MM-DD'
	Today             string
	SupportDepartment string
	StaffDepartment   string
	VacationPaycode   int64
}

// DashboardCounts holds the raw dashboard counters
type DashboardCounts struct {
	EmployeesTotal    int64
	EmployeesActive   int64
	EmployeesInactive int64
	AttendanceTotal   int64
	AttendanceSupport int64
	AttendanceStaff   int64
	VacationsToday    int64
}

// SummaryRow aggregates processed attendance days per department and month
type SummaryRow struct {
	Department  *string `db:"department" json:"department"`
	Month       string  `db:"month" json:"month"`
	Attendances int64   `db:"total_attendances" json:"total_attendances"`
	Absences    int64   `db:"total_absences" json:"total_absences"`
	Late        int64   `db:"total_late" json:"total_late"`
}

// AbsenceRow counts sick leave and vacation days per department and month
type AbsenceRow struct {
	Department *string `db:"department" json:"department"`
	Month      string  `db:"month" json:"month"`
	Sick       int64   `db:"sickness_absences" json:"sickness_absences"`
	Vacation   int64   `db:"vacation_absences" json:"vacation_absences"`
}

// PeriodFilter selects a year and optionally a month ('2024', '09')
type PeriodFilter struct {
	Year  string
	Month string
}

// DashboardRepository runs the dashboard aggregates
type DashboardRepository struct {
	db *database.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *database.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Counts runs every dashboard counter concurrently
func (r *DashboardRepository) Counts(ctx context.Context, q DashboardQuery) (*DashboardCounts, error) {
	d := r.db.Dialect
	counts := &DashboardCounts{}

	punchedToday := `SELECT COUNT(DISTINCT p.emp_id)
		FROM att_punches p
		JOIN hr_employee e ON e.id = p.emp_id
		LEFT JOIN hr_department dp ON dp.id = e.emp_dept
		WHERE ` + d.DateOf("p.punch_time") + ` = ` + d.DateParam(":today")

	queries := []struct {
		dest  *int64
		query string
		args  map[string]interface{}
	}{
		{&counts.EmployeesTotal, `SELECT COUNT(*) FROM hr_employee`, nil},
		{&counts.EmployeesActive, `SELECT COUNT(*) FROM hr_employee WHERE emp_active = 1`, nil},
		{&counts.EmployeesInactive, `SELECT COUNT(*) FROM hr_employee WHERE emp_active <> 1`, nil},
		{&counts.AttendanceTotal, punchedToday, map[string]interface{}{"today": q.Today}},
		{&counts.AttendanceSupport, punchedToday + ` AND dp.dept_name = :department`,
			map[string]interface{}{"today": q.Today, "department": q.SupportDepartment}},
		{&counts.AttendanceStaff, punchedToday + ` AND dp.dept_name = :department`,
			map[string]interface{}{"today": q.Today, "department": q.StaffDepartment}},
		{&counts.VacationsToday, `SELECT COUNT(*)
			FROM att_exceptionassign ea
			JOIN hr_employee e ON e.id = ea.employee_id
			WHERE e.emp_active = 1
				AND ea.paycode_id = :paycode_id
				AND ` + d.DateOf("ea.exception_date") + ` = ` + d.DateParam(":today"),
			map[string]interface{}{"today": q.Today, "paycode_id": q.VacationPaycode}},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range queries {
		c := c
		g.Go(func() error {
			if c.args == nil {
				return r.db.GetContext(gctx, c.dest, c.query)
			}
			return r.db.GetNamed(gctx, c.dest, c.query, c.args)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, database.Err(ctx, err, "dashboard")
	}

	return counts, nil
}

// periodWhere renders the year/month predicate over a date column
func (r *DashboardRepository) periodWhere(column string, p PeriodFilter, args map[string]interface{}) string {
	d := r.db.Dialect
	where := d.Year(column) + ` = :year`
	args["year"] = p.Year
	if p.Month != "" {
		where += ` AND ` + d.Month(column) + ` = :month`
		args["month"] = p.Month
	}
	return where
}

// AttendanceSummary counts attendances, absences and late arrivals from the
// processed day details, per department and month
func (r *DashboardRepository) AttendanceSummary(ctx context.Context, p PeriodFilter) ([]SummaryRow, error) {
	d := r.db.Dialect
	args := map[string]interface{}{}
	dayKey := `ad.employee_id || '-' || ad.att_date`

	query := `
		SELECT
			dp.dept_name AS department,
			` + d.YearMonth("ad.att_date") + ` AS month,
			COUNT(DISTINCT CASE WHEN ad.checkin IS NOT NULL THEN ` + dayKey + ` END) AS total_attendances,
			COUNT(DISTINCT CASE WHEN ad.checkin IS NULL THEN ` + dayKey + ` END) AS total_absences,
			COUNT(DISTINCT CASE
				WHEN ad.checkin IS NOT NULL AND ` + d.TimeOfDay("ad.checkin") + ` > ` + d.TimeOfDay("s.shift_start") + `
				THEN ` + dayKey + `
			END) AS total_late
		FROM att_day_details ad
		LEFT JOIN hr_employee e ON e.id = ad.employee_id
		LEFT JOIN hr_department dp ON dp.id = e.emp_dept
		LEFT JOIN att_shift s ON s.id = ad.shift_id
		WHERE ` + r.periodWhere("ad.att_date", p, args) + `
		GROUP BY dp.dept_name, ` + d.YearMonth("ad.att_date") + `
		ORDER BY department, month`

	rows := []SummaryRow{}
	if err := r.db.SelectNamed(ctx, &rows, query, args); err != nil {
		return nil, database.Err(ctx, err, "attendance_summary")
	}
	return rows, nil
}

// AbsencesByType counts sick leave and vacation days from the processed day
// summaries, per department and month
func (r *DashboardRepository) AbsencesByType(ctx context.Context, p PeriodFilter, sickPaycode, vacationPaycode int64) ([]AbsenceRow, error) {
	d := r.db.Dialect
	args := map[string]interface{}{
		"sick":     sickPaycode,
		"vacation": vacationPaycode,
	}

	query := `
		SELECT
			dp.dept_name AS department,
			` + d.YearMonth("ds.att_date") + ` AS month,
			COUNT(CASE WHEN ds.paycode_id = :sick THEN ds.id END) AS sickness_absences,
			COUNT(CASE WHEN ds.paycode_id = :vacation THEN ds.id END) AS vacation_absences
		FROM att_day_summary ds
		LEFT JOIN hr_employee e ON e.id = ds.employee_id
		LEFT JOIN hr_department dp ON dp.id = e.emp_dept
		WHERE ` + r.periodWhere("ds.att_date", p, args) + `
		GROUP BY dp.dept_name, ` + d.YearMonth("ds.att_date") + `
		ORDER BY department, month`

	rows := []AbsenceRow{}
	if err := r.db.SelectNamed(ctx, &rows, query, args); err != nil {
		return nil, database.Err(ctx, err, "absences")
	}
	return rows, nil
}
