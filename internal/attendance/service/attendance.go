package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/attendly/attendly-backend/internal/attendance/events"
	"github.com/attendly/attendly-backend/internal/attendance/render"
	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/internal/attendance/settings"
	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/database"
	"github.com/attendly/attendly-backend/pkg/i18n"
	"github.com/attendly/attendly-backend/pkg/logger"
	"github.com/attendly/attendly-backend/pkg/messaging"
)

const clockLayout = "15:04:05"

// dayNames labels DiaSemana. Row data stays Spanish whatever the request
// language, like the status values next to it.
var dayNames = i18n.NewLocalizer(i18n.LocaleSpanish)

// SettingsSource provides the current report settings document
type SettingsSource interface {
	Get() settings.Settings
}

// Document is a rendered report ready to be served as a download
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// AttendanceDay is one (employee, day) row on the wire
type AttendanceDay struct {
	ID         int64    `json:"id"`
	Code       *string  `json:"Numero"`
	Name       string   `json:"Nombre"`
	Department *string  `json:"Departamento"`
	Date       string   `json:"Fecha"`
	Weekday    string   `json:"DiaSemana"`
	Entry      *string  `json:"Entrada"`
	Exit       *string  `json:"Salida"`
	Hours      *float64 `json:"TotalHorasRedondeadas"`
	Status     string   `json:"status"`
}

// SearchResult is a page of attendance days with the unpaginated total
type SearchResult struct {
	Attendances []AttendanceDay `json:"attendances"`
	Total       int64           `json:"total"`
	Pagination  Pagination      `json:"-"`
}

// AttendanceService implements the attendance search and report operations
type AttendanceService struct {
	repo      *repository.AttendanceRepository
	settings  SettingsSource
	publisher *events.AttendanceEventPublisher
	cfg       config.ReportsConfig
	logger    *logger.Logger
	now       func() time.Time
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	repo *repository.AttendanceRepository,
	settingsSource SettingsSource,
	publisher *events.AttendanceEventPublisher,
	cfg config.ReportsConfig,
	log *logger.Logger,
) *AttendanceService {
	if log == nil {
		log = logger.Nop()
	}
	return &AttendanceService{
		repo:      repo,
		settings:  settingsSource,
		publisher: publisher,
		cfg:       cfg,
		logger:    log,
		now:       time.Now,
	}
}

// ============================================================================
// SEARCH
// ============================================================================

func (s *AttendanceService) searchFilter(req SearchRequest) (repository.AttendanceFilter, error) {
	rng, err := ParseRange(req.StartDate, req.EndDate, s.cfg.MaxRangeDays)
	if err != nil {
		return repository.AttendanceFilter{}, err
	}
	employeeID, err := ParseEmployeeID(string(req.EmployeeID))
	if err != nil {
		return repository.AttendanceFilter{}, err
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		return repository.AttendanceFilter{}, err
	}
	return repository.AttendanceFilter{
		StartDate:  rng.StartDate(),
		EndDate:    rng.EndDate(),
		Name:       req.Name,
		Department: req.Department,
		EmployeeID: employeeID,
		Status:     status,
	}, nil
}

// SearchByDay lists every active employee for every day of the range with
// the day's first and last punch and status
func (s *AttendanceService) SearchByDay(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	filter, err := s.searchFilter(req)
	if err != nil {
		return nil, err
	}
	page := ResolvePage(req.Page, req.PageSize, s.cfg)

	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()

	rows, total, err := s.repo.SearchByDay(ctx, filter, page.Repo())
	if err != nil {
		return nil, err
	}

	days := make([]AttendanceDay, 0, len(rows))
	for _, row := range rows {
		days = append(days, searchDay(row))
	}

	return &SearchResult{Attendances: days, Total: total, Pagination: page}, nil
}

// searchDay shows an exit and hours only when the day has two or more punches
func searchDay(row repository.DayRow) AttendanceDay {
	day := baseDay(row)
	if row.PunchCount >= 1 {
		day.Entry = clock(row.FirstPunch)
	}
	if row.PunchCount >= 2 {
		day.Exit = clock(row.LastPunch)
		if row.FirstPunch.Valid && row.LastPunch.Valid {
			h := roundHours(row.LastPunch.Time.Sub(row.FirstPunch.Time).Hours())
			day.Hours = &h
		}
	}
	return day
}

func baseDay(row repository.DayRow) AttendanceDay {
	day := AttendanceDay{
		ID:      row.EmployeeID,
		Name:    fullName(row.FirstName, row.LastName),
		Date:    row.Day.Time.Format(DateLayout),
		Weekday: dayNames.Weekday(row.Day.Time.Weekday()),
		Status:  row.Status,
	}
	if row.EmployeeCode.Valid {
		code := row.EmployeeCode.String
		day.Code = &code
	}
	if row.Department.Valid {
		dept := row.Department.String
		day.Department = &dept
	}
	return day
}

func clock(ts database.Timestamp) *string {
	if !ts.Valid {
		return nil
	}
	v := ts.Time.Format(clockLayout)
	return &v
}

func fullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

// ============================================================================
// MONTHLY PUNCH REPORT
// ============================================================================

// MonthlyReport lists the days with at least one punch, with whole hours
// between the first and last punch
func (s *AttendanceService) MonthlyReport(ctx context.Context, req MonthlyRequest) (*SearchResult, error) {
	rng, err := ParseRange(req.StartDate, req.EndDate, s.cfg.MaxRangeDays)
	if err != nil {
		return nil, err
	}
	page := ResolvePage(req.Page, req.PageSize, s.cfg)

	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()

	rows, total, err := s.repo.PunchDays(ctx, repository.AttendanceFilter{
		StartDate:  rng.StartDate(),
		EndDate:    rng.EndDate(),
		Department: req.Department,
	}, page.Repo())
	if err != nil {
		return nil, err
	}

	days := make([]AttendanceDay, 0, len(rows))
	for _, row := range rows {
		day := baseDay(row)
		day.Entry = clock(row.FirstPunch)
		day.Exit = clock(row.LastPunch)
		if row.FirstPunch.Valid && row.LastPunch.Valid {
			h := math.Round(row.LastPunch.Time.Sub(row.FirstPunch.Time).Hours())
			day.Hours = &h
		}
		days = append(days, day)
	}

	return &SearchResult{Attendances: days, Total: total, Pagination: page}, nil
}

// ============================================================================
// DOCUMENTS
// ============================================================================

// Export renders every search result of the filter, unpaginated, as xlsx
func (s *AttendanceService) Export(ctx context.Context, req SearchRequest) (*Document, error) {
	filter, err := s.searchFilter(req)
	if err != nil {
		return nil, err
	}

	qctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()

	rows, _, err := s.repo.SearchByDay(qctx, filter, repository.Page{})
	if err != nil {
		return nil, err
	}

	l := i18n.LocalizerFromContext(ctx)
	out := make([]render.ExportRow, 0, len(rows))
	for _, row := range rows {
		day := searchDay(row)
		out = append(out, render.ExportRow{
			Code:       deref(day.Code),
			Name:       day.Name,
			Department: deref(day.Department),
			Date:       day.Date,
			Weekday:    day.Weekday,
			Entry:      deref(day.Entry),
			Exit:       deref(day.Exit),
			Hours:      day.Hours,
			Status:     day.Status,
		})
	}

	body, err := render.RenderAttendanceExport(out, l)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishReportGenerated(ctx, messaging.ReportGeneratedEvent{
		Report:     "attendance-export",
		Format:     "xlsx",
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		Department: filter.Department,
		Rows:       len(out),
		Bytes:      len(body),
	})

	return &Document{
		Filename:    fmt.Sprintf("Asistencias_%s_%s.xlsx", filter.StartDate, filter.EndDate),
		ContentType: render.ContentTypeXLSX,
		Body:        body,
	}, nil
}

// DefaultRange is the current month in the configured timezone
func (s *AttendanceService) DefaultRange() DateRange {
	return MonthRange(s.now().In(s.cfg.Location()))
}

// ControlReport renders the monthly control grid. Empty dates default to
// the current month.
func (s *AttendanceService) ControlReport(ctx context.Context, startDate, endDate, department string) (*Document, error) {
	rng := s.DefaultRange()
	if startDate != "" || endDate != "" {
		var err error
		rng, err = ParseRange(startDate, endDate, s.cfg.MaxRangeDays)
		if err != nil {
			return nil, err
		}
	}

	qctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()

	rows, err := s.repo.ControlGrid(qctx, rng.StartDate(), rng.EndDate(), department)
	if err != nil {
		return nil, err
	}

	doc := s.settings.Get()
	report := &render.ControlReport{
		Start:     rng.Start,
		End:       rng.End,
		Settings:  doc,
		Employees: BuildControlEmployees(rows, rng, doc.Symbols, s.cfg.Paycodes),
	}

	body, err := render.RenderControlReport(report, i18n.LocalizerFromContext(ctx))
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("start_date", rng.StartDate()).
		Str("end_date", rng.EndDate()).
		Int("employees", len(report.Employees)).
		Msg("control report generated")

	s.publisher.PublishReportGenerated(ctx, messaging.ReportGeneratedEvent{
		Report:     "control",
		Format:     "xlsx",
		StartDate:  rng.StartDate(),
		EndDate:    rng.EndDate(),
		Department: department,
		Rows:       len(report.Employees),
		Bytes:      len(body),
	})

	return &Document{
		Filename:    fmt.Sprintf("ReporteAsistencia_%s_%s.xlsx", rng.StartDate(), rng.EndDate()),
		ContentType: render.ContentTypeXLSX,
		Body:        body,
	}, nil
}

// BuildControlEmployees groups grid rows into one report line per employee,
// keeping the row order of the query
func BuildControlEmployees(rows []repository.ControlRow, rng DateRange, symbols settings.Symbols, paycodes config.PaycodeConfig) []render.ControlEmployee {
	days := render.Days(rng.Start, rng.End)
	index := make(map[string]int, len(days))
	for i, d := range days {
		index[d.Format(DateLayout)] = i
	}

	var (
		out      []render.ControlEmployee
		position = make(map[int64]int)
	)
	for _, row := range rows {
		i, ok := position[row.EmployeeID]
		if !ok {
			emp := render.ControlEmployee{
				Name:  fullName(row.FirstName, row.LastName),
				Cells: make([]render.ControlCell, len(days)),
			}
			if row.EmployeePin.Valid {
				emp.Code = row.EmployeePin.String
			}
			if row.Department.Valid {
				emp.Department = row.Department.String
			}
			out = append(out, emp)
			i = len(out) - 1
			position[row.EmployeeID] = i
		}

		d, ok := index[row.Day.Time.Format(DateLayout)]
		if !ok {
			continue
		}
		out[i].Cells[d] = DeriveCell(row, symbols, paycodes)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
