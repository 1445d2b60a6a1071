package service

import (
	"context"
	"fmt"
	"time"

	"github.com/attendly/attendly-backend/internal/attendance/events"
	"github.com/attendly/attendly-backend/internal/attendance/render"
	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/i18n"
	"github.com/attendly/attendly-backend/pkg/logger"
	"github.com/attendly/attendly-backend/pkg/messaging"
)

// Exception is an exception assignment on the wire
type Exception struct {
	ID            int64    `json:"id"`
	EmployeeID    int64    `json:"employee_id"`
	Pin           *string  `json:"emp_pin"`
	FirstName     string   `json:"emp_firstname"`
	LastName      string   `json:"emp_lastname"`
	Date          string   `json:"exception_date"`
	StartTime     *string  `json:"starttime"`
	EndTime       *string  `json:"endtime"`
	Hours         *float64 `json:"total_horas_excepcion"`
	PaycodeID     int64    `json:"paycode_id"`
	Paycode       string   `json:"paycode"`
	ExceptionType string   `json:"tipo_de_excepcion"`
}

// ExceptionService lists exception assignments and prints the exception report
type ExceptionService struct {
	repo      *repository.ExceptionRepository
	publisher *events.AttendanceEventPublisher
	cfg       config.ReportsConfig
	logger    *logger.Logger
	now       func() time.Time
}

// NewExceptionService creates a new exception service
func NewExceptionService(
	repo *repository.ExceptionRepository,
	publisher *events.AttendanceEventPublisher,
	cfg config.ReportsConfig,
	log *logger.Logger,
) *ExceptionService {
	if log == nil {
		log = logger.Nop()
	}
	return &ExceptionService{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		logger:    log,
		now:       time.Now,
	}
}

func (s *ExceptionService) rangeOrDefault(startDate, endDate string) (DateRange, error) {
	if startDate == "" && endDate == "" {
		return MonthRange(s.now().In(s.cfg.Location())), nil
	}
	return ParseRange(startDate, endDate, s.cfg.MaxRangeDays)
}

// List returns the exceptions of active employees in the range
func (s *ExceptionService) List(ctx context.Context, startDate, endDate string) ([]Exception, error) {
	rng, err := s.rangeOrDefault(startDate, endDate)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()

	rows, err := s.repo.List(ctx, rng.StartDate(), rng.EndDate())
	if err != nil {
		return nil, err
	}
	return toExceptions(rows), nil
}

// Vacations returns every assignment of the configured vacation paycode
func (s *ExceptionService) Vacations(ctx context.Context) ([]Exception, error) {
	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()

	rows, err := s.repo.ListByPaycode(ctx, s.cfg.Paycodes.Vacation)
	if err != nil {
		return nil, err
	}
	return toExceptions(rows), nil
}

// Report prints the exceptions of the range as a PDF
func (s *ExceptionService) Report(ctx context.Context, startDate, endDate string) (*Document, error) {
	rng, err := s.rangeOrDefault(startDate, endDate)
	if err != nil {
		return nil, err
	}
	qctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()

	rows, err := s.repo.List(qctx, rng.StartDate(), rng.EndDate())
	if err != nil {
		return nil, err
	}

	lines := make([]render.ExceptionLine, 0, len(rows))
	for _, row := range rows {
		line := render.ExceptionLine{
			Name: fullName(row.FirstName, row.LastName),
			Date: row.ExceptionDate.Time,
			Type: row.ExceptionType,
		}
		if row.EmployeePin != nil {
			line.Pin = *row.EmployeePin
		}
		if row.StartTime.Valid {
			line.Start = row.StartTime.Time.Format("15:04")
		}
		if row.EndTime.Valid {
			line.End = row.EndTime.Time.Format("15:04")
		}
		if h := exceptionHours(row); h != nil {
			line.Hours = *h
		}
		lines = append(lines, line)
	}

	body, err := render.RenderExceptionReport(&render.ExceptionReport{
		Lines:       lines,
		GeneratedAt: s.now().In(s.cfg.Location()),
		LogoPath:    s.cfg.LogoPath,
	}, i18n.LocalizerFromContext(ctx))
	if err != nil {
		return nil, err
	}

	s.publisher.PublishReportGenerated(ctx, messaging.ReportGeneratedEvent{
		Report:    "exceptions",
		Format:    "pdf",
		StartDate: rng.StartDate(),
		EndDate:   rng.EndDate(),
		Rows:      len(lines),
		Bytes:     len(body),
	})

	return &Document{
		Filename:    fmt.Sprintf("ReporteExcepciones_%s_%s.pdf", rng.StartDate(), rng.EndDate()),
		ContentType: render.ContentTypePDF,
		Body:        body,
	}, nil
}

func exceptionHours(row repository.ExceptionRow) *float64 {
	if !row.StartTime.Valid || !row.EndTime.Valid {
		return nil
	}
	h := roundHours(row.EndTime.Time.Sub(row.StartTime.Time).Hours())
	return &h
}

func toExceptions(rows []repository.ExceptionRow) []Exception {
	out := make([]Exception, 0, len(rows))
	for _, row := range rows {
		e := Exception{
			ID:            row.ID,
			EmployeeID:    row.EmployeeID,
			Pin:           row.EmployeePin,
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			Date:          row.ExceptionDate.Time.Format(DateLayout),
			Hours:         exceptionHours(row),
			PaycodeID:     row.PaycodeID,
			Paycode:       row.Paycode,
			ExceptionType: row.ExceptionType,
		}
		if row.StartTime.Valid {
			v := row.StartTime.Time.Format("2006-01-02 15:04:05")
			e.StartTime = &v
		}
		if row.EndTime.Valid {
			v := row.EndTime.Time.Format("2006-01-02 15:04:05")
			e.EndTime = &v
		}
		out = append(out, e)
	}
	return out
}
