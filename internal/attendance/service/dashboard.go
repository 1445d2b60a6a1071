package service

import (
	"context"
	"time"

	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/logger"
)

// DashboardTotals keeps the flat dotted keys the dashboard client reads
type DashboardTotals struct {
	Date              string `json:"date"`
	EmployeeTotal     int64  `json:"employee.total"`
	EmployeeActive    int64  `json:"employee.active"`
	EmployeeInactive  int64  `json:"employee.inactive"`
	AttendanceTotal   int64  `json:"attendance.total"`
	AttendanceSupport int64  `json:"attendance.support"`
	AttendanceStaff   int64  `json:"attendance.staff"`
	VacationTotal     int64  `json:"vacation.total"`
	PendingAttendance int64  `json:"pending.attendance"`
}

// DashboardService builds the dashboard counters and yearly summaries
type DashboardService struct {
	repo   *repository.DashboardRepository
	cfg    config.ReportsConfig
	logger *logger.Logger
	now    func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repo *repository.DashboardRepository, cfg config.ReportsConfig, log *logger.Logger) *DashboardService {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardService{
		repo:   repo,
		cfg:    cfg,
		logger: log,
		now:    time.Now,
	}
}

// Totals counts employees, today's attendance and today's vacations.
// An empty day means today in the configured timezone.
func (s *DashboardService) Totals(ctx context.Context, day string) (*DashboardTotals, error) {
	if day == "" {
		day = s.now().In(s.cfg.Location()).Format(DateLayout)
	} else if _, err := ParseRange(day, day, 0); err != nil {
		return nil, err
	}

	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()

	counts, err := s.repo.Counts(ctx, repository.DashboardQuery{
		Today:             day,
		SupportDepartment: s.cfg.SupportDepartment,
		StaffDepartment:   s.cfg.StaffDepartment,
		VacationPaycode:   s.cfg.Paycodes.Vacation,
	})
	if err != nil {
		return nil, err
	}

	pending := counts.AttendanceTotal - counts.EmployeesActive
	if pending < 0 {
		pending = -pending
	}

	return &DashboardTotals{
		Date:              day,
		EmployeeTotal:     counts.EmployeesTotal,
		EmployeeActive:    counts.EmployeesActive,
		EmployeeInactive:  counts.EmployeesInactive,
		AttendanceTotal:   counts.AttendanceTotal,
		AttendanceSupport: counts.AttendanceSupport,
		AttendanceStaff:   counts.AttendanceStaff,
		VacationTotal:     counts.VacationsToday,
		PendingAttendance: pending,
	}, nil
}

// AttendanceSummary aggregates processed days per department and month
func (s *DashboardService) AttendanceSummary(ctx context.Context, year, month string) ([]repository.SummaryRow, error) {
	period, err := ParsePeriod(year, month)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()
	return s.repo.AttendanceSummary(ctx, period)
}

// AbsencesByType counts sick leave and vacation days per department and month
func (s *DashboardService) AbsencesByType(ctx context.Context, year, month string) ([]repository.AbsenceRow, error) {
	period, err := ParsePeriod(year, month)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()
	return s.repo.AbsencesByType(ctx, period, s.cfg.Paycodes.Sick, s.cfg.Paycodes.Vacation)
}
