package service

import (
	"context"
	"strings"

	"github.com/attendly/attendly-backend/internal/attendance/events"
	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/httputil"
	"github.com/attendly/attendly-backend/pkg/logger"
)

// UpdateEmployeeRequest is the body of an employee edit
type UpdateEmployeeRequest struct {
	FirstName    string  `json:"emp_firstname" validate:"required,max=100"`
	LastName     string  `json:"emp_lastname" validate:"required,max=100"`
	Email        *string `json:"emp_email" validate:"omitempty,email,max=254"`
	DepartmentID *int64  `json:"id_dept" validate:"omitempty,min=1"`
	Active       *bool   `json:"emp_active" validate:"required"`
}

// EmployeePage is a page of employees with the total match count
type EmployeePage struct {
	Employees  []repository.Employee
	Total      int64
	Pagination Pagination
}

// EmployeeService handles employee lookups and edits
type EmployeeService struct {
	repo      *repository.EmployeeRepository
	publisher *events.AttendanceEventPublisher
	cfg       config.ReportsConfig
	logger    *logger.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	repo *repository.EmployeeRepository,
	publisher *events.AttendanceEventPublisher,
	cfg config.ReportsConfig,
	log *logger.Logger,
) *EmployeeService {
	if log == nil {
		log = logger.Nop()
	}
	return &EmployeeService{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		logger:    log,
	}
}

// List returns a page of active employees matching term
func (s *EmployeeService) List(ctx context.Context, term string, page, pageSize int) (*EmployeePage, error) {
	p := ResolvePage(page, pageSize, s.cfg)
	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()

	employees, total, err := s.repo.List(ctx, strings.TrimSpace(term), p.Repo())
	if err != nil {
		return nil, err
	}
	return &EmployeePage{Employees: employees, Total: total, Pagination: p}, nil
}

// Search returns up to repository.SearchLimit active employees matching term
func (s *EmployeeService) Search(ctx context.Context, term string) ([]repository.Employee, error) {
	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()
	return s.repo.Search(ctx, strings.TrimSpace(term))
}

// All returns every employee, active or not
func (s *EmployeeService) All(ctx context.Context) ([]repository.Employee, error) {
	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()
	return s.repo.All(ctx)
}

// Get returns one employee
func (s *EmployeeService) Get(ctx context.Context, id int64) (*repository.Employee, error) {
	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()
	return s.repo.GetByID(ctx, id)
}

// Update validates and applies an employee edit, then publishes the new record
func (s *EmployeeService) Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (*repository.Employee, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}

	qctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()

	if err := s.repo.Update(qctx, id, repository.EmployeeUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		DepartmentID: req.DepartmentID,
		Active:       *req.Active,
	}); err != nil {
		return nil, err
	}

	employee, err := s.repo.GetByID(qctx, id)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishEmployeeUpdated(ctx, employee)

	s.logger.Info().
		Int64("employee_id", id).
		Bool("active", employee.Active).
		Msg("employee updated")

	return employee, nil
}

// Departments returns every department
func (s *EmployeeService) Departments(ctx context.Context) ([]repository.Department, error) {
	ctx, cancel := withQueryTimeout(ctx, s.cfg)
	defer cancel()
	return s.repo.Departments(ctx)
}
