package handler

import (
	"net/http"
	"strconv"

	"github.com/attendly/attendly-backend/internal/attendance/service"
	"github.com/attendly/attendly-backend/pkg/errors"
	"github.com/attendly/attendly-backend/pkg/httputil"
	"github.com/attendly/attendly-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// EmployeeHandler serves employee and department endpoints
type EmployeeHandler struct {
	service *service.EmployeeService
	logger  *logger.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(svc *service.EmployeeService, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: svc,
		logger:  log,
	}
}

func employeeID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.BadRequestWithKey("errors.invalid_employee_id")
	}
	return id, nil
}

// List lists active employees matching searchTerm
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(),
		r.URL.Query().Get("searchTerm"),
		httputil.QueryInt(r, "page", 1),
		httputil.QueryInt(r, "pageSize", 0),
	)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, page.Employees,
		httputil.NewMeta(page.Pagination.Page, page.Pagination.PageSize, page.Total))
}

// Search returns a capped list of active employees matching searchTerm
func (h *EmployeeHandler) Search(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.Search(r.Context(), r.URL.Query().Get("searchTerm"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, employees)
}

// All returns every employee
func (h *EmployeeHandler) All(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.All(r.Context())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, employees)
}

// Get returns one employee
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	employee, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, employee)
}

// Update edits an employee
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	var req service.UpdateEmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	employee, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, employee)
}

// Departments returns every department
func (h *EmployeeHandler) Departments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.service.Departments(r.Context())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, departments)
}
