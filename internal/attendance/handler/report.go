package handler

import (
	"net/http"

	"github.com/attendly/attendly-backend/internal/attendance/service"
	"github.com/attendly/attendly-backend/pkg/httputil"
	"github.com/attendly/attendly-backend/pkg/logger"
)

// ReportHandler serves the attendance search, report downloads and dashboard
type ReportHandler struct {
	attendance *service.AttendanceService
	dashboard  *service.DashboardService
	logger     *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(attendance *service.AttendanceService, dashboard *service.DashboardService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		attendance: attendance,
		dashboard:  dashboard,
		logger:     log,
	}
}

// ============================================================================
// ATTENDANCE
// ============================================================================

// SearchAttendance lists every active employee for every day of the range
func (h *ReportHandler) SearchAttendance(w http.ResponseWriter, r *http.Request) {
	var req service.SearchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	result, err := h.attendance.SearchByDay(r.Context(), req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, result,
		httputil.NewMeta(result.Pagination.Page, result.Pagination.PageSize, result.Total))
}

// MonthlyReport lists the days with punches
func (h *ReportHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	var req service.MonthlyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	result, err := h.attendance.MonthlyReport(r.Context(), req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, result,
		httputil.NewMeta(result.Pagination.Page, result.Pagination.PageSize, result.Total))
}

// DownloadControlReport streams the monthly control grid
func (h *ReportHandler) DownloadControlReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	doc, err := h.attendance.ControlReport(r.Context(), q.Get("startDate"), q.Get("endDate"), q.Get("department"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Attachment(w, doc.ContentType, doc.Filename, doc.Body)
}

// Export streams the unpaginated attendance search as a spreadsheet
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.SearchRequest{
		Name:       q.Get("name"),
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
		Department: q.Get("department"),
		EmployeeID: service.EmployeeIDParam(q.Get("employeeId")),
		Status:     q.Get("status"),
	}

	doc, err := h.attendance.Export(r.Context(), req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Attachment(w, doc.ContentType, doc.Filename, doc.Body)
}

// ============================================================================
// DASHBOARD
// ============================================================================

// Dashboard returns today's counters
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	totals, err := h.dashboard.Totals(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, totals)
}

// AttendanceSummary returns attendances, absences and late arrivals per month
func (h *ReportHandler) AttendanceSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rows, err := h.dashboard.AttendanceSummary(r.Context(), q.Get("year"), q.Get("month"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, rows)
}

// AbsencesByType returns sick leave and vacation counts per month
func (h *ReportHandler) AbsencesByType(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rows, err := h.dashboard.AbsencesByType(r.Context(), q.Get("year"), q.Get("month"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, rows)
}
