package handler

import (
	"github.com/go-chi/chi/v5"
)

// Handlers groups the handlers mounted under /api
type Handlers struct {
	Reports    *ReportHandler
	Exceptions *ExceptionHandler
	Employees  *EmployeeHandler
	Settings   *SettingsHandler
}

// Mount registers the API routes on r
func (h *Handlers) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/reports", func(r chi.Router) {
			r.Post("/search-attendance-by-name", h.Reports.SearchAttendance)
			r.Post("/monthly-attendance-report", h.Reports.MonthlyReport)
			r.Get("/download-excel", h.Reports.DownloadControlReport)
			r.Get("/attendance-export", h.Reports.Export)
			r.Get("/dashboard", h.Reports.Dashboard)
			r.Get("/attendance-summary", h.Reports.AttendanceSummary)
			r.Get("/absences-by-type", h.Reports.AbsencesByType)
		})

		r.Route("/exceptions", func(r chi.Router) {
			r.Get("/", h.Exceptions.List)
			r.Get("/exception-report", h.Exceptions.Report)
			r.Get("/vacations", h.Exceptions.Vacations)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.Employees.List)
			r.Get("/search", h.Employees.Search)
			r.Get("/all", h.Employees.All)
			r.Get("/{id}", h.Employees.Get)
			r.Put("/{id}", h.Employees.Update)
		})
		r.Get("/departments", h.Employees.Departments)

		r.Get("/settings", h.Settings.Get)
		r.Put("/settings", h.Settings.Update)
	})
}
