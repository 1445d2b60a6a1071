package handler

import (
	"net/http"

	"github.com/attendly/attendly-backend/internal/attendance/service"
	"github.com/attendly/attendly-backend/pkg/httputil"
	"github.com/attendly/attendly-backend/pkg/logger"
)

// ExceptionHandler serves exception assignments
type ExceptionHandler struct {
	service *service.ExceptionService
	logger  *logger.Logger
}

// NewExceptionHandler creates a new exception handler
func NewExceptionHandler(svc *service.ExceptionService, log *logger.Logger) *ExceptionHandler {
	return &ExceptionHandler{
		service: svc,
		logger:  log,
	}
}

// List lists the exceptions of the range
func (h *ExceptionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	exceptions, err := h.service.List(r.Context(), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, exceptions)
}

// Report streams the exception report PDF
func (h *ExceptionHandler) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	doc, err := h.service.Report(r.Context(), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Attachment(w, doc.ContentType, doc.Filename, doc.Body)
}

// Vacations lists every vacation assignment
func (h *ExceptionHandler) Vacations(w http.ResponseWriter, r *http.Request) {
	vacations, err := h.service.Vacations(r.Context())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, vacations)
}
