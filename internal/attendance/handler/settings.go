package handler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/attendly/attendly-backend/internal/attendance/settings"
	"github.com/attendly/attendly-backend/pkg/errors"
	"github.com/attendly/attendly-backend/pkg/httputil"
	"github.com/attendly/attendly-backend/pkg/logger"
)

// SettingsStore reads and patches the report settings document
type SettingsStore interface {
	Get() settings.Settings
	Merge(ctx context.Context, raw json.RawMessage) (settings.Settings, error)
}

// SettingsHandler serves the report settings document
type SettingsHandler struct {
	store  SettingsStore
	logger *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(store SettingsStore, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		store:  store,
		logger: log,
	}
}

// UpdateSettingsRequest wraps the document as {"settings": {...}}
type UpdateSettingsRequest struct {
	Settings json.RawMessage `json:"settings"`
}

// Get returns the current settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.store.Get())
}

// Update replaces the settings. Fields missing from the body keep their
// current value.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}
	if len(req.Settings) == 0 || string(req.Settings) == "null" {
		httputil.Error(w, r, errors.Validation(map[string]string{"settings": "this field is required"}))
		return
	}

	doc, err := h.store.Merge(r.Context(), req.Settings)
	if stderrors.Is(err, settings.ErrInvalidPatch) {
		httputil.Error(w, r, errors.BadRequestWithKey("errors.invalid_json"))
		return
	}
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, doc)
}
