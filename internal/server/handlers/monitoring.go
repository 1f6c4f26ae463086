package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/notionbridge/internal/foundation/errors"
	"git.home.luguber.info/inful/notionbridge/internal/server/responses"
)

// MonitoringHandlers serves health and liveness endpoints.
type MonitoringHandlers struct {
	startTime    time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers() *MonitoringHandlers {
	return &MonitoringHandlers{
		startTime:    time.Now(),
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthz handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	resp := &responses.HealthResponse{
		OK:        true,
		Status:    "running",
		Uptime:    time.Since(h.startTime).Seconds(),
		Timestamp: time.Now().UTC(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write health response").Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
