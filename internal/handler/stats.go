package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/vaultpass/pwgen-go/internal/service"
)

const defaultStatsWindow = 24 * time.Hour

// StatsHandler handles HTTP requests for audit statistics.
type StatsHandler struct {
	service *service.StatsService
	now     func() time.Time
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{service: svc, now: time.Now}
}

// HandleEntropyStats handles GET /api/v1/stats/entropy requests.
// The optional since query parameter is an RFC 3339 timestamp; it defaults to 24 hours ago.
func (h *StatsHandler) HandleEntropyStats(w http.ResponseWriter, r *http.Request) {
	since := h.now().Add(-defaultStatsWindow)
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("since must be an RFC 3339 timestamp"))
			return
		}
		since = t
	}

	resp, err := h.service.EntropyStats(r.Context(), since)
	if err != nil {
		if errors.Is(err, service.ErrAuditDisabled) {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
