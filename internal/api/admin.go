package api

import (
	"context"
	"net/http"

	"github.com/brainnova/brainnova/internal/store"
)

// StatsSource reports row counts for the admin endpoint.
type StatsSource interface {
	GetStats(ctx context.Context) (*store.Stats, error)
}

type AdminHandler struct {
	stats StatsSource
}

func NewAdminHandler(stats StatsSource) *AdminHandler {
	return &AdminHandler{stats: stats}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.GetStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
