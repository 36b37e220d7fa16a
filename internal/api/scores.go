package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brainnova/brainnova/internal/events"
	"github.com/brainnova/brainnova/internal/scoring"
	"github.com/brainnova/brainnova/internal/store"
	"github.com/brainnova/brainnova/internal/territory"
)

// ScoreSource is the aggregation engine surface the score endpoints use.
type ScoreSource interface {
	SubdimensionScore(ctx context.Context, subdimensionName, territoryKey string, period int) (*float64, error)
	DimensionScore(ctx context.Context, dimensionName, territoryKey string, period int) (*float64, error)
	GlobalIndex(ctx context.Context, territoryKey string, period int) (*scoring.GlobalResult, error)
}

// DefinitionSource resolves dimension and subdimension names so unknown
// ones answer 404 instead of a null score.
type DefinitionSource interface {
	GetDimension(ctx context.Context, name string) (*store.Dimension, error)
	GetSubdimension(ctx context.Context, name string) (*store.Subdimension, error)
}

type ScoresHandler struct {
	scores        ScoreSource
	defs          DefinitionSource
	territories   *territory.Table
	events        events.Client
	defaultPeriod int
	logger        *slog.Logger
}

func NewScoresHandler(scores ScoreSource, defs DefinitionSource, territories *territory.Table, ev events.Client, defaultPeriod int, logger *slog.Logger) *ScoresHandler {
	return &ScoresHandler{
		scores:        scores,
		defs:          defs,
		territories:   territories,
		events:        ev,
		defaultPeriod: defaultPeriod,
		logger:        logger,
	}
}

type scoreResponse struct {
	Territory string   `json:"territory"`
	Period    int      `json:"period,omitempty"`
	Score     *float64 `json:"score"`
}

func (h *ScoresHandler) scope(r *http.Request) (territoryKey string, period int, ok bool) {
	name := r.URL.Query().Get("territory")
	if name == "" {
		return territory.ComunitatValenciana, h.period(r), true
	}
	key, ok := h.territories.Resolve(name)
	if !ok {
		return "", 0, false
	}
	return key, h.period(r), true
}

func (h *ScoresHandler) period(r *http.Request) int {
	if p := r.URL.Query().Get("period"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			return n
		}
	}
	return h.defaultPeriod
}

func (h *ScoresHandler) Global(w http.ResponseWriter, r *http.Request) {
	key, period, ok := h.scope(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown territory"})
		return
	}

	res, err := h.scores.GlobalIndex(r.Context(), key, period)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "index computation failed"})
		return
	}
	if res == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"territory": h.territories.Display(key),
			"score":     nil,
		})
		return
	}

	indexComputationsTotal.WithLabelValues(res.Source).Inc()
	if h.events != nil {
		_ = h.events.Publish(events.SubjectIndexComputed(key), events.IndexComputedEvent{
			Territory: key,
			Period:    period,
			Index:     res.Index,
			Source:    res.Source,
			Timestamp: time.Now(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"territory": h.territories.Display(key),
		"period":    period,
		"index":     res.Index,
		"breakdown": res.Breakdown,
		"source":    res.Source,
	})
}

func (h *ScoresHandler) Dimension(w http.ResponseWriter, r *http.Request) {
	key, period, ok := h.scope(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown territory"})
		return
	}
	name := chi.URLParam(r, "name")

	dim, err := h.defs.GetDimension(r.Context(), name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "dimension lookup failed"})
		return
	}
	if dim == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "dimension not found"})
		return
	}

	score, err := h.scores.DimensionScore(r.Context(), dim.Name, key, period)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "score computation failed"})
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Territory: h.territories.Display(key), Period: period, Score: score})
}

func (h *ScoresHandler) Subdimension(w http.ResponseWriter, r *http.Request) {
	key, period, ok := h.scope(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown territory"})
		return
	}
	name := chi.URLParam(r, "name")

	sub, err := h.defs.GetSubdimension(r.Context(), name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "subdimension lookup failed"})
		return
	}
	if sub == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "subdimension not found"})
		return
	}

	score, err := h.scores.SubdimensionScore(r.Context(), sub.Name, key, period)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "score computation failed"})
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Territory: h.territories.Display(key), Period: period, Score: score})
}
