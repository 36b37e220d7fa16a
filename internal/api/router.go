package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brainnova/brainnova/internal/config"
	"github.com/brainnova/brainnova/internal/events"
	"github.com/brainnova/brainnova/internal/knowledge"
	"github.com/brainnova/brainnova/internal/store"
	"github.com/brainnova/brainnova/internal/territory"
)

func NewRouter(s store.Store, scores ScoreSource, responder Replier, searcher *knowledge.Searcher, ev events.Client, territories *territory.Table, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.Server.RateLimitPerMinute))

	scoresHandler := NewScoresHandler(scores, s, territories, ev, cfg.Index.DefaultPeriod, logger)
	catalog := NewCatalogHandler(s, territories)
	kb := NewKnowledgeHandler(searcher)
	chatHandler := NewChatHandler(responder, ev)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/scores/global", scoresHandler.Global)
		r.Get("/scores/dimensions/{name}", scoresHandler.Dimension)
		r.Get("/scores/subdimensions/{name}", scoresHandler.Subdimension)

		r.Get("/dimensions", catalog.Dimensions)
		r.Get("/dimensions/{name}/indicators", catalog.DimensionIndicators)
		r.Get("/indicators/{name}", catalog.Indicator)
		r.Get("/provinces", catalog.ProvinceSummaries)

		r.Get("/knowledge/search", kb.Search)

		r.Post("/chat", chatHandler.Post)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
