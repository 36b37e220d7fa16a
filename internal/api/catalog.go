package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brainnova/brainnova/internal/store"
	"github.com/brainnova/brainnova/internal/territory"
)

// Catalog is the store surface the catalog endpoints read from.
type Catalog interface {
	ListDimensions(ctx context.Context) ([]store.Dimension, error)
	ListIndicatorsForDimension(ctx context.Context, dimensionName string) ([]store.IndicatorDefinition, error)
	GetIndicator(ctx context.Context, name string) (*store.IndicatorDefinition, error)
	IndicatorValue(ctx context.Context, indicatorName string, f store.ResultFilter) (*store.IndicatorResult, error)
	ListProvinceSummaries(ctx context.Context) ([]store.ProvinceSummary, error)
}

type CatalogHandler struct {
	catalog     Catalog
	territories *territory.Table
}

func NewCatalogHandler(c Catalog, territories *territory.Table) *CatalogHandler {
	return &CatalogHandler{catalog: c, territories: territories}
}

func (h *CatalogHandler) Dimensions(w http.ResponseWriter, r *http.Request) {
	dims, err := h.catalog.ListDimensions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if dims == nil {
		dims = []store.Dimension{}
	}
	writeJSON(w, http.StatusOK, dims)
}

func (h *CatalogHandler) DimensionIndicators(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	defs, err := h.catalog.ListIndicatorsForDimension(r.Context(), name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if defs == nil {
		defs = []store.IndicatorDefinition{}
	}
	writeJSON(w, http.StatusOK, defs)
}

type indicatorResponse struct {
	store.IndicatorDefinition
	LatestValue *store.IndicatorResult `json:"latest_value,omitempty"`
}

func (h *CatalogHandler) Indicator(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, err := h.catalog.GetIndicator(r.Context(), name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if def == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "indicator not found"})
		return
	}

	resp := indicatorResponse{IndicatorDefinition: *def}
	filter := store.ResultFilter{}
	if t := r.URL.Query().Get("territory"); t != "" {
		key, ok := h.territories.Resolve(t)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown territory"})
			return
		}
		filter.Territory = key
	}
	// Latest value is best-effort detail; a lookup failure leaves it empty.
	if res, err := h.catalog.IndicatorValue(r.Context(), def.Name, filter); err == nil {
		resp.LatestValue = res
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) ProvinceSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.catalog.ListProvinceSummaries(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if summaries == nil {
		summaries = []store.ProvinceSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}
