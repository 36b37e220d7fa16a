package api

import (
	"context"
	"net/http"

	"github.com/brainnova/brainnova/internal/store"
)

// KnowledgeSearcher ranks knowledge items for a free-text query.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query, category string) []store.KnowledgeItem
}

type KnowledgeHandler struct {
	searcher KnowledgeSearcher
}

func NewKnowledgeHandler(searcher KnowledgeSearcher) *KnowledgeHandler {
	return &KnowledgeHandler{searcher: searcher}
}

func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q parameter required"})
		return
	}
	category := r.URL.Query().Get("category")

	knowledgeSearchesTotal.Inc()
	items := h.searcher.Search(r.Context(), query, category)
	if items == nil {
		items = []store.KnowledgeItem{}
	}
	writeJSON(w, http.StatusOK, items)
}
