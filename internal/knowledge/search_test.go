package knowledge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brainnova/brainnova/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeData struct {
	items      []store.KnowledgeItem
	err        error
	titleItems []store.KnowledgeItem
	titleErr   error
	lastTokens []string
	lastTitle  string
}

func (f *fakeData) SearchKnowledge(ctx context.Context, tokens []string, category string, limit int) ([]store.KnowledgeItem, error) {
	f.lastTokens = tokens
	return f.items, f.err
}

func (f *fakeData) SearchKnowledgeTitle(ctx context.Context, token string, limit int) ([]store.KnowledgeItem, error) {
	f.lastTitle = token
	return f.titleItems, f.titleErr
}

func item(title, content string, keywords ...string) store.KnowledgeItem {
	return store.KnowledgeItem{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		Keywords:  keywords,
		CreatedAt: time.Now(),
	}
}

func TestCleanQuery(t *testing.T) {
	got := CleanQuery("¿Cuál es el índice BRAINNOVA?")
	if got != "cuál es el índice brainnova" {
		t.Errorf("CleanQuery = %q", got)
	}
}

func TestTokenizeDropsStopwordsAndShortTokens(t *testing.T) {
	s := NewSearcher(&fakeData{}, discardLogger())
	tokens := s.Tokenize("¿Qué es la cobertura 5G en las empresas?")
	want := map[string]bool{"cobertura": true, "5g": true, "empresas": true}
	for _, tok := range tokens {
		if !want[tok] {
			t.Errorf("unexpected token %q", tok)
		}
		delete(want, tok)
	}
	for missing := range want {
		t.Errorf("missing token %q", missing)
	}
}

func TestSearchEmptyAfterStopwordRemoval(t *testing.T) {
	data := &fakeData{}
	s := NewSearcher(data, discardLogger())
	if got := s.Search(context.Background(), "¿? el de la", ""); got != nil {
		t.Errorf("expected nil for empty token set, got %v", got)
	}
	if data.lastTokens != nil {
		t.Error("store must not be queried when no tokens remain")
	}
}

func TestSearchTitlePriorityRanking(t *testing.T) {
	// Both items mention 5G; the one with 5G in the title outranks the one
	// that only mentions it in content, regardless of store order.
	contentOnly := item("Redes de telecomunicaciones", "El despliegue de 5G avanza en la región.")
	titled := item("Cobertura 5G por provincia", "Datos de cobertura móvil.")
	data := &fakeData{items: []store.KnowledgeItem{contentOnly, titled}}
	s := NewSearcher(data, discardLogger())

	got := s.Search(context.Background(), "5G", "")
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Title != titled.Title {
		t.Errorf("expected title match first, got %q", got[0].Title)
	}
}

func TestSearchKeywordBeatsContent(t *testing.T) {
	byContent := item("Ayudas europeas", "Subvenciones para digitalización de pymes.")
	byKeyword := item("Programas de impulso", "Líneas de apoyo a empresas.", "digitalización")
	data := &fakeData{items: []store.KnowledgeItem{byContent, byKeyword}}
	s := NewSearcher(data, discardLogger())

	got := s.Search(context.Background(), "digitalización", "")
	if got[0].Title != byKeyword.Title {
		t.Errorf("keyword match should outrank content match, got %q first", got[0].Title)
	}
}

func TestSearchStableOnTies(t *testing.T) {
	first := item("Cobertura 5G urbana", "")
	second := item("Cobertura 5G rural", "")
	data := &fakeData{items: []store.KnowledgeItem{first, second}}
	s := NewSearcher(data, discardLogger())

	got := s.Search(context.Background(), "5G", "")
	if got[0].Title != first.Title || got[1].Title != second.Title {
		t.Error("equal scores must keep the store's recency order")
	}
}

func TestSearchDegradedFallback(t *testing.T) {
	data := &fakeData{
		err:        errors.New("connection refused"),
		titleItems: []store.KnowledgeItem{item("Cobertura 5G", "")},
	}
	s := NewSearcher(data, discardLogger())

	got := s.Search(context.Background(), "cobertura 5G empresas", "")
	if len(got) != 1 {
		t.Fatalf("expected degraded result, got %d items", len(got))
	}
	// Longest token wins the degraded retry.
	if data.lastTitle != "cobertura" {
		t.Errorf("expected degraded search on %q, got %q", "cobertura", data.lastTitle)
	}
}

func TestSearchNeverErrors(t *testing.T) {
	data := &fakeData{
		err:      errors.New("connection refused"),
		titleErr: errors.New("still down"),
	}
	s := NewSearcher(data, discardLogger())
	if got := s.Search(context.Background(), "cobertura", ""); got != nil {
		t.Errorf("expected empty result when both searches fail, got %v", got)
	}
}
