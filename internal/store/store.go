package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Importance is the categorical weight label of an indicator.
type Importance string

const (
	ImportanceAlta  Importance = "Alta"
	ImportanceMedia Importance = "Media"
	ImportanceBaja  Importance = "Baja"
)

// Dimension is a top-level thematic axis of the composite index. Weight is a
// percentage; weights across all dimensions are assumed to sum to ~100
// upstream.
type Dimension struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Subdimension is a thematic subdivision within a dimension.
type Subdimension struct {
	Name          string `json:"name"`
	DimensionName string `json:"dimension_name"`
}

// IndicatorDefinition describes a single measurable metric.
type IndicatorDefinition struct {
	Name             string     `json:"name"`
	Importance       Importance `json:"importance"`
	Formula          string     `json:"formula,omitempty"`
	Source           string     `json:"source,omitempty"`
	SubdimensionName string     `json:"subdimension_name"`
}

// IndicatorResult is one recorded value of an indicator for a
// territory/period/segment combination. Province, Sector, and CompanySize
// are empty when the row is not segmented on them.
type IndicatorResult struct {
	IndicatorName string  `json:"indicator_name"`
	Period        int     `json:"period"`
	Value         float64 `json:"value"`
	Country       string  `json:"country"`
	Province      string  `json:"province,omitempty"`
	Sector        string  `json:"sector,omitempty"`
	CompanySize   string  `json:"company_size,omitempty"`
}

// KnowledgeItem is one record of the static question/answer corpus.
type KnowledgeItem struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Keywords  []string  `json:"keywords,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Survey is a dashboard survey; the chat layer only lists active ones.
type Survey struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProvinceSummary is the precomputed per-province snapshot shown by the
// chat's province-index branch: index value, rank among provinces, and the
// highest-scoring dimension.
type ProvinceSummary struct {
	Province          string  `json:"province"`
	Index             float64 `json:"index"`
	Rank              int     `json:"rank"`
	TopDimension      string  `json:"top_dimension"`
	TopDimensionScore float64 `json:"top_dimension_score"`
}

// ResultFilter scopes an indicator value lookup. Territory is a canonical
// key from the territory package; Period 0 means "latest available".
type ResultFilter struct {
	Territory   string
	Sector      string
	CompanySize string
	Period      int
}

// Stats holds row counts for the admin endpoint.
type Stats struct {
	Dimensions     int `json:"dimensions"`
	Subdimensions  int `json:"subdimensions"`
	Indicators     int `json:"indicators"`
	Results        int `json:"results"`
	KnowledgeItems int `json:"knowledge_items"`
	Surveys        int `json:"surveys"`
}

// Store is the read-mostly data access contract for the index schema.
// Lookups that miss return (nil, nil): "no data" is not an error.
type Store interface {
	ListDimensions(ctx context.Context) ([]Dimension, error)
	GetDimension(ctx context.Context, name string) (*Dimension, error)
	ListSubdimensions(ctx context.Context, dimensionName string) ([]Subdimension, error)
	GetSubdimension(ctx context.Context, name string) (*Subdimension, error)

	GetIndicator(ctx context.Context, name string) (*IndicatorDefinition, error)
	ListIndicatorsForSubdimension(ctx context.Context, subdimensionName string) ([]IndicatorDefinition, error)
	ListIndicatorsForDimension(ctx context.Context, dimensionName string) ([]IndicatorDefinition, error)
	SearchIndicators(ctx context.Context, terms []string, limit int) ([]IndicatorDefinition, error)

	// IndicatorValue applies the latest-period fallback: with Period set and
	// no exact match, the most recent period wins.
	IndicatorValue(ctx context.Context, indicatorName string, f ResultFilter) (*IndicatorResult, error)
	// ReferenceValues returns every raw value recorded for the indicator in
	// the period, across all territories and segments. This is the global
	// reference set for min-max normalization.
	ReferenceValues(ctx context.Context, indicatorName string, period int) ([]float64, error)

	SearchKnowledge(ctx context.Context, tokens []string, category string, limit int) ([]KnowledgeItem, error)
	SearchKnowledgeTitle(ctx context.Context, token string, limit int) ([]KnowledgeItem, error)

	ListActiveSurveys(ctx context.Context) ([]Survey, error)

	ListProvinceSummaries(ctx context.Context) ([]ProvinceSummary, error)
	GetProvinceSummary(ctx context.Context, province string) (*ProvinceSummary, error)

	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}

func (d *Dimension) validate() error {
	if d.Name == "" {
		return fmt.Errorf("malformed dimension row: empty name")
	}
	if d.Weight < 0 {
		return fmt.Errorf("malformed dimension row %q: negative weight %f", d.Name, d.Weight)
	}
	return nil
}

func (s *Subdimension) validate() error {
	if s.Name == "" || s.DimensionName == "" {
		return fmt.Errorf("malformed subdimension row: name=%q dimension=%q", s.Name, s.DimensionName)
	}
	return nil
}

func (i *IndicatorDefinition) validate() error {
	if i.Name == "" {
		return fmt.Errorf("malformed indicator row: empty name")
	}
	switch i.Importance {
	case ImportanceAlta, ImportanceMedia, ImportanceBaja:
	default:
		return fmt.Errorf("malformed indicator row %q: importance %q", i.Name, i.Importance)
	}
	return nil
}

func (r *IndicatorResult) validate() error {
	if r.IndicatorName == "" {
		return fmt.Errorf("malformed result row: empty indicator name")
	}
	if r.Period <= 0 {
		return fmt.Errorf("malformed result row %q: period %d", r.IndicatorName, r.Period)
	}
	return nil
}

func (k *KnowledgeItem) validate() error {
	if k.Title == "" {
		return fmt.Errorf("malformed knowledge row %s: empty title", k.ID)
	}
	return nil
}
