package scoring

import (
	"fmt"

	"github.com/brainnova/brainnova/internal/store"
)

// ImportanceWeights maps the categorical importance labels of indicators to
// the numeric weights used in the subdimension weighted mean.
type ImportanceWeights struct {
	Alta  float64
	Media float64
	Baja  float64
}

// DefaultImportanceWeights returns the canonical Alta=3, Media=2, Baja=1
// weighting.
func DefaultImportanceWeights() ImportanceWeights {
	return ImportanceWeights{Alta: 3, Media: 2, Baja: 1}
}

// For returns the weight for an importance label. Unrecognized labels weigh
// as Media.
func (w ImportanceWeights) For(imp store.Importance) float64 {
	switch imp {
	case store.ImportanceAlta:
		return w.Alta
	case store.ImportanceBaja:
		return w.Baja
	default:
		return w.Media
	}
}

// Validate checks that every weight is positive.
func (w ImportanceWeights) Validate() error {
	for _, v := range []float64{w.Alta, w.Media, w.Baja} {
		if v <= 0 {
			return fmt.Errorf("importance weight must be positive, got %f", v)
		}
	}
	return nil
}
