package scoring

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/brainnova/brainnova/internal/scoreapi"
	"github.com/brainnova/brainnova/internal/store"
	"github.com/brainnova/brainnova/internal/territory"
)

// DataSource is the slice of the store the engine reads from.
type DataSource interface {
	ListDimensions(ctx context.Context) ([]store.Dimension, error)
	ListSubdimensions(ctx context.Context, dimensionName string) ([]store.Subdimension, error)
	ListIndicatorsForSubdimension(ctx context.Context, subdimensionName string) ([]store.IndicatorDefinition, error)
	IndicatorValue(ctx context.Context, indicatorName string, f store.ResultFilter) (*store.IndicatorResult, error)
	ReferenceValues(ctx context.Context, indicatorName string, period int) ([]float64, error)
}

// GlobalResult is the composite index for one territory and period.
type GlobalResult struct {
	Index     float64            `json:"index"`
	Breakdown map[string]float64 `json:"breakdown"`
	Source    string             `json:"source"` // "remote" or "local"
}

// Engine computes normalized indicator scores and aggregates them up the
// indicator → subdimension → dimension → global index hierarchy.
//
// A nil score means "no data" and is distinct from 0. Store failures are
// logged and collapse to "no data"; the only error the engine returns is
// context cancellation.
type Engine struct {
	data        DataSource
	remote      scoreapi.Client
	territories *territory.Table
	weights     ImportanceWeights
	logger      *slog.Logger
}

// NewEngine creates an Engine. remote may be nil, in which case the global
// index is always computed locally.
func NewEngine(data DataSource, remote scoreapi.Client, territories *territory.Table, weights ImportanceWeights, logger *slog.Logger) *Engine {
	return &Engine{
		data:        data,
		remote:      remote,
		territories: territories,
		weights:     weights,
		logger:      logger,
	}
}

// IndicatorScore normalizes one indicator's value for the filter against
// the global reference set of its resolved period.
func (e *Engine) IndicatorScore(ctx context.Context, indicatorName string, f store.ResultFilter) (*float64, error) {
	res, err := e.data.IndicatorValue(ctx, indicatorName, f)
	if err != nil {
		e.logger.Warn("indicator value lookup failed", "indicator", indicatorName, "error", err)
		return nil, ctx.Err()
	}
	if res == nil {
		return nil, nil
	}

	reference, err := e.data.ReferenceValues(ctx, indicatorName, res.Period)
	if err != nil {
		e.logger.Warn("reference set lookup failed", "indicator", indicatorName, "period", res.Period, "error", err)
		return nil, ctx.Err()
	}
	if len(reference) == 0 {
		return nil, nil
	}

	score := Normalize(res.Value, reference)
	return &score, nil
}

// SubdimensionScore is the importance-weighted mean of the subdimension's
// indicator scores. Indicators without data are excluded; when none have
// data the score is nil.
func (e *Engine) SubdimensionScore(ctx context.Context, subdimensionName, territoryKey string, period int) (*float64, error) {
	defs, err := e.data.ListIndicatorsForSubdimension(ctx, subdimensionName)
	if err != nil {
		e.logger.Warn("indicator listing failed", "subdimension", subdimensionName, "error", err)
		return nil, ctx.Err()
	}
	if len(defs) == 0 {
		return nil, nil
	}

	type part struct {
		score  float64
		weight float64
		ok     bool
	}
	parts := make([]part, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	for i, def := range defs {
		g.Go(func() error {
			f := store.ResultFilter{Territory: territoryKey, Period: period}
			score, err := e.IndicatorScore(gctx, def.Name, f)
			if err != nil {
				return err
			}
			if score != nil {
				parts[i] = part{score: *score, weight: e.weights.For(def.Importance), ok: true}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sum, weightSum float64
	for _, p := range parts {
		if p.ok {
			sum += p.score * p.weight
			weightSum += p.weight
		}
	}
	if weightSum == 0 {
		return nil, nil
	}
	score := sum / weightSum
	return &score, nil
}

// DimensionScore is the arithmetic mean of the dimension's subdimension
// scores. Subdimensions without data are skipped, never counted as zero.
func (e *Engine) DimensionScore(ctx context.Context, dimensionName, territoryKey string, period int) (*float64, error) {
	subs, err := e.data.ListSubdimensions(ctx, dimensionName)
	if err != nil {
		e.logger.Warn("subdimension listing failed", "dimension", dimensionName, "error", err)
		return nil, ctx.Err()
	}
	if len(subs) == 0 {
		return nil, nil
	}

	scores := make([]*float64, len(subs))
	g, gctx := errgroup.WithContext(ctx)
	for i, sub := range subs {
		g.Go(func() error {
			score, err := e.SubdimensionScore(gctx, sub.Name, territoryKey, period)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sum float64
	var n int
	for _, s := range scores {
		if s != nil {
			sum += *s
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	score := sum / float64(n)
	return &score, nil
}

// GlobalIndex computes the composite index for a territory. The secondary
// score backend is consulted first; when it is unconfigured or fails the
// index is aggregated locally as the weighted sum of dimension scores,
// renormalized over the dimensions that have data.
func (e *Engine) GlobalIndex(ctx context.Context, territoryKey string, period int) (*GlobalResult, error) {
	if e.remote != nil {
		req := scoreapi.Request{
			Country: e.territories.Display(territory.Espana),
			Period:  period,
		}
		if e.territories.IsProvince(territoryKey) {
			req.Province = e.territories.Display(territoryKey)
		}
		resp, err := e.remote.ComputeIndex(ctx, req)
		if err == nil {
			return &GlobalResult{Index: resp.WeightedIndex, Breakdown: resp.Breakdown, Source: "remote"}, nil
		}
		e.logger.Warn("score backend unreachable, aggregating locally", "error", err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return e.localGlobalIndex(ctx, territoryKey, period)
}

func (e *Engine) localGlobalIndex(ctx context.Context, territoryKey string, period int) (*GlobalResult, error) {
	dims, err := e.data.ListDimensions(ctx)
	if err != nil {
		e.logger.Warn("dimension listing failed", "error", err)
		return nil, ctx.Err()
	}
	if len(dims) == 0 {
		return nil, nil
	}

	scores := make([]*float64, len(dims))
	g, gctx := errgroup.WithContext(ctx)
	for i, dim := range dims {
		g.Go(func() error {
			score, err := e.DimensionScore(gctx, dim.Name, territoryKey, period)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	breakdown := make(map[string]float64)
	var sum, weightSum float64
	for i, dim := range dims {
		if scores[i] == nil {
			continue
		}
		breakdown[dim.Name] = *scores[i]
		sum += *scores[i] * dim.Weight
		weightSum += dim.Weight
	}
	if weightSum == 0 {
		return nil, nil
	}

	return &GlobalResult{Index: sum / weightSum, Breakdown: breakdown, Source: "local"}, nil
}
