package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brainnova/brainnova/internal/territory"
)

type PostgresStore struct {
	pool        *pgxpool.Pool
	territories *territory.Table
}

func NewPostgresStore(ctx context.Context, databaseURL string, territories *territory.Table) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool, territories: territories}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ListDimensions(ctx context.Context) ([]Dimension, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, weight FROM dimensions ORDER BY weight DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dims []Dimension
	for rows.Next() {
		var d Dimension
		if err := rows.Scan(&d.Name, &d.Weight); err != nil {
			return nil, err
		}
		if err := d.validate(); err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}
	return dims, rows.Err()
}

func (s *PostgresStore) GetDimension(ctx context.Context, name string) (*Dimension, error) {
	d := &Dimension{}
	err := s.pool.QueryRow(ctx, `
		SELECT name, weight FROM dimensions WHERE lower(name) = lower($1)`, name,
	).Scan(&d.Name, &d.Weight)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *PostgresStore) ListSubdimensions(ctx context.Context, dimensionName string) ([]Subdimension, error) {
	query := `SELECT name, dimension_name FROM subdimensions`
	args := []interface{}{}
	if dimensionName != "" {
		query += ` WHERE lower(dimension_name) = lower($1)`
		args = append(args, dimensionName)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subdimension
	for rows.Next() {
		var sd Subdimension
		if err := rows.Scan(&sd.Name, &sd.DimensionName); err != nil {
			return nil, err
		}
		if err := sd.validate(); err != nil {
			return nil, err
		}
		subs = append(subs, sd)
	}
	return subs, rows.Err()
}

func (s *PostgresStore) GetSubdimension(ctx context.Context, name string) (*Subdimension, error) {
	sd := &Subdimension{}
	err := s.pool.QueryRow(ctx, `
		SELECT name, dimension_name FROM subdimensions WHERE lower(name) = lower($1)`, name,
	).Scan(&sd.Name, &sd.DimensionName)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sd, nil
}

const indicatorColumns = `name, importance, formula, source, subdimension_name`

func (s *PostgresStore) GetIndicator(ctx context.Context, name string) (*IndicatorDefinition, error) {
	i := &IndicatorDefinition{}
	var formula, source sql.NullString
	err := s.pool.QueryRow(ctx, `
		SELECT `+indicatorColumns+`
		FROM indicator_definitions WHERE lower(name) = lower($1)`, name,
	).Scan(&i.Name, &i.Importance, &formula, &source, &i.SubdimensionName)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	i.Formula = formula.String
	i.Source = source.String
	if err := i.validate(); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *PostgresStore) ListIndicatorsForSubdimension(ctx context.Context, subdimensionName string) ([]IndicatorDefinition, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+indicatorColumns+`
		FROM indicator_definitions WHERE lower(subdimension_name) = lower($1)
		ORDER BY name ASC`, subdimensionName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIndicators(rows)
}

func (s *PostgresStore) ListIndicatorsForDimension(ctx context.Context, dimensionName string) ([]IndicatorDefinition, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.name, i.importance, i.formula, i.source, i.subdimension_name
		FROM indicator_definitions i
		JOIN subdimensions sd ON lower(sd.name) = lower(i.subdimension_name)
		WHERE lower(sd.dimension_name) = lower($1)
		ORDER BY i.subdimension_name ASC, i.name ASC`, dimensionName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIndicators(rows)
}

func (s *PostgresStore) SearchIndicators(ctx context.Context, terms []string, limit int) ([]IndicatorDefinition, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	conds := make([]string, 0, len(terms))
	args := []interface{}{}
	for _, term := range terms {
		args = append(args, "%"+term+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	args = append(args, limit)

	query := `SELECT ` + indicatorColumns + `
		FROM indicator_definitions
		WHERE ` + strings.Join(conds, " OR ") + `
		ORDER BY name ASC LIMIT $` + fmt.Sprint(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIndicators(rows)
}

const resultColumns = `indicator_name, period, value, country, province, sector, company_size`

// IndicatorValue resolves a single value for the filter. When the exact
// period has no row, the most recent period for the same scope wins.
func (s *PostgresStore) IndicatorValue(ctx context.Context, indicatorName string, f ResultFilter) (*IndicatorResult, error) {
	if f.Period > 0 {
		r, err := s.queryValue(ctx, indicatorName, f, true)
		if err != nil || r != nil {
			return r, err
		}
	}
	return s.queryValue(ctx, indicatorName, f, false)
}

func (s *PostgresStore) queryValue(ctx context.Context, indicatorName string, f ResultFilter, exactPeriod bool) (*IndicatorResult, error) {
	query := `SELECT ` + resultColumns + ` FROM indicator_results WHERE lower(indicator_name) = lower($1)`
	args := []interface{}{indicatorName}

	if f.Territory != "" {
		variants := s.territories.Variants(f.Territory)
		args = append(args, variants)
		if s.territories.IsProvince(f.Territory) {
			query += fmt.Sprintf(" AND lower(province) = ANY($%d)", len(args))
		} else {
			query += fmt.Sprintf(" AND lower(country) = ANY($%d) AND province IS NULL", len(args))
		}
	}
	if f.Sector != "" {
		args = append(args, f.Sector)
		query += fmt.Sprintf(" AND lower(sector) = lower($%d)", len(args))
	}
	if f.CompanySize != "" {
		args = append(args, f.CompanySize)
		query += fmt.Sprintf(" AND lower(company_size) = lower($%d)", len(args))
	}
	if exactPeriod {
		args = append(args, f.Period)
		query += fmt.Sprintf(" AND period = $%d", len(args))
	}
	query += " ORDER BY period DESC LIMIT 1"

	r := &IndicatorResult{}
	var province, sector, companySize sql.NullString
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&r.IndicatorName, &r.Period, &r.Value, &r.Country,
		&province, &sector, &companySize,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Province = province.String
	r.Sector = sector.String
	r.CompanySize = companySize.String
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) ReferenceValues(ctx context.Context, indicatorName string, period int) ([]float64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT value FROM indicator_results
		WHERE lower(indicator_name) = lower($1) AND period = $2`, indicatorName, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

const knowledgeColumns = `id, category, title, content, keywords, created_at`

func (s *PostgresStore) SearchKnowledge(ctx context.Context, tokens []string, category string, limit int) ([]KnowledgeItem, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	conds := make([]string, 0, len(tokens))
	args := []interface{}{}
	for _, tok := range tokens {
		args = append(args, "%"+tok+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + knowledgeColumns + `
		FROM knowledge_items WHERE (` + strings.Join(conds, " OR ") + `)`
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND lower(category) = lower($%d)", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledge(rows)
}

func (s *PostgresStore) SearchKnowledgeTitle(ctx context.Context, token string, limit int) ([]KnowledgeItem, error) {
	if token == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+knowledgeColumns+`
		FROM knowledge_items WHERE title ILIKE $1
		ORDER BY created_at DESC LIMIT $2`, "%"+token+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledge(rows)
}

func (s *PostgresStore) ListActiveSurveys(ctx context.Context) ([]Survey, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, description, active, created_at
		FROM surveys WHERE active = true
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var surveys []Survey
	for rows.Next() {
		var sv Survey
		var description sql.NullString
		if err := rows.Scan(&sv.ID, &sv.Title, &description, &sv.Active, &sv.CreatedAt); err != nil {
			return nil, err
		}
		sv.Description = description.String
		surveys = append(surveys, sv)
	}
	return surveys, rows.Err()
}

func (s *PostgresStore) ListProvinceSummaries(ctx context.Context) ([]ProvinceSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT province, index_value, rank, top_dimension, top_dimension_score
		FROM province_summaries ORDER BY rank ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []ProvinceSummary
	for rows.Next() {
		var p ProvinceSummary
		if err := rows.Scan(&p.Province, &p.Index, &p.Rank, &p.TopDimension, &p.TopDimensionScore); err != nil {
			return nil, err
		}
		summaries = append(summaries, p)
	}
	return summaries, rows.Err()
}

func (s *PostgresStore) GetProvinceSummary(ctx context.Context, province string) (*ProvinceSummary, error) {
	variants := s.territories.Variants(province)
	if len(variants) == 0 {
		variants = []string{strings.ToLower(province)}
	}
	p := &ProvinceSummary{}
	err := s.pool.QueryRow(ctx, `
		SELECT province, index_value, rank, top_dimension, top_dimension_score
		FROM province_summaries WHERE lower(province) = ANY($1)`, variants,
	).Scan(&p.Province, &p.Index, &p.Rank, &p.TopDimension, &p.TopDimensionScore)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM dimensions),
			(SELECT COUNT(*) FROM subdimensions),
			(SELECT COUNT(*) FROM indicator_definitions),
			(SELECT COUNT(*) FROM indicator_results),
			(SELECT COUNT(*) FROM knowledge_items),
			(SELECT COUNT(*) FROM surveys)`,
	).Scan(&stats.Dimensions, &stats.Subdimensions, &stats.Indicators,
		&stats.Results, &stats.KnowledgeItems, &stats.Surveys)
	return stats, err
}

func scanIndicators(rows pgx.Rows) ([]IndicatorDefinition, error) {
	var defs []IndicatorDefinition
	for rows.Next() {
		var i IndicatorDefinition
		var formula, source sql.NullString
		if err := rows.Scan(&i.Name, &i.Importance, &formula, &source, &i.SubdimensionName); err != nil {
			return nil, err
		}
		i.Formula = formula.String
		i.Source = source.String
		if err := i.validate(); err != nil {
			return nil, err
		}
		defs = append(defs, i)
	}
	return defs, rows.Err()
}

func scanKnowledge(rows pgx.Rows) ([]KnowledgeItem, error) {
	var items []KnowledgeItem
	for rows.Next() {
		var k KnowledgeItem
		var category sql.NullString
		if err := rows.Scan(&k.ID, &category, &k.Title, &k.Content, &k.Keywords, &k.CreatedAt); err != nil {
			return nil, err
		}
		k.Category = category.String
		if err := k.validate(); err != nil {
			return nil, err
		}
		items = append(items, k)
	}
	return items, rows.Err()
}
