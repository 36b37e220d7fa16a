//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/brainnova/brainnova/internal/territory"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("BRAINNOVA_DATABASE_URL")
	if dbURL == "" {
		t.Skip("BRAINNOVA_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL, territory.NewTable())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		// Truncate in dependency order
		_, _ = s.pool.Exec(ctx, "TRUNCATE indicator_results CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE indicator_definitions CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE subdimensions CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE dimensions CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE province_summaries CASCADE")
		s.Close()
	})

	return s
}

func mustExec(t *testing.T, s *PostgresStore, sql string, args ...interface{}) {
	t.Helper()
	if _, err := s.pool.Exec(context.Background(), sql, args...); err != nil {
		t.Fatalf("exec %q failed: %v", sql, err)
	}
}

func seedIndicatorTree(t *testing.T, s *PostgresStore) {
	t.Helper()
	mustExec(t, s, `INSERT INTO dimensions (name, weight) VALUES ('Infraestructura Digital', 25)`)
	mustExec(t, s, `INSERT INTO subdimensions (name, dimension_name) VALUES ('Cobertura Móvil', 'Infraestructura Digital')`)
	mustExec(t, s, `INSERT INTO indicator_definitions (name, importance, subdimension_name)
		VALUES ('Cobertura 5G', 'Alta', 'Cobertura Móvil')`)
}

func seedResult(t *testing.T, s *PostgresStore, period int, value float64, province interface{}) {
	t.Helper()
	mustExec(t, s, `INSERT INTO indicator_results (indicator_name, period, value, country, province)
		VALUES ('Cobertura 5G', $1, $2, 'España', $3)`, period, value, province)
}

func TestIndicatorValueExactPeriod(t *testing.T) {
	s := setupTestDB(t)
	seedIndicatorTree(t, s)
	seedResult(t, s, 2023, 71.0, "Alicante")
	seedResult(t, s, 2024, 84.1, "Alicante")

	got, err := s.IndicatorValue(context.Background(), "Cobertura 5G",
		ResultFilter{Territory: territory.Alicante, Period: 2023})
	if err != nil {
		t.Fatalf("IndicatorValue failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a result, got nil")
	}
	if got.Period != 2023 || got.Value != 71.0 {
		t.Errorf("expected 2023/71.0, got %d/%f", got.Period, got.Value)
	}
}

func TestIndicatorValueLatestPeriodFallback(t *testing.T) {
	s := setupTestDB(t)
	seedIndicatorTree(t, s)
	seedResult(t, s, 2022, 55.0, "Alicante")
	seedResult(t, s, 2024, 84.1, "Alicante")

	// No row for the requested period: the most recent one wins.
	got, err := s.IndicatorValue(context.Background(), "Cobertura 5G",
		ResultFilter{Territory: territory.Alicante, Period: 2030})
	if err != nil {
		t.Fatalf("IndicatorValue failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a fallback result, got nil")
	}
	if got.Period != 2024 {
		t.Errorf("expected latest period 2024, got %d", got.Period)
	}

	// Period 0 means "latest" outright.
	got, err = s.IndicatorValue(context.Background(), "Cobertura 5G",
		ResultFilter{Territory: territory.Alicante})
	if err != nil {
		t.Fatalf("IndicatorValue failed: %v", err)
	}
	if got == nil || got.Period != 2024 {
		t.Errorf("expected latest period 2024, got %+v", got)
	}
}

func TestIndicatorValueProvinceVariants(t *testing.T) {
	s := setupTestDB(t)
	seedIndicatorTree(t, s)
	// Stored under the accented display spelling.
	seedResult(t, s, 2024, 79.6, "Castellón")

	got, err := s.IndicatorValue(context.Background(), "Cobertura 5G",
		ResultFilter{Territory: territory.Castellon, Period: 2024})
	if err != nil {
		t.Fatalf("IndicatorValue failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected the accented row to match the canonical key")
	}
	if got.Province != "Castellón" || got.Value != 79.6 {
		t.Errorf("unexpected row: %+v", got)
	}
}

func TestIndicatorValueCountryScopeExcludesProvinces(t *testing.T) {
	s := setupTestDB(t)
	seedIndicatorTree(t, s)
	seedResult(t, s, 2024, 84.1, "Alicante")
	seedResult(t, s, 2024, 87.5, nil)

	got, err := s.IndicatorValue(context.Background(), "Cobertura 5G",
		ResultFilter{Territory: territory.Espana, Period: 2024})
	if err != nil {
		t.Fatalf("IndicatorValue failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected the national row, got nil")
	}
	if got.Province != "" || got.Value != 87.5 {
		t.Errorf("country scope must only match province-less rows, got %+v", got)
	}
}

func TestReferenceValuesSpanAllTerritories(t *testing.T) {
	s := setupTestDB(t)
	seedIndicatorTree(t, s)
	seedResult(t, s, 2024, 84.1, "Alicante")
	seedResult(t, s, 2024, 79.6, "Castellón")
	seedResult(t, s, 2024, 87.5, nil)
	seedResult(t, s, 2023, 71.0, "Alicante")

	values, err := s.ReferenceValues(context.Background(), "Cobertura 5G", 2024)
	if err != nil {
		t.Fatalf("ReferenceValues failed: %v", err)
	}
	if len(values) != 3 {
		t.Errorf("expected 3 values for 2024 across all scopes, got %d", len(values))
	}
}

func TestGetProvinceSummaryVariants(t *testing.T) {
	s := setupTestDB(t)
	mustExec(t, s, `INSERT INTO province_summaries (province, index_value, rank, top_dimension, top_dimension_score)
		VALUES ('Castellón', 61.2, 3, 'Infraestructura Digital', 70)`)

	got, err := s.GetProvinceSummary(context.Background(), territory.Castellon)
	if err != nil {
		t.Fatalf("GetProvinceSummary failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected the accented row to match the canonical key")
	}
	if got.Index != 61.2 || got.Rank != 3 {
		t.Errorf("unexpected summary: %+v", got)
	}

	missing, err := s.GetProvinceSummary(context.Background(), territory.Valencia)
	if err != nil {
		t.Fatalf("GetProvinceSummary failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for a province without a summary, got %+v", missing)
	}
}
