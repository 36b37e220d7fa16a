package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestImportanceValues(t *testing.T) {
	levels := []Importance{ImportanceAlta, ImportanceMedia, ImportanceBaja}
	expected := []string{"Alta", "Media", "Baja"}
	for i, l := range levels {
		if string(l) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], l)
		}
	}
}

func TestResultFilterDefaults(t *testing.T) {
	f := ResultFilter{}
	if f.Period != 0 {
		t.Errorf("expected 0 default period (latest), got %d", f.Period)
	}
	if f.Territory != "" || f.Sector != "" || f.CompanySize != "" {
		t.Error("expected empty scope filters")
	}
}

func TestDimensionValidate(t *testing.T) {
	d := Dimension{Name: "Capital Humano", Weight: 15}
	if err := d.validate(); err != nil {
		t.Errorf("valid dimension rejected: %v", err)
	}
	bad := Dimension{Weight: 15}
	if err := bad.validate(); err == nil {
		t.Error("expected error for empty name")
	}
	neg := Dimension{Name: "X", Weight: -1}
	if err := neg.validate(); err == nil {
		t.Error("expected error for negative weight")
	}
}

func TestIndicatorValidate(t *testing.T) {
	i := IndicatorDefinition{Name: "Cobertura 5G", Importance: ImportanceAlta, SubdimensionName: "Conectividad"}
	if err := i.validate(); err != nil {
		t.Errorf("valid indicator rejected: %v", err)
	}
	i.Importance = "Urgente"
	if err := i.validate(); err == nil {
		t.Error("expected error for unknown importance label")
	}
}

func TestResultValidate(t *testing.T) {
	r := IndicatorResult{IndicatorName: "Cobertura 5G", Period: 2024, Value: 81.2, Country: "España"}
	if err := r.validate(); err != nil {
		t.Errorf("valid result rejected: %v", err)
	}
	r.Period = 0
	if err := r.validate(); err == nil {
		t.Error("expected error for missing period")
	}
}

func TestKnowledgeValidate(t *testing.T) {
	k := KnowledgeItem{ID: uuid.New(), Title: "¿Qué es la cobertura 5G?"}
	if err := k.validate(); err != nil {
		t.Errorf("valid knowledge item rejected: %v", err)
	}
	k.Title = ""
	if err := k.validate(); err == nil {
		t.Error("expected error for empty title")
	}
}
