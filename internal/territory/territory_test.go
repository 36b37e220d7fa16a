package territory

import "testing"

func TestResolveVariants(t *testing.T) {
	tbl := NewTable()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"accented", "Castellón", Castellon},
		{"plain", "Castellon", Castellon},
		{"valencian", "Castelló", Castellon},
		{"alicante", "Alicante", Alicante},
		{"alacant", "alacant", Alicante},
		{"valencia accented", "València", Valencia},
		{"community", "Comunidad Valenciana", ComunitatValenciana},
		{"country", "España", Espana},
		{"whitespace", "  valencia  ", Valencia},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tbl.Resolve(tt.in)
			if !ok {
				t.Fatalf("Resolve(%q) not found", tt.in)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	tbl := NewTable()
	if _, ok := tbl.Resolve("madrid"); ok {
		t.Error("expected madrid to be unresolved")
	}
	if _, ok := tbl.Resolve(""); ok {
		t.Error("expected empty name to be unresolved")
	}
}

func TestDisplay(t *testing.T) {
	tbl := NewTable()
	if got := tbl.Display(Castellon); got != "Castellón" {
		t.Errorf("Display(castellon) = %q, want Castellón", got)
	}
	if got := tbl.Display("desconocido"); got != "desconocido" {
		t.Errorf("unknown key should round-trip, got %q", got)
	}
}

func TestProvinces(t *testing.T) {
	tbl := NewTable()
	provs := tbl.Provinces()
	if len(provs) != 3 {
		t.Fatalf("expected 3 provinces, got %d", len(provs))
	}
	for _, p := range provs {
		if !tbl.IsProvince(p) {
			t.Errorf("%s should be a province", p)
		}
	}
	if tbl.IsProvince(Espana) {
		t.Error("españa is not a province")
	}
}

func TestVariantsIncludeDisplayName(t *testing.T) {
	tbl := NewTable()
	found := false
	for _, v := range tbl.Variants(Castellon) {
		if v == "castellón" {
			found = true
		}
	}
	if !found {
		t.Error("variants of castellon should include the accented display name")
	}
}

func TestFindIn(t *testing.T) {
	tbl := NewTable()
	key, ok := tbl.FindIn([]string{"índice", "brainnova", "alicante"})
	if !ok || key != Alicante {
		t.Errorf("FindIn = %q/%v, want alicante", key, ok)
	}
	if _, ok := tbl.FindIn([]string{"sin", "territorio"}); ok {
		t.Error("expected no territory match")
	}
}
