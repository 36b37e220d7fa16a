// Package territory resolves user-facing territory names to canonical keys.
// Name variants (diacritics, regional spellings) are handled through an
// explicit alias table, never by fuzzy matching.
package territory

import "strings"

// Canonical territory keys.
const (
	Alicante            = "alicante"
	Castellon           = "castellon"
	Valencia            = "valencia"
	ComunitatValenciana = "comunitat-valenciana"
	Espana              = "espana"
)

// Table maps display names and their variants to canonical territory keys.
type Table struct {
	aliases  map[string]string
	display  map[string]string
	province map[string]bool
}

// NewTable builds the static alias table for the territories covered by the
// index: the three provinces, the autonomous community, and the country.
func NewTable() *Table {
	t := &Table{
		aliases:  make(map[string]string),
		display:  make(map[string]string),
		province: map[string]bool{Alicante: true, Castellon: true, Valencia: true},
	}

	add := func(key, displayName string, variants ...string) {
		t.display[key] = displayName
		t.aliases[strings.ToLower(displayName)] = key
		for _, v := range variants {
			t.aliases[strings.ToLower(v)] = key
		}
	}

	add(Alicante, "Alicante", "alacant")
	add(Castellon, "Castellón", "castellon", "castelló", "castello", "castellón de la plana")
	add(Valencia, "Valencia", "valència", "valéncia")
	add(ComunitatValenciana, "Comunitat Valenciana",
		"comunidad valenciana", "c. valenciana", "comunitat")
	add(Espana, "España", "espana", "spain")

	return t
}

// Resolve returns the canonical key for a territory name variant.
func (t *Table) Resolve(name string) (string, bool) {
	key, ok := t.aliases[strings.ToLower(strings.TrimSpace(name))]
	return key, ok
}

// Display returns the display name for a canonical key, or the key itself
// when unknown.
func (t *Table) Display(key string) string {
	if d, ok := t.display[key]; ok {
		return d
	}
	return key
}

// IsProvince reports whether the canonical key names one of the provinces.
func (t *Table) IsProvince(key string) bool {
	return t.province[key]
}

// Provinces returns the canonical province keys in display order.
func (t *Table) Provinces() []string {
	return []string{Alicante, Castellon, Valencia}
}

// Variants returns every known lowercase spelling of a canonical key,
// display name included. Used by the data layer to match territory columns
// that store display names.
func (t *Table) Variants(key string) []string {
	var out []string
	for alias, k := range t.aliases {
		if k == key {
			out = append(out, alias)
		}
	}
	return out
}

// FindIn scans tokens for the first one that resolves to a territory.
func (t *Table) FindIn(tokens []string) (string, bool) {
	for _, tok := range tokens {
		if key, ok := t.Resolve(tok); ok {
			return key, true
		}
	}
	return "", false
}
