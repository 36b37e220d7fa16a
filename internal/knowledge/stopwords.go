package knowledge

// Spanish stop words dropped during tokenization: articles, prepositions,
// conjunctions, and interrogatives. Tokens of length <= 2 are dropped before
// this list applies, so short function words are omitted.
func defaultStopwords() map[string]struct{} {
	words := []string{
		"los", "las", "uno", "una", "unos", "unas",
		"del", "para", "por", "con", "sin", "sobre", "entre", "ante",
		"hasta", "desde", "durante", "tras",
		"que", "qué", "cual", "cuál", "cuales", "cuáles",
		"como", "cómo", "cuando", "cuándo", "donde", "dónde",
		"quien", "quién", "cuanto", "cuánto", "cuanta", "cuánta",
		"ser", "son", "está", "están", "hay", "tiene", "tienen",
		"este", "esta", "estos", "estas", "ese", "esa", "esos", "esas",
		"sus", "mis", "tus", "nos", "les",
		"pero", "más", "mas", "muy", "también", "según",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
