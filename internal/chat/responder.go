// Package chat maps free-text user questions about the BRAINNOVA index to
// computed answers. Dispatch is a priority cascade of rules, each wrapping
// its data access so a failure becomes an explanatory sentence, never an
// error surfaced to the user.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/brainnova/brainnova/internal/scoring"
	"github.com/brainnova/brainnova/internal/store"
	"github.com/brainnova/brainnova/internal/territory"
)

// Subdimension and indicator names the disambiguation branches target.
const (
	basicDigitizationSubdimension = "Digitalización Básica"
	digitalSkillsSearchTerm       = "habilidades digitales"
)

// DataSource is the slice of the store the responder reads from.
type DataSource interface {
	ListDimensions(ctx context.Context) ([]store.Dimension, error)
	ListIndicatorsForDimension(ctx context.Context, dimensionName string) ([]store.IndicatorDefinition, error)
	GetIndicator(ctx context.Context, name string) (*store.IndicatorDefinition, error)
	SearchIndicators(ctx context.Context, terms []string, limit int) ([]store.IndicatorDefinition, error)
	IndicatorValue(ctx context.Context, indicatorName string, f store.ResultFilter) (*store.IndicatorResult, error)
	ListActiveSurveys(ctx context.Context) ([]store.Survey, error)
	GetProvinceSummary(ctx context.Context, province string) (*store.ProvinceSummary, error)
}

// ScoreSource is the aggregation engine surface the responder needs.
type ScoreSource interface {
	SubdimensionScore(ctx context.Context, subdimensionName, territoryKey string, period int) (*float64, error)
	DimensionScore(ctx context.Context, dimensionName, territoryKey string, period int) (*float64, error)
	GlobalIndex(ctx context.Context, territoryKey string, period int) (*scoring.GlobalResult, error)
}

// KnowledgeSource is the retrieval engine surface the fallback uses.
type KnowledgeSource interface {
	Search(ctx context.Context, query, category string) []store.KnowledgeItem
	Tokenize(query string) []string
}

// Answer is a resolved chat reply tagged with the intent that produced it.
type Answer struct {
	Reply  string `json:"reply"`
	Intent string `json:"intent"`
}

type Responder struct {
	data        DataSource
	scores      ScoreSource
	knowledge   KnowledgeSource
	territories *territory.Table
	logger      *slog.Logger
	cascade     []Rule
}

func NewResponder(data DataSource, scores ScoreSource, kb KnowledgeSource, territories *territory.Table, logger *slog.Logger) *Responder {
	r := &Responder{
		data:        data,
		scores:      scores,
		knowledge:   kb,
		territories: territories,
		logger:      logger,
	}
	r.cascade = r.rules()
	return r
}

// Reply answers one user message. It never fails: every branch converts
// data-layer errors into a human-readable fallback.
func (r *Responder) Reply(ctx context.Context, message string) Answer {
	q := ParseQuery(message)
	for _, rule := range r.cascade {
		if !rule.Match(q) {
			continue
		}
		if reply, handled := rule.Handle(ctx, q); handled {
			return Answer{Reply: reply, Intent: rule.Name}
		}
	}
	// The fallback rule always handles; this is unreachable with the
	// configured cascade.
	return Answer{Reply: helpMessage, Intent: "help"}
}

// territoryOf resolves the territory named in the query, defaulting to the
// Comunitat Valenciana, the dashboard's home scope.
func (r *Responder) territoryOf(q Query) string {
	if key, ok := r.territories.FindIn(q.Tokens); ok {
		return key
	}
	return territory.ComunitatValenciana
}

func fallbackSentence(section string) string {
	return fmt.Sprintf("Ahora mismo no puedo recuperar esos datos. Puedes consultarlos manualmente en la sección %s del panel.", section)
}

const helpMessage = "No he entendido la pregunta. Prueba con alguna de estas:\n" +
	"- ¿Cuál es el índice BRAINNOVA de Alicante?\n" +
	"- ¿Qué dimensiones hay?\n" +
	"- ¿Cuál es el nivel de digitalización básica de las empresas en Castellón?\n" +
	"- ¿Qué encuestas están activas?"

// --- global_index ---

func (r *Responder) matchGlobalIndex(q Query) bool {
	if q.Mentions("índice global") || q.Mentions("puntuación global") {
		return true
	}
	return q.Has("global") && (q.Has("índice") || q.Mentions("brainnova"))
}

func (r *Responder) handleGlobalIndex(ctx context.Context, q Query) (string, bool) {
	key := r.territoryOf(q)
	res, err := r.scores.GlobalIndex(ctx, key, 0)
	if err != nil || res == nil {
		if err != nil {
			r.logger.Warn("global index computation failed", "territory", key, "error", err)
		}
		return fallbackSentence("Comparación Territorial"), true
	}
	return fmt.Sprintf("El índice global BRAINNOVA de %s es %.1f sobre 100.",
		r.territories.Display(key), res.Index), true
}

// --- province_index ---

func (r *Responder) matchProvinceIndex(q Query) bool {
	return q.Has("índice") || q.Has("economía")
}

func (r *Responder) handleProvinceIndex(ctx context.Context, q Query) (string, bool) {
	key, ok := r.territories.FindIn(q.Tokens)
	if ok && r.territories.IsProvince(key) {
		summary, err := r.data.GetProvinceSummary(ctx, key)
		if err != nil || summary == nil {
			if err != nil {
				r.logger.Warn("province summary lookup failed", "province", key, "error", err)
			}
			return fallbackSentence("Comparación Territorial"), true
		}
		return formatProvinceSummary(summary), true
	}

	// No province named: walk the canonical provinces and list the ones
	// with a summary, best rank first.
	summaries := make([]store.ProvinceSummary, 0, 3)
	for _, provinceKey := range r.territories.Provinces() {
		summary, err := r.data.GetProvinceSummary(ctx, provinceKey)
		if err != nil {
			r.logger.Warn("province summary lookup failed", "province", provinceKey, "error", err)
			return fallbackSentence("Comparación Territorial"), true
		}
		if summary != nil {
			summaries = append(summaries, *summary)
		}
	}
	if len(summaries) == 0 {
		return fallbackSentence("Comparación Territorial"), true
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Rank < summaries[j].Rank })

	lines := make([]string, 0, len(summaries)+1)
	lines = append(lines, "Índice BRAINNOVA por provincia:")
	for i := range summaries {
		lines = append(lines, "- "+formatProvinceSummary(&summaries[i]))
	}
	return strings.Join(lines, "\n"), true
}

func formatProvinceSummary(s *store.ProvinceSummary) string {
	return fmt.Sprintf("El índice BRAINNOVA de %s es %.1f (posición %d). Su dimensión destacada es %s con %.0f puntos.",
		s.Province, s.Index, s.Rank, s.TopDimension, s.TopDimensionScore)
}

// --- basic_digitization ---
//
// "digitalización básica" is ambiguous: it names both a population-skills
// indicator and a business subdimension. Company tokens pick the business
// branch; otherwise the population indicator answers.

func (r *Responder) matchBasicDigitization(q Query) bool {
	return q.Mentions("digitalización básica")
}

func (r *Responder) handleBasicDigitization(ctx context.Context, q Query) (string, bool) {
	if q.Has("empresa", "empresas") {
		return r.basicDigitizationBusiness(ctx, q), true
	}
	return r.basicDigitizationPopulation(ctx, q), true
}

func (r *Responder) basicDigitizationBusiness(ctx context.Context, q Query) string {
	key := r.territoryOf(q)
	score, err := r.scores.SubdimensionScore(ctx, basicDigitizationSubdimension, key, 0)
	if err != nil || score == nil {
		if err != nil {
			r.logger.Warn("basic digitization score failed", "territory", key, "error", err)
		}
		return fallbackSentence("Madurez Digital de Empresas")
	}
	return fmt.Sprintf("La subdimensión %s de las empresas en %s obtiene %.1f puntos sobre 100.",
		basicDigitizationSubdimension, r.territories.Display(key), *score)
}

func (r *Responder) basicDigitizationPopulation(ctx context.Context, q Query) string {
	defs, err := r.data.SearchIndicators(ctx, []string{digitalSkillsSearchTerm}, 1)
	if err != nil || len(defs) == 0 {
		if err != nil {
			r.logger.Warn("skills indicator search failed", "error", err)
		}
		return fallbackSentence("Capital Humano")
	}
	return r.formatIndicatorDetail(ctx, &defs[0], r.territoryOf(q))
}

// --- business_digitization ---

func (r *Responder) matchBusinessDigitization(q Query) bool {
	return q.Mentions("digitalización") && q.Has("empresa", "empresas")
}

func (r *Responder) handleBusinessDigitization(ctx context.Context, q Query) (string, bool) {
	dim, err := r.findDimension(ctx, "empresa")
	if err != nil || dim == nil {
		if err != nil {
			r.logger.Warn("dimension lookup failed", "error", err)
		}
		return fallbackSentence("Madurez Digital de Empresas"), true
	}

	key := r.territoryOf(q)
	score, err := r.scores.DimensionScore(ctx, dim.Name, key, 0)
	if err != nil || score == nil {
		if err != nil {
			r.logger.Warn("dimension score failed", "dimension", dim.Name, "error", err)
		}
		return fallbackSentence("Madurez Digital de Empresas"), true
	}
	return fmt.Sprintf("La dimensión %s en %s alcanza %.1f puntos sobre 100.",
		dim.Name, r.territories.Display(key), *score), true
}

func (r *Responder) findDimension(ctx context.Context, token string) (*store.Dimension, error) {
	dims, err := r.data.ListDimensions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range dims {
		if strings.Contains(fold(strings.ToLower(dims[i].Name)), fold(token)) {
			return &dims[i], nil
		}
	}
	return nil, nil
}

// --- digital_skills ---

func (r *Responder) matchDigitalSkills(q Query) bool {
	return q.Mentions("habilidades digitales") || q.Mentions("competencias digitales")
}

func (r *Responder) handleDigitalSkills(ctx context.Context, q Query) (string, bool) {
	defs, err := r.data.SearchIndicators(ctx, []string{digitalSkillsSearchTerm, "competencias digitales"}, 1)
	if err != nil || len(defs) == 0 {
		if err != nil {
			r.logger.Warn("skills indicator search failed", "error", err)
		}
		return fallbackSentence("Capital Humano"), true
	}
	return r.formatIndicatorDetail(ctx, &defs[0], r.territoryOf(q)), true
}

// --- surveys ---

func (r *Responder) matchSurveys(q Query) bool {
	return q.Has("encuesta", "encuestas", "cuestionario", "cuestionarios")
}

func (r *Responder) handleSurveys(ctx context.Context, q Query) (string, bool) {
	surveys, err := r.data.ListActiveSurveys(ctx)
	if err != nil {
		r.logger.Warn("survey listing failed", "error", err)
		return fallbackSentence("Encuestas"), true
	}
	if len(surveys) == 0 {
		return "No hay encuestas activas en este momento.", true
	}
	lines := make([]string, 0, len(surveys)+1)
	lines = append(lines, "Encuestas activas:")
	for _, s := range surveys {
		lines = append(lines, "- "+s.Title)
	}
	return strings.Join(lines, "\n"), true
}

// --- dimensions ---

func (r *Responder) matchDimensions(q Query) bool {
	return q.Has("dimensión", "dimensiones")
}

func (r *Responder) handleDimensions(ctx context.Context, q Query) (string, bool) {
	dims, err := r.data.ListDimensions(ctx)
	if err != nil || len(dims) == 0 {
		if err != nil {
			r.logger.Warn("dimension listing failed", "error", err)
		}
		return fallbackSentence("Dimensiones"), true
	}

	// Detail branch: a dimension named in the query lists its indicators.
	for i := range dims {
		if q.Mentions(dims[i].Name) {
			return r.dimensionDetail(ctx, &dims[i]), true
		}
	}

	lines := make([]string, 0, len(dims)+1)
	lines = append(lines, "Las dimensiones del índice BRAINNOVA son:")
	for _, d := range dims {
		lines = append(lines, "- "+d.Name)
	}
	return strings.Join(lines, "\n"), true
}

func (r *Responder) dimensionDetail(ctx context.Context, dim *store.Dimension) string {
	defs, err := r.data.ListIndicatorsForDimension(ctx, dim.Name)
	if err != nil {
		r.logger.Warn("indicator listing failed", "dimension", dim.Name, "error", err)
		return fallbackSentence("Dimensiones")
	}
	if len(defs) == 0 {
		return fmt.Sprintf("La dimensión %s todavía no tiene indicadores asociados.", dim.Name)
	}
	lines := make([]string, 0, len(defs)+1)
	lines = append(lines, fmt.Sprintf("Indicadores de la dimensión %s:", dim.Name))
	for _, d := range defs {
		lines = append(lines, fmt.Sprintf("- %s (importancia %s)", d.Name, d.Importance))
	}
	return strings.Join(lines, "\n")
}

// --- value_lookup ---

func (r *Responder) matchValueLookup(q Query) bool {
	return q.Mentions("valor de") || q.Mentions("valor del")
}

func (r *Responder) handleValueLookup(ctx context.Context, q Query) (string, bool) {
	terms := r.searchTerms(afterPhrase(q.Normalized, "valor de"))
	if len(terms) == 0 {
		return "", false
	}
	return r.indicatorSearchReply(ctx, q, terms)
}

// afterPhrase returns the query text following the phrase,
// accent-insensitively matched.
func afterPhrase(normalized, phrase string) string {
	folded := fold(normalized)
	idx := strings.Index(folded, fold(phrase))
	if idx < 0 {
		return normalized
	}
	// fold preserves rune counts, so offsets line up per rune.
	runes := []rune(normalized)
	start := len([]rune(folded[:idx])) + len([]rune(phrase))
	if start >= len(runes) {
		return ""
	}
	return string(runes[start:])
}

// --- indicator_search ---

func (r *Responder) matchIndicatorSearch(q Query) bool {
	return q.Has("kpi", "kpis", "indicador", "indicadores", "métrica", "métricas",
		"dato", "datos", "empresa", "empresas", "digital")
}

func (r *Responder) handleIndicatorSearch(ctx context.Context, q Query) (string, bool) {
	terms := r.searchTerms(q.Normalized)
	if len(terms) == 0 {
		return "", false
	}
	return r.indicatorSearchReply(ctx, q, terms)
}

func (r *Responder) searchTerms(text string) []string {
	return r.knowledge.Tokenize(text)
}

func (r *Responder) indicatorSearchReply(ctx context.Context, q Query, terms []string) (string, bool) {
	defs, err := r.data.SearchIndicators(ctx, terms, 10)
	if err != nil {
		r.logger.Warn("indicator search failed", "terms", terms, "error", err)
		return fallbackSentence("Indicadores"), true
	}
	switch len(defs) {
	case 0:
		return "", false
	case 1:
		return r.formatIndicatorDetail(ctx, &defs[0], r.territoryOf(q)), true
	default:
		lines := make([]string, 0, len(defs)+1)
		lines = append(lines, "He encontrado varios indicadores relacionados:")
		for _, d := range defs {
			lines = append(lines, "- "+d.Name)
		}
		return strings.Join(lines, "\n"), true
	}
}

func (r *Responder) formatIndicatorDetail(ctx context.Context, def *store.IndicatorDefinition, territoryKey string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (importancia %s)", def.Name, def.Importance)
	if def.Formula != "" {
		fmt.Fprintf(&b, "\nFórmula: %s", def.Formula)
	}
	if def.Source != "" {
		fmt.Fprintf(&b, "\nFuente: %s", def.Source)
	}

	res, err := r.data.IndicatorValue(ctx, def.Name, store.ResultFilter{Territory: territoryKey})
	if err != nil {
		r.logger.Warn("indicator value lookup failed", "indicator", def.Name, "error", err)
	}
	if res != nil {
		fmt.Fprintf(&b, "\nÚltimo valor en %s (%d): %.1f",
			r.territories.Display(territoryKey), res.Period, res.Value)
	} else {
		fmt.Fprintf(&b, "\nSin datos para %s.", r.territories.Display(territoryKey))
	}
	return b.String()
}

// --- knowledge_fallback ---

func (r *Responder) handleFallback(ctx context.Context, q Query) (string, bool) {
	items := r.knowledge.Search(ctx, q.Raw, "")
	if len(items) == 0 {
		// Broaden to the single longest token before giving up.
		if tok := longestToken(r.knowledge.Tokenize(q.Raw)); tok != "" {
			items = r.knowledge.Search(ctx, tok, "")
		}
	}
	if len(items) == 0 {
		return helpMessage, true
	}
	return fmt.Sprintf("Sobre «%s»: %s", items[0].Title, items[0].Content), true
}

func longestToken(tokens []string) string {
	longest := ""
	for _, tok := range tokens {
		if len(tok) > len(longest) {
			longest = tok
		}
	}
	return longest
}
