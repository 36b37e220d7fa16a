package chat

import "context"

// Rule is one branch of the intent cascade. Rules are evaluated in order
// and the first whose Match fires and whose Handle produces an answer
// wins. A handler may decline (handled=false) to let later branches,
// ultimately the knowledge fallback, take the query.
type Rule struct {
	Name   string
	Match  func(q Query) bool
	Handle func(ctx context.Context, q Query) (reply string, handled bool)
}

func (r *Responder) rules() []Rule {
	return []Rule{
		{Name: "global_index", Match: r.matchGlobalIndex, Handle: r.handleGlobalIndex},
		{Name: "province_index", Match: r.matchProvinceIndex, Handle: r.handleProvinceIndex},
		{Name: "basic_digitization", Match: r.matchBasicDigitization, Handle: r.handleBasicDigitization},
		{Name: "business_digitization", Match: r.matchBusinessDigitization, Handle: r.handleBusinessDigitization},
		{Name: "digital_skills", Match: r.matchDigitalSkills, Handle: r.handleDigitalSkills},
		{Name: "surveys", Match: r.matchSurveys, Handle: r.handleSurveys},
		{Name: "dimensions", Match: r.matchDimensions, Handle: r.handleDimensions},
		{Name: "value_lookup", Match: r.matchValueLookup, Handle: r.handleValueLookup},
		{Name: "indicator_search", Match: r.matchIndicatorSearch, Handle: r.handleIndicatorSearch},
		{Name: "knowledge_fallback", Match: func(Query) bool { return true }, Handle: r.handleFallback},
	}
}
