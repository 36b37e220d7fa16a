// Package knowledge provides free-text relevance search over the static
// question/answer corpus.
package knowledge

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/brainnova/brainnova/internal/store"
)

const maxResults = 10

// Relevance weights per matched token.
const (
	titleWeight   = 3
	keywordWeight = 2
	contentWeight = 1
)

// DataSource is the slice of the store the searcher reads from.
type DataSource interface {
	SearchKnowledge(ctx context.Context, tokens []string, category string, limit int) ([]store.KnowledgeItem, error)
	SearchKnowledgeTitle(ctx context.Context, token string, limit int) ([]store.KnowledgeItem, error)
}

// Searcher ranks knowledge items against a free-text query. It never
// returns an error: a failing store degrades to a single-token title
// search, then to an empty result.
type Searcher struct {
	data   DataSource
	stop   map[string]struct{}
	logger *slog.Logger
}

func NewSearcher(data DataSource, logger *slog.Logger) *Searcher {
	return &Searcher{data: data, stop: defaultStopwords(), logger: logger}
}

// CleanQuery strips question/exclamation punctuation, trims, and lowercases.
func CleanQuery(q string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '¿', '?', '¡', '!', '.', ',', ';', ':', '"', '\'':
			return ' '
		}
		return r
	}, q)
	return strings.ToLower(strings.TrimSpace(cleaned))
}

// Tokenize splits a cleaned query into search tokens, dropping short tokens
// and stop words. Short tokens carrying a digit survive: "5g" is a real
// search term, "el" is not.
func (s *Searcher) Tokenize(query string) []string {
	var tokens []string
	for _, tok := range strings.Fields(CleanQuery(query)) {
		if len([]rune(tok)) <= 2 && !strings.ContainsAny(tok, "0123456789") {
			continue
		}
		if _, isStop := s.stop[tok]; isStop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Search returns up to 10 knowledge items ranked by relevance to the query.
func (s *Searcher) Search(ctx context.Context, query, category string) []store.KnowledgeItem {
	tokens := s.Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	items, err := s.data.SearchKnowledge(ctx, tokens, category, maxResults)
	if err != nil {
		s.logger.Warn("knowledge search failed, degrading to title-only", "error", err)
		items = s.degradedSearch(ctx, tokens)
	}
	if len(items) == 0 {
		return nil
	}

	rank(items, tokens)
	return items
}

// degradedSearch retries with only the longest token against titles.
func (s *Searcher) degradedSearch(ctx context.Context, tokens []string) []store.KnowledgeItem {
	longest := tokens[0]
	for _, tok := range tokens[1:] {
		if len(tok) > len(longest) {
			longest = tok
		}
	}
	items, err := s.data.SearchKnowledgeTitle(ctx, longest, maxResults)
	if err != nil {
		s.logger.Warn("degraded knowledge search failed", "token", longest, "error", err)
		return nil
	}
	return items
}

// rank orders items by descending relevance score: +3 per token matching
// the title, +2 per keyword match, +1 per content match. The sort is stable
// so the store's recency ordering breaks ties.
func rank(items []store.KnowledgeItem, tokens []string) {
	scores := make(map[int]int, len(items))
	for i, item := range items {
		scores[i] = relevance(item, tokens)
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	ranked := make([]store.KnowledgeItem, len(items))
	for i, j := range idx {
		ranked[i] = items[j]
	}
	copy(items, ranked)
}

func relevance(item store.KnowledgeItem, tokens []string) int {
	title := strings.ToLower(item.Title)
	content := strings.ToLower(item.Content)

	score := 0
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			score += titleWeight
		}
		for _, kw := range item.Keywords {
			if strings.Contains(strings.ToLower(kw), tok) {
				score += keywordWeight
				break
			}
		}
		if strings.Contains(content, tok) {
			score += contentWeight
		}
	}
	return score
}
