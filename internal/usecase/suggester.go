package usecase

import (
	"github.com/pricelens/backend/internal/domain"
	"github.com/sahilm/fuzzy"
)

// nameSource adapts distinct product names to fuzzy.Source
type nameSource []string

func (n nameSource) String(i int) string { return n[i] }
func (n nameSource) Len() int            { return len(n) }

// Suggester offers autocomplete over the distinct product names of a catalog
type Suggester struct {
	names nameSource
}

// NewSuggester indexes the distinct names of the given catalog snapshot
func NewSuggester(catalog *Catalog) *Suggester {
	return &Suggester{names: nameSource(catalog.Names())}
}

// Suggest returns up to limit product names fuzzily matching prefix, best first
func (s *Suggester) Suggest(prefix string, limit int) []domain.Suggestion {
	suggestions := []domain.Suggestion{}
	pattern := normalizeQuery(prefix)
	if pattern == "" || limit <= 0 {
		return suggestions
	}

	for _, m := range fuzzy.FindFrom(pattern, s.names) {
		suggestions = append(suggestions, domain.Suggestion{
			Name:  m.Str,
			Score: m.Score,
		})
		if len(suggestions) == limit {
			break
		}
	}
	return suggestions
}
