package usecase

import "strings"

// normalizeQuery lower-cases and trims a free-text query
func normalizeQuery(query string) string {
	return strings.TrimSpace(strings.ToLower(query))
}

// queryTerms splits a query on single spaces into search terms.
// Empty tokens produced by repeated spaces are dropped.
func queryTerms(query string) []string {
	normalized := normalizeQuery(query)
	if normalized == "" {
		return nil
	}

	var terms []string
	for _, t := range strings.Split(normalized, " ") {
		if t == "" {
			continue
		}
		terms = append(terms, t)
	}
	return terms
}

// searchCacheKey builds the cache key for a free-text query.
// Format: "search:{normalized_query}"
func searchCacheKey(query string) string {
	return "search:" + strings.Join(queryTerms(query), " ")
}

// categoryCacheKey builds the cache key for a category selection.
// Labels are matched case-sensitively, so the label is kept verbatim.
func categoryCacheKey(label string) string {
	return "category:" + label
}
