package domain

// ComparisonResult is the outcome of one search or category selection.
// It carries the request state explicitly instead of tracking the current
// term or category process-wide.
type ComparisonResult struct {
	Query           string           `json:"query,omitempty"`
	Category        string           `json:"category,omitempty"`
	ListingCount    int              `json:"listingCount"`
	Results         []GroupedProduct `json:"results"`
	Recommendations []GroupedProduct `json:"recommendations"`
}

// IsEmpty reports whether nothing matched
func (r *ComparisonResult) IsEmpty() bool {
	return r == nil || len(r.Results) == 0
}

// Suggestion is one autocomplete candidate for a partially typed query
type Suggestion struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}
