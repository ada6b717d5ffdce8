package usecase

import "github.com/pricelens/backend/internal/domain"

// DefaultRecommendationLimit is the number of recommendations shown by default
const DefaultRecommendationLimit = 6

// Recommender proposes other products from the categories of a result set
type Recommender struct {
	catalog *Catalog
}

// NewRecommender creates a recommender over the given catalog snapshot
func NewRecommender(catalog *Catalog) *Recommender {
	return &Recommender{catalog: catalog}
}

// Recommend returns up to limit grouped products that share a category with
// current but whose names do not appear in current.
//
// Categories are visited in the order they first appear in current. Within
// a category, candidates are grouped in catalog first-occurrence order.
// Duplicate names keep their first occurrence. A non-positive limit or an
// empty current set yields no recommendations.
func (r *Recommender) Recommend(current []domain.ProductListing, limit int) []domain.GroupedProduct {
	recommendations := []domain.GroupedProduct{}
	if len(current) == 0 || limit <= 0 {
		return recommendations
	}

	var categories []string
	seenCategory := make(map[string]bool)
	excluded := make(map[string]bool)
	for _, l := range current {
		if !seenCategory[l.Category] {
			seenCategory[l.Category] = true
			categories = append(categories, l.Category)
		}
		excluded[l.Name] = true
	}

	var candidates []domain.GroupedProduct
	for _, category := range categories {
		var similar []domain.ProductListing
		r.catalog.each(func(l domain.ProductListing) {
			if l.Category == category && !excluded[l.Name] {
				similar = append(similar, l)
			}
		})
		candidates = append(candidates, GroupProducts(similar)...)
	}

	seenName := make(map[string]bool)
	for _, c := range candidates {
		if seenName[c.Name] {
			continue
		}
		seenName[c.Name] = true
		recommendations = append(recommendations, c)
		if len(recommendations) == limit {
			break
		}
	}

	return recommendations
}
