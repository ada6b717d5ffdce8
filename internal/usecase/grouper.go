package usecase

import (
	"sort"

	"github.com/pricelens/backend/internal/domain"
)

// GroupProducts merges listings sharing a name into one GroupedProduct per
// name. Output order is the order in which each name first appears; the
// category and image of a group come from its first listing. Each group's
// vendors are sorted by ascending price, equal prices keeping input order.
func GroupProducts(listings []domain.ProductListing) []domain.GroupedProduct {
	index := make(map[string]int)
	groups := []domain.GroupedProduct{}

	for _, l := range listings {
		i, ok := index[l.Name]
		if !ok {
			i = len(groups)
			index[l.Name] = i
			groups = append(groups, domain.GroupedProduct{
				Name:     l.Name,
				Category: l.Category,
				Image:    l.Image,
			})
		}
		groups[i].Vendors = append(groups[i].Vendors, domain.VendorOffer{
			Vendor: l.Vendor,
			Price:  l.Price,
			Rating: l.RatingOrZero(),
			ID:     l.ID,
		})
	}

	for i := range groups {
		vendors := groups[i].Vendors
		sort.SliceStable(vendors, func(a, b int) bool {
			return vendors[a].Price < vendors[b].Price
		})
	}

	return groups
}

// listingsOf strips the scores from search results
func listingsOf(scored []domain.ScoredListing) []domain.ProductListing {
	out := make([]domain.ProductListing, len(scored))
	for i, s := range scored {
		out[i] = s.ProductListing
	}
	return out
}
