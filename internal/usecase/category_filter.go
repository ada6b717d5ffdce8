package usecase

import "github.com/pricelens/backend/internal/domain"

// AllCategories is the label that disables category filtering
const AllCategories = "all"

// categoryLabels lists the user-facing labels in display order
var categoryLabels = []string{"Smartphones", "Laptops", "Audio", "Cameras", "Gaming", "Wearables"}

// categoryMap maps a user-facing label to the catalog categories it covers
var categoryMap = map[string][]string{
	"Smartphones": {"Smartphones", "Mobiles", "Phones"},
	"Laptops":     {"Laptops", "Computers", "Electronics"},
	"Audio":       {"Audio", "Headphones", "Earbuds", "Speakers"},
	"Cameras":     {"Cameras", "Camera"},
	"Gaming":      {"Gaming", "Consoles"},
	"Wearables":   {"Wearables", "Smartwatches", "Fitness Bands", "Watches"},
}

// CategoryFilter selects catalog listings by user-facing category label
type CategoryFilter struct {
	catalog *Catalog
}

// NewCategoryFilter creates a filter over the given catalog snapshot
func NewCategoryFilter(catalog *Catalog) *CategoryFilter {
	return &CategoryFilter{catalog: catalog}
}

// Labels returns the recognized labels in display order, followed by "all"
func (f *CategoryFilter) Labels() []string {
	out := make([]string, 0, len(categoryLabels)+1)
	out = append(out, categoryLabels...)
	return append(out, AllCategories)
}

// IsKnown reports whether label is a recognized category label
func (f *CategoryFilter) IsKnown(label string) bool {
	if label == AllCategories {
		return true
	}
	_, ok := categoryMap[label]
	return ok
}

// FilterByCategory returns the listings under label in catalog order.
// "all" returns the whole catalog; an unknown label returns no listings.
func (f *CategoryFilter) FilterByCategory(label string) []domain.ProductListing {
	if label == AllCategories {
		return f.catalog.Listings()
	}

	mapped, ok := categoryMap[label]
	if !ok {
		return []domain.ProductListing{}
	}

	members := make(map[string]bool, len(mapped))
	for _, c := range mapped {
		members[c] = true
	}

	filtered := []domain.ProductListing{}
	f.catalog.each(func(l domain.ProductListing) {
		if members[l.Category] {
			filtered = append(filtered, l)
		}
	})
	return filtered
}
