package usecase

import (
	"strings"
	"testing"

	"github.com/pricelens/backend/internal/domain"
)

func rating(v float64) *float64 { return &v }

func listing(id, name, category, vendor string, price float64) domain.ProductListing {
	return domain.ProductListing{
		ID:       domain.ListingID(id),
		Name:     name,
		Category: category,
		Vendor:   vendor,
		Price:    price,
		Image:    strings.ReplaceAll(strings.ToLower(name), " ", "-") + ".jpg",
	}
}

// phoneCatalogListings is the two-vendor phone scenario
func phoneCatalogListings() []domain.ProductListing {
	return []domain.ProductListing{
		listing("1", "Phone X", "Smartphones", "A", 100),
		listing("2", "Phone X", "Smartphones", "B", 90),
		listing("3", "Tablet Y", "Smartphones", "A", 200),
	}
}

// storeListings spans several catalog categories
func storeListings() []domain.ProductListing {
	return []domain.ProductListing{
		listing("1", "Phone X", "Smartphones", "A", 100),
		listing("2", "Phone X", "Smartphones", "B", 90),
		listing("3", "Tablet Y", "Smartphones", "A", 200),
		listing("4", "Phone Z", "Mobiles", "C", 150),
		listing("5", "Sony Headphones", "Headphones", "A", 2999),
		listing("6", "Speaker S", "Speakers", "B", 70),
		listing("7", "Speaker S", "Speakers", "A", 60),
		listing("8", "Earbuds E", "Earbuds", "A", 50),
		listing("9", "Dell XPS 13 Laptop", "Laptops", "A", 129990),
		listing("10", "Canon EOS Camera", "Cameras", "B", 41990),
	}
}

func mustCatalog(t *testing.T, listings []domain.ProductListing) *Catalog {
	t.Helper()
	c, err := NewCatalog(listings)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return c
}

func groupNames(groups []domain.GroupedProduct) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// recommenderListings has two categories with several products each
func recommenderListings() []domain.ProductListing {
	return []domain.ProductListing{
		listing("1", "Phone X", "Smartphones", "A", 100),
		listing("2", "Tablet Y", "Smartphones", "A", 200),
		listing("3", "Phone Mini", "Smartphones", "B", 80),
		listing("4", "Tablet Y", "Smartphones", "B", 150),
		listing("5", "Speaker S", "Speakers", "A", 70),
		listing("6", "Speaker T", "Speakers", "A", 90),
		listing("7", "Dell Laptop", "Laptops", "A", 900),
	}
}
