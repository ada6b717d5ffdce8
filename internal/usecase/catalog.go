package usecase

import (
	"fmt"

	"github.com/pricelens/backend/internal/domain"
)

// Catalog is an immutable snapshot of loaded product listings.
// It is safe for concurrent readers once built.
type Catalog struct {
	listings []domain.ProductListing
	issues   []string
}

// NewCatalog validates every listing and builds a catalog snapshot.
// The first malformed record aborts the build.
func NewCatalog(listings []domain.ProductListing) (*Catalog, error) {
	owned := make([]domain.ProductListing, len(listings))
	for i, l := range listings {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		owned[i] = l
	}

	return &Catalog{
		listings: owned,
		issues:   findConsistencyIssues(owned),
	}, nil
}

// EmptyCatalog returns a catalog with no listings
func EmptyCatalog() *Catalog {
	return &Catalog{}
}

// Len returns the number of listings
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.listings)
}

// Listings returns a copy of all listings in catalog order
func (c *Catalog) Listings() []domain.ProductListing {
	if c == nil {
		return []domain.ProductListing{}
	}
	out := make([]domain.ProductListing, len(c.listings))
	copy(out, c.listings)
	return out
}

// each iterates the listings in catalog order without copying
func (c *Catalog) each(fn func(domain.ProductListing)) {
	if c == nil {
		return
	}
	for _, l := range c.listings {
		fn(l)
	}
}

// Names returns the distinct product names in first-seen order
func (c *Catalog) Names() []string {
	seen := make(map[string]bool)
	var names []string
	c.each(func(l domain.ProductListing) {
		if !seen[l.Name] {
			seen[l.Name] = true
			names = append(names, l.Name)
		}
	})
	return names
}

// ConsistencyIssues lists product names whose listings disagree on category
// or image. Grouping keeps the first-seen values for such names.
func (c *Catalog) ConsistencyIssues() []string {
	if c == nil {
		return nil
	}
	return c.issues
}

func findConsistencyIssues(listings []domain.ProductListing) []string {
	type firstSeen struct {
		category string
		image    string
	}
	first := make(map[string]firstSeen)
	reported := make(map[string]bool)
	var issues []string

	for _, l := range listings {
		f, ok := first[l.Name]
		if !ok {
			first[l.Name] = firstSeen{category: l.Category, image: l.Image}
			continue
		}
		if reported[l.Name] {
			continue
		}
		if f.category != l.Category {
			issues = append(issues, fmt.Sprintf("%q listed under categories %q and %q", l.Name, f.category, l.Category))
			reported[l.Name] = true
		} else if f.image != l.Image {
			issues = append(issues, fmt.Sprintf("%q listed with images %q and %q", l.Name, f.image, l.Image))
			reported[l.Name] = true
		}
	}

	return issues
}
