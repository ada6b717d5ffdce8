package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// ListingID identifies a single vendor listing. Catalog documents carry it
// either as a number or as a string.
type ListingID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *ListingID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ListingID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("listing id: %w", err)
	}
	*id = ListingID(n.String())
	return nil
}

// ProductListing is one vendor's offer of one product as stored in the catalog
type ProductListing struct {
	ID       ListingID `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Category string    `json:"category" yaml:"category"`
	Vendor   string    `json:"vendor" yaml:"vendor"`
	Price    float64   `json:"price" yaml:"price"`
	Rating   *float64  `json:"rating,omitempty" yaml:"rating,omitempty"`
	Image    string    `json:"image" yaml:"image"`
}

// RatingOrZero returns the rating, treating an absent rating as 0.
// Every aggregation over ratings goes through this.
func (p ProductListing) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// Validate reports whether the listing satisfies the catalog schema
func (p ProductListing) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: missing name (id %q)", ErrMalformedListing, p.ID)
	case p.Category == "":
		return fmt.Errorf("%w: missing category for %q", ErrMalformedListing, p.Name)
	case p.Price < 0 || math.IsNaN(p.Price):
		return fmt.Errorf("%w: invalid price %v for %q", ErrMalformedListing, p.Price, p.Name)
	case p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5):
		return fmt.Errorf("%w: rating %v out of range for %q", ErrMalformedListing, *p.Rating, p.Name)
	}
	return nil
}

// ScoredListing is a listing annotated with its search relevance score
type ScoredListing struct {
	ProductListing
	Score int `json:"score"`
}

// VendorOffer is the per-vendor view of one grouped product
type VendorOffer struct {
	Vendor string    `json:"vendor"`
	Price  float64   `json:"price"`
	Rating float64   `json:"rating"`
	ID     ListingID `json:"id"`
}

// GroupedProduct merges all listings sharing a product name.
// Vendors is sorted ascending by price.
type GroupedProduct struct {
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Image    string        `json:"image"`
	Vendors  []VendorOffer `json:"vendors"`
}

// LowestPrice returns the cheapest vendor price, or 0 when there are no vendors
func (g GroupedProduct) LowestPrice() float64 {
	if len(g.Vendors) == 0 {
		return 0
	}
	lowest := g.Vendors[0].Price
	for _, v := range g.Vendors[1:] {
		if v.Price < lowest {
			lowest = v.Price
		}
	}
	return lowest
}

// AverageRating returns the mean vendor rating, or 0 when there are no vendors
func (g GroupedProduct) AverageRating() float64 {
	if len(g.Vendors) == 0 {
		return 0
	}
	var sum float64
	for _, v := range g.Vendors {
		sum += v.Rating
	}
	return sum / float64(len(g.Vendors))
}
