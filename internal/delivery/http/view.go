package http

import (
	"math"
	"net/url"
	"strings"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ComparisonView is the JSON payload for a search or category selection
type ComparisonView struct {
	Query           string               `json:"query,omitempty"`
	Category        string               `json:"category,omitempty"`
	ListingCount    int                  `json:"listingCount"`
	ProductCount    int                  `json:"productCount"`
	Products        []ProductView        `json:"products"`
	Recommendations []RecommendationView `json:"recommendations"`
	Message         string               `json:"message,omitempty"`
}

// ProductView is one grouped product with its vendor comparison
type ProductView struct {
	Name           string       `json:"name"`
	Category       string       `json:"category"`
	Image          string       `json:"image"`
	VendorCount    int          `json:"vendorCount"`
	AverageRating  float64      `json:"averageRating"`
	LowestPrice    float64      `json:"lowestPrice"`
	FormattedPrice string       `json:"formattedPrice"`
	Vendors        []VendorView `json:"vendors"`
}

// VendorView is one vendor row of a product comparison
type VendorView struct {
	ID             string  `json:"id"`
	Vendor         string  `json:"vendor"`
	Price          float64 `json:"price"`
	FormattedPrice string  `json:"formattedPrice"`
	Rating         float64 `json:"rating"`
	BestPrice      bool    `json:"bestPrice"`
}

// RecommendationView is a compact card for a recommended product
type RecommendationView struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Image          string  `json:"image"`
	VendorCount    int     `json:"vendorCount"`
	LowestPrice    float64 `json:"lowestPrice"`
	FormattedPrice string  `json:"formattedPrice"`
	CompareURL     string  `json:"compareUrl"`
}

const noResultsMessage = "No products found"

// Presenter renders domain results into API views
type Presenter struct {
	printer        *message.Printer
	currencySymbol string
	imageBase      string
}

// NewPresenter creates a presenter for the configured locale and image base.
// An unparsable locale falls back to English.
func NewPresenter(cfg config.DisplayConfig) *Presenter {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.English
	}
	return &Presenter{
		printer:        message.NewPrinter(tag),
		currencySymbol: cfg.CurrencySymbol,
		imageBase:      cfg.ImageBase,
	}
}

// Comparison renders a comparison result
func (p *Presenter) Comparison(result *domain.ComparisonResult) ComparisonView {
	view := ComparisonView{
		Products:        []ProductView{},
		Recommendations: []RecommendationView{},
	}
	if result == nil {
		view.Message = noResultsMessage
		return view
	}

	view.Query = result.Query
	view.Category = result.Category
	view.ListingCount = result.ListingCount
	view.ProductCount = len(result.Results)

	for _, g := range result.Results {
		view.Products = append(view.Products, p.product(g))
	}
	for _, g := range result.Recommendations {
		view.Recommendations = append(view.Recommendations, p.recommendation(g))
	}

	if result.IsEmpty() {
		view.Message = noResultsMessage
	}
	return view
}

func (p *Presenter) product(g domain.GroupedProduct) ProductView {
	lowest := g.LowestPrice()
	view := ProductView{
		Name:           g.Name,
		Category:       g.Category,
		Image:          p.resolveImage(g.Image),
		VendorCount:    len(g.Vendors),
		AverageRating:  math.Round(g.AverageRating()*10) / 10,
		LowestPrice:    lowest,
		FormattedPrice: p.formatPrice(lowest),
		Vendors:        make([]VendorView, 0, len(g.Vendors)),
	}

	for _, v := range g.Vendors {
		view.Vendors = append(view.Vendors, VendorView{
			ID:             string(v.ID),
			Vendor:         v.Vendor,
			Price:          v.Price,
			FormattedPrice: p.formatPrice(v.Price),
			Rating:         v.Rating,
			BestPrice:      v.Price == lowest,
		})
	}
	return view
}

func (p *Presenter) recommendation(g domain.GroupedProduct) RecommendationView {
	lowest := g.LowestPrice()
	return RecommendationView{
		Name:           g.Name,
		Category:       g.Category,
		Image:          p.resolveImage(g.Image),
		VendorCount:    len(g.Vendors),
		LowestPrice:    lowest,
		FormattedPrice: p.formatPrice(lowest),
		CompareURL:     "/api/v1/search?q=" + url.QueryEscape(g.Name),
	}
}

// formatPrice renders a price with locale digit grouping and the currency symbol
func (p *Presenter) formatPrice(price float64) string {
	return p.currencySymbol + p.printer.Sprint(number.Decimal(price, number.MaxFractionDigits(2)))
}

// resolveImage prefixes relative image paths with the configured base.
// Absolute URLs pass through.
func (p *Presenter) resolveImage(image string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	return p.imageBase + image
}
