package usecase

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pricelens/backend/internal/domain"
	"github.com/rs/zerolog"
)

// Scoring bonuses, accumulated per term
const (
	substringMatchBonus = 10 // term is a substring of the name or category
	prefixMatchBonus    = 5  // term and a name word are prefixes of one another
	typoMatchBonus      = 3  // term is within maxTypoDistance of a name word
)

// Typo tolerance bounds
const (
	maxTypoDistance   = 2
	minTypoTermLength = 4 // shorter terms produce too many false positives
)

// SearchEngine scores catalog listings against free-text queries
type SearchEngine struct {
	catalog *Catalog
	logger  zerolog.Logger
}

// NewSearchEngine creates a search engine over the given catalog snapshot
func NewSearchEngine(catalog *Catalog, logger zerolog.Logger) *SearchEngine {
	return &SearchEngine{
		catalog: catalog,
		logger:  logger,
	}
}

// Search returns the listings matching query, best score first.
//
// A listing is admitted only when its score is positive and at least one
// term is a literal substring of its name or category. Prefix and typo
// bonuses refine the ranking of admitted listings but never admit a
// listing on their own. An empty or whitespace-only query matches nothing.
func (s *SearchEngine) Search(ctx context.Context, query string) ([]domain.ScoredListing, error) {
	terms := queryTerms(query)
	results := []domain.ScoredListing{}
	if len(terms) == 0 {
		return results, nil
	}

	var cancelled error
	s.catalog.each(func(listing domain.ProductListing) {
		if cancelled != nil {
			return
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			return
		default:
		}

		score, clean := scoreListing(terms, listing)
		if score > 0 && clean {
			results = append(results, domain.ScoredListing{ProductListing: listing, Score: score})
		} else if score > 0 {
			s.logger.Debug().
				Str("name", listing.Name).
				Int("score", score).
				Msg("dropped fuzzy-only match")
		}
	})
	if cancelled != nil {
		return nil, cancelled
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	s.logger.Debug().
		Strs("terms", terms).
		Int("matches", len(results)).
		Msg("search scored")

	return results, nil
}

// scoreListing computes the additive score of a listing for the given terms
// and reports whether any term matched the name or category literally.
func scoreListing(terms []string, listing domain.ProductListing) (score int, clean bool) {
	name := strings.ToLower(listing.Name)
	category := strings.ToLower(listing.Category)
	words := strings.Fields(name)

	for _, term := range terms {
		if strings.Contains(name, term) || strings.Contains(category, term) {
			score += substringMatchBonus
			clean = true
		}

		typoEligible := utf8.RuneCountInString(term) >= minTypoTermLength
		for _, word := range words {
			if strings.HasPrefix(word, term) || strings.HasPrefix(term, word) {
				score += prefixMatchBonus
			}
			if typoEligible && EditDistance(term, word) <= maxTypoDistance {
				score += typoMatchBonus
			}
		}
	}

	return score, clean
}
