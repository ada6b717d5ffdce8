package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Query kinds reported to the metrics recorder
const (
	queryKindSearch   = "search"
	queryKindCategory = "category"
	queryKindSuggest  = "suggest"
)

// DefaultSuggestionLimit is the number of autocomplete entries returned by default
const DefaultSuggestionLimit = 8

// defaultLoadTimeout bounds a catalog load when no timeout is configured
const defaultLoadTimeout = 30 * time.Second

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	CacheTTL            time.Duration
	LoadTimeout         time.Duration
	RecommendationLimit int
	SuggestionLimit     int
}

// snapshot bundles a catalog with the components built over it.
// It is never mutated after construction.
type snapshot struct {
	generation  uint64
	catalog     *Catalog
	search      *SearchEngine
	filter      *CategoryFilter
	recommender *Recommender
	suggester   *Suggester
}

func newSnapshot(generation uint64, catalog *Catalog, logger zerolog.Logger) *snapshot {
	return &snapshot{
		generation:  generation,
		catalog:     catalog,
		search:      NewSearchEngine(catalog, logger),
		filter:      NewCategoryFilter(catalog),
		recommender: NewRecommender(catalog),
		suggester:   NewSuggester(catalog),
	}
}

// ComparisonService answers searches and category selections against the
// currently loaded catalog snapshot
type ComparisonService struct {
	source              domain.CatalogSource
	cache               domain.CacheRepository
	metrics             domain.MetricsRecorder
	logger              zerolog.Logger
	cacheTTL            time.Duration
	loadTimeout         time.Duration
	recommendationLimit int
	suggestionLimit     int

	current    atomic.Pointer[snapshot]
	generation atomic.Uint64
	loads      singleflight.Group
}

// NewComparisonService creates a comparison service with dependencies.
// cache and metrics may be nil. The catalog starts empty until LoadCatalog succeeds.
func NewComparisonService(
	source domain.CatalogSource,
	cache domain.CacheRepository,
	metrics domain.MetricsRecorder,
	logger zerolog.Logger,
	config ComparisonServiceConfig,
) *ComparisonService {
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	loadTimeout := config.LoadTimeout
	if loadTimeout <= 0 {
		loadTimeout = defaultLoadTimeout
	}

	recLimit := config.RecommendationLimit
	if recLimit <= 0 {
		recLimit = DefaultRecommendationLimit
	}

	suggestLimit := config.SuggestionLimit
	if suggestLimit <= 0 {
		suggestLimit = DefaultSuggestionLimit
	}

	s := &ComparisonService{
		source:              source,
		cache:               cache,
		metrics:             metrics,
		logger:              logger,
		cacheTTL:            cacheTTL,
		loadTimeout:         loadTimeout,
		recommendationLimit: recLimit,
		suggestionLimit:     suggestLimit,
	}
	s.current.Store(newSnapshot(0, EmptyCatalog(), logger))
	return s
}

// LoadCatalog fetches the catalog from the source and makes it current.
// Concurrent calls share a single in-flight load. The shared load is not tied
// to any caller's context: it runs until done or until the load timeout, so a
// caller that gives up only stops waiting and gets its own ctx.Err(). On
// failure the previously loaded catalog (empty at startup) stays in place and
// the returned error wraps domain.ErrCatalogLoad.
func (s *ComparisonService) LoadCatalog(ctx context.Context) error {
	results := s.loads.DoChan("catalog", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		return nil, s.load(loadCtx)
	})

	select {
	case res := <-results:
		if res.Shared {
			s.logger.Debug().Msg("joined in-flight catalog load")
		}
		return res.Err
	case <-ctx.Done():
		s.logger.Debug().Err(ctx.Err()).Msg("stopped waiting for catalog load")
		return ctx.Err()
	}
}

func (s *ComparisonService) load(ctx context.Context) error {
	if s.source == nil {
		return fmt.Errorf("%w: no catalog source configured", domain.ErrCatalogLoad)
	}

	start := time.Now()
	listings, err := s.source.Load(ctx)
	if err != nil {
		s.recordLoad(false, 0)
		s.logger.Error().Err(err).Str("source", s.source.Describe()).Msg("catalog load failed")
		if !errors.Is(err, domain.ErrCatalogLoad) {
			err = fmt.Errorf("%w: %w", domain.ErrCatalogLoad, err)
		}
		return err
	}

	catalog, err := NewCatalog(listings)
	if err != nil {
		s.recordLoad(false, 0)
		s.logger.Error().Err(err).Str("source", s.source.Describe()).Msg("catalog rejected")
		return fmt.Errorf("%w: %w", domain.ErrCatalogLoad, err)
	}

	for _, issue := range catalog.ConsistencyIssues() {
		s.logger.Warn().Str("issue", issue).Msg("inconsistent listings share a product name")
	}

	gen := s.generation.Add(1)
	s.current.Store(newSnapshot(gen, catalog, s.logger))

	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to clear result cache")
		}
	}

	s.recordLoad(true, catalog.Len())
	s.logger.Info().
		Str("source", s.source.Describe()).
		Int("listings", catalog.Len()).
		Int("products", len(catalog.Names())).
		Dur("elapsed", time.Since(start)).
		Msg("catalog loaded")

	return nil
}

// PerformSearch runs a free-text search and derives recommendations from
// the matched listings. An empty or whitespace-only query yields an empty
// result. Each call fully replaces prior results.
func (s *ComparisonService) PerformSearch(ctx context.Context, query string) (*domain.ComparisonResult, error) {
	start := time.Now()
	result := newResult()
	result.Query = query

	if strings.TrimSpace(query) == "" {
		s.recordQuery(queryKindSearch, 0, false, start)
		return result, nil
	}

	snap := s.current.Load()
	key := s.cacheKey(snap, searchCacheKey(query))

	if cached, ok := s.getFromCache(ctx, key); ok {
		cached.Query = query
		s.recordQuery(queryKindSearch, len(cached.Results), true, start)
		return cached, nil
	}

	scored, err := snap.search.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	listings := listingsOf(scored)
	result.ListingCount = len(listings)
	result.Results = GroupProducts(listings)
	result.Recommendations = snap.recommender.Recommend(listings, s.recommendationLimit)

	s.setInCache(ctx, key, result)
	s.recordQuery(queryKindSearch, len(result.Results), false, start)

	s.logger.Debug().
		Str("query", query).
		Int("listings", result.ListingCount).
		Int("products", len(result.Results)).
		Int("recommendations", len(result.Recommendations)).
		Msg("search completed")

	return result, nil
}

// FilterByCategory selects listings by user-facing category label and
// derives recommendations from them. "all" selects the whole catalog; an
// unknown label yields an empty result.
func (s *ComparisonService) FilterByCategory(ctx context.Context, label string) (*domain.ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := newResult()
	result.Category = label

	snap := s.current.Load()
	key := s.cacheKey(snap, categoryCacheKey(label))

	if cached, ok := s.getFromCache(ctx, key); ok {
		s.recordQuery(queryKindCategory, len(cached.Results), true, start)
		return cached, nil
	}

	if !snap.filter.IsKnown(label) {
		s.logger.Debug().Str("category", label).Msg("unrecognized category label")
	}

	listings := snap.filter.FilterByCategory(label)
	result.ListingCount = len(listings)
	result.Results = GroupProducts(listings)
	result.Recommendations = snap.recommender.Recommend(listings, s.recommendationLimit)

	s.setInCache(ctx, key, result)
	s.recordQuery(queryKindCategory, len(result.Results), false, start)

	return result, nil
}

// Suggest returns autocomplete candidates for a partially typed query.
// A non-positive limit uses the configured default.
func (s *ComparisonService) Suggest(ctx context.Context, prefix string, limit int) ([]domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.suggestionLimit
	}

	start := time.Now()
	suggestions := s.current.Load().suggester.Suggest(prefix, limit)
	s.recordQuery(queryKindSuggest, len(suggestions), false, start)
	return suggestions, nil
}

// Categories returns the recognized user-facing category labels
func (s *ComparisonService) Categories() []string {
	return s.current.Load().filter.Labels()
}

// CatalogSize returns the number of listings in the current catalog
func (s *ComparisonService) CatalogSize() int {
	return s.current.Load().catalog.Len()
}

func newResult() *domain.ComparisonResult {
	return &domain.ComparisonResult{
		Results:         []domain.GroupedProduct{},
		Recommendations: []domain.GroupedProduct{},
	}
}

// cacheKey scopes a result key to the catalog generation it was computed from
func (s *ComparisonService) cacheKey(snap *snapshot, key string) string {
	return fmt.Sprintf("%s@%d", key, snap.generation)
}

// getFromCache retrieves a comparison result from cache
func (s *ComparisonService) getFromCache(ctx context.Context, key string) (*domain.ComparisonResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}

	var result domain.ComparisonResult
	if err := json.Unmarshal(raw, &result); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return nil, false
	}
	if result.Results == nil {
		result.Results = []domain.GroupedProduct{}
	}
	if result.Recommendations == nil {
		result.Recommendations = []domain.GroupedProduct{}
	}
	return &result, true
}

// setInCache stores a comparison result; failures are logged, never returned
func (s *ComparisonService) setInCache(ctx context.Context, key string, result *domain.ComparisonResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (s *ComparisonService) recordQuery(kind string, results int, cached bool, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveQuery(kind, results, cached, time.Since(start))
	}
}

func (s *ComparisonService) recordLoad(success bool, listings int) {
	if s.metrics != nil {
		s.metrics.ObserveCatalogLoad(success, listings)
	}
}
