package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	// Run tests
	exitCode := m.Run()

	// Exit with the test result code
	os.Exit(exitCode)
}

// stubSource serves a fixed listing set, or fails with err
type stubSource struct {
	listings []domain.ProductListing
	err      error
}

func (s *stubSource) Load(ctx context.Context) ([]domain.ProductListing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.listings, nil
}

func (s *stubSource) Describe() string { return "stub" }

func rated(v float64) *float64 { return &v }

func testListings() []domain.ProductListing {
	return []domain.ProductListing{
		{ID: "1", Name: "Phone X", Category: "Smartphones", Vendor: "A", Price: 1000, Rating: rated(4), Image: "phone-x.jpg"},
		{ID: "2", Name: "Phone X", Category: "Smartphones", Vendor: "B", Price: 900, Rating: rated(4.5), Image: "phone-x.jpg"},
		{ID: "3", Name: "Tablet Y", Category: "Smartphones", Vendor: "A", Price: 2000, Image: "https://cdn.example.com/tablet-y.jpg"},
		{ID: "4", Name: "Sony Headphones", Category: "Headphones", Vendor: "A", Price: 2999, Rating: rated(4.3), Image: "sony.jpg"},
		{ID: "5", Name: "Speaker S", Category: "Speakers", Vendor: "B", Price: 70, Image: "speaker-s.jpg"},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Cache: config.CacheConfig{
			Type: "memory",
		},
		Display: config.DisplayConfig{
			Locale:         "en-US",
			CurrencySymbol: "$",
			ImageBase:      "/images/",
		},
	}
}

// setupTestRouter creates a router without a comparison service
func setupTestRouter() *gin.Engine {
	cfg := testConfig()
	handler := NewHandler(nil, NewPresenter(cfg.Display), zerolog.Nop())
	return SetupRouter(cfg, handler, nil, zerolog.Nop(), nil)
}

// setupTestRouterWithService creates a router backed by a loaded service
func setupTestRouterWithService(t *testing.T, source domain.CatalogSource) (*gin.Engine, *usecase.ComparisonService) {
	t.Helper()

	memoryCache := cache.NewMemoryCache()
	t.Cleanup(memoryCache.Close)

	svc := usecase.NewComparisonService(source, memoryCache, nil, zerolog.Nop(), usecase.ComparisonServiceConfig{})
	_ = svc.LoadCatalog(context.Background())

	cfg := testConfig()
	handler := NewHandler(svc, NewPresenter(cfg.Display), zerolog.Nop())
	return SetupRouter(cfg, handler, nil, zerolog.Nop(), promhttp.Handler()), svc
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		w := doRequest(setupTestRouter(), "GET", "/health")
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		decodeBody(t, w, &response)

		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "pricelens-backend", response["service"])
		version, ok := response["version"].(string)
		assert.True(t, ok && strings.TrimSpace(version) != "", "version = %v", response["version"])
		assert.Equal(t, float64(0), response["catalogListings"])
	})

	t.Run("reports catalog size", func(t *testing.T) {
		router, _ := setupTestRouterWithService(t, &stubSource{listings: testListings()})

		var response map[string]interface{}
		decodeBody(t, doRequest(router, "GET", "/health"), &response)
		assert.Equal(t, float64(5), response["catalogListings"])
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()
		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := doRequest(router, method, "/health")
			assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
		}
	})
}

// TestEndpointsWithoutService tests that comparison endpoints report 503
func TestEndpointsWithoutService(t *testing.T) {
	router := setupTestRouter()

	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/search?q=phone"},
		{"GET", "/api/v1/suggest?q=ph"},
		{"GET", "/api/v1/categories"},
		{"GET", "/api/v1/categories/Audio/products"},
		{"POST", "/api/v1/catalog/reload"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			w := doRequest(router, endpoint.method, endpoint.path)
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

			var response map[string]interface{}
			decodeBody(t, w, &response)
			assert.Contains(t, response["error"], "not configured")
		})
	}
}

func TestSearchEndpoint(t *testing.T) {
	router, _ := setupTestRouterWithService(t, &stubSource{listings: testListings()})

	t.Run("returns grouped comparison", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/search?q=phone")
		require.Equal(t, http.StatusOK, w.Code)

		var view ComparisonView
		decodeBody(t, w, &view)

		assert.Equal(t, "phone", view.Query)
		require.NotEmpty(t, view.Products)

		phone := view.Products[0]
		assert.Equal(t, "Phone X", phone.Name)
		assert.Equal(t, 2, phone.VendorCount)
		assert.Equal(t, 900.0, phone.LowestPrice)
		assert.Equal(t, "$900", phone.FormattedPrice)
		assert.Equal(t, 4.3, phone.AverageRating)
		assert.Equal(t, "/images/phone-x.jpg", phone.Image)

		require.Len(t, phone.Vendors, 2)
		assert.Equal(t, "B", phone.Vendors[0].Vendor)
		assert.True(t, phone.Vendors[0].BestPrice)
		assert.Equal(t, "A", phone.Vendors[1].Vendor)
		assert.False(t, phone.Vendors[1].BestPrice)
		assert.Equal(t, "$1,000", phone.Vendors[1].FormattedPrice)
	})

	t.Run("absolute image URLs pass through", func(t *testing.T) {
		var view ComparisonView
		decodeBody(t, doRequest(router, "GET", "/api/v1/search?q=tablet"), &view)

		require.Len(t, view.Products, 1)
		assert.Equal(t, "https://cdn.example.com/tablet-y.jpg", view.Products[0].Image)
		assert.Equal(t, 0.0, view.Products[0].AverageRating)
	})

	t.Run("empty query returns empty result", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/search?q=%20%20")
		require.Equal(t, http.StatusOK, w.Code)

		var view ComparisonView
		decodeBody(t, w, &view)
		assert.Empty(t, view.Products)
		assert.NotNil(t, view.Products)
		assert.Equal(t, "No products found", view.Message)
	})

	t.Run("typo without literal match finds nothing", func(t *testing.T) {
		var view ComparisonView
		decodeBody(t, doRequest(router, "GET", "/api/v1/search?q=hedphone"), &view)
		assert.Empty(t, view.Products)
	})

	t.Run("typo with literal match finds product", func(t *testing.T) {
		var view ComparisonView
		decodeBody(t, doRequest(router, "GET", "/api/v1/search?q=sony+hedphone"), &view)
		require.Len(t, view.Products, 1)
		assert.Equal(t, "Sony Headphones", view.Products[0].Name)
	})

	t.Run("carries a request id", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/search?q=phone")
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}

func TestCategoryEndpoints(t *testing.T) {
	router, _ := setupTestRouterWithService(t, &stubSource{listings: testListings()})

	t.Run("lists labels", func(t *testing.T) {
		var response struct {
			Categories []string `json:"categories"`
		}
		decodeBody(t, doRequest(router, "GET", "/api/v1/categories"), &response)
		assert.Equal(t, []string{"Smartphones", "Laptops", "Audio", "Cameras", "Gaming", "Wearables", "all"}, response.Categories)
	})

	t.Run("filters by label", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/categories/Audio/products")
		require.Equal(t, http.StatusOK, w.Code)

		var view ComparisonView
		decodeBody(t, w, &view)
		assert.Equal(t, "Audio", view.Category)
		assert.Equal(t, 2, view.ProductCount)
		assert.Equal(t, "Sony Headphones", view.Products[0].Name)
		assert.Equal(t, "Speaker S", view.Products[1].Name)
	})

	t.Run("recommendations link to search", func(t *testing.T) {
		catalog := append(testListings(), domain.ProductListing{
			ID: "6", Name: "Phone Mini", Category: "Smartphones", Vendor: "C", Price: 500,
		})
		router, _ := setupTestRouterWithService(t, &stubSource{listings: catalog})

		var view ComparisonView
		decodeBody(t, doRequest(router, "GET", "/api/v1/search?q=tablet"), &view)

		require.Len(t, view.Recommendations, 2)
		assert.Equal(t, "Phone X", view.Recommendations[0].Name)
		assert.Equal(t, "/api/v1/search?q=Phone+X", view.Recommendations[0].CompareURL)
		assert.Equal(t, "Phone Mini", view.Recommendations[1].Name)
		assert.Equal(t, "", view.Recommendations[1].Image)
	})

	t.Run("unknown label is empty, not an error", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/categories/Furniture/products")
		require.Equal(t, http.StatusOK, w.Code)

		var view ComparisonView
		decodeBody(t, w, &view)
		assert.Empty(t, view.Products)
	})
}

func TestSuggestEndpoint(t *testing.T) {
	router, _ := setupTestRouterWithService(t, &stubSource{listings: testListings()})

	t.Run("returns suggestions", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/suggest?q=spk&limit=5")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Suggestions []domain.Suggestion `json:"suggestions"`
		}
		decodeBody(t, w, &response)
		require.Len(t, response.Suggestions, 1)
		assert.Equal(t, "Speaker S", response.Suggestions[0].Name)
	})

	t.Run("returns 400 for missing query", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/suggest")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 400 for out of range limit", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/suggest?q=ph&limit=500")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReloadEndpoint(t *testing.T) {
	t.Run("reloads the catalog", func(t *testing.T) {
		source := &stubSource{listings: testListings()[:2]}
		router, _ := setupTestRouterWithService(t, source)

		source.listings = testListings()
		w := doRequest(router, "POST", "/api/v1/catalog/reload")
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		decodeBody(t, w, &response)
		assert.Equal(t, float64(5), response["catalogListings"])
	})

	t.Run("returns 502 when the source fails", func(t *testing.T) {
		source := &stubSource{listings: testListings()}
		router, svc := setupTestRouterWithService(t, source)

		source.err = errors.New("upstream unavailable")
		w := doRequest(router, "POST", "/api/v1/catalog/reload")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, 5, svc.CatalogSize())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupTestRouterWithService(t, &stubSource{listings: testListings()})

	w := doRequest(router, "GET", "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

// TestCORSIntegration tests CORS headers on real routes
func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter()

	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

// TestAPIVersioning tests that API v1 routes are correctly versioned
func TestAPIVersioning(t *testing.T) {
	router := setupTestRouter()

	t.Run("v1 routes are accessible", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/categories")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("non-versioned routes return 404", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/search?q=phone")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
