package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are stored serialized; Get returns the stored JSON document.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
}

// CatalogSource supplies the full list of product listings on demand.
// A failed load returns an error wrapping ErrCatalogLoad.
type CatalogSource interface {
	Load(ctx context.Context) ([]ProductListing, error)
	Describe() string
}

// MetricsRecorder receives observations about queries and catalog loads
type MetricsRecorder interface {
	ObserveQuery(kind string, results int, cached bool, elapsed time.Duration)
	ObserveCatalogLoad(success bool, listings int)
}
