package domain

import "errors"

var (
	// ErrCatalogLoad is returned when the catalog source is unreachable or unparsable
	ErrCatalogLoad = errors.New("catalog load failed")

	// ErrMalformedListing is returned when a catalog record is missing required fields
	ErrMalformedListing = errors.New("malformed product listing")

	// ErrCatalogTooLarge is returned when a catalog document exceeds the configured size limit
	ErrCatalogTooLarge = errors.New("catalog document too large")

	// ErrUnsupportedFormat is returned when a catalog document has an unknown format
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
