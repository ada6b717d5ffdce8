package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// Source kinds accepted by NewSource
const (
	KindEmbedded = "embedded"
	KindFile     = "file"
	KindHTTP     = "http"
)

const defaultHTTPTimeout = 15 * time.Second

//go:embed sample_catalog.yaml
var sampleCatalog []byte

// NewSource builds a catalog source of the given kind.
// location is a file path for "file" and a URL for "http". maxBytes caps the
// size of file and HTTP documents; zero means DefaultMaxBytes.
func NewSource(kind, location string, timeout time.Duration, maxBytes int64) (domain.CatalogSource, error) {
	switch kind {
	case KindEmbedded, "":
		return NewEmbeddedSource(), nil
	case KindFile:
		if location == "" {
			return nil, fmt.Errorf("file catalog source requires a path")
		}
		src := NewFileSource(location)
		src.SetMaxBytes(maxBytes)
		return src, nil
	case KindHTTP:
		if location == "" {
			return nil, fmt.Errorf("http catalog source requires a URL")
		}
		src := NewHTTPSource(location, timeout)
		src.SetMaxBytes(maxBytes)
		return src, nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", kind)
	}
}

// loadFailure wraps err as a catalog load failure for the given origin
func loadFailure(origin string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrCatalogLoad, origin, err)
}

// EmbeddedSource serves the sample catalog compiled into the binary
type EmbeddedSource struct{}

// NewEmbeddedSource creates a source for the built-in sample catalog
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

// Load decodes the embedded sample catalog
func (s *EmbeddedSource) Load(ctx context.Context) ([]domain.ProductListing, error) {
	listings, err := Decode(bytes.NewReader(sampleCatalog), FormatYAML)
	if err != nil {
		return nil, loadFailure(s.Describe(), err)
	}
	return listings, nil
}

// Describe names the source for logs
func (s *EmbeddedSource) Describe() string {
	return "embedded:sample_catalog.yaml"
}

// FileSource reads a catalog document from the local filesystem.
// The format is chosen by file extension.
type FileSource struct {
	path     string
	maxBytes int64
}

// NewFileSource creates a source reading the catalog at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, maxBytes: DefaultMaxBytes}
}

// SetMaxBytes sets the largest accepted document size; n <= 0 restores the default
func (s *FileSource) SetMaxBytes(n int64) {
	if n <= 0 {
		n = DefaultMaxBytes
	}
	s.maxBytes = n
}

// Load opens and decodes the catalog file
func (s *FileSource) Load(ctx context.Context) ([]domain.ProductListing, error) {
	format, err := FormatFromName(s.path)
	if err != nil {
		return nil, loadFailure(s.path, err)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, loadFailure(s.path, err)
	}
	defer f.Close()

	listings, err := Decode(limitSize(f, s.maxBytes), format)
	if err != nil {
		return nil, loadFailure(s.path, err)
	}
	return listings, nil
}

// Describe names the source for logs
func (s *FileSource) Describe() string {
	return "file:" + s.path
}

// HTTPSource fetches a catalog document over HTTP.
// A load is a single request; failures are reported, never retried.
type HTTPSource struct {
	httpClient *http.Client
	url        string
	maxBytes   int64
}

// NewHTTPSource creates a source fetching the catalog from url
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPSource{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:      url,
		maxBytes: DefaultMaxBytes,
	}
}

// SetMaxBytes sets the largest accepted response body; n <= 0 restores the default
func (s *HTTPSource) SetMaxBytes(n int64) {
	if n <= 0 {
		n = DefaultMaxBytes
	}
	s.maxBytes = n
}

// Load fetches and decodes the catalog. The format is taken from the
// Content-Type header, then from the URL extension, defaulting to JSON.
func (s *HTTPSource) Load(ctx context.Context) ([]domain.ProductListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, loadFailure(s.url, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", "PriceLens/1.0")
	req.Header.Set("Accept", "application/json, application/yaml, text/csv, */*")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, loadFailure(s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, loadFailure(s.url, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body)))
	}

	if resp.ContentLength > s.maxBytes {
		return nil, loadFailure(s.url, fmt.Errorf("%w: Content-Length %d exceeds %d bytes",
			domain.ErrCatalogTooLarge, resp.ContentLength, s.maxBytes))
	}

	format, ok := formatFromContentType(resp.Header.Get("Content-Type"))
	if !ok {
		if format, err = FormatFromName(s.url); err != nil {
			format = FormatJSON
		}
	}

	listings, err := Decode(limitSize(resp.Body, s.maxBytes), format)
	if err != nil {
		return nil, loadFailure(s.url, err)
	}
	return listings, nil
}

// Describe names the source for logs
func (s *HTTPSource) Describe() string {
	return "http:" + s.url
}
