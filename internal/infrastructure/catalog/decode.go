package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/pricelens/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format identifies a catalog document encoding
type Format string

// Supported catalog formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultMaxBytes is the largest catalog document read when no limit is set
const DefaultMaxBytes int64 = 32 << 20

// catalogDocument is the top-level structure of JSON and YAML catalogs
type catalogDocument struct {
	Products *[]domain.ProductListing `json:"products" yaml:"products"`
}

// FormatFromName picks the format from a file name or URL extension
func FormatFromName(name string) (Format, error) {
	p := name
	if u, err := url.Parse(name); err == nil && u.Scheme != "" {
		p = u.Path
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, name)
	}
}

// formatFromContentType maps an HTTP Content-Type to a catalog format
func formatFromContentType(contentType string) (Format, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}

	switch mediaType {
	case "application/json":
		return FormatJSON, true
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML, true
	case "text/csv":
		return FormatCSV, true
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FormatXLSX, true
	default:
		return "", false
	}
}

// Decode parses a catalog document into product listings
func Decode(r io.Reader, format Format) ([]domain.ProductListing, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatCSV:
		rows, err := readCSV(r)
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return rowsToListings(rows)
	case FormatXLSX:
		rows, err := readXLSX(r)
		if err != nil {
			return nil, fmt.Errorf("read xlsx: %w", err)
		}
		return rowsToListings(rows)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

// sizeLimitedReader fails with domain.ErrCatalogTooLarge once more than limit
// bytes have been read. The underlying reader is capped at limit+1 bytes so an
// oversized document is never buffered in full.
type sizeLimitedReader struct {
	r     io.Reader
	read  int64
	limit int64
}

func limitSize(r io.Reader, limit int64) io.Reader {
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	return &sizeLimitedReader{r: io.LimitReader(r, limit+1), limit: limit}
}

func (l *sizeLimitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.limit {
		return 0, fmt.Errorf("%w: more than %d bytes", domain.ErrCatalogTooLarge, l.limit)
	}
	return n, err
}

// decodeJSON accepts either {"products": [...]} or a bare array of listings
func decodeJSON(r io.Reader) ([]domain.ProductListing, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var listings []domain.ProductListing
		if err := json.Unmarshal(data, &listings); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return listings, nil
	}

	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if doc.Products == nil {
		return nil, fmt.Errorf("decode json: missing \"products\" key")
	}
	return *doc.Products, nil
}

func decodeYAML(r io.Reader) ([]domain.ProductListing, error) {
	var doc catalogDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Products == nil {
		return nil, fmt.Errorf("decode yaml: missing \"products\" key")
	}
	return *doc.Products, nil
}
