package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pricelens/backend/internal/domain"
	"github.com/saintfish/chardet"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Spreadsheet column headers, matched case-insensitively
const (
	columnID       = "id"
	columnName     = "name"
	columnCategory = "category"
	columnVendor   = "vendor"
	columnPrice    = "price"
	columnRating   = "rating"
	columnImage    = "image"
)

var requiredColumns = []string{columnName, columnCategory, columnPrice}

// legacyCharsets maps detected single-byte charsets to decoders
var legacyCharsets = map[string]encoding.Encoding{
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
}

// readCSV reads all CSV records, auto-detecting the encoding and converting to UTF-8
func readCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)

	// Peek a bit to detect encoding
	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	if enc, ok := legacyCharsets[cs]; ok {
		dec = transform.NewReader(br, enc.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// readXLSX reads all rows of the first worksheet
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// rowsToListings converts a header row plus data rows into listings,
// skipping rows whose cells are all blank
func rowsToListings(rows [][]string) ([]domain.ProductListing, error) {
	if len(rows) == 0 {
		return []domain.ProductListing{}, nil
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if h != "" {
			if _, dup := columns[h]; !dup {
				columns[h] = i
			}
		}
	}
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrUnsupportedFormat, col)
		}
	}

	cell := func(rec []string, col string) string {
		i, ok := columns[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	listings := make([]domain.ProductListing, 0, len(rows)-1)
	for n, rec := range rows[1:] {
		if isBlankRow(rec) {
			continue
		}
		line := n + 2 // 1-based, after the header

		price, err := parseNumber(cell(rec, columnPrice))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: price: %v", domain.ErrMalformedListing, line, err)
		}

		listing := domain.ProductListing{
			ID:       domain.ListingID(cell(rec, columnID)),
			Name:     cell(rec, columnName),
			Category: cell(rec, columnCategory),
			Vendor:   cell(rec, columnVendor),
			Price:    price,
			Image:    cell(rec, columnImage),
		}

		if raw := cell(rec, columnRating); raw != "" {
			rating, err := parseNumber(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: rating: %v", domain.ErrMalformedListing, line, err)
			}
			listing.Rating = &rating
		}

		listings = append(listings, listing)
	}

	return listings, nil
}

// parseNumber parses a decimal, tolerating thousands separators
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

func isBlankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
