// Package csv parses comma-separated patient data into a table.Table and
// writes tables back out. The reader is tolerant of real-world exports: a
// UTF-8 BOM on the header, variable whitespace, rows with the wrong field
// count (soft-fail, skipped and counted), and configurable missing-value
// tokens.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"brca/pkg/table"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// DefaultMissingTokens are the field values treated as missing markers, in
// addition to the empty string.
var DefaultMissingTokens = []string{"NA", "NaN", "nan", "null"}

// Options configures the CSV parser. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing ASCII spaces from each field value.
	TrimSpace bool

	// HeaderMap maps source header names to canonical keys before the
	// cleaner's own normalization runs (e.g. localized headers to snake_case).
	HeaderMap map[string]string

	// MissingTokens lists field values treated as missing in addition to "".
	// When nil, DefaultMissingTokens is used.
	MissingTokens []string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse consumes the CSV stream and returns the parsed table along with the
// number of rows skipped because of parse errors or field-count mismatches.
// The first row is the header. Columns whose non-missing values all parse as
// numbers become numeric (float64) columns; everything else stays string.
func (p *Parser) Parse(r io.Reader) (*table.Table, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	headers := p.headers(h)

	missing := map[string]struct{}{"": {}}
	toks := p.opt.MissingTokens
	if toks == nil {
		toks = DefaultMissingTokens
	}
	for _, tok := range toks {
		missing[tok] = struct{}{}
	}

	cols := make([][]string, len(headers))
	missMask := make([][]bool, len(headers))
	var skipped int
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("skipping row %d: %v", line, err)
			skipped++
			continue
		}
		if len(row) != len(headers) {
			log.Printf("skipping row %d: incorrect number of fields (expected %d, got %d)",
				line, len(headers), len(row))
			skipped++
			continue
		}
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			_, miss := missing[val]
			cols[i] = append(cols[i], val)
			missMask[i] = append(missMask[i], miss)
		}
	}

	out := table.New()
	for i, name := range headers {
		if err := out.AddColumn(name, typedColumn(cols[i], missMask[i])); err != nil {
			return nil, skipped, fmt.Errorf("parse csv: %w", err)
		}
	}
	return out, skipped, nil
}

// headers canonicalizes the header row: BOM strip on the first cell, trim,
// HeaderMap lookup, and "col_N" names for blank headers.
func (p *Parser) headers(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if p.opt.HeaderMap != nil {
			if m, ok := p.opt.HeaderMap[c]; ok && m != "" {
				res[i] = m
				continue
			}
		}
		if c == "" {
			c = fmt.Sprintf("col_%d", i)
		}
		res[i] = c
	}
	return res
}

// typedColumn converts a raw string column to cells: missing tokens become
// nil; when every non-missing value parses as a float the whole column is
// numeric, otherwise values stay strings.
func typedColumn(raw []string, miss []bool) []any {
	numeric := false
	for i, s := range raw {
		if miss[i] {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			numeric = false
			break
		}
		numeric = true
	}

	out := make([]any, len(raw))
	for i, s := range raw {
		if miss[i] {
			continue
		}
		if numeric {
			f, _ := strconv.ParseFloat(s, 64)
			out[i] = f
		} else {
			out[i] = s
		}
	}
	return out
}
