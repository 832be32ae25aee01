package dataprep

import (
	"fmt"
	"strings"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
)

// OrdinalEncoder maps each category to its rank in a declared ordering.
// The ordering is configuration, not learned, so Fit only validates that the
// training data stays inside it. Values outside the ordering are errors.
type OrdinalEncoder struct {
	Columns    []string
	Categories [][]string
	Codes      []map[string]int
	Fitted     bool
}

// NewOrdinalEncoder checks the orderings and builds the lookup tables.
// Each ordering must be non-empty and free of duplicates.
func NewOrdinalEncoder(columns []string, categories [][]string) (*OrdinalEncoder, error) {
	if len(columns) != len(categories) {
		return nil, errs.Configuration("ordinal encoder: %d columns but %d orderings", len(columns), len(categories))
	}
	e := &OrdinalEncoder{
		Columns:    columns,
		Categories: categories,
		Codes:      make([]map[string]int, len(columns)),
	}
	for j, cats := range categories {
		if len(cats) == 0 {
			return nil, errs.Configuration("category ordering is empty").WithColumn(columns[j])
		}
		codes := make(map[string]int, len(cats))
		for k, v := range cats {
			if _, dup := codes[v]; dup {
				return nil, errs.Configuration("category %q listed twice in ordering", v).WithColumn(columns[j])
			}
			codes[v] = k
		}
		e.Codes[j] = codes
	}
	return e, nil
}

// Fit checks that every training value belongs to its ordering.
func (e *OrdinalEncoder) Fit(X [][]string) error {
	e.Fitted = true
	if _, err := e.Transform(X); err != nil {
		e.Fitted = false
		return err
	}
	return nil
}

// Transform encodes each cell as its rank in the column's ordering.
func (e *OrdinalEncoder) Transform(X [][]string) ([][]float64, error) {
	if !e.Fitted {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(e.Codes) {
			return nil, fmt.Errorf("encoder: row %d has %d columns, want %d", i, len(row), len(e.Codes))
		}
		vals := make([]float64, len(row))
		for j, v := range row {
			code, ok := e.Codes[j][v]
			if !ok {
				// tolerate stray whitespace before failing
				code, ok = e.Codes[j][strings.TrimSpace(v)]
			}
			if !ok {
				return nil, errs.Configuration("row %d: category %q is not in the declared ordering %v", i, v, e.Categories[j]).WithColumn(e.Columns[j])
			}
			vals[j] = float64(code)
		}
		out[i] = vals
	}
	return out, nil
}

// Decode maps a code back to its category.
func (e *OrdinalEncoder) Decode(column int, code int) (string, bool) {
	if column < 0 || column >= len(e.Categories) {
		return "", false
	}
	cats := e.Categories[column]
	if code < 0 || code >= len(cats) {
		return "", false
	}
	return cats[code], true
}
