package dataprep

import (
	"math"
	"strconv"
	"strings"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
)

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NA", "NaN", "nan", "null", "NULL":
		return true
	}
	return false
}

// ParseNumeric converts the cells of numeric columns to floats. Missing cells
// become NaN; anything else that fails to parse, or parses to an infinity, is a
// configuration error naming the offending column.
func ParseNumeric(cells [][]string, columns []string) ([][]float64, error) {
	out := make([][]float64, len(cells))
	for i, row := range cells {
		vals := make([]float64, len(row))
		for j, v := range row {
			if IsMissing(v) {
				vals[j] = math.NaN()
				continue
			}
			col := ""
			if j < len(columns) {
				col = columns[j]
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, errs.Wrap(errs.KindConfiguration, err, "row %d: value %q is not numeric", i, v).WithColumn(col)
			}
			if math.IsInf(f, 0) {
				return nil, errs.Configuration("row %d: value %q is not finite", i, v).WithColumn(col)
			}
			vals[j] = f
		}
		out[i] = vals
	}
	return out, nil
}

// ParseTarget converts a target column to floats. Missing, non-numeric or
// non-finite targets are configuration errors: a row without a label cannot be scored.
func ParseTarget(cells []string, column string) ([]float64, error) {
	out := make([]float64, len(cells))
	for i, v := range cells {
		if IsMissing(v) {
			return nil, errs.Configuration("row %d: target value is missing", i).WithColumn(column)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, errs.Wrap(errs.KindConfiguration, err, "row %d: target value %q is not numeric", i, v).WithColumn(column)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, errs.Configuration("row %d: target value %q is not finite", i, v).WithColumn(column)
		}
		out[i] = f
	}
	return out, nil
}
