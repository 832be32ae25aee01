package dataprep

import (
	"errors"
	"fmt"
	"math"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/stats"
)

// ErrNotFitted is returned by transforms used before Fit.
var ErrNotFitted = errors.New("transform is not fitted")

// ---------- Numeric ----------

// MedianImputer replaces NaN cells with the per-column median learned by Fit.
type MedianImputer struct {
	Columns    []string
	Statistics []float64
	Fitted     bool
}

// NewMedianImputer names the columns so errors can point at them.
func NewMedianImputer(columns []string) *MedianImputer {
	return &MedianImputer{Columns: columns}
}

// Fit computes the median of the non-missing values of each column.
func (m *MedianImputer) Fit(X [][]float64) error {
	c := len(m.Columns)
	if c == 0 && len(X) > 0 {
		c = len(X[0])
	}
	m.Statistics = make([]float64, c)
	col := make([]float64, len(X))
	for j := 0; j < c; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		present := stats.DropNaN(col)
		if len(present) == 0 {
			return errs.Configuration("no observed values to impute from").WithColumn(m.column(j))
		}
		m.Statistics[j] = stats.Median(present)
	}
	m.Fitted = true
	return nil
}

// Transform returns a copy of X with NaN cells filled.
func (m *MedianImputer) Transform(X [][]float64) ([][]float64, error) {
	if !m.Fitted {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.Statistics) {
			return nil, fmt.Errorf("imputer: row %d has %d columns, fitted on %d", i, len(row), len(m.Statistics))
		}
		filled := make([]float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				v = m.Statistics[j]
			}
			filled[j] = v
		}
		out[i] = filled
	}
	return out, nil
}

func (m *MedianImputer) column(j int) string {
	if j < len(m.Columns) {
		return m.Columns[j]
	}
	return fmt.Sprintf("#%d", j)
}

// ---------- Categorical ----------

// MostFrequentImputer replaces missing string cells with the per-column mode
// learned by Fit.
type MostFrequentImputer struct {
	Columns    []string
	Statistics []string
	Fitted     bool
}

func NewMostFrequentImputer(columns []string) *MostFrequentImputer {
	return &MostFrequentImputer{Columns: columns}
}

// Fit computes the most frequent non-missing value of each column.
func (m *MostFrequentImputer) Fit(X [][]string) error {
	c := len(m.Columns)
	if c == 0 && len(X) > 0 {
		c = len(X[0])
	}
	m.Statistics = make([]string, c)
	for j := 0; j < c; j++ {
		present := make([]string, 0, len(X))
		for i := range X {
			if !IsMissing(X[i][j]) {
				present = append(present, X[i][j])
			}
		}
		if len(present) == 0 {
			return errs.Configuration("no observed values to impute from").WithColumn(m.column(j))
		}
		m.Statistics[j], _ = stats.MostFrequent(present)
	}
	m.Fitted = true
	return nil
}

// Transform returns a copy of X with missing cells filled.
func (m *MostFrequentImputer) Transform(X [][]string) ([][]string, error) {
	if !m.Fitted {
		return nil, ErrNotFitted
	}
	out := make([][]string, len(X))
	for i, row := range X {
		if len(row) != len(m.Statistics) {
			return nil, fmt.Errorf("imputer: row %d has %d columns, fitted on %d", i, len(row), len(m.Statistics))
		}
		filled := make([]string, len(row))
		for j, v := range row {
			if IsMissing(v) {
				v = m.Statistics[j]
			}
			filled[j] = v
		}
		out[i] = filled
	}
	return out, nil
}

func (m *MostFrequentImputer) column(j int) string {
	if j < len(m.Columns) {
		return m.Columns[j]
	}
	return fmt.Sprintf("#%d", j)
}
