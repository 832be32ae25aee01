package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ErrNotFitted is returned when Transform runs before Fit.
var ErrNotFitted = errors.New("scaler is not fitted")

// StandardScaler standardizes each column to zero mean and unit variance
// using the population statistics seen by Fit. Fields are exported so a fitted
// scaler survives gob encoding.
type StandardScaler struct {
	Mean   []float64
	Std    []float64
	Fitted bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit learns per-column mean and standard deviation. Constant columns get
// Std 1 so they transform to zero.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("scaler: cannot fit on zero rows")
	}
	r, c := len(X), len(X[0])
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			if len(X[i]) != c {
				return fmt.Errorf("scaler: row %d has %d columns, want %d", i, len(X[i]), c)
			}
			col[i] = X[i][j]
		}
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(col, nil)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	s.Fitted = true
	return nil
}

// Transform applies the learned statistics. X is not modified.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.Fitted {
		return nil, ErrNotFitted
	}
	c := len(s.Mean)
	Y := make([][]float64, len(X))
	for i := range X {
		if len(X[i]) != c {
			return nil, fmt.Errorf("scaler: row %d has %d columns, fitted on %d", i, len(X[i]), c)
		}
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = (X[i][j] - s.Mean[j]) / s.Std[j]
		}
		Y[i] = row
	}
	return Y, nil
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
