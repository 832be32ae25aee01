package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ElasticNet minimizes
//
//	1/(2n)·||y - Xw||² + Alpha·L1Ratio·||w||₁ + Alpha·(1-L1Ratio)/2·||w||²
//
// by cyclic coordinate descent. Lasso is the L1Ratio = 1 case.
type ElasticNet struct {
	LinearCoef
	Alpha   float64
	L1Ratio float64
	MaxIter int
	Tol     float64
	NIter   int
}

func NewElasticNet(alpha, l1Ratio float64, maxIter int, tol float64) (*ElasticNet, error) {
	if err := checkPenalty(alpha, l1Ratio, maxIter, tol); err != nil {
		return nil, fmt.Errorf("elasticnet: %w", err)
	}
	return &ElasticNet{Alpha: alpha, L1Ratio: l1Ratio, MaxIter: maxIter, Tol: tol}, nil
}

func (m *ElasticNet) Fit(X [][]float64, y []float64) error {
	coef, b, it, err := coordinateDescent(X, y, m.Alpha, m.L1Ratio, m.MaxIter, m.Tol)
	if err != nil {
		return fmt.Errorf("elasticnet: %w", err)
	}
	m.Coef, m.Intercept, m.NIter, m.Fitted = coef, b, it, true
	return nil
}

// Lasso is L1-penalized least squares.
type Lasso struct {
	LinearCoef
	Alpha   float64
	MaxIter int
	Tol     float64
	NIter   int
}

func NewLasso(alpha float64, maxIter int, tol float64) (*Lasso, error) {
	if err := checkPenalty(alpha, 1, maxIter, tol); err != nil {
		return nil, fmt.Errorf("lasso: %w", err)
	}
	return &Lasso{Alpha: alpha, MaxIter: maxIter, Tol: tol}, nil
}

func (m *Lasso) Fit(X [][]float64, y []float64) error {
	coef, b, it, err := coordinateDescent(X, y, m.Alpha, 1, m.MaxIter, m.Tol)
	if err != nil {
		return fmt.Errorf("lasso: %w", err)
	}
	m.Coef, m.Intercept, m.NIter, m.Fitted = coef, b, it, true
	return nil
}

func checkPenalty(alpha, l1Ratio float64, maxIter int, tol float64) error {
	if alpha < 0 {
		return fmt.Errorf("alpha must be non-negative, got %v", alpha)
	}
	if l1Ratio < 0 || l1Ratio > 1 {
		return fmt.Errorf("l1_ratio must be in [0, 1], got %v", l1Ratio)
	}
	if maxIter < 1 {
		return fmt.Errorf("max_iter must be positive, got %d", maxIter)
	}
	if tol <= 0 {
		return fmt.Errorf("tol must be positive, got %v", tol)
	}
	return nil
}

// coordinateDescent runs on centered data and stops once the largest
// coefficient update relative to the largest coefficient drops below tol.
// Hitting maxIter is not an error; the last iterate is returned.
func coordinateDescent(X [][]float64, y []float64, alpha, l1Ratio float64, maxIter int, tol float64) ([]float64, float64, int, error) {
	c, err := center(X, y)
	if err != nil {
		return nil, 0, 0, err
	}
	n, p := c.X.R, c.X.C
	l1 := alpha * l1Ratio * float64(n)
	l2 := alpha * (1 - l1Ratio) * float64(n)

	cols := make([][]float64, p)
	norms := make([]float64, p)
	for j := 0; j < p; j++ {
		cols[j] = c.X.Col(j)
		norms[j] = floats.Dot(cols[j], cols[j])
	}

	w := make([]float64, p)
	resid := append([]float64(nil), c.y...)

	it := 0
	for it = 1; it <= maxIter; it++ {
		maxDelta, maxW := 0.0, 0.0
		for j := 0; j < p; j++ {
			if norms[j] == 0 {
				continue
			}
			old := w[j]
			rho := floats.Dot(cols[j], resid) + norms[j]*old
			w[j] = softThreshold(rho, l1) / (norms[j] + l2)
			if d := w[j] - old; d != 0 {
				floats.AddScaled(resid, -d, cols[j])
				maxDelta = math.Max(maxDelta, math.Abs(d))
			}
			maxW = math.Max(maxW, math.Abs(w[j]))
		}
		if maxW == 0 || maxDelta/maxW < tol {
			break
		}
	}
	for _, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, 0, it, errors.New("coordinate descent diverged")
		}
	}
	return w, c.intercept(w), min(it, maxIter), nil
}

func softThreshold(x, t float64) float64 {
	switch {
	case x > t:
		return x - t
	case x < -t:
		return x + t
	default:
		return 0
	}
}
