package model

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/core"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/stats"
)

// LinearCoef holds the fitted parameters shared by all linear models:
// prediction is Intercept + Coef·x.
type LinearCoef struct {
	Coef      []float64
	Intercept float64
	Fitted    bool
}

// Predict returns predictions for rows in X (rows of features).
// Rows are split across goroutines, one chunk per CPU.
func (m *LinearCoef) Predict(X [][]float64) ([]float64, error) {
	if err := checkPredict(X, m.Fitted, len(m.Coef)); err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	if len(X) == 0 {
		return nil, nil
	}
	pred := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		s := w * rowsPerWorker
		e := min(s+rowsPerWorker, len(X))
		if s >= e {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				sum := m.Intercept
				for j, v := range X[i] {
					sum += m.Coef[j] * v
				}
				pred[i] = sum
			}
		}(s, e)
	}
	wg.Wait()
	return pred, nil
}

// centered holds mean-centered training data. Fitting on centered data and
// recovering the intercept afterwards keeps the intercept out of any penalty.
type centered struct {
	X     *core.Matrix
	y     []float64
	xMean []float64
	yMean float64
}

func center(X [][]float64, y []float64) (*centered, error) {
	p, err := checkXY(X, y)
	if err != nil {
		return nil, err
	}
	n := len(X)
	c := &centered{X: core.NewMatrix(n, p), y: make([]float64, n), xMean: make([]float64, p)}
	for i := range X {
		for j, v := range X[i] {
			c.xMean[j] += v
		}
	}
	for j := range c.xMean {
		c.xMean[j] /= float64(n)
	}
	c.yMean = stats.Mean(y)
	for i := range X {
		for j, v := range X[i] {
			c.X.Set(i, j, v-c.xMean[j])
		}
		c.y[i] = y[i] - c.yMean
	}
	return c, nil
}

// intercept recovers b = mean(y) - coef·mean(x).
func (c *centered) intercept(coef []float64) float64 {
	b := c.yMean
	for j, w := range coef {
		b -= w * c.xMean[j]
	}
	return b
}

// ---------------------------
// Ordinary least squares
// ---------------------------

// LinearRegression is ordinary least squares solved with an SVD, giving the
// minimum-norm solution when features are collinear.
type LinearRegression struct {
	LinearCoef
	Rank int
}

func NewLinearRegression() *LinearRegression { return &LinearRegression{} }

func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	c, err := center(X, y)
	if err != nil {
		return fmt.Errorf("linear: %w", err)
	}
	var svd mat.SVD
	if !svd.Factorize(c.X.Dense(), mat.SVDThin) {
		return errors.New("linear: SVD factorization failed")
	}
	n, p := c.X.R, c.X.C
	rcond := math.Nextafter(1, 2) - 1 // machine epsilon
	rank := svd.Rank(rcond * float64(max(n, p)))
	if rank == 0 {
		return errors.New("linear: design matrix has rank zero")
	}

	var beta mat.VecDense
	svd.SolveVecTo(&beta, mat.NewVecDense(n, c.y), rank)

	m.Coef = make([]float64, p)
	for j := range p {
		m.Coef[j] = beta.AtVec(j)
	}
	m.Intercept = c.intercept(m.Coef)
	m.Rank = rank
	m.Fitted = true
	return nil
}

// ---------------------------
// Ridge
// ---------------------------

// Ridge minimizes ||y - Xw||² + Alpha·||w||² via a Cholesky solve of the
// normal equations.
type Ridge struct {
	LinearCoef
	Alpha float64
}

func NewRidge(alpha float64) (*Ridge, error) {
	if alpha < 0 {
		return nil, fmt.Errorf("ridge: alpha must be non-negative, got %v", alpha)
	}
	return &Ridge{Alpha: alpha}, nil
}

func (m *Ridge) Fit(X [][]float64, y []float64) error {
	c, err := center(X, y)
	if err != nil {
		return fmt.Errorf("ridge: %w", err)
	}
	xc := c.X.Dense()
	p := c.X.C

	var gram mat.SymDense
	gram.SymOuterK(1, xc.T())
	for j := 0; j < p; j++ {
		gram.SetSym(j, j, gram.At(j, j)+m.Alpha)
	}
	var xty mat.VecDense
	xty.MulVec(xc.T(), mat.NewVecDense(c.X.R, c.y))

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		return errors.New("ridge: normal equations are not positive definite")
	}
	var w mat.VecDense
	if err := chol.SolveVecTo(&w, &xty); err != nil {
		return fmt.Errorf("ridge: %w", err)
	}

	m.Coef = make([]float64, p)
	for j := range p {
		m.Coef[j] = w.AtVec(j)
	}
	m.Intercept = c.intercept(m.Coef)
	m.Fitted = true
	return nil
}
