package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
)

// plane returns a noiseless grid with y = 3 + 2*x0 - x1.
func plane() ([][]float64, []float64) {
	var X [][]float64
	var y []float64
	for a := 0; a < 5; a++ {
		for b := 0; b < 4; b++ {
			X = append(X, []float64{float64(a), float64(b)})
			y = append(y, 3+2*float64(a)-float64(b))
		}
	}
	return X, y
}

func TestLinearRegressionRecoversPlane(t *testing.T) {
	X, y := plane()
	m := NewLinearRegression()
	require.NoError(t, m.Fit(X, y))
	assert.InDeltaSlice(t, []float64{2, -1}, m.Coef, 1e-9)
	assert.InDelta(t, 3.0, m.Intercept, 1e-9)
	assert.Equal(t, 2, m.Rank)

	pred, err := m.Predict([][]float64{{10, 10}})
	require.NoError(t, err)
	assert.InDelta(t, 13.0, pred[0], 1e-8)
}

func TestLinearRegressionCollinear(t *testing.T) {
	X := [][]float64{{1, 2}, {2, 4}, {3, 6}, {4, 8}}
	y := []float64{2, 3, 4, 5}
	m := NewLinearRegression()
	require.NoError(t, m.Fit(X, y))
	assert.Equal(t, 1, m.Rank)
	// minimum-norm solution of b0 + 2*b1 = 1
	assert.InDeltaSlice(t, []float64{0.2, 0.4}, m.Coef, 1e-9)

	pred, err := m.Predict(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, y, pred, 1e-9)
}

func TestRidgeShrinks(t *testing.T) {
	X, y := plane()
	r0, err := NewRidge(0)
	require.NoError(t, err)
	require.NoError(t, r0.Fit(X, y))
	assert.InDeltaSlice(t, []float64{2, -1}, r0.Coef, 1e-9)

	r, err := NewRidge(100)
	require.NoError(t, err)
	require.NoError(t, r.Fit(X, y))
	assert.Less(t, math.Abs(r.Coef[0]), 2.0)
	assert.Less(t, math.Abs(r.Coef[1]), 1.0)

	_, err = NewRidge(-1)
	assert.Error(t, err)
}

func TestLassoAndElasticNet(t *testing.T) {
	X, y := plane()

	l, err := NewLasso(0, 10000, 1e-12)
	require.NoError(t, err)
	require.NoError(t, l.Fit(X, y))
	assert.InDeltaSlice(t, []float64{2, -1}, l.Coef, 1e-6)
	assert.InDelta(t, 3.0, l.Intercept, 1e-6)

	// a large penalty zeroes every coefficient, leaving the target mean
	l, err = NewLasso(1e6, 1000, 1e-4)
	require.NoError(t, err)
	require.NoError(t, l.Fit(X, y))
	assert.Equal(t, []float64{0, 0}, l.Coef)
	assert.InDelta(t, 5.5, l.Intercept, 1e-12)

	e, err := NewElasticNet(0.01, 0.5, 10000, 1e-8)
	require.NoError(t, err)
	require.NoError(t, e.Fit(X, y))
	assert.InDelta(t, 2.0, e.Coef[0], 0.05)
	assert.InDelta(t, -1.0, e.Coef[1], 0.05)

	_, err = NewElasticNet(1, 1.5, 100, 1e-4)
	assert.Error(t, err)
	_, err = NewLasso(1, 0, 1e-4)
	assert.Error(t, err)
}

func TestDecisionTreeFitsSteps(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	y := []float64{10, 10, 10, 20, 20, 30}

	tree := NewDecisionTreeRegressor()
	require.NoError(t, tree.Fit(X, y))
	pred, err := tree.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, y, pred)
	assert.Equal(t, 3, tree.Leaves())

	stump := NewDecisionTreeRegressor(WithMaxDepth(1))
	require.NoError(t, stump.Fit(X, y))
	assert.Equal(t, 1, stump.Depth())
	assert.Equal(t, 2, stump.Leaves())
	assert.InDelta(t, 3.5, stump.Nodes[0].Threshold, 1e-12)

	leafy := NewDecisionTreeRegressor(WithMinSamplesLeaf(3))
	require.NoError(t, leafy.Fit(X, y))
	for _, n := range leafy.Nodes {
		if n.Leaf {
			assert.GreaterOrEqual(t, n.N, 3)
		}
	}
}

func TestDecisionTreeFitSample(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []float64{1, 2, 3}
	tree := NewDecisionTreeRegressor()
	require.NoError(t, tree.FitSample(X, y, []int{0, 0, 2}))
	pred, err := tree.Predict([][]float64{{1}, {3}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, pred)

	assert.Error(t, tree.FitSample(X, y, []int{5}))
	assert.Error(t, tree.FitSample(X, y, nil))
}

func TestRandomForestDeterministic(t *testing.T) {
	X, y := plane()
	fit := func() []float64 {
		rf := NewRandomForestRegressor(WithNEstimators(15), WithForestMaxFeatures(1), WithForestRandomState(42))
		require.NoError(t, rf.Fit(X, y))
		require.Len(t, rf.Trees, 15)
		pred, err := rf.Predict(X)
		require.NoError(t, err)
		return pred
	}
	a, b := fit(), fit()
	assert.Equal(t, a, b)

	lo, hi := -0.0, 11.0
	for _, p := range a {
		assert.GreaterOrEqual(t, p, lo)
		assert.LessOrEqual(t, p, hi)
	}
}

func TestRandomForestWithoutBootstrapMatchesTree(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{1, 4, 9, 16}
	rf := NewRandomForestRegressor(WithNEstimators(3), WithBootstrap(false))
	require.NoError(t, rf.Fit(X, y))
	pred, err := rf.Predict(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, y, pred, 1e-12)
}

func TestKNeighbors(t *testing.T) {
	X := [][]float64{{0}, {1}, {2}, {10}}
	y := []float64{0, 1, 2, 10}

	m, err := NewKNeighborsRegressor(1)
	require.NoError(t, err)
	require.NoError(t, m.Fit(X, y))
	pred, err := m.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	m, err = NewKNeighborsRegressor(2)
	require.NoError(t, err)
	require.NoError(t, m.Fit(X, y))
	pred, err = m.Predict([][]float64{{9}})
	require.NoError(t, err)
	assert.InDelta(t, 6.0, pred[0], 1e-12)

	m, err = NewKNeighborsRegressor(5)
	require.NoError(t, err)
	assert.Error(t, m.Fit(X, y))

	_, err = NewKNeighborsRegressor(0)
	assert.Error(t, err)
}

func TestSGDRegressorConverges(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := -10; i <= 10; i++ {
		x := float64(i) / 10
		X = append(X, []float64{x})
		y = append(y, 2*x+1)
	}
	m, err := NewSGDRegressor(0.1, 300, 4, 7)
	require.NoError(t, err)
	require.NoError(t, m.Fit(X, y))
	assert.InDelta(t, 2.0, m.Coef[0], 0.05)
	assert.InDelta(t, 1.0, m.Intercept, 0.05)
	require.Len(t, m.Losses, 300)
	assert.Less(t, m.Losses[len(m.Losses)-1], m.Losses[0])
}

func TestSGDRegressorDiverges(t *testing.T) {
	X := [][]float64{{1000}, {2000}, {3000}, {4000}}
	y := []float64{1, 2, 3, 4}
	m, err := NewSGDRegressor(1e6, 50, 1, 1)
	require.NoError(t, err)
	err = m.Fit(X, y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diverged")
	assert.False(t, m.Fitted)
}

func TestUnfittedModelsRefusePredict(t *testing.T) {
	for _, alg := range Algorithms() {
		m, err := New(Candidate{Name: alg, Algorithm: alg}, 1)
		require.NoError(t, err, alg)
		_, err = m.Predict([][]float64{{1}})
		assert.True(t, errors.Is(err, ErrNotFitted), alg)
	}
}

func TestFitRejectsNonFinite(t *testing.T) {
	m := NewLinearRegression()
	assert.Error(t, m.Fit([][]float64{{1}, {math.NaN()}}, []float64{1, 2}))
	assert.Error(t, m.Fit([][]float64{{1}, {2}}, []float64{1}))
}

func TestNewValidatesCandidates(t *testing.T) {
	_, err := New(Candidate{Name: "x", Algorithm: "svm"}, 0)
	assert.True(t, errors.Is(err, errs.ErrConfiguration))

	_, err = New(Candidate{Name: "x", Algorithm: AlgRidge, Params: map[string]float64{"gamma": 1}}, 0)
	assert.True(t, errors.Is(err, errs.ErrConfiguration))

	_, err = New(Candidate{Name: "x", Algorithm: AlgRidge, Params: map[string]float64{"alpha": math.NaN()}}, 0)
	assert.True(t, errors.Is(err, errs.ErrConfiguration))

	_, err = New(Candidate{Name: "neg", Algorithm: AlgRidge, Params: map[string]float64{"alpha": -1}}, 0)
	require.Error(t, err)
	var e *errs.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "neg", e.Candidate)

	assert.Error(t, Validate(Candidate{Algorithm: AlgLinear}))
	assert.NoError(t, Validate(Candidate{Name: "rf", Algorithm: AlgRandomForest, Params: map[string]float64{"n_estimators": 10}}))

	m, err := New(Candidate{Name: "dt", Algorithm: AlgDecisionTree, Params: map[string]float64{"max_depth": 3}}, 9)
	require.NoError(t, err)
	tree := m.(*DecisionTreeRegressor)
	assert.Equal(t, 3, tree.MaxDepth)
	assert.Equal(t, int64(9), tree.RandomState)
}

func TestMetrics(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, R2(y, y))
	assert.InDelta(t, 0.0, R2(y, []float64{2.5, 2.5, 2.5, 2.5}), 1e-12)
	assert.InDelta(t, 0.25, MSE(y, []float64{1.5, 2.5, 3.5, 4.5}), 1e-12)
	assert.InDelta(t, 0.5, MAE(y, []float64{1.5, 2.5, 3.5, 4.5}), 1e-12)
	assert.InDelta(t, 0.5, RMSE(y, []float64{1.5, 2.5, 3.5, 4.5}), 1e-12)

	c := []float64{5, 5}
	assert.Equal(t, 1.0, R2(c, c))
	assert.Equal(t, 0.0, R2(c, []float64{5, 6}))
	assert.Equal(t, 0.0, R2(nil, nil))
}
