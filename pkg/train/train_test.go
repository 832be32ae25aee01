package train

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/artifact"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/core"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/logging"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/model"
)

// linearMatrix returns n rows of (a, b, 1 + 2a - 3b).
func linearMatrix(n, offset int) *core.Matrix {
	m := core.NewMatrix(n, 3)
	m.Columns = []string{"a", "b", "y"}
	for i := 0; i < n; i++ {
		a := float64((i+offset)%7) - 3
		b := float64((i+offset)%5) / 2
		m.Set(i, 0, a)
		m.Set(i, 1, b)
		m.Set(i, 2, 1+2*a-3*b)
	}
	return m
}

func evaluator(cands ...model.Candidate) *Evaluator {
	return &Evaluator{Candidates: cands, Seed: 42, Workers: 1, Log: logging.Discard()}
}

func TestBestPicksFirstOfTies(t *testing.T) {
	r := NewScoreReport()
	require.NoError(t, r.Add("LinearRegression", 0.90))
	require.NoError(t, r.Add("Ridge", 0.95))
	require.NoError(t, r.Add("Lasso", 0.95))

	best, err := Best(r)
	require.NoError(t, err)
	assert.Equal(t, "Ridge", best.Name)
	assert.Equal(t, 0.95, best.R2)
}

func TestBestEmptyReport(t *testing.T) {
	r := NewScoreReport()
	r.Fail("Lasso", errors.New("boom"))
	_, err := Best(r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrSelection))
	assert.Contains(t, err.Error(), "Lasso")
}

func TestScoreReport(t *testing.T) {
	r := NewScoreReport()
	require.NoError(t, r.Add("a", 0.1))
	require.NoError(t, r.Add("b", -0.5))
	assert.Error(t, r.Add("a", 0.2))

	v, ok := r.Get("b")
	assert.True(t, ok)
	assert.Equal(t, -0.5, v)
	_, ok = r.Get("c")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Equal(t, 2, r.Len())
}

func TestEvaluateSkipsFailures(t *testing.T) {
	e := evaluator(
		model.Candidate{Name: "LinearRegression", Algorithm: model.AlgLinear},
		model.Candidate{Name: "TooManyNeighbours", Algorithm: model.AlgKNN, Params: map[string]float64{"k": 1000}},
		model.Candidate{Name: "Ridge", Algorithm: model.AlgRidge, Params: map[string]float64{"alpha": 0.1}},
	)
	ev, err := e.Evaluate(context.Background(), linearMatrix(70, 0), linearMatrix(30, 3))
	require.NoError(t, err)

	assert.Equal(t, []string{"LinearRegression", "Ridge"}, ev.Report.Names())
	r2, _ := ev.Report.Get("LinearRegression")
	assert.InDelta(t, 1.0, r2, 1e-9)
	require.Len(t, ev.Report.Failures(), 1)
	assert.Equal(t, "TooManyNeighbours", ev.Report.Failures()[0].Name)
	assert.True(t, errors.Is(ev.Report.Failures()[0].Err, errs.ErrFit))
	assert.Len(t, ev.Models, 2)
	assert.Len(t, ev.Predictions["Ridge"], 30)
}

func TestEvaluateFailFast(t *testing.T) {
	e := evaluator(
		model.Candidate{Name: "TooManyNeighbours", Algorithm: model.AlgKNN, Params: map[string]float64{"k": 1000}},
		model.Candidate{Name: "LinearRegression", Algorithm: model.AlgLinear},
	)
	e.FailFast = true
	_, err := e.Evaluate(context.Background(), linearMatrix(70, 0), linearMatrix(30, 3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrFit))
	assert.Equal(t, errs.StageEvaluate, errs.StageOf(err))
}

type panicky struct{}

func (panicky) Fit([][]float64, []float64) error       { panic("unstable") }
func (panicky) Predict([][]float64) ([]float64, error) { return nil, nil }

type constant struct{ v float64 }

func (c constant) Fit([][]float64, []float64) error { return nil }
func (c constant) Predict(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i := range out {
		out[i] = c.v
	}
	return out, nil
}

type short struct{}

func (short) Fit([][]float64, []float64) error       { return nil }
func (short) Predict([][]float64) ([]float64, error) { return []float64{1}, nil }

func TestEvaluateRejectsWrongPredictionCount(t *testing.T) {
	e := evaluator(model.Candidate{Name: "Short"})
	e.Build = func(model.Candidate, int64) (model.Regressor, error) { return short{}, nil }
	ev, err := e.Evaluate(context.Background(), linearMatrix(10, 0), linearMatrix(10, 0))
	require.NoError(t, err)
	require.Len(t, ev.Report.Failures(), 1)
	msg := ev.Report.Failures()[0].Err.Error()
	assert.Contains(t, msg, "1 predictions for 10 test rows")
	assert.NotContains(t, msg, "not finite")
}

func TestEvaluateRecoversPanicsAndRejectsNonFinite(t *testing.T) {
	e := evaluator(
		model.Candidate{Name: "Panics"},
		model.Candidate{Name: "Infinite"},
		model.Candidate{Name: "Constant"},
	)
	e.Build = func(c model.Candidate, _ int64) (model.Regressor, error) {
		switch c.Name {
		case "Panics":
			return panicky{}, nil
		case "Infinite":
			return constant{v: 1 / zero()}, nil
		default:
			return constant{v: 0}, nil
		}
	}
	ev, err := e.Evaluate(context.Background(), linearMatrix(10, 0), linearMatrix(10, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"Constant"}, ev.Report.Names())
	require.Len(t, ev.Report.Failures(), 2)
	assert.Contains(t, ev.Report.Failures()[0].Err.Error(), "panic")
}

func zero() float64 { return 0 }

func TestEvaluateParallelMatchesSequential(t *testing.T) {
	cands := []model.Candidate{
		{Name: "LinearRegression", Algorithm: model.AlgLinear},
		{Name: "Lasso", Algorithm: model.AlgLasso, Params: map[string]float64{"alpha": 0.01}},
		{Name: "DecisionTree", Algorithm: model.AlgDecisionTree},
		{Name: "RandomForest", Algorithm: model.AlgRandomForest, Params: map[string]float64{"n_estimators": 10}},
		{Name: "KNN", Algorithm: model.AlgKNN},
	}
	seq := evaluator(cands...)
	par := evaluator(cands...)
	par.Workers = 0

	a, err := seq.Evaluate(context.Background(), linearMatrix(70, 0), linearMatrix(30, 3))
	require.NoError(t, err)
	b, err := par.Evaluate(context.Background(), linearMatrix(70, 0), linearMatrix(30, 3))
	require.NoError(t, err)
	assert.Equal(t, a.Report.Scores(), b.Report.Scores())
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	_, err := evaluator().Evaluate(context.Background(), linearMatrix(5, 0), linearMatrix(5, 0))
	assert.True(t, errors.Is(err, errs.ErrConfiguration))

	other := core.NewMatrix(5, 2)
	_, err = evaluator(model.Candidate{Name: "l", Algorithm: model.AlgLinear}).
		Evaluate(context.Background(), linearMatrix(5, 0), other)
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}

func TestEvaluateHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := evaluator(model.Candidate{Name: "l", Algorithm: model.AlgLinear}).
		Evaluate(ctx, linearMatrix(10, 0), linearMatrix(10, 0))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, errs.ErrFit))
	assert.Equal(t, errs.StageEvaluate, errs.StageOf(err))

	ctx, cancel = context.WithTimeout(context.Background(), 0)
	defer cancel()
	_, err = evaluator(model.Candidate{Name: "l", Algorithm: model.AlgLinear}).
		Evaluate(ctx, linearMatrix(10, 0), linearMatrix(10, 0))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, errs.KindUnknown, errs.KindOf(err))
}

func TestSelectAndPersist(t *testing.T) {
	train, test := linearMatrix(70, 0), linearMatrix(30, 3)
	e := evaluator(
		model.Candidate{Name: "KNN", Algorithm: model.AlgKNN},
		model.Candidate{Name: "LinearRegression", Algorithm: model.AlgLinear},
	)
	ev, err := e.Evaluate(context.Background(), train, test)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.bin")
	s := &Selector{Candidates: e.Candidates, Columns: []string{"a", "b"}, RunID: "run-1", Log: logging.Discard()}
	sel, err := s.SelectAndPersist(ev.Report, ev.Models, path)
	require.NoError(t, err)
	assert.Equal(t, "LinearRegression", sel.Name)

	var bundle model.Bundle
	h, err := artifact.Load(path, artifact.KindModel, &bundle)
	require.NoError(t, err)
	assert.Equal(t, "LinearRegression", h.Name)
	assert.Equal(t, "run-1", h.RunID)
	assert.Equal(t, sel.Score, h.Score)
	assert.Equal(t, model.AlgLinear, bundle.Candidate.Algorithm)

	X, _, err := test.SplitXY()
	require.NoError(t, err)
	want, err := sel.Model.Predict(X)
	require.NoError(t, err)
	got, err := bundle.Model.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPersistRoundTripsEveryAlgorithm(t *testing.T) {
	train, test := linearMatrix(70, 0), linearMatrix(30, 3)
	Xtr, ytr, err := train.SplitXY()
	require.NoError(t, err)
	Xte, _, err := test.SplitXY()
	require.NoError(t, err)

	for _, alg := range model.Algorithms() {
		t.Run(alg, func(t *testing.T) {
			c := model.Candidate{Name: alg, Algorithm: alg}
			if alg == model.AlgRandomForest {
				c.Params = map[string]float64{"n_estimators": 10}
			}
			m, err := model.New(c, 42)
			require.NoError(t, err)
			require.NoError(t, m.Fit(Xtr, ytr))
			want, err := m.Predict(Xte)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "model.bin")
			s := &Selector{Candidates: []model.Candidate{c}, Columns: []string{"a", "b"}, Log: logging.Discard()}
			_, err = s.Persist(Score{Name: alg, R2: 0.5}, map[string]model.Regressor{alg: m}, path)
			require.NoError(t, err)

			var bundle model.Bundle
			h, err := artifact.Load(path, artifact.KindModel, &bundle)
			require.NoError(t, err)
			assert.Equal(t, alg, h.Name)
			assert.Equal(t, c, bundle.Candidate)
			got, err := bundle.Model.Predict(Xte)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSelectAndPersistEmptyReport(t *testing.T) {
	s := &Selector{Log: logging.Discard()}
	path := filepath.Join(t.TempDir(), "model.bin")
	_, err := s.SelectAndPersist(NewScoreReport(), nil, path)
	assert.True(t, errors.Is(err, errs.ErrSelection))
	assert.NoFileExists(t, path)
}
