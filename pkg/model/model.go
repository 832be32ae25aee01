package model

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
)

// ErrNotFitted is returned by Predict on a model that has not been fitted.
var ErrNotFitted = errors.New("model is not fitted")

// Regressor is a supervised model predicting a real-valued target.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
}

// Candidate is one named, untrained entry in the model catalog.
type Candidate struct {
	Name      string             `yaml:"name"`
	Algorithm string             `yaml:"algorithm"`
	Params    map[string]float64 `yaml:"params,omitempty"`
}

// Bundle is the persisted form of a fitted model.
type Bundle struct {
	Name      string
	Candidate Candidate
	Model     Regressor
}

func init() {
	gob.Register(&LinearRegression{})
	gob.Register(&Ridge{})
	gob.Register(&Lasso{})
	gob.Register(&ElasticNet{})
	gob.Register(&DecisionTreeRegressor{})
	gob.Register(&RandomForestRegressor{})
	gob.Register(&KNeighborsRegressor{})
	gob.Register(&SGDRegressor{})
}

// Algorithm identifiers accepted in Candidate.Algorithm.
const (
	AlgLinear       = "linear"
	AlgRidge        = "ridge"
	AlgLasso        = "lasso"
	AlgElasticNet   = "elasticnet"
	AlgDecisionTree = "decision_tree"
	AlgRandomForest = "random_forest"
	AlgKNN          = "knn"
	AlgSGD          = "sgd"
)

type params map[string]float64

func (p params) getFloat(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func (p params) getInt(key string, def int) int {
	if v, ok := p[key]; ok {
		return int(v)
	}
	return def
}

func (p params) seed(def int64) int64 {
	if v, ok := p["random_state"]; ok {
		return int64(v)
	}
	return def
}

type builder struct {
	keys  []string
	build func(p params, seed int64) (Regressor, error)
}

var registry = map[string]builder{
	AlgLinear: {
		build: func(p params, _ int64) (Regressor, error) { return NewLinearRegression(), nil },
	},
	AlgRidge: {
		keys: []string{"alpha"},
		build: func(p params, _ int64) (Regressor, error) {
			return NewRidge(p.getFloat("alpha", 1.0))
		},
	},
	AlgLasso: {
		keys: []string{"alpha", "max_iter", "tol"},
		build: func(p params, _ int64) (Regressor, error) {
			return NewLasso(p.getFloat("alpha", 1.0), p.getInt("max_iter", 1000), p.getFloat("tol", 1e-4))
		},
	},
	AlgElasticNet: {
		keys: []string{"alpha", "l1_ratio", "max_iter", "tol"},
		build: func(p params, _ int64) (Regressor, error) {
			return NewElasticNet(p.getFloat("alpha", 1.0), p.getFloat("l1_ratio", 0.5), p.getInt("max_iter", 1000), p.getFloat("tol", 1e-4))
		},
	},
	AlgDecisionTree: {
		keys: []string{"max_depth", "min_samples_split", "min_samples_leaf", "max_features", "random_state"},
		build: func(p params, seed int64) (Regressor, error) {
			return NewDecisionTreeRegressor(
				WithMaxDepth(p.getInt("max_depth", 0)),
				WithMinSamplesSplit(p.getInt("min_samples_split", 2)),
				WithMinSamplesLeaf(p.getInt("min_samples_leaf", 1)),
				WithMaxFeatures(p.getInt("max_features", 0)),
				WithRandomState(p.seed(seed)),
			), nil
		},
	},
	AlgRandomForest: {
		keys: []string{"n_estimators", "max_depth", "min_samples_split", "min_samples_leaf", "max_features", "bootstrap", "random_state"},
		build: func(p params, seed int64) (Regressor, error) {
			return NewRandomForestRegressor(
				WithNEstimators(p.getInt("n_estimators", 100)),
				WithForestMaxDepth(p.getInt("max_depth", 0)),
				WithForestMinSamplesSplit(p.getInt("min_samples_split", 2)),
				WithForestMinSamplesLeaf(p.getInt("min_samples_leaf", 1)),
				WithForestMaxFeatures(p.getInt("max_features", 0)),
				WithBootstrap(p.getFloat("bootstrap", 1) != 0),
				WithForestRandomState(p.seed(seed)),
			), nil
		},
	},
	AlgKNN: {
		keys: []string{"k"},
		build: func(p params, _ int64) (Regressor, error) {
			return NewKNeighborsRegressor(p.getInt("k", 5))
		},
	},
	AlgSGD: {
		keys: []string{"lr", "epochs", "batch_size", "random_state"},
		build: func(p params, seed int64) (Regressor, error) {
			return NewSGDRegressor(p.getFloat("lr", 0.01), p.getInt("epochs", 50), p.getInt("batch_size", 32), p.seed(seed))
		},
	},
}

// Algorithms lists the accepted algorithm identifiers, sorted.
func Algorithms() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New builds an untrained regressor for c. seed is used by randomized
// algorithms unless the candidate sets random_state itself.
func New(c Candidate, seed int64) (Regressor, error) {
	b, ok := registry[c.Algorithm]
	if !ok {
		return nil, errs.Configuration("unknown algorithm %q (want one of %v)", c.Algorithm, Algorithms()).WithCandidate(c.Name)
	}
	for key, v := range c.Params {
		if !contains(b.keys, key) {
			return nil, errs.Configuration("algorithm %q has no parameter %q", c.Algorithm, key).WithCandidate(c.Name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errs.Configuration("parameter %q must be finite", key).WithCandidate(c.Name)
		}
	}
	m, err := b.build(params(c.Params), seed)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err, "build %s", c.Algorithm).WithCandidate(c.Name)
	}
	return m, nil
}

// Validate checks that c names a known algorithm with acceptable parameters.
func Validate(c Candidate) error {
	if c.Name == "" {
		return errs.Configuration("model candidate has no name")
	}
	_, err := New(c, 0)
	return err
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// checkXY validates training input shapes and returns the feature count.
func checkXY(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, fmt.Errorf("empty X")
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("X has %d rows but y has %d", len(X), len(y))
	}
	p := len(X[0])
	if p == 0 {
		return 0, fmt.Errorf("X has no feature columns")
	}
	for i := range X {
		if len(X[i]) != p {
			return 0, fmt.Errorf("inconsistent number of features in X row %d", i)
		}
		for j, v := range X[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("non-finite value at X[%d][%d]", i, j)
			}
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return 0, fmt.Errorf("non-finite target at row %d", i)
		}
	}
	return p, nil
}

// checkPredict validates prediction input against the fitted feature count.
func checkPredict(X [][]float64, fitted bool, p int) error {
	if !fitted {
		return ErrNotFitted
	}
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("row %d has %d features, model was fitted on %d", i, len(row), p)
		}
	}
	return nil
}
