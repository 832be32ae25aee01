package model

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RandomForestRegressor averages the predictions of decision trees fitted on
// bootstrap samples.
type RandomForestRegressor struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Bootstrap       bool
	RandomState     int64

	// Internal state
	Trees []*DecisionTreeRegressor
}

// RandomForestOption functional config for RandomForestRegressor
type RandomForestOption func(*RandomForestRegressor)

func WithNEstimators(n int) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.NEstimators = n }
}
func WithForestMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.MaxDepth = d }
}
func WithForestMinSamplesSplit(n int) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.MinSamplesSplit = n }
}
func WithForestMinSamplesLeaf(n int) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.MinSamplesLeaf = n }
}
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.MaxFeatures = k }
}
func WithBootstrap(b bool) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.Bootstrap = b }
}
func WithForestRandomState(seed int64) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.RandomState = seed }
}

// NewRandomForestRegressor initializes the forest with sensible defaults.
func NewRandomForestRegressor(opts ...RandomForestOption) *RandomForestRegressor {
	rf := &RandomForestRegressor{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Bootstrap:       true,
	}
	for _, o := range opts {
		o(rf)
	}
	if rf.NEstimators < 1 {
		rf.NEstimators = 1
	}
	return rf
}

// Fit trains the forest. Tree i draws its bootstrap sample and feature
// subsets from RandomState+i, so the result does not depend on scheduling.
func (rf *RandomForestRegressor) Fit(X [][]float64, y []float64) error {
	if _, err := checkXY(X, y); err != nil {
		return fmt.Errorf("randomforest: %w", err)
	}
	n := len(X)

	trees := make([]*DecisionTreeRegressor, rf.NEstimators)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < rf.NEstimators; i++ {
		idx := i
		g.Go(func() error {
			seed := rf.RandomState + int64(idx)
			treeRand := rand.New(rand.NewSource(seed))

			// index-based bootstrap: rows are referenced, not copied
			sample := make([]int, n)
			for j := range sample {
				if rf.Bootstrap {
					sample[j] = treeRand.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := NewDecisionTreeRegressor(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMinSamplesLeaf(rf.MinSamplesLeaf),
				WithMaxFeatures(rf.MaxFeatures),
				WithRandomState(seed),
			)
			if err := tree.FitSample(X, y, sample); err != nil {
				return fmt.Errorf("randomforest: tree %d: %w", idx, err)
			}
			trees[idx] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	rf.Trees = trees
	return nil
}

// Predict returns the mean of the tree predictions for each row.
func (rf *RandomForestRegressor) Predict(X [][]float64) ([]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, fmt.Errorf("randomforest: %w", ErrNotFitted)
	}

	// one slot per tree keeps the summation order fixed
	all := make([][]float64, len(rf.Trees))
	errCh := make(chan error, len(rf.Trees))
	var wg sync.WaitGroup
	for k, tree := range rf.Trees {
		wg.Add(1)
		go func(k int, t *DecisionTreeRegressor) {
			defer wg.Done()
			preds, err := t.Predict(X)
			if err != nil {
				errCh <- err
				return
			}
			all[k] = preds
		}(k, tree)
	}
	wg.Wait()
	close(errCh)
	if err, ok := <-errCh; ok {
		return nil, fmt.Errorf("randomforest: %w", err)
	}

	out := make([]float64, len(X))
	for i := range out {
		sum := 0.0
		for k := range all {
			sum += all[k][i]
		}
		out[i] = sum / float64(len(all))
	}
	return out, nil
}
