package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// ---------------------------
// Types & options
// ---------------------------

// DecisionTreeRegressor is a CART regression tree splitting on squared error.
type DecisionTreeRegressor struct {
	// Hyperparameters / options
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	MaxFeatures         int     // 0 => use all features, >0 => number of features sampled per split
	MinImpurityDecrease float64 // minimal decrease in mean squared error to accept a split
	RandomState         int64   // seed for feature subsampling

	// Fitted state. Nodes[0] is the root.
	NFeatures int
	Nodes     []TreeNode
}

// TreeNode is one node of the flattened tree. Internal nodes send x[Feature] <= Threshold left.
type TreeNode struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64 // mean target of the samples reaching the node
	N         int
	Impurity  float64 // variance of the samples reaching the node
}

// TreeOption functional config
type TreeOption func(*DecisionTreeRegressor)

func WithMaxDepth(d int) TreeOption { return func(t *DecisionTreeRegressor) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) TreeOption {
	return func(t *DecisionTreeRegressor) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) TreeOption {
	return func(t *DecisionTreeRegressor) { t.MinSamplesLeaf = n }
}
func WithMaxFeatures(k int) TreeOption { return func(t *DecisionTreeRegressor) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) TreeOption {
	return func(t *DecisionTreeRegressor) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) TreeOption {
	return func(t *DecisionTreeRegressor) { t.RandomState = seed }
}

// NewDecisionTreeRegressor returns a fully grown tree by default.
func NewDecisionTreeRegressor(opts ...TreeOption) *DecisionTreeRegressor {
	d := &DecisionTreeRegressor{
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, o := range opts {
		o(d)
	}
	if d.MinSamplesSplit < 2 {
		d.MinSamplesSplit = 2
	}
	if d.MinSamplesLeaf < 1 {
		d.MinSamplesLeaf = 1
	}
	return d
}

// ---------------------------
// Public API
// ---------------------------

// Fit trains the tree on every row of X.
func (t *DecisionTreeRegressor) Fit(X [][]float64, y []float64) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitSample(X, y, idx)
}

// FitSample trains the tree on the rows of X named by idx. Indices may repeat,
// which is how a bootstrap sample is passed in without copying rows.
func (t *DecisionTreeRegressor) FitSample(X [][]float64, y []float64, idx []int) error {
	p, err := checkXY(X, y)
	if err != nil {
		return fmt.Errorf("dtree: %w", err)
	}
	if len(idx) == 0 {
		return fmt.Errorf("dtree: empty sample")
	}
	for _, i := range idx {
		if i < 0 || i >= len(X) {
			return fmt.Errorf("dtree: sample index %d out of range", i)
		}
	}

	t.NFeatures = p
	t.Nodes = t.Nodes[:0]
	b := &treeBuilder{
		t:   t,
		X:   X,
		y:   y,
		p:   p,
		rnd: rand.New(rand.NewSource(t.RandomState)),
	}
	b.build(append([]int(nil), idx...), 0)
	return nil
}

// Predict returns the leaf mean reached by each row of X.
func (t *DecisionTreeRegressor) Predict(X [][]float64) ([]float64, error) {
	if err := checkPredict(X, len(t.Nodes) > 0, t.NFeatures); err != nil {
		return nil, fmt.Errorf("dtree: %w", err)
	}
	out := make([]float64, len(X))
	for i := range X {
		out[i] = t.predictSingle(X[i])
	}
	return out, nil
}

// Depth returns the depth of the deepest leaf.
func (t *DecisionTreeRegressor) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(n, d int) int
	walk = func(n, d int) int {
		node := t.Nodes[n]
		if node.Leaf {
			return d
		}
		return max(walk(node.Left, d+1), walk(node.Right, d+1))
	}
	return walk(0, 0)
}

// Leaves returns the number of leaf nodes.
func (t *DecisionTreeRegressor) Leaves() int {
	n := 0
	for _, node := range t.Nodes {
		if node.Leaf {
			n++
		}
	}
	return n
}

func (t *DecisionTreeRegressor) predictSingle(x []float64) float64 {
	n := 0
	for {
		node := &t.Nodes[n]
		if node.Leaf {
			return node.Value
		}
		val := x[node.Feature]
		if math.IsNaN(val) {
			// missing: follow the child that saw more samples
			if t.Nodes[node.Left].N >= t.Nodes[node.Right].N {
				n = node.Left
			} else {
				n = node.Right
			}
			continue
		}
		if val <= node.Threshold {
			n = node.Left
		} else {
			n = node.Right
		}
	}
}

// ---------------------------
// Internal builders & helpers
// ---------------------------

// parallelSplitMin is the node size from which features are searched concurrently.
const parallelSplitMin = 256

type treeBuilder struct {
	t   *DecisionTreeRegressor
	X   [][]float64
	y   []float64
	p   int
	rnd *rand.Rand
}

// splitResult holds the best split found on one feature.
type splitResult struct {
	sse       float64
	feature   int
	threshold float64
	nLeft     int
}

// pair is a feature value and the row it came from.
type pair struct {
	v float64
	i int
}

// build appends the subtree for idx and returns its node index.
func (b *treeBuilder) build(idx []int, depth int) int {
	t := b.t
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	n := float64(len(idx))
	mean := sum / n
	parentSSE := math.Max(sumSq-sum*sum/n, 0)

	self := len(t.Nodes)
	t.Nodes = append(t.Nodes, TreeNode{Leaf: true, Value: mean, N: len(idx), Impurity: parentSSE / n})

	if len(idx) < t.MinSamplesSplit || len(idx) < 2*t.MinSamplesLeaf {
		return self
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return self
	}
	if parentSSE <= 1e-12*math.Max(1, sumSq) {
		return self
	}

	best, ok := b.bestSplit(idx, b.features())
	if !ok {
		return self
	}
	if gain := (parentSSE - best.sse) / n; gain <= 0 || gain <= t.MinImpurityDecrease {
		return self
	}

	left := make([]int, 0, best.nLeft)
	right := make([]int, 0, len(idx)-best.nLeft)
	for _, i := range idx {
		if b.X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	t.Nodes[self] = TreeNode{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      l,
		Right:     r,
		Value:     mean,
		N:         len(idx),
		Impurity:  parentSSE / n,
	}
	return self
}

// features returns the candidate features for one split, sampled without
// replacement when MaxFeatures is below the feature count.
func (b *treeBuilder) features() []int {
	feats := make([]int, b.p)
	for j := range feats {
		feats[j] = j
	}
	k := b.t.MaxFeatures
	if k <= 0 || k >= b.p {
		return feats
	}
	for i := 0; i < k; i++ {
		j := i + b.rnd.Intn(b.p-i)
		feats[i], feats[j] = feats[j], feats[i]
	}
	feats = feats[:k]
	sort.Ints(feats)
	return feats
}

// bestSplit searches feats for the lowest total squared error. Ties go to the
// lower feature index so results do not depend on goroutine scheduling.
func (b *treeBuilder) bestSplit(idx []int, feats []int) (splitResult, bool) {
	results := make([]splitResult, len(feats))
	found := make([]bool, len(feats))

	if len(idx) >= parallelSplitMin && len(feats) > 1 {
		var wg sync.WaitGroup
		for k, f := range feats {
			wg.Add(1)
			go func(k, f int) {
				defer wg.Done()
				results[k], found[k] = b.splitFeature(idx, f)
			}(k, f)
		}
		wg.Wait()
	} else {
		for k, f := range feats {
			results[k], found[k] = b.splitFeature(idx, f)
		}
	}

	var best splitResult
	ok := false
	for k := range feats {
		if !found[k] {
			continue
		}
		if !ok || results[k].sse < best.sse {
			best, ok = results[k], true
		}
	}
	return best, ok
}

// splitFeature sweeps the sorted values of feature f, scoring every midpoint
// between distinct neighbours that leaves at least MinSamplesLeaf per side.
func (b *treeBuilder) splitFeature(idx []int, f int) (splitResult, bool) {
	minLeaf := b.t.MinSamplesLeaf
	vals := make([]pair, len(idx))
	totSum, totSq := 0.0, 0.0
	for k, i := range idx {
		vals[k] = pair{b.X[i][f], i}
		totSum += b.y[i]
		totSq += b.y[i] * b.y[i]
	}
	sort.Slice(vals, func(a, c int) bool { return vals[a].v < vals[c].v })

	res := splitResult{feature: f, sse: math.Inf(1)}
	ok := false
	lSum, lSq := 0.0, 0.0
	n := len(vals)
	for s := 1; s < n; s++ {
		yv := b.y[vals[s-1].i]
		lSum += yv
		lSq += yv * yv
		if vals[s].v == vals[s-1].v {
			continue
		}
		if s < minLeaf || n-s < minLeaf {
			continue
		}
		nl, nr := float64(s), float64(n-s)
		rSum, rSq := totSum-lSum, totSq-lSq
		sse := math.Max(lSq-lSum*lSum/nl, 0) + math.Max(rSq-rSum*rSum/nr, 0)
		if sse < res.sse {
			thr := (vals[s-1].v + vals[s].v) / 2.0
			// guard against the midpoint rounding onto the right value
			if thr >= vals[s].v {
				thr = vals[s-1].v
			}
			res.sse, res.threshold, res.nLeft = sse, thr, s
			ok = true
		}
	}
	return res, ok
}
