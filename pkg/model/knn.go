package model

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// KNeighborsRegressor predicts the mean target of the K nearest training rows
// under Euclidean distance.
type KNeighborsRegressor struct {
	K int
	X [][]float64
	Y []float64
}

// NewKNeighborsRegressor creates and returns a new KNN model.
func NewKNeighborsRegressor(k int) (*KNeighborsRegressor, error) {
	if k < 1 {
		return nil, fmt.Errorf("knn: k must be positive, got %d", k)
	}
	return &KNeighborsRegressor{K: k}, nil
}

// Fit stores a copy of the training data. This is the "lazy" part of KNN.
func (m *KNeighborsRegressor) Fit(X [][]float64, y []float64) error {
	if _, err := checkXY(X, y); err != nil {
		return fmt.Errorf("knn: %w", err)
	}
	if len(X) < m.K {
		return fmt.Errorf("knn: k=%d exceeds %d training rows", m.K, len(X))
	}
	m.X = make([][]float64, len(X))
	for i := range X {
		m.X[i] = append([]float64(nil), X[i]...)
	}
	m.Y = append([]float64(nil), y...)
	return nil
}

// Predict finds the K nearest neighbours of each row, splitting rows across
// one goroutine per CPU.
func (m *KNeighborsRegressor) Predict(X [][]float64) ([]float64, error) {
	p := 0
	if len(m.X) > 0 {
		p = len(m.X[0])
	}
	if err := checkPredict(X, len(m.X) > 0, p); err != nil {
		return nil, fmt.Errorf("knn: %w", err)
	}
	if len(X) == 0 {
		return nil, nil
	}

	out := make([]float64, len(X))
	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				out[i] = m.predictSingle(X[i])
			}
		}(start, end)
	}

	wg.Wait()
	return out, nil
}

// predictSingle keeps a sorted window of the K closest rows seen so far. On
// equal distance the earlier training row wins.
func (m *KNeighborsRegressor) predictSingle(xi []float64) float64 {
	type neighbour struct {
		d float64
		v float64
	}

	nbrs := make([]neighbour, 0, m.K)
	less := func(a, b int) bool { return nbrs[a].d < nbrs[b].d }

	for j, xj := range m.X {
		d := euclidSquared(xi, xj)
		if len(nbrs) < m.K {
			nbrs = append(nbrs, neighbour{d: d, v: m.Y[j]})
			sort.SliceStable(nbrs, less)
		} else if d < nbrs[len(nbrs)-1].d {
			nbrs[len(nbrs)-1] = neighbour{d: d, v: m.Y[j]}
			sort.SliceStable(nbrs, less)
		}
	}

	sum := 0.0
	for _, nb := range nbrs {
		sum += nb.v
	}
	return sum / float64(len(nbrs))
}

// euclidSquared avoids the square root; ordering is unchanged.
func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
