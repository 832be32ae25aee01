package model

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/data"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/optim"
)

// SGDRegressor is a linear model fitted by mini-batch gradient descent on
// squared error. Rows are reshuffled every epoch from RandomState.
type SGDRegressor struct {
	LinearCoef
	LearningRate float64
	PowerT       float64
	Epochs       int
	BatchSize    int
	RandomState  int64
	Losses       []float64 // mean batch loss per epoch
}

// NewSGDRegressor validates the hyperparameters. The learning rate decays as
// lr / t^0.25.
func NewSGDRegressor(lr float64, epochs, batchSize int, seed int64) (*SGDRegressor, error) {
	if lr <= 0 {
		return nil, fmt.Errorf("sgd: lr must be positive, got %v", lr)
	}
	if epochs < 1 {
		return nil, fmt.Errorf("sgd: epochs must be positive, got %d", epochs)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("sgd: batch_size must be positive, got %d", batchSize)
	}
	return &SGDRegressor{LearningRate: lr, PowerT: 0.25, Epochs: epochs, BatchSize: batchSize, RandomState: seed}, nil
}

// Fit streams shuffled rows through data.Batcher each epoch. A loss that
// stops being finite aborts the fit.
func (m *SGDRegressor) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return fmt.Errorf("sgd: %w", err)
	}

	// weights followed by the bias, so one optimizer step updates both
	params := make([]float64, p+1)
	opt := optim.NewSGD(m.LearningRate, m.PowerT)
	rnd := rand.New(rand.NewSource(m.RandomState))
	m.Losses = m.Losses[:0]

	for ep := 0; ep < m.Epochs; ep++ {
		samples := data.Feed(X, y, rnd.Perm(len(X)))
		batches := make(chan data.Batch)
		done := data.Batcher(samples, m.BatchSize, batches)

		total, nb := 0.0, 0
		var fitErr error
		for batch := range batches {
			loss := sgdStep(params, batch, opt)
			if math.IsNaN(loss) || math.IsInf(loss, 0) {
				fitErr = fmt.Errorf("sgd: loss diverged in epoch %d", ep+1)
				close(done)
				break
			}
			total += loss
			nb++
		}
		if fitErr != nil {
			for range batches {
			}
			for range samples {
			}
			return fitErr
		}
		m.Losses = append(m.Losses, total/float64(nb))
	}

	m.Coef = append([]float64(nil), params[:p]...)
	m.Intercept = params[p]
	m.Fitted = true
	return nil
}

// sgdStep applies one update from batch and returns the batch loss.
func sgdStep(params []float64, batch data.Batch, opt *optim.SGD) float64 {
	p := len(params) - 1
	yhat := make([]float64, len(batch.X))
	for i, row := range batch.X {
		s := params[p]
		for j, v := range row {
			s += params[j] * v
		}
		yhat[i] = s
	}
	loss, dy := optim.MSE(batch.Y, yhat)

	grads := make([]float64, p+1)
	for i, row := range batch.X {
		for j, v := range row {
			grads[j] += dy[i] * v
		}
		grads[p] += dy[i]
	}
	opt.Step(params, grads)
	return loss
}
