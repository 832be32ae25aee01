package pipeline

import (
	"encoding/gob"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/dataprep"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/stats"
)

// Step is one fit/transform stage over numeric columns.
type Step interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) ([][]float64, error)
}

func init() {
	gob.Register(&dataprep.MedianImputer{})
	gob.Register(&stats.StandardScaler{})
}

// Pipeline chains multiple steps. Each step is fitted on the output of the
// previous one.
type Pipeline struct {
	Steps []Step
}

func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{Steps: steps}
}

func (p *Pipeline) Fit(X [][]float64) error {
	_, err := p.FitTransform(X)
	return err
}

func (p *Pipeline) FitTransform(X [][]float64) ([][]float64, error) {
	var err error
	for _, step := range p.Steps {
		if err = step.Fit(X); err != nil {
			return nil, err
		}
		if X, err = step.Transform(X); err != nil {
			return nil, err
		}
	}
	return X, nil
}

func (p *Pipeline) Transform(X [][]float64) ([][]float64, error) {
	var err error
	for _, step := range p.Steps {
		if X, err = step.Transform(X); err != nil {
			return nil, err
		}
	}
	return X, nil
}
