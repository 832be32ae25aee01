package pipeline

import (
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/config"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/core"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/data"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/dataprep"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/stats"
)

// Preprocessor is the composite column transform. Numerical columns are
// median-imputed and standardized; categorical columns are mode-imputed,
// ordinal-encoded with the configured ordering and standardized. Output
// columns are the numerical ones, then the categorical ones, each in declared
// order. Columns not declared are ignored.
//
// Every field is exported so a fitted Preprocessor can be persisted with gob.
type Preprocessor struct {
	Numerical   []string
	Categorical []string

	NumericSteps     *Pipeline
	CategoryImputer  *dataprep.MostFrequentImputer
	Encoder          *dataprep.OrdinalEncoder
	CategoricalSteps *Pipeline

	Fitted bool
}

// NewPreprocessor builds an unfitted preprocessor for cols. Every categorical
// column needs a non-empty, duplicate-free ordering.
func NewPreprocessor(cols config.Columns) (*Preprocessor, error) {
	if len(cols.Numerical)+len(cols.Categorical) == 0 {
		return nil, errs.Configuration("no feature columns declared")
	}
	orderings := make([][]string, len(cols.Categorical))
	for j, col := range cols.Categorical {
		order, ok := cols.Orderings[col]
		if !ok {
			return nil, errs.Configuration("categorical column has no ordering").WithColumn(col)
		}
		orderings[j] = order
	}
	enc, err := dataprep.NewOrdinalEncoder(cols.Categorical, orderings)
	if err != nil {
		return nil, err
	}

	return &Preprocessor{
		Numerical:   append([]string(nil), cols.Numerical...),
		Categorical: append([]string(nil), cols.Categorical...),
		NumericSteps: NewPipeline(
			dataprep.NewMedianImputer(cols.Numerical),
			stats.NewStandardScaler(),
		),
		CategoryImputer:  dataprep.NewMostFrequentImputer(cols.Categorical),
		Encoder:          enc,
		CategoricalSteps: NewPipeline(stats.NewStandardScaler()),
	}, nil
}

// Features returns the output column names in order.
func (p *Preprocessor) Features() []string {
	out := make([]string, 0, len(p.Numerical)+len(p.Categorical))
	out = append(out, p.Numerical...)
	return append(out, p.Categorical...)
}

// Fit learns every statistic from t. The target column is never read.
func (p *Preprocessor) Fit(t *data.Table) error {
	if t.Len() == 0 {
		return errs.Configuration("cannot fit preprocessor on an empty table")
	}
	if len(p.Numerical) > 0 {
		X, err := p.numeric(t)
		if err != nil {
			return err
		}
		if err := p.NumericSteps.Fit(X); err != nil {
			return err
		}
	}
	if len(p.Categorical) > 0 {
		cells, err := t.Select(p.Categorical)
		if err != nil {
			return err
		}
		if err := p.CategoryImputer.Fit(cells); err != nil {
			return err
		}
		filled, err := p.CategoryImputer.Transform(cells)
		if err != nil {
			return err
		}
		if err := p.Encoder.Fit(filled); err != nil {
			return err
		}
		codes, err := p.Encoder.Transform(filled)
		if err != nil {
			return err
		}
		if err := p.CategoricalSteps.Fit(codes); err != nil {
			return err
		}
	}
	p.Fitted = true
	return nil
}

// Transform applies the fitted statistics to t. No statistic is updated.
func (p *Preprocessor) Transform(t *data.Table) (*core.Matrix, error) {
	if !p.Fitted {
		return nil, errs.Configuration("preprocessor is not fitted")
	}
	var num, cat [][]float64
	if len(p.Numerical) > 0 {
		X, err := p.numeric(t)
		if err != nil {
			return nil, err
		}
		if num, err = p.NumericSteps.Transform(X); err != nil {
			return nil, err
		}
	}
	if len(p.Categorical) > 0 {
		cells, err := t.Select(p.Categorical)
		if err != nil {
			return nil, err
		}
		filled, err := p.CategoryImputer.Transform(cells)
		if err != nil {
			return nil, err
		}
		codes, err := p.Encoder.Transform(filled)
		if err != nil {
			return nil, err
		}
		if cat, err = p.CategoricalSteps.Transform(codes); err != nil {
			return nil, err
		}
	}

	nNum, nCat := len(p.Numerical), len(p.Categorical)
	m := core.NewMatrix(t.Len(), nNum+nCat)
	m.Columns = p.Features()
	for i := 0; i < t.Len(); i++ {
		if nNum > 0 {
			copy(m.Data[i*m.C:], num[i])
		}
		if nCat > 0 {
			copy(m.Data[i*m.C+nNum:], cat[i])
		}
	}
	return m, nil
}

// FitTransform fits on t and transforms it.
func (p *Preprocessor) FitTransform(t *data.Table) (*core.Matrix, error) {
	if err := p.Fit(t); err != nil {
		return nil, err
	}
	return p.Transform(t)
}

func (p *Preprocessor) numeric(t *data.Table) ([][]float64, error) {
	cells, err := t.Select(p.Numerical)
	if err != nil {
		return nil, err
	}
	return dataprep.ParseNumeric(cells, p.Numerical)
}
