package pipeline

import (
	"slices"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/artifact"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/data"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
)

// Schema describes the input columns a fitted preprocessor reads and the
// feature columns it emits.
type Schema struct {
	Numerical   []string
	Categorical []string
	Features    []string
}

// SchemaOf returns the schema of a preprocessor.
func SchemaOf(p *Preprocessor) Schema {
	return Schema{
		Numerical:   append([]string(nil), p.Numerical...),
		Categorical: append([]string(nil), p.Categorical...),
		Features:    p.Features(),
	}
}

// Check fails when t lacks any input column.
func (s Schema) Check(t *data.Table) error {
	for _, name := range append(append([]string(nil), s.Numerical...), s.Categorical...) {
		if _, ok := t.ColumnIndex(name); !ok {
			return errs.Configuration("input is missing column").WithColumn(name)
		}
	}
	return nil
}

// Matches fails when h records a different feature layout.
func (s Schema) Matches(h artifact.Header) error {
	if !slices.Equal(s.Features, h.Columns) {
		return errs.Configuration("%s artifact expects features %v, preprocessor emits %v", h.Kind, h.Columns, s.Features)
	}
	return nil
}
