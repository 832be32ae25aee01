package pipeline

import (
	"strconv"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/artifact"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/data"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/model"
)

// Predictor scores new records with a persisted preprocessor and model.
type Predictor struct {
	Preprocessor *Preprocessor
	Bundle       *model.Bundle
	Schema       Schema

	PreprocessorHeader artifact.Header
	ModelHeader        artifact.Header
}

// LoadPredictor reads both artifacts and checks they were produced for the
// same feature layout.
func LoadPredictor(preprocessorPath, modelPath string) (*Predictor, error) {
	pre := &Preprocessor{}
	ph, err := artifact.Load(preprocessorPath, artifact.KindPreprocessor, pre)
	if err != nil {
		return nil, errs.InStage(err, errs.StagePredict, errs.KindIO)
	}
	bundle := &model.Bundle{}
	mh, err := artifact.Load(modelPath, artifact.KindModel, bundle)
	if err != nil {
		return nil, errs.InStage(err, errs.StagePredict, errs.KindIO)
	}
	if bundle.Model == nil {
		return nil, errs.Configuration("model artifact holds no model").WithPath(modelPath).In(errs.StagePredict)
	}

	schema := SchemaOf(pre)
	if err := schema.Matches(mh); err != nil {
		return nil, errs.InStage(err, errs.StagePredict, errs.KindConfiguration)
	}
	return &Predictor{
		Preprocessor:       pre,
		Bundle:             bundle,
		Schema:             schema,
		PreprocessorHeader: ph,
		ModelHeader:        mh,
	}, nil
}

// Predict returns one prediction per row of t. Columns other than the
// declared features, the target included, are ignored.
func (p *Predictor) Predict(t *data.Table) ([]float64, error) {
	if err := p.Schema.Check(t); err != nil {
		return nil, errs.InStage(err, errs.StagePredict, errs.KindConfiguration)
	}
	m, err := p.Preprocessor.Transform(t)
	if err != nil {
		return nil, errs.InStage(err, errs.StagePredict, errs.KindConfiguration)
	}
	if m.R == 0 {
		return []float64{}, nil
	}
	pred, err := p.Bundle.Model.Predict(m.Rows())
	if err != nil {
		return nil, errs.Wrap(errs.KindFit, err, "predict").WithCandidate(p.Bundle.Name).In(errs.StagePredict)
	}
	return pred, nil
}

// WithPredictions returns a copy of t with pred appended as column name.
func WithPredictions(t *data.Table, name string, pred []float64) (*data.Table, error) {
	if len(pred) != t.Len() {
		return nil, errs.Configuration("%d predictions for %d rows", len(pred), t.Len()).In(errs.StagePredict)
	}
	cols := append(append([]string(nil), t.Columns...), name)
	rows := make([][]string, t.Len())
	for i, row := range t.Rows {
		r := make([]string, len(t.Columns), len(cols))
		copy(r, row)
		rows[i] = append(r, strconv.FormatFloat(pred[i], 'f', -1, 64))
	}
	return &data.Table{Columns: cols, Rows: rows, Index: append([]int(nil), t.Index...)}, nil
}
