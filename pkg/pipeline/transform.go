package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/artifact"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/config"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/core"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/data"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/dataprep"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
)

// Applier fits the preprocessor once on the training split, transforms both
// splits with it and persists it.
type Applier struct {
	Columns      config.Columns
	ArtifactPath string
	RunID        string
	Log          logrus.FieldLogger
}

// Initiate returns the transformed train and test matrices, each with the
// target appended as its last column, and the path the fitted preprocessor
// was written to. The test split never influences a fitted statistic.
func (a *Applier) Initiate(train, test *data.Table) (*core.Matrix, *core.Matrix, string, error) {
	trainM, testM, pre, err := a.transform(train, test)
	if err != nil {
		return nil, nil, "", errs.InStage(err, errs.StageTransform, errs.KindConfiguration)
	}

	h := artifact.Header{Kind: artifact.KindPreprocessor, RunID: a.RunID, Columns: pre.Features()}
	if err := artifact.Save(a.ArtifactPath, h, pre); err != nil {
		return nil, nil, "", errs.InStage(err, errs.StagePersist, errs.KindIO)
	}
	a.log().WithFields(logrus.Fields{
		"stage":    errs.StageTransform,
		"path":     a.ArtifactPath,
		"features": len(h.Columns),
	}).Info("preprocessor saved")
	return trainM, testM, a.ArtifactPath, nil
}

func (a *Applier) transform(train, test *data.Table) (*core.Matrix, *core.Matrix, *Preprocessor, error) {
	yTrain, err := target(train, a.Columns.Target)
	if err != nil {
		return nil, nil, nil, err
	}
	yTest, err := target(test, a.Columns.Target)
	if err != nil {
		return nil, nil, nil, err
	}

	pre, err := NewPreprocessor(a.Columns)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pre.Fit(train); err != nil {
		return nil, nil, nil, err
	}
	trainX, err := pre.Transform(train)
	if err != nil {
		return nil, nil, nil, err
	}
	testX, err := pre.Transform(test)
	if err != nil {
		return nil, nil, nil, err
	}

	trainM, err := trainX.AppendColumn(a.Columns.Target, yTrain)
	if err != nil {
		return nil, nil, nil, err
	}
	testM, err := testX.AppendColumn(a.Columns.Target, yTest)
	if err != nil {
		return nil, nil, nil, err
	}
	a.log().WithFields(logrus.Fields{
		"stage": errs.StageTransform,
		"train": trainM.R,
		"test":  testM.R,
		"cols":  trainM.C,
	}).Debug("splits transformed")
	return trainM, testM, pre, nil
}

func (a *Applier) log() logrus.FieldLogger {
	if a.Log == nil {
		return logrus.StandardLogger()
	}
	return a.Log
}

func target(t *data.Table, column string) ([]float64, error) {
	cells, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	return dataprep.ParseTarget(cells, column)
}
