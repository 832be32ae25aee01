package train

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/core"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/model"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/stats"
)

// Evaluator fits every candidate on the training matrix and scores it on the
// test matrix. The last column of each matrix is the target.
type Evaluator struct {
	Candidates []model.Candidate
	Seed       int64 // default random_state for randomized candidates
	Workers    int   // 1 = sequential, 0 = one per CPU
	FailFast   bool  // return the first candidate failure instead of skipping it
	Log        logrus.FieldLogger

	// Build constructs a candidate's regressor. Defaults to model.New.
	Build func(c model.Candidate, seed int64) (model.Regressor, error)
}

// Evaluation is the outcome of Evaluate.
type Evaluation struct {
	Report      *ScoreReport
	Models      map[string]model.Regressor // fitted models of scored candidates
	Predictions map[string][]float64       // test predictions of scored candidates
	YTest       []float64
}

type outcome struct {
	model model.Regressor
	pred  []float64
	r2    float64
	err   error
}

// Evaluate runs every candidate. A failing candidate is logged and left out
// of the report unless FailFast is set. Results are assembled in catalog order
// whatever the worker count.
func (e *Evaluator) Evaluate(ctx context.Context, train, test *core.Matrix) (*Evaluation, error) {
	if len(e.Candidates) == 0 {
		return nil, errs.Configuration("no model candidates").In(errs.StageEvaluate)
	}
	if train.C != test.C || (train.Columns != nil && test.Columns != nil && !slices.Equal(train.Columns, test.Columns)) {
		return nil, errs.Configuration("train has columns %v, test has %v", train.Columns, test.Columns).In(errs.StageEvaluate)
	}
	Xtr, ytr, err := train.SplitXY()
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err, "train matrix").In(errs.StageEvaluate)
	}
	Xte, yte, err := test.SplitXY()
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err, "test matrix").In(errs.StageEvaluate)
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(e.Candidates))

	results := make([]outcome, len(e.Candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range e.Candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.evaluateOne(c, Xtr, ytr, Xte, yte)
			if results[i].err != nil && e.FailFast {
				return results[i].err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, errs.Wrap(errs.KindUnknown, err, "evaluation interrupted").In(errs.StageEvaluate)
		}
		return nil, errs.InStage(err, errs.StageEvaluate, errs.KindFit)
	}

	ev := &Evaluation{
		Report:      NewScoreReport(),
		Models:      make(map[string]model.Regressor),
		Predictions: make(map[string][]float64),
		YTest:       yte,
	}
	for i, c := range e.Candidates {
		res := results[i]
		if res.err != nil {
			ev.Report.Fail(c.Name, res.err)
			continue
		}
		if err := ev.Report.Add(c.Name, res.r2); err != nil {
			return nil, errs.Wrap(errs.KindConfiguration, err, "assemble report").In(errs.StageEvaluate)
		}
		ev.Models[c.Name] = res.model
		ev.Predictions[c.Name] = res.pred
	}
	return ev, nil
}

// evaluateOne never panics: a panic inside a candidate becomes its fit error.
func (e *Evaluator) evaluateOne(c model.Candidate, Xtr [][]float64, ytr []float64, Xte [][]float64, yte []float64) (res outcome) {
	log := e.log().WithFields(logrus.Fields{"stage": errs.StageEvaluate, "model": c.Name})
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = outcome{err: errs.Fit(c.Name, fmt.Errorf("panic: %v", r), "candidate panicked").In(errs.StageEvaluate)}
		}
		if res.err != nil {
			log.WithError(res.err).Warn("candidate failed")
			return
		}
		log.WithFields(logrus.Fields{
			"r2":      res.r2,
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Info("candidate scored")
	}()

	build := e.Build
	if build == nil {
		build = model.New
	}
	m, err := build(c, e.Seed)
	if err != nil {
		return outcome{err: errs.Fit(c.Name, err, "build").In(errs.StageEvaluate)}
	}
	if err := m.Fit(Xtr, ytr); err != nil {
		return outcome{err: errs.Fit(c.Name, err, "fit").In(errs.StageEvaluate)}
	}
	pred, err := m.Predict(Xte)
	if err != nil {
		return outcome{err: errs.Fit(c.Name, err, "predict").In(errs.StageEvaluate)}
	}
	if len(pred) != len(yte) {
		return outcome{err: errs.Fit(c.Name, nil, "%d predictions for %d test rows", len(pred), len(yte)).In(errs.StageEvaluate)}
	}
	if !stats.IsFinite(pred) {
		return outcome{err: errs.Fit(c.Name, nil, "predictions are not finite").In(errs.StageEvaluate)}
	}
	return outcome{model: m, pred: pred, r2: model.R2(yte, pred)}
}

func (e *Evaluator) log() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}
