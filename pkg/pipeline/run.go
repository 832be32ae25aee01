package pipeline

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/artifact"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/config"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/data"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/loader"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/report"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/train"
)

// State is the position of a run in its stage sequence.
type State string

const (
	StatePending     State = "pending"
	StateIngested    State = "ingested"
	StateSplit       State = "split"
	StateTransformed State = "transformed"
	StateEvaluated   State = "evaluated"
	StateSelected    State = "selected"
	StatePersisted   State = "persisted"
	StateFailed      State = "failed"
)

// RunResult summarises a run. On failure it holds whatever was reached.
type RunResult struct {
	RunID            string
	State            State
	Rows             int
	TrainRows        int
	TestRows         int
	PreprocessorPath string
	ModelPath        string
	Report           *train.ScoreReport
	Best             train.Score
}

// Runner wires ingestion, split, transform, evaluation and selection into a
// single linear run. Stages are not retried; the first failure ends the run.
type Runner struct {
	Config *config.Config
	Log    logrus.FieldLogger

	// Input replaces reading Config.Data.Source when set.
	Input *data.Table
}

// Run executes every stage in order. The returned error carries the stage it
// failed in.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	cfg := r.Config
	res := &RunResult{RunID: artifact.NewRunID(), State: StatePending}
	log := r.log().WithField("run", res.RunID)

	fail := func(err error, stage errs.Stage, fallback errs.Kind) (*RunResult, error) {
		err = errs.InStage(err, stage, fallback)
		log.WithError(err).WithFields(logrus.Fields{"stage": errs.StageOf(err), "state": res.State}).Error("run failed")
		res.State = StateFailed
		return res, err
	}
	advance := func(s State, fields logrus.Fields) {
		res.State = s
		log.WithFields(fields).WithField("state", s).Info("stage complete")
	}

	if err := cfg.Validate(); err != nil {
		return fail(err, errs.StageConfig, errs.KindConfiguration)
	}

	// ingest
	table := r.Input
	if table == nil {
		var err error
		if table, err = data.ReadCSV(cfg.Data.Source); err != nil {
			return fail(err, errs.StageIngest, errs.KindIO)
		}
	}
	if err := checkColumns(table, cfg.Columns); err != nil {
		return fail(err, errs.StageIngest, errs.KindConfiguration)
	}
	if cfg.Data.RawPath != "" {
		if err := data.WriteCSV(cfg.Data.RawPath, table); err != nil {
			return fail(err, errs.StageIngest, errs.KindIO)
		}
	}
	res.Rows = table.Len()
	advance(StateIngested, logrus.Fields{"rows": res.Rows, "source": cfg.Data.Source})

	// split
	if err := ctx.Err(); err != nil {
		return fail(err, errs.StageSplit, errs.KindUnknown)
	}
	trainT, testT, err := loader.Split(table, cfg.Split.TestFraction, cfg.Split.Seed)
	if err != nil {
		return fail(err, errs.StageSplit, errs.KindConfiguration)
	}
	for _, out := range []struct {
		path string
		t    *data.Table
	}{{cfg.Data.TrainPath, trainT}, {cfg.Data.TestPath, testT}} {
		if out.path == "" {
			continue
		}
		if err := data.WriteCSV(out.path, out.t); err != nil {
			return fail(err, errs.StageSplit, errs.KindIO)
		}
	}
	res.TrainRows, res.TestRows = trainT.Len(), testT.Len()
	advance(StateSplit, logrus.Fields{"train": res.TrainRows, "test": res.TestRows, "seed": cfg.Split.Seed})

	// transform
	if err := ctx.Err(); err != nil {
		return fail(err, errs.StageTransform, errs.KindUnknown)
	}
	applier := &Applier{
		Columns:      cfg.Columns,
		ArtifactPath: cfg.Artifacts.PreprocessorPath,
		RunID:        res.RunID,
		Log:          log,
	}
	trainM, testM, prePath, err := applier.Initiate(trainT, testT)
	if err != nil {
		return fail(err, errs.StageTransform, errs.KindConfiguration)
	}
	res.PreprocessorPath = prePath
	advance(StateTransformed, logrus.Fields{"features": trainM.C - 1, "path": prePath})

	// evaluate
	evaluator := &train.Evaluator{
		Candidates: cfg.Models,
		Seed:       cfg.Split.Seed,
		Workers:    cfg.Evaluation.Workers,
		FailFast:   cfg.Evaluation.FailFast,
		Log:        log,
	}
	ev, err := evaluator.Evaluate(ctx, trainM, testM)
	if err != nil {
		return fail(err, errs.StageEvaluate, errs.KindFit)
	}
	res.Report = ev.Report
	advance(StateEvaluated, logrus.Fields{"scored": ev.Report.Len(), "failed": len(ev.Report.Failures())})

	// select
	selector := &train.Selector{
		Candidates: cfg.Models,
		Columns:    trainM.Columns[:trainM.C-1],
		RunID:      res.RunID,
		Log:        log,
	}
	best, err := selector.Select(ev.Report)
	if err != nil {
		r.writeReports(log, ev, "")
		return fail(err, errs.StageSelect, errs.KindSelection)
	}
	res.Best = best
	advance(StateSelected, logrus.Fields{"model": best.Name, "r2": best.R2})

	// persist
	sel, err := selector.Persist(best, ev.Models, cfg.Artifacts.ModelPath)
	if err != nil {
		return fail(err, errs.StagePersist, errs.KindIO)
	}
	res.ModelPath = sel.Path
	advance(StatePersisted, logrus.Fields{"path": sel.Path})

	r.writeReports(log, ev, best.Name)
	return res, nil
}

// writeReports writes the score CSV and charts. The required artifacts are
// already on disk, so failures here are only logged.
func (r *Runner) writeReports(log logrus.FieldLogger, ev *train.Evaluation, best string) {
	a := r.Config.Artifacts
	if a.ReportPath != "" {
		if err := report.WriteScores(a.ReportPath, report.Rows(ev.Report, best)); err != nil {
			log.WithError(err).Warn("score report not written")
		}
	}
	if a.ChartPath != "" && ev.Report.Len() > 0 {
		if err := report.PlotScores(a.ChartPath, ev.Report); err != nil {
			log.WithError(err).Warn("score chart not written")
		}
	}
	if a.PredictionsChartPath != "" && best != "" {
		if err := report.PlotPredictions(a.PredictionsChartPath, ev.YTest, ev.Predictions[best]); err != nil {
			log.WithError(err).Warn("prediction chart not written")
		}
	}
}

func (r *Runner) log() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

// checkColumns fails fast when a declared column is absent from the table.
func checkColumns(t *data.Table, cols config.Columns) error {
	for _, name := range append(cols.Features(), cols.Target) {
		if _, ok := t.ColumnIndex(name); !ok {
			return errs.Configuration("declared column is missing from the input").WithColumn(name)
		}
	}
	if t.Len() == 0 {
		return errs.Configuration("input table has no rows")
	}
	return nil
}
