package config

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/model"
)

// Validate checks the configuration and returns the first problem found as a
// configuration error.
func (c *Config) Validate() error {
	if err := c.Columns.Validate(); err != nil {
		return err
	}
	if c.Data.Source == "" {
		return fail("data.source is required")
	}
	if !(c.Split.TestFraction > 0 && c.Split.TestFraction < 1) {
		return fail("split.test_fraction %v must be in (0, 1)", c.Split.TestFraction)
	}
	if c.Evaluation.Workers < 0 {
		return fail("evaluation.workers must be >= 0, got %d", c.Evaluation.Workers)
	}
	if len(c.Models) == 0 {
		return fail("models: at least one candidate is required")
	}
	names := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if names[m.Name] {
			return fail("models: duplicate candidate name").WithCandidate(m.Name)
		}
		names[m.Name] = true
		if err := model.Validate(m); err != nil {
			return errs.InStage(err, errs.StageConfig, errs.KindConfiguration)
		}
	}
	if c.Artifacts.PreprocessorPath == "" || c.Artifacts.ModelPath == "" {
		return fail("artifacts.preprocessor_path and artifacts.model_path are required")
	}
	if err := c.checkOutputPaths(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "logging.level").In(errs.StageConfig)
	}
	return nil
}

// checkOutputPaths rejects two outputs sharing a file, or an output
// overwriting the source table.
func (c *Config) checkOutputPaths() error {
	outputs := []struct{ key, path string }{
		{"data.raw_path", c.Data.RawPath},
		{"data.train_path", c.Data.TrainPath},
		{"data.test_path", c.Data.TestPath},
		{"artifacts.preprocessor_path", c.Artifacts.PreprocessorPath},
		{"artifacts.model_path", c.Artifacts.ModelPath},
		{"artifacts.report_path", c.Artifacts.ReportPath},
		{"artifacts.chart_path", c.Artifacts.ChartPath},
		{"artifacts.predictions_chart_path", c.Artifacts.PredictionsChartPath},
	}
	seen := map[string]string{filepath.Clean(c.Data.Source): "data.source"}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		p := filepath.Clean(o.path)
		if other, ok := seen[p]; ok {
			return fail("%s and %s both point at %q", other, o.key, o.path)
		}
		seen[p] = o.key
	}
	return nil
}

// Validate checks the column roles: a target, at least one feature, no column
// used twice and an ordering for every categorical column.
func (c Columns) Validate() error {
	if c.Target == "" {
		return fail("columns.target is required")
	}
	if len(c.Numerical)+len(c.Categorical) == 0 {
		return fail("columns: at least one numerical or categorical column is required")
	}
	seen := map[string]bool{c.Target: true}
	for _, col := range append(append([]string{}, c.Numerical...), c.Categorical...) {
		if col == "" {
			return fail("columns: empty column name")
		}
		if seen[col] {
			return fail("columns: column declared more than once").WithColumn(col)
		}
		seen[col] = true
	}
	for _, col := range c.Categorical {
		order, ok := c.Orderings[col]
		if !ok || len(order) == 0 {
			return fail("columns.orderings: categorical column has no ordering").WithColumn(col)
		}
		values := make(map[string]bool, len(order))
		for _, v := range order {
			if values[v] {
				return fail("columns.orderings: category %q listed twice", v).WithColumn(col)
			}
			values[v] = true
		}
	}
	return nil
}

// Features returns the feature columns in output order: numerical then
// categorical.
func (c Columns) Features() []string {
	out := make([]string, 0, len(c.Numerical)+len(c.Categorical))
	out = append(out, c.Numerical...)
	return append(out, c.Categorical...)
}

func fail(format string, args ...any) *errs.Error {
	return errs.Configuration(format, args...).In(errs.StageConfig)
}
