// Package config loads the pipeline configuration: a YAML file, an optional
// .env file and REGSELECT_* environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/logging"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/model"
)

// Config represents the pipeline configuration.
type Config struct {
	Data       DataConfig        `yaml:"data"`
	Columns    Columns           `yaml:"columns"`
	Split      SplitConfig       `yaml:"split"`
	Evaluation EvaluationConfig  `yaml:"evaluation"`
	Models     []model.Candidate `yaml:"models"`
	Artifacts  ArtifactsConfig   `yaml:"artifacts"`
	Logging    logging.Config    `yaml:"logging"`
}

// DataConfig locates the source table and the intermediate copies.
type DataConfig struct {
	Source    string `yaml:"source"`     // input CSV with a header row
	RawPath   string `yaml:"raw_path"`   // copy of the ingested table
	TrainPath string `yaml:"train_path"` // training split
	TestPath  string `yaml:"test_path"`  // test split
}

// Columns declares the roles of the table's columns.
type Columns struct {
	Numerical   []string            `yaml:"numerical"`
	Categorical []string            `yaml:"categorical"`
	Orderings   map[string][]string `yaml:"orderings"` // categorical column -> ordered legal values
	Target      string              `yaml:"target"`
}

// SplitConfig holds the train/test partition settings.
type SplitConfig struct {
	TestFraction float64 `yaml:"test_fraction"`
	Seed         int64   `yaml:"seed"`
}

// EvaluationConfig controls candidate evaluation.
type EvaluationConfig struct {
	Workers  int  `yaml:"workers"`   // 1 = sequential, 0 = one per CPU
	FailFast bool `yaml:"fail_fast"` // abort on the first candidate failure
}

// ArtifactsConfig locates the persisted outputs.
type ArtifactsConfig struct {
	PreprocessorPath     string `yaml:"preprocessor_path"`
	ModelPath            string `yaml:"model_path"`
	ReportPath           string `yaml:"report_path"`
	ChartPath            string `yaml:"chart_path"`
	PredictionsChartPath string `yaml:"predictions_chart_path"`
}

// Environment variables read by ApplyEnvOverrides.
const (
	EnvSource       = "REGSELECT_SOURCE"
	EnvSeed         = "REGSELECT_SEED"
	EnvTestFraction = "REGSELECT_TEST_FRACTION"
	EnvArtifactDir  = "REGSELECT_ARTIFACT_DIR"
	EnvLogLevel     = "REGSELECT_LOG_LEVEL"
	EnvWorkers      = "REGSELECT_WORKERS"
)

// DefaultColumns describes the diamonds dataset.
func DefaultColumns() Columns {
	return Columns{
		Numerical:   []string{"carat", "depth", "table", "x", "y", "z"},
		Categorical: []string{"cut", "color", "clarity"},
		Orderings: map[string][]string{
			"cut":     {"Fair", "Good", "Very Good", "Premium", "Ideal"},
			"color":   {"D", "E", "F", "G", "H", "I", "J"},
			"clarity": {"I1", "SI2", "SI1", "VS2", "VS1", "VVS2", "VVS1", "IF"},
		},
		Target: "price",
	}
}

// DefaultModels is the candidate catalog, in evaluation order.
func DefaultModels() []model.Candidate {
	return []model.Candidate{
		{Name: "LinearRegression", Algorithm: model.AlgLinear},
		{Name: "Lasso", Algorithm: model.AlgLasso},
		{Name: "Ridge", Algorithm: model.AlgRidge},
		{Name: "ElasticNet", Algorithm: model.AlgElasticNet},
		{Name: "DecisionTree", Algorithm: model.AlgDecisionTree},
		{Name: "RandomForest", Algorithm: model.AlgRandomForest},
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Source:    filepath.Join("notebooks", "data", "diamonds.csv"),
			RawPath:   filepath.Join("artifacts", "raw.csv"),
			TrainPath: filepath.Join("artifacts", "train.csv"),
			TestPath:  filepath.Join("artifacts", "test.csv"),
		},
		Columns: DefaultColumns(),
		Split: SplitConfig{
			TestFraction: 0.3,
			Seed:         42,
		},
		Evaluation: EvaluationConfig{Workers: 1},
		Models:     DefaultModels(),
		Artifacts: ArtifactsConfig{
			PreprocessorPath:     filepath.Join("artifacts", "preprocessor.bin"),
			ModelPath:            filepath.Join("artifacts", "model.bin"),
			ReportPath:           filepath.Join("artifacts", "scores.csv"),
			ChartPath:            filepath.Join("artifacts", "scores.png"),
			PredictionsChartPath: filepath.Join("artifacts", "predictions.png"),
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads path on top of the defaults, applies .env and environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.IO(err, path, "read config file").In(errs.StageConfig)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.Wrap(errs.KindConfiguration, err, "parse config file").WithPath(path).In(errs.StageConfig)
		}
	}

	// a missing .env is the normal case
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errs.Wrap(errs.KindConfiguration, err, "load .env").In(errs.StageConfig)
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies REGSELECT_* variables. REGSELECT_ARTIFACT_DIR
// moves every artifact and intermediate file into that directory, keeping
// file names.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv(EnvSource); v != "" {
		c.Data.Source = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return envError(EnvSeed, v, err)
		}
		c.Split.Seed = seed
	}
	if v := os.Getenv(EnvTestFraction); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError(EnvTestFraction, v, err)
		}
		c.Split.TestFraction = f
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvWorkers, v, err)
		}
		c.Evaluation.Workers = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvArtifactDir); v != "" {
		c.Reroot(v)
	}
	return nil
}

// Reroot moves every output path into dir.
func (c *Config) Reroot(dir string) {
	for _, p := range []*string{
		&c.Data.RawPath,
		&c.Data.TrainPath,
		&c.Data.TestPath,
		&c.Artifacts.PreprocessorPath,
		&c.Artifacts.ModelPath,
		&c.Artifacts.ReportPath,
		&c.Artifacts.ChartPath,
		&c.Artifacts.PredictionsChartPath,
	} {
		if *p != "" {
			*p = filepath.Join(dir, filepath.Base(*p))
		}
	}
}

func envError(key, value string, err error) error {
	return errs.Wrap(errs.KindConfiguration, err, "invalid %s=%q", key, value).In(errs.StageConfig)
}

// YAML returns the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveToFile writes the configuration as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errs.IO(err, path, "create config directory")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errs.IO(err, path, "write config file")
	}
	return nil
}
