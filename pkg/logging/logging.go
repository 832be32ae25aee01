// Package logging builds the logrus logger shared by the pipeline.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config represents logging configuration
type Config struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text or json
	Output     string `yaml:"output"` // stdout, stderr or file
	LogDir     string `yaml:"log_dir"`
	FileName   string `yaml:"file_name"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
	Compress   bool   `yaml:"compress"`
}

// DefaultConfig logs text at info level to stderr.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "text",
		Output:     "stderr",
		LogDir:     "logs",
		FileName:   "regselect.log",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// New creates a logger from config.
func New(config Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	switch strings.ToLower(config.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	default:
		return nil, fmt.Errorf("invalid log format %q", config.Format)
	}

	out, err := output(config)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(out)
	return logger, nil
}

// output resolves the log destination. File output is rotated by lumberjack
// and mirrored to stderr at debug level.
func output(config Config) (io.Writer, error) {
	switch strings.ToLower(config.Output) {
	case "stdout":
		return os.Stdout, nil
	case "stderr", "":
		return os.Stderr, nil
	case "file":
		dir := config.LogDir
		if dir == "" {
			dir = "logs"
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		name := config.FileName
		if name == "" {
			name = "regselect.log"
		}
		writer := &lumberjack.Logger{
			Filename:   filepath.Join(dir, name),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		}
		if strings.EqualFold(config.Level, "debug") {
			return io.MultiWriter(writer, os.Stderr), nil
		}
		return writer, nil
	default:
		return nil, fmt.Errorf("invalid log output %q", config.Output)
	}
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
