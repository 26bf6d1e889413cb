package cmd

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogOption is embedded in every command that runs the preview pipeline
type LogOption struct {
	LogLevel  string `default:"warn" enum:"debug,info,warn,error" env:"PARQUET_PREVIEW_LOG_LEVEL" help:"Log level (${enum})."`
	LogFormat string `default:"json" enum:"json,console" help:"Log encoding (${enum})."`
	LogFile   string `default:"stderr" help:"Log destination, a file path or stderr."`
}

// newLogger builds a logger from the options. Logs sent to stderr would draw
// over the interactive viewer, so those are discarded when interactive is set.
func (o LogOption) newLogger(interactive bool) (*zap.Logger, error) {
	if interactive && (o.LogFile == "" || o.LogFile == "stderr") {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = o.LogFormat
	if cfg.Encoding == "" {
		cfg.Encoding = "json"
	}
	if cfg.Encoding == "console" {
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	cfg.Sampling = nil
	cfg.DisableStacktrace = true

	dest := o.LogFile
	if dest == "" {
		dest = "stderr"
	}
	cfg.OutputPaths = []string{dest}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
