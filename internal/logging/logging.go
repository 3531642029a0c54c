// Package logging builds the zap loggers used by the command line tools.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// New returns a logger writing to stderr at the given level ("debug",
// "info", "warn", "error") with json or console encoding.
func New(level, encoding string) (*zap.Logger, error) {
	config, err := Config(level, encoding)
	if err != nil {
		return nil, err
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// Config returns the zap configuration New builds from.
func Config(level, encoding string) (zap.Config, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	switch encoding {
	case EncodingJSON:
	case EncodingConsole:
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return zap.Config{}, fmt.Errorf("invalid log encoding %q: want %s or %s", encoding, EncodingJSON, EncodingConsole)
	}

	return zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}, nil
}
