// Package logging builds the process logger. Components receive *zap.Logger
// through their constructors; nothing in the pipeline reads logger globals.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options control console output of the process logger.
type Options struct {
	Level      string // "debug", "info", "warn", "error"
	Color      bool   // colorize level names
	Timestamps bool   // include ISO8601 timestamps
}

// New builds a console zap logger from explicit options.
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	if opts.Color {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if opts.Timestamps {
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		encoderCfg.TimeKey = zapcore.OmitKey
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
