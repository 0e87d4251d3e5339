package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger      *zap.SugaredLogger
	AtomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() {
	level := StringEnv("LOG_LEVEL", "INFO")
	parsed, err := zap.ParseAtomicLevel(level)
	if err == nil {
		AtomicLevel.SetLevel(parsed.Level())
	} else {
		log.Printf("failed to parse log level %q, fallback to INFO: %v", level, err)
	}
	logger, err := newLogger(AtomicLevel)
	if err != nil {
		panic(errors.Wrap(err, "failed to initialize logger"))
	}
	Logger = logger.Named("plots").Sugar()
}

// newLogger keeps stdout free for the console report; everything goes to stderr.
func newLogger(level zap.AtomicLevel) (*zap.Logger, error) {
	config := zap.Config{
		Level:       level,
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "M",
			LevelKey:       "L",
			TimeKey:        "T",
			NameKey:        "N",
			CallerKey:      zapcore.OmitKey,
			FunctionKey:    zapcore.OmitKey,
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if _, ok := os.LookupEnv("LOG_JSON"); ok {
		config.Encoding = "json"
	}
	return config.Build()
}
