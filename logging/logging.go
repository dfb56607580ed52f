// Package logging builds the zap loggers used by the command line tools.
package logging

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// ErrUnknownEncoding is returned for encodings other than console and json.
var ErrUnknownEncoding = errors.New("unknown log encoding")

// NewConfig returns the default logger config: info level, console
// encoding, ISO8601 timestamps and no stacktraces.
func NewConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// Configure applies a level name and an encoding ("console" or "json") to
// cfg. Empty strings keep the current settings.
func Configure(cfg *zap.Config, level, encoding string) error {
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return errors.Wrapf(err, "log level %q", level)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	switch strings.ToLower(encoding) {
	case "":
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "json":
		cfg.Encoding = "json"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return errors.Wrapf(ErrUnknownEncoding, "%q", encoding)
	}
	return nil
}

// New builds a logger at the given level and encoding.
func New(level, encoding string) (*zap.Logger, error) {
	cfg := NewConfig()
	if err := Configure(&cfg, level, encoding); err != nil {
		return nil, err
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}

// NewTest returns a debug level logger that writes through tb.
func NewTest(tb testing.TB) *zap.Logger {
	return zaptest.NewLogger(tb, zaptest.Level(zap.DebugLevel))
}
