package logging

import (
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	if cfg.Level.Level() != zap.InfoLevel {
		t.Errorf("Expected info level, got %v", cfg.Level.Level())
	}
	if cfg.Encoding != "console" {
		t.Errorf("Expected console encoding, got %s", cfg.Encoding)
	}
	if !cfg.DisableStacktrace {
		t.Error("Expected stacktraces to be disabled")
	}
}

func TestConfigure(t *testing.T) {
	tests := []struct {
		level, encoding string
		wantLevel       zapcore.Level
		wantEncoding    string
		ok              bool
	}{
		{"", "", zap.InfoLevel, "console", true},
		{"debug", "json", zap.DebugLevel, "json", true},
		{"WARN", "console", zap.WarnLevel, "console", true},
		{"loud", "console", zap.InfoLevel, "console", false},
		{"info", "xml", zap.InfoLevel, "console", false},
	}
	for _, tt := range tests {
		cfg := NewConfig()
		err := Configure(&cfg, tt.level, tt.encoding)
		if (err == nil) != tt.ok {
			t.Errorf("Configure(%q, %q): unexpected error %v", tt.level, tt.encoding, err)
			continue
		}
		if !tt.ok {
			continue
		}
		if cfg.Level.Level() != tt.wantLevel {
			t.Errorf("Configure(%q, %q): level %v, want %v", tt.level, tt.encoding, cfg.Level.Level(), tt.wantLevel)
		}
		if cfg.Encoding != tt.wantEncoding {
			t.Errorf("Configure(%q, %q): encoding %s, want %s", tt.level, tt.encoding, cfg.Encoding, tt.wantEncoding)
		}
	}
}

func TestNewUnknownEncoding(t *testing.T) {
	if _, err := New("info", "xml"); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("Expected ErrUnknownEncoding, got %v", err)
	}
}

func TestNew(t *testing.T) {
	logger, err := New("error", "json")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.Core().Enabled(zap.WarnLevel) {
		t.Error("Expected warn to be disabled at error level")
	}
	if !logger.Core().Enabled(zap.ErrorLevel) {
		t.Error("Expected error level to be enabled")
	}
}

func TestNewTest(t *testing.T) {
	logger := NewTest(t)
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Error("Expected test logger to enable debug")
	}
	logger.Debug("test logger works", zap.Int("n", 1))
}
