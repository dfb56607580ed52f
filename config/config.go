// Package config loads the analysis settings from YAML files with
// environment-variable overrides.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/wavecorr/binning"
	"github.com/sartorproj/wavecorr/stats"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the top-level analysis configuration.
type Config struct {
	Binning    BinningConfig  `yaml:"binning"`
	Variance   VarianceConfig `yaml:"variance"`
	Temporal   TemporalConfig `yaml:"temporal"`
	Fit        FitConfig      `yaml:"fit"`
	PixelScale float64        `yaml:"pixelScale"`
	Workers    int            `yaml:"workers"`
	Logging    LoggingConfig  `yaml:"logging"`
}

// BinningConfig holds the spatial separation bins.
type BinningConfig struct {
	NBins  int     `yaml:"nbins"`
	MinSep float64 `yaml:"minSep"`
	MaxSep float64 `yaml:"maxSep"`
}

// VarianceConfig selects the per-bin variance estimate.
type VarianceConfig struct {
	Mode         string  `yaml:"mode"`
	NumBootstrap int     `yaml:"numBootstrap"`
	ResampleSize int     `yaml:"resampleSize"`
	Seed         *uint64 `yaml:"seed"`
}

// TemporalConfig holds the lag bins of the temporal statistics.
type TemporalConfig struct {
	MaxLag float64 `yaml:"maxLag"`
	NBins  int     `yaml:"nbins"`
}

// FitConfig controls the power-law fit.
type FitConfig struct {
	NumPoints int `yaml:"numPoints"`
}

// LoggingConfig controls log level and encoding.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Load reads a YAML config file (if provided) over the defaults and applies
// WAVECORR_* environment overrides. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config file %s", path)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the settings used for AO telemetry: 15 bins over
// [1, 40] pixels and a 7.77 m pupil imaged on 43 pixels.
func Default() *Config {
	return &Config{
		Binning: BinningConfig{
			NBins:  15,
			MinSep: 1,
			MaxSep: 40,
		},
		Variance: VarianceConfig{
			Mode:         "direct",
			NumBootstrap: 1000,
			ResampleSize: 500,
		},
		Temporal: TemporalConfig{
			MaxLag: 51,
			NBins:  50,
		},
		Fit: FitConfig{
			NumPoints: 10,
		},
		PixelScale: 7.77 / 43,
		Workers:    1,
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// applyEnvOverrides reads WAVECORR_* environment variables and overrides
// the corresponding fields.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("WAVECORR_VARIANCE_MODE"); v != "" {
		cfg.Variance.Mode = v
	}
	if v := os.Getenv("WAVECORR_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WAVECORR_LOGGING_ENCODING"); v != "" {
		cfg.Logging.Encoding = v
	}
	return multierr.Combine(
		envInt("WAVECORR_BINNING_NBINS", &cfg.Binning.NBins),
		envFloat("WAVECORR_BINNING_MIN_SEP", &cfg.Binning.MinSep),
		envFloat("WAVECORR_BINNING_MAX_SEP", &cfg.Binning.MaxSep),
		envInt("WAVECORR_VARIANCE_NUM_BOOTSTRAP", &cfg.Variance.NumBootstrap),
		envInt("WAVECORR_VARIANCE_RESAMPLE_SIZE", &cfg.Variance.ResampleSize),
		envSeed("WAVECORR_VARIANCE_SEED", &cfg.Variance.Seed),
		envFloat("WAVECORR_TEMPORAL_MAX_LAG", &cfg.Temporal.MaxLag),
		envInt("WAVECORR_TEMPORAL_NBINS", &cfg.Temporal.NBins),
		envInt("WAVECORR_FIT_NUM_POINTS", &cfg.Fit.NumPoints),
		envFloat("WAVECORR_PIXEL_SCALE", &cfg.PixelScale),
		envInt("WAVECORR_WORKERS", &cfg.Workers),
	)
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return errors.Wrapf(err, "%s", key)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return errors.Wrapf(err, "%s", key)
	}
	*dst = x
	return nil
}

func envSeed(key string, dst **uint64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return errors.Wrapf(err, "%s", key)
	}
	*dst = &n
	return nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			err = multierr.Append(err, errors.Wrapf(ErrInvalid, format, args...))
		}
	}

	if _, berr := c.Bins(); berr != nil {
		err = multierr.Append(err, errors.Wrap(ErrInvalid, berr.Error()))
	}
	if _, merr := stats.ParseVarianceMode(c.Variance.Mode); merr != nil {
		err = multierr.Append(err, errors.Wrapf(ErrInvalid, "variance.mode %q", c.Variance.Mode))
	}
	check(c.Variance.NumBootstrap >= 1, "variance.numBootstrap %d must be at least 1", c.Variance.NumBootstrap)
	check(c.Variance.ResampleSize >= 1, "variance.resampleSize %d must be at least 1", c.Variance.ResampleSize)
	if _, lerr := binning.Lags(c.Temporal.MaxLag, c.Temporal.NBins); lerr != nil {
		err = multierr.Append(err, errors.Wrap(ErrInvalid, lerr.Error()))
	}
	check(c.Fit.NumPoints >= 3, "fit.numPoints %d must be at least 3", c.Fit.NumPoints)
	// AverageXi yields nbins entries plus the zero lag.
	check(c.Fit.NumPoints <= c.Binning.NBins+1, "fit.numPoints %d exceeds %d available entries", c.Fit.NumPoints, c.Binning.NBins+1)
	check(c.PixelScale > 0, "pixelScale %v must be positive", c.PixelScale)
	check(c.Workers >= 0, "workers %d must not be negative", c.Workers)
	if _, lerr := zapcore.ParseLevel(c.Logging.Level); lerr != nil {
		err = multierr.Append(err, errors.Wrapf(ErrInvalid, "logging.level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Encoding) {
	case "console", "json":
	default:
		err = multierr.Append(err, errors.Wrapf(ErrInvalid, "logging.encoding %q", c.Logging.Encoding))
	}
	return err
}

// Bins returns the spatial separation bins.
func (c *Config) Bins() ([]binning.Bin, error) {
	return binning.Linear(c.Binning.MinSep, c.Binning.MaxSep, c.Binning.NBins)
}

// Options returns the estimator options for this configuration.
func (c *Config) Options(logger *zap.Logger) (*stats.Options, error) {
	mode, err := stats.ParseVarianceMode(c.Variance.Mode)
	if err != nil {
		return nil, err
	}
	opts := stats.DefaultOptions()
	opts.Variance = mode
	opts.NumBootstrap = c.Variance.NumBootstrap
	opts.ResampleSize = c.Variance.ResampleSize
	opts.Workers = c.Workers
	opts.Logger = logger
	if c.Variance.Seed != nil {
		seed := *c.Variance.Seed
		opts.Seed = &seed
	}
	return opts, nil
}
