package stats

import (
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// VarianceMode selects how per-bin variances are estimated.
type VarianceMode int

const (
	// Direct uses the population variance of the bin's pair samples.
	Direct VarianceMode = iota
	// Bootstrap uses the variance of bootstrap resample means.
	Bootstrap
)

func (m VarianceMode) String() string {
	switch m {
	case Direct:
		return "direct"
	case Bootstrap:
		return "bootstrap"
	default:
		return "unknown"
	}
}

// ParseVarianceMode parses "direct" or "bootstrap".
func ParseVarianceMode(s string) (VarianceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct", "":
		return Direct, nil
	case "bootstrap":
		return Bootstrap, nil
	default:
		return Direct, errors.Wrapf(ErrInvalidParameter, "unknown variance mode %q", s)
	}
}

// Options configures the pair statistic estimators.
type Options struct {
	Variance     VarianceMode
	NumBootstrap int     // resamples per bin (bootstrap mode)
	ResampleSize int     // samples drawn per resample (bootstrap mode)
	Seed         *uint64 // nil uses the process-level random source
	Workers      int     // bins reduced concurrently; 0 means 1
	Logger       *zap.Logger
}

// DefaultOptions returns direct variance estimation on a single worker.
// The bootstrap sizes only apply once Variance is set to Bootstrap.
func DefaultOptions() *Options {
	return &Options{
		Variance:     Direct,
		NumBootstrap: 1000,
		ResampleSize: 500,
		Workers:      1,
	}
}

// WithSeed returns a copy of o using a fixed bootstrap seed.
func (o Options) WithSeed(seed uint64) *Options {
	o.Seed = &seed
	return &o
}

func (o *Options) validate() error {
	switch o.Variance {
	case Direct:
	case Bootstrap:
		if o.NumBootstrap < 1 {
			return errors.Wrapf(ErrInvalidParameter, "bootstrap count %d must be at least 1", o.NumBootstrap)
		}
		if o.ResampleSize < 1 {
			return errors.Wrapf(ErrInvalidParameter, "resample size %d must be at least 1", o.ResampleSize)
		}
	default:
		return errors.Wrapf(ErrInvalidParameter, "unknown variance mode %d", int(o.Variance))
	}
	if o.Workers < 0 {
		return errors.Wrapf(ErrInvalidParameter, "worker count %d must not be negative", o.Workers)
	}
	return nil
}

func (o *Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// binRand returns the random stream for bin k, or nil for the process-level
// source. Streams are keyed by bin so results do not depend on scheduling.
func (o *Options) binRand(k int) *rand.Rand {
	if o.Seed == nil {
		return nil
	}
	return rand.New(rand.NewPCG(*o.Seed, uint64(k)))
}
