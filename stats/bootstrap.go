package stats

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// BootstrapVariance draws numBootstrap resamples of resampleSize with
// replacement from samples and returns the population variance of their
// means. A single resample has no spread, so numBootstrap == 1 yields 0.
// A nil rng uses the process-level random source.
func BootstrapVariance(samples []float64, numBootstrap, resampleSize int, rng *rand.Rand) (float64, error) {
	if len(samples) == 0 {
		return 0, errors.Wrap(ErrInvalidParameter, "no samples to resample")
	}
	if numBootstrap < 1 {
		return 0, errors.Wrapf(ErrInvalidParameter, "bootstrap count %d must be at least 1", numBootstrap)
	}
	if resampleSize < 1 {
		return 0, errors.Wrapf(ErrInvalidParameter, "resample size %d must be at least 1", resampleSize)
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	means := make([]float64, numBootstrap)
	resample := make([]float64, resampleSize)
	for b := range means {
		for i := range resample {
			resample[i] = samples[intN(len(samples))]
		}
		means[b] = stat.Mean(resample, nil)
	}

	if numBootstrap == 1 {
		return 0, nil
	}
	_, variance := stat.PopMeanVariance(means, nil)
	return variance, nil
}
