package stats

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/wavecorr/binning"
	"github.com/sartorproj/wavecorr/neighbor"
)

// Pairing maps the values of a point pair to one sample.
type Pairing func(vi, vj float64) float64

// Product is the correlation pairing.
func Product(vi, vj float64) float64 {
	return vi * vj
}

// SquaredDifference is the structure-function pairing.
func SquaredDifference(vi, vj float64) float64 {
	d := vi - vj
	return d * d
}

// Result holds a per-bin statistic.
type Result struct {
	R        []float64 // bin midpoints
	Stat     []float64 // mean pair sample, NaN for empty bins
	Var      []float64 // variance estimate, NaN for empty bins
	NPairs   []int     // ordered pairs contributing to each bin
	Warnings []EmptyBinWarning
}

// Estimate reduces pair samples per bin. Every point i contributes
// pair(v_i, v_j) for each j in its shell, so an unordered pair appears once
// from each side.
func Estimate(idx neighbor.Index, values []float64, bins []binning.Bin, pair Pairing, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, errors.Wrap(ErrInvalidParameter, "nil pairing function")
	}
	if idx == nil {
		return nil, errors.Wrap(ErrInvalidParameter, "nil index")
	}
	if len(values) < 2 {
		return nil, errors.Wrapf(ErrEmptyCatalog, "%d points", len(values))
	}
	if idx.Len() != len(values) {
		return nil, errors.Wrapf(ErrInvalidParameter, "index has %d points but %d values", idx.Len(), len(values))
	}
	if len(bins) == 0 {
		return nil, errors.Wrap(ErrInvalidParameter, "no bins")
	}

	log := opts.logger()
	n := len(bins)
	res := &Result{
		R:      binning.Mids(bins),
		Stat:   make([]float64, n),
		Var:    make([]float64, n),
		NPairs: make([]int, n),
	}

	var g errgroup.Group
	g.SetLimit(opts.workers())
	for k, b := range bins {
		g.Go(func() error {
			samples := shellSamples(idx, values, b, pair)
			res.NPairs[k] = len(samples)
			if len(samples) == 0 {
				res.Stat[k] = math.NaN()
				res.Var[k] = math.NaN()
				return nil
			}

			mean, variance := stat.PopMeanVariance(samples, nil)
			if opts.Variance == Bootstrap {
				var err error
				variance, err = BootstrapVariance(samples, opts.NumBootstrap, opts.ResampleSize, opts.binRand(k))
				if err != nil {
					return errors.Wrapf(err, "bin %d", k)
				}
			}
			res.Stat[k] = mean
			res.Var[k] = variance

			log.Debug("bin reduced",
				zap.Int("bin", k),
				zap.Float64("lower", b.Lower),
				zap.Float64("upper", b.Upper),
				zap.Int("pairs", len(samples)),
				zap.Float64("stat", mean),
				zap.Float64("var", variance))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for k, b := range bins {
		if res.NPairs[k] > 0 {
			continue
		}
		w := EmptyBinWarning{Index: k, Bin: b}
		res.Warnings = append(res.Warnings, w)
		log.Warn("empty bin", zap.Int("bin", k), zap.Float64("lower", b.Lower), zap.Float64("upper", b.Upper))
	}

	return res, nil
}

// shellSamples gathers the bin's samples in point-id order.
func shellSamples(idx neighbor.Index, values []float64, b binning.Bin, pair Pairing) []float64 {
	var samples []float64
	for i, vi := range values {
		for _, j := range idx.Shell(i, b.Lower, b.Upper) {
			samples = append(samples, pair(vi, values[j]))
		}
	}
	return samples
}
