package stats

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/wavecorr/binning"
	"github.com/sartorproj/wavecorr/neighbor"
	"github.com/sartorproj/wavecorr/timeseries"
)

// EstimateLagged estimates the temporal structure function of a series
// over nbins lag bins spanning [0, maxLag]. The zero-lag entry r=0, D=0,
// varD=0 is prepended.
func EstimateLagged(s *timeseries.Series, maxLag float64, nbins int, opts *Options) (*StructureResult, error) {
	res, npoints, err := lagged(s, maxLag, nbins, SquaredDifference, opts)
	if err != nil {
		return nil, err
	}
	return &StructureResult{
		R:        append([]float64{0}, res.R...),
		D:        append([]float64{0}, res.Stat...),
		VarD:     append([]float64{0}, res.Var...),
		NPairs:   append([]int{npoints}, res.NPairs...),
		Warnings: shiftWarnings(res.Warnings, 1),
	}, nil
}

// EstimateLaggedXi is the correlation variant of EstimateLagged. The
// zero-lag entry holds the population variance of the series.
func EstimateLaggedXi(s *timeseries.Series, maxLag float64, nbins int, opts *Options) (*CorrelationResult, error) {
	res, npoints, err := lagged(s, maxLag, nbins, Product, opts)
	if err != nil {
		return nil, err
	}
	c := &CorrelationResult{
		R:        res.R,
		Xi:       res.Stat,
		VarXi:    res.Var,
		NPairs:   res.NPairs,
		Warnings: res.Warnings,
	}
	return withZeroLag(c, s.Variance(), 0, npoints), nil
}

// AverageLagged estimates the temporal structure function of each series
// independently and averages D and varD element-wise. Pair counts are
// summed.
func AverageLagged(series []*timeseries.Series, maxLag float64, nbins int, opts *Options) (*StructureResult, error) {
	if len(series) == 0 {
		return nil, errors.Wrap(ErrEmptyCatalog, "no series")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	var (
		d    [][]float64
		varD [][]float64
		out  *StructureResult
	)
	for i, s := range series {
		res, err := EstimateLagged(s, maxLag, nbins, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "series %d", i)
		}
		if out == nil {
			n := len(res.R)
			out = &StructureResult{
				R:      res.R,
				D:      make([]float64, n),
				VarD:   make([]float64, n),
				NPairs: make([]int, n),
			}
			d = make([][]float64, n)
			varD = make([][]float64, n)
		}
		for k := range res.R {
			d[k] = append(d[k], res.D[k])
			varD[k] = append(varD[k], res.VarD[k])
			out.NPairs[k] += res.NPairs[k]
		}
	}

	bins, _ := binning.Lags(maxLag, nbins)
	for k := range out.R {
		out.D[k] = stat.Mean(d[k], nil)
		out.VarD[k] = stat.Mean(varD[k], nil)
		if k > 0 && math.IsNaN(out.D[k]) {
			out.Warnings = append(out.Warnings, EmptyBinWarning{Index: k, Bin: bins[k-1]})
		}
	}
	opts.logger().Debug("lagged structure averaged", zap.Int("series", len(series)), zap.Int("bins", nbins))
	return out, nil
}

func lagged(s *timeseries.Series, maxLag float64, nbins int, pair Pairing, opts *Options) (*Result, int, error) {
	if s == nil || s.Len() < 2 {
		n := 0
		if s != nil {
			n = s.Len()
		}
		return nil, 0, errors.Wrapf(ErrEmptyCatalog, "series has %d samples", n)
	}
	if len(s.Times) != len(s.Values) {
		return nil, 0, errors.Wrapf(ErrInvalidParameter, "%d times but %d values", len(s.Times), len(s.Values))
	}
	bins, err := binning.Lags(maxLag, nbins)
	if err != nil {
		return nil, 0, errors.Wrap(err, "lag bins")
	}
	res, err := Estimate(neighbor.NewLine(s.Times), s.Values, bins, pair, opts)
	if err != nil {
		return nil, 0, err
	}
	return res, s.Len(), nil
}
