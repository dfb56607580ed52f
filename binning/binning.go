package binning

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidRange is returned for malformed bin configurations.
var ErrInvalidRange = errors.New("invalid bin range")

// Bin is a half-open separation interval [Lower, Upper).
type Bin struct {
	Lower float64
	Upper float64
	Mid   float64
}

// Contains reports whether a separation falls inside the bin.
func (b Bin) Contains(sep float64) bool {
	return b.Lower <= sep && sep < b.Upper
}

// ZeroLag returns the synthetic bin used for the zero-separation auto term.
func ZeroLag() Bin {
	return Bin{}
}

// Linear builds nbins contiguous, linearly spaced bins over [minSep, maxSep].
func Linear(minSep, maxSep float64, nbins int) ([]Bin, error) {
	if math.IsNaN(minSep) || math.IsInf(minSep, 0) || math.IsNaN(maxSep) || math.IsInf(maxSep, 0) {
		return nil, errors.Wrapf(ErrInvalidRange, "non-finite bounds [%v, %v]", minSep, maxSep)
	}
	if minSep <= 0 {
		return nil, errors.Wrapf(ErrInvalidRange, "min separation %v must be positive", minSep)
	}
	if maxSep <= minSep {
		return nil, errors.Wrapf(ErrInvalidRange, "max separation %v must exceed min separation %v", maxSep, minSep)
	}
	if nbins < 1 {
		return nil, errors.Wrapf(ErrInvalidRange, "bin count %d must be at least 1", nbins)
	}
	bins := build(minSep, maxSep, nbins)
	for _, b := range bins {
		if !(b.Upper > b.Lower) {
			return nil, errors.Wrapf(ErrInvalidRange, "range [%v, %v] too narrow for %d bins", minSep, maxSep, nbins)
		}
	}
	return bins, nil
}

// Lags builds nbins contiguous lag bins over [0, maxLag].
func Lags(maxLag float64, nbins int) ([]Bin, error) {
	if math.IsNaN(maxLag) || math.IsInf(maxLag, 0) || maxLag <= 0 {
		return nil, errors.Wrapf(ErrInvalidRange, "max lag %v must be positive and finite", maxLag)
	}
	if nbins < 1 {
		return nil, errors.Wrapf(ErrInvalidRange, "bin count %d must be at least 1", nbins)
	}
	return build(0, maxLag, nbins), nil
}

func build(lo, hi float64, nbins int) []Bin {
	edges := floats.Span(make([]float64, nbins+1), lo, hi)
	edges[nbins] = hi

	bins := make([]Bin, nbins)
	for i := range bins {
		bins[i] = Bin{
			Lower: edges[i],
			Upper: edges[i+1],
			Mid:   (edges[i] + edges[i+1]) / 2,
		}
	}
	return bins
}

// Mids returns the midpoints of the bins.
func Mids(bins []Bin) []float64 {
	mids := make([]float64, len(bins))
	for i, b := range bins {
		mids[i] = b.Mid
	}
	return mids
}
