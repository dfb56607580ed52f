package stats

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/wavecorr/binning"
	"github.com/sartorproj/wavecorr/catalog"
	"github.com/sartorproj/wavecorr/neighbor"
)

// CorrelationResult is a binned correlation function xi(r).
type CorrelationResult struct {
	R        []float64
	Xi       []float64
	VarXi    []float64
	NPairs   []int
	Warnings []EmptyBinWarning
}

// StructureResult is a binned structure function D(r).
type StructureResult struct {
	R        []float64
	D        []float64
	VarD     []float64
	NPairs   []int
	Warnings []EmptyBinWarning
}

// Xi estimates the correlation function of a catalog. For a centered
// catalog the zero-lag entry r=0, xi=Var(values), varxi=0 is prepended.
func Xi(cat *catalog.Catalog, bins []binning.Bin, opts *Options) (*CorrelationResult, error) {
	if err := checkCatalog(cat); err != nil {
		return nil, err
	}
	res, err := Estimate(neighbor.NewKDTree(cat.Positions), cat.Values, bins, Product, opts)
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
	if cat.IsCentered {
		c = withZeroLag(c, cat.Variance(), 0, cat.Len())
	}
	return c, nil
}

// Structure estimates the structure function of a catalog directly from
// squared differences.
func Structure(cat *catalog.Catalog, bins []binning.Bin, opts *Options) (*StructureResult, error) {
	if err := checkCatalog(cat); err != nil {
		return nil, err
	}
	res, err := Estimate(neighbor.NewKDTree(cat.Positions), cat.Values, bins, SquaredDifference, opts)
	if err != nil {
		return nil, err
	}
	return &StructureResult{
		R:        res.R,
		D:        res.Stat,
		VarD:     res.Var,
		NPairs:   res.NPairs,
		Warnings: res.Warnings,
	}, nil
}

// AverageXi estimates xi(r) for each catalog and averages across them.
// The zero-lag entry holds the mean of the per-catalog variances and, as
// its variance, the spread of those variances. Every r is multiplied by
// scale (a pixel scale); zero means 1. Uncentered catalogs are centered
// first.
func AverageXi(cats []*catalog.Catalog, bins []binning.Bin, scale float64, opts *Options) (*CorrelationResult, error) {
	if len(cats) == 0 {
		return nil, errors.Wrap(ErrEmptyCatalog, "no catalogs")
	}
	if scale == 0 {
		scale = 1
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, errors.Wrapf(ErrInvalidParameter, "scale %v must be positive and finite", scale)
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.logger()

	n := len(bins)
	xi0 := make([]float64, len(cats))
	xi := make([][]float64, n)
	varxi := make([][]float64, n)
	out := &CorrelationResult{
		R:      make([]float64, n+1),
		Xi:     make([]float64, n+1),
		VarXi:  make([]float64, n+1),
		NPairs: make([]int, n+1),
	}

	for c, cat := range cats {
		if err := checkCatalog(cat); err != nil {
			return nil, errors.Wrapf(err, "catalog %d", c)
		}
		if !cat.IsCentered {
			cat = cat.Centered()
		}
		res, err := Xi(cat, bins, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog %d", c)
		}
		xi0[c] = res.Xi[0]
		out.NPairs[0] += res.NPairs[0]
		for b := 0; b < n; b++ {
			xi[b] = append(xi[b], res.Xi[b+1])
			varxi[b] = append(varxi[b], res.VarXi[b+1])
			out.NPairs[b+1] += res.NPairs[b+1]
		}
		log.Debug("catalog processed", zap.Int("catalog", c), zap.String("name", cat.Name), zap.Int("points", cat.Len()))
	}

	out.Xi[0], out.VarXi[0] = stat.PopMeanVariance(xi0, nil)
	for b := 0; b < n; b++ {
		out.R[b+1] = bins[b].Mid * scale
		out.Xi[b+1] = stat.Mean(xi[b], nil)
		out.VarXi[b+1] = stat.Mean(varxi[b], nil)
		if math.IsNaN(out.Xi[b+1]) {
			out.Warnings = append(out.Warnings, EmptyBinWarning{Index: b + 1, Bin: bins[b]})
		}
	}
	return out, nil
}

func checkCatalog(cat *catalog.Catalog) error {
	if cat == nil || cat.Len() < 2 {
		n := 0
		if cat != nil {
			n = cat.Len()
		}
		return errors.Wrapf(ErrEmptyCatalog, "%d points", n)
	}
	if len(cat.Positions) != len(cat.Values) {
		return errors.Wrapf(ErrInvalidParameter, "%d positions but %d values", len(cat.Positions), len(cat.Values))
	}
	return nil
}

// withZeroLag prepends the r=0 auto term.
func withZeroLag(c *CorrelationResult, xi0, varxi0 float64, npoints int) *CorrelationResult {
	return &CorrelationResult{
		R:        append([]float64{0}, c.R...),
		Xi:       append([]float64{xi0}, c.Xi...),
		VarXi:    append([]float64{varxi0}, c.VarXi...),
		NPairs:   append([]int{npoints}, c.NPairs...),
		Warnings: shiftWarnings(c.Warnings, 1),
	}
}
