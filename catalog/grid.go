package catalog

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/wavecorr/timeseries"
)

// Mask marks excluded pixels with true. A nil Mask excludes nothing.
type Mask [][]bool

// Excluded reports whether pixel (i, j) is masked out.
func (m Mask) Excluded(i, j int) bool {
	return m != nil && m[i][j]
}

// Dims returns the mask shape.
func (m Mask) Dims() (r, c int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

func (m Mask) check(r, c int) error {
	if m == nil {
		return nil
	}
	if len(m) != r {
		return errors.Wrapf(ErrShapeMismatch, "mask has %d rows, image has %d", len(m), r)
	}
	for i, row := range m {
		if len(row) != c {
			return errors.Wrapf(ErrShapeMismatch, "mask row %d has %d columns, image has %d", i, len(row), c)
		}
	}
	return nil
}

// unmaskedMean returns the mean over unmasked pixels.
func unmaskedMean(grid *mat.Dense, mask Mask) float64 {
	r, c := grid.Dims()
	var vals []float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if !mask.Excluded(i, j) {
				vals = append(vals, grid.At(i, j))
			}
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

// FromGrid converts the unmasked pixels of grid into a catalog with
// positions (row, col). When center is true the mean over the unmasked
// pixels is removed from the values. The grid is not modified.
func FromGrid(grid *mat.Dense, mask Mask, center bool) (*Catalog, error) {
	r, c := grid.Dims()
	if err := mask.check(r, c); err != nil {
		return nil, err
	}

	mean := 0.0
	if center {
		mean = unmaskedMean(grid, mask)
	}

	var positions []r2.Point
	var values []float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if mask.Excluded(i, j) {
				continue
			}
			positions = append(positions, r2.Point{X: float64(i), Y: float64(j)})
			values = append(values, grid.At(i, j)-mean)
		}
	}

	return &Catalog{
		Positions:  positions,
		Values:     values,
		IsCentered: center,
	}, nil
}

// FromGrids builds one catalog per image. All images must share a shape.
func FromGrids(grids []*mat.Dense, mask Mask, center bool) ([]*Catalog, error) {
	if len(grids) == 0 {
		return nil, ErrNoImages
	}
	r, c := grids[0].Dims()

	catalogs := make([]*Catalog, len(grids))
	for k, g := range grids {
		if gr, gc := g.Dims(); gr != r || gc != c {
			return nil, errors.Wrapf(ErrShapeMismatch, "image %d is %dx%d, expected %dx%d", k, gr, gc, r, c)
		}
		cat, err := FromGrid(g, mask, center)
		if err != nil {
			return nil, errors.Wrapf(err, "image %d", k)
		}
		cat.Name = fmt.Sprintf("frame-%d", k)
		catalogs[k] = cat
	}
	return catalogs, nil
}

// MeanFrame returns the pixel-wise mean of a stack of frames.
func MeanFrame(frames []*mat.Dense) (*mat.Dense, error) {
	if len(frames) == 0 {
		return nil, ErrNoImages
	}
	r, c := frames[0].Dims()
	mean := mat.NewDense(r, c, nil)
	for k, f := range frames {
		if fr, fc := f.Dims(); fr != r || fc != c {
			return nil, errors.Wrapf(ErrShapeMismatch, "frame %d is %dx%d, expected %dx%d", k, fr, fc, r, c)
		}
		mean.Add(mean, f)
	}
	mean.Scale(1/float64(len(frames)), mean)
	return mean, nil
}

// Subtract returns copies of frames with model removed from each, as when
// a fitted static aberration is taken out before computing residual
// statistics. The input frames are not modified.
func Subtract(frames []*mat.Dense, model *mat.Dense) ([]*mat.Dense, error) {
	if len(frames) == 0 {
		return nil, ErrNoImages
	}
	r, c := model.Dims()
	out := make([]*mat.Dense, len(frames))
	for k, f := range frames {
		if fr, fc := f.Dims(); fr != r || fc != c {
			return nil, errors.Wrapf(ErrShapeMismatch, "frame %d is %dx%d, model is %dx%d", k, fr, fc, r, c)
		}
		d := mat.NewDense(r, c, nil)
		d.Sub(f, model)
		out[k] = d
	}
	return out, nil
}

// TemporalTraces returns one series per unmasked pixel across a stack of
// frames. Each frame is mean-centered over the unmasked region first;
// samples are placed at t = 0, 1, ..., len(frames)-1.
func TemporalTraces(frames []*mat.Dense, mask Mask) ([]*timeseries.Series, error) {
	if len(frames) < 2 {
		return nil, errors.Wrapf(ErrNoImages, "need at least 2 frames, got %d", len(frames))
	}
	r, c := frames[0].Dims()
	if err := mask.check(r, c); err != nil {
		return nil, err
	}

	means := make([]float64, len(frames))
	for k, f := range frames {
		if fr, fc := f.Dims(); fr != r || fc != c {
			return nil, errors.Wrapf(ErrShapeMismatch, "frame %d is %dx%d, expected %dx%d", k, fr, fc, r, c)
		}
		means[k] = unmaskedMean(f, mask)
	}

	var traces []*timeseries.Series
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if mask.Excluded(i, j) {
				continue
			}
			values := make([]float64, len(frames))
			for k, f := range frames {
				values[k] = f.At(i, j) - means[k]
			}
			s := timeseries.New(values)
			s.Name = fmt.Sprintf("pixel-%d-%d", i, j)
			traces = append(traces, s)
		}
	}
	return traces, nil
}

// CoefficientTraces splits a T x K coefficient matrix into K series, each
// with its mean over time removed.
func CoefficientTraces(coeffs *mat.Dense) []*timeseries.Series {
	_, k := coeffs.Dims()

	traces := make([]*timeseries.Series, k)
	for j := 0; j < k; j++ {
		s := timeseries.New(mat.Col(nil, j, coeffs)).Centered()
		s.Name = fmt.Sprintf("coefficient-%d", j)
		traces[j] = s
	}
	return traces
}

// AnnularMask returns a size x size pupil mask that keeps the pixels whose
// distance from the grid center lies in [inner, outer].
func AnnularMask(size int, inner, outer float64) Mask {
	c := float64(size-1) / 2
	center := r2.Point{X: c, Y: c}

	mask := make(Mask, size)
	for i := range mask {
		mask[i] = make([]bool, size)
		for j := range mask[i] {
			d := r2.Point{X: float64(i), Y: float64(j)}.Sub(center).Norm()
			mask[i][j] = d < inner || d > outer
		}
	}
	return mask
}
