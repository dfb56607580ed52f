package catalog

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNonFinite is returned for NaN or infinite positions.
	ErrNonFinite = errors.New("non-finite position")
	// ErrShapeMismatch is returned when inputs disagree in shape.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrNoImages is returned when no images are supplied.
	ErrNoImages = errors.New("no images provided")
)

// Catalog is a read-only set of scalar samples at 2-D positions.
type Catalog struct {
	Name       string
	Positions  []r2.Point
	Values     []float64
	IsCentered bool
}

// New validates and wraps positions and values. The slices are retained.
func New(positions []r2.Point, values []float64, centered bool) (*Catalog, error) {
	if len(positions) != len(values) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d positions but %d values", len(positions), len(values))
	}
	for i, p := range positions {
		if !finite(p.X) || !finite(p.Y) {
			return nil, errors.Wrapf(ErrNonFinite, "position %d is %v", i, p)
		}
	}
	return &Catalog{
		Positions:  positions,
		Values:     values,
		IsCentered: centered,
	}, nil
}

// Len returns the number of points.
func (c *Catalog) Len() int {
	return len(c.Values)
}

// Variance returns the population variance of the values, the zero-lag
// term of the correlation function of a centered field.
func (c *Catalog) Variance() float64 {
	if len(c.Values) == 0 {
		return 0
	}
	_, v := stat.PopMeanVariance(c.Values, nil)
	return v
}

// Centered returns a copy of the catalog with the mean value removed.
func (c *Catalog) Centered() *Catalog {
	values := make([]float64, len(c.Values))
	copy(values, c.Values)
	if len(values) > 0 {
		mean := stat.Mean(values, nil)
		for i := range values {
			values[i] -= mean
		}
	}
	positions := make([]r2.Point, len(c.Positions))
	copy(positions, c.Positions)

	return &Catalog{
		Name:       c.Name,
		Positions:  positions,
		Values:     values,
		IsCentered: true,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
