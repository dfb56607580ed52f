// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// ErrNonFinite is returned when a time or value is NaN or infinite.
var ErrNonFinite = errors.New("non-finite sample")

// Series represents a sampled scalar signal.
type Series struct {
	Times  []float64
	Values []float64
	Name   string
}

// New creates a series from values sampled at t = 0, 1, 2, ...
func New(values []float64) *Series {
	times := make([]float64, len(values))
	for i := range times {
		times[i] = float64(i)
	}
	return &Series{
		Times:  times,
		Values: values,
	}
}

// NewWithTimes creates a series with explicit sample times.
func NewWithTimes(times, values []float64) (*Series, error) {
	if len(times) != len(values) {
		return nil, errors.Errorf("times and values must have the same length (%d != %d)", len(times), len(values))
	}
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, errors.Wrapf(ErrNonFinite, "time at index %d is %v", i, t)
		}
	}
	return &Series{
		Times:  times,
		Values: values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the population variance of the series, the
// zero-lag value of its autocorrelation when mean-centered.
func (s *Series) Variance() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	_, v := stat.PopMeanVariance(s.Values, nil)
	return v
}

// Std calculates the population standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Centered returns a copy of the series with its mean removed.
func (s *Series) Centered() *Series {
	c := s.Copy()
	mean := s.Mean()
	for i := range c.Values {
		c.Values[i] -= mean
	}
	return c
}

// Duration returns the span between the earliest and latest sample times.
func (s *Series) Duration() float64 {
	if len(s.Times) == 0 {
		return 0
	}
	lo, hi := s.Times[0], s.Times[0]
	for _, t := range s.Times[1:] {
		lo = math.Min(lo, t)
		hi = math.Max(hi, t)
	}
	return hi - lo
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	times := make([]float64, len(values))
	if len(s.Times) >= end {
		copy(times, s.Times[start:end])
	}

	return &Series{
		Times:  times,
		Values: values,
		Name:   s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	times := make([]float64, len(s.Times))
	copy(times, s.Times)

	return &Series{
		Times:  times,
		Values: values,
		Name:   s.Name,
	}
}
