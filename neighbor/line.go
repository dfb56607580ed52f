package neighbor

import (
	"fmt"
	"math"
	"sort"
)

// Line indexes 1-D coordinates; dist(i, j) = |t_i - t_j|.
type Line struct {
	coords []float64 // by id
	sorted []float64
	order  []int // order[k] is the id of sorted[k]
}

// NewLine builds a 1-D index over coords. The slice is not retained.
func NewLine(coords []float64) *Line {
	order := make([]int, len(coords))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return coords[order[a]] < coords[order[b]]
	})

	sorted := make([]float64, len(coords))
	for k, id := range order {
		sorted[k] = coords[id]
	}

	return &Line{
		coords: append([]float64(nil), coords...),
		sorted: sorted,
		order:  order,
	}
}

// Len returns the number of indexed points.
func (l *Line) Len() int {
	return len(l.coords)
}

// Within returns the ids j with 0 < |t_i - t_j| < radius.
func (l *Line) Within(i int, radius float64) []int {
	return l.Shell(i, 0, radius)
}

// Shell returns the ids j with lower <= |t_i - t_j| < upper, excluding
// zero-separation pairs.
func (l *Line) Shell(i int, lower, upper float64) []int {
	if i < 0 || i >= len(l.coords) {
		panic(fmt.Sprintf("neighbor: point id %d out of range [0, %d)", i, len(l.coords)))
	}
	if !(upper > lower) || upper <= 0 {
		return nil
	}
	lower = math.Max(lower, 0)
	t := l.coords[i]
	n := len(l.sorted)

	// Points at or below t: t - s in [lower, upper).
	leftLo := sort.Search(n, func(k int) bool { return t-l.sorted[k] < upper })
	leftHi := sort.Search(n, func(k int) bool { return t-l.sorted[k] < lower })
	// Points at or above t: s - t in [lower, upper).
	rightLo := sort.Search(n, func(k int) bool { return l.sorted[k]-t >= lower })
	rightHi := sort.Search(n, func(k int) bool { return l.sorted[k]-t >= upper })

	var ids []int
	for k := leftLo; k < leftHi; k++ {
		if l.sorted[k] != t {
			ids = append(ids, l.order[k])
		}
	}
	for k := rightLo; k < rightHi; k++ {
		if l.sorted[k] != t {
			ids = append(ids, l.order[k])
		}
	}
	sort.Ints(ids)
	return ids
}
