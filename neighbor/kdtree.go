package neighbor

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// site is a position tagged with its catalog id.
type site struct {
	id  int
	pos r2.Point
}

func (s site) coord(d kdtree.Dim) float64 {
	if d == 0 {
		return s.pos.X
	}
	return s.pos.Y
}

// Compare returns the signed distance of s from the plane through c
// perpendicular to dimension d.
func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return s.coord(d) - c.(site).coord(d)
}

func (s site) Dims() int { return 2 }

// Distance returns the squared Euclidean distance.
func (s site) Distance(c kdtree.Comparable) float64 {
	d := s.pos.Sub(c.(site).pos)
	return d.Dot(d)
}

type sites []site

func (s sites) Index(i int) kdtree.Comparable         { return s[i] }
func (s sites) Len() int                              { return len(s) }
func (s sites) Pivot(d kdtree.Dim) int                { return plane{Dim: d, sites: s}.Pivot() }
func (s sites) Slice(start, end int) kdtree.Interface { return s[start:end] }

// plane orders sites along a single dimension for median partitioning.
type plane struct {
	kdtree.Dim
	sites
}

func (p plane) Less(i, j int) bool {
	return p.sites[i].coord(p.Dim) < p.sites[j].coord(p.Dim)
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.sites[i], p.sites[j] = p.sites[j], p.sites[i]
}

// KDTree indexes 2-D positions.
type KDTree struct {
	tree *kdtree.Tree
	byID []site
}

// NewKDTree builds a k-d tree over points. The slice is not retained.
func NewKDTree(points []r2.Point) *KDTree {
	byID := make([]site, len(points))
	for i, p := range points {
		byID[i] = site{id: i, pos: p}
	}
	// kdtree.New partitions its input in place.
	work := make(sites, len(byID))
	copy(work, byID)

	return &KDTree{
		tree: kdtree.New(work, false),
		byID: byID,
	}
}

// Len returns the number of indexed points.
func (t *KDTree) Len() int {
	return len(t.byID)
}

// Within returns the ids j with 0 < dist(i, j) < radius.
func (t *KDTree) Within(i int, radius float64) []int {
	return t.Shell(i, 0, radius)
}

// Shell returns the ids j with lower <= dist(i, j) < upper, excluding
// zero-separation pairs. It is the set difference Within(upper) \ Within(lower)
// evaluated with a single radius query.
func (t *KDTree) Shell(i int, lower, upper float64) []int {
	t.check(i)
	if !(upper > lower) || upper <= 0 {
		return nil
	}
	lo2, hi2 := lower*lower, upper*upper
	if lower < 0 {
		lo2 = 0
	}

	q := t.byID[i]
	keep := kdtree.NewDistKeeper(hi2)
	t.tree.NearestSet(keep, q)

	var ids []int
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue // sentinel
		}
		d2 := c.Dist
		if d2 <= 0 || d2 < lo2 || d2 >= hi2 {
			continue
		}
		ids = append(ids, c.Comparable.(site).id)
	}
	sort.Ints(ids)
	return ids
}

func (t *KDTree) check(i int) {
	if i < 0 || i >= len(t.byID) {
		panic(fmt.Sprintf("neighbor: point id %d out of range [0, %d)", i, len(t.byID)))
	}
}
