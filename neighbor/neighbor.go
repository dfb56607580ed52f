package neighbor

// Index answers separation queries over a fixed point set.
type Index interface {
	// Len returns the number of indexed points.
	Len() int
	// Within returns the ids j with 0 < dist(i, j) < radius, sorted ascending.
	Within(i int, radius float64) []int
	// Shell returns the ids j with lower <= dist(i, j) < upper and
	// dist(i, j) > 0, sorted ascending.
	Shell(i int, lower, upper float64) []int
}

// Difference returns the ids in a that are not in b. Both inputs must be
// sorted ascending.
func Difference(a, b []int) []int {
	var out []int
	j := 0
	for _, id := range a {
		for j < len(b) && b[j] < id {
			j++
		}
		if j < len(b) && b[j] == id {
			continue
		}
		out = append(out, id)
	}
	return out
}
