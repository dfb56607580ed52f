package stats

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sartorproj/wavecorr/binning"
	"github.com/sartorproj/wavecorr/neighbor"
)

var (
	squarePositions = []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	squareValues    = []float64{1, -1, -1, 1}
	// Unit sides fall in the first bin, diagonals in the second.
	squareBins = []binning.Bin{
		{Lower: 0.5, Upper: 1.2, Mid: 0.85},
		{Lower: 1.2, Upper: 2, Mid: 1.6},
	}
)

func randomField(n int, seed uint64) ([]r2.Point, []float64) {
	rng := rand.New(rand.NewPCG(seed, 3))
	points := make([]r2.Point, n)
	values := make([]float64, n)
	for i := range points {
		points[i] = r2.Point{X: rng.Float64() * 20, Y: rng.Float64() * 20}
		values[i] = rng.NormFloat64()
	}
	return points, values
}

func sameFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}

func TestEstimateSquare(t *testing.T) {
	idx := neighbor.NewKDTree(squarePositions)

	xi, err := Estimate(idx, squareValues, squareBins, Product, nil)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if xi.Stat[0] != -1 {
		t.Errorf("Expected correlation -1 at unit separation, got %f", xi.Stat[0])
	}
	if xi.Stat[1] != 1 {
		t.Errorf("Expected correlation 1 at diagonal separation, got %f", xi.Stat[1])
	}
	if xi.NPairs[0] != 8 || xi.NPairs[1] != 4 {
		t.Errorf("Expected pair counts [8 4], got %v", xi.NPairs)
	}
	if xi.Var[0] != 0 {
		t.Errorf("Expected zero variance for identical samples, got %f", xi.Var[0])
	}

	d, err := Estimate(idx, squareValues, squareBins, SquaredDifference, nil)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if d.Stat[0] != 4 {
		t.Errorf("Expected structure 4 at unit separation, got %f", d.Stat[0])
	}
	if d.Stat[1] != 0 {
		t.Errorf("Expected structure 0 at diagonal separation, got %f", d.Stat[1])
	}
	if len(d.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", d.Warnings)
	}
}

func TestEstimateEmptyBin(t *testing.T) {
	points := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	values := []float64{0.5, -0.5}
	bins, err := binning.Linear(5, 10, 2)
	if err != nil {
		t.Fatal(err)
	}

	core, logs := observer.New(zap.WarnLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)

	res, err := Estimate(neighbor.NewKDTree(points), values, bins, Product, opts)
	if err != nil {
		t.Fatalf("Empty bins must not fail the call: %v", err)
	}
	for k := range bins {
		if !math.IsNaN(res.Stat[k]) || !math.IsNaN(res.Var[k]) {
			t.Errorf("Bin %d: expected NaN statistic and variance, got %f, %f", k, res.Stat[k], res.Var[k])
		}
		if res.NPairs[k] != 0 {
			t.Errorf("Bin %d: expected no pairs, got %d", k, res.NPairs[k])
		}
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %d", len(res.Warnings))
	}
	if res.Warnings[1].Index != 1 || res.Warnings[1].Bin != bins[1] {
		t.Errorf("Unexpected warning %+v", res.Warnings[1])
	}
	if n := logs.FilterMessage("empty bin").Len(); n != 2 {
		t.Errorf("Expected 2 empty bin log entries, got %d", n)
	}
}

func TestEstimateIdempotent(t *testing.T) {
	points, values := randomField(200, 1)
	idx := neighbor.NewKDTree(points)
	bins, err := binning.Linear(1, 10, 6)
	if err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions().WithSeed(42)
	opts.Variance = Bootstrap
	opts.NumBootstrap = 50
	opts.ResampleSize = 40

	first, err := Estimate(idx, values, bins, SquaredDifference, opts)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	parallel := *opts
	parallel.Workers = 4
	second, err := Estimate(idx, values, bins, SquaredDifference, &parallel)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if !sameFloats(first.Stat, second.Stat) {
		t.Errorf("Statistics differ between runs:\n%v\n%v", first.Stat, second.Stat)
	}
	if !sameFloats(first.Var, second.Var) {
		t.Errorf("Seeded bootstrap variances differ between runs:\n%v\n%v", first.Var, second.Var)
	}
	for k := range bins {
		if first.NPairs[k] != second.NPairs[k] {
			t.Errorf("Bin %d: pair counts differ, %d vs %d", k, first.NPairs[k], second.NPairs[k])
		}
	}
}

func TestEstimateBootstrapSingleResample(t *testing.T) {
	points, values := randomField(50, 2)
	bins, err := binning.Linear(1, 8, 3)
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Variance = Bootstrap
	opts.NumBootstrap = 1

	res, err := Estimate(neighbor.NewKDTree(points), values, bins, Product, opts)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	for k, v := range res.Var {
		if v != 0 {
			t.Errorf("Bin %d: expected zero variance from a single resample, got %f", k, v)
		}
	}
}

func TestEstimateInvalid(t *testing.T) {
	idx := neighbor.NewKDTree(squarePositions)

	badBootstrap := DefaultOptions()
	badBootstrap.Variance = Bootstrap
	badBootstrap.NumBootstrap = 0

	badResample := DefaultOptions()
	badResample.Variance = Bootstrap
	badResample.ResampleSize = 0

	badWorkers := DefaultOptions()
	badWorkers.Workers = -1

	tests := []struct {
		name   string
		idx    neighbor.Index
		values []float64
		bins   []binning.Bin
		pair   Pairing
		opts   *Options
		want   error
	}{
		{"nil pairing", idx, squareValues, squareBins, nil, nil, ErrInvalidParameter},
		{"nil index", nil, squareValues, squareBins, Product, nil, ErrInvalidParameter},
		{"one point", neighbor.NewKDTree(squarePositions[:1]), squareValues[:1], squareBins, Product, nil, ErrEmptyCatalog},
		{"length mismatch", idx, squareValues[:3], squareBins, Product, nil, ErrInvalidParameter},
		{"no bins", idx, squareValues, nil, Product, nil, ErrInvalidParameter},
		{"zero bootstrap count", idx, squareValues, squareBins, Product, badBootstrap, ErrInvalidParameter},
		{"zero resample size", idx, squareValues, squareBins, Product, badResample, ErrInvalidParameter},
		{"negative workers", idx, squareValues, squareBins, Product, badWorkers, ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(tt.idx, tt.values, tt.bins, tt.pair, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseVarianceMode(t *testing.T) {
	tests := []struct {
		in   string
		want VarianceMode
		ok   bool
	}{
		{"direct", Direct, true},
		{"", Direct, true},
		{"Bootstrap", Bootstrap, true},
		{"jackknife", Direct, false},
	}
	for _, tt := range tests {
		got, err := ParseVarianceMode(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseVarianceMode(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVarianceMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if Bootstrap.String() != "bootstrap" {
		t.Errorf("Expected bootstrap, got %s", Bootstrap)
	}
}

func BenchmarkEstimate(b *testing.B) {
	points, values := randomField(2000, 9)
	idx := neighbor.NewKDTree(points)
	bins, err := binning.Linear(1, 10, 10)
	if err != nil {
		b.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Workers = 4

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Estimate(idx, values, bins, Product, opts); err != nil {
			b.Fatal(err)
		}
	}
}
