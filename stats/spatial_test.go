package stats

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/sartorproj/wavecorr/binning"
	"github.com/sartorproj/wavecorr/catalog"
)

func squareCatalog(t *testing.T, scale, offset float64, centered bool) *catalog.Catalog {
	t.Helper()
	values := make([]float64, len(squareValues))
	for i, v := range squareValues {
		values[i] = v*scale + offset
	}
	cat, err := catalog.New(squarePositions, values, centered)
	if err != nil {
		t.Fatalf("catalog.New failed: %v", err)
	}
	return cat
}

func TestXiSquare(t *testing.T) {
	res, err := Xi(squareCatalog(t, 1, 0, true), squareBins, nil)
	if err != nil {
		t.Fatalf("Xi failed: %v", err)
	}

	wantR := []float64{0, 0.85, 1.6}
	wantXi := []float64{1, -1, 1}
	wantPairs := []int{4, 8, 4}
	for k := range wantR {
		if res.R[k] != wantR[k] {
			t.Errorf("R[%d]: expected %v, got %v", k, wantR[k], res.R[k])
		}
		if res.Xi[k] != wantXi[k] {
			t.Errorf("Xi[%d]: expected %v, got %v", k, wantXi[k], res.Xi[k])
		}
		if res.NPairs[k] != wantPairs[k] {
			t.Errorf("NPairs[%d]: expected %d, got %d", k, wantPairs[k], res.NPairs[k])
		}
	}
	if res.VarXi[0] != 0 {
		t.Errorf("Expected zero-lag variance 0, got %v", res.VarXi[0])
	}
}

func TestXiUncenteredHasNoZeroLag(t *testing.T) {
	res, err := Xi(squareCatalog(t, 1, 0, false), squareBins, nil)
	if err != nil {
		t.Fatalf("Xi failed: %v", err)
	}
	if len(res.R) != len(squareBins) {
		t.Fatalf("Expected %d entries, got %d", len(squareBins), len(res.R))
	}
	if res.Xi[0] != -1 {
		t.Errorf("Expected -1 in the first bin, got %v", res.Xi[0])
	}
}

func TestXiEmptyBinWarningIndex(t *testing.T) {
	cat, err := catalog.New([]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}, []float64{1, -1}, true)
	if err != nil {
		t.Fatal(err)
	}
	bins, err := binning.Linear(5, 10, 1)
	if err != nil {
		t.Fatal(err)
	}

	res, err := Xi(cat, bins, nil)
	if err != nil {
		t.Fatalf("Xi failed: %v", err)
	}
	if !math.IsNaN(res.Xi[1]) {
		t.Errorf("Expected NaN beyond the largest separation, got %v", res.Xi[1])
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Index != 1 {
		t.Errorf("Expected one warning at index 1, got %+v", res.Warnings)
	}
}

func TestStructureSquare(t *testing.T) {
	res, err := Structure(squareCatalog(t, 1, 0, true), squareBins, nil)
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	if len(res.D) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(res.D))
	}
	if res.D[0] != 4 || res.D[1] != 0 {
		t.Errorf("Expected D = [4 0], got %v", res.D)
	}
}

func TestStructureRejectsTinyCatalog(t *testing.T) {
	cat, err := catalog.New([]r2.Point{{X: 0, Y: 0}}, []float64{1}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Structure(cat, squareBins, nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Expected ErrEmptyCatalog, got %v", err)
	}
	if _, err := Xi(nil, squareBins, nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Expected ErrEmptyCatalog for nil catalog, got %v", err)
	}
}

func TestAverageXi(t *testing.T) {
	cats := []*catalog.Catalog{
		squareCatalog(t, 1, 0, true),
		squareCatalog(t, 2, 0, true),
	}

	res, err := AverageXi(cats, squareBins, 2, nil)
	if err != nil {
		t.Fatalf("AverageXi failed: %v", err)
	}

	// Variances are 1 and 4.
	if res.Xi[0] != 2.5 {
		t.Errorf("Expected mean zero-lag term 2.5, got %v", res.Xi[0])
	}
	if res.VarXi[0] != 2.25 {
		t.Errorf("Expected zero-lag spread 2.25, got %v", res.VarXi[0])
	}
	if res.Xi[1] != -2.5 || res.Xi[2] != 2.5 {
		t.Errorf("Expected xi = [-2.5 2.5] in the bins, got %v", res.Xi[1:])
	}
	if res.R[0] != 0 || res.R[1] != 1.7 || res.R[2] != 3.2 {
		t.Errorf("Expected scaled separations [0 1.7 3.2], got %v", res.R)
	}
	wantPairs := []int{8, 16, 8}
	for k, n := range wantPairs {
		if res.NPairs[k] != n {
			t.Errorf("NPairs[%d]: expected %d, got %d", k, n, res.NPairs[k])
		}
	}
}

func TestAverageXiCentersInput(t *testing.T) {
	centered, err := AverageXi([]*catalog.Catalog{squareCatalog(t, 1, 0, true)}, squareBins, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	offset, err := AverageXi([]*catalog.Catalog{squareCatalog(t, 1, 10, false)}, squareBins, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !sameFloats(centered.Xi, offset.Xi) {
		t.Errorf("Expected offset input to be centered:\n%v\n%v", centered.Xi, offset.Xi)
	}
	if !sameFloats(centered.R, offset.R) {
		t.Errorf("Expected scale 0 to leave separations unchanged, got %v", offset.R)
	}
}

func TestAverageXiInvalid(t *testing.T) {
	if _, err := AverageXi(nil, squareBins, 1, nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Expected ErrEmptyCatalog, got %v", err)
	}
	cats := []*catalog.Catalog{squareCatalog(t, 1, 0, true)}
	for _, scale := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := AverageXi(cats, squareBins, scale, nil); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Scale %v: expected ErrInvalidParameter, got %v", scale, err)
		}
	}
}

func TestToStructureMatchesDirect(t *testing.T) {
	cat := squareCatalog(t, 1, 0, true)
	xi, err := Xi(cat, squareBins, nil)
	if err != nil {
		t.Fatal(err)
	}
	direct, err := Structure(cat, squareBins, nil)
	if err != nil {
		t.Fatal(err)
	}

	converted, err := ToStructure(xi)
	if err != nil {
		t.Fatalf("ToStructure failed: %v", err)
	}
	if converted.D[0] != 0 {
		t.Errorf("Expected D(0) = 0, got %v", converted.D[0])
	}
	for k := range direct.D {
		if converted.D[k+1] != direct.D[k] {
			t.Errorf("Bin %d: converted %v, direct %v", k, converted.D[k+1], direct.D[k])
		}
	}
}

func TestToStructure(t *testing.T) {
	c := &CorrelationResult{
		R:     []float64{0, 1, 2},
		Xi:    []float64{0, 0.5, -0.25},
		VarXi: []float64{0, 0.1, 0.2},
	}
	s, err := ToStructure(c)
	if err != nil {
		t.Fatal(err)
	}

	wantD := []float64{0, -1, 0.5}
	wantVar := []float64{0, 0.2, 0.4}
	for k := range wantD {
		if s.D[k] != wantD[k] {
			t.Errorf("D[%d]: expected %v, got %v", k, wantD[k], s.D[k])
		}
		if s.VarD[k] != wantVar[k] {
			t.Errorf("VarD[%d]: expected %v, got %v", k, wantVar[k], s.VarD[k])
		}
	}

	s.R[1] = 99
	if c.R[1] != 1 {
		t.Error("ToStructure must not share R with its input")
	}
}

func TestToStructureInvalid(t *testing.T) {
	if _, err := ToStructure(nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
	bad := &CorrelationResult{R: []float64{0, 1}, Xi: []float64{1, 0}, VarXi: []float64{0}}
	if _, err := ToStructure(bad); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData for mismatched lengths, got %v", err)
	}
}

func BenchmarkAverageXi(b *testing.B) {
	cats := make([]*catalog.Catalog, 4)
	for i := range cats {
		points, values := randomField(500, uint64(i))
		cat, err := catalog.New(points, values, false)
		if err != nil {
			b.Fatal(err)
		}
		cats[i] = cat
	}
	bins, err := binning.Linear(1, 10, 10)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := AverageXi(cats, bins, 1, nil); err != nil {
			b.Fatal(err)
		}
	}
}
