// Package main runs the wavefront statistics pipeline on a synthetic
// frozen-flow phase screen seen through an annular pupil.
package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/wavecorr/catalog"
	"github.com/sartorproj/wavecorr/config"
	"github.com/sartorproj/wavecorr/logging"
	"github.com/sartorproj/wavecorr/stats"
	"github.com/sartorproj/wavecorr/timeseries"
)

func main() {
	configPath := pflag.String("config", "", "YAML config file")
	outDir := pflag.String("out", "output", "directory for the result tables")
	seed := pflag.Uint64("seed", 1, "seed for the synthetic screen and, when set, the bootstrap")
	nframes := pflag.Int("frames", 128, "number of synthetic frames")
	size := pflag.Int("size", 43, "pupil diameter in pixels")
	catalogPath := pflag.String("catalog", "", "optional x,y,value CSV catalog to analyze as well")
	tracePath := pflag.String("trace", "", "optional t,value CSV series to analyze as well")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if pflag.CommandLine.Changed("seed") {
		s := *seed
		cfg.Variance.Seed = &s
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Encoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, *outDir, *seed, *nframes, *size); err != nil {
		logger.Error("pipeline failed", zap.Error(err))
		os.Exit(1)
	}
	if err := runInputs(cfg, logger, *outDir, *catalogPath, *tracePath); err != nil {
		logger.Error("input analysis failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, outDir string, seed uint64, nframes, size int) error {
	opts, err := cfg.Options(logger.Named("stats"))
	if err != nil {
		return err
	}
	bins, err := cfg.Bins()
	if err != nil {
		return err
	}

	mask := catalog.AnnularMask(size, 0.14*float64(size)/2, float64(size)/2)
	rng := rand.New(rand.NewPCG(seed, 0))
	frames := frozenFlow(newScreen(rng, 200), size, nframes, 0.7)
	logger.Info("synthetic frames ready",
		zap.Int("frames", nframes),
		zap.Int("size", size),
		zap.Float64("pixelScale", cfg.PixelScale))

	// Spatial statistics
	cats, err := catalog.FromGrids(frames, mask, true)
	if err != nil {
		return err
	}
	xi, err := stats.AverageXi(cats, bins, cfg.PixelScale, opts)
	if err != nil {
		return errors.Wrap(err, "correlation function")
	}
	sf, err := stats.ToStructure(xi)
	if err != nil {
		return errors.Wrap(err, "structure function")
	}
	logger.Info("spatial statistics",
		zap.Int("catalogs", len(cats)),
		zap.Int("points", cats[0].Len()),
		zap.Float64("xi0", xi.Xi[0]),
		zap.Int("emptyBins", len(xi.Warnings)))

	// Residual after removing the static part of the wavefront.
	static, err := catalog.MeanFrame(frames)
	if err != nil {
		return err
	}
	residual, err := catalog.Subtract(frames, static)
	if err != nil {
		return err
	}
	resCats, err := catalog.FromGrids(residual, mask, true)
	if err != nil {
		return err
	}
	resXi, err := stats.AverageXi(resCats, bins, cfg.PixelScale, opts)
	if err != nil {
		return errors.Wrap(err, "residual correlation function")
	}
	logger.Info("residual statistics", zap.Float64("xi0", resXi.Xi[0]))

	// Baseline: white noise seen through the same pupil.
	noise := mat.NewDense(size, size, nil)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			noise.Set(i, j, rng.NormFloat64())
		}
	}
	noiseCat, err := catalog.FromGrid(noise, mask, true)
	if err != nil {
		return err
	}
	pupilXi, err := stats.Xi(noiseCat, bins, opts)
	if err != nil {
		return errors.Wrap(err, "pupil baseline")
	}
	for k := range pupilXi.R {
		pupilXi.R[k] *= cfg.PixelScale
	}
	logger.Info("pupil baseline", zap.Float64("xi0", pupilXi.Xi[0]), zap.Float64("xi1", pupilXi.Xi[1]))

	fit, err := stats.FitPowerLaw(sf, cfg.Fit.NumPoints)
	if err != nil {
		logger.Warn("power-law fit failed", zap.Error(err))
	} else {
		logger.Info("power-law fit",
			zap.Float64("offset", fit.Offset),
			zap.Float64("amplitude", fit.Amplitude),
			zap.Float64("exponent", fit.Exponent),
			zap.Float64("rss", fit.RSS),
			zap.Int("iterations", fit.Iterations))
	}

	// Temporal statistics
	traces, err := catalog.TemporalTraces(frames, mask)
	if err != nil {
		return err
	}
	lagged, err := stats.AverageLagged(traces, cfg.Temporal.MaxLag, cfg.Temporal.NBins, opts)
	if err != nil {
		return errors.Wrap(err, "temporal structure function")
	}
	logger.Info("temporal statistics",
		zap.Int("traces", len(traces)),
		zap.Int("emptyBins", len(lagged.Warnings)))

	coeffs := tipTilt(frames, mask)
	modes := catalog.CoefficientTraces(coeffs)
	for _, m := range modes {
		mxi, err := stats.EstimateLaggedXi(m, cfg.Temporal.MaxLag, cfg.Temporal.NBins, opts)
		if err != nil {
			return errors.Wrap(err, m.Name)
		}
		logger.Info("modal correlation",
			zap.String("mode", m.Name),
			zap.Float64("variance", mxi.Xi[0]),
			zap.Float64("xi1", mxi.Xi[1]))
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", outDir)
	}
	tables := []struct {
		name  string
		write func(string) error
	}{
		{"xi.txt", func(p string) error { return stats.SaveCorrelation(p, xi) }},
		{"structure.txt", func(p string) error { return stats.SaveStructure(p, sf) }},
		{"residual_xi.txt", func(p string) error { return stats.SaveCorrelation(p, resXi) }},
		{"pupil_xi.txt", func(p string) error { return stats.SaveCorrelation(p, pupilXi) }},
		{"temporal.txt", func(p string) error { return stats.SaveStructure(p, lagged) }},
		{"tip.csv", func(p string) error { return timeseries.SaveCSV(modes[0], p) }},
	}
	for _, tbl := range tables {
		path := filepath.Join(outDir, tbl.name)
		if err := tbl.write(path); err != nil {
			return err
		}
		logger.Info("table written", zap.String("path", path))
	}
	return nil
}

// screen is a sum of plane waves with a Kolmogorov-like k^(-11/6)
// amplitude spectrum.
type screen struct {
	kx, ky, amp, phase []float64
}

func newScreen(rng *rand.Rand, modes int) screen {
	s := screen{
		kx:    make([]float64, modes),
		ky:    make([]float64, modes),
		amp:   make([]float64, modes),
		phase: make([]float64, modes),
	}
	kmin, kmax := 2*math.Pi/200, 2*math.Pi/3
	for m := 0; m < modes; m++ {
		// Log-uniform wavenumbers.
		k := kmin * math.Pow(kmax/kmin, rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		s.kx[m] = k * math.Cos(theta)
		s.ky[m] = k * math.Sin(theta)
		s.amp[m] = math.Pow(k, -11.0/6.0) * math.Sqrt(k) * 0.05
		s.phase[m] = 2 * math.Pi * rng.Float64()
	}
	return s
}

func (s screen) at(x, y float64) float64 {
	v := 0.0
	for m := range s.amp {
		v += s.amp[m] * math.Cos(s.kx[m]*x+s.ky[m]*y+s.phase[m])
	}
	return v
}

// frozenFlow translates the screen across the pupil by speed pixels per
// frame.
func frozenFlow(s screen, size, nframes int, speed float64) []*mat.Dense {
	frames := make([]*mat.Dense, nframes)
	for t := range frames {
		f := mat.NewDense(size, size, nil)
		shift := speed * float64(t)
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				f.Set(i, j, s.at(float64(i)+shift, float64(j)))
			}
		}
		frames[t] = f
	}
	return frames
}

// tipTilt projects each frame onto the row and column coordinates of the
// unmasked pixels, giving a T x 2 matrix of tip and tilt coefficients.
func tipTilt(frames []*mat.Dense, mask catalog.Mask) *mat.Dense {
	coeffs := mat.NewDense(len(frames), 2, nil)
	for t, f := range frames {
		r, c := f.Dims()
		var tip, tilt, norm float64
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if mask.Excluded(i, j) {
					continue
				}
				x := float64(i) - float64(r-1)/2
				y := float64(j) - float64(c-1)/2
				tip += x * f.At(i, j)
				tilt += y * f.At(i, j)
				norm += x * x
			}
		}
		if norm > 0 {
			coeffs.Set(t, 0, tip/norm)
			coeffs.Set(t, 1, tilt/norm)
		}
	}
	return coeffs
}

// runInputs analyzes the optional catalog and series files.
func runInputs(cfg *config.Config, logger *zap.Logger, outDir, catalogPath, tracePath string) error {
	opts, err := cfg.Options(logger.Named("stats"))
	if err != nil {
		return err
	}

	if catalogPath != "" {
		f, err := os.Open(catalogPath)
		if err != nil {
			return errors.Wrapf(err, "open %s", catalogPath)
		}
		cat, err := catalog.LoadCSV(f, nil)
		_ = f.Close()
		if err != nil {
			return errors.Wrapf(err, "load %s", catalogPath)
		}
		bins, err := cfg.Bins()
		if err != nil {
			return err
		}
		d, err := stats.Structure(cat, bins, opts)
		if err != nil {
			return errors.Wrapf(err, "structure of %s", catalogPath)
		}
		path := filepath.Join(outDir, "catalog_structure.txt")
		if err := stats.SaveStructure(path, d); err != nil {
			return err
		}
		logger.Info("catalog analyzed", zap.String("input", catalogPath), zap.Int("points", cat.Len()), zap.String("path", path))
	}

	if tracePath != "" {
		s, err := timeseries.LoadCSV(tracePath, nil)
		if err != nil {
			return err
		}
		d, err := stats.EstimateLagged(s.Centered(), cfg.Temporal.MaxLag, cfg.Temporal.NBins, opts)
		if err != nil {
			return errors.Wrapf(err, "temporal structure of %s", tracePath)
		}
		path := filepath.Join(outDir, "trace_temporal.txt")
		if err := stats.SaveStructure(path, d); err != nil {
			return err
		}
		logger.Info("series analyzed", zap.String("input", tracePath), zap.Int("samples", s.Len()), zap.String("path", path))
	}
	return nil
}
