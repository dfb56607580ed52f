// Package stats estimates two-point statistics of wavefront samples.
//
// Spatial statistics are computed over a catalog of points, temporal ones
// over the sample times of a series. Both bin every ordered point pair by
// separation and reduce the pair samples of each bin to a mean and a
// variance estimate.
//
// # Correlation and Structure Functions
//
//	bins, _ := binning.Linear(1, 40, 15)
//
//	// xi(r): mean of v_i * v_j. Centered catalogs get a zero-lag entry.
//	xi, err := stats.Xi(cat, bins, nil)
//
//	// D(r): mean of (v_i - v_j)^2, computed directly.
//	d, err := stats.Structure(cat, bins, nil)
//
// Bins without pairs hold NaN and are listed in the result's Warnings.
//
// # Variance Estimation
//
//	opts := stats.DefaultOptions().WithSeed(42)
//	opts.Variance = stats.Bootstrap
//	opts.NumBootstrap = 1000
//	opts.ResampleSize = 500
//
// Each bin draws from its own random stream, so seeded results do not
// depend on Options.Workers.
//
// # Averaging Frames
//
//	avg, err := stats.AverageXi(frames, bins, 0.1807, opts)
//	sf, err := stats.ToStructure(avg)
//	fit, err := stats.FitPowerLaw(sf, 10)
//	// fit.Offset + fit.Amplitude * r^fit.Exponent
//
// # Temporal Statistics
//
//	lagged, err := stats.AverageLagged(traces, 50, 50, opts)
//
// # Tables
//
// Results are written as three whitespace separated columns (r, statistic,
// variance) with WriteCorrelation, WriteStructure, or the Save variants,
// and read back with ReadTable.
package stats
