// Package wavecorr estimates two-point statistics of adaptive-optics
// wavefront telemetry.
//
// Wavefront frames are turned into point catalogs (pixel position, phase
// value), and every ordered pair of points is binned by separation. Each
// bin is reduced to the mean pair sample and a variance estimate, giving
// the correlation function xi(r) or the structure function D(r). The same
// machinery runs over frame times to give temporal statistics of pixel or
// modal-coefficient traces.
//
// # Features
//
//   - Spatial xi(r) and D(r) over KD-tree shell queries
//   - Direct or bootstrap variance per bin, seedable and reproducible
//   - Averaging across frames with the zero-lag term
//   - Conversion D(r) = 2(xi(0) - xi(r)) and power-law fitting
//   - Temporal statistics over frame lags
//   - Three-column result tables
//
// # Quick Start
//
//	cats, _ := catalog.FromGrids(frames, catalog.AnnularMask(43, 3, 21.5), true)
//	bins, _ := binning.Linear(1, 40, 15)
//	xi, _ := stats.AverageXi(cats, bins, 7.77/43, nil)
//	d, _ := stats.ToStructure(xi)
//	fit, _ := stats.FitPowerLaw(d, 10)
//
// # Packages
//
//   - binning: Separation and lag bins
//   - neighbor: Radial shell queries in 1-D and 2-D
//   - catalog: Point catalogs from grids, masks and CSV files
//   - timeseries: Sampled series used for temporal statistics
//   - stats: Estimators, bootstrap, conversion, fitting and tables
//   - config: YAML configuration with environment overrides
//   - logging: zap logger construction
package wavecorr
