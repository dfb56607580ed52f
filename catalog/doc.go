// Package catalog builds the 2-D point sets consumed by the spatial
// two-point statistics.
//
// A Catalog holds positions, the scalar value sampled at each position, and
// whether the values have had their mean removed. Catalogs are usually built
// from images: every unmasked pixel becomes one point.
//
//	cat, err := catalog.FromGrid(image, mask, true)
//
// Stacks of frames become per-pixel time series for temporal statistics:
//
//	traces, err := catalog.TemporalTraces(frames, mask)
//
// and a T x K matrix of model coefficients becomes one series per
// coefficient:
//
//	traces := catalog.CoefficientTraces(coeffs)
package catalog
