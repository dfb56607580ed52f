// Package binning partitions a separation axis into contiguous radial bins.
//
// Bins are half-open intervals [Lower, Upper) laid out with linear spacing.
// Adjacent bins share the exact same edge value, so a separation that lands
// on an edge is counted in exactly one bin.
//
// # Spatial Bins
//
// Build bins over a strictly positive separation range:
//
//	bins, err := binning.Linear(1, 40, 15)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mids := binning.Mids(bins)
//
// # Temporal Lag Bins
//
// Time-lag statistics start at lag zero:
//
//	bins, err := binning.Lags(50, 50)
//
// The synthetic zero-lag bin returned by ZeroLag represents the auto term.
// Prepending it is left to the estimator that needs it.
package binning
