// Package timeseries provides the 1-D point set consumed by the temporal
// lag statistics.
//
// A Series pairs a time coordinate with a scalar value. Times need not be
// uniformly spaced or sorted; the lag between two samples is |t_i - t_j|.
//
// # Creating a Series
//
// Create a series sampled at t = 0, 1, 2, ...:
//
//	values := []float64{0.12, -0.05, 0.31, 0.02}
//	series := timeseries.New(values)
//
// Or with explicit sample times:
//
//	series, err := timeseries.NewWithTimes(times, values)
//
// # Centering
//
// Correlation estimates assume a mean-zero field:
//
//	centered := series.Centered()
//
// # Loading from CSV
//
// Load a series from CSV with a time column and a value column:
//
//	series, err := timeseries.LoadCSV("trace.csv", nil)
//
//	opts := &timeseries.CSVOptions{
//	    TimeColumn:  "t",
//	    ValueColumn: "phase",
//	    HasHeader:   true,
//	    Delimiter:   ',',
//	}
//	series, err := timeseries.LoadCSVFromReader(reader, opts)
package timeseries
