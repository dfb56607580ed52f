// Package neighbor provides spatial indices answering "which points lie
// within a separation range of point i" queries.
//
// Two implementations satisfy Index:
//
//   - KDTree indexes 2-D positions with a k-d tree.
//   - Line indexes 1-D coordinates (times or lags) with a sorted array.
//
// A shell is the set of neighbors j of point i whose separation falls in
// [lower, upper). Zero-separation pairs, including i itself and any
// duplicate positions, are never reported.
//
//	idx := neighbor.NewKDTree(points)
//	shell := idx.Shell(i, 0.5, 1.5)
//
// Indices are immutable after construction and safe for concurrent queries.
package neighbor
