package stats

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sartorproj/wavecorr/binning"
)

var (
	// ErrEmptyCatalog is returned when fewer than 2 usable points are supplied.
	ErrEmptyCatalog = errors.New("catalog has fewer than 2 points")
	// ErrInvalidParameter is returned for malformed estimator or bootstrap parameters.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInsufficientData is returned when a fit or conversion lacks data.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrFitConvergence is returned when the power-law fit does not converge.
	ErrFitConvergence = errors.New("fit did not converge")
	// ErrMalformedTable is returned when a result table cannot be parsed.
	ErrMalformedTable = errors.New("malformed table")
)

// EmptyBinWarning reports a bin that received no pairs. Its statistic and
// variance are NaN. It is carried in results, never returned as the error of
// a call.
type EmptyBinWarning struct {
	Index int // position in the result arrays
	Bin   binning.Bin
}

func (w EmptyBinWarning) Error() string {
	return fmt.Sprintf("bin %d [%g, %g) has no pairs", w.Index, w.Bin.Lower, w.Bin.Upper)
}

func shiftWarnings(ws []EmptyBinWarning, by int) []EmptyBinWarning {
	if len(ws) == 0 {
		return nil
	}
	out := make([]EmptyBinWarning, len(ws))
	for i, w := range ws {
		w.Index += by
		out[i] = w
	}
	return out
}
