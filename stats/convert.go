package stats

import (
	"github.com/pkg/errors"
)

// ToStructure converts a correlation function whose first entry is the
// zero-lag term into a structure function:
//
//	D[k]    = 2 * (xi[0] - xi[k])
//	varD[k] = 2 * (varxi[0] + varxi[k])
//
// D[0] is therefore exactly 0.
func ToStructure(c *CorrelationResult) (*StructureResult, error) {
	if c == nil || len(c.Xi) == 0 {
		return nil, errors.Wrap(ErrInsufficientData, "empty correlation result")
	}
	n := len(c.Xi)
	if len(c.R) != n || len(c.VarXi) != n {
		return nil, errors.Wrapf(ErrInsufficientData, "mismatched lengths r=%d xi=%d varxi=%d", len(c.R), n, len(c.VarXi))
	}

	s := &StructureResult{
		R:    append([]float64(nil), c.R...),
		D:    make([]float64, n),
		VarD: make([]float64, n),
	}
	xi0, varxi0 := c.Xi[0], c.VarXi[0]
	for k := range c.Xi {
		s.D[k] = 2 * (xi0 - c.Xi[k])
		s.VarD[k] = 2 * (varxi0 + c.VarXi[k])
	}
	if c.NPairs != nil {
		s.NPairs = append([]int(nil), c.NPairs...)
	}
	if c.Warnings != nil {
		s.Warnings = append([]EmptyBinWarning(nil), c.Warnings...)
	}
	return s, nil
}
