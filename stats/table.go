package stats

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// WriteTable writes one row per bin with three whitespace-separated
// columns in %.18e notation. NaN is written as "nan".
func WriteTable(w io.Writer, r, stat, v []float64) error {
	if len(r) != len(stat) || len(r) != len(v) {
		return errors.Wrapf(ErrInvalidParameter, "column lengths differ: %d, %d, %d", len(r), len(stat), len(v))
	}
	bw := bufio.NewWriter(w)
	for k := range r {
		if _, err := fmt.Fprintf(bw, "%s %s %s\n", formatCell(r[k]), formatCell(stat[k]), formatCell(v[k])); err != nil {
			return errors.Wrapf(err, "write row %d", k)
		}
	}
	return errors.Wrap(bw.Flush(), "flush table")
}

// WriteCorrelation writes r, xi and varxi.
func WriteCorrelation(w io.Writer, c *CorrelationResult) error {
	return WriteTable(w, c.R, c.Xi, c.VarXi)
}

// WriteStructure writes r, D and varD.
func WriteStructure(w io.Writer, s *StructureResult) error {
	return WriteTable(w, s.R, s.D, s.VarD)
}

// SaveCorrelation writes a correlation table to path.
func SaveCorrelation(path string, c *CorrelationResult) error {
	return saveTable(path, func(w io.Writer) error { return WriteCorrelation(w, c) })
}

// SaveStructure writes a structure table to path.
func SaveStructure(path string, s *StructureResult) error {
	return saveTable(path, func(w io.Writer) error { return WriteStructure(w, s) })
}

func saveTable(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return write(f)
}

// ReadTable parses a table written by WriteTable. Blank lines and lines
// starting with '#' are skipped.
func ReadTable(rd io.Reader) (r, stat, v []float64, err error) {
	sc := bufio.NewScanner(rd)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, nil, nil, errors.Wrapf(ErrMalformedTable, "line %d: %d columns", line, len(fields))
		}
		var row [3]float64
		for i, f := range fields {
			x, perr := strconv.ParseFloat(f, 64)
			if perr != nil {
				return nil, nil, nil, errors.Wrapf(ErrMalformedTable, "line %d: %q", line, f)
			}
			row[i] = x
		}
		r = append(r, row[0])
		stat = append(stat, row[1])
		v = append(v, row[2])
	}
	if err := sc.Err(); err != nil {
		return nil, nil, nil, errors.Wrap(err, "read table")
	}
	return r, stat, v, nil
}

func formatCell(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	return strconv.FormatFloat(x, 'e', 18, 64)
}
