package catalog

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// CSVOptions holds options for loading a catalog from CSV.
type CSVOptions struct {
	XColumn     string // default: "x"
	YColumn     string // default: "y"
	ValueColumn string // default: "value"
	Delimiter   rune   // default: ','
	Centered    bool   // mark the loaded catalog as mean-centered
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		XColumn:     "x",
		YColumn:     "y",
		ValueColumn: "value",
		Delimiter:   ',',
	}
}

// LoadCSV reads a catalog from CSV with a header naming the x, y and value
// columns. Rows with any unparsable field are skipped.
func LoadCSV(r io.Reader, opts *CSVOptions) (*Catalog, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}

	xIdx, yIdx, vIdx := -1, -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case opts.XColumn:
			xIdx = i
		case opts.YColumn:
			yIdx = i
		case opts.ValueColumn:
			vIdx = i
		}
	}
	if xIdx < 0 || yIdx < 0 || vIdx < 0 {
		return nil, errors.Errorf("CSV header %v lacks columns %q, %q, %q",
			header, opts.XColumn, opts.YColumn, opts.ValueColumn)
	}

	var positions []r2.Point
	var values []float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		fields := make([]float64, 3)
		ok := true
		for k, idx := range []int{xIdx, yIdx, vIdx} {
			if idx >= len(record) {
				ok = false
				break
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
			if err != nil {
				ok = false
				break
			}
			fields[k] = v
		}
		if !ok {
			continue
		}
		positions = append(positions, r2.Point{X: fields[0], Y: fields[1]})
		values = append(values, fields[2])
	}

	if len(values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}
	return New(positions, values, opts.Centered)
}
