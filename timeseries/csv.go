package timeseries

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	TimeColumn  string // Column name for sample times (optional, default: "t")
	ValueColumn string // Column name for values (default: "value")
	HasHeader   bool   // Whether CSV has header row (default: true)
	Delimiter   rune   // Field delimiter (default: ',')
	SkipRows    int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		TimeColumn:  "t",
		ValueColumn: "value",
		HasHeader:   true,
		Delimiter:   ',',
	}
}

// LoadCSV loads a series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	s, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", filename)
	}
	return s, nil
}

// LoadCSVFromReader loads a series from an io.Reader. Rows with a missing or
// unparsable value are skipped. Without a time column, samples are placed at
// t = 0, 1, 2, ...
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	valueIdx, timeIdx := -1, -1

	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}

		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case h == opts.ValueColumn || (opts.ValueColumn == "" && (h == "value" || h == "y")):
				valueIdx = i
			case h == opts.TimeColumn || (opts.TimeColumn == "" && (h == "t" || h == "time")):
				timeIdx = i
			}
		}

		if valueIdx == -1 {
			// Default to last column if not specified
			valueIdx = len(header) - 1
		}
	} else {
		// No header: time then value
		timeIdx = 0
		valueIdx = 1
	}

	var times, values []float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if valueIdx >= len(record) {
			continue
		}

		val, ok := parseField(record[valueIdx])
		if !ok {
			continue
		}

		if timeIdx >= 0 && timeIdx < len(record) {
			t, ok := parseField(record[timeIdx])
			if !ok {
				continue
			}
			times = append(times, t)
		}
		values = append(values, val)
	}

	if len(values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}

	if len(times) == len(values) {
		return NewWithTimes(times, values)
	}
	return New(values), nil
}

func parseField(field string) (float64, bool) {
	field = strings.TrimSpace(strings.Trim(field, "\""))
	if field == "" || field == "NA" || field == "NaN" || field == "null" {
		return 0, false
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SaveCSV saves a series to a CSV file with a "t,value" header.
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := WriteCSV(writer, series); err != nil {
		return err
	}
	return writer.Flush()
}

// WriteCSV writes a series as "t,value" rows.
func WriteCSV(w io.Writer, series *Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "value"}); err != nil {
		return err
	}
	for i, v := range series.Values {
		t := float64(i)
		if len(series.Times) == len(series.Values) {
			t = series.Times[i]
		}
		row := []string{
			strconv.FormatFloat(t, 'g', -1, 64),
			strconv.FormatFloat(v, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
