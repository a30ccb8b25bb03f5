package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrDataUnavailable is returned when the source file is missing or is not
// parseable as delimited tabular data.
var ErrDataUnavailable = errors.New("data unavailable")

const utf8BOM = "\ufeff"

// missingValues are the cells loaded as NA. Blank cells are missing, as in pandas.
var missingValues = []string{"", "NA", "NaN", "<nil>"}

// Load reads the delimited file at path. delimiter 0 means comma.
func Load(path string, delimiter rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDataUnavailable, path, err)
	}
	defer f.Close()

	t, err := Parse(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse reads delimited records from r, normalizes the header and builds the table.
// A header without rows yields an empty table rather than an error.
func Parse(r io.Reader, delimiter rune) (*Table, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrDataUnavailable)
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	for i, h := range header {
		header[i] = NormalizeColumn(h)
	}

	if len(records) == 1 {
		t, err := emptyTable(header)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
		}
		return t, nil
	}

	df := dataframe.LoadRecords(records, dataframe.NaNValues(missingValues))
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, df.Err)
	}
	return &Table{df: df}, nil
}

// emptyTable builds a zero-row table with the given column names.
func emptyTable(names []string) (*Table, error) {
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = series.New([]string{}, series.String, name)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df}, nil
}
