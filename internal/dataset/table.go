package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/hashicorp/go-multierror"
)

// Column names after normalization.
const (
	ColWeather = "weathersit"
	ColTemp    = "temp"
	ColSeason  = "season"
	ColHoliday = "holiday"
	ColCount   = "cnt"
	ColDayType = "day_type"
)

// RequiredColumns are the source columns every view reads.
var RequiredColumns = []string{ColWeather, ColTemp, ColSeason, ColHoliday, ColCount}

// ErrMissingColumn is returned when a column lookup fails after normalization.
// It signals a schema/configuration mismatch, not a recoverable runtime condition.
var ErrMissingColumn = errors.New("missing column")

// Table is a read-only view over a rental dataframe. Callers never get a handle
// that can modify the underlying frame.
type Table struct {
	df dataframe.DataFrame
}

// NormalizeColumn trims surrounding whitespace and lowercases a column name.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.df.Nrow()
}

// Names returns the normalized column names in file order.
func (t *Table) Names() []string {
	return t.df.Names()
}

// Has reports whether the table has the named column.
func (t *Table) Has(col string) bool {
	col = NormalizeColumn(col)
	for _, n := range t.df.Names() {
		if n == col {
			return true
		}
	}
	return false
}

// Floats returns a column as float64 values. Non-numeric cells become NaN.
func (t *Table) Floats(col string) ([]float64, error) {
	col = NormalizeColumn(col)
	if !t.Has(col) {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
	}
	return t.df.Col(col).Float(), nil
}

// Strings returns a column as its string records.
func (t *Table) Strings(col string) ([]string, error) {
	col = NormalizeColumn(col)
	if !t.Has(col) {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
	}
	return t.df.Col(col).Records(), nil
}

// Records returns the header followed by every row as strings.
func (t *Table) Records() [][]string {
	return t.df.Records()
}

// Frame returns a copy of the underlying dataframe for aggregation.
func (t *Table) Frame() dataframe.DataFrame {
	return t.df.Copy()
}

// RequireColumns checks that every named column is present, reporting all
// missing names at once.
func RequireColumns(t *Table, cols ...string) error {
	var result *multierror.Error
	for _, c := range cols {
		if !t.Has(c) {
			result = multierror.Append(result, fmt.Errorf("%w: %q", ErrMissingColumn, NormalizeColumn(c)))
		}
	}
	return result.ErrorOrNil()
}

// DropMissing returns the rows where every named column holds a value, the way
// pandas skips NA in group-by aggregates. t is not modified; it is returned
// as-is when no row is missing a value.
func (t *Table) DropMissing(cols ...string) (*Table, error) {
	if err := RequireColumns(t, cols...); err != nil {
		return nil, err
	}
	kept := t.Len()
	missing := make([]bool, t.Len())
	for _, c := range cols {
		for i, na := range t.df.Col(NormalizeColumn(c)).IsNaN() {
			if na && !missing[i] {
				missing[i] = true
				kept--
			}
		}
	}
	switch kept {
	case t.Len():
		return t, nil
	case 0:
		return emptyTable(t.Names())
	}

	present := func(el series.Element) bool { return !el.IsNA() }
	filters := make([]dataframe.F, len(cols))
	for i, c := range cols {
		filters[i] = dataframe.F{Colname: NormalizeColumn(c), Comparator: series.CompFunc, Comparando: present}
	}
	df := t.df.FilterAggregation(dataframe.And, filters...)
	if df.Err != nil {
		return nil, fmt.Errorf("drop missing %v: %w", cols, df.Err)
	}
	return &Table{df: df}, nil
}
