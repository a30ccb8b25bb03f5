package dataset

import (
	"github.com/go-gota/gota/series"
)

// Day type labels.
const (
	NonWorkingDay = "non-working day"
	WorkingDay    = "working day"
)

// DayTypeFor maps a holiday flag to its day type label.
func DayTypeFor(holiday float64) string {
	if holiday == 1 {
		return NonWorkingDay
	}
	return WorkingDay
}

// DeriveDayType returns a new table with a day_type column computed from holiday.
// The input table is not modified. A missing holiday column is a configuration
// error and is returned as ErrMissingColumn.
func DeriveDayType(t *Table) (*Table, error) {
	holidays, err := t.Floats(ColHoliday)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(holidays))
	for i, h := range holidays {
		labels[i] = DayTypeFor(h)
	}
	df := t.df.Mutate(series.New(labels, series.String, ColDayType))
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df}, nil
}
