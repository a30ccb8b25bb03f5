package charts

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"

	"github.com/kjstillabower/bike-rental-dashboard/internal/dataset"
)

// aggregated returns the column name gota gives an aggregation result.
func aggregated(col string, typ dataframe.AggregationType) string {
	return fmt.Sprintf("%s_%s", col, typ)
}

// groupAggregate groups t by key and aggregates cnt with typ, sorted ascending by key.
func groupAggregate(t *dataset.Table, key string, typ dataframe.AggregationType) (dataframe.DataFrame, error) {
	if t.Len() == 0 {
		return dataframe.DataFrame{}, ErrEmptyDataset
	}
	usable, err := t.DropMissing(key, dataset.ColCount)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if usable.Len() == 0 {
		return dataframe.DataFrame{}, ErrEmptyDataset
	}
	agg := usable.Frame().
		GroupBy(key).
		Aggregation([]dataframe.AggregationType{typ}, []string{dataset.ColCount})
	if agg.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("aggregate %s by %s: %w", dataset.ColCount, key, agg.Err)
	}
	agg = agg.Arrange(dataframe.Sort(key))
	if agg.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("sort by %s: %w", key, agg.Err)
	}
	return agg, nil
}

// SeasonMeans returns the mean rental count per season in ascending season order.
func SeasonMeans(t *dataset.Table) ([]Point, error) {
	agg, err := groupAggregate(t, dataset.ColSeason, dataframe.Aggregation_MEAN)
	if err != nil {
		return nil, err
	}
	seasons := agg.Col(dataset.ColSeason).Float()
	means := agg.Col(aggregated(dataset.ColCount, dataframe.Aggregation_MEAN)).Float()
	out := make([]Point, len(seasons))
	for i := range seasons {
		out[i] = Point{X: seasons[i], Y: means[i]}
	}
	return out, nil
}

// DayTypeSum is the total rental count of one day type.
type DayTypeSum struct {
	DayType string
	Total   float64
}

// DayTypeSums returns the summed rental count per day type, ordered by label.
func DayTypeSums(t *dataset.Table) ([]DayTypeSum, error) {
	agg, err := groupAggregate(t, dataset.ColDayType, dataframe.Aggregation_SUM)
	if err != nil {
		return nil, err
	}
	labels := agg.Col(dataset.ColDayType).Records()
	sums := agg.Col(aggregated(dataset.ColCount, dataframe.Aggregation_SUM)).Float()
	out := make([]DayTypeSum, len(labels))
	for i := range labels {
		out[i] = DayTypeSum{DayType: labels[i], Total: sums[i]}
	}
	return out, nil
}

// categoryCounts holds the rental counts of one category code.
type categoryCounts struct {
	code   float64
	counts []float64
}

// groupCounts splits the rental counts of t by key, skipping rows where either
// is missing, and returns the groups in ascending numeric key order.
func groupCounts(t *dataset.Table, key string) ([]categoryCounts, error) {
	if t.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	usable, err := t.DropMissing(key, dataset.ColCount)
	if err != nil {
		return nil, err
	}
	if usable.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	groups := usable.Frame().GroupBy(key)
	if groups.Err != nil {
		return nil, fmt.Errorf("group %s by %s: %w", dataset.ColCount, key, groups.Err)
	}
	out := make([]categoryCounts, 0, len(groups.GetGroups()))
	for _, g := range groups.GetGroups() {
		out = append(out, categoryCounts{
			code:   g.Col(key).Float()[0],
			counts: g.Col(dataset.ColCount).Float(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].code < out[j].code })
	return out, nil
}

func formatCode(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
