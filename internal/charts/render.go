package charts

import (
	"fmt"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kjstillabower/bike-rental-dashboard/internal/dataset"
	"github.com/kjstillabower/bike-rental-dashboard/internal/views"
)

// Scatter point styling for the temperature chart.
const (
	scatterOpacity   = 0.6
	scatterPointSize = 8
)

// Bar colours per day type.
var dayTypeColors = map[string]string{
	dataset.WorkingDay:    "#636efa",
	dataset.NonWorkingDay: "#ef553b",
}

type renderFunc func(*dataset.Table) (Panel, error)

// renderers has one entry per view; TestRender_EveryViewHasRenderer keeps it total.
var renderers = [views.Count]renderFunc{
	views.WeatherTemperature: WeatherTemperature,
	views.SeasonalTrend:      SeasonalTrend,
	views.WorkingVsHoliday:   WorkingVsHoliday,
}

// Render builds the panel for v from t. t is only read.
func Render(t *dataset.Table, v views.View) (Panel, error) {
	if !v.Valid() {
		return Panel{}, fmt.Errorf("%w: %d", views.ErrUnknownView, int(v))
	}
	return renderers[v](t)
}

// WeatherTemperature renders the rental distribution per weather situation and
// the temperature/rental scatter.
func WeatherTemperature(t *dataset.Table) (Panel, error) {
	groups, err := groupCounts(t, dataset.ColWeather)
	if err != nil {
		return Panel{}, err
	}
	observed, err := t.DropMissing(dataset.ColTemp, dataset.ColCount)
	if err != nil {
		return Panel{}, err
	}
	temps, err := observed.Floats(dataset.ColTemp)
	if err != nil {
		return Panel{}, err
	}
	counts, err := observed.Floats(dataset.ColCount)
	if err != nil {
		return Panel{}, err
	}

	box := Chart{
		Kind:   KindBox,
		Title:  "Rental Count Distribution by Weather",
		XLabel: "Weather Condition",
		YLabel: "Rental Count",
	}
	for _, g := range groups {
		b, err := summarize(formatCode(g.code), g.counts)
		if err != nil {
			return Panel{}, err
		}
		box.Categories = append(box.Categories, b.Category)
		box.Boxes = append(box.Boxes, b)
	}

	scatter := Chart{
		Kind:      KindScatter,
		Title:     "Relationship between Temperature and Bike Rentals",
		XLabel:    "Temperature (Normalized)",
		YLabel:    "Rental Count",
		Points:    make([]Point, len(temps)),
		Opacity:   scatterOpacity,
		PointSize: scatterPointSize,
	}
	for i := range temps {
		scatter.Points[i] = Point{X: temps[i], Y: counts[i]}
	}

	return newPanel(views.WeatherTemperature,
		Section{
			Heading: box.Title,
			Chart:   box,
			Captions: []Caption{
				{Heading: "Legend", Text: "1: Good weather (clear)   2: Moderate weather (cloudy)   3: Poor weather (rain or snow)"},
				{Heading: "Explanation", Text: "This box plot shows the distribution of bike rentals by weather condition. " +
					"In general, weather affects the number of rentals: better weather conditions tend to have more bike rentals."},
			},
		},
		Section{
			Heading: scatter.Title,
			Chart:   scatter,
			Captions: []Caption{
				{Heading: "Explanation", Text: "This scatter plot shows a positive correlation between temperature and bike rentals, " +
					"meaning the number of rentals tends to increase as the temperature rises."},
			},
		},
	), nil
}

// SeasonalTrend renders the mean rental count per season as a line with markers.
func SeasonalTrend(t *dataset.Table) (Panel, error) {
	means, err := SeasonMeans(t)
	if err != nil {
		return Panel{}, err
	}
	line := Chart{
		Kind:    KindLine,
		Title:   "Bike Usage Trend by Season",
		XLabel:  "Season",
		YLabel:  "Average Rental Count",
		Points:  means,
		Markers: true,
	}
	for _, p := range means {
		line.Categories = append(line.Categories, formatCode(p.X))
	}
	return newPanel(views.SeasonalTrend, Section{
		Heading: line.Title,
		Chart:   line,
		Captions: []Caption{
			{Heading: "Legend", Text: "1: Spring   2: Summer   3: Fall   4: Winter"},
			{Heading: "Explanation", Text: "This line plot shows the average bike usage by season. " +
				"Rentals peak in fall, while spring has the lowest number of rentals."},
		},
	}), nil
}

// WorkingVsHoliday renders total rentals per day type as a two-bar chart.
func WorkingVsHoliday(t *dataset.Table) (Panel, error) {
	sums, err := DayTypeSums(t)
	if err != nil {
		return Panel{}, err
	}
	bar := Chart{
		Kind:   KindBar,
		Title:  "Rentals on Working Days vs Holidays",
		XLabel: "Day Type",
		YLabel: "Rental Count",
	}
	for _, s := range sums {
		bar.Categories = append(bar.Categories, s.DayType)
		bar.Bars = append(bar.Bars, Bar{Category: s.DayType, Value: s.Total, Color: dayTypeColors[s.DayType]})
	}
	return newPanel(views.WorkingVsHoliday, Section{
		Heading: bar.Title,
		Chart:   bar,
		Captions: []Caption{
			{Heading: "Explanation", Text: "This bar chart shows that bike rentals on working days are higher than on holidays."},
		},
	}), nil
}

// summarize computes box-plot statistics with gonum/plot's BoxPlot so the JSON
// spec and the drawn image agree.
func summarize(category string, values []float64) (Box, error) {
	bp, err := plotter.NewBoxPlot(vg.Points(20), 0, plotter.Values(values))
	if err != nil {
		return Box{}, fmt.Errorf("box plot %s: %w", category, err)
	}
	b := Box{
		Category:  category,
		N:         len(values),
		Median:    bp.Median,
		Quartile1: bp.Quartile1,
		Quartile3: bp.Quartile3,
		AdjLow:    bp.AdjLow,
		AdjHigh:   bp.AdjHigh,
		Values:    append([]float64(nil), values...),
	}
	for _, i := range bp.Outside {
		b.Outliers = append(b.Outliers, values[i])
	}
	return b, nil
}
