package charts

import (
	"errors"

	"github.com/kjstillabower/bike-rental-dashboard/internal/views"
)

// ErrEmptyDataset is returned when a renderer receives a table with zero rows.
var ErrEmptyDataset = errors.New("empty dataset")

// Kind is the chart type of a Chart.
type Kind string

const (
	KindBox     Kind = "box"
	KindScatter Kind = "scatter"
	KindLine    Kind = "line"
	KindBar     Kind = "bar"
)

// Point is one (x, y) observation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box holds the distribution of one category. Values are kept for drawing and
// omitted from JSON; the summary fields carry the box-plot semantics.
type Box struct {
	Category  string    `json:"category"`
	N         int       `json:"n"`
	Median    float64   `json:"median"`
	Quartile1 float64   `json:"q1"`
	Quartile3 float64   `json:"q3"`
	AdjLow    float64   `json:"whiskerLow"`
	AdjHigh   float64   `json:"whiskerHigh"`
	Outliers  []float64 `json:"outliers,omitempty"`
	Values    []float64 `json:"-"`
}

// Bar is one bar of a categorical bar chart.
type Bar struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Color    string  `json:"color"`
}

// Chart is a declarative chart specification. Exactly one of Boxes, Points or
// Bars is populated depending on Kind.
type Chart struct {
	Kind       Kind     `json:"kind"`
	Title      string   `json:"title"`
	XLabel     string   `json:"xLabel"`
	YLabel     string   `json:"yLabel"`
	Categories []string `json:"categories,omitempty"`
	Boxes      []Box    `json:"boxes,omitempty"`
	Points     []Point  `json:"points,omitempty"`
	Bars       []Bar    `json:"bars,omitempty"`
	Markers    bool     `json:"markers,omitempty"`
	Opacity    float64  `json:"opacity,omitempty"`
	PointSize  float64  `json:"pointSize,omitempty"`
}

// Caption is a fixed explanatory text block, e.g. a legend of category codes.
type Caption struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// Section is one subheading with its chart and captions.
type Section struct {
	Heading  string    `json:"heading"`
	Chart    Chart     `json:"chart"`
	Captions []Caption `json:"captions"`
}

// Panel is everything a view renders below the selector.
type Panel struct {
	View     views.View `json:"-"`
	Slug     string     `json:"view"`
	Label    string     `json:"label"`
	Sections []Section  `json:"sections"`
}

// Charts returns the panel's charts in display order.
func (p Panel) Charts() []Chart {
	out := make([]Chart, len(p.Sections))
	for i, s := range p.Sections {
		out[i] = s.Chart
	}
	return out
}

func newPanel(v views.View, sections ...Section) Panel {
	return Panel{View: v, Slug: v.Slug(), Label: v.Label(), Sections: sections}
}
