package plotting

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kjstillabower/bike-rental-dashboard/internal/charts"
	"github.com/kjstillabower/bike-rental-dashboard/internal/dataset"
	"github.com/kjstillabower/bike-rental-dashboard/internal/views"
)

func sampleCharts() []charts.Chart {
	return []charts.Chart{
		{
			Kind:       charts.KindBox,
			Title:      "box",
			Categories: []string{"1", "2"},
			Boxes: []charts.Box{
				{Category: "1", Values: []float64{1, 2, 3, 4, 50}},
				{Category: "2", Values: []float64{3, 4, 5}},
			},
		},
		{
			Kind:      charts.KindScatter,
			Title:     "scatter",
			Points:    []charts.Point{{X: 0.1, Y: 10}, {X: 0.5, Y: 40}},
			Opacity:   0.6,
			PointSize: 8,
		},
		{
			Kind:       charts.KindLine,
			Title:      "line",
			Points:     []charts.Point{{X: 1, Y: 15}, {X: 2, Y: 30}},
			Categories: []string{"1", "2"},
			Markers:    true,
		},
		{
			Kind:       charts.KindBar,
			Title:      "bar",
			Categories: []string{"non-working day", "working day"},
			Bars: []charts.Bar{
				{Category: "non-working day", Value: 6, Color: "#ef553b"},
				{Category: "working day", Value: 21, Color: "#636efa"},
			},
		},
	}
}

func TestRender_SVG(t *testing.T) {
	r, err := NewRenderer(4, 3, "svg")
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	for _, c := range sampleCharts() {
		out, err := r.Render(c)
		if err != nil {
			t.Errorf("Render(%s) error = %v", c.Kind, err)
			continue
		}
		if !bytes.Contains(out, []byte("<svg")) {
			t.Errorf("Render(%s) output is not SVG", c.Kind)
		}
	}
	if r.ContentType() != "image/svg+xml" {
		t.Errorf("ContentType() = %q", r.ContentType())
	}
}

func TestRender_PNG(t *testing.T) {
	r, err := NewRenderer(2, 2, "PNG")
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	out, err := r.Render(sampleCharts()[3])
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Error("Render() output missing PNG signature")
	}
	if r.Format() != FormatPNG || r.ContentType() != "image/png" {
		t.Errorf("Format/ContentType = %q/%q", r.Format(), r.ContentType())
	}
}

func TestNewRenderer_UnsupportedFormat(t *testing.T) {
	if _, err := NewRenderer(4, 3, "gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("NewRenderer(gif) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRender_UnknownKind(t *testing.T) {
	r, _ := NewRenderer(4, 3, "")
	if _, err := r.Render(charts.Chart{Kind: "pie"}); err == nil {
		t.Error("Render(pie) expected error")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#ff8000")
	if err != nil {
		t.Fatalf("parseHexColor() error = %v", err)
	}
	r, g, b, a := c.RGBA()
	if r>>8 != 0xff || g>>8 != 0x80 || b>>8 != 0 || a>>8 != 0xff {
		t.Errorf("parseHexColor(#ff8000) = %v", c)
	}
	if _, err := parseHexColor("#fff"); err == nil {
		t.Error("parseHexColor(#fff) expected error")
	}
	if _, err := parseHexColor("#zzzzzz"); err == nil {
		t.Error("parseHexColor(#zzzzzz) expected error")
	}
}

// TestRender_PanelWithBlankCells draws every chart of every view built from a
// table with blank cells, which must never reach the plotter as NaN.
func TestRender_PanelWithBlankCells(t *testing.T) {
	raw, err := dataset.Parse(strings.NewReader(`season,holiday,weathersit,temp,cnt
1,0,1,0.2,10
1,0,1,0.3,
2,0,2,0.5,30
2,1,,0.6,40
3,1,2,,50
`), 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	tbl, err := dataset.DeriveDayType(raw)
	if err != nil {
		t.Fatalf("DeriveDayType() error = %v", err)
	}
	r, err := NewRenderer(4, 3, "svg")
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	for _, v := range views.All() {
		p, err := charts.Render(tbl, v)
		if err != nil {
			t.Fatalf("charts.Render(%s) error = %v", v, err)
		}
		for i, c := range p.Charts() {
			if _, err := r.Render(c); err != nil {
				t.Errorf("Render(%s chart %d) error = %v", v, i, err)
			}
		}
	}
}
