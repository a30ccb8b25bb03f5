package plotting

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/kjstillabower/bike-rental-dashboard/internal/charts"
)

// Supported output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ErrUnsupportedFormat is returned for an image format other than svg or png.
var ErrUnsupportedFormat = errors.New("unsupported image format")

var (
	boxColor    = color.NRGBA{R: 99, G: 110, B: 250, A: 255}
	lineColor   = color.NRGBA{R: 99, G: 110, B: 250, A: 255}
	scatterBase = color.NRGBA{R: 99, G: 110, B: 250, A: 255}
)

// Renderer draws chart specs with gonum/plot.
type Renderer struct {
	width  vg.Length
	height vg.Length
	format string
}

// NewRenderer returns a Renderer producing images of the given size in inches.
func NewRenderer(widthIn, heightIn float64, format string) (*Renderer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatSVG
	}
	if format != FormatSVG && format != FormatPNG {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if widthIn <= 0 {
		widthIn = 8
	}
	if heightIn <= 0 {
		heightIn = 5
	}
	return &Renderer{
		width:  vg.Length(widthIn) * vg.Inch,
		height: vg.Length(heightIn) * vg.Inch,
		format: format,
	}, nil
}

// Format returns the image format, e.g. "svg".
func (r *Renderer) Format() string {
	return r.format
}

// ContentType returns the HTTP content type of rendered images.
func (r *Renderer) ContentType() string {
	return ContentType(r.format)
}

// ContentType maps an image format to its MIME type.
func ContentType(format string) string {
	switch format {
	case FormatPNG:
		return "image/png"
	default:
		return "image/svg+xml"
	}
}

// Render draws c and returns the encoded image.
func (r *Renderer) Render(c charts.Chart) ([]byte, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())

	var err error
	switch c.Kind {
	case charts.KindBox:
		err = addBoxes(p, c)
	case charts.KindScatter:
		err = addScatter(p, c)
	case charts.KindLine:
		err = addLine(p, c)
	case charts.KindBar:
		err = addBars(p, c)
	default:
		err = fmt.Errorf("unknown chart kind %q", c.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("draw %s chart: %w", c.Kind, err)
	}

	wt, err := p.WriterTo(r.width, r.height, r.format)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.format, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.format, err)
	}
	return buf.Bytes(), nil
}

func addBoxes(p *plot.Plot, c charts.Chart) error {
	for i, b := range c.Boxes {
		bp, err := plotter.NewBoxPlot(vg.Points(40), float64(i), plotter.Values(b.Values))
		if err != nil {
			return err
		}
		bp.FillColor = boxColor
		p.Add(bp)
	}
	p.NominalX(c.Categories...)
	return nil
}

func addScatter(p *plot.Plot, c charts.Chart) error {
	s, err := plotter.NewScatter(toXYs(c.Points))
	if err != nil {
		return err
	}
	col := scatterBase
	if c.Opacity > 0 && c.Opacity <= 1 {
		col.A = uint8(c.Opacity * 255)
	}
	s.GlyphStyle.Color = col
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	if c.PointSize > 0 {
		s.GlyphStyle.Radius = vg.Points(c.PointSize / 2)
	}
	p.Add(s)
	return nil
}

func addLine(p *plot.Plot, c charts.Chart) error {
	xys := toXYs(c.Points)
	if c.Markers {
		l, pts, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		l.Color = lineColor
		l.Width = vg.Points(2)
		pts.GlyphStyle.Color = lineColor
		pts.GlyphStyle.Shape = draw.CircleGlyph{}
		pts.GlyphStyle.Radius = vg.Points(4)
		p.Add(l, pts)
	} else {
		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.Color = lineColor
		l.Width = vg.Points(2)
		p.Add(l)
	}
	if len(c.Categories) == len(c.Points) {
		ticks := make(plot.ConstantTicks, len(c.Points))
		for i, pt := range c.Points {
			ticks[i] = plot.Tick{Value: pt.X, Label: c.Categories[i]}
		}
		p.X.Tick.Marker = ticks
	}
	return nil
}

func addBars(p *plot.Plot, c charts.Chart) error {
	for i, b := range c.Bars {
		bars, err := plotter.NewBarChart(plotter.Values{b.Value}, vg.Points(60))
		if err != nil {
			return err
		}
		col, err := parseHexColor(b.Color)
		if err != nil {
			return err
		}
		bars.Color = col
		bars.LineStyle.Width = vg.Length(0)
		bars.XMin = float64(i)
		p.Add(bars)
		p.Legend.Add(b.Category, bars)
	}
	p.NominalX(c.Categories...)
	p.Y.Min = 0
	return nil
}

func toXYs(points []charts.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
	}
	return xys
}

// parseHexColor parses "#rrggbb". An empty string yields the default box colour.
func parseHexColor(s string) (color.Color, error) {
	if s == "" {
		return boxColor, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
