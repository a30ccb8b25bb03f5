package views

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownView is returned for a slug that does not name one of the fixed views.
var ErrUnknownView = errors.New("unknown view")

// View is one of the three fixed dashboard options.
type View int

const (
	WeatherTemperature View = iota
	SeasonalTrend
	WorkingVsHoliday

	// Count is the number of views. Not a view itself.
	Count
)

// Default is the view shown when nothing has been selected.
const Default = WeatherTemperature

// All returns the views in selector order.
func All() []View {
	return []View{WeatherTemperature, SeasonalTrend, WorkingVsHoliday}
}

// Valid reports whether v is one of the fixed views.
func (v View) Valid() bool {
	return v >= 0 && v < Count
}

// Label is the option text shown in the selector.
func (v View) Label() string {
	switch v {
	case WeatherTemperature:
		return "Effect of Weather and Temperature on Bike Rentals"
	case SeasonalTrend:
		return "Bike Usage Trend by Season"
	case WorkingVsHoliday:
		return "Bike Usage on Working Days and Holidays"
	default:
		return ""
	}
}

// Slug is the URL-safe identifier used in query strings and routes.
func (v View) Slug() string {
	switch v {
	case WeatherTemperature:
		return "weather-temperature"
	case SeasonalTrend:
		return "seasonal-trend"
	case WorkingVsHoliday:
		return "working-vs-holiday"
	default:
		return "unknown"
	}
}

func (v View) String() string {
	return v.Slug()
}

// Parse resolves a slug to a view. Matching ignores case and surrounding whitespace.
func Parse(slug string) (View, error) {
	s := strings.ToLower(strings.TrimSpace(slug))
	for _, v := range All() {
		if v.Slug() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownView, slug)
}

// Select returns the view named by raw, falling back to Default when raw is empty
// or unknown. The same input always yields the same view, so a re-render without a
// change keeps the current selection.
func Select(raw string) View {
	v, err := Parse(raw)
	if err != nil {
		return Default
	}
	return v
}

// Option is one entry of the selector.
type Option struct {
	Slug     string
	Label    string
	Selected bool
}

// Options returns the selector entries with current marked as selected.
func Options(current View) []Option {
	all := All()
	opts := make([]Option, len(all))
	for i, v := range all {
		opts[i] = Option{Slug: v.Slug(), Label: v.Label(), Selected: v == current}
	}
	return opts
}
