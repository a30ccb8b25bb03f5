package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kjstillabower/bike-rental-dashboard/internal/views"
)

type fakeSource struct {
	mu       sync.Mutex
	counts   map[views.View]int
	countErr error
	failView views.View
	fail     bool
	rendered map[string]int
}

func (f *fakeSource) ChartCount(ctx context.Context, v views.View) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[v], nil
}

func (f *fakeSource) ChartImage(ctx context.Context, v views.View, index int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rendered == nil {
		f.rendered = make(map[string]int)
	}
	f.rendered[v.Slug()]++
	if f.fail && v == f.failView {
		return nil, errors.New("boom")
	}
	return []byte("img"), nil
}

func TestWarmer_RendersEveryChart(t *testing.T) {
	src := &fakeSource{counts: map[views.View]int{
		views.WeatherTemperature: 2,
		views.SeasonalTrend:      1,
		views.WorkingVsHoliday:   1,
	}}
	w := NewWarmer(src, zap.NewNop())
	if err := w.Warm(context.Background()); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	if src.rendered["weather-temperature"] != 2 || src.rendered["seasonal-trend"] != 1 || src.rendered["working-vs-holiday"] != 1 {
		t.Errorf("rendered = %v", src.rendered)
	}
}

func TestWarmer_AggregatesErrors(t *testing.T) {
	src := &fakeSource{
		counts:   map[views.View]int{views.WeatherTemperature: 2, views.SeasonalTrend: 1},
		fail:     true,
		failView: views.WeatherTemperature,
	}
	err := NewWarmer(src, nil).Warm(context.Background())
	if err == nil {
		t.Fatal("Warm() expected error")
	}
	if !strings.Contains(err.Error(), "weather-temperature/0") || !strings.Contains(err.Error(), "weather-temperature/1") {
		t.Errorf("Warm() error = %v, want both failing charts reported", err)
	}
}

func TestWarmer_CountError(t *testing.T) {
	sentinel := errors.New("empty")
	src := &fakeSource{countErr: sentinel}
	err := NewWarmer(src, nil).Warm(context.Background())
	if !errors.Is(err, sentinel) {
		t.Errorf("Warm() error = %v, want wrapped sentinel", err)
	}
}
