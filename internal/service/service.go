package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/bike-rental-dashboard/internal/cache"
	"github.com/kjstillabower/bike-rental-dashboard/internal/charts"
	"github.com/kjstillabower/bike-rental-dashboard/internal/dataset"
	"github.com/kjstillabower/bike-rental-dashboard/internal/observability"
	"github.com/kjstillabower/bike-rental-dashboard/internal/views"
)

// ErrChartNotFound is returned when a chart index is outside the view's panel.
var ErrChartNotFound = errors.New("chart not found")

// ChartRenderer draws a chart spec into an encoded image.
type ChartRenderer interface {
	Render(c charts.Chart) ([]byte, error)
	Format() string
	ContentType() string
}

// DashboardService builds view panels from the loaded dataset and serves their
// chart images through a cache-aside layer. The table is never mutated after
// construction, so all methods are safe for concurrent use.
type DashboardService struct {
	table     *dataset.Table
	renderer  ChartRenderer
	cache     cache.Cache
	ttl       time.Duration
	coalescer *renderCoalescer // nil if disabled
}

// NewDashboardService creates a DashboardService over an enriched table.
// ttl is the chart image cache expiration; coalesceTimeout bounds how long a
// caller waits on another caller's render (0 disables coalescing).
func NewDashboardService(table *dataset.Table, renderer ChartRenderer, c cache.Cache, ttl, coalesceTimeout time.Duration) *DashboardService {
	var coalescer *renderCoalescer
	if coalesceTimeout > 0 {
		coalescer = newRenderCoalescer(coalesceTimeout)
	}
	return &DashboardService{
		table:     table,
		renderer:  renderer,
		cache:     c,
		ttl:       ttl,
		coalescer: coalescer,
	}
}

// Rows returns the number of rows in the loaded dataset.
func (s *DashboardService) Rows() int {
	return s.table.Len()
}

// ContentType returns the MIME type of chart images.
func (s *DashboardService) ContentType() string {
	return s.renderer.ContentType()
}

// Panel renders the panel spec for v. Returns charts.ErrEmptyDataset when the
// dataset has no rows and views.ErrUnknownView for an invalid view.
func (s *DashboardService) Panel(ctx context.Context, v views.View) (charts.Panel, error) {
	if !v.Valid() {
		return charts.Panel{}, views.ErrUnknownView
	}
	start := time.Now()
	logger := observability.LoggerFromContext(ctx)

	panel, err := charts.Render(s.table, v)
	status := "success"
	switch {
	case errors.Is(err, charts.ErrEmptyDataset):
		status = "empty"
	case err != nil:
		status = "error"
	}
	observability.RecordPanelRender(v.Slug(), status, time.Since(start))
	if err != nil {
		if logger != nil && status == "error" {
			logger.Error("panel render failed", zap.String("view", v.Slug()), zap.Error(err))
		}
		return charts.Panel{}, fmt.Errorf("render %s: %w", v.Slug(), err)
	}
	if logger != nil {
		logger.Debug("panel rendered", zap.String("view", v.Slug()), zap.Int("charts", len(panel.Sections)), zap.Duration("duration", time.Since(start)))
	}
	return panel, nil
}

// ChartCount returns how many charts the panel for v contains.
func (s *DashboardService) ChartCount(ctx context.Context, v views.View) (int, error) {
	panel, err := s.Panel(ctx, v)
	if err != nil {
		return 0, err
	}
	return len(panel.Sections), nil
}

// ChartImage returns the encoded image of chart index in v's panel. The cache
// is checked before the panel is computed, so a hit costs no aggregation; the
// panel is rendered and the cache populated only on a miss. Cache failures are
// logged and counted but never fail the request.
func (s *DashboardService) ChartImage(ctx context.Context, v views.View, index int) ([]byte, error) {
	if !v.Valid() {
		return nil, views.ErrUnknownView
	}
	if s.table.Len() == 0 {
		return nil, fmt.Errorf("render %s: %w", v.Slug(), charts.ErrEmptyDataset)
	}
	if index < 0 {
		return nil, fmt.Errorf("%s chart %d: %w", v.Slug(), index, ErrChartNotFound)
	}
	key := chartKey(v, index, s.renderer.Format())
	logger := observability.LoggerFromContext(ctx)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		observability.CacheErrorsTotal.WithLabelValues("get").Inc()
		if logger != nil {
			logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
	} else if ok {
		observability.CacheHitsTotal.WithLabelValues("chart").Inc()
		return cached, nil
	}

	panel, err := s.Panel(ctx, v)
	if err != nil {
		return nil, err
	}
	if index >= len(panel.Sections) {
		return nil, fmt.Errorf("%s chart %d: %w", v.Slug(), index, ErrChartNotFound)
	}
	chart := panel.Sections[index].Chart
	draw := func() ([]byte, error) {
		start := time.Now()
		img, err := s.renderer.Render(chart)
		observability.ChartRenderDuration.WithLabelValues(v.Slug()).Observe(time.Since(start).Seconds())
		return img, err
	}

	var img []byte
	if s.coalescer != nil {
		var shared bool
		img, shared, err = s.coalescer.GetOrDo(ctx, key, draw)
		if shared && err == nil {
			observability.ChartCoalescedTotal.WithLabelValues(v.Slug()).Inc()
		}
	} else {
		img, err = draw()
	}
	if err != nil {
		return nil, fmt.Errorf("draw %s: %w", key, err)
	}

	if setErr := s.cache.Set(ctx, key, img, s.ttl); setErr != nil {
		observability.CacheErrorsTotal.WithLabelValues("set").Inc()
		if logger != nil {
			logger.Warn("cache set failed", zap.String("key", key), zap.Error(setErr))
		}
	}
	if logger != nil {
		logger.Debug("chart drawn", zap.String("key", key), zap.Int("bytes", len(img)))
	}
	return img, nil
}

// chartKey identifies one chart image: view slug, chart index and image format.
func chartKey(v views.View, index int, format string) string {
	return fmt.Sprintf("%s/%d/%s", v.Slug(), index, format)
}
