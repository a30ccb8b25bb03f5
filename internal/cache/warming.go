package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/kjstillabower/bike-rental-dashboard/internal/observability"
	"github.com/kjstillabower/bike-rental-dashboard/internal/views"
)

// ChartSource is implemented by the service layer. Used by Warmer to avoid a
// circular dependency on the service package.
type ChartSource interface {
	ChartCount(ctx context.Context, v views.View) (int, error)
	ChartImage(ctx context.Context, v views.View, index int) ([]byte, error)
}

// Warmer pre-renders every chart of every view so the first page view is served
// from cache.
type Warmer struct {
	source ChartSource
	logger *zap.Logger
}

// NewWarmer creates a Warmer that uses the given source and logger.
func NewWarmer(source ChartSource, logger *zap.Logger) *Warmer {
	return &Warmer{source: source, logger: logger}
}

// Warm renders all charts concurrently. Failures are collected and returned together.
func (w *Warmer) Warm(ctx context.Context) error {
	start := time.Now()
	observability.CacheWarmingTotal.Inc()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result *multierror.Error
		charts int
	)
	record := func(err error) {
		mu.Lock()
		result = multierror.Append(result, err)
		mu.Unlock()
	}
	for _, v := range views.All() {
		n, err := w.source.ChartCount(ctx, v)
		if err != nil {
			record(fmt.Errorf("warm %s: %w", v, err))
			continue
		}
		for i := 0; i < n; i++ {
			charts++
			wg.Add(1)
			go func(v views.View, i int) {
				defer wg.Done()
				if _, err := w.source.ChartImage(ctx, v, i); err != nil {
					record(fmt.Errorf("warm %s/%d: %w", v, i, err))
				}
			}(v, i)
		}
	}
	wg.Wait()

	duration := time.Since(start).Seconds()
	observability.CacheWarmingDurationSeconds.Observe(duration)
	err := result.ErrorOrNil()
	if w.logger != nil {
		errCount := 0
		if result != nil {
			errCount = len(result.Errors)
		}
		w.logger.Info("chart cache warming complete", zap.Int("charts", charts), zap.Int("errors", errCount), zap.Float64("duration_seconds", duration))
	}
	if err != nil {
		observability.CacheWarmingErrorsTotal.Inc()
	}
	return err
}
