package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kjstillabower/bike-rental-dashboard/internal/traffic"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// Panel renders per view and outcome (success, empty, error).
	PanelRendersTotal *prometheus.CounterVec

	// Aggregation + spec building latency per view.
	PanelRenderDuration *prometheus.HistogramVec

	// Image rasterisation latency per view. Only observed on cache misses.
	ChartRenderDuration *prometheus.HistogramVec

	// Chart image cache hits. Misses show up as ChartRenderDuration observations.
	CacheHitsTotal *prometheus.CounterVec

	// Cache backend failures by operation (get, set).
	CacheErrorsTotal *prometheus.CounterVec

	// Chart renders joined by a concurrent caller instead of drawing again.
	ChartCoalescedTotal *prometheus.CounterVec

	CacheWarmingTotal           prometheus.Counter
	CacheWarmingErrorsTotal     prometheus.Counter
	CacheWarmingDurationSeconds prometheus.Histogram

	// Rows in the enriched dataset. Zero means every view renders the empty state.
	DatasetRows prometheus.Gauge

	// Dashboard page views by selected view.
	ViewSelectionsTotal *prometheus.CounterVec

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter

	rateLimitGaugesOnce sync.Once
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	PanelRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panelRendersTotal",
			Help: "Total number of dashboard panel renders by view and outcome",
		},
		[]string{"view", "status"},
	)
	PanelRenderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "panelRenderDurationSeconds",
			Help:    "Time spent aggregating the dataset into a panel spec",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"view"},
	)
	ChartRenderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chartRenderDurationSeconds",
			Help:    "Time spent drawing a chart image on cache miss",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"view"},
	)
	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheHitsTotal",
			Help: "Total number of chart cache hits",
		},
		[]string{"cacheType"},
	)
	CacheErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheErrorsTotal",
			Help: "Total number of chart cache backend errors",
		},
		[]string{"operation"},
	)
	ChartCoalescedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartCoalescedTotal",
			Help: "Chart image requests that shared an in-flight render",
		},
		[]string{"view"},
	)
	CacheWarmingTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cacheWarmingTotal",
			Help: "Total number of chart cache warming runs",
		},
	)
	CacheWarmingErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cacheWarmingErrorsTotal",
			Help: "Total number of chart cache warming runs that had at least one failure",
		},
	)
	CacheWarmingDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cacheWarmingDurationSeconds",
			Help:    "Duration of chart cache warming runs",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)
	DatasetRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "datasetRows",
			Help: "Number of rows in the enriched rental dataset",
		},
	)
	ViewSelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewSelectionsTotal",
			Help: "Dashboard page renders by selected view",
		},
		[]string{"view"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		PanelRendersTotal, PanelRenderDuration, ChartRenderDuration,
		CacheHitsTotal, CacheErrorsTotal, ChartCoalescedTotal,
		CacheWarmingTotal, CacheWarmingErrorsTotal, CacheWarmingDurationSeconds,
		DatasetRows, ViewSelectionsTotal,
		RateLimitDeniedTotal,
	)
}

// RegisterRateLimitGauges registers load and rejects gauges for the rate-limited path.
// Call from main after config load with cfg.OverloadWindow.
func RegisterRateLimitGauges(window time.Duration) {
	rateLimitGaugesOnce.Do(func() {
		registry.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRequestsInWindow",
					Help: "Requests hitting rate-limited path in sliding window; load/capacity planning",
				},
				func() float64 { return float64(traffic.RequestCount(window)) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRejectsInWindow",
					Help: "429 responses in sliding window; are we rejecting requests",
				},
				func() float64 { return float64(traffic.DenialCount(window)) },
			),
		)
	})
}

// RecordPanelRender records the outcome and latency of one panel render.
func RecordPanelRender(view, status string, d time.Duration) {
	PanelRendersTotal.WithLabelValues(view, status).Inc()
	PanelRenderDuration.WithLabelValues(view).Observe(d.Seconds())
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
