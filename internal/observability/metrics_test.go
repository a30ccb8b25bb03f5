package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestMetrics_Usable verifies that all Prometheus metrics can be used without
// panic, ensuring label dimensions match usage across http, service, and cache packages.
func TestMetrics_Usable(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/charts/{view}/{index}", "2xx").Inc()
	HTTPRequestDuration.WithLabelValues("GET", "/").Observe(0.01)
	PanelRendersTotal.WithLabelValues("seasonal-trend", "success").Inc()
	PanelRenderDuration.WithLabelValues("seasonal-trend").Observe(0.002)
	ChartRenderDuration.WithLabelValues("seasonal-trend").Observe(0.05)
	CacheHitsTotal.WithLabelValues("chart").Inc()
	CacheErrorsTotal.WithLabelValues("get").Inc()
	ChartCoalescedTotal.WithLabelValues("seasonal-trend").Inc()
	ViewSelectionsTotal.WithLabelValues("weather-temperature").Inc()
	DatasetRows.Set(731)
	RecordPanelRender("working-vs-holiday", "empty", time.Millisecond)
}

func TestRegisterRateLimitGauges_Idempotent(t *testing.T) {
	RegisterRateLimitGauges(time.Minute)
	RegisterRateLimitGauges(time.Minute)
}

// TestMetricsHandler_ServesPrometheusFormat verifies that MetricsHandler serves
// Prometheus text exposition format with correct HTTP status and metric output.
func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/health", "2xx").Inc()
	handler := MetricsHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("MetricsHandler status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "httpRequestsTotal") {
		t.Error("MetricsHandler response should contain metric output")
	}
}
