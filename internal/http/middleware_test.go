package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/bike-rental-dashboard/internal/observability"
	"github.com/kjstillabower/bike-rental-dashboard/internal/traffic"
)

func TestMiddleware_CorrelationIDGenerated(t *testing.T) {
	handler := NewHandler(newTestDashboard(t, rentalsCSV), nil, zap.NewNop())

	w := serve(t, handler, "/views/seasonal-trend")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("X-Correlation-ID header missing")
	}
}

// TestMiddleware_CorrelationIDPropagated verifies a client-supplied ID is echoed
// and attached to the request-scoped logger.
func TestMiddleware_CorrelationIDPropagated(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(zap.New(core)))
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if got := observability.CorrelationIDFromContext(r.Context()); got != "client-provided-id" {
			t.Errorf("context correlation id = %q", got)
		}
		observability.LoggerFromContext(r.Context()).Info("inside handler")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Correlation-ID", "client-provided-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Correlation-ID"); got != "client-provided-id" {
		t.Errorf("X-Correlation-ID = %q, want client-provided-id", got)
	}
	entries := logs.FilterMessage("inside handler").All()
	if len(entries) != 1 || entries[0].ContextMap()["correlation_id"] != "client-provided-id" {
		t.Errorf("logger missing correlation_id: %v", entries)
	}
}

func TestGetRoute(t *testing.T) {
	tests := map[string]string{
		"/":                          "/",
		"/health":                    "/health",
		"/metrics":                   "/metrics",
		"/views/seasonal-trend":      "/views/{view}",
		"/charts/seasonal-trend/0":   "/charts/{view}/{index}",
		"/some/random/scanner/probe": "other",
	}
	for path, want := range tests {
		req := httptest.NewRequest("GET", path, nil)
		if got := getRoute(req); got != want {
			t.Errorf("getRoute(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestStatusCodeString(t *testing.T) {
	if got := statusCodeString(404); got != "4xx" {
		t.Errorf("statusCodeString(404) = %q, want 4xx", got)
	}
}

// TestRateLimitMiddleware verifies that requests beyond the burst get 429 and
// that both outcomes are recorded for overload detection.
func TestRateLimitMiddleware(t *testing.T) {
	handler := NewHandler(newTestDashboard(t, rentalsCSV), nil, zap.NewNop())
	router := NewRouter(handler, zap.NewNop(), rate.NewLimiter(rate.Every(time.Hour), 1), 0)

	codes := make([]int, 2)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/views/seasonal-trend", nil))
		codes[i] = w.Code
		if i == 1 {
			if got := decodeErrorCode(t, w); got != "RATE_LIMITED" {
				t.Errorf("error code = %q, want RATE_LIMITED", got)
			}
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 429]", codes)
	}
	if got := traffic.RequestCount(time.Minute); got != 2 {
		t.Errorf("RequestCount() = %d, want 2", got)
	}
	if got := traffic.DenialCount(time.Minute); got != 1 {
		t.Errorf("DenialCount() = %d, want 1", got)
	}

	// health is outside the limiter
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("/health status = %d, want 200", w.Code)
	}
}

func TestTimeoutMiddleware_SetsDeadline(t *testing.T) {
	router := mux.NewRouter()
	router.Use(TimeoutMiddleware(50 * time.Millisecond))
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		deadline, ok := r.Context().Deadline()
		if !ok {
			t.Error("request context has no deadline")
		} else if time.Until(deadline) > 50*time.Millisecond {
			t.Errorf("deadline too far: %v", time.Until(deadline))
		}
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}
