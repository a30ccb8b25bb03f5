package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kjstillabower/bike-rental-dashboard/internal/charts"
	"github.com/kjstillabower/bike-rental-dashboard/internal/lifecycle"
	"github.com/kjstillabower/bike-rental-dashboard/internal/observability"
	"github.com/kjstillabower/bike-rental-dashboard/internal/service"
	"github.com/kjstillabower/bike-rental-dashboard/internal/traffic"
	"github.com/kjstillabower/bike-rental-dashboard/internal/views"
)

// HealthConfig holds lifecycle thresholds for the health handler.
type HealthConfig struct {
	OverloadWindow       time.Duration
	OverloadThresholdPct int
	RateLimitRPS         int // 0 when rate limiter disabled
	// CachePing, when set, is called to check cache reachability. Used when backend is memcached.
	CachePing func() error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	dashboard        *service.DashboardService
	healthConfig     *HealthConfig
	logger           *zap.Logger
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. dashboard may be nil while the dataset is
// still loading; only /health is meaningful then.
func NewHandler(dashboard *service.DashboardService, healthConfig *HealthConfig, logger *zap.Logger) *Handler {
	return &Handler{
		dashboard:    dashboard,
		healthConfig: healthConfig,
		logger:       logger,
	}
}

// GetDashboard handles GET /. An unknown or missing ?view= falls back to the default view.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	v := views.Select(r.URL.Query().Get("view"))
	observability.ViewSelectionsTotal.WithLabelValues(v.Slug()).Inc()

	data := pageData{
		Title:   pageTitle,
		Options: views.Options(v),
		Footer:  footerNote,
	}
	panel, err := h.dashboard.Panel(r.Context(), v)
	switch {
	case errors.Is(err, charts.ErrEmptyDataset):
		data.Notice = emptyNotice
	case err != nil:
		writeRenderError(w, r, err)
		return
	default:
		data.Panel = &panel
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		writeRenderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// GetPanel handles GET /views/{view}.
func (h *Handler) GetPanel(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	v, err := views.Parse(mux.Vars(r)["view"])
	if err != nil {
		writeError(w, r, http.StatusNotFound, "UNKNOWN_VIEW", err.Error())
		return
	}
	panel, err := h.dashboard.Panel(r.Context(), v)
	if err != nil {
		writeRenderError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, panel)
}

// GetChart handles GET /charts/{view}/{index}.
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	vars := mux.Vars(r)
	v, err := views.Parse(vars["view"])
	if err != nil {
		writeError(w, r, http.StatusNotFound, "UNKNOWN_VIEW", err.Error())
		return
	}
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeError(w, r, http.StatusNotFound, "CHART_NOT_FOUND", "chart index must be an integer")
		return
	}
	img, err := h.dashboard.ChartImage(r.Context(), v, index)
	if err != nil {
		writeRenderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", h.dashboard.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// ready writes 503 and returns false until the dataset has loaded.
func (h *Handler) ready(w http.ResponseWriter, r *http.Request) bool {
	if h.dashboard == nil || !lifecycle.IsReady() {
		writeError(w, r, http.StatusServiceUnavailable, "STARTING", "Dataset is still loading")
		return false
	}
	return true
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := map[string]string{"dataset": lifecycle.CurrentPhase().String()}
	if h.healthConfig != nil && h.healthConfig.CachePing != nil {
		if h.healthConfig.CachePing() == nil {
			checks["cache"] = "healthy"
		} else {
			checks["cache"] = "unhealthy"
		}
	}
	rows := 0
	if h.dashboard != nil {
		rows = h.dashboard.Rows()
	}
	writeJSON(w, r, result.statusCode, map[string]interface{}{
		"status":    result.status,
		"service":   "bike-rental-dashboard",
		"version":   "dev",
		"rows":      rows,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// computeHealthStatus evaluates conditions in priority order:
// shutting-down > starting > overloaded > healthy.
func (h *Handler) computeHealthStatus() healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if h.dashboard == nil || !lifecycle.IsReady() {
		return healthResult{"starting", http.StatusServiceUnavailable, "dataset_" + lifecycle.CurrentPhase().String()}
	}
	if h.healthConfig != nil && h.healthConfig.RateLimitRPS > 0 && h.healthConfig.OverloadWindow > 0 {
		threshold := float64(h.healthConfig.RateLimitRPS) * h.healthConfig.OverloadWindow.Seconds() * float64(h.healthConfig.OverloadThresholdPct) / 100
		if float64(traffic.RequestCount(h.healthConfig.OverloadWindow)) > threshold {
			return healthResult{"overloaded", http.StatusServiceUnavailable, "overload_threshold"}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// encodeFailedBody is sent when a response value cannot be encoded as JSON.
const encodeFailedBody = `{"error":{"code":"ENCODE_FAILED","message":"Unable to encode response"}}` + "\n"

// writeJSON writes v as JSON with the given status code. v is encoded before
// any header is written so an encoding failure becomes a 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		if logger := observability.LoggerFromContext(r.Context()); logger != nil {
			logger.Error("encode response failed", zap.Error(err))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailedBody))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// writeError writes an error response in the standard error format with code, message,
// and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": observability.CorrelationIDFromContext(r.Context()),
		},
	})
}

// writeRenderError maps service errors onto HTTP responses.
func writeRenderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, charts.ErrEmptyDataset):
		writeError(w, r, http.StatusUnprocessableEntity, "EMPTY_DATASET", "The dataset contains no rows")
		return
	case errors.Is(err, service.ErrChartNotFound):
		writeError(w, r, http.StatusNotFound, "CHART_NOT_FOUND", "No chart at that index")
		return
	case errors.Is(err, views.ErrUnknownView):
		writeError(w, r, http.StatusNotFound, "UNKNOWN_VIEW", err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "RENDER_TIMEOUT", "Chart rendering timed out")
	default:
		writeError(w, r, http.StatusInternalServerError, "RENDER_FAILED", "Unable to render view")
	}
	if logger := observability.LoggerFromContext(r.Context()); logger != nil {
		logger.Error("render failed", zap.Error(err))
	}
}
