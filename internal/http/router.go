package http

import (
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/bike-rental-dashboard/internal/observability"
)

// NewRouter wires routes and middleware. Dashboard routes are rate limited and
// carry a request timeout; /health and /metrics are not.
func NewRouter(handler *Handler, logger *zap.Logger, limiter *rate.Limiter, requestTimeout time.Duration) *mux.Router {
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler()).Methods("GET")

	dashboard := router.NewRoute().Subrouter()
	dashboard.Use(RateLimitMiddleware(limiter))
	if requestTimeout > 0 {
		dashboard.Use(TimeoutMiddleware(requestTimeout))
	}
	dashboard.HandleFunc("/", handler.GetDashboard).Methods("GET")
	dashboard.HandleFunc("/views/{view}", handler.GetPanel).Methods("GET")
	dashboard.HandleFunc("/charts/{view}/{index}", handler.GetChart).Methods("GET")
	return router
}
