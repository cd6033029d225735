package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicops/leakwatch/internal/api/handlers"
	"github.com/clinicops/leakwatch/internal/api/middleware"
	"github.com/clinicops/leakwatch/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	reportHandler     *handlers.ReportHandler
	callCenterHandler *handlers.CallCenterHandler

	cacheMiddleware *middleware.CacheMiddleware
}

// NewRouter creates a new router
func NewRouter(
	reportHandler *handlers.ReportHandler,
	callCenterHandler *handlers.CallCenterHandler,
	cacheMiddleware *middleware.CacheMiddleware,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		reportHandler:     reportHandler,
		callCenterHandler: callCenterHandler,
		cacheMiddleware:   cacheMiddleware,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Prometheus metrics
	r.mux.Handle("GET /metrics", promhttp.HandlerFor(observability.Registry, promhttp.HandlerOpts{}))

	// Financial report endpoints
	r.mux.HandleFunc("GET /api/reports/periods", r.reportHandler.ListPeriods)
	r.mux.HandleFunc("GET /api/reports/financial", r.reportHandler.GetFinancialReport)

	// Call-center report endpoints
	r.mux.HandleFunc("GET /api/callcenter/periods", r.callCenterHandler.ListPeriods)
	r.mux.HandleFunc("GET /api/callcenter/summary", r.callCenterHandler.GetSummary)
	r.mux.HandleFunc("GET /api/callcenter/yearly", r.callCenterHandler.GetYearly)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.CORSMiddleware(handler)

	return handler
}
