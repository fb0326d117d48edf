package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asad/storagegateway/internal/core"
	"github.com/asad/storagegateway/internal/logging"
	"github.com/asad/storagegateway/internal/metrics"
)

// RequestTimeout bounds each request's context. Handlers make a single
// storage call and surface whatever error the deadline produces.
const RequestTimeout = 60 * time.Second

// NewRouter builds the gateway's HTTP handler: the middleware stack, /metrics,
// and the routes of every service in reg mounted at the root.
func NewRouter(reg *core.Registry, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLoggingMiddleware(logger))
	r.Use(metricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Handle("/metrics", promhttp.Handler())

	for _, service := range reg.Services() {
		logger.Info("registering service routes",
			logging.String("service", service.Name()),
		)
		service.RegisterRoutes(r)
	}

	return r
}

// requestLoggingMiddleware logs method, path, status and latency of every request.
func requestLoggingMiddleware(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				logging.String("request_id", middleware.GetReqID(r.Context())),
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", ww.Status()),
				logging.Duration("latency", time.Since(start)),
				logging.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

// metricsMiddleware records request count and latency labelled by the chi
// route pattern, so unmatched paths collapse into one series.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
