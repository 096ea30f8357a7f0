package main

import (
	"context"
	"net/http"
	"time"

	"catalogapi/internal/book"
	"catalogapi/internal/config"
	"catalogapi/internal/httpx"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// probe reports whether a dependency is reachable.
type probe struct {
	name  string
	check func(ctx context.Context) error
}

func newRouter(books *book.HTTPHandler, probes []probe, logger *zap.Logger) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		for _, p := range probes {
			if err := p.check(ctx); err != nil {
				logger.Warn("readiness check failed", zap.String("dependency", p.name), zap.Error(err))
				http.Error(w, p.name+" not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.Handler())

	books.Register(router)
	return router
}

func withMiddleware(h http.Handler, cfg config.Config, limiter *httpx.RateLimitMiddleware, logger *zap.Logger) http.Handler {
	return httpx.Chain(h,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSOrigins),
		limiter.Middleware,
		httpx.ClientIDMiddleware,
	)
}
