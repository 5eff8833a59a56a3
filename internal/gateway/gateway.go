// Package gateway exposes the prompt optimization engine over HTTP.
//
// DESIGN: Thin net/http server. Every request flows through panic
// recovery, request-ID assignment, access logging, security headers and
// an optional per-IP rate limiter before reaching a handler. Handlers
// parse JSON tolerantly: a malformed body is a 400, but any individual
// missing field just takes its documented default.
//
// FILES:
//   - gateway.go:    server lifecycle and route table
//   - middleware.go:  recovery, request ID, access log, rate limiting
//   - handlers.go:    /v1/optimize, /v1/optimizations, /v1/metrics, /healthz
package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sajtmaskin/prompt-gateway/internal/config"
	"github.com/sajtmaskin/prompt-gateway/internal/engine"
	"github.com/sajtmaskin/prompt-gateway/internal/monitoring"
	"github.com/sajtmaskin/prompt-gateway/internal/store"
)

// DecisionStore is what the gateway needs from the audit store. Nil is
// allowed; persistence is then skipped.
type DecisionStore interface {
	RecordDecision(ctx context.Context, requestID string, meta engine.StrategyMeta) error
	Recent(ctx context.Context, limit int) ([]store.Record, error)
}

// Gateway is the HTTP front of the optimization engine.
type Gateway struct {
	cfg     *config.Config
	metrics *monitoring.MetricsCollector
	decLog  *monitoring.DecisionLogger
	store   DecisionStore
	server  *http.Server
}

// New creates a gateway. decLog and store may be nil.
func New(cfg *config.Config, metrics *monitoring.MetricsCollector, decLog *monitoring.DecisionLogger, store DecisionStore) *Gateway {
	gw := &Gateway{
		cfg:     cfg,
		metrics: metrics,
		decLog:  decLog,
		store:   store,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", gw.handleHealth)
	mux.HandleFunc("/v1/optimize", gw.handleOptimize)
	mux.HandleFunc("/v1/optimizations", gw.handleOptimizations)
	mux.HandleFunc("/v1/metrics", gw.handleMetrics)

	var handler http.Handler = mux
	if cfg.Server.RateLimit > 0 {
		handler = rateLimitMiddleware(cfg.Server.RateLimit, handler)
	}
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = panicRecoveryMiddleware(handler)

	gw.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return gw
}

// Handler exposes the full middleware chain, mainly for tests.
func (gw *Gateway) Handler() http.Handler {
	return gw.server.Handler
}

// Start runs the HTTP server until it fails or Shutdown is called.
func (gw *Gateway) Start() error {
	log.Info().Int("port", gw.cfg.Server.Port).Msg("prompt gateway listening")
	if err := gw.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (gw *Gateway) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down prompt gateway")
	return gw.server.Shutdown(ctx)
}
