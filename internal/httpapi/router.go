// Package httpapi wires the HTTP surface of finsight.
// Handlers stay thin and delegate every derivation to the insight service.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/finsight/internal/service/insight"
)

// Server wires handlers and middleware using Chi.
type Server struct {
	svc   insight.Service
	ready []ReadyChecker
	log   *slog.Logger
	now   func() time.Time
	rt    *chi.Mux
}

// New constructs the HTTP server with routes and middleware. Every checker in
// ready must pass for /readyz to answer 200.
func New(svc insight.Service, logger *slog.Logger, ready ...ReadyChecker) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		svc:   svc,
		ready: ready,
		log:   logger,
		now:   time.Now,
		rt:    r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
	s.rt.Route("/v1", func(r chi.Router) {
		r.Use(s.validateUser)
		r.With(s.validateReport(true)).Get("/summary", s.getSummary)
		r.With(s.validateReport(true)).Get("/rollup", s.getRollup)
		r.With(s.validateReport(false)).Get("/series", s.getSeries)
		r.Get("/balances", s.getBalances)
		r.Get("/accounts/{id}/balance", s.getAccountBalance)
		r.With(s.validateListTransactions()).Get("/transactions", s.listTransactions)
		r.Get("/categories", s.listCategories)
		r.Get("/currencies", s.listCurrencies)
		r.Post("/snapshots/invalidate", s.invalidateSnapshot)
	})
	// Health (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Handle("/metrics", metricsHandler())
}
