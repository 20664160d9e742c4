package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ruteri/did-crypto-service/api"
	"github.com/ruteri/did-crypto-service/common"
	"github.com/ruteri/did-crypto-service/metrics"
	"go.uber.org/atomic"
)

// RouteRegistrar is implemented by handlers that contribute API routes.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Server runs the API listener and, when configured, a separate metrics
// listener. Readiness can be toggled at runtime so a load balancer stops
// sending traffic before the process exits.
type Server struct {
	cfg   *api.HTTPServerConfig
	log   *slog.Logger
	ready atomic.Bool

	api     *http.Server
	metrics *metrics.MetricsServer
}

func New(cfg *api.HTTPServerConfig, handler RouteRegistrar) (*Server, error) {
	metricsSrv, err := metrics.New(common.PackageName, cfg.MetricsAddr)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, log: cfg.Log, metrics: metricsSrv}
	s.ready.Store(true)
	s.api = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.routes(handler),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

func (s *Server) routes(handler RouteRegistrar) http.Handler {
	bodyLimit := s.cfg.RequestBodyLimit
	if bodyLimit <= 0 {
		bodyLimit = api.DefaultRequestBodyLimit
	}

	mux := chi.NewRouter()
	mux.Use(s.httpLogger)

	mux.Group(func(r chi.Router) {
		r.Use(s.metrics.Middleware, middleware.RequestSize(bodyLimit))
		handler.RegisterRoutes(r)
	})

	mux.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "alive")
	})
	mux.Get("/readyz", s.handleReadiness)
	mux.Get("/drain", s.handleDrain)
	mux.Get("/undrain", s.handleUndrain)

	if s.cfg.EnablePprof {
		s.log.Info("pprof enabled under /debug")
		mux.Mount("/debug", middleware.Profiler())
	}
	return mux
}

func (s *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(s.log, next)
}

// Handler exposes the API router so tests can drive it without a listener.
func (s *Server) Handler() http.Handler {
	return s.api.Handler
}

func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if s.ready.Load() {
		writeStatus(w, http.StatusOK, "ready")
		return
	}
	writeStatus(w, http.StatusServiceUnavailable, "not ready")
}

func (s *Server) handleDrain(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.CompareAndSwap(true, false) {
		writeStatus(w, http.StatusOK, "already draining")
		return
	}
	s.log.Info("draining, readiness now failing", "drain_duration", s.cfg.DrainDuration)
	writeStatus(w, http.StatusOK, "draining")
}

func (s *Server) handleUndrain(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.CompareAndSwap(false, true) {
		writeStatus(w, http.StatusOK, "already ready")
		return
	}
	s.log.Info("undrained, accepting traffic")
	writeStatus(w, http.StatusOK, "ready")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// RunInBackground starts the listeners and returns immediately. Listener
// failures are logged.
func (s *Server) RunInBackground() {
	if s.cfg.MetricsAddr != "" {
		go s.serve("metrics", s.cfg.MetricsAddr, s.metrics.ListenAndServe)
	}
	go s.serve("api", s.cfg.ListenAddr, s.api.ListenAndServe)
}

func (s *Server) serve(name, addr string, listen func() error) {
	s.log.Info("starting listener", "listener", name, "addr", addr)
	if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("listener failed", "listener", name, "err", err)
	}
}

// Shutdown fails readiness, waits out the drain period so load balancers
// notice, then closes both listeners within GracefulShutdownDuration.
func (s *Server) Shutdown() {
	if s.ready.Swap(false) && s.cfg.DrainDuration > 0 {
		s.log.Info("draining before shutdown", "drain_duration", s.cfg.DrainDuration)
		time.Sleep(s.cfg.DrainDuration)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.GracefulShutdownDuration)
	defer cancel()

	if err := s.api.Shutdown(ctx); err != nil {
		s.log.Error("api listener shutdown failed", "err", err)
	}
	if s.cfg.MetricsAddr != "" {
		if err := s.metrics.Shutdown(ctx); err != nil {
			s.log.Error("metrics listener shutdown failed", "err", err)
		}
	}
	s.log.Info("server stopped")
}
