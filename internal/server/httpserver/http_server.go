// Package httpserver wires the notionbridge HTTP endpoints onto a single
// listener and manages its lifecycle.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/notionbridge/internal/config"
	derrors "git.home.luguber.info/inful/notionbridge/internal/foundation/errors"
	"git.home.luguber.info/inful/notionbridge/internal/metrics"
	"git.home.luguber.info/inful/notionbridge/internal/server/handlers"
	smw "git.home.luguber.info/inful/notionbridge/internal/server/middleware"
)

// Options carries optional server collaborators.
type Options struct {
	// Recorder receives request and upsert metrics. Noop when nil.
	Recorder metrics.Recorder
	// Registry, when set, additionally exposes /metrics for it.
	Registry *prom.Registry
}

// Server manages the HTTP endpoint lifecycle.
type Server struct {
	cfg          *config.Config
	opts         Options
	httpServer   *http.Server
	errorAdapter *derrors.HTTPErrorAdapter

	pageHandlers       *handlers.PageHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	mchain func(http.Handler) http.Handler
}

// New constructs a new HTTP server wiring instance.
func New(cfg *config.Config, service handlers.UpsertService, opts Options) *Server {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}

	s := &Server{
		cfg:          cfg,
		opts:         opts,
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
	}

	s.pageHandlers = handlers.NewPageHandlers(service, opts.Recorder)
	s.monitoringHandlers = handlers.NewMonitoringHandlers()
	s.mchain = smw.Chain(slog.Default(), s.errorAdapter, opts.Recorder)

	return s
}

// Handler builds the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/notion/pages", s.pageHandlers.HandleCreateOrUpdate)
	mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealthz)
	if s.opts.Registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	return s.mchain(mux)
}

// Start binds the configured port and serves until ctx is canceled. The
// listener is pre-bound so startup failures surface immediately instead of as
// a background serve error.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind port %d: %w", s.cfg.Port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Info("HTTP server started", slog.Int("port", s.cfg.Port))

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown drains in-flight requests with a bounded grace period.
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
