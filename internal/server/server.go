// Package server exposes the catalog and the executor over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jonhuth/dsa/internal/backend"
	"github.com/jonhuth/dsa/internal/catalog"
	"github.com/jonhuth/dsa/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP API. Build it with New and serve it with Run, or mount
// Handler in a test.
type Server struct {
	catalog  *catalog.Catalog
	exec     *backend.Executor
	store    *store.Store
	gatherer prometheus.Gatherer
	log      *slog.Logger

	router *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the /api/runs endpoints.
func WithStore(s *store.Store) Option {
	return func(srv *Server) {
		srv.store = s
	}
}

// WithGatherer sets the registry /metrics exposes. Defaults to the global
// Prometheus registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(srv *Server) {
		srv.gatherer = g
	}
}

// WithLogger sets the server's logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		srv.log = l
	}
}

// New builds the router.
func New(cat *catalog.Catalog, exec *backend.Executor, opts ...Option) *Server {
	s := &Server{
		catalog:  cat,
		exec:     exec,
		gatherer: prometheus.DefaultGatherer,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), requestLogger(s.log))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := s.router.Group("/api")
	{
		api.GET("/categories", s.listCategories)
		api.GET("/algorithms", s.listAlgorithms)
		api.GET("/algorithms/:id", s.getAlgorithm)
		api.GET("/algorithms/:id/source", s.getSource)
		api.POST("/algorithms/:id/execute", s.execute)
		api.POST("/algorithms/:id/execute/stream", s.executeStream)

		runs := api.Group("/runs")
		{
			runs.GET("", s.listRuns)
			runs.GET("/:id", s.getRun)
		}
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
