// Package server serves the dashboard pages and rendered views over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ai4socialgood/orgnet/internal/config"
	"github.com/ai4socialgood/orgnet/internal/dashboard"
	"github.com/ai4socialgood/orgnet/internal/metrics"
	"github.com/ai4socialgood/orgnet/internal/viz"
)

// shutdownTimeout bounds how long in-flight requests may take after a stop signal.
const shutdownTimeout = 10 * time.Second

// Server is the dashboard HTTP server.
type Server struct {
	catalog *dashboard.Catalog
	cfg     *config.Config
	log     *logrus.Logger
	engine  *gin.Engine
}

// New builds a server over a loaded catalog. ctx bounds background work such
// as rate-limit bookkeeping.
func New(ctx context.Context, catalog *dashboard.Catalog, cfg *config.Config, log *logrus.Logger) *Server {
	s := &Server{
		catalog: catalog,
		cfg:     cfg,
		log:     log,
		engine:  gin.New(),
	}

	r := s.engine
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(requestID(log))
	r.Use(ginLogger(log))
	r.Use(gin.Recovery())
	if cfg.Server.RateLimit > 0 {
		r.Use(newRateLimiter(ctx, cfg.Server.RateLimit, cfg.Server.RateBurst).handler())
	}
	r.Use(prometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", s.health)

	r.GET("/", s.index)
	r.GET("/orgs/:org", s.orgPage)
	r.GET("/orgs/:org/views/:view", s.renderView)

	api := r.Group("/api")
	api.GET("/orgs", s.listOrgs)
	api.GET("/orgs/:org/neighborhood", s.neighborhood)
	api.GET("/orgs/:org/views/:view", s.viewModel)

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "route not found")
	})

	for _, d := range catalog.List() {
		metrics.GraphNodes.WithLabelValues(d.Org.Slug).Set(float64(d.Graph.NodeCount()))
		metrics.GraphEdges.WithLabelValues(d.Org.Slug).Set(float64(d.Graph.EdgeCount()))
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("dashboard listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// htmlOptions returns the document options for a rendered view.
func (s *Server) htmlOptions() viz.HTMLOptions {
	return viz.HTMLOptions{
		Layout:    s.cfg.Layout,
		ScriptSrc: s.cfg.ScriptSrc,
	}
}
