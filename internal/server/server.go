// Package server exposes the calculator over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calcexpr"
	"github.com/zephyrtronium/calcexpr/internal/config"
	"github.com/zephyrtronium/calcexpr/internal/history"
	"github.com/zephyrtronium/calcexpr/internal/logging"
)

// Server wraps the HTTP router and its dependencies.
type Server struct {
	router   *gin.Engine
	store    *history.Store
	cfg      *config.Config
	log      *zap.Logger
	metrics  *Metrics
	registry *prometheus.Registry
	parse    calcexpr.ParseOption
}

// New creates a server. The caller retains ownership of store.
func New(cfg *config.Config, store *history.Store, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s := &Server{
		store:    store,
		cfg:      cfg,
		log:      logger.Named("http"),
		metrics:  NewMetrics(reg),
		registry: reg,
		parse:    calcexpr.ParsingPreset(calcexpr.MaxLength(cfg.Calc.MaxLength)),
	}
	s.metrics.HistoryEntries.Set(float64(len(store.List())))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(s.log))
	router.Use(Instrument(s.metrics))
	router.Use(CORS(DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		s.log.Info("rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(RateLimit(RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	v1 := router.Group("/v1")
	v1.POST("/evaluate", s.evaluate)
	v1.POST("/plot", s.plot)

	v1.GET("/history", s.listHistory)
	v1.DELETE("/history", s.clearHistory)
	v1.GET("/history/export", s.exportHistory)
	v1.POST("/history/import", s.importHistory)
	v1.DELETE("/history/:id", s.deleteHistory)

	v1.GET("/settings", s.getSettings)
	v1.PUT("/settings", s.putSettings)

	v1.GET("/memory", s.getMemory)
	v1.PUT("/memory", s.putMemory)

	v1.GET("/variables", s.getVariables)
	v1.PUT("/variables/:name", s.putVariable)
	v1.DELETE("/variables/:name", s.deleteVariable)

	router.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, "not_found", "no route for "+c.Request.URL.Path)
	})

	s.router = router
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP on the configured address until ctx is canceled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
