package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vmforge/vmforge/pkg/engine"
	"github.com/vmforge/vmforge/pkg/stores"
	"github.com/vmforge/vmforge/pkg/telemetry"
)

// Server exposes the construction engine over HTTP.
type Server struct {
	coordinator *engine.Coordinator
	store       *stores.SQLiteStore
	logger      *telemetry.Logger
	httpServer  *http.Server
}

// Option configures the server.
type Option func(*Server)

// WithStore enables run history endpoints backed by SQLite.
func WithStore(s *stores.SQLiteStore) Option {
	return func(srv *Server) { srv.store = s }
}

// NewServer wires the HTTP layer around a coordinator.
func NewServer(coordinator *engine.Coordinator, logger *telemetry.Logger, opts ...Option) *Server {
	srv := &Server{
		coordinator: coordinator,
		logger:      telemetry.NewComponentLogger(logger, "api"),
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// Routes builds the gin engine with all endpoints registered.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "vmforge",
		})
	})

	v1 := r.Group("/v1")
	{
		// Family construction
		v1.POST("/families", s.constructFamily)
		v1.POST("/vms", s.constructIndividual)

		// Catalog
		v1.GET("/providers", s.listProviders)
		v1.GET("/catalog/:provider", s.listCatalog)
		v1.POST("/validate", s.validateConfiguration)
		v1.POST("/estimate", s.estimateCost)

		// Templates
		v1.GET("/templates", s.listTemplates)
		v1.GET("/templates/:name", s.getTemplate)
		v1.PUT("/templates/:name", s.registerTemplate)
		v1.DELETE("/templates/:name", s.removeTemplate)
		v1.POST("/templates/:name/instances", s.createFromTemplate)

		// History
		v1.GET("/runs", s.listRuns)
	}

	return r
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	}
}

// statusForError maps classified engine errors to HTTP status codes.
func statusForError(err error) int {
	switch engine.KindOf(err) {
	case engine.ErrNotFound:
		return http.StatusNotFound
	case engine.ErrDuplicateProvider, engine.ErrDuplicateTemplate:
		return http.StatusConflict
	case engine.ErrUnsupportedProvider, engine.ErrMissingParameter,
		engine.ErrInvalidValue, engine.ErrRegionMismatch:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	if kind := engine.KindOf(err); kind != "" {
		body["kind"] = string(kind)
	}
	c.JSON(statusForError(err), body)
}
