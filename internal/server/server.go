// Package server exposes the engine over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/ottopantry/internal/engine"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Option configures the server.
type Option func(*Server)

// WithCORSOrigins sets the allowed browser origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// Server owns the gin router and the underlying http.Server.
type Server struct {
	engine *engine.Engine
	log    *logger.Logger
	router *gin.Engine

	origins         []string
	shutdownTimeout time.Duration
}

// New builds the router. Call Run to serve.
func New(eng *engine.Engine, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		engine:          eng,
		log:             log,
		origins:         []string{"*"},
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(s.log), CORS(s.origins))
	r.MaxMultipartMemory = s.engine.MaxImageBytes() + 1<<20

	r.GET("/health", s.health)

	api := r.Group("/api")
	{
		api.GET("/restaurant", s.getProfile)
		api.POST("/restaurant", s.setupProfile)
		api.PATCH("/restaurant", s.updateProfile)

		api.GET("/ingredients", s.listIngredients)
		api.POST("/ingredients", s.addIngredient)
		api.POST("/ingredients/scan", s.scanImage)
		api.PUT("/ingredients/:id", s.updateIngredient)
		api.POST("/ingredients/:id/increment", s.incrementIngredient)
		api.POST("/ingredients/:id/decrement", s.decrementIngredient)
		api.DELETE("/ingredients/:id", s.removeIngredient)

		api.GET("/spoilage", s.spoilageReport)

		api.GET("/recipes", s.listRecipes)
		api.POST("/recipes/generate", s.generateRecipes)
		api.GET("/recipes/:id", s.getRecipe)
		api.POST("/recipes/:id/chat", s.chat)
	}
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutting down server")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
