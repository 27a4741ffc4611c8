package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/agentcortex/agentmemory/internal/logging"
	"github.com/agentcortex/agentmemory/internal/memory"
	"github.com/agentcortex/agentmemory/pkg/config"
)

// Server is the REST transport over a memory.Service.
type Server struct {
	router     *gin.Engine
	config     *config.Config
	memory     *memory.Service
	httpServer *http.Server
	log        *logging.Logger
}

// NewServer builds a Server wired to the given memory façade.
func NewServer(svc *memory.Service, cfg *config.Config) *Server {
	log := logging.GetLogger("api")
	log.Info("initializing REST API server")

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if cfg.RestAPI.CORS {
		log.Debug("enabling CORS")
		router.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
			MaxAge:          12 * time.Hour,
		}))
	}

	router.Use(MaxBodySizeMiddleware(DefaultBodyLimit))

	s := &Server{
		router: router,
		config: cfg,
		memory: svc,
		log:    log,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.healthHandler)
		v1.GET("/stats", s.statsHandler)
		v1.POST("/backup", s.backupHandler)
		v1.GET("/export", s.exportHandler)
		v1.POST("/import", s.importHandler)
		v1.POST("/consolidate", s.consolidateHandler)

		v1.POST("/episodes", s.createEpisode)
		v1.GET("/episodes/:id", s.getEpisode)
		v1.GET("/episodes/search", s.searchEpisodes)
		v1.GET("/episodes/recent", s.recentEpisodes)
		v1.GET("/episodes/important", s.importantEpisodes)
		v1.GET("/episodes/:id/similar", s.similarEpisodes)
		v1.GET("/episodes/:id/chain", s.episodeChain)
		v1.DELETE("/episodes/:id", s.deleteEpisode)

		v1.POST("/concepts", s.createConcept)
		v1.GET("/concepts/:name", s.getConcept)
		v1.GET("/concepts/search", s.searchConcepts)
		v1.DELETE("/concepts/:id", s.deleteConcept)

		v1.POST("/procedures", s.createProcedure)
		v1.GET("/procedures/:name", s.getProcedure)
		v1.GET("/procedures/search", s.searchProcedures)
		v1.POST("/procedures/:name/execute", s.executeProcedure)
		v1.DELETE("/procedures/:id", s.deleteProcedure)

		v1.GET("/tags/:tag", s.tagFanOut)
	}
}

// Router returns the underlying Gin engine, primarily for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the HTTP server, blocking until it exits.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.RestAPI.Host, s.config.RestAPI.Port)
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}
	s.log.Info("starting REST API server", "address", addr)
	return s.httpServer.ListenAndServe()
}

// StartWithContext runs the server until ctx is cancelled, then shuts
// down gracefully within shutdownTimeout.
func (s *Server) StartWithContext(ctx context.Context, shutdownTimeout time.Duration) error {
	addr := fmt.Sprintf("%s:%d", s.config.RestAPI.Host, s.config.RestAPI.Port)
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("starting REST API server", "address", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping REST API server")
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error("server shutdown error", "error", err)
		return err
	}
	return nil
}
