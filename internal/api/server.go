// Package api exposes the curation REST surface: document scoring, curation
// CRUD with workflow transitions, draft snapshots, and a websocket channel for
// live rescoring while a curator edits.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gene-validity-server/internal/domain"
	"github.com/gene-validity-server/internal/drafts"
	"github.com/gene-validity-server/internal/middleware"
	"github.com/gene-validity-server/internal/service"
	"github.com/gene-validity-server/pkg/identifiers"
)

// CurationStore is the persistence surface the handlers need. Implemented by
// repository.CurationRepository; tests substitute an in-memory fake.
type CurationStore interface {
	Create(ctx context.Context, curation *domain.CurationRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CurationRecord, error)
	ListByGene(ctx context.Context, geneSymbol string, limit, offset int) ([]*domain.CurationRecord, error)
	ListByStatus(ctx context.Context, status domain.CurationStatus, limit, offset int) ([]*domain.CurationRecord, error)
	Update(ctx context.Context, curation *domain.CurationRecord) error
	TransitionStatus(ctx context.Context, id uuid.UUID, target domain.CurationStatus, lockVersion int) (*domain.CurationRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GeneValidator resolves gene symbols against an external nomenclature
// authority. Implemented by identifiers.HGNCClient.
type GeneValidator interface {
	ValidateGeneSymbol(ctx context.Context, geneSymbol string) (*identifiers.GeneValidationResult, error)
}

// Server represents the HTTP server
type Server struct {
	config *domain.Config
	log    *logrus.Logger
	scorer *service.ScoringService
	store  CurationStore
	drafts drafts.Store
	genes  GeneValidator
	router *gin.Engine
	server *http.Server
}

// NewServer creates a new HTTP server instance. The drafts store and gene
// validator may be nil; the corresponding endpoints then report the feature as
// unavailable.
func NewServer(config *domain.Config, logger *logrus.Logger, scorer *service.ScoringService, store CurationStore, draftStore drafts.Store, genes GeneValidator) *Server {
	if config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(corsMiddleware())

	server := &Server{
		config: config,
		log:    logger,
		scorer: scorer,
		store:  store,
		drafts: draftStore,
		genes:  genes,
		router: router,
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")

	// The live websocket channel stays on v1 directly; a request deadline
	// would tear down the long-lived connection.
	v1.GET("/curations/:id/live", s.handleLiveScore)

	rest := v1.Group("")
	if timeout := s.config.Server.RequestTimeout; timeout > 0 {
		rest.Use(middleware.RequestTimeout(timeout))
	}
	{
		rest.POST("/score", s.handleScore)

		rest.POST("/curations", s.handleCreateCuration)
		rest.GET("/curations", s.handleListCurations)
		rest.GET("/curations/:id", s.handleGetCuration)
		rest.PUT("/curations/:id", s.handleUpdateCuration)
		rest.DELETE("/curations/:id", s.handleDeleteCuration)

		rest.POST("/curations/:id/submit", s.transitionHandler(domain.CurationSubmitted))
		rest.POST("/curations/:id/review", s.transitionHandler(domain.CurationInReview))
		rest.POST("/curations/:id/approve", s.transitionHandler(domain.CurationActive))
		rest.POST("/curations/:id/reject", s.transitionHandler(domain.CurationRejected))

		rest.POST("/curations/:id/snapshots", s.handleSaveSnapshot)
		rest.GET("/curations/:id/snapshots", s.handleListSnapshots)
		rest.GET("/curations/:id/snapshots/latest", s.handleLatestSnapshot)

		rest.GET("/identifiers/gene", s.handleValidateGene)
		rest.GET("/identifiers/pmid", s.handleValidatePMID)
		rest.GET("/identifiers/hpo", s.handleValidateHPO)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"engine":    service.EngineVersion,
	})
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-API-Key")
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
