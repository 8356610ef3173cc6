// Package server exposes the authorization service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vyrodovalexey/aviam/internal/authz"
	"github.com/vyrodovalexey/aviam/internal/config"
	"github.com/vyrodovalexey/aviam/internal/iam"
	"github.com/vyrodovalexey/aviam/internal/observability"
	"github.com/vyrodovalexey/aviam/internal/policystore"
)

// ginModeOnce ensures gin.SetMode is only called once.
var ginModeOnce sync.Once

// Server is the HTTP front end of the authorization service.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	authorizer authz.Authorizer
	store      *policystore.Store
	logger     observability.Logger
	cfg        config.ServerConfig
	mu         sync.Mutex
	running    bool
}

// ServerOption is a functional option for the server.
type ServerOption func(*Server)

// WithServerLogger sets the logger.
func WithServerLogger(logger observability.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(
	cfg config.ServerConfig,
	authorizer authz.Authorizer,
	store *policystore.Store,
	opts ...ServerOption,
) *Server {
	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	s := &Server{
		engine:     gin.New(),
		authorizer: authorizer,
		store:      store,
		logger:     observability.NopLogger(),
		cfg:        cfg,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.engine.Use(
		requestIDMiddleware(),
		recoveryMiddleware(s.logger),
		accessLogMiddleware(s.logger),
	)

	s.registerRoutes()

	return s
}

// Engine returns the underlying gin engine. Exposed for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires the HTTP API.
func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/v1")
	v1.POST("/decisions", s.handleDecision)
}

// decisionRequest is the wire form of an authorization query.
type decisionRequest struct {
	Action   string `json:"action" binding:"required"`
	Resource string `json:"resource" binding:"required"`
}

// decisionResponse is the wire form of an authorization decision.
type decisionResponse struct {
	Allowed bool   `json:"allowed"`
	Effect  string `json:"effect"`
	Reason  string `json:"reason,omitempty"`
	Policy  string `json:"policy,omitempty"`
	Cached  bool   `json:"cached"`
}

// handleDecision evaluates a single authorization query. Malformed
// input yields 400; evaluation itself cannot fail a well-formed
// request.
func (s *Server) handleDecision(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	decision, err := s.authorizer.Authorize(c.Request.Context(), &authz.Request{
		Action:   req.Action,
		Resource: req.Resource,
	})
	if err != nil {
		if iam.IsParseError(err) ||
			errors.Is(err, authz.ErrMissingAction) ||
			errors.Is(err, authz.ErrMissingResource) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.WithContext(c.Request.Context()).Error("authorization failed",
			observability.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, decisionResponse{
		Allowed: decision.Allowed,
		Effect:  decision.Effect,
		Reason:  decision.Reason,
		Policy:  decision.Policy,
		Cached:  decision.Cached,
	})
}

// handleHealth reports service liveness and the loaded policy count.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"policies": len(s.store.Collection()),
	})
}

// Start runs the HTTP server until it is stopped. It blocks.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}

	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout.Duration(),
		WriteTimeout: s.cfg.WriteTimeout.Duration(),
	}

	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting HTTP server",
		observability.String("addr", s.cfg.Addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	return nil
}
