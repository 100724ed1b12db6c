// Package http provides the HTTP adapter over the application services.
// It translates requests into service calls; the transition engine and
// submission builder own all workflow decisions.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/officeflow/conveyance/internal/application/service"
	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	JWTSecret    string
	TokenTTL     time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		TokenTTL:     7 * 24 * time.Hour,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config            ServerConfig
	httpServer        *http.Server
	router            *gin.Engine
	transitionService service.TransitionService
	submissionService service.SubmissionService
	userService       service.UserService
	reportService     service.ReportService
	logger            Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	transitionService service.TransitionService,
	submissionService service.SubmissionService,
	userService service.UserService,
	reportService service.ReportService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:            config,
		router:            router,
		transitionService: transitionService,
		submissionService: submissionService,
		userService:       userService,
		reportService:     reportService,
		logger:            logger,
	}

	registerValidations()
	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// registerValidations adds custom binding validators
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return workflow.Role(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("billaction", func(fl validator.FieldLevel) bool {
			return workflow.Action(fl.Field().String()).IsValid()
		})
	}
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.transitionService, s.submissionService, s.reportService, s.logger)
	auth := NewAuthHandlers(s.userService, s.config.JWTSecret, s.config.TokenTTL, s.logger)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)

	// Authentication
	s.router.POST("/api/auth/register", auth.Register)
	s.router.POST("/api/auth/login", auth.Login)

	// Everything else requires a bearer token
	api := s.router.Group("/api")
	api.Use(auth.Middleware())
	{
		api.GET("/users", auth.ListUsers)

		api.POST("/bills", handlers.SubmitBill)
		api.GET("/bills", handlers.ListBills)
		api.GET("/bills/:id", handlers.GetBill)
		api.POST("/bills/:id/action", handlers.BillAction)
		api.POST("/bills/:id/receive", handlers.ReceiveMoney)

		api.GET("/reports/status-summary", handlers.StatusSummary)
		api.GET("/reports/monthly", handlers.MonthlyTotals)
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
