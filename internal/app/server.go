// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/auth"
	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/config"
	"marketplace_admin_backend/internal/dashboard"
	"marketplace_admin_backend/internal/firebase"
	"marketplace_admin_backend/internal/jobs"
	"marketplace_admin_backend/internal/listing"
	"marketplace_admin_backend/internal/middleware"
	"marketplace_admin_backend/internal/notification"
	es "marketplace_admin_backend/internal/platform/elasticsearch"
	"marketplace_admin_backend/internal/profile"
	"marketplace_admin_backend/internal/realtime"
	"marketplace_admin_backend/internal/shared"
	"marketplace_admin_backend/internal/verification"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Exposed for startup tasks in main (index bootstrap).
	ESClient  *es.ESClientWrapper
	AppLogger *zap.Logger

	// Handlers
	profileHandler      *profile.Handler
	authHandler         *auth.Handler
	verificationHandler *verification.Handler
	listingHandler      *listing.Handler
	dashboardHandler    *dashboard.Handler
	notificationHandler *notification.Handler
	realtimeHandler     *realtime.Handler

	// Background components
	hub                  *realtime.Hub
	staleVerificationJob *jobs.StaleVerificationJob

	// Middleware instances
	authMW      gin.HandlerFunc
	adminRoleMW gin.HandlerFunc
}

// NewServer creates a new instance of the admin API server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	profileHandler *profile.Handler,
	authHandler *auth.Handler,
	verificationHandler *verification.Handler,
	listingHandler *listing.Handler,
	dashboardHandler *dashboard.Handler,
	notificationHandler *notification.Handler,
	realtimeHandler *realtime.Handler,
	hub *realtime.Hub,
	staleVerificationJob *jobs.StaleVerificationJob,
	firebaseService *firebase.FirebaseService,
	profileService shared.Service,
	esClient *es.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(firebaseService, profileService, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Marketplace admin API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	profileHandler.RegisterRoutes(v1, authMW)
	verificationHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	listingHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	dashboardHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	notificationHandler.RegisterRoutes(v1, authMW)
	// The websocket endpoint authenticates via ticket, not the Bearer middleware.
	realtimeHandler.RegisterRoutes(v1)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:           httpServer,
		router:               router,
		cfg:                  cfg,
		logger:               logger,
		ESClient:             esClient,
		AppLogger:            logger,
		profileHandler:       profileHandler,
		authHandler:          authHandler,
		verificationHandler:  verificationHandler,
		listingHandler:       listingHandler,
		dashboardHandler:     dashboardHandler,
		notificationHandler:  notificationHandler,
		realtimeHandler:      realtimeHandler,
		hub:                  hub,
		staleVerificationJob: staleVerificationJob,
		authMW:               authMW,
		adminRoleMW:          adminRoleMW,
	}, nil
}

// Start runs the hub, the cron jobs, and the HTTP listener. Blocks until the
// listener stops.
func (s *Server) Start() error {
	go s.hub.Run()

	if s.staleVerificationJob != nil {
		if err := s.staleVerificationJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start stale verification job", zap.Error(err))
		}
	} else {
		s.logger.Info("Stale verification job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

// Shutdown stops the jobs, disconnects websocket clients, and drains the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.staleVerificationJob != nil {
		s.staleVerificationJob.Stop()
	}
	s.hub.Stop()
	return s.httpServer.Shutdown(ctx)
}
