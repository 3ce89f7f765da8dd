package routes

import (
	"github.com/Conversly/support-orchestrator/internal/api/chat"
	"github.com/Conversly/support-orchestrator/internal/api/session"
	"github.com/Conversly/support-orchestrator/internal/api/uploads"
	"github.com/Conversly/support-orchestrator/internal/config"
	"github.com/Conversly/support-orchestrator/internal/loaders"
	"github.com/Conversly/support-orchestrator/internal/middleware"
	"github.com/Conversly/support-orchestrator/internal/notify"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, db *loaders.PostgresClient, cfg *config.Config, hub *notify.Hub) {
	// Apply global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID())

	// Setup route groups
	SetupHealthRoutes(router, db)
	chat.RegisterRoutes(router, db, cfg, hub)
	session.RegisterRoutes(router, db, cfg)
	uploads.RegisterRoutes(router, cfg)
	Setup404Handler(router)
}
