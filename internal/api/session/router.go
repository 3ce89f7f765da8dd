package session

import (
	"github.com/gin-gonic/gin"

	"github.com/Conversly/support-orchestrator/internal/config"
	"github.com/Conversly/support-orchestrator/internal/loaders"
)

func RegisterRoutes(router *gin.Engine, db *loaders.PostgresClient, _ *config.Config) {
	svc := NewService(db)
	ctrl := NewController(svc)

	group := router.Group("/sessions")
	group.POST("/:id/escalate", ctrl.Escalate)
	group.POST("/:id/resolve", ctrl.Resolve)
	group.GET("/:id/messages", ctrl.Messages)
}
