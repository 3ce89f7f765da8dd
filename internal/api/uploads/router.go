package uploads

import (
	"github.com/gin-gonic/gin"

	"github.com/Conversly/support-orchestrator/internal/config"
	"github.com/Conversly/support-orchestrator/internal/storage"
)

func RegisterRoutes(router *gin.Engine, cfg *config.Config) {
	store := storage.NewSupabaseStore(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)
	ctrl := NewController(store)
	router.POST("/uploads", ctrl.Upload)
}
