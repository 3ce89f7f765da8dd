package chat

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Conversly/support-orchestrator/internal/utils"
)

type Controller struct {
	svc *Service
}

func NewController(svc *Service) *Controller {
	return &Controller{svc: svc}
}

func (c *Controller) Respond(ctx *gin.Context) {
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Zlog.Warn("invalid /chat/respond payload", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":     "bad_request",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	result, err := c.svc.Respond(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrBusinessMismatch) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": err.Error(),
			})
			return
		}
		utils.Zlog.Error("orchestration cycle failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		// The caller must assume the session is escalated and not retry
		// the AI path.
		ctx.JSON(http.StatusInternalServerError, Response{
			Escalated: true,
			Reason:    "System error: " + err.Error(),
		})
		return
	}

	if idVal, exists := ctx.Get("request_id"); exists {
		if rid, ok := idVal.(string); ok {
			result.RequestID = rid
		}
	}

	ctx.JSON(http.StatusOK, result)
}
