package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Conversly/support-orchestrator/internal/loaders"
	"github.com/Conversly/support-orchestrator/internal/types"
	"github.com/Conversly/support-orchestrator/internal/utils"
)

type Controller struct {
	svc *Service
}

func NewController(svc *Service) *Controller {
	return &Controller{svc: svc}
}

func (c *Controller) Escalate(ctx *gin.Context) {
	var req EscalateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	sess, err := c.svc.Escalate(ctx.Request.Context(), ctx.Param("id"), req.Reason)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, statusResponse(sess))
}

func (c *Controller) Resolve(ctx *gin.Context) {
	sess, err := c.svc.Resolve(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, statusResponse(sess))
}

func (c *Controller) Messages(ctx *gin.Context) {
	sessionID := ctx.Param("id")

	var after time.Time
	if raw := ctx.Query("after"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(ctx, err)
			return
		}
		after = parsed
	}

	messages, err := c.svc.MessagesAfter(ctx.Request.Context(), sessionID, after)
	if err != nil {
		writeError(ctx, err)
		return
	}

	out := MessagesResponse{SessionID: sessionID, Messages: make([]Message, 0, len(messages))}
	for _, m := range messages {
		out.Messages = append(out.Messages, Message{
			ID:        m.ID,
			Sender:    string(m.Sender),
			Content:   m.Content,
			ImageURL:  m.ImageURL,
			CreatedAt: m.CreatedAt,
		})
	}
	ctx.JSON(http.StatusOK, out)
}

func statusResponse(sess *types.ChatSession) StatusResponse {
	resp := StatusResponse{SessionID: sess.ID, Status: string(sess.Status)}
	if sess.EscalationReason != nil {
		resp.Reason = *sess.EscalationReason
	}
	return resp
}

func badRequest(ctx *gin.Context, err error) {
	utils.Zlog.Warn("invalid session request", zap.Error(err))
	ctx.JSON(http.StatusBadRequest, gin.H{
		"error":     "bad_request",
		"message":   err.Error(),
		"timestamp": time.Now().UTC(),
	})
}

func writeError(ctx *gin.Context, err error) {
	if errors.Is(err, loaders.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
		return
	}
	utils.Zlog.Warn("session action failed", zap.Error(err))
	ctx.JSON(http.StatusConflict, gin.H{
		"error":   "invalid_transition",
		"message": err.Error(),
	})
}
