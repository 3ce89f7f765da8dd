package uploads

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Conversly/support-orchestrator/internal/storage"
	"github.com/Conversly/support-orchestrator/internal/utils"
)

// Controller accepts a customer image and returns its public URL. The
// URL is later passed through the orchestrator untouched.
type Controller struct {
	store storage.ObjectStore
}

func NewController(store storage.ObjectStore) *Controller {
	return &Controller{store: store}
}

func (c *Controller) Upload(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":     "bad_request",
			"message":   "missing file field",
			"timestamp": time.Now().UTC(),
		})
		return
	}
	defer file.Close()

	// Bound the read before buffering: one extra byte distinguishes
	// "exactly at the limit" from "over it".
	payload, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadSize+1))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": err.Error(),
		})
		return
	}
	if int64(len(payload)) > storage.MaxUploadSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":   "payload_too_large",
			"message": fmt.Sprintf("file exceeds the %d byte limit", storage.MaxUploadSize),
		})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(header.Filename))

	url, err := c.store.Upload(ctx.Request.Context(), name, contentType, payload)
	if err != nil {
		utils.Zlog.Error("upload failed", zap.String("filename", header.Filename), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "upload_failed",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"url": url})
}
