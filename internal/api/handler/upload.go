package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/reelquote/internal/domain"
	"github.com/timmy/reelquote/internal/logger"
	"github.com/timmy/reelquote/internal/service"
)

// ReelUploader creates and publishes reels on the social platform.
type ReelUploader interface {
	CreateContainer(ctx context.Context, req *domain.ReelRequest) (string, error)
	Publish(ctx context.Context, containerID string) (string, error)
	Status(ctx context.Context, containerID string) (*domain.UploadJob, error)
	QuickUpload(ctx context.Context, req *domain.ReelRequest) (*domain.UploadJob, error)
}

// UploadHandler handles reel upload endpoints.
type UploadHandler struct {
	reels ReelUploader
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(reels ReelUploader) *UploadHandler {
	return &UploadHandler{reels: reels}
}

type publishRequest struct {
	ContainerID string `json:"container_id" binding:"required"`
}

// Upload handles POST /upload.
func (h *UploadHandler) Upload(c *gin.Context) {
	var req domain.ReelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	id, err := h.reels.CreateContainer(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, "Create container failed", err)
		return
	}
	c.JSON(http.StatusOK, domain.UploadJob{ContainerID: id, Status: domain.UploadStatusPending})
}

// Publish handles POST /publish.
func (h *UploadHandler) Publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	mediaID, err := h.reels.Publish(c.Request.Context(), req.ContainerID)
	if err != nil {
		h.fail(c, "Publish failed", err)
		return
	}
	c.JSON(http.StatusOK, domain.UploadJob{
		ContainerID: req.ContainerID,
		Status:      domain.UploadStatusPublished,
		MediaID:     mediaID,
	})
}

// QuickUpload handles POST /quick-upload.
func (h *UploadHandler) QuickUpload(c *gin.Context) {
	var req domain.ReelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	job, err := h.reels.QuickUpload(c.Request.Context(), &req)
	if err != nil {
		h.failWithJob(c, "Quick upload failed", err, job)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Status handles GET /status/:container_id.
func (h *UploadHandler) Status(c *gin.Context) {
	id := c.Param("container_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "container_id is required"})
		return
	}

	job, err := h.reels.Status(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Status check failed", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// fail maps upload errors: missing credentials are 503, everything upstream is 502.
func (h *UploadHandler) fail(c *gin.Context, msg string, err error) {
	h.failWithJob(c, msg, err, nil)
}

// failWithJob is fail plus the last known container state, so a container that was
// created upstream can still be polled through /status.
func (h *UploadHandler) failWithJob(c *gin.Context, msg string, err error, job *domain.UploadJob) {
	status := http.StatusBadGateway
	if errors.Is(err, service.ErrReelsDisabled) {
		status = http.StatusServiceUnavailable
	}
	logger.CtxWarn(c.Request.Context(), "%s: %v", msg, err)

	body := gin.H{"error": msg + ": " + err.Error()}
	if job != nil {
		body["job"] = job
	}
	c.JSON(status, body)
}
