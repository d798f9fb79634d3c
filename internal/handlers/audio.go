package handlers

import (
	"net/http"

	"medinote-backend/internal/models"
	"medinote-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// AudioHandler covers the chunked-upload workflow: presigned-URL issuance,
// chunk notification and chunk listing. Audio bytes never pass through the
// backend; clients upload directly against the signed URL.
type AudioHandler struct {
	manager *session.Manager
}

func NewAudioHandler(manager *session.Manager) *AudioHandler {
	return &AudioHandler{manager: manager}
}

func (h *AudioHandler) GetPresignedURL(c *gin.Context) {
	var req models.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.manager.Presign(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AudioHandler) NotifyChunkUploaded(c *gin.Context) {
	var req models.NotifyChunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.manager.NotifyChunkUploaded(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AudioHandler) GetSessionChunks(c *gin.Context) {
	sessionID := c.Param("sessionId")

	chunks, err := h.manager.ListChunks(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if chunks == nil {
		chunks = []map[string]any{}
	}

	c.JSON(http.StatusOK, models.ChunksResponse{Chunks: chunks})
}
