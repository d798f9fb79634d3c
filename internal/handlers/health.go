package handlers

import (
	"net/http"
	"time"

	"medinote-backend/internal/models"

	"github.com/gin-gonic/gin"
)

const apiVersion = "1.0.0"

type HealthHandler struct {
	environment string
}

func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{environment: environment}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Environment: h.environment,
		Version:     apiVersion,
	})
}

// ServiceInfo is the root endpoint the mobile client probes on startup.
func (h *HealthHandler) ServiceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "MediNote Backend API",
		"version":     apiVersion,
		"status":      "running",
		"description": "Medical transcription app backend",
		"endpoints": gin.H{
			"health":    "/health",
			"api":       "/api/v1",
			"patients":  "/api/v1/patients",
			"sessions":  "/api/v1/upload-session",
			"templates": "/api/v1/fetch-default-template-ext",
		},
	})
}
