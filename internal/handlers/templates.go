package handlers

import (
	"errors"
	"net/http"

	"medinote-backend/internal/middleware"
	"medinote-backend/internal/models"
	"medinote-backend/internal/store"

	"github.com/gin-gonic/gin"
)

type TemplatesHandler struct {
	docs store.DocumentStore
}

func NewTemplatesHandler(docs store.DocumentStore) *TemplatesHandler {
	return &TemplatesHandler{docs: docs}
}

func (h *TemplatesHandler) FetchDefaultTemplates(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "userId is required"})
		return
	}

	templates, err := h.docs.List(c.Request.Context(), store.Templates, store.Filter{Field: "userId", Value: userID})
	if err != nil {
		respondError(c, err)
		return
	}
	if templates == nil {
		templates = []map[string]any{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": templates})
}

func (h *TemplatesHandler) CreateTemplate(c *gin.Context) {
	userID := middleware.UserID(c)

	var req models.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Title == "" || userID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "title and userId are required"})
		return
	}

	templateType := req.Type
	if templateType == "" {
		templateType = "custom"
	}
	doc, err := models.ToDoc(models.Template{
		UserID:  userID,
		Title:   req.Title,
		Type:    templateType,
		Content: req.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.docs.Add(c.Request.Context(), store.Templates, doc)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *TemplatesHandler) UpdateTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	userID := middleware.UserID(c)

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	if !h.checkOwner(c, templateID, userID) {
		return
	}

	if err := h.docs.Update(c.Request.Context(), store.Templates, templateID, data); err != nil {
		respondError(c, err)
		return
	}

	template, err := h.docs.Get(c.Request.Context(), store.Templates, templateID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *TemplatesHandler) DeleteTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	userID := middleware.UserID(c)

	if !h.checkOwner(c, templateID, userID) {
		return
	}

	if err := h.docs.Delete(c.Request.Context(), store.Templates, templateID); err != nil && !errors.Is(err, store.ErrNotFound) {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Template deleted successfully"})
}

func (h *TemplatesHandler) checkOwner(c *gin.Context, templateID, userID string) bool {
	template, err := h.docs.Get(c.Request.Context(), store.Templates, templateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Template not found"})
			return false
		}
		respondError(c, err)
		return false
	}
	if owner, _ := template["userId"].(string); owner != userID {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
		return false
	}
	return true
}
