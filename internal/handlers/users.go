package handlers

import (
	"errors"
	"net/http"

	"medinote-backend/internal/middleware"
	"medinote-backend/internal/models"
	"medinote-backend/internal/session"
	"medinote-backend/internal/store"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	docs    store.DocumentStore
	manager *session.Manager
}

func NewUsersHandler(docs store.DocumentStore, manager *session.Manager) *UsersHandler {
	return &UsersHandler{docs: docs, manager: manager}
}

// GetUserByEmail serves the legacy lookup path the mobile client still
// calls on sign-in.
func (h *UsersHandler) GetUserByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "email is required"})
		return
	}

	users, err := h.docs.List(c.Request.Context(), store.Users, store.Filter{Field: "email", Value: email})
	if err != nil {
		respondError(c, err)
		return
	}
	if len(users) == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		return
	}

	user := users[0]
	c.JSON(http.StatusOK, gin.H{
		"id":    user["id"],
		"email": user["email"],
		"name":  user["name"],
	})
}

// CreateOrGetUser upserts by email: an existing user is returned as-is
// with a 200, a new one is created with a 201.
func (h *UsersHandler) CreateOrGetUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "email is required"})
		return
	}

	existing, err := h.docs.List(c.Request.Context(), store.Users, store.Filter{Field: "email", Value: req.Email})
	if err != nil {
		respondError(c, err)
		return
	}
	if len(existing) > 0 {
		c.JSON(http.StatusOK, existing[0])
		return
	}

	doc, err := models.ToDoc(models.User{Email: req.Email, Name: req.Name})
	if err != nil {
		respondError(c, err)
		return
	}
	created, err := h.docs.Add(c.Request.Context(), store.Users, doc)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *UsersHandler) GetProfile(c *gin.Context) {
	user, ok := h.profileDoc(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) UpdateProfile(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	user, ok := h.profileDoc(c)
	if !ok {
		return
	}
	id, _ := user["id"].(string)

	if err := h.docs.Update(c.Request.Context(), store.Users, id, data); err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.docs.Get(c.Request.Context(), store.Users, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProfile cascades through everything the user owns: sessions with
// their chunks and blobs, then patients and templates, then the user
// record.
func (h *UsersHandler) DeleteProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := h.manager.DeleteUserData(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	email, _ := c.Get(middleware.UserEmailKey)
	if emailStr, _ := email.(string); emailStr != "" {
		users, err := h.docs.List(c.Request.Context(), store.Users, store.Filter{Field: "email", Value: emailStr})
		if err != nil {
			respondError(c, err)
			return
		}
		for _, user := range users {
			id, _ := user["id"].(string)
			if err := h.docs.Delete(c.Request.Context(), store.Users, id); err != nil && !errors.Is(err, store.ErrNotFound) {
				respondError(c, err)
				return
			}
		}
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "User profile deleted successfully"})
}

func (h *UsersHandler) GetStats(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()
	owner := store.Filter{Field: "userId", Value: userID}

	patients, err := h.docs.List(ctx, store.Patients, owner)
	if err != nil {
		respondError(c, err)
		return
	}
	sessions, err := h.docs.List(ctx, store.Sessions, owner)
	if err != nil {
		respondError(c, err)
		return
	}
	templates, err := h.docs.List(ctx, store.Templates, owner)
	if err != nil {
		respondError(c, err)
		return
	}

	stats := models.StatsResponse{
		TotalPatients:  len(patients),
		TotalSessions:  len(sessions),
		TotalTemplates: len(templates),
	}
	for _, s := range sessions {
		switch s["status"] {
		case models.SessionCompleted:
			stats.CompletedSessions++
		case models.SessionInProgress:
			stats.PendingSessions++
		}
	}

	c.JSON(http.StatusOK, stats)
}

// profileDoc resolves the caller's user document by the email carried in
// their identity.
func (h *UsersHandler) profileDoc(c *gin.Context) (map[string]any, bool) {
	email, _ := c.Get(middleware.UserEmailKey)
	emailStr, _ := email.(string)
	if emailStr == "" {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "User profile not found"})
		return nil, false
	}

	users, err := h.docs.List(c.Request.Context(), store.Users, store.Filter{Field: "email", Value: emailStr})
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if len(users) == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "User profile not found"})
		return nil, false
	}
	return users[0], true
}
