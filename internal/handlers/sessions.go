package handlers

import (
	"net/http"
	"strings"

	"medinote-backend/internal/middleware"
	"medinote-backend/internal/models"
	"medinote-backend/internal/session"
	"medinote-backend/internal/store"

	"github.com/gin-gonic/gin"
)

type SessionsHandler struct {
	manager *session.Manager
	docs    store.DocumentStore
}

func NewSessionsHandler(manager *session.Manager, docs store.DocumentStore) *SessionsHandler {
	return &SessionsHandler{manager: manager, docs: docs}
}

func (h *SessionsHandler) CreateSession(c *gin.Context) {
	userID := middleware.UserID(c)

	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	id, err := h.manager.CreateSession(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreatedResponse{ID: id})
}

// ListSessions returns every session for a user plus a patient lookup map
// so the client can render names without extra round trips.
func (h *SessionsHandler) ListSessions(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "userId is required"})
		return
	}

	sessions, err := h.docs.List(c.Request.Context(), store.Sessions, store.Filter{Field: "userId", Value: userID})
	if err != nil {
		respondError(c, err)
		return
	}

	summaries := make([]models.SessionSummary, 0, len(sessions))
	patientMap := make(map[string]models.PatientRef)
	for _, doc := range sessions {
		summaries = append(summaries, sessionSummary(doc, true))

		patientID, _ := doc["patientId"].(string)
		if patientID == "" {
			continue
		}
		if _, seen := patientMap[patientID]; seen {
			continue
		}
		patient, err := h.docs.Get(c.Request.Context(), store.Patients, patientID)
		if err != nil {
			continue
		}
		name, _ := patient["name"].(string)
		pronouns, _ := patient["pronouns"].(string)
		patientMap[patientID] = models.PatientRef{Name: name, Pronouns: pronouns}
	}

	c.JSON(http.StatusOK, models.SessionListResponse{Sessions: summaries, PatientMap: patientMap})
}

func (h *SessionsHandler) GetSession(c *gin.Context) {
	doc, err := h.manager.GetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *SessionsHandler) UpdateSession(c *gin.Context) {
	userID := middleware.UserID(c)

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	doc, err := h.manager.UpdateSession(c.Request.Context(), c.Param("sessionId"), userID, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": doc})
}

func (h *SessionsHandler) DeleteSession(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := h.manager.DeleteSession(c.Request.Context(), c.Param("sessionId"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Session deleted successfully"})
}

// sessionSummary trims a session document to the list shape. The date is
// the calendar-day part of startTime.
func sessionSummary(doc map[string]any, includeOwner bool) models.SessionSummary {
	startTime, _ := doc["startTime"].(string)
	summary := models.SessionSummary{
		Status:    asString(doc["status"]),
		StartTime: startTime,
	}
	summary.ID = asString(doc["id"])
	if includeOwner {
		summary.UserID = asString(doc["userId"])
		summary.PatientID = asString(doc["patientId"])
		summary.PatientName = asString(doc["patientName"])
	}
	if i := strings.Index(startTime, "T"); i > 0 {
		summary.Date = startTime[:i]
	}
	return summary
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
