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

type PatientsHandler struct {
	docs    store.DocumentStore
	manager *session.Manager
}

func NewPatientsHandler(docs store.DocumentStore, manager *session.Manager) *PatientsHandler {
	return &PatientsHandler{docs: docs, manager: manager}
}

func (h *PatientsHandler) ListPatients(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "userId is required"})
		return
	}

	patients, err := h.docs.List(c.Request.Context(), store.Patients, store.Filter{Field: "userId", Value: userID})
	if err != nil {
		respondError(c, err)
		return
	}
	if patients == nil {
		patients = []map[string]any{}
	}

	c.JSON(http.StatusOK, gin.H{"patients": patients})
}

func (h *PatientsHandler) CreatePatient(c *gin.Context) {
	userID := middleware.UserID(c)

	var req models.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Name == "" || userID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "name and userId are required"})
		return
	}

	patient := models.Patient{
		UserID:            userID,
		Name:              req.Name,
		Pronouns:          req.Pronouns,
		Email:             req.Email,
		Background:        req.Background,
		MedicalHistory:    req.MedicalHistory,
		FamilyHistory:     req.FamilyHistory,
		SocialHistory:     req.SocialHistory,
		PreviousTreatment: req.PreviousTreatment,
	}
	doc, err := models.ToDoc(patient)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.docs.Add(c.Request.Context(), store.Patients, doc)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"patient": created})
}

func (h *PatientsHandler) GetPatient(c *gin.Context) {
	patient, err := h.docs.Get(c.Request.Context(), store.Patients, c.Param("patientId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Patient not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

func (h *PatientsHandler) UpdatePatient(c *gin.Context) {
	patientID := c.Param("patientId")
	userID := middleware.UserID(c)

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	if !h.checkOwner(c, patientID, userID) {
		return
	}

	if err := h.docs.Update(c.Request.Context(), store.Patients, patientID, data); err != nil {
		respondError(c, err)
		return
	}

	patient, err := h.docs.Get(c.Request.Context(), store.Patients, patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": patient})
}

// DeletePatient cascades through every session the patient owns before
// removing the patient record itself.
func (h *PatientsHandler) DeletePatient(c *gin.Context) {
	patientID := c.Param("patientId")
	userID := middleware.UserID(c)

	if !h.checkOwner(c, patientID, userID) {
		return
	}

	if err := h.manager.DeletePatientSessions(c.Request.Context(), patientID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.docs.Delete(c.Request.Context(), store.Patients, patientID); err != nil && !errors.Is(err, store.ErrNotFound) {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Patient deleted successfully"})
}

func (h *PatientsHandler) GetPatientSessions(c *gin.Context) {
	patientID := c.Param("patientId")

	sessions, err := h.docs.List(c.Request.Context(), store.Sessions, store.Filter{Field: "patientId", Value: patientID})
	if err != nil {
		respondError(c, err)
		return
	}

	summaries := make([]models.SessionSummary, 0, len(sessions))
	for _, doc := range sessions {
		summaries = append(summaries, sessionSummary(doc, false))
	}

	c.JSON(http.StatusOK, models.PatientSessionsResponse{Sessions: summaries})
}

func (h *PatientsHandler) checkOwner(c *gin.Context, patientID, userID string) bool {
	patient, err := h.docs.Get(c.Request.Context(), store.Patients, patientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Patient not found"})
			return false
		}
		respondError(c, err)
		return false
	}
	if owner, _ := patient["userId"].(string); owner != userID {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
		return false
	}
	return true
}
