package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medinote-backend/internal/config"
	"medinote-backend/internal/handlers"
	"medinote-backend/internal/middleware"
	"medinote-backend/internal/session"
	"medinote-backend/internal/store"
)

// crudRouter wires the patient, template and user routes with an in-memory
// store and the anonymous-fallback identity.
func crudRouter() (*gin.Engine, store.DocumentStore) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DefaultUserID:    "user123",
		DefaultUserEmail: "user@example.com",
	}
	docs := store.NewMemoryStore()
	manager := session.NewManager(docs, &stubBlobStore{})

	patientsHandler := handlers.NewPatientsHandler(docs, manager)
	templatesHandler := handlers.NewTemplatesHandler(docs)
	usersHandler := handlers.NewUsersHandler(docs, manager)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(middleware.Identity(cfg))
	api.GET("/patients", patientsHandler.ListPatients)
	api.POST("/add-patient-ext", patientsHandler.CreatePatient)
	api.GET("/patient-details/:patientId", patientsHandler.GetPatient)
	api.PUT("/patients/:patientId", patientsHandler.UpdatePatient)
	api.DELETE("/patients/:patientId", patientsHandler.DeletePatient)
	api.GET("/fetch-session-by-patient/:patientId", patientsHandler.GetPatientSessions)
	api.GET("/fetch-default-template-ext", templatesHandler.FetchDefaultTemplates)
	api.POST("/templates", templatesHandler.CreateTemplate)
	api.PUT("/templates/:templateId", templatesHandler.UpdateTemplate)
	api.DELETE("/templates/:templateId", templatesHandler.DeleteTemplate)

	users := router.Group("/api/users")
	users.Use(middleware.Identity(cfg))
	users.GET("/asd3fd2faec", usersHandler.GetUserByEmail)
	users.POST("", usersHandler.CreateOrGetUser)
	users.GET("/stats", usersHandler.GetStats)

	return router, docs
}

func createPatient(t *testing.T, router *gin.Engine, name string) string {
	t.Helper()
	w := doJSON(router, "POST", "/api/v1/add-patient-ext", gin.H{
		"name":     name,
		"pronouns": "they/them",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Patient map[string]any `json:"patient"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id, _ := resp.Patient["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestCreateAndGetPatient(t *testing.T) {
	router, _ := crudRouter()
	id := createPatient(t, router, "Jordan Doe")

	w := doJSON(router, "GET", "/api/v1/patient-details/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jordan Doe")

	w = doJSON(router, "GET", "/api/v1/patients?userId=user123", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jordan Doe")
}

func TestCreatePatient_MissingName(t *testing.T) {
	router, _ := crudRouter()
	w := doJSON(router, "POST", "/api/v1/add-patient-ext", gin.H{"pronouns": "she/her"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPatient_Missing(t *testing.T) {
	router, _ := crudRouter()
	w := doJSON(router, "GET", "/api/v1/patient-details/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Patient not found")
}

func TestUpdatePatient(t *testing.T) {
	router, _ := crudRouter()
	id := createPatient(t, router, "Jordan Doe")

	w := doJSON(router, "PUT", "/api/v1/patients/"+id, gin.H{"background": "updated background"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "updated background")
}

func TestUpdatePatient_NotOwner(t *testing.T) {
	router, docs := crudRouter()

	created, err := docs.Add(context.Background(), store.Patients, map[string]any{
		"userId": "someone-else",
		"name":   "Not Yours",
	})
	require.NoError(t, err)
	id := created["id"].(string)

	w := doJSON(router, "PUT", "/api/v1/patients/"+id, gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeletePatient_CascadesSessions(t *testing.T) {
	router, docs := crudRouter()
	ctx := context.Background()
	id := createPatient(t, router, "Jordan Doe")

	sess, err := docs.Add(ctx, store.Sessions, map[string]any{
		"userId":    "user123",
		"patientId": id,
		"status":    "in_progress",
	})
	require.NoError(t, err)
	_, err = docs.Add(ctx, store.Chunks, map[string]any{
		"sessionId":   sess["id"],
		"chunkNumber": 0,
		"gcsPath":     "sessions/x/chunk_0.wav",
	})
	require.NoError(t, err)

	w := doJSON(router, "DELETE", "/api/v1/patients/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, err = docs.Get(ctx, store.Patients, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	sessions, err := docs.List(ctx, store.Sessions)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	chunks, err := docs.List(ctx, store.Chunks)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestGetPatientSessions(t *testing.T) {
	router, docs := crudRouter()
	ctx := context.Background()

	for _, patientID := range []string{"p1", "p1", "p2"} {
		_, err := docs.Add(ctx, store.Sessions, map[string]any{
			"userId":    "user123",
			"patientId": patientID,
			"status":    "completed",
			"startTime": "2025-06-01T10:00:00Z",
		})
		require.NoError(t, err)
	}

	w := doJSON(router, "GET", "/api/v1/fetch-session-by-patient/p1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sessions []map[string]any `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Sessions, 2)
	assert.Equal(t, "2025-06-01", resp.Sessions[0]["date"])
}

func TestTemplateLifecycle(t *testing.T) {
	router, _ := crudRouter()

	w := doJSON(router, "POST", "/api/v1/templates", gin.H{
		"title":   "SOAP Note",
		"content": "Subjective, Objective, Assessment, Plan",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created["id"].(string)
	assert.Equal(t, "custom", created["type"])

	w = doJSON(router, "GET", "/api/v1/fetch-default-template-ext?userId=user123", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SOAP Note")

	w = doJSON(router, "PUT", "/api/v1/templates/"+id, gin.H{"title": "SOAP Note v2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SOAP Note v2")

	w = doJSON(router, "DELETE", "/api/v1/templates/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/v1/fetch-default-template-ext?userId=user123", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "SOAP Note")
}

func TestCreateTemplate_MissingTitle(t *testing.T) {
	router, _ := crudRouter()
	w := doJSON(router, "POST", "/api/v1/templates", gin.H{"content": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrGetUser_Upsert(t *testing.T) {
	router, _ := crudRouter()

	w := doJSON(router, "POST", "/api/users", gin.H{
		"email": "doc@example.com",
		"name":  "Dr. Doe",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var first map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	// Same email comes back as the existing record.
	w = doJSON(router, "POST", "/api/users", gin.H{"email": "doc@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	var second map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, first["id"], second["id"])
}

func TestGetUserByEmail(t *testing.T) {
	router, _ := crudRouter()

	doJSON(router, "POST", "/api/users", gin.H{"email": "doc@example.com", "name": "Dr. Doe"})

	w := doJSON(router, "GET", "/api/users/asd3fd2faec?email=doc@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dr. Doe")

	w = doJSON(router, "GET", "/api/users/asd3fd2faec?email=nobody@example.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStats(t *testing.T) {
	router, docs := crudRouter()
	ctx := context.Background()

	for _, status := range []string{"completed", "completed", "in_progress"} {
		_, err := docs.Add(ctx, store.Sessions, map[string]any{
			"userId": "user123",
			"status": status,
		})
		require.NoError(t, err)
	}
	_, err := docs.Add(ctx, store.Patients, map[string]any{"userId": "user123", "name": "Jordan"})
	require.NoError(t, err)

	w := doJSON(router, "GET", "/api/users/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 3, stats["totalSessions"])
	assert.EqualValues(t, 2, stats["completedSessions"])
	assert.EqualValues(t, 1, stats["pendingSessions"])
	assert.EqualValues(t, 1, stats["totalPatients"])
}
