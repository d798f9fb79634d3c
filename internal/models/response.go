package models

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type PresignResponse struct {
	URL       string `json:"url"`
	GCSPath   string `json:"gcsPath"`
	PublicURL string `json:"publicUrl"`
}

type NotifyChunkResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type ChunksResponse struct {
	Chunks []map[string]any `json:"chunks"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

// SessionSummary is the trimmed session shape the list endpoints return.
type SessionSummary struct {
	ID          string `json:"id"`
	UserID      string `json:"userId,omitempty"`
	PatientID   string `json:"patientId,omitempty"`
	Status      string `json:"status"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	PatientName string `json:"patientName,omitempty"`
}

type PatientRef struct {
	Name     string `json:"name"`
	Pronouns string `json:"pronouns,omitempty"`
}

type SessionListResponse struct {
	Sessions   []SessionSummary      `json:"sessions"`
	PatientMap map[string]PatientRef `json:"patientMap"`
}

type PatientSessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

type StatsResponse struct {
	TotalPatients     int `json:"totalPatients"`
	TotalSessions     int `json:"totalSessions"`
	TotalTemplates    int `json:"totalTemplates"`
	CompletedSessions int `json:"completedSessions"`
	PendingSessions   int `json:"pendingSessions"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
}
