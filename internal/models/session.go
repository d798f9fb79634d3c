package models

// Session lifecycle statuses.
const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
)

// Session is one recording unit tied to a patient and user. Timestamps are
// stored as RFC 3339 strings, matching the document layout the mobile
// client already consumes.
type Session struct {
	ID             string `json:"id,omitempty"`
	UserID         string `json:"userId"`
	PatientID      string `json:"patientId"`
	PatientName    string `json:"patientName,omitempty"`
	Status         string `json:"status"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime,omitempty"`
	ChunksUploaded int    `json:"chunksUploaded"`
	TotalChunks    int    `json:"totalChunks"`
	TemplateID     string `json:"templateId,omitempty"`
	Model          string `json:"model,omitempty"`
}

// Chunk is one uploaded audio segment belonging to a session. Chunk records
// are created on notification and never mutated afterward. A chunk record
// does not guarantee the blob landed; upload happens out-of-band.
type Chunk struct {
	ID          string `json:"id,omitempty"`
	SessionID   string `json:"sessionId"`
	ChunkNumber int    `json:"chunkNumber"`
	GCSPath     string `json:"gcsPath"`
	PublicURL   string `json:"publicUrl,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	IsLast      bool   `json:"isLast"`
	UploadedAt  string `json:"uploadedAt"`
}
