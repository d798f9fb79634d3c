package models

// PresignRequest asks for a direct-upload destination for one audio chunk.
// ChunkNumber is a pointer so that an absent field can be told apart from
// chunk zero.
type PresignRequest struct {
	SessionID   string `json:"sessionId"`
	ChunkNumber *int   `json:"chunkNumber"`
	MimeType    string `json:"mimeType"`
}

// NotifyChunkRequest reports that a chunk upload finished. Only sessionId,
// gcsPath and chunkNumber are required; the template/model selection fields
// are honored when isLast is set.
type NotifyChunkRequest struct {
	SessionID          string `json:"sessionId"`
	GCSPath            string `json:"gcsPath"`
	ChunkNumber        *int   `json:"chunkNumber"`
	IsLast             bool   `json:"isLast"`
	TotalChunksClient  int    `json:"totalChunksClient"`
	PublicURL          string `json:"publicUrl"`
	MimeType           string `json:"mimeType"`
	SelectedTemplate   string `json:"selectedTemplate"`
	SelectedTemplateID string `json:"selectedTemplateId"`
	Model              string `json:"model"`
}

type CreateSessionRequest struct {
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
}

type CreatePatientRequest struct {
	Name              string `json:"name"`
	Pronouns          string `json:"pronouns"`
	Email             string `json:"email"`
	Background        string `json:"background"`
	MedicalHistory    string `json:"medical_history"`
	FamilyHistory     string `json:"family_history"`
	SocialHistory     string `json:"social_history"`
	PreviousTreatment string `json:"previous_treatment"`
}

type CreateTemplateRequest struct {
	Title   string `json:"title"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
