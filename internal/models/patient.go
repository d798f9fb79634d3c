package models

type Patient struct {
	ID                string `json:"id,omitempty"`
	UserID            string `json:"userId"`
	Name              string `json:"name"`
	Pronouns          string `json:"pronouns,omitempty"`
	Email             string `json:"email,omitempty"`
	Background        string `json:"background,omitempty"`
	MedicalHistory    string `json:"medical_history,omitempty"`
	FamilyHistory     string `json:"family_history,omitempty"`
	SocialHistory     string `json:"social_history,omitempty"`
	PreviousTreatment string `json:"previous_treatment,omitempty"`
}

type Template struct {
	ID      string `json:"id,omitempty"`
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Type    string `json:"type,omitempty"`
	Content string `json:"content,omitempty"`
}

type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
