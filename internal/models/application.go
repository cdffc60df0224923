// internal/models/application.go
package models

import "time"

// ApplicationType identifies which registered form an application was
// submitted against.
const (
	TypePreliminaryPersonal  = "preliminary-personal"
	TypePreliminaryEducation = "preliminary-education"
	TypePreliminaryBusiness  = "preliminary-business"
	TypeFinal                = "final"
)

// ApplicationStatus is mutated exclusively by an authenticated reviewer.
type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "submitted"
	StatusReviewed  ApplicationStatus = "reviewed"
	StatusApproved  ApplicationStatus = "approved"
	StatusRejected  ApplicationStatus = "rejected"
)

// ValidStatus reports whether s is one of the four enumerated values.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusSubmitted, StatusReviewed, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is one submitted loan-request record. FormData is stored
// verbatim and treated as opaque by every consumer except the admin UI.
type Application struct {
	ID              string                 `json:"id"`
	ApplicationType string                 `json:"applicationType"`
	FormData        map[string]interface{} `json:"formData"`
	ApplicantEmail  string                 `json:"applicantEmail,omitempty"`
	Status          ApplicationStatus      `json:"status"`
	SubmittedAt     time.Time              `json:"submittedAt"`
	EmailSent       bool                   `json:"emailSent"`
	EmailSentAt     *time.Time             `json:"emailSentAt,omitempty"`
}

// ApplicationSummary is the admin listing row.
type ApplicationSummary struct {
	ID              string            `json:"id"`
	ApplicationType string            `json:"applicationType"`
	Status          ApplicationStatus `json:"status"`
	ApplicantEmail  string            `json:"applicantEmail,omitempty"`
	SubmittedAt     time.Time         `json:"submittedAt"`
}
