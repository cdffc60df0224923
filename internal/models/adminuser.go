// internal/models/adminuser.go
package models

// RoleAdmin is the only admin_users role granted access to the review
// surface.
const RoleAdmin = "admin"

// AdminUser mirrors the identity provider's subject into a local role
// lookup. Read-only from this service's perspective.
type AdminUser struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
}
