// internal/store/adminusers.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"iana-intake/internal/models"
)

// AdminUserStore reads the admin_users lookup table keyed by the identity
// provider's subject identifier. Read-only from this service's perspective.
type AdminUserStore struct {
	db *sql.DB
}

func NewAdminUserStore(db *sql.DB) *AdminUserStore {
	return &AdminUserStore{db: db}
}

// GetBySubject resolves the mirrored admin record for a provider subject.
func (s *AdminUserStore) GetBySubject(ctx context.Context, subjectID string) (*models.AdminUser, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, subject_id, email, role
		FROM admin_users
		WHERE subject_id = $1`,
		subjectID,
	)

	var (
		user  models.AdminUser
		email sql.NullString
	)
	err := row.Scan(&user.ID, &user.SubjectID, &email, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("admin user %s: %w", subjectID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get admin user: %w", err)
	}
	user.Email = email.String
	return &user, nil
}
