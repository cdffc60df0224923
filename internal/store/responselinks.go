// internal/store/responselinks.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"iana-intake/internal/models"
)

// ResponseLinkStore persists guarantor/reference response links. Tokens are
// the only externally shared lookup key; no enumeration is exposed beyond
// the per-application listing used by the admin surface.
type ResponseLinkStore struct {
	db *sql.DB
}

func NewResponseLinkStore(db *sql.DB) *ResponseLinkStore {
	return &ResponseLinkStore{db: db}
}

// Insert writes one freshly provisioned link.
func (s *ResponseLinkStore) Insert(ctx context.Context, link *models.ResponseLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO response_links (id, application_id, role, reference_index, token, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		link.ID,
		link.ApplicationID,
		string(link.Role),
		link.ReferenceIndex,
		link.Token,
		link.Email,
		link.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert response link: %w", err)
	}
	return nil
}

// GetByToken resolves a link by its unguessable token.
func (s *ResponseLinkStore) GetByToken(ctx context.Context, token string) (*models.ResponseLink, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, application_id, role, reference_index, token, email, created_at, submitted_at, answers, document_url
		FROM response_links
		WHERE token = $1`,
		token,
	)
	return scanResponseLink(row)
}

// Complete sets the answers, document URL and submission timestamp, but only
// while the link is still open. The conditional predicate closes the race
// between two completion attempts: the second writer matches zero rows and
// the first writer's answers are retained unchanged.
func (s *ResponseLinkStore) Complete(ctx context.Context, token string, answers map[string]string, documentURL string) (bool, error) {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return false, fmt.Errorf("marshal answers: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE response_links
		SET answers = $2, document_url = $3, submitted_at = NOW()
		WHERE token = $1 AND submitted_at IS NULL`,
		token, answersJSON, documentURL,
	)
	if err != nil {
		return false, fmt.Errorf("complete response link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete response link: %w", err)
	}
	return n > 0, nil
}

// ListByApplication returns an application's links ordered by role, then
// reference index, for the admin detail view.
func (s *ResponseLinkStore) ListByApplication(ctx context.Context, applicationID string) ([]models.ResponseLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, role, reference_index, token, email, created_at, submitted_at, answers, document_url
		FROM response_links
		WHERE application_id = $1
		ORDER BY role, reference_index`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list response links: %w", err)
	}
	defer rows.Close()

	var out []models.ResponseLink
	for rows.Next() {
		link, err := scanResponseLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list response links: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResponseLink(row rowScanner) (*models.ResponseLink, error) {
	var (
		link        models.ResponseLink
		role        string
		submittedAt sql.NullTime
		answersJSON []byte
		documentURL sql.NullString
	)
	err := row.Scan(&link.ID, &link.ApplicationID, &role, &link.ReferenceIndex, &link.Token, &link.Email, &link.CreatedAt, &submittedAt, &answersJSON, &documentURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("response link: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan response link: %w", err)
	}

	link.Role = models.LinkRole(role)
	if submittedAt.Valid {
		t := submittedAt.Time
		link.SubmittedAt = &t
	}
	if len(answersJSON) > 0 {
		if err := json.Unmarshal(answersJSON, &link.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	link.DocumentURL = documentURL.String
	return &link, nil
}
