// internal/store/applications.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"iana-intake/internal/models"
)

// ErrNotFound is returned when a lookup by primary key or token resolves
// no row.
var ErrNotFound = errors.New("not found")

// ApplicationStore persists application rows. Every operation is a
// single-row read or write; no multi-row transactions are needed.
type ApplicationStore struct {
	db *sql.DB
}

func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

// Insert writes the application row. This is the submission workflow's
// commit point: once it succeeds the caller is guaranteed an application
// exists even if every later step fails.
func (s *ApplicationStore) Insert(ctx context.Context, app *models.Application) error {
	formDataJSON, err := json.Marshal(app.FormData)
	if err != nil {
		return fmt.Errorf("marshal form data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applications (id, application_type, form_data, applicant_email, status, submitted_at, email_sent)
		VALUES ($1, $2, $3, $4, $5, $6, false)`,
		app.ID,
		app.ApplicationType,
		formDataJSON,
		nullableString(app.ApplicantEmail),
		string(app.Status),
		app.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// GetByID fetches one application with its full payload.
func (s *ApplicationStore) GetByID(ctx context.Context, id string) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, application_type, form_data, applicant_email, status, submitted_at, email_sent, email_sent_at
		FROM applications
		WHERE id = $1`,
		id,
	)

	var (
		app            models.Application
		formDataJSON   []byte
		applicantEmail sql.NullString
		status         string
		emailSentAt    sql.NullTime
	)
	err := row.Scan(&app.ID, &app.ApplicationType, &formDataJSON, &applicantEmail, &status, &app.SubmittedAt, &app.EmailSent, &emailSentAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}

	if err := json.Unmarshal(formDataJSON, &app.FormData); err != nil {
		return nil, fmt.Errorf("unmarshal form data: %w", err)
	}
	app.ApplicantEmail = applicantEmail.String
	app.Status = models.ApplicationStatus(status)
	if emailSentAt.Valid {
		t := emailSentAt.Time
		app.EmailSentAt = &t
	}
	return &app, nil
}

// List returns summary rows for every application, newest submission first.
func (s *ApplicationStore) List(ctx context.Context) ([]models.ApplicationSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_type, status, applicant_email, submitted_at
		FROM applications
		ORDER BY submitted_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []models.ApplicationSummary
	for rows.Next() {
		var (
			summary        models.ApplicationSummary
			status         string
			applicantEmail sql.NullString
		)
		if err := rows.Scan(&summary.ID, &summary.ApplicationType, &status, &applicantEmail, &summary.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan application row: %w", err)
		}
		summary.Status = models.ApplicationStatus(status)
		summary.ApplicantEmail = applicantEmail.String
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

// UpdateStatus moves one application to another of the four enumerated
// statuses. No transition ordering is enforced.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE applications SET status = $2 WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	return nil
}

// MarkEmailSent records that the notification fan-out finished for this
// application.
func (s *ApplicationStore) MarkEmailSent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE applications SET email_sent = true, email_sent_at = NOW() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	return nil
}

// ApplicantName assembles the applicant's display name from the stored
// payload, used when addressing guarantor and reference invitations.
func (s *ApplicationStore) ApplicantName(ctx context.Context, id string) (string, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT form_data->>'first_name', form_data->>'middle_name', form_data->>'last_name'
		FROM applications
		WHERE id = $1`,
		id,
	)

	var first, middle, last sql.NullString
	err := row.Scan(&first, &middle, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get applicant name: %w", err)
	}

	parts := make([]string, 0, 3)
	for _, p := range []sql.NullString{first, middle, last} {
		if p.Valid && strings.TrimSpace(p.String) != "" {
			parts = append(parts, strings.TrimSpace(p.String))
		}
	}
	return strings.Join(parts, " "), nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
