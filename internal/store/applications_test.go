// internal/store/applications_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iana-intake/internal/models"
)

func testApplication() *models.Application {
	return &models.Application{
		ID:              "11111111-1111-1111-1111-111111111111",
		ApplicationType: models.TypePreliminaryPersonal,
		FormData: map[string]interface{}{
			"first_name":       "Ahmed",
			"last_name":        "Khan",
			"amount_requested": "5000",
		},
		ApplicantEmail: "ahmed@example.com",
		Status:         models.StatusSubmitted,
		SubmittedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestApplicationStore_Insert_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := testApplication()

	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(
			app.ID,
			app.ApplicationType,
			sqlmock.AnyArg(), // form_data JSON
			app.ApplicantEmail,
			"submitted",
			app.SubmittedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewApplicationStore(db)
	assert.NoError(t, store.Insert(context.Background(), app))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_Insert_NoEmailStoresNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := testApplication()
	app.ApplicantEmail = ""

	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(
			app.ID,
			app.ApplicationType,
			sqlmock.AnyArg(),
			nil,
			"submitted",
			app.SubmittedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewApplicationStore(db)
	assert.NoError(t, store.Insert(context.Background(), app))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_GetByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	submittedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "application_type", "form_data", "applicant_email", "status", "submitted_at", "email_sent", "email_sent_at"}).
		AddRow("app-1", "final", []byte(`{"first_name":"Ahmed"}`), "ahmed@example.com", "submitted", submittedAt, true, submittedAt)

	mock.ExpectQuery(`SELECT id, application_type, form_data`).
		WithArgs("app-1").
		WillReturnRows(rows)

	store := NewApplicationStore(db)
	app, err := store.GetByID(context.Background(), "app-1")

	require.NoError(t, err)
	assert.Equal(t, "final", app.ApplicationType)
	assert.Equal(t, models.StatusSubmitted, app.Status)
	assert.Equal(t, "Ahmed", app.FormData["first_name"])
	assert.True(t, app.EmailSent)
	require.NotNil(t, app.EmailSentAt)
}

func TestApplicationStore_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, application_type, form_data`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	store := NewApplicationStore(db)
	_, err = store.GetByID(context.Background(), "missing")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestApplicationStore_List_OrdersNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "application_type", "status", "applicant_email", "submitted_at"}).
		AddRow("app-2", "final", "submitted", nil, newer).
		AddRow("app-1", "preliminary-personal", "approved", "a@example.com", older)

	mock.ExpectQuery(`ORDER BY submitted_at DESC`).WillReturnRows(rows)

	store := NewApplicationStore(db)
	list, err := store.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "app-2", list[0].ID)
	assert.Empty(t, list[0].ApplicantEmail)
	assert.Equal(t, models.StatusApproved, list[1].Status)
}

func TestApplicationStore_UpdateStatus_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE applications SET status`).
		WithArgs("app-1", "approved").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewApplicationStore(db)
	assert.NoError(t, store.UpdateStatus(context.Background(), "app-1", models.StatusApproved))
}

func TestApplicationStore_UpdateStatus_MissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE applications SET status`).
		WithArgs("missing", "approved").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewApplicationStore(db)
	err = store.UpdateStatus(context.Background(), "missing", models.StatusApproved)

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestApplicationStore_MarkEmailSent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE applications SET email_sent = true`).
		WithArgs("app-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewApplicationStore(db)
	assert.NoError(t, store.MarkEmailSent(context.Background(), "app-1"))
}

func TestApplicationStore_ApplicantName_SkipsEmptyParts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"first_name", "middle_name", "last_name"}).
		AddRow("Ahmed", nil, "Khan")

	mock.ExpectQuery(`form_data->>'first_name'`).
		WithArgs("app-1").
		WillReturnRows(rows)

	store := NewApplicationStore(db)
	name, err := store.ApplicantName(context.Background(), "app-1")

	require.NoError(t, err)
	assert.Equal(t, "Ahmed Khan", name)
}
