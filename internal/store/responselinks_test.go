// internal/store/responselinks_test.go
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

func testLink() *models.ResponseLink {
	return &models.ResponseLink{
		ID:             "22222222-2222-2222-2222-222222222222",
		ApplicationID:  "11111111-1111-1111-1111-111111111111",
		Role:           models.RoleGuarantor,
		ReferenceIndex: 0,
		Token:          "aabbccddeeff00112233445566778899",
		Email:          "guarantor@example.com",
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestResponseLinkStore_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	link := testLink()

	mock.ExpectExec(`INSERT INTO response_links`).
		WithArgs(link.ID, link.ApplicationID, "guarantor", 0, link.Token, link.Email, link.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewResponseLinkStore(db)
	assert.NoError(t, store.Insert(context.Background(), link))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseLinkStore_GetByToken_Open(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	link := testLink()
	rows := sqlmock.NewRows([]string{"id", "application_id", "role", "reference_index", "token", "email", "created_at", "submitted_at", "answers", "document_url"}).
		AddRow(link.ID, link.ApplicationID, "guarantor", 0, link.Token, link.Email, link.CreatedAt, nil, nil, nil)

	mock.ExpectQuery(`FROM response_links`).
		WithArgs(link.Token).
		WillReturnRows(rows)

	store := NewResponseLinkStore(db)
	got, err := store.GetByToken(context.Background(), link.Token)

	require.NoError(t, err)
	assert.Equal(t, models.RoleGuarantor, got.Role)
	assert.False(t, got.Completed())
	assert.Nil(t, got.Answers)
}

func TestResponseLinkStore_GetByToken_Completed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	link := testLink()
	submittedAt := link.CreatedAt.Add(24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "application_id", "role", "reference_index", "token", "email", "created_at", "submitted_at", "answers", "document_url"}).
		AddRow(link.ID, link.ApplicationID, "guarantor", 0, link.Token, link.Email, link.CreatedAt, submittedAt, []byte(`{"q1":"Jane Doe, accountant"}`), "https://blob.example.com/doc.pdf")

	mock.ExpectQuery(`FROM response_links`).
		WithArgs(link.Token).
		WillReturnRows(rows)

	store := NewResponseLinkStore(db)
	got, err := store.GetByToken(context.Background(), link.Token)

	require.NoError(t, err)
	assert.True(t, got.Completed())
	assert.Equal(t, "Jane Doe, accountant", got.Answers["q1"])
	assert.Equal(t, "https://blob.example.com/doc.pdf", got.DocumentURL)
}

func TestResponseLinkStore_GetByToken_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM response_links`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	store := NewResponseLinkStore(db)
	_, err = store.GetByToken(context.Background(), "nope")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResponseLinkStore_Complete_FirstWriterWins(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	token := "aabbccddeeff00112233445566778899"

	mock.ExpectExec(`AND submitted_at IS NULL`).
		WithArgs(token, sqlmock.AnyArg(), "https://blob.example.com/doc.pdf").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewResponseLinkStore(db)
	updated, err := store.Complete(context.Background(), token, map[string]string{"q1": "answer"}, "https://blob.example.com/doc.pdf")

	require.NoError(t, err)
	assert.True(t, updated)
}

func TestResponseLinkStore_Complete_SecondWriterRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	token := "aabbccddeeff00112233445566778899"

	mock.ExpectExec(`AND submitted_at IS NULL`).
		WithArgs(token, sqlmock.AnyArg(), "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewResponseLinkStore(db)
	updated, err := store.Complete(context.Background(), token, map[string]string{"q1": "second"}, "")

	require.NoError(t, err)
	assert.False(t, updated)
}

func TestResponseLinkStore_ListByApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "application_id", "role", "reference_index", "token", "email", "created_at", "submitted_at", "answers", "document_url"}).
		AddRow("l1", "app-1", "guarantor", 0, "tok1", "g@example.com", createdAt, nil, nil, nil).
		AddRow("l2", "app-1", "reference", 1, "tok2", "r1@example.com", createdAt, nil, nil, nil).
		AddRow("l3", "app-1", "reference", 2, "tok3", "r2@example.com", createdAt, nil, nil, nil)

	mock.ExpectQuery(`ORDER BY role, reference_index`).
		WithArgs("app-1").
		WillReturnRows(rows)

	store := NewResponseLinkStore(db)
	links, err := store.ListByApplication(context.Background(), "app-1")

	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, models.RoleGuarantor, links[0].Role)
	assert.Equal(t, 2, links[2].ReferenceIndex)
}
