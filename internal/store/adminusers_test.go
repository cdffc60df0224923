// internal/store/adminusers_test.go
package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminUserStore_GetBySubject_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "subject_id", "email", "role"}).
		AddRow("u1", "sub-123", "staff@ianafinancial.org", "admin")

	mock.ExpectQuery(`FROM admin_users`).
		WithArgs("sub-123").
		WillReturnRows(rows)

	store := NewAdminUserStore(db)
	user, err := store.GetBySubject(context.Background(), "sub-123")

	require.NoError(t, err)
	assert.Equal(t, "staff@ianafinancial.org", user.Email)
	assert.Equal(t, "admin", user.Role)
}

func TestAdminUserStore_GetBySubject_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM admin_users`).
		WithArgs("stranger").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	store := NewAdminUserStore(db)
	_, err = store.GetBySubject(context.Background(), "stranger")

	assert.True(t, errors.Is(err, ErrNotFound))
}
