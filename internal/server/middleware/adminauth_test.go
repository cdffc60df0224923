// internal/server/middleware/adminauth_test.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iana-intake/internal/common/logger"
	"iana-intake/internal/models"
	"iana-intake/internal/store"
)

type fakeVerifier struct {
	subject string
	err     error
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.subject, nil
}

type fakeAdminUsers struct {
	users map[string]*models.AdminUser
	err   error
}

func (f *fakeAdminUsers) GetBySubject(ctx context.Context, subjectID string) (*models.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[subjectID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

func protectedEcho(verifier *fakeVerifier, users *fakeAdminUsers) *echo.Echo {
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		user := AdminUserFrom(c)
		return c.JSON(http.StatusOK, map[string]string{"email": user.Email})
	}, AdminAuth(verifier, users, logger.NewNoOpLogger()))
	return e
}

func getWithToken(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAdminAuth_Success(t *testing.T) {
	verifier := &fakeVerifier{subject: "sub-123"}
	users := &fakeAdminUsers{users: map[string]*models.AdminUser{
		"sub-123": {ID: "u1", SubjectID: "sub-123", Email: "staff@ianafinancial.org", Role: "admin"},
	}}

	rec := getWithToken(protectedEcho(verifier, users), "Bearer good-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "staff@ianafinancial.org")
}

func TestAdminAuth_MissingHeader(t *testing.T) {
	rec := getWithToken(protectedEcho(&fakeVerifier{subject: "sub-123"}, &fakeAdminUsers{}), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuth_InvalidToken(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("token expired")}
	rec := getWithToken(protectedEcho(verifier, &fakeAdminUsers{}), "Bearer stale")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuth_AuthenticatedButNotStaff(t *testing.T) {
	// A valid provider session with no admin_users record gets 403.
	verifier := &fakeVerifier{subject: "sub-456"}
	users := &fakeAdminUsers{users: map[string]*models.AdminUser{}}

	rec := getWithToken(protectedEcho(verifier, users), "Bearer valid-but-ordinary")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminAuth_NonAdminRoleRejected(t *testing.T) {
	// A staff record exists but the role is not "admin".
	verifier := &fakeVerifier{subject: "sub-789"}
	users := &fakeAdminUsers{users: map[string]*models.AdminUser{
		"sub-789": {ID: "u2", SubjectID: "sub-789", Email: "viewer@ianafinancial.org", Role: "viewer"},
	}}

	rec := getWithToken(protectedEcho(verifier, users), "Bearer valid-viewer")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "viewer@ianafinancial.org")
}

func TestAdminAuth_StoreFailure(t *testing.T) {
	verifier := &fakeVerifier{subject: "sub-123"}
	users := &fakeAdminUsers{err: errors.New("connection refused")}

	rec := getWithToken(protectedEcho(verifier, users), "Bearer good-token")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminAuth_NonBearerSchemeRejected(t *testing.T) {
	rec := getWithToken(protectedEcho(&fakeVerifier{subject: "sub-123"}, &fakeAdminUsers{}), "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
