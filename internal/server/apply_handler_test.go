// internal/server/apply_handler_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "iana-intake/internal/common/errors"
	"iana-intake/internal/workflows/submission"
)

// ==========================
// Test Helper Functions
// ==========================

type stubSubmission struct {
	got    submission.Input
	result *submission.Result
	err    error
}

func (s *stubSubmission) Submit(ctx context.Context, in submission.Input) (*submission.Result, error) {
	s.got = in
	return s.result, s.err
}

func mustJSON(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func newApplyContext(t *testing.T, formType string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/apply/"+formType, mustJSON(t, body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/apply/:form")
	c.SetParamNames("form")
	c.SetParamValues(formType)
	return c, rec
}

// ==========================
// Tests
// ==========================

func TestApplySubmit_Success(t *testing.T) {
	stub := &stubSubmission{result: &submission.Result{ApplicationID: "app-1"}}
	h := NewApplyHandler(stub)

	c, rec := newApplyContext(t, "preliminary-personal", map[string]interface{}{
		"verificationToken": "tok",
		"form":              map[string]interface{}{"first_name": "Ahmed"},
	})

	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"applicationId":"app-1"`)

	assert.Equal(t, "preliminary-personal", stub.got.FormType)
	assert.Equal(t, "tok", stub.got.Verification.Token)
	assert.Equal(t, "Ahmed", stub.got.Payload["first_name"])
}

func TestApplySubmit_MissingFormPayload(t *testing.T) {
	h := NewApplyHandler(&stubSubmission{})

	c, rec := newApplyContext(t, "final", map[string]interface{}{"verificationToken": "tok"})

	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplySubmit_ValidationErrorsCarryFields(t *testing.T) {
	stub := &stubSubmission{err: apperrors.NewValidationError([]apperrors.FieldError{
		{Field: "first_name", Code: "MISSING_REQUIRED", Message: "First Name is required"},
		{Field: "phone", Code: "MISSING_REQUIRED", Message: "Phone Number is required"},
	})}
	h := NewApplyHandler(stub)

	c, rec := newApplyContext(t, "preliminary-personal", map[string]interface{}{
		"form": map[string]interface{}{},
	})

	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Fields, 2)
	assert.Equal(t, "first_name", resp.Fields[0].Field)
}

func TestApplySubmit_AbuseRejectionIsGeneric(t *testing.T) {
	stub := &stubSubmission{err: apperrors.NewAbuseDetectedError()}
	h := NewApplyHandler(stub)

	c, rec := newApplyContext(t, "final", map[string]interface{}{
		"form": map[string]interface{}{"first_name": "Bot"},
	})

	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "bot")
	assert.NotContains(t, rec.Body.String(), "abuse")
}
