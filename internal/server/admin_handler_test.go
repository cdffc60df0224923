// internal/server/admin_handler_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "iana-intake/internal/common/errors"
	"iana-intake/internal/models"
	"iana-intake/internal/workflows/review"
)

// ==========================
// Test Helper Functions
// ==========================

type stubReview struct {
	list      []models.ApplicationSummary
	detail    *review.Detail
	getErr    error
	updateErr error

	updatedID     string
	updatedStatus models.ApplicationStatus
}

func (s *stubReview) List(ctx context.Context) ([]models.ApplicationSummary, error) {
	return s.list, nil
}

func (s *stubReview) Get(ctx context.Context, id string) (*review.Detail, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.detail, nil
}

func (s *stubReview) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	s.updatedID = id
	s.updatedStatus = status
	return s.updateErr
}

// ==========================
// Tests
// ==========================

func TestAdminList(t *testing.T) {
	stub := &stubReview{list: []models.ApplicationSummary{
		{ID: "app-2", ApplicationType: "final", Status: models.StatusSubmitted, SubmittedAt: time.Now().UTC()},
		{ID: "app-1", ApplicationType: "preliminary-personal", Status: models.StatusApproved, SubmittedAt: time.Now().UTC().Add(-time.Hour)},
	}}
	h := NewAdminHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/applications", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.List(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app-2")
	assert.Contains(t, rec.Body.String(), "app-1")
}

func TestAdminGet_IncludesLinks(t *testing.T) {
	stub := &stubReview{detail: &review.Detail{
		Application: &models.Application{ID: "app-1", ApplicationType: "final", Status: models.StatusSubmitted},
		Links: []models.ResponseLink{
			{ID: "l1", ApplicationID: "app-1", Role: models.RoleGuarantor, Email: "g@example.com"},
		},
	}}
	h := NewAdminHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/applications/app-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("app-1")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "responseLinks")
	assert.Contains(t, rec.Body.String(), "g@example.com")
}

func TestAdminGet_NotFound(t *testing.T) {
	stub := &stubReview{getErr: apperrors.NewNotFoundError("application")}
	h := NewAdminHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/applications/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminUpdateStatus(t *testing.T) {
	stub := &stubReview{}
	h := NewAdminHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/applications/app-1/status", bytes.NewReader([]byte(`{"status":"approved"}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("app-1")

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "app-1", stub.updatedID)
	assert.Equal(t, models.StatusApproved, stub.updatedStatus)
}

func TestAdminUpdateStatus_InvalidValue(t *testing.T) {
	stub := &stubReview{updateErr: apperrors.NewValidationError([]apperrors.FieldError{
		{Field: "status", Code: "INVALID_VALUE", Message: "unknown status"},
	})}
	h := NewAdminHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/applications/app-1/status", bytes.NewReader([]byte(`{"status":"archived"}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("app-1")

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminImportCSV_ParsesStatement(t *testing.T) {
	h := NewAdminHandler(&stubReview{})

	csvBody := "Date,Description,Withdrawals,Deposits,Balance\n" +
		"2026-02-01,Payroll,,2500.00,3100.50\n" +
		"2026-02-03,Rent,1200.00,,1900.50\n"

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "statement.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/import-csv", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()

	require.NoError(t, h.ImportCSV(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var rows []struct {
		Date        string   `json:"date"`
		Description string   `json:"description"`
		Withdrawals *float64 `json:"withdrawals"`
		Deposits    *float64 `json:"deposits"`
		Balance     float64  `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Payroll", rows[0].Description)
	assert.Nil(t, rows[0].Withdrawals)
	require.NotNil(t, rows[0].Deposits)
	assert.Equal(t, 2500.00, *rows[0].Deposits)
	assert.Equal(t, 1900.50, rows[1].Balance)
}

func TestAdminImportCSV_MalformedBalance(t *testing.T) {
	h := NewAdminHandler(&stubReview{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "statement.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Date,Description,Withdrawals,Deposits,Balance\n2026-02-01,Payroll,,100,not-a-number\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/import-csv", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()

	require.NoError(t, h.ImportCSV(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
