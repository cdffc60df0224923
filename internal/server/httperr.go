// internal/server/httperr.go
package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "iana-intake/internal/common/errors"
)

type errorResponse struct {
	Error  string                 `json:"error"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

// writeError maps a service error onto an HTTP response. Unrecognized
// errors become opaque 500s so internals never leak to clients.
func writeError(c echo.Context, err error) error {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return c.JSON(statusFor(stdErr.Code), errorResponse{
			Error:  stdErr.Message,
			Fields: stdErr.Fields,
		})
	}
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case apperrors.ErrCodeAbuseDetected:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeAlreadyCompleted:
		return http.StatusConflict
	case apperrors.ErrCodeRoleMismatch:
		// Leaks nothing about tokens bound to other roles.
		return http.StatusNotFound
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeUploadFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
