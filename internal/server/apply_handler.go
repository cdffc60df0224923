// internal/server/apply_handler.go
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"iana-intake/internal/common/botcheck"
	"iana-intake/internal/workflows/submission"
)

// SubmissionService is the intake entry point the handler delegates to.
type SubmissionService interface {
	Submit(ctx context.Context, in submission.Input) (*submission.Result, error)
}

type ApplyHandler struct {
	svc SubmissionService
}

func NewApplyHandler(svc SubmissionService) *ApplyHandler {
	return &ApplyHandler{svc: svc}
}

type applyRequest struct {
	// VerificationToken is generated by the client-side bot widget and is
	// stripped from the payload before validation.
	VerificationToken string                 `json:"verificationToken"`
	Form              map[string]interface{} `json:"form"`
}

// Submit handles POST /api/apply/:form. The form segment selects the
// registered definition; the response carries only the application id.
func (h *ApplyHandler) Submit(c echo.Context) error {
	var req applyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}
	if req.Form == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "form payload is required"})
	}

	in := submission.Input{
		FormType: c.Param("form"),
		Payload:  req.Form,
		Verification: botcheck.Request{
			Token:     req.VerificationToken,
			ClientIP:  c.RealIP(),
			UserAgent: c.Request().UserAgent(),
		},
	}

	res, err := h.svc.Submit(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}
