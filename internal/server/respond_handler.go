// internal/server/respond_handler.go
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"iana-intake/internal/models"
	"iana-intake/internal/workflows/respond"
)

// RespondService resolves and completes tokenized response links.
type RespondService interface {
	Resolve(ctx context.Context, role models.LinkRole, token string) (*respond.Resolution, error)
	Submit(ctx context.Context, role models.LinkRole, token string, answers map[string]string, documentURL string) error
}

type RespondHandler struct {
	svc      RespondService
	uploader Uploader
}

func NewRespondHandler(svc RespondService, uploader Uploader) *RespondHandler {
	return &RespondHandler{svc: svc, uploader: uploader}
}

// Resolve handles GET /api/respond/:role/:token. It returns the question
// set and applicant name for rendering, or 404 for unknown tokens and
// tokens bound to the other role.
func (h *RespondHandler) Resolve(c echo.Context) error {
	role, ok := models.ParseLinkRole(c.Param("role"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Not found"})
	}

	res, err := h.svc.Resolve(c.Request().Context(), role, c.Param("token"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type respondSubmitRequest struct {
	Answers     map[string]string `json:"answers"`
	DocumentURL string            `json:"documentUrl"`
}

// Submit handles POST /api/respond/:role/:token.
func (h *RespondHandler) Submit(c echo.Context) error {
	role, ok := models.ParseLinkRole(c.Param("role"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Not found"})
	}

	var req respondSubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}

	if err := h.svc.Submit(c.Request().Context(), role, c.Param("token"), req.Answers, req.DocumentURL); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Upload handles POST /api/respond/upload: a multipart form with fields
// file, token and type ("guarantor-id" or "reference-letter"). The token is
// resolved first so only a live, uncompleted link can stage a document.
func (h *RespondHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "File, token, and type are required."})
	}
	token := c.FormValue("token")
	uploadType := c.FormValue("type")
	if token == "" || uploadType == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "File, token, and type are required."})
	}

	var role models.LinkRole
	var suffix string
	switch uploadType {
	case "guarantor-id":
		role, suffix = models.RoleGuarantor, "id"
	case "reference-letter":
		role, suffix = models.RoleReference, "letter"
	default:
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid type."})
	}

	res, err := h.svc.Resolve(c.Request().Context(), role, token)
	if err != nil {
		return writeError(c, err)
	}
	if res.AlreadyCompleted {
		return c.JSON(http.StatusConflict, errorResponse{Error: "This form has already been submitted."})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "File, token, and type are required."})
	}
	defer file.Close()

	key := responseDocumentKey(res.Link.ApplicationID, token, suffix, fileHeader.Filename)
	url, err := h.uploader.Upload(c.Request().Context(), key, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
