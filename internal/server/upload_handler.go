// internal/server/upload_handler.go
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Uploader stages a binary payload under a key and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type UploadHandler struct {
	uploader Uploader
}

func NewUploadHandler(uploader Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload handles POST /api/upload for application documents. Keys are
// timestamp-prefixed so repeated uploads of the same filename never collide.
func (h *UploadHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "File is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "File is required"})
	}
	defer file.Close()

	key := fmt.Sprintf("applications/%d-%s", time.Now().UnixMilli(), sanitizeFilename(fileHeader.Filename))
	url, err := h.uploader.Upload(c.Request().Context(), key, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// responseDocumentKey builds the key for a guarantor/reference document:
// response/{applicationID}/{token}-{suffix}.{ext}.
func responseDocumentKey(applicationID, token, suffix, filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "pdf"
	}
	return fmt.Sprintf("response/%s/%s-%s.%s", applicationID, token, suffix, ext)
}

// sanitizeFilename strips path separators from a client-supplied name.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
