// internal/server/admin_handler.go
package server

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"iana-intake/internal/models"
	"iana-intake/internal/workflows/review"
)

// ReviewService backs the staff review endpoints.
type ReviewService interface {
	List(ctx context.Context) ([]models.ApplicationSummary, error)
	Get(ctx context.Context, id string) (*review.Detail, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

type AdminHandler struct {
	svc ReviewService
}

func NewAdminHandler(svc ReviewService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// List handles GET /api/admin/applications, newest submission first.
func (h *AdminHandler) List(c echo.Context) error {
	apps, err := h.svc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"applications": apps})
}

// Get handles GET /api/admin/applications/:id with response links included.
func (h *AdminHandler) Get(c echo.Context) error {
	detail, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /api/admin/applications/:id/status.
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}

	if err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), models.ApplicationStatus(req.Status)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// statementTransaction is one parsed bank-statement row.
type statementTransaction struct {
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Withdrawals *float64 `json:"withdrawals"`
	Deposits    *float64 `json:"deposits"`
	Balance     float64  `json:"balance"`
}

// ImportCSV handles POST /api/admin/import-csv: parses an uploaded bank
// statement into transactions for review-side affordability checks. Nothing
// is persisted; the parsed rows are returned to the caller.
func (h *AdminHandler) ImportCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "No file uploaded"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "No file uploaded"})
	}
	defer file.Close()

	transactions, err := parseStatementCSV(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Failed to parse CSV file"})
	}
	return c.JSON(http.StatusOK, transactions)
}

func parseStatementCSV(r io.Reader) ([]statementTransaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	var out []statementTransaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		balance, err := strconv.ParseFloat(cell(record, col, "Balance"), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, statementTransaction{
			Date:        cell(record, col, "Date"),
			Description: cell(record, col, "Description"),
			Withdrawals: optionalAmount(cell(record, col, "Withdrawals")),
			Deposits:    optionalAmount(cell(record, col, "Deposits")),
			Balance:     balance,
		})
	}
	return out, nil
}

func cell(record []string, col map[string]int, name string) string {
	if i, ok := col[name]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

func optionalAmount(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
