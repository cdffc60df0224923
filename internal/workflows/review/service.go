// internal/workflows/review/service.go
package review

import (
	"context"
	"errors"

	apperrors "iana-intake/internal/common/errors"
	"iana-intake/internal/common/logger"
	"iana-intake/internal/forms"
	"iana-intake/internal/models"
	"iana-intake/internal/store"
)

// ApplicationStore is the read/update slice the admin surface needs.
type ApplicationStore interface {
	List(ctx context.Context) ([]models.ApplicationSummary, error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

// LinkStore lists the response links attached to an application.
type LinkStore interface {
	ListByApplication(ctx context.Context, applicationID string) ([]models.ResponseLink, error)
}

// Detail is one application with its guarantor/reference links.
type Detail struct {
	Application *models.Application   `json:"application"`
	Links       []models.ResponseLink `json:"responseLinks"`
}

// Service backs the staff review surface.
type Service struct {
	apps   ApplicationStore
	links  LinkStore
	logger logger.Logger
}

func NewService(apps ApplicationStore, links LinkStore, log logger.Logger) *Service {
	return &Service{apps: apps, links: links, logger: log}
}

// List returns every application, newest submission first.
func (s *Service) List(ctx context.Context) ([]models.ApplicationSummary, error) {
	return s.apps.List(ctx)
}

// Get returns one application together with its response links.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("application")
		}
		return nil, err
	}

	links, err := s.links.ListByApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{Application: app, Links: links}, nil
}

// UpdateStatus moves an application to any valid status. There is no
// transition graph; staff may move freely between statuses.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	if !models.ValidStatus(status) {
		return apperrors.NewValidationError([]apperrors.FieldError{{
			Field:   "status",
			Code:    forms.CodeInvalidValue,
			Message: "unknown status",
		}})
	}

	if err := s.apps.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NewNotFoundError("application")
		}
		return err
	}

	s.logger.Info("application status updated", map[string]interface{}{
		"applicationId": id,
		"status":        string(status),
	})
	return nil
}
