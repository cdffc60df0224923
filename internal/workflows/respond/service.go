// internal/workflows/respond/service.go
package respond

import (
	"context"
	"errors"
	"strings"

	apperrors "iana-intake/internal/common/errors"
	"iana-intake/internal/common/logger"
	"iana-intake/internal/common/observability"
	"iana-intake/internal/forms"
	"iana-intake/internal/models"
	"iana-intake/internal/store"
)

// LinkStore is the persistence slice this workflow needs.
type LinkStore interface {
	GetByToken(ctx context.Context, token string) (*models.ResponseLink, error)
	Complete(ctx context.Context, token string, answers map[string]string, documentURL string) (bool, error)
}

// ApplicantNames resolves the display name shown to an invitee.
type ApplicantNames interface {
	ApplicantName(ctx context.Context, applicationID string) (string, error)
}

// Resolution is everything the response page needs to render.
type Resolution struct {
	Link             *models.ResponseLink `json:"link"`
	ApplicantName    string               `json:"applicantName"`
	Questions        []Question           `json:"questions"`
	AlreadyCompleted bool                 `json:"alreadyCompleted"`
}

// Service handles the tokenized guarantor/reference response flow.
type Service struct {
	links  LinkStore
	apps   ApplicantNames
	logger logger.Logger
	obs    *observability.Observability
}

func NewService(links LinkStore, apps ApplicantNames, log logger.Logger, obs *observability.Observability) *Service {
	return &Service{links: links, apps: apps, logger: log, obs: obs}
}

// Resolve looks up a token for rendering. A token bound to a different role
// is treated as unknown so the URL space leaks nothing about other roles.
func (s *Service) Resolve(ctx context.Context, role models.LinkRole, token string) (*Resolution, error) {
	link, err := s.lookup(ctx, role, token)
	if err != nil {
		return nil, err
	}

	name, err := s.apps.ApplicantName(ctx, link.ApplicationID)
	if err != nil {
		s.logger.WithError(err).Warn("applicant name lookup failed", nil)
		name = ""
	}

	return &Resolution{
		Link:             link,
		ApplicantName:    name,
		Questions:        QuestionsForRole(role),
		AlreadyCompleted: link.Completed(),
	}, nil
}

// Submit records an invitee's answers and document. The not-yet-submitted
// invariant is re-checked at write time; a concurrent second writer loses
// and the first writer's data is retained.
func (s *Service) Submit(ctx context.Context, role models.LinkRole, token string, answers map[string]string, documentURL string) error {
	link, err := s.lookup(ctx, role, token)
	if err != nil {
		return err
	}
	if link.Completed() {
		return apperrors.NewAlreadyCompletedError()
	}

	if errs := validateAnswers(role, answers); len(errs) > 0 {
		return apperrors.NewValidationError(errs)
	}

	updated, err := s.links.Complete(ctx, token, trimAnswers(answers), documentURL)
	if err != nil {
		return err
	}
	if !updated {
		// Lost the race against another completion attempt.
		return apperrors.NewAlreadyCompletedError()
	}

	s.logger.Info("response link completed", map[string]interface{}{
		"applicationId": link.ApplicationID,
		"role":          string(role),
	})
	if s.obs != nil {
		s.obs.RecordResponseCompleted(ctx, string(role))
	}
	return nil
}

func (s *Service) lookup(ctx context.Context, role models.LinkRole, token string) (*models.ResponseLink, error) {
	link, err := s.links.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("response link")
		}
		return nil, err
	}
	if link.Role != role {
		// Surfaced as not-found on purpose.
		return nil, apperrors.NewNotFoundError("response link")
	}
	return link, nil
}

// validateAnswers requires every prompt for the role to be answered.
func validateAnswers(role models.LinkRole, answers map[string]string) []apperrors.FieldError {
	var errs []apperrors.FieldError
	for _, q := range QuestionsForRole(role) {
		if strings.TrimSpace(answers[q.Key]) == "" {
			errs = append(errs, apperrors.FieldError{
				Field:   q.Key,
				Code:    forms.CodeMissingRequired,
				Message: "This question requires an answer",
			})
		}
	}
	return errs
}

func trimAnswers(answers map[string]string) map[string]string {
	out := make(map[string]string, len(answers))
	for k, v := range answers {
		out[k] = strings.TrimSpace(v)
	}
	return out
}
