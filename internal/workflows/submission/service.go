// internal/workflows/submission/service.go
package submission

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "iana-intake/internal/common/errors"
	"iana-intake/internal/common/logger"
	"iana-intake/internal/common/observability"
	"iana-intake/internal/forms"
	"iana-intake/internal/models"
)

// Service runs the application intake pipeline: abuse check, validation,
// the single durable insert, then best-effort notification fan-out.
type Service struct {
	registry *forms.Registry
	apps     ApplicationStore
	links    ResponseLinkStore
	notifier Notifier
	botCheck BotChecker
	logger   logger.Logger
	obs      *observability.Observability
}

func NewService(registry *forms.Registry, apps ApplicationStore, links ResponseLinkStore, notifier Notifier, botCheck BotChecker, log logger.Logger, obs *observability.Observability) *Service {
	return &Service{
		registry: registry,
		apps:     apps,
		links:    links,
		notifier: notifier,
		botCheck: botCheck,
		logger:   log,
		obs:      obs,
	}
}

// Submit processes one application. The returned Result is set as soon as
// the application row is committed; notification failures after that point
// are logged and absorbed.
func (s *Service) Submit(ctx context.Context, in Input) (*Result, error) {
	if s.botCheck != nil {
		isBot, err := s.botCheck.IsBot(ctx, in.Verification)
		if err != nil {
			s.logger.WithError(err).Warn("abuse check unavailable, rejecting submission", nil)
			return nil, apperrors.NewAbuseDetectedError()
		}
		if isBot {
			s.logger.Warn("submission rejected by abuse check", map[string]interface{}{
				"clientIp": in.Verification.ClientIP,
			})
			return nil, apperrors.NewAbuseDetectedError()
		}
	}

	def, ok := s.registry.Get(in.FormType)
	if !ok {
		return nil, apperrors.NewNotFoundError("form")
	}

	normalized, fieldErrs := def.Validate(in.Payload)
	if len(fieldErrs) > 0 {
		if s.obs != nil {
			s.obs.RecordSubmission(ctx, in.FormType, "rejected")
		}
		return nil, apperrors.NewValidationError(toFieldErrors(fieldErrs))
	}

	storedType, err := s.storedType(in.FormType, normalized)
	if err != nil {
		return nil, err
	}

	app := &models.Application{
		ID:              uuid.NewString(),
		ApplicationType: storedType,
		FormData:        normalized,
		ApplicantEmail:  stringField(normalized, "email"),
		Status:          models.StatusSubmitted,
		SubmittedAt:     time.Now().UTC(),
	}

	if err := s.apps.Insert(ctx, app); err != nil {
		s.logger.WithError(err).Error("application insert failed", nil)
		return nil, err
	}

	if s.obs != nil {
		s.obs.RecordSubmission(ctx, app.ApplicationType, "accepted")
	}

	// The row is durable from here on. Everything below is best-effort.
	s.fanOut(ctx, app)

	return &Result{ApplicationID: app.ID}, nil
}

// storedType resolves the persisted application_type. The unified
// preliminary endpoint carries its subtype in the payload; the dedicated
// endpoints and the final form already are the stored type.
func (s *Service) storedType(formType string, normalized map[string]interface{}) (string, error) {
	if formType != "preliminary" {
		return formType, nil
	}
	subtype := stringField(normalized, "application_type")
	switch subtype {
	case "personal", "education", "business":
		return "preliminary-" + subtype, nil
	default:
		return "", apperrors.NewValidationError([]apperrors.FieldError{{
			Field:   "application_type",
			Code:    forms.CodeInvalidValue,
			Message: "unknown application type",
		}})
	}
}

func (s *Service) fanOut(ctx context.Context, app *models.Application) {
	emailOK := true

	if err := s.notifier.ApplicationSubmitted(ctx, app); err != nil {
		emailOK = false
		s.logger.WithError(err).Error("internal notification failed", map[string]interface{}{
			"applicationId": app.ID,
		})
	}

	if app.ApplicationType == models.TypeFinal {
		s.provisionLinks(ctx, app)
		if err := s.notifier.StaffSMS(ctx, app); err != nil {
			s.logger.WithError(err).Warn("staff sms failed", nil)
		}
	}

	if app.ApplicantEmail != "" {
		if err := s.notifier.ApplicantAcknowledgement(ctx, app); err != nil {
			emailOK = false
			s.logger.WithError(err).Error("acknowledgement email failed", map[string]interface{}{
				"applicationId": app.ID,
			})
		}
	}

	if emailOK {
		if err := s.apps.MarkEmailSent(ctx, app.ID); err != nil {
			s.logger.WithError(err).Warn("could not record email delivery", nil)
		}
	}
}

// provisionLinks creates one tokenized response link per populated contact
// block and emails each invitee. Failures are independent per invitee.
func (s *Service) provisionLinks(ctx context.Context, app *models.Application) {
	applicantName := displayName(app.FormData)

	for _, slot := range finalContactSlots {
		name := stringField(app.FormData, slot.nameField)
		email := stringField(app.FormData, slot.emailField)
		if name == "" || email == "" {
			continue
		}

		token, err := newToken()
		if err != nil {
			s.logger.WithError(err).Error("token generation failed", nil)
			continue
		}

		link := &models.ResponseLink{
			ID:             uuid.NewString(),
			ApplicationID:  app.ID,
			Role:           slot.role,
			ReferenceIndex: slot.index,
			Token:          token,
			Email:          email,
			CreatedAt:      time.Now().UTC(),
		}

		if err := s.links.Insert(ctx, link); err != nil {
			s.logger.WithError(err).Error("response link insert failed", map[string]interface{}{
				"applicationId": app.ID,
				"role":          string(slot.role),
				"index":         slot.index,
			})
			continue
		}

		if err := s.notifier.Invitation(ctx, link, applicantName); err != nil {
			s.logger.WithError(err).Error("invitation email failed", map[string]interface{}{
				"applicationId": app.ID,
				"role":          string(slot.role),
			})
		}
	}
}

// newToken returns 16 bytes of hex-encoded randomness. 32 characters keeps
// links guessable only in theory and short enough for email clients.
func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func displayName(formData map[string]interface{}) string {
	parts := make([]string, 0, 3)
	for _, key := range []string{"first_name", "middle_name", "last_name"} {
		if v := stringField(formData, key); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func toFieldErrors(errs []forms.ValidationError) []apperrors.FieldError {
	out := make([]apperrors.FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, apperrors.FieldError{Field: e.Field, Code: e.Code, Message: e.Message})
	}
	return out
}
