// internal/notify/dispatcher.go
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"iana-intake/internal/common/logger"
	"iana-intake/internal/common/observability"
	"iana-intake/internal/models"
)

// SNSService is the slice of the SNS client the dispatcher needs.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Config carries the outbound routing for the dispatcher.
type Config struct {
	FromEmail string
	// ApplicationsEmail receives the internal new-application notification.
	ApplicationsEmail string
	// BaseURL is the public origin embedded in response-link URLs.
	BaseURL string
	// StaffPhone, when set together with an SNS client, receives an SMS
	// ping for final applications.
	StaffPhone  string
	SMSSenderID string
}

// Dispatcher sends the outbound notifications for a submission. Every send
// is best-effort from the workflow's point of view: errors are returned for
// logging and metrics but never roll anything back.
type Dispatcher struct {
	mailer Mailer
	sms    SNSService
	cfg    Config
	logger logger.Logger
	obs    *observability.Observability
}

func NewDispatcher(mailer Mailer, sms SNSService, cfg Config, log logger.Logger, obs *observability.Observability) *Dispatcher {
	return &Dispatcher{
		mailer: mailer,
		sms:    sms,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notify"}),
		obs:    obs,
	}
}

// ResponseLinkURL is the fixed shape embedded in invitation emails.
func (d *Dispatcher) ResponseLinkURL(role models.LinkRole, token string) string {
	return fmt.Sprintf("%s/respond/%s/%s", d.cfg.BaseURL, role, token)
}

// ApplicationSubmitted sends the internal new-application notification.
func (d *Dispatcher) ApplicationSubmitted(ctx context.Context, app *models.Application) error {
	msg := internalNotificationEmail(d.cfg.FromEmail, d.cfg.ApplicationsEmail, app.ID, app.ApplicationType, app.FormData)
	return d.send(ctx, "internal", msg, app.ID)
}

// ApplicantAcknowledgement confirms receipt to the applicant.
func (d *Dispatcher) ApplicantAcknowledgement(ctx context.Context, app *models.Application) error {
	msg := acknowledgementEmail(d.cfg.FromEmail, app.ApplicantEmail, app.ID, app.ApplicationType)
	return d.send(ctx, "acknowledgement", msg, app.ID)
}

// Invitation emails the guarantor or reference their unique response link.
func (d *Dispatcher) Invitation(ctx context.Context, link *models.ResponseLink, applicantName string) error {
	linkURL := d.ResponseLinkURL(link.Role, link.Token)

	var msg Message
	switch link.Role {
	case models.RoleGuarantor:
		msg = guarantorInvitationEmail(d.cfg.FromEmail, link.Email, applicantName, linkURL)
	case models.RoleReference:
		msg = referenceInvitationEmail(d.cfg.FromEmail, link.Email, applicantName, linkURL)
	default:
		return fmt.Errorf("unknown link role %q", link.Role)
	}
	return d.send(ctx, string(link.Role), msg, link.ApplicationID)
}

// StaffSMS pings the on-call reviewer about a final application. No-op when
// SNS is not configured.
func (d *Dispatcher) StaffSMS(ctx context.Context, app *models.Application) error {
	if d.sms == nil || d.cfg.StaffPhone == "" {
		return nil
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(d.cfg.StaffPhone),
		Message:     aws.String(fmt.Sprintf("New final loan application received: %s", app.ID)),
	}
	if d.cfg.SMSSenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(d.cfg.SMSSenderID),
			},
		}
	}

	if _, err := d.sms.Publish(ctx, input); err != nil {
		d.logger.Warn("staff SMS failed", map[string]interface{}{
			"applicationId": app.ID,
			"error":         err,
		})
		if d.obs != nil {
			d.obs.RecordNotification(ctx, "sms", "failed")
		}
		return fmt.Errorf("sns publish: %w", err)
	}
	if d.obs != nil {
		d.obs.RecordNotification(ctx, "sms", "sent")
	}
	return nil
}

// send dispatches one email, logging the delivery identifier on success and
// the recipient-correlatable failure on error. Payloads are never logged.
func (d *Dispatcher) send(ctx context.Context, kind string, msg Message, applicationID string) error {
	messageID, err := d.mailer.Send(ctx, msg)
	if err != nil {
		d.logger.Error("email send failed", map[string]interface{}{
			"kind":          kind,
			"to":            msg.To,
			"applicationId": applicationID,
			"error":         err,
		})
		if d.obs != nil {
			d.obs.RecordNotification(ctx, kind, "failed")
		}
		return fmt.Errorf("send %s email: %w", kind, err)
	}

	d.logger.Info("email sent", map[string]interface{}{
		"kind":          kind,
		"to":            msg.To,
		"applicationId": applicationID,
		"messageId":     messageID,
	})
	if d.obs != nil {
		d.obs.RecordNotification(ctx, kind, "sent")
	}
	return nil
}
