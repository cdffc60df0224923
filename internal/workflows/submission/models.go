// internal/workflows/submission/models.go
package submission

import (
	"context"

	"iana-intake/internal/common/botcheck"
	"iana-intake/internal/models"
)

// ApplicationStore is the slice of the persistence gateway this workflow
// writes through.
type ApplicationStore interface {
	Insert(ctx context.Context, app *models.Application) error
	MarkEmailSent(ctx context.Context, id string) error
}

// ResponseLinkStore persists the provisioned guarantor/reference links.
type ResponseLinkStore interface {
	Insert(ctx context.Context, link *models.ResponseLink) error
}

// Notifier is the outbound fan-out surface. Every call is best-effort;
// failures are logged by the dispatcher and again here, never propagated to
// the client.
type Notifier interface {
	ApplicationSubmitted(ctx context.Context, app *models.Application) error
	ApplicantAcknowledgement(ctx context.Context, app *models.Application) error
	Invitation(ctx context.Context, link *models.ResponseLink, applicantName string) error
	StaffSMS(ctx context.Context, app *models.Application) error
}

// BotChecker is the automated-abuse signal consulted before any other work.
type BotChecker interface {
	IsBot(ctx context.Context, req botcheck.Request) (bool, error)
}

// Input is one submission request.
type Input struct {
	// FormType selects the registered form definition: "preliminary",
	// "preliminary-personal", "preliminary-education",
	// "preliminary-business" or "final".
	FormType string
	Payload  map[string]interface{}
	// Verification carries the ambient request signals for the abuse check.
	Verification botcheck.Request
}

// Result is returned once the application row is committed. The identifier
// is valid for the confirmation page regardless of notification outcomes.
type Result struct {
	ApplicationID string `json:"applicationId"`
}

// contactSlot describes one invitee block on the final application form.
type contactSlot struct {
	role       models.LinkRole
	index      int
	nameField  string
	emailField string
}

// finalContactSlots are checked in order at fan-out time; a link is created
// only for slots whose name and email are both populated.
var finalContactSlots = []contactSlot{
	{role: models.RoleGuarantor, index: 0, nameField: "guarantor_name", emailField: "guarantor_email"},
	{role: models.RoleReference, index: 1, nameField: "reference1_name", emailField: "reference1_email"},
	{role: models.RoleReference, index: 2, nameField: "reference2_name", emailField: "reference2_email"},
	{role: models.RoleReference, index: 3, nameField: "reference3_name", emailField: "reference3_email"},
}
