// internal/models/responselink.go
package models

import "time"

// LinkRole distinguishes guarantor and reference response links.
type LinkRole string

const (
	RoleGuarantor LinkRole = "guarantor"
	RoleReference LinkRole = "reference"
)

// ParseLinkRole validates a role path segment.
func ParseLinkRole(s string) (LinkRole, bool) {
	switch LinkRole(s) {
	case RoleGuarantor, RoleReference:
		return LinkRole(s), true
	}
	return "", false
}

// ResponseLink is a single-use tokenized invitation for a guarantor or
// reference to complete a secondary form. Once SubmittedAt is set the link
// is terminal.
type ResponseLink struct {
	ID             string            `json:"id"`
	ApplicationID  string            `json:"applicationId"`
	Role           LinkRole          `json:"role"`
	ReferenceIndex int               `json:"referenceIndex"` // 0 for guarantor, 1..N for references
	Token          string            `json:"-"`
	Email          string            `json:"email"`
	CreatedAt      time.Time         `json:"createdAt"`
	SubmittedAt    *time.Time        `json:"submittedAt,omitempty"`
	Answers        map[string]string `json:"answers,omitempty"`
	DocumentURL    string            `json:"documentUrl,omitempty"`
}

// Completed reports whether the invitee has already submitted.
func (l *ResponseLink) Completed() bool {
	return l.SubmittedAt != nil
}
