// internal/notify/emails.go
package notify

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// applicationTypeLabels are the human-readable names used in email subjects
// and bodies.
var applicationTypeLabels = map[string]string{
	"preliminary-personal":  "Preliminary Application - Personal/Emergency",
	"preliminary-education": "Preliminary Application - Education",
	"preliminary-business":  "Preliminary Application - Business/Institutional",
	"final":                 "Final Interest-Free Loan Application",
}

func typeLabel(applicationType string) string {
	if label, ok := applicationTypeLabels[applicationType]; ok {
		return label
	}
	return applicationType
}

// formatFormData renders the payload as "Label: value" lines, field names
// title-cased from snake_case. Keys are sorted so the rendering is stable.
func formatFormData(formData map[string]interface{}) string {
	keys := make([]string, 0, len(formData))
	for k := range formData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		words := strings.Split(key, "_")
		for i, w := range words {
			if w == "" {
				continue
			}
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
		fmt.Fprintf(&b, "%s: %v\n", strings.Join(words, " "), formData[key])
	}
	return b.String()
}

func internalNotificationEmail(from, to, applicationID, applicationType string, formData map[string]interface{}) Message {
	label := typeLabel(applicationType)
	formatted := formatFormData(formData)
	now := time.Now().UTC().Format(time.RFC3339)

	return Message{
		From:    from,
		To:      to,
		Subject: fmt.Sprintf("New %s - ID: %s", label, applicationID),
		Text: fmt.Sprintf("A new application has been submitted.\n\nApplication ID: %s\nApplication Type: %s\nSubmitted At: %s\n\nForm Data:\n%s",
			applicationID, label, now, formatted),
		HTML: fmt.Sprintf(`<h2>New Application Submitted</h2>
<p><strong>Application ID:</strong> %s</p>
<p><strong>Application Type:</strong> %s</p>
<p><strong>Submitted At:</strong> %s</p>
<h3>Form Data:</h3>
<pre style="background: #f5f5f5; padding: 15px; border-radius: 5px;">%s</pre>`,
			applicationID, label, now, formatted),
	}
}

func guarantorInvitationEmail(from, to, applicantName, linkURL string) Message {
	text := fmt.Sprintf(`As-salamu Alaikum! Salams/Peace Dear

We pray you and yours are well.

You have been listed as a guarantor for %s for an interest-free loan application from Iana Financial.

Please complete the guarantor form and upload your government-issued ID at the link below. This link is unique and tied to this application.

%s

Many thanks and God reward you for your good intentions.

Was'salam/Peace
Iana Applications
www.ianafinancial.org`, applicantName, linkURL)

	html := fmt.Sprintf(`<div style="font-family: -apple-system, sans-serif; color: rgb(0,0,0); max-width: 600px;">
  <p>As-salamu Alaikum! Salams/Peace Dear</p>
  <p>We pray you and yours are well.</p>
  <p>You have been listed as a guarantor for <strong>%s</strong> for an interest-free loan application from Iana Financial.</p>
  <p>Please complete the guarantor form and upload your government-issued ID at the link below. This link is unique and tied to this application.</p>
  <p><a href="%s" style="color: #2563eb;">Complete your guarantor form</a></p>
  <p>Many thanks and God reward you for your good intentions.</p>
  <p>Was'salam/Peace<br>Iana Applications<br><a href="http://www.ianafinancial.org">www.ianafinancial.org</a></p>
</div>`, applicantName, linkURL)

	return Message{
		From:    from,
		To:      to,
		Subject: "Complete your guarantor form – Iana Financial",
		Text:    text,
		HTML:    html,
	}
}

func referenceInvitationEmail(from, to, applicantName, linkURL string) Message {
	text := fmt.Sprintf(`Salam/Peace

We pray you and yours are well.

You have been listed as a reference for %s for an interest-free loan application from Iana Financial.

Please complete the reference form and upload your letter of reference at the link below. This link is unique and tied to this application.

%s

Many thanks and God reward you for your honesty and sincere advice.

Was'salam/Peace
Iana Applications
www.ianafinancial.org`, applicantName, linkURL)

	html := fmt.Sprintf(`<div style="font-family: -apple-system, sans-serif; color: rgb(0,0,0); max-width: 600px;">
  <p>Salam/Peace</p>
  <p>We pray you and yours are well.</p>
  <p>You have been listed as a reference for <strong>%s</strong> for an interest-free loan application from Iana Financial.</p>
  <p>Please complete the reference form and upload your letter of reference at the link below. This link is unique and tied to this application.</p>
  <p><a href="%s" style="color: #2563eb;">Complete your reference form</a></p>
  <p>Many thanks and God reward you for your honesty and sincere advice.</p>
  <p>Was'salam/Peace<br>Iana Applications<br><a href="http://www.ianafinancial.org">www.ianafinancial.org</a></p>
</div>`, applicantName, linkURL)

	return Message{
		From:    from,
		To:      to,
		Subject: "Complete your reference form – Iana Financial",
		Text:    text,
		HTML:    html,
	}
}

func acknowledgementEmail(from, to, applicationID, applicationType string) Message {
	label := typeLabel(applicationType)

	text := fmt.Sprintf(`Thank you for submitting your application.

We have received your %s and will review it in due course.

Your Application ID: %s

Please save this ID for your records. You may be contacted using the email address you provided.

Was'salam/Peace
Iana Applications
www.ianafinancial.org`, label, applicationID)

	html := fmt.Sprintf(`<div style="font-family: -apple-system, sans-serif; color: rgb(0,0,0); max-width: 600px;">
  <p>Thank you for submitting your application.</p>
  <p>We have received your <strong>%s</strong> and will review it in due course.</p>
  <p>Your Application ID: <strong>%s</strong></p>
  <p>Please save this ID for your records. You may be contacted using the email address you provided.</p>
  <p>Was'salam/Peace<br>Iana Applications<br><a href="http://www.ianafinancial.org">www.ianafinancial.org</a></p>
</div>`, label, applicationID)

	return Message{
		From:    from,
		To:      to,
		Subject: fmt.Sprintf("Application received – Iana Financial (%s)", applicationID),
		Text:    text,
		HTML:    html,
	}
}
