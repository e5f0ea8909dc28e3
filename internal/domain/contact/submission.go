// Package contact holds the contact form rules for the landing page: the
// email format check and the encoder that turns a filled-in form into a
// mailto draft for the visitor's own mail client.
//
// Everything here is pure. Nothing is sent, stored or timestamped, so the
// same inputs always produce the same MailDraft.
package contact

import (
	"net/url"
	"strings"
)

// DefaultSiteName is used in the subject line when no name is available.
const DefaultSiteName = "ATGS website"

// Form is the state of one contact form instance.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// MailDraft is the recipient/subject/body bundle for one submission, plus the
// mailto URI that carries it.
type MailDraft struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	URI       string `json:"uri"`
}

// Problems runs every check and returns all failures in field order
// (name, email, message). A nil result means the form is acceptable.
func (f Form) Problems() []error {
	var out []error
	if strings.TrimSpace(f.Name) == "" {
		out = append(out, &MissingFieldError{Field: "name"})
	}
	if !IsValidEmail(f.Email) {
		out = append(out, ErrInvalidEmail)
	}
	if strings.TrimSpace(f.Message) == "" {
		out = append(out, &MissingFieldError{Field: "message"})
	}
	return out
}

// Validate is Problems folded into a single error.
func (f Form) Validate() error {
	if p := f.Problems(); len(p) > 0 {
		return &ValidationError{Problems: p}
	}
	return nil
}

// check returns the first failing precondition, in order.
func (f Form) check() error {
	if strings.TrimSpace(f.Name) == "" {
		return &MissingFieldError{Field: "name"}
	}
	if !IsValidEmail(f.Email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(f.Message) == "" {
		return &MissingFieldError{Field: "message"}
	}
	return nil
}

// Encoder builds drafts addressed to a fixed recipient.
type Encoder struct {
	// Recipient is the configured address every draft goes to.
	Recipient string
	// SiteName is the subject fallback when the name is empty.
	SiteName string
}

// Build checks f and encodes it. The first failing check is returned:
// *MissingFieldError{"name"}, then ErrInvalidEmail, then
// *MissingFieldError{"message"}.
func (e Encoder) Build(f Form) (MailDraft, error) {
	if err := f.check(); err != nil {
		return MailDraft{}, err
	}

	site := e.SiteName
	if site == "" {
		site = DefaultSiteName
	}
	from := f.Name
	if from == "" {
		from = site
	}

	d := MailDraft{
		Recipient: e.Recipient,
		Subject:   "New inquiry from " + from,
		Body: "Name: " + f.Name +
			"\nEmail: " + f.Email +
			"\nCompany: " + f.Company +
			"\n\nMessage:\n" + f.Message,
	}
	d.URI = MailtoURI(d.Recipient, d.Subject, d.Body)
	return d, nil
}

// BuildSubmission is Encoder.Build for callers holding loose fields.
func BuildSubmission(name, email, company, message, recipient string) (MailDraft, error) {
	return Encoder{Recipient: recipient}.Build(Form{
		Name:    name,
		Email:   email,
		Company: company,
		Message: message,
	})
}

// MailtoURI assembles an RFC 6068 mailto link. The recipient is used as the
// path verbatim; subject and body are percent-encoded.
func MailtoURI(recipient, subject, body string) string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(recipient)
	b.WriteString("?subject=")
	b.WriteString(escapeComponent(subject))
	b.WriteString("&body=")
	b.WriteString(escapeComponent(body))
	return b.String()
}

// escapeComponent percent-encodes everything outside the RFC 3986 unreserved
// set. QueryEscape already escapes a literal '+', so the only '+' left in its
// output stands for a space, which mailto readers want as %20.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
