// pantry/email/email.go

// Package email renders plain-text messages as RFC 5322 files (.eml) with
// github.com/wneessen/go-mail. Nothing here opens an SMTP connection: the
// file is handed to the visitor, whose own mail client sends it.
package email

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wneessen/go-mail"
)

// ContentType is the media type of a rendered message.
const ContentType = "message/rfc822"

// Message is a single-part plain-text message.
type Message struct {
	From    string // optional; dropped if go-mail rejects it
	To      string
	Subject string
	Body    string
	Date    time.Time // zero means time.Now
}

// ErrNoRecipient is returned when Message.To is empty or unparseable.
var ErrNoRecipient = errors.New("email: recipient required")

// Build converts m into a go-mail message. The second return value is false
// when From was present but not accepted.
func Build(m Message) (*mail.Msg, bool, error) {
	msg := mail.NewMsg()
	if m.To == "" {
		return nil, false, ErrNoRecipient
	}
	if err := msg.To(m.To); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrNoRecipient, err)
	}

	fromOK := true
	if m.From != "" {
		if err := msg.From(m.From); err != nil {
			fromOK = false
		} else if err := msg.ReplyTo(m.From); err != nil {
			fromOK = false
		}
	}

	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}
	msg.SetDateWithValue(date)
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, fromOK, nil
}

// WriteTo renders m to w.
func WriteTo(w io.Writer, m Message) error {
	msg, _, err := Build(m)
	if err != nil {
		return err
	}
	if _, err := msg.WriteTo(w); err != nil {
		return fmt.Errorf("email: render: %w", err)
	}
	return nil
}

// Render is WriteTo into a byte slice.
func Render(m Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
