package email

import (
	"errors"
	"net/mail"
	"strings"
	"testing"
	"time"
)

func TestRender(t *testing.T) {
	raw, err := Render(Message{
		From:    "ada@example.com",
		To:      "info@atgs.example",
		Subject: "New inquiry from Ada via ATGS website",
		Body:    "Name: Ada\nEmail: ada@example.com\nCompany: \n\nMessage:\nHello",
		Date:    time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("output is not a parseable message: %v\n%s", err, raw)
	}
	if got := msg.Header.Get("To"); !strings.Contains(got, "info@atgs.example") {
		t.Errorf("To = %q", got)
	}
	if got := msg.Header.Get("From"); !strings.Contains(got, "ada@example.com") {
		t.Errorf("From = %q", got)
	}
	if got := msg.Header.Get("Subject"); got != "New inquiry from Ada via ATGS website" {
		t.Errorf("Subject = %q", got)
	}
	if d, err := msg.Header.Date(); err != nil || !d.Equal(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, %v", d, err)
	}
	if !strings.Contains(string(raw), "Hello") {
		t.Error("body missing")
	}
}

func TestBuild_BadFromIsDropped(t *testing.T) {
	_, fromOK, err := Build(Message{From: "not an address", To: "info@atgs.example", Body: "x"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if fromOK {
		t.Error("fromOK = true for an unparseable sender")
	}
}

func TestBuild_NoRecipient(t *testing.T) {
	if _, _, err := Build(Message{Body: "x"}); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("err = %v, want ErrNoRecipient", err)
	}
}
