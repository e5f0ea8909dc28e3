package contact

import (
	"bytes"
	"mime"
	"net/http"
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/atgs/landing/config"
	"github.com/atgs/landing/httputil"
	"github.com/atgs/landing/internal/app/features/landing"
	"github.com/atgs/landing/internal/domain/contact"
	"github.com/atgs/landing/internal/domain/theme"
	"github.com/atgs/landing/middleware"
	"github.com/atgs/landing/pantry/ratelimit"
	"github.com/atgs/landing/pantry/testkit"
	"github.com/go-chi/chi/v5"
)

const recipient = "theodora@atgs.co.uk"

type options struct {
	eml       bool
	submit    func(http.Handler) http.Handler
	apiSubmit func(http.Handler) http.Handler
	cors      func(http.Handler) http.Handler
}

func newServer(t *testing.T, o options) (*testkit.Server, *landing.Handler) {
	t.Helper()
	page := landing.New(landing.Site{Theme: theme.Default(), EnableEML: o.eml}, nil)
	h := New(page, contact.Encoder{Recipient: recipient}, o.eml, nil)
	h.now = func() time.Time { return time.Date(2031, 1, 2, 3, 4, 5, 0, time.UTC) }

	r := chi.NewRouter()
	MountRoutes(r, h, o.submit, o.apiSubmit, o.cors)
	return testkit.NewServer(t, r), page
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Ann"},
		"email":   {"a@b.com"},
		"company": {"Acme"},
		"message": {"Need a website"},
	}
}

func TestSubmit_RedirectsToMailto(t *testing.T) {
	s, _ := newServer(t, options{})

	resp := s.Post("/contact").Form(validForm()).Do().Status(http.StatusSeeOther)

	loc := resp.Location()
	prefix := "mailto:" + recipient + "?subject="
	if !strings.HasPrefix(loc, prefix) {
		t.Fatalf("Location = %q, want prefix %q", loc, prefix)
	}
	want, err := contact.BuildSubmission("Ann", "a@b.com", "Acme", "Need a website", recipient)
	if err != nil {
		t.Fatal(err)
	}
	if loc != want.URI {
		t.Errorf("Location = %q, want %q", loc, want.URI)
	}
	resp.HeaderEquals("Cache-Control", "no-store")
}

func TestSubmit_InvalidRerenders(t *testing.T) {
	s, _ := newServer(t, options{})

	tests := []struct {
		name    string
		form    url.Values
		notice  string
		invalid int
	}{
		{
			"everything missing",
			url.Values{"company": {"Acme"}},
			"Please provide your name, a valid email, and a short message.",
			3,
		},
		{
			"bad email only",
			url.Values{"name": {"Ann"}, "email": {"nope"}, "message": {"hi"}},
			"Please provide a valid email.",
			1,
		},
		{
			"blank name and message",
			url.Values{"name": {"  "}, "email": {"a@b.com"}, "message": {"\n"}},
			"Please provide your name and a short message.",
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.Post("/contact").Form(tt.form).Do().
				Status(http.StatusUnprocessableEntity).
				HeaderContains("Content-Type", "text/html").
				BodyContains(tt.notice)

			if loc := resp.Location(); loc != "" {
				t.Errorf("Location = %q on a failed submit", loc)
			}
			if n := strings.Count(resp.String(), `aria-invalid="true"`); n != tt.invalid {
				t.Errorf("%d fields flagged, want %d", n, tt.invalid)
			}
			if c := tt.form.Get("company"); c != "" {
				resp.BodyContains(`value="` + c + `"`)
			}
		})
	}
}

func TestSubmit_EML(t *testing.T) {
	s, _ := newServer(t, options{eml: true})

	form := validForm()
	form.Set("format", "eml")
	resp := s.Post("/contact").Form(form).Do().
		Status(http.StatusOK).
		HeaderEquals("Content-Type", "message/rfc822").
		HeaderEquals("Content-Disposition", `attachment; filename="inquiry.eml"`)

	msg, err := mail.ReadMessage(bytes.NewReader(resp.Body))
	if err != nil {
		t.Fatalf("parse eml: %v", err)
	}
	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	if err != nil {
		t.Fatal(err)
	}
	if subject != "New inquiry from Ann" {
		t.Errorf("Subject = %q", subject)
	}
	to, err := msg.Header.AddressList("To")
	if err != nil || len(to) != 1 || to[0].Address != recipient {
		t.Errorf("To = %v (%v)", to, err)
	}
	from, err := msg.Header.AddressList("From")
	if err != nil || len(from) != 1 || from[0].Address != "a@b.com" {
		t.Errorf("From = %v (%v)", from, err)
	}
	resp.BodyContains("Name: Ann").BodyContains("Company: Acme")
}

func TestSubmit_EMLDisabledFallsBackToMailto(t *testing.T) {
	s, _ := newServer(t, options{})

	form := validForm()
	form.Set("format", "eml")
	resp := s.Post("/contact").Form(form).Do().Status(http.StatusSeeOther)
	if !strings.HasPrefix(resp.Location(), "mailto:") {
		t.Errorf("Location = %q", resp.Location())
	}
}

func TestDraft(t *testing.T) {
	s, _ := newServer(t, options{})

	var d contact.MailDraft
	s.Post("/api/contact/draft").
		JSON(map[string]string{"name": "Ann", "email": "a@b.com", "company": "Acme", "message": "Need a website"}).
		Do().
		Status(http.StatusOK).
		HeaderContains("Content-Type", "application/json").
		JSON(&d)

	if d.Recipient != recipient || d.Subject != "New inquiry from Ann" {
		t.Errorf("draft = %+v", d)
	}
	if d.Body != "Name: Ann\nEmail: a@b.com\nCompany: Acme\n\nMessage:\nNeed a website" {
		t.Errorf("Body = %q", d.Body)
	}
	if !strings.HasPrefix(d.URI, "mailto:"+recipient+"?subject=New%20inquiry%20from%20Ann&body=") {
		t.Errorf("URI = %q", d.URI)
	}
}

func TestDraft_Errors(t *testing.T) {
	s, _ := newServer(t, options{})

	tests := []struct {
		name   string
		ct     string
		body   string
		status int
		code   string
		fields []string
	}{
		{"validation", "application/json", `{"name":"","email":"x","message":""}`,
			http.StatusUnprocessableEntity, "validation_failed", []string{"name", "email", "message"}},
		{"message only", "application/json", `{"name":"Ann","email":"a@b.com"}`,
			http.StatusUnprocessableEntity, "validation_failed", []string{"message"}},
		{"malformed", "application/json", `{"name":`, http.StatusBadRequest, "bad_request", nil},
		{"unknown field", "application/json", `{"name":"Ann","phone":"1"}`, http.StatusBadRequest, "bad_request", nil},
		{"two values", "application/json", `{} {}`, http.StatusBadRequest, "bad_request", nil},
		{"wrong media type", "text/plain", `{}`, http.StatusUnsupportedMediaType, "unsupported_media_type", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e httputil.ErrorResponse
			s.Post("/api/contact/draft").Header("Content-Type", tt.ct).BodyString(tt.body).Do().
				Status(tt.status).
				JSON(&e)
			if e.Error != tt.code {
				t.Errorf("error = %q, want %q", e.Error, tt.code)
			}
			if !slices.Equal(e.Fields, tt.fields) {
				t.Errorf("fields = %v, want %v", e.Fields, tt.fields)
			}
		})
	}
}

func TestDraft_CORSPreflight(t *testing.T) {
	cfg := &config.CoreConfig{CORS: config.CORSConfig{
		EnableCORS:         true,
		CORSAllowedOrigins: []string{"https://partner.example"},
		CORSAllowedMethods: []string{"POST"},
		CORSAllowedHeaders: []string{"Content-Type"},
	}}
	s, _ := newServer(t, options{cors: middleware.CORSFromConfig(cfg)})

	s.Request(http.MethodOptions, "/api/contact/draft").
		Header("Origin", "https://partner.example").
		Header("Access-Control-Request-Method", "POST").
		Header("Access-Control-Request-Headers", "Content-Type").
		Do().
		HeaderEquals("Access-Control-Allow-Origin", "https://partner.example")

	s.Post("/api/contact/draft").
		Header("Origin", "https://partner.example").
		JSON(map[string]string{"name": "Ann", "email": "a@b.com", "message": "hi"}).
		Do().
		Status(http.StatusOK).
		HeaderEquals("Access-Control-Allow-Origin", "https://partner.example")
}

func TestRateLimited(t *testing.T) {
	page := landing.New(landing.Site{Theme: theme.Default()}, nil)
	h := New(page, contact.Encoder{Recipient: recipient}, false, nil)
	kl := ratelimit.NewKeyLimiter(1, 1, time.Minute)

	r := chi.NewRouter()
	MountRoutes(r, h,
		ratelimit.Middleware(kl, page.TooManyRequests),
		ratelimit.Middleware(kl, TooManyRequests),
		nil,
	)
	s := testkit.NewServer(t, r)

	s.Post("/contact").Form(validForm()).Do().Status(http.StatusSeeOther)

	s.Post("/contact").Form(validForm()).Do().
		Status(http.StatusTooManyRequests).
		HeaderEquals("Retry-After", "60").
		BodyContains(landing.TooManyRequestsNotice).
		BodyContains(`value="Ann"`)

	var e httputil.ErrorResponse
	s.Post("/api/contact/draft").JSON(map[string]string{"name": "Ann"}).Do().
		Status(http.StatusTooManyRequests).
		JSON(&e)
	if e.Error != "rate_limited" {
		t.Errorf("error = %q", e.Error)
	}
}
