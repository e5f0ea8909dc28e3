// Package landing renders the single marketing page and handles the hero
// waitlist form.
package landing

import (
	"bytes"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/atgs/landing/internal/domain/contact"
	"github.com/atgs/landing/internal/domain/theme"
	"github.com/atgs/landing/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TooManyRequestsNotice is shown in place of a form result when the client
// is rate limited.
const TooManyRequestsNotice = "Too many requests. Please wait a moment and try again."

// Site is the per-process part of the page. It is built once at startup.
type Site struct {
	Theme        theme.Theme
	SupportEmail string
	SupportPhone string
	ShowPricing  bool
	EnableEML    bool

	// URLs, normally fingerprinted.
	Stylesheet string
	Icon       string
	DemoImage  string
}

// PageData is Site plus whatever one request adds.
type PageData struct {
	Site
	Year int

	Contact       contact.Form
	ContactNotice string
	// Invalid names the contact fields to flag, e.g. "email".
	Invalid []string

	Waitlist       string
	WaitlistNotice string
}

func (d PageData) invalid(field string) bool {
	return slices.Contains(d.Invalid, field)
}

// Handler serves the page.
type Handler struct {
	site   Site
	logger *zap.Logger
	now    func() time.Time
}

// New returns a Handler for site.
func New(site Site, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{site: site, logger: logger, now: time.Now}
}

// Data starts a PageData for one request.
func (h *Handler) Data() PageData {
	return PageData{Site: h.site, Year: h.now().Year()}
}

// Render writes the page with status. The page is rendered into a buffer
// first so a failure can still become a clean 500.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request, status int, d PageData) {
	var buf bytes.Buffer
	if err := Page(d).Render(&buf); err != nil {
		h.logger.Error("page render failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// Show is GET /. ?email= pre-fills the contact email so the waitlist
// redirect lands on a half-filled form.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	d := h.Data()
	if email := strings.TrimSpace(r.URL.Query().Get("email")); email != "" {
		d.Contact.Email = email
		d.Waitlist = email
	}
	h.Render(w, r, http.StatusOK, d)
}

// JoinWaitlist is POST /waitlist. Nothing is stored: a valid address is
// carried over to the contact form, an invalid one re-renders the page.
func (h *Handler) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	if !contact.IsValidEmail(email) {
		metrics.ContactDraft(metrics.ChannelWaitlist, metrics.OutcomeInvalid)
		d := h.Data()
		d.Waitlist = email
		d.WaitlistNotice = "Please enter a valid work email."
		h.Render(w, r, http.StatusUnprocessableEntity, d)
		return
	}

	metrics.ContactDraft(metrics.ChannelWaitlist, metrics.OutcomeOK)
	http.Redirect(w, r, "/?email="+url.QueryEscape(email)+"#contact", http.StatusSeeOther)
}

// TooManyRequests re-renders the page with a 429 notice next to the form
// that was posted, keeping what the visitor typed.
func (h *Handler) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	d := h.Data()
	_ = r.ParseForm()
	if r.URL.Path == "/waitlist" {
		d.Waitlist = r.PostForm.Get("email")
		d.WaitlistNotice = TooManyRequestsNotice
	} else {
		d.Contact = FormValues(r)
		d.ContactNotice = TooManyRequestsNotice
	}
	h.Render(w, r, http.StatusTooManyRequests, d)
}

// FormValues reads the contact fields from a parsed form.
func FormValues(r *http.Request) contact.Form {
	return contact.Form{
		Name:    r.PostForm.Get("name"),
		Email:   strings.TrimSpace(r.PostForm.Get("email")),
		Company: r.PostForm.Get("company"),
		Message: r.PostForm.Get("message"),
	}
}

// MountRoutes adds GET / and POST /waitlist. submit, if not nil, wraps the
// POST route.
func MountRoutes(r chi.Router, h *Handler, submit func(http.Handler) http.Handler) {
	r.Get("/", h.Show)
	if submit != nil {
		r.With(submit).Post("/waitlist", h.JoinWaitlist)
		return
	}
	r.Post("/waitlist", h.JoinWaitlist)
}
