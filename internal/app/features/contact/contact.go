// Package contact serves the contact form endpoints. A valid submission is
// turned into a mailto draft for the visitor's own mail client; nothing is
// sent or kept on the server.
package contact

import (
	"errors"
	"net/http"
	"time"

	"github.com/atgs/landing/httputil"
	"github.com/atgs/landing/internal/app/features/landing"
	"github.com/atgs/landing/internal/domain/contact"
	"github.com/atgs/landing/metrics"
	"github.com/atgs/landing/middleware"
	"github.com/atgs/landing/pantry/email"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EMLFilename is the download name for format=eml.
const EMLFilename = "inquiry.eml"

// Handler holds the encoder and the page used to report form errors.
type Handler struct {
	page      *landing.Handler
	encoder   contact.Encoder
	enableEML bool
	logger    *zap.Logger
	now       func() time.Time
}

// New returns a Handler. page re-renders the landing page on failure.
func New(page *landing.Handler, encoder contact.Encoder, enableEML bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{page: page, encoder: encoder, enableEML: enableEML, logger: logger, now: time.Now}
}

// Submit is POST /contact.
//
// Success is a 303 whose Location is the mailto URI, or with format=eml an
// attachment carrying the same draft. Failure is a 422 re-render of the
// page with every problem named and the visitor's input kept.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := landing.FormValues(r)

	if problems := form.Problems(); len(problems) > 0 {
		metrics.ContactDraft(metrics.ChannelForm, metrics.OutcomeInvalid)
		verr := &contact.ValidationError{Problems: problems}
		h.logger.Debug("contact form rejected", zap.Strings("fields", verr.Fields()))

		d := h.page.Data()
		d.Contact = form
		d.ContactNotice = contact.Notice(problems)
		d.Invalid = verr.Fields()
		h.page.Render(w, r, http.StatusUnprocessableEntity, d)
		return
	}

	draft, err := h.encoder.Build(form)
	if err != nil {
		// Problems and Build apply the same checks.
		h.logger.Error("contact draft failed after validation", zap.Error(err))
		metrics.ContactDraft(metrics.ChannelForm, metrics.OutcomeError)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if h.enableEML && r.PostForm.Get("format") == "eml" {
		h.writeEML(w, r, form, draft)
		return
	}

	metrics.ContactDraft(metrics.ChannelForm, metrics.OutcomeOK)
	h.logger.Info("contact draft built", zap.String("channel", metrics.ChannelForm), zap.Int("uri_len", len(draft.URI)))
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, draft.URI, http.StatusSeeOther)
}

func (h *Handler) writeEML(w http.ResponseWriter, r *http.Request, form contact.Form, draft contact.MailDraft) {
	msg := email.Message{
		From:    form.Email,
		To:      draft.Recipient,
		Subject: draft.Subject,
		Body:    draft.Body,
		Date:    h.now(),
	}
	b, err := email.Render(msg)
	if err != nil {
		metrics.ContactDraft(metrics.ChannelEML, metrics.OutcomeError)
		h.logger.Error("eml render failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	metrics.ContactDraft(metrics.ChannelEML, metrics.OutcomeOK)
	h.logger.Info("contact draft built", zap.String("channel", metrics.ChannelEML), zap.Int("bytes", len(b)))
	w.Header().Set("Content-Type", email.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+EMLFilename+`"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// Draft is POST /api/contact/draft. It answers with the MailDraft as JSON,
// or a validation_failed envelope listing every offending field.
func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	var form contact.Form
	if err := httputil.BindJSON(r, &form); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.JSONError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
			return
		}
		httputil.JSONError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	var verr *contact.ValidationError
	if err := form.Validate(); errors.As(err, &verr) {
		metrics.ContactDraft(metrics.ChannelAPI, metrics.OutcomeInvalid)
		httputil.JSONError(w, http.StatusUnprocessableEntity, "validation_failed",
			contact.Notice(verr.Problems), verr.Fields()...)
		return
	}

	draft, err := h.encoder.Build(form)
	if err != nil {
		metrics.ContactDraft(metrics.ChannelAPI, metrics.OutcomeError)
		h.logger.Error("contact draft failed after validation", zap.Error(err))
		httputil.JSONError(w, http.StatusInternalServerError, "internal", "could not build draft")
		return
	}

	metrics.ContactDraft(metrics.ChannelAPI, metrics.OutcomeOK)
	h.logger.Info("contact draft built", zap.String("channel", metrics.ChannelAPI), zap.Int("uri_len", len(draft.URI)))
	httputil.WriteJSON(w, http.StatusOK, draft)
}

// TooManyRequests is the API's rate-limit response.
func TooManyRequests(w http.ResponseWriter, r *http.Request) {
	httputil.JSONError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests, please try again shortly.")
}

// MountRoutes adds POST /contact and the /api/contact group.
//
// submit and apiSubmit, when not nil, wrap the two POST routes (rate
// limiting). cors, when not nil, wraps the whole API group so preflight
// requests are answered before routing.
func MountRoutes(r chi.Router, h *Handler, submit, apiSubmit, cors func(http.Handler) http.Handler) {
	r.With(orPass(submit)).Post("/contact", h.Submit)

	r.Route("/api/contact", func(api chi.Router) {
		if cors != nil {
			api.Use(cors)
		}
		api.With(middleware.RequireJSON, orPass(apiSubmit)).Post("/draft", h.Draft)
	})
}

func orPass(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
