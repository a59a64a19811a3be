package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/forms"
	"github.com/rpupo63/portfolio-site/services"
	"github.com/rpupo63/portfolio-site/views"
)

type contactHandler struct {
	pages    pageRenderer
	logger   zerolog.Logger
	notifier *services.ContactNotifier
	metrics  *metrics
}

func newContactHandler(pages pageRenderer, notifier *services.ContactNotifier, m *metrics) contactHandler {
	return contactHandler{
		pages:    pages,
		logger:   log.With().Str("handlerName", "contactHandler").Logger(),
		notifier: notifier,
		metrics:  m,
	}
}

func (h contactHandler) form() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.pages.render(w, r, http.StatusOK, "Contact", views.Contact(forms.ContactInput{}, nil))
	}
}

// submit sends one email to the site owner per valid submission. Delivery
// failures are not retried and surface as a server error.
func (h contactHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.pages.fail(w, r, h.logger, errs.NewMalformedPayloadError("form", err))
			return
		}

		input, fieldErrs := forms.ValidateContact(forms.ContactInput{
			Name:    r.PostFormValue("name"),
			Email:   r.PostFormValue("email"),
			Subject: r.PostFormValue("subject"),
			Message: r.PostFormValue("message"),
		})
		if fieldErrs.Any() {
			h.pages.render(w, r, http.StatusOK, "Contact", views.Contact(input, fieldErrs))
			return
		}

		if err := h.notifier.Notify(r.Context(), input); err != nil {
			h.metrics.contactFailed()
			h.pages.fail(w, r, h.logger, errs.NewInternalErrorWithCause("failed to send contact email", err))
			return
		}
		h.metrics.contactSent()

		h.logger.Info().Str("from", input.Email).Msg("contact message sent")
		http.Redirect(w, r, "/", http.StatusFound)
	}
}
