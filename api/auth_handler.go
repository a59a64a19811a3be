package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/auth"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/forms"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/policy"
	"github.com/rpupo63/portfolio-site/views"
)

const sessionCookieName = "sessionid"

type authHandler struct {
	pages     pageRenderer
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	tokens    *auth.TokenManager
	cfg       config.AuthConfig
}

func newAuthHandler(pages pageRenderer, userRepo *database.UserRepo, tokens *auth.TokenManager, cfg config.AuthConfig) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		pages:     pages,
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
		cfg:       cfg,
	}
}

func (h authHandler) loginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := policy.SafeNext(r.URL.Query().Get("next"), "/")
		h.pages.render(w, r, http.StatusOK, "Log in", views.Login(h.cfg.LoginURL, next, "", nil))
	}
}

// login checks the credentials, sets the session cookie and sends the user back to next
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.pages.fail(w, r, h.logger, errs.NewMalformedPayloadError("form", err))
			return
		}
		next := policy.SafeNext(r.PostFormValue("next"), "/")

		input, fieldErrs := forms.ValidateLogin(forms.LoginInput{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		})
		if fieldErrs.Any() {
			h.pages.render(w, r, http.StatusOK, "Log in", views.Login(h.cfg.LoginURL, next, input.Username, fieldErrs))
			return
		}

		user, err := h.authenticate(r.Context(), input)
		if errs.IsInvalidCredentials(err) {
			h.pages.render(w, r, http.StatusOK, "Log in",
				views.Login(h.cfg.LoginURL, next, input.Username, forms.Errors{"": forms.MsgBadLogin}))
			return
		}
		if err != nil {
			h.pages.fail(w, r, h.logger, err)
			return
		}

		token, err := h.tokens.Issue(user)
		if err != nil {
			h.pages.fail(w, r, h.logger, err)
			return
		}

		http.SetCookie(w, h.sessionCookie(token, int(h.tokens.TTL().Seconds())))
		h.logger.Info().Str("username", user.Username).Msg("user logged in")
		http.Redirect(w, r, next, http.StatusFound)
	}
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, h.sessionCookie("", -1))
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// issueToken exchanges a username and password for a bearer token
// @Summary Obtain an API token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body forms.LoginInput true "Username and password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing fields"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /api/auth/token/ [post]
func (h authHandler) issueToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload forms.LoginInput
		if err := h.responder.DecodeJSON(w, r, &payload); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input, fieldErrs := forms.ValidateLogin(payload)
		if fieldErrs.Any() {
			h.responder.WriteError(w, errs.NewValidationError(fieldErrs))
			return
		}

		user, err := h.authenticate(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := h.tokens.Issue(user)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to issue token", err))
			return
		}

		h.responder.WriteJSON(w, TokenResponse{
			Token:     token,
			ExpiresAt: time.Now().Add(h.tokens.TTL()).UTC(),
		})
	}
}

// authenticate returns an invalid-credentials error for unknown users and wrong passwords alike
func (h authHandler) authenticate(ctx context.Context, input forms.LoginInput) (*models.User, error) {
	user, err := h.userRepo.FindByUsername(ctx, input.Username)
	if errs.IsNotFound(err) {
		return nil, errs.NewInvalidCredentialsError()
	}
	if err != nil {
		return nil, wrapDatabaseError("find", "user", err)
	}
	if err := auth.CheckPassword(user.PasswordHash, input.Password); err != nil {
		return nil, err
	}
	return user, nil
}

func (h authHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
