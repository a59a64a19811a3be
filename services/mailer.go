package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/errs"
)

// EmailMessage is a plain-text email
type EmailMessage struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers a message or reports why it could not
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NewMailer builds the transport selected by EMAIL_BACKEND
func NewMailer(cfg config.EmailConfig) (Mailer, error) {
	switch cfg.Backend {
	case config.EmailBackendSMTP:
		return NewSMTPMailer(cfg.Host, cfg.Port, cfg.HostUser, cfg.HostPassword), nil
	case config.EmailBackendResend:
		return NewResendMailer(cfg.ResendBaseURL, cfg.ResendAPIKey), nil
	case config.EmailBackendConsole:
		return NewConsoleMailer(log.With().Str("component", "consoleMailer").Logger()), nil
	case config.EmailBackendMemory:
		return NewOutbox(), nil
	default:
		return nil, errs.NewInvalidConfigError("EMAIL_BACKEND", cfg.Backend)
	}
}
