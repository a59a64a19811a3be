package services

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends through an SMTP relay. Port 465 uses implicit TLS, other ports STARTTLS.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, username, password)}
}

func (m *SMTPMailer) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(buildGomailMessage(msg)); err != nil {
		return fmt.Errorf("send email via smtp %s: %w", m.dialer.Host, err)
	}
	return nil
}

func buildGomailMessage(msg EmailMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}
