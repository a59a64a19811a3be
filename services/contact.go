package services

import (
	"context"
	"fmt"

	"github.com/rpupo63/portfolio-site/forms"
)

// ContactNotifier turns contact submissions into an email to the site owner
type ContactNotifier struct {
	mailer     Mailer
	adminEmail string
	fromEmail  string
}

func NewContactNotifier(mailer Mailer, adminEmail, fromEmail string) *ContactNotifier {
	return &ContactNotifier{mailer: mailer, adminEmail: adminEmail, fromEmail: fromEmail}
}

// Notify sends exactly one message. Delivery errors are returned unchanged.
func (n *ContactNotifier) Notify(ctx context.Context, in forms.ContactInput) error {
	return n.mailer.Send(ctx, n.Message(in))
}

// Message builds the email for a submission without sending it
func (n *ContactNotifier) Message(in forms.ContactInput) EmailMessage {
	return EmailMessage{
		From:    n.fromEmail,
		To:      []string{n.adminEmail},
		ReplyTo: in.Email,
		Subject: ContactSubject(in),
		Body:    ContactBody(in),
	}
}

func ContactSubject(in forms.ContactInput) string {
	if in.Subject == "" {
		return fmt.Sprintf("New Contact Form Submission from %s", in.Name)
	}
	return fmt.Sprintf("Portfolio Contact: %s (from %s)", in.Subject, in.Name)
}

func ContactBody(in forms.ContactInput) string {
	return fmt.Sprintf("You received a new message from your portfolio site.\n\nFrom: %s\nEmail: %s\n\nMessage:\n%s\n",
		in.Name, in.Email, in.Message)
}
