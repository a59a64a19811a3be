package services

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
	"github.com/rs/zerolog/log"
)

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ResendMailer sends email through the Resend HTTP API
type ResendMailer struct {
	client *req.Client
}

func NewResendMailer(baseURL, apiKey string) *ResendMailer {
	client := req.C().
		SetBaseURL(baseURL).
		SetCommonBearerAuthToken(apiKey).
		SetTimeout(15 * time.Second)
	return &ResendMailer{client: client}
}

func (m *ResendMailer) Send(ctx context.Context, msg EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Body,
	}

	var sent ResendEmailResponse
	var failure ResendErrorResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(&payload).
		SetSuccessResult(&sent).
		SetErrorResult(&failure).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	if resp.IsErrorState() {
		if failure.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, failure.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, resp.String())
	}

	log.Info().Str("emailId", sent.ID).Msg("Successfully sent email via Resend")
	return nil
}
