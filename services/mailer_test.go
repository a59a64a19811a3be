package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/config"
)

func TestNewMailerSelectsBackend(t *testing.T) {
	tests := []struct {
		backend string
		want    any
	}{
		{config.EmailBackendSMTP, &SMTPMailer{}},
		{config.EmailBackendResend, &ResendMailer{}},
		{config.EmailBackendConsole, &ConsoleMailer{}},
		{config.EmailBackendMemory, &Outbox{}},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			mailer, err := NewMailer(config.EmailConfig{Backend: tt.backend, Host: "localhost", Port: 25})
			require.NoError(t, err)
			assert.IsType(t, tt.want, mailer)
		})
	}

	_, err := NewMailer(config.EmailConfig{Backend: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestResendMailer(t *testing.T) {
	var got ResendEmailRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer server.Close()

	mailer := NewResendMailer(server.URL, "re_test")
	err := mailer.Send(context.Background(), EmailMessage{
		From:    "site@example.com",
		To:      []string{"owner@example.com"},
		ReplyTo: "visitor@example.com",
		Subject: "Hello",
		Body:    "Body",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Equal(t, "Body", got.Text)
	assert.Equal(t, "visitor@example.com", got.ReplyTo)
}

func TestResendMailerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	err := NewResendMailer(server.URL, "re_test").Send(context.Background(), EmailMessage{To: []string{"a@example.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")

	err = NewResendMailer(server.URL, "re_test").Send(context.Background(), EmailMessage{})
	assert.Error(t, err)
}

func TestSMTPMessageHeaders(t *testing.T) {
	m := buildGomailMessage(EmailMessage{
		From:    "site@example.com",
		To:      []string{"owner@example.com"},
		ReplyTo: "visitor@example.com",
		Subject: "Hello",
		Body:    "Body",
	})
	assert.Equal(t, []string{"owner@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"visitor@example.com"}, m.GetHeader("Reply-To"))
	assert.Equal(t, []string{"Hello"}, m.GetHeader("Subject"))
}

func TestConsoleMailerNeverFails(t *testing.T) {
	mailer := NewConsoleMailer(zerolog.Nop())
	assert.NoError(t, mailer.Send(context.Background(), EmailMessage{Subject: "hi"}))
}
