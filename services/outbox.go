package services

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Outbox keeps sent messages in memory. Used for local runs and tests.
type Outbox struct {
	mu       sync.Mutex
	messages []EmailMessage
	err      error
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Send(ctx context.Context, msg EmailMessage) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.messages = append(o.messages, msg)
	return nil
}

// FailWith makes every following Send return err; nil restores delivery
func (o *Outbox) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

func (o *Outbox) Messages() []EmailMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]EmailMessage(nil), o.messages...)
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.messages)
}

// ConsoleMailer writes messages to the log instead of delivering them
type ConsoleMailer struct {
	logger zerolog.Logger
}

func NewConsoleMailer(logger zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) Send(ctx context.Context, msg EmailMessage) error {
	m.logger.Info().
		Str("from", msg.From).
		Str("to", strings.Join(msg.To, ", ")).
		Str("replyTo", msg.ReplyTo).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("Email (console backend)")
	return nil
}
