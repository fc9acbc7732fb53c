package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NoopSender logs messages instead of delivering them. serve falls back to
// it when ACADEMY_RESEND_KEY is unset.
type NoopSender struct {
	mu   sync.Mutex
	sent []Message
}

// NewNoopSender creates an empty NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send records msg and returns a synthetic receipt.
func (s *NoopSender) Send(_ context.Context, msg Message) (Receipt, error) {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	n := len(s.sent)
	s.mu.Unlock()

	slog.Info("email_event", "event", "noop_send", "category", msg.Category, "recipients", len(msg.To), "subject", msg.Subject)
	return Receipt{MessageID: fmt.Sprintf("noop-%d", n), SentAt: time.Now()}, nil
}

// Sent returns a copy of every recorded message, oldest first.
func (s *NoopSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
