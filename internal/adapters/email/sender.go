// Package email delivers the "share my favorites" message through an
// external provider, or logs it when no provider is configured.
package email

import (
	"context"
	"time"
)

// Message is one outgoing email.
type Message struct {
	To       []string
	From     string // empty uses the sender's default address
	ReplyTo  string
	Subject  string
	HTML     string
	Category string // provider tag used to group sends, e.g. "favorites_share"
}

// Receipt is what the provider returned for an accepted message.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
