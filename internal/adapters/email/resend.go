package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// resendEmails is the part of the Resend client ResendSender uses.
type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendSender sends email through the Resend API.
type ResendSender struct {
	emails resendEmails
	from   string
	now    func() time.Time
}

// NewResendSender builds a sender for apiKey.
// PRE: apiKey is a Resend API key; from is a valid sender address
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		emails: resend.NewClient(apiKey).Emails,
		from:   from,
		now:    time.Now,
	}
}

// Send submits msg to Resend.
// PRE: msg has at least one recipient
// POST: on success the Receipt carries Resend's message ID
func (s *ResendSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}
	if params.From == "" {
		params.From = s.from
	}
	if msg.Category != "" {
		params.Tags = []resend.Tag{{Name: "category", Value: msg.Category}}
	}

	resp, err := s.emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("email_event", "event", "resend_failed", "category", msg.Category, "error", err)
		return Receipt{}, fmt.Errorf("resend: %w", err)
	}

	slog.Info("email_event", "event", "resend_sent", "category", msg.Category, "message_id", resp.Id, "recipients", len(msg.To))
	return Receipt{MessageID: resp.Id, SentAt: s.now()}, nil
}
