// Package mailer renders and sends the registration notification emails
// through an authenticated SMTP relay.
package mailer

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"github.com/gieo-gita/summit-registration/internal/config"
)

// Message is one outbound HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender dispatches a single message. Implementations must be safe for use
// from the notification worker goroutine.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTP sends mail through a credentialed relay.
type SMTP struct {
	client   *mail.Client
	from     string
	fromName string
}

// NewSMTP builds an SMTP sender from environment-held relay settings.
func NewSMTP(cfg config.SMTP) (*SMTP, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTP{client: client, from: cfg.From, fromName: cfg.FromName}, nil
}

// Send delivers one message to the relay.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
