// Package mail delivers plain-text notifications through an SMTP relay or
// the SendGrid API.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alternativa-centar/site/config"
)

type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
}

// Mailer sends a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// FromConfig builds the mailer selected by cfg.Provider.
func FromConfig(cfg config.MailConfig) (Mailer, error) {
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("EMAIL_USER is required")
	}
	switch cfg.Provider {
	case "", "smtp":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.From, cfg.SMTPPassword)
	case "sendgrid":
		return NewSendGridMailer(cfg.SendGridAPIKey, "")
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

func validate(msg Message) error {
	if strings.TrimSpace(msg.From) == "" || strings.TrimSpace(msg.To) == "" {
		return errors.New("mail: sender and recipient are required")
	}
	for _, v := range []string{msg.From, msg.To, msg.ReplyTo, msg.Subject} {
		if strings.ContainsAny(v, "\r\n") {
			return errors.New("mail: header values must not contain line breaks")
		}
	}
	return nil
}
