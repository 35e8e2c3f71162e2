package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridMailer struct {
	client *sendgrid.Client
}

// NewSendGridMailer creates a mailer for the v3 send API. baseURL overrides
// the API host and is empty in production.
func NewSendGridMailer(apiKey, baseURL string) (*SendGridMailer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("SENDGRID_API_KEY is required")
	}
	client := sendgrid.NewSendClient(apiKey)
	if baseURL != "" {
		client.BaseURL = strings.TrimRight(baseURL, "/") + "/v3/mail/send"
	}
	return &SendGridMailer{client: client}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}

	email := sgmail.NewSingleEmailPlainText(
		sgmail.NewEmail("", msg.From),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		msg.Text,
	)
	if msg.ReplyTo != "" {
		email.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
