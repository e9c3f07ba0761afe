package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

var ErrMailgunNotConfigured = errors.New("mailgun: domain, api key and sender are required")

const sendTimeout = 10 * time.Second

// Mailgun is a Sender backed by the Mailgun HTTP API.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string

	client *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	m := &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
	if domain != "" && apiKey != "" {
		m.client = mg.NewMailgun(domain, apiKey)
	}
	return m
}

// WithAPIBase points the client at another API root, e.g. the EU region or a test server.
func (m *Mailgun) WithAPIBase(base string) *Mailgun {
	if m.client != nil {
		m.client.SetAPIBase(base)
	}
	return m
}

// Send delivers one message. html is optional.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if m.client == nil || m.Sender == "" {
		return ErrMailgunNotConfigured
	}
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if _, _, err := m.client.Send(c, msg); err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	return nil
}
