// Package email provides the email client for sending transactional emails.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
	"github.com/resendlabs/resend-go"
)

// ProviderName identifies Resend in wrapped provider errors.
const ProviderName = "resend"

// Message is one outgoing email. From is optional.
type Message struct {
	To      []string
	Subject string
	HTML    string
	From    string
}

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendMail(ctx context.Context, msg Message) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewService creates a new email service client, returning the Service interface.
func NewService(apiKey, from string) (Service, error) {
	if apiKey == "" {
		return nil, &leads.ConfigurationError{Setting: "RESEND_API_KEY"}
	}
	return &ResendClient{
		client: resend.NewClient(apiKey),
		from:   from,
	}, nil
}

// NewServiceWithBaseURL points the client at a different Resend API root.
func NewServiceWithBaseURL(apiKey, from, baseURL string) (*ResendClient, error) {
	if apiKey == "" {
		return nil, &leads.ConfigurationError{Setting: "RESEND_API_KEY"}
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid resend base url: %w", err)
	}
	client := resend.NewClient(apiKey)
	client.BaseURL = parsed
	return &ResendClient{client: client, from: from}, nil
}

// SendMail sends msg, falling back to the configured from address.
func (c *ResendClient) SendMail(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return &leads.ProviderError{Provider: ProviderName, Operation: "send", Err: errors.New("no recipients")}
	}
	if err := ctx.Err(); err != nil {
		return &leads.ProviderError{Provider: ProviderName, Operation: "send", Err: err}
	}

	from := msg.From
	if from == "" {
		from = c.from
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return &leads.ProviderError{Provider: ProviderName, Operation: "send", Err: err}
	}

	return nil
}
