package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/config"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

const sendEndpoint = "https://api.sendgrid.com/v3/mail/send"

// Sender is the transactional-email surface used by services. Deliveries are
// best effort; callers log failures and move on.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a single transactional email.
type Message struct {
	To        string
	ToName    string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Client talks to the SendGrid v3 REST API directly.
type Client struct {
	httpClient *http.Client
	apiKey     string
	fromEmail  string
	fromName   string
}

// NewClient validates configuration and returns a SendGrid-backed Sender.
func NewClient(ctx context.Context, cfg config.SendgridConfig, logg *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	from := strings.TrimSpace(cfg.DefaultFrom)
	if from == "" {
		return nil, errors.New("sendgrid from email is required")
	}

	if logg != nil {
		logg.Info(ctx, "sendgrid client initialized")
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		fromEmail:  from,
		fromName:   cfg.FromName,
	}, nil
}

type sendgridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridPayload struct {
	Personalizations []struct {
		To []sendgridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendgridAddress   `json:"from"`
	Subject string            `json:"subject"`
	Content []sendgridContent `json:"content"`
}

// Send delivers one message. A non-2xx response is returned as an error with
// a truncated body for diagnostics.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c == nil {
		return errors.New("email client not initialized")
	}
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("recipient is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return errors.New("subject is required")
	}
	if msg.PlainBody == "" && msg.HTMLBody == "" {
		return errors.New("message body is required")
	}

	payload := sendgridPayload{
		From:    sendgridAddress{Email: c.fromEmail, Name: c.fromName},
		Subject: msg.Subject,
	}
	payload.Personalizations = append(payload.Personalizations, struct {
		To []sendgridAddress `json:"to"`
	}{To: []sendgridAddress{{Email: msg.To, Name: msg.ToName}}})
	if msg.PlainBody != "" {
		payload.Content = append(payload.Content, sendgridContent{Type: "text/plain", Value: msg.PlainBody})
	}
	if msg.HTMLBody != "" {
		payload.Content = append(payload.Content, sendgridContent{Type: "text/html", Value: msg.HTMLBody})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if len(snippet) > 0 {
		return fmt.Errorf("sendgrid returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	return fmt.Errorf("sendgrid returned %s", resp.Status)
}
