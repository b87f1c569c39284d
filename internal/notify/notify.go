// Package notify sends outbound email through a SendGrid-compatible HTTP
// API. Sending is best-effort; the screening pipeline logs failures and
// moves on.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the SendGrid v3 send endpoint.
const DefaultBaseURL = "https://api.sendgrid.com/v3/mail/send"

// DefaultTimeout bounds a single send request.
const DefaultTimeout = 15 * time.Second

// Mailer sends email through the provider API. A nil *Mailer, or one
// without an API key, reports itself as disabled.
type Mailer struct {
	apiKey     string
	fromEmail  string
	fromName   string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithBaseURL overrides the provider endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(m *Mailer) { m.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Mailer) { m.httpClient = c }
}

// NewMailer creates a Mailer. An empty apiKey yields a disabled mailer.
func NewMailer(apiKey, fromEmail, fromName string, opts ...Option) *Mailer {
	m := &Mailer{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enabled reports whether the mailer is configured to send.
func (m *Mailer) Enabled() bool {
	return m != nil && m.apiKey != ""
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To      []address `json:"to"`
	Subject string    `json:"subject"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send delivers one HTML email.
func (m *Mailer) Send(ctx context.Context, to, subject, html string) error {
	if !m.Enabled() {
		return fmt.Errorf("email service not configured")
	}

	payload := sendRequest{
		Personalizations: []personalization{{
			To:      []address{{Email: to}},
			Subject: subject,
		}},
		From:    address{Email: m.fromEmail, Name: m.fromName},
		Content: []content{{Type: "text/html", Value: html}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email send rejected: %s: %s", resp.Status, detail)
	}
	return nil
}
