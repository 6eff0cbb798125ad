package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Mailer delivers outbound transactional email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, recipient, resetURL string) error
}

type mailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// HTTPMailer sends email through a transactional-email HTTP API.
type HTTPMailer struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// NewHTTPMailer creates a new HTTPMailer
func NewHTTPMailer(apiURL, apiKey, from string) *HTTPMailer {
	return &HTTPMailer{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendPasswordReset posts a reset-link email to the mail provider.
func (m *HTTPMailer) SendPasswordReset(ctx context.Context, recipient, resetURL string) error {
	payload := mailRequest{
		From:    m.from,
		To:      recipient,
		Subject: "Password reset",
		Text:    fmt.Sprintf("To reset your password, follow this link: %s\n\nThe link is valid for one hour. If you did not request a reset, ignore this message.", resetURL),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}

	return nil
}

// LogMailer writes reset links to the server log instead of sending email.
// Used when no mail provider is configured.
type LogMailer struct{}

// SendPasswordReset logs the reset link.
func (LogMailer) SendPasswordReset(_ context.Context, recipient, resetURL string) error {
	log.Printf("Mail delivery disabled; reset link for %s: %s", recipient, resetURL)
	return nil
}
