// Package mail sends email through a Postmark-compatible HTTP API.
package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const serverTokenHeader = "X-Postmark-Server-Token"

// Config holds email provider settings.
type Config struct {
	BaseURL     string
	Sender      string
	ServerToken string
	Timeout     time.Duration
}

// Message is a single email to send.
type Message struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	TextBody string `json:"TextBody"`
	HtmlBody string `json:"HtmlBody"`
}

// Sender posts messages to the provider's /email endpoint.
type Sender struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *Sender {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Sender{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Send dispatches one email. Any transport failure or non-2xx response is a
// delivery failure.
func (s *Sender) Send(to, subject, htmlBody, textBody string) error {
	payload, err := json.Marshal(Message{
		From:     s.cfg.Sender,
		To:       to,
		Subject:  subject,
		TextBody: textBody,
		HtmlBody: htmlBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.cfg.BaseURL+"/email", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set(serverTokenHeader, s.cfg.ServerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	return nil
}

// SendConfirmation sends the welcome email carrying the confirmation link.
// The HTML and plain-text bodies embed the identical link.
func (s *Sender) SendConfirmation(to, confirmationLink string) error {
	htmlBody := fmt.Sprintf(
		"Welcome to my newsletter<br />Click <a href=%q>here</a> to confirm your subscription.",
		confirmationLink,
	)
	textBody := fmt.Sprintf(
		"Welcome to my newsletter!\nClick %s to confirm your subscription.",
		confirmationLink,
	)
	return s.Send(to, "Welcome!", htmlBody, textBody)
}

// SendIssue sends one newsletter issue to a single recipient.
func (s *Sender) SendIssue(to, title, htmlBody, textBody string) error {
	return s.Send(to, title, htmlBody, textBody)
}
