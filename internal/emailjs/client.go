// Package emailjs sends template emails through the EmailJS REST API.
package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the EmailJS send API.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// Config identifies the EmailJS account and template.
type Config struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	Endpoint   string
}

// Client posts template parameters to EmailJS.
type Client struct {
	cfg        Config
	HTTPClient *http.Client
}

// NewClient returns a client for cfg. An empty endpoint uses DefaultEndpoint.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether service id, template id and public key are set.
func (c *Client) Configured() bool {
	return c.cfg.ServiceID != "" && c.cfg.TemplateID != "" && c.cfg.PublicKey != ""
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Error is a non-2xx answer from EmailJS. Text is the provider's message.
type Error struct {
	Status int
	Text   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("emailjs: status %d: %s", e.Status, e.Text)
}

// Detail returns the provider text shown to customers.
func (e *Error) Detail() string {
	return e.Text
}

// Send delivers one email rendered from the configured template.
func (c *Client) Send(ctx context.Context, params map[string]string) error {
	payload, err := json.Marshal(sendRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     c.cfg.TemplateID,
		UserID:         c.cfg.PublicKey,
		AccessToken:    c.cfg.PrivateKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("marshal emailjs request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create emailjs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send emailjs request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read emailjs response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Text: strings.TrimSpace(string(body))}
	}
	return nil
}
