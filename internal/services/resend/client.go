// Package resend wraps the Resend transactional email API.
package resend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://api.resend.com"
	defaultHTTPTimeout = 30 * time.Second
)

// Attachment is a file included with an outgoing email.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message describes an email to send.
type Message struct {
	From        string
	To          []string
	Subject     string
	Text        string
	Attachments []Attachment
}

// Client wraps the Resend v1 email endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option customizes the email client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a Resend API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Send delivers the message and returns the provider's email id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", errors.New("send email: api key required")
	}
	if strings.TrimSpace(msg.From) == "" {
		return "", errors.New("send email: from address required")
	}
	if len(msg.To) == 0 {
		return "", errors.New("send email: recipient required")
	}

	request := emailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
	}
	for _, att := range msg.Attachments {
		request.Attachments = append(request.Attachments, emailAttachment{
			Filename: att.Filename,
			Content:  base64.StdEncoding.EncodeToString(att.Content),
		})
	}
	encoded, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("send email: encode request: %w", err)
	}
	endpoint, err := url.JoinPath(c.baseURL, "/emails")
	if err != nil {
		return "", fmt.Errorf("send email: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("send email: request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send email: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("send email: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("send email: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded emailResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("send email: decode response: %w", err)
	}
	return decoded.ID, nil
}

type emailRequest struct {
	From        string            `json:"from"`
	To          []string          `json:"to"`
	Subject     string            `json:"subject"`
	Text        string            `json:"text"`
	Attachments []emailAttachment `json:"attachments,omitempty"`
}

type emailAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type emailResponse struct {
	ID string `json:"id"`
}
