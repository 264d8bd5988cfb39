// Package whatsapp provides a client for the WhatsApp Business Cloud API.
//
// Template messages are required for recipients outside the 24-hour
// free-form window and for accounts not approved for free-form messaging, so
// the notifier defaults to templates. A template payload must carry the
// template name, a language code, and body parameters when the approved
// template has placeholders.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/interfaces"
)

const (
	DefaultBaseURL      = "https://graph.facebook.com/v18.0"
	DefaultTimeout      = 30 * time.Second
	DefaultTemplateName = "hello_world"
	DefaultLanguage     = "en"
)

// Client sends messages through one WhatsApp Business phone number.
type Client struct {
	baseURL      string
	token        string
	phoneID      string
	recipient    string
	useTemplate  bool
	templateName string
	languageCode string
	httpClient   *http.Client
	logger       *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithTemplate switches template messaging on or off and sets the template
// name and language code. Empty values keep the defaults.
func WithTemplate(use bool, name, language string) ClientOption {
	return func(c *Client) {
		c.useTemplate = use
		if name != "" {
			c.templateName = name
		}
		if language != "" {
			c.languageCode = language
		}
	}
}

// NewClient creates a client for one business phone number. recipient is the
// default destination in international format (e.g. "919876543210").
func NewClient(token, phoneID, recipient string, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("WhatsApp token is required")
	}
	if phoneID == "" {
		return nil, fmt.Errorf("WhatsApp phone number ID is required")
	}

	c := &Client{
		baseURL:      DefaultBaseURL,
		token:        token,
		phoneID:      phoneID,
		recipient:    recipient,
		useTemplate:  true,
		templateName: DefaultTemplateName,
		languageCode: DefaultLanguage,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// APIError represents a WhatsApp API error
type APIError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("WhatsApp API error: %s (type: %s, status: %d)", e.Message, e.Type, e.StatusCode)
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

type templatePayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Template         struct {
		Name     string `json:"name"`
		Language struct {
			Code string `json:"code"`
		} `json:"language"`
		Components []templateComponent `json:"components,omitempty"`
	} `json:"template"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Notify sends msg to the configured recipient using the configured mode and
// returns the provider message ID.
func (c *Client) Notify(ctx context.Context, msg string) (string, error) {
	if c.recipient == "" {
		return "", fmt.Errorf("no WhatsApp recipient configured")
	}
	if c.useTemplate {
		return c.SendTemplate(ctx, c.recipient, msg)
	}
	return c.SendText(ctx, c.recipient, msg)
}

// SendText sends a free-form text message. Only valid inside the 24-hour
// customer service window.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
	}
	payload.Text.Body = body

	return c.send(ctx, payload)
}

// SendTemplate sends a template message with body as the single body
// parameter.
func (c *Client) SendTemplate(ctx context.Context, to, body string) (string, error) {
	payload := templatePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
	}
	payload.Template.Name = c.templateName
	payload.Template.Language.Code = c.languageCode
	if body != "" {
		payload.Template.Components = []templateComponent{{
			Type:       "body",
			Parameters: []templateParameter{{Type: "text", Text: body}},
		}}
	}

	return c.send(ctx, payload)
}

func (c *Client) send(ctx context.Context, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed sendResponse
	if err := json.Unmarshal(respData, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    parsed.Error.Message,
			Type:       parsed.Error.Type,
		}
	}

	if len(parsed.Messages) == 0 {
		return "", fmt.Errorf("send succeeded but no message ID returned")
	}

	c.logger.Debug().Str("id", parsed.Messages[0].ID).Msg("WhatsApp message sent")
	return parsed.Messages[0].ID, nil
}

// Ensure Client implements Notifier
var _ interfaces.Notifier = (*Client)(nil)
