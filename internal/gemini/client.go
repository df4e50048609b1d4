// Package gemini talks to the Gemini generateContent endpoint and turns its
// free-text replies into validated domain values.
package gemini

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

	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Defaults for the public API.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 60 * time.Second
)

// Errors returned for replies that cannot be used.
var (
	ErrEmptyResponse = errors.New("gemini: invalid API response: no text content")
	ErrNoJSON        = errors.New("gemini: no JSON found in response")
)

// APIError is a non-2xx reply.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: API error: %d %s", e.StatusCode, truncate(e.Body, 200))
}

// ── Wire types ───────────────────────────────────────────────────

// Part is one piece of a prompt: text or inline image data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData carries base64 image bytes.
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// TextPart is a convenience constructor for a text part.
func TextPart(s string) Part { return Part{Text: s} }

type content struct {
	Parts []Part `json:"parts"`
}

// GenerationConfig controls sampling for one call.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type payload struct {
	Contents         []content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type apiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithModel overrides the default model name.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at another host (tests, proxies).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// Client posts generateContent requests.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a Gemini client authenticated with apiKey.
func NewClient(apiKey string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		model:   DefaultModel,
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/v1/models/%s:generateContent", c.baseURL, c.model)
}

// Generate sends one single-turn request and returns the text of the first
// candidate's first part.
func (c *Client) Generate(ctx context.Context, parts []Part, cfg GenerationConfig) (string, error) {
	body := payload{
		Contents:         []content{{Parts: parts}},
		GenerationConfig: cfg,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	c.log.Debug("gemini: POST %s (%d bytes)", c.endpoint(), len(jsonData))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("gemini: unmarshal response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	text := result.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	c.log.Debug("gemini: reply (%d chars): %s", len(text), truncate(text, 120))
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
