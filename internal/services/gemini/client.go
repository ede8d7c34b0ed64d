// Package gemini wraps the Google Generative Language generateContent REST
// endpoint used to produce meeting summaries.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"meetnotes/internal/services"
)

const (
	defaultBaseURL        = "https://generativelanguage.googleapis.com"
	defaultModel          = "gemini-1.5-flash"
	defaultHTTPTimeout    = 60 * time.Second
	defaultTemperature    = 0.7
	defaultTopP           = 0.8
	defaultTopK           = 40
	defaultMaxOutputToken = 2048

	// PlaceholderSummary is substituted when a 2xx response carries no
	// generated text. A recovery, not a failure.
	PlaceholderSummary = "No summary generated."
)

// Config captures the runtime settings required to talk to the generation API.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	TimeoutSeconds  int
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// Client issues generateContent requests against the Gemini REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
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
			c.cfg.BaseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a Gemini API client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:          strings.TrimSpace(cfg.APIKey),
			BaseURL:         strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:           strings.TrimSpace(cfg.Model),
			TimeoutSeconds:  cfg.TimeoutSeconds,
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	if client.cfg.Temperature <= 0 {
		client.cfg.Temperature = defaultTemperature
	}
	if client.cfg.TopP <= 0 {
		client.cfg.TopP = defaultTopP
	}
	if client.cfg.TopK <= 0 {
		client.cfg.TopK = defaultTopK
	}
	if client.cfg.MaxOutputTokens <= 0 {
		client.cfg.MaxOutputTokens = defaultMaxOutputToken
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type requestContent struct {
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []contentPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiErrorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateContent sends the prompt to the model and returns the first
// generated text fragment. A single attempt is made per call; failures are
// tagged with the services taxonomy so the API boundary can classify them.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", services.Wrap(services.ErrValidation, "prompt required", nil)
	}
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrInternal, "Gemini API key is not configured", nil)
	}

	payload := generateRequest{
		Contents: []requestContent{{Parts: []contentPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.cfg.Temperature,
			TopP:            c.cfg.TopP,
			TopK:            c.cfg.TopK,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrInternal, "encode generation request", err)
	}

	endpoint, err := c.endpoint()
	if err != nil {
		return "", services.Wrap(services.ErrInternal, "build generation URL", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrInternal, "build generation request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", upstreamStatusError(resp.StatusCode, body)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", services.Wrap(services.ErrUpstream, "Google API returned an unparseable response", err)
	}
	return extractSummary(parsed), nil
}

func (c *Client) endpoint() (string, error) {
	joined, err := url.JoinPath(c.cfg.BaseURL, "/v1beta/models/", c.cfg.Model+":generateContent")
	if err != nil {
		return "", err
	}
	return joined + "?key=" + url.QueryEscape(c.cfg.APIKey), nil
}

// extractSummary pulls the first text fragment out of the nested candidate
// structure, substituting the placeholder when the shape is unexpected.
func extractSummary(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return PlaceholderSummary
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return PlaceholderSummary
	}
	if parts[0].Text == "" {
		return PlaceholderSummary
	}
	return parts[0].Text
}

func upstreamStatusError(status int, body []byte) error {
	detail := fmt.Sprintf("Google API error: %d", status)
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && strings.TrimSpace(parsed.Error.Message) != "" {
		detail += " - " + strings.TrimSpace(parsed.Error.Message)
	} else if snippet := bodySnippet(body); snippet != "" {
		detail += " - " + snippet
	}
	return services.Wrap(services.ErrUpstream, detail, nil)
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrUpstreamTimeout, "AI service timeout. Please try again.", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return services.Wrap(services.ErrUpstreamTimeout, "AI service timeout. Please try again.", err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return services.Wrap(services.ErrUpstreamTimeout, "AI service timeout. Please try again.", err)
	}
	return services.Wrap(services.ErrUpstreamUnavailable, fmt.Sprintf("AI service unavailable: %v", err), err)
}

func bodySnippet(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	const limit = 200
	runes := []rune(trimmed)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return trimmed
}
