// Package completion sends a combined health prompt to a remote
// chat-completion endpoint and extracts the answer text.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// Temperature is the sampling temperature sent with every request.
	Temperature = 0.7

	// DefaultAPIKeyHeader carries the API key.
	DefaultAPIKeyHeader = "api-key"

	// DefaultSystemPrompt is the assistant persona.
	DefaultSystemPrompt = `You are a supportive health and fitness assistant. You help the user understand trends in their own health data and suggest practical, encouraging next steps. Answer in plain language. Never mention JSON, data formats, field names, or how the data was provided to you. You are not a doctor; recommend professional advice for anything that looks like a medical concern.`
)

// Fallback answers returned instead of errors.
const (
	networkErrorPrefix = "Network error: "
	noDataAnswer       = "No data returned from the server."
	unusableAnswer     = "Sorry, I couldn't get a usable response. Please try again."
)

// Options configures a Client.
type Options struct {
	Endpoint     string
	APIKey       string
	APIKeyHeader string
	Model        string // optional; omitted from the request when empty
	SystemPrompt string
	Timeout      time.Duration // 0 disables the request deadline
}

// Client talks to a chat-completion endpoint. It never returns errors:
// every failure is turned into a human-readable answer string.
type Client struct {
	opts Options
	http *http.Client
	log  *zap.Logger
}

// New creates a Client. Empty APIKeyHeader and SystemPrompt fall back to
// their defaults.
func New(opts Options, log *zap.Logger) *Client {
	if opts.APIKeyHeader == "" {
		opts.APIKeyHeader = DefaultAPIKeyHeader
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
		log:  log,
	}
}

// chatRequest is the request envelope.
type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// chatMessage is a single message in the request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the response envelope we consume.
type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// firstContent returns the first choice's message content, if present.
func (r chatResponse) firstContent() (string, bool) {
	if len(r.Choices) == 0 {
		return "", false
	}
	msg := r.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return "", false
	}
	return *msg.Content, true
}

// Complete sends prompt as the user message and returns the answer text, or
// a fallback string describing what went wrong.
func (c *Client) Complete(ctx context.Context, prompt string) string {
	body, err := json.Marshal(chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.opts.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: Temperature,
	})
	if err != nil {
		c.log.Error("encoding completion request", zap.Error(err))
		return unusableAnswer
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return networkErrorPrefix + fmt.Sprintf("creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set(c.opts.APIKeyHeader, c.opts.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("completion request failed", zap.Error(err))
		return networkErrorPrefix + err.Error()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warn("reading completion response", zap.Error(err))
		return networkErrorPrefix + err.Error()
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		c.log.Warn("empty completion response", zap.Int("status", resp.StatusCode))
		return noDataAnswer
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.logUnusable(resp.StatusCode, raw, err)
		return unusableAnswer
	}
	answer, ok := parsed.firstContent()
	if !ok {
		c.logUnusable(resp.StatusCode, raw, nil)
		return unusableAnswer
	}
	return answer
}

func (c *Client) logUnusable(status int, raw []byte, err error) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.ByteString("payload", raw),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	c.log.Error("unusable completion response", fields...)
}
