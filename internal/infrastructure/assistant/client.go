// Package assistant relays chats to an OpenAI-compatible API.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/logging"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"
	// DefaultTemperature keeps answers focused.
	DefaultTemperature = 0.2

	requestTimeout = 60 * time.Second
)

// ErrEmptyResponse is returned when the API answers without a choice.
var ErrEmptyResponse = errors.New("empty response")

// Client implements port.ChatCompleter with openai-go. Each call builds a
// client for the key it is given; failures are not retried.
type Client struct {
	model       string
	baseURL     string
	temperature float64
	httpClient  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" && !strings.HasSuffix(u, "/") {
			u += "/"
		}
		c.baseURL = u
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		model:       DefaultModel,
		temperature: DefaultTemperature,
		httpClient:  &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured chat model.
func (c *Client) Model() string { return c.model }

func (c *Client) api(apiKey string) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(c.httpClient),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	return openai.NewClient(opts...)
}

// Complete sends messages and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, apiKey string, messages []port.ChatMessage) (string, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("model", c.model).Int("messages", len(messages)).Msg("assistant request")

	client := c.api(apiKey)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    convertMessages(messages),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", describe(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// Verify lists models with apiKey to check that it is accepted.
func (c *Client) Verify(ctx context.Context, apiKey string) error {
	client := c.api(apiKey)
	if _, err := client.Models.List(ctx); err != nil {
		return describe(err)
	}
	return nil
}

func convertMessages(messages []port.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch strings.ToLower(m.Role) {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// describe renders API failures as "HTTP <status>: <text>".
func describe(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	text := strings.TrimSpace(apiErr.Message)
	if text == "" {
		text = http.StatusText(apiErr.StatusCode)
	}
	return fmt.Errorf("HTTP %d: %s", apiErr.StatusCode, text)
}

var _ port.ChatCompleter = (*Client)(nil)
