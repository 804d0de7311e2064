// Package openai adapts the OpenAI chat completions API to ports.Completer.
package openai

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/aretw0/valet/pkg/ports"
)

// DefaultModel is used when no model is configured. Intent extraction is a
// small classification task; the cheapest chat model handles it.
const DefaultModel = string(sdk.ChatModelGPT5Nano)

// Completer implements ports.Completer against the OpenAI API, or any
// API-compatible gateway via WithBaseURL.
type Completer struct {
	client  sdk.Client
	model   string
	baseURL string
}

type Option func(*Completer)

// WithModel selects the chat model.
func WithModel(model string) Option {
	return func(c *Completer) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint
// (local gateway, proxy, test server).
func WithBaseURL(url string) Option {
	return func(c *Completer) {
		c.baseURL = url
	}
}

// New creates a Completer authenticated with the given API key.
func New(apiKey string, opts ...Option) *Completer {
	c := &Completer{model: DefaultModel}
	for _, opt := range opts {
		opt(c)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if c.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(c.baseURL))
	}
	c.client = sdk.NewClient(reqOpts...)
	return c
}

// Complete implements ports.Completer.
func (c *Completer) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(prompt.System),
			sdk.UserMessage(prompt.User),
		},
		Model: sdk.ChatModel(c.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", errors.New("empty message content")
	}
	return content, nil
}

// Model returns the configured chat model.
func (c *Completer) Model() string {
	return c.model
}
