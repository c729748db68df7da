// Package llm is a thin client for the hosted chat-completion service.
// The provider speaks the OpenAI wire protocol, so both website
// selection and answer synthesis go through the same single-turn
// Complete call. Completions are free-form text; callers parse them
// best-effort and must never assume structured output.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Request is one single-turn completion request.
type Request struct {
	Prompt      string
	Temperature float64
	MaxTokens   int64
}

// Client sends a prompt and returns the raw completion text.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config configures the hosted completion client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func (c *Config) defaults() {
	if c.Model == "" {
		c.Model = "llama-4-scout-17b-16e-instruct"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

type hostedClient struct {
	api     openai.Client
	model   string
	timeout time.Duration
}

// New creates a Client for the configured OpenAI-compatible endpoint.
func New(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: API key is required")
	}
	cfg.defaults()

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &hostedClient{
		api:     openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (c *hostedClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llm: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
