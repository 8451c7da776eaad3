// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/interfaces"
	"github.com/bobmcallan/finsim/internal/models"
)

const (
	DefaultModel     = "gemini-2.0-flash"
	DefaultRateLimit = 10 // requests per minute
	DefaultTimeout   = 60 * time.Second
)

// Client implements the Summarizer interface
type Client struct {
	generate func(ctx context.Context, model, prompt string) (string, error)
	model    string
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithRateLimit sets the request budget per minute
func WithRateLimit(perMinute int) ClientOption {
	return func(c *Client) {
		if perMinute > 0 {
			c.limiter = newLimiter(perMinute)
		}
	}
}

// WithTimeout bounds each generation call
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func newLimiter(perMinute int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := newClient(func(ctx context.Context, model, prompt string) (string, error) {
		result, err := genaiClient.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return extractTextFromResponse(result)
	}, opts...)
	return c, nil
}

// NewClientFromConfig creates a client from the [clients.gemini] section
func NewClientFromConfig(ctx context.Context, cfg common.GeminiConfig, logger *common.Logger) (*Client, error) {
	return NewClient(ctx, cfg.APIKey,
		WithModel(cfg.Model),
		WithRateLimit(cfg.RateLimit),
		WithTimeout(cfg.GetTimeout()),
		WithLogger(logger),
	)
}

func newClient(generate func(ctx context.Context, model, prompt string) (string, error), opts ...ClientOption) *Client {
	c := &Client{
		generate: generate,
		model:    DefaultModel,
		timeout:  DefaultTimeout,
		limiter:  newLimiter(DefaultRateLimit),
		logger:   common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.generate(ctx, c.model, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	c.logger.Debug().
		Str("model", c.model).
		Int("prompt_chars", len(prompt)).
		Dur("elapsed", time.Since(start)).
		Msg("Content generated")
	return strings.TrimSpace(text), nil
}

// Summarize writes an analysis of a calculation from its labelled metrics
func (c *Client) Summarize(ctx context.Context, kind models.ReportKind, metrics []models.Metric) (string, error) {
	prompt, err := BuildPrompt(kind, metrics)
	if err != nil {
		return "", err
	}
	return c.GenerateContent(ctx, prompt)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	return sb.String(), nil
}

// Ensure Client implements Summarizer
var _ interfaces.Summarizer = (*Client)(nil)
