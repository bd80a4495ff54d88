// Package gemini implements the generation collaborator interfaces using
// Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"google.golang.org/genai"

	"github.com/calewis/retell-api/internal/config"
	"github.com/calewis/retell-api/internal/generation"
)

// Client wraps the Gemini API client with retry handling shared by all
// three collaborator implementations in this package.
type Client struct {
	logger *slog.Logger
	config config.LLMConfig
	genai  *genai.Client
	model  string
}

// NewClient creates a Gemini client from the LLM configuration.
// Returns generation.ErrInvalidConfig when required settings are missing.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Client{
		logger: logger.With(slog.String("component", "gemini")),
		config: cfg,
		genai:  client,
		model:  cfg.ModelName,
	}, nil
}

// generateText calls the Gemini API with exponential backoff and jitter.
// Transient failures are retried up to config.MaxRetries times; permanent
// errors (safety blocks, unparseable responses) return immediately.
func (c *Client) generateText(ctx context.Context, prompt string, jsonOutput bool) (string, error) {
	maxRetries := c.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := c.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	var genCfg *genai.GenerateContentConfig
	if jsonOutput {
		genCfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		c.logger.InfoContext(ctx, "calling Gemini API",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1)

		text, err := c.generateOnce(ctx, prompt, genCfg)
		if err == nil {
			return text, nil
		}

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			c.logger.WarnContext(ctx, "permanent Gemini error, not retrying", "error", err)
			return "", err
		}

		if attempt >= maxRetries {
			c.logger.WarnContext(ctx, "maximum retry attempts reached", "max_retries", maxRetries)
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delaySeconds := backoffSeconds * (0.5 + rng.Float64()*0.5)
		delay := time.Duration(delaySeconds * float64(time.Second))

		c.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attempt+1,
			"delay_seconds", delaySeconds)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: cancelled during retry delay: %v",
				generation.ErrTransientFailure, ctx.Err())
		}
	}
}

func (c *Client) generateOnce(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		// API-level failures are assumed transient; the retry loop bounds them.
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response stopped by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}

	return text, nil
}
