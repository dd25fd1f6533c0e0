// Package gemini implements the briefing provider on the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
)

const maxOutputTokens = 512

// Client represents a Google Gemini API client
type Client struct {
	genai  *genai.Client
	model  string
	logger *logger.Logger
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey, model string, log *logger.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		genai:  client,
		model:  model,
		logger: log.Named("gemini"),
	}, nil
}

// Generate sends the prompt to the model and returns its text response
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("Requesting completion",
		logger.String("model", c.model),
		logger.Int("prompt_length", len(prompt)))

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	return text, nil
}
