// Package briefing turns decoded station weather into a short plain-language
// pilot briefing using a generative model.
package briefing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jordandelaney/METAR-Vibe/internal/weather"
	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
)

// Provider defines the interface for generating briefing text from a prompt
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service renders the briefing prompt and hands it to the provider
type Service struct {
	provider Provider
	logger   *logger.Logger
}

// NewService creates a new briefing service
func NewService(provider Provider, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   log.Named("briefing"),
	}
}

// Briefing generates a briefing for the given station weather
func (s *Service) Briefing(ctx context.Context, data *weather.StationWeather) (string, error) {
	prompt, err := buildPrompt(data)
	if err != nil {
		return "", fmt.Errorf("failed to build briefing prompt: %w", err)
	}

	s.logger.Debug("Generating briefing",
		logger.String("station", data.Station),
		logger.Int("prompt_length", len(prompt)))

	text, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate briefing for %s: %w", data.Station, err)
	}

	return strings.TrimSpace(text), nil
}
