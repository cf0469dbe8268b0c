package services

import (
	"context"
	"fmt"
	"log"

	"github.com/augentlabs/innovation-hub/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator is the single-prompt LLM surface the agents depend on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMService wraps the configured model. Gemini is preferred; any
// OpenAI-compatible endpoint (DeepSeek by default) is the fallback.
type LLMService struct {
	Client   llms.Model
	Provider string
}

// NewLLMService initializes whichever provider has credentials.
func NewLLMService(ctx context.Context, cfg *config.Config) (*LLMService, error) {
	if cfg.GeminiAPIKey != "" {
		llm, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.GeminiModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create Gemini client: %w", err)
		}
		log.Printf("✅ LLM ready: Gemini (%s)", cfg.GeminiModel)
		return &LLMService{Client: llm, Provider: "gemini"}, nil
	}

	if cfg.OpenAIAPIKey != "" {
		llm, err := openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithBaseURL(cfg.OpenAIBaseURL),
			openai.WithModel(cfg.OpenAIModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create OpenAI-compatible client: %w", err)
		}
		log.Printf("✅ LLM ready: %s via %s", cfg.OpenAIModel, cfg.OpenAIBaseURL)
		return &LLMService{Client: llm, Provider: "openai"}, nil
	}

	return nil, fmt.Errorf("no LLM credentials configured (GEMINI_API_KEY or OPENAI_API_KEY)")
}

// Generate runs a single prompt and returns the raw completion text.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return "", err
	}
	return resp, nil
}
