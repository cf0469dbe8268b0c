package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"
)

// Config is the full environment configuration for the portal.
type Config struct {
	Port        int    `env:"PORT,default=8080"`
	DatabaseURL string `env:"DATABASE_URL,default=host=localhost user=postgres password=password dbname=ideahub port=5432 sslmode=disable"`

	// Search API (Tavily-compatible)
	TavilyAPIKey  string `env:"TAVILY_API_KEY"`
	TavilyBaseURL string `env:"TAVILY_BASE_URL,default=https://api.tavily.com"`

	// LLM providers: Gemini preferred, OpenAI-compatible endpoint as fallback
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL,default=gemini-2.5-flash"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL,default=https://api.deepseek.com/v1"`
	OpenAIModel   string `env:"OPENAI_MODEL,default=deepseek-chat"`

	// Background auto-scoring of submitted ideas
	ScoreWatcherEnabled  bool `env:"SCORE_WATCHER_ENABLED,default=true"`
	ScoreIntervalMinutes int  `env:"SCORE_INTERVAL_MINUTES,default=15"`

	// Company research cache TTL in hours
	CompanyCacheTTLHours int `env:"COMPANY_CACHE_TTL_HOURS,default=24"`
}

// Load decodes the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// HasLLM reports whether at least one LLM provider is configured.
func (c *Config) HasLLM() bool {
	return c.GeminiAPIKey != "" || c.OpenAIAPIKey != ""
}
