package llm

import (
	"fmt"
	"strings"

	"example.com/fittrack/internal/config"
)

// Provider names accepted in configuration.
const (
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
	ProviderGemini    = "gemini"
)

// NewFromConfig selects the provider client and wraps it with the request limiter.
func NewFromConfig(cfg config.Config) (TextGenerator, error) {
	var gen TextGenerator
	switch strings.ToLower(cfg.LLMProvider) {
	case ProviderAnthropic, "":
		gen = NewMessagesClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL, cfg.LLMTimeout)
	case ProviderGroq:
		gen = NewGroqClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL, cfg.LLMTimeout)
	case ProviderGemini:
		gen = NewGeminiClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
	return NewRateLimited(gen, cfg.LLMRequestsPerMin), nil
}
