package factory

import (
	"fmt"
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/llm/deepseek"
	"ai-chat-be/pkg/llm/ollama"
)

func NewLLMProvider(cfg config.AIConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "deepseek", "openai":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://api.deepseek.com"
		}
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("LLM_API_KEY is required for provider %q", cfg.Provider)
		}
		return deepseek.NewProvider(baseURL, cfg.APIKey, cfg.Model, time.Duration(cfg.TimeoutSeconds)*time.Second), nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewProvider(baseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
