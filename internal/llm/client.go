package llm

import (
	"context"
	"fmt"
	"net/http"
)

// Client is an abstraction over chat-completion providers. The credential is supplied per
// call because it belongs to the candidate's session, not to the process.
type Client interface {
	// Complete sends prompt as a single user message and returns the raw assistant text.
	Complete(ctx context.Context, prompt, credential string, tier ModelTier) (string, error)
	// GetModel returns the provider model used for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(config *Config, httpClient *http.Client) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGroq, ProviderOpenAI, "":
		return NewChatCompletionsClient(config, httpClient), nil
	case ProviderGemini:
		return NewGeminiClient(config), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}
