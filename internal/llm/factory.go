package llm

import (
	"errors"
	"fmt"
	"os"

	"github.com/ziadkadry99/repo-onboarder/internal/config"
)

// ErrMissingAPIKey is returned when a hosted provider has no API key in
// the environment.
var ErrMissingAPIKey = errors.New("API key not set")

// DefaultOllamaHost is used when OLLAMA_HOST is unset.
const DefaultOllamaHost = "http://localhost:11434"

// NewProvider creates the provider named by providerType. API keys and
// hosts come from the environment variables named by config.APIKeyEnvVar
// and OLLAMA_HOST.
func NewProvider(providerType config.ProviderType, model string) (Provider, error) {
	switch providerType {
	case config.ProviderAnthropic, config.ProviderOpenAI:
		env := config.APIKeyEnvVar(providerType)
		apiKey := os.Getenv(env)
		if apiKey == "" {
			return nil, fmt.Errorf("%s: %w (set %s)", providerType, ErrMissingAPIKey, env)
		}
		if providerType == config.ProviderAnthropic {
			return NewAnthropicProvider(apiKey, model), nil
		}
		return NewOpenAIProvider(apiKey, model, os.Getenv("OPENAI_BASE_URL")), nil

	case config.ProviderOllama:
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %q", providerType)
	}
}
