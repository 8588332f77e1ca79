package config

import (
	"path/filepath"
	"time"
)

// ProviderType identifies an LLM provider used by the explainer.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderOllama    ProviderType = "ollama"
)

// Config is the top-level onboarder configuration, corresponding to .onboarder.yml.
type Config struct {
	Depth            int          `yaml:"depth" koanf:"depth"`
	MaxItemsPerDir   int          `yaml:"max_items_per_dir" koanf:"max_items_per_dir"`
	MaxFileSize      int64        `yaml:"max_file_size" koanf:"max_file_size"`
	Ignore           []string     `yaml:"ignore" koanf:"ignore"`
	RoutesFrameworks []string     `yaml:"routes_frameworks" koanf:"routes_frameworks"`
	Output           OutputConfig `yaml:"output" koanf:"output"`
	LLM              LLMConfig    `yaml:"llm" koanf:"llm"`
}

// OutputConfig controls where report artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir" koanf:"dir"`
}

// Path resolves Dir for the repository at root. An absolute Dir is used
// as-is; a relative one is joined to root.
func (o OutputConfig) Path(root string) string {
	if filepath.IsAbs(o.Dir) {
		return filepath.Clean(o.Dir)
	}
	return filepath.Join(root, o.Dir)
}

// LLMConfig holds explainer settings.
type LLMConfig struct {
	Enabled   bool          `yaml:"enabled" koanf:"enabled"`
	Provider  ProviderType  `yaml:"provider" koanf:"provider"`
	Model     string        `yaml:"model" koanf:"model"`
	MaxTokens int           `yaml:"max_tokens" koanf:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout" koanf:"timeout"`
}
