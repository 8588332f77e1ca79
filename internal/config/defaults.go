package config

import "time"

// DefaultFileName is the config file looked up in the analyzed repository.
const DefaultFileName = ".onboarder.yml"

// DefaultIgnore are the patterns skipped during traversal unless overridden.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	".venv",
	"__pycache__",
	"dist",
	"build",
	"out",
	"target",
	"coverage",
	".next",
	".turbo",
	".mypy_cache",
	".pytest_cache",
	".DS_Store",
	"*.pyc",
	"*.pyo",
}

// DefaultRoutesFrameworks lists the route detectors enabled by default.
var DefaultRoutesFrameworks = []string{"express", "flask", "fastapi", "django", "nextjs", "go"}

// defaultModels maps each provider to the model used when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderAnthropic: "claude-3-haiku-20240307",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderOllama:    "llama3",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Depth:            3,
		MaxItemsPerDir:   10,
		MaxFileSize:      100_000,
		Ignore:           append([]string(nil), DefaultIgnore...),
		RoutesFrameworks: append([]string(nil), DefaultRoutesFrameworks...),
		Output: OutputConfig{
			Dir: "onboarding",
		},
		LLM: LLMConfig{
			Enabled:   true,
			Provider:  ProviderAnthropic,
			Model:     defaultModels[ProviderAnthropic],
			MaxTokens: 1000,
			Timeout:   60 * time.Second,
		},
	}
}

// DefaultModel returns the model used for the given provider when the
// config does not name one.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderAnthropic]
}
