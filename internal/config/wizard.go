package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .onboarder.yml inside dir.
func RunWizard(dir string) (*Config, error) {
	fmt.Println("Welcome to onboarder! Let's configure the analysis for this repository.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Tree depth.
	depth, err := askInt("Directory tree depth", cfg.Depth)
	if err != nil {
		return nil, fmt.Errorf("depth: %w", err)
	}
	cfg.Depth = depth

	// 2. Items per directory.
	maxItems, err := askInt("Max items listed per directory", cfg.MaxItemsPerDir)
	if err != nil {
		return nil, fmt.Errorf("max items per dir: %w", err)
	}
	cfg.MaxItemsPerDir = maxItems

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the report",
		Default: cfg.Output.Dir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.Output.Dir = outputDir

	// 4. Extra ignore patterns.
	ignorePrompt := promptui.Prompt{
		Label:   "Extra ignore patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	ignoreStr, err := ignorePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("ignore patterns: %w", err)
	}
	cfg.Ignore = append(cfg.Ignore, splitAndTrim(ignoreStr)...)

	// 5. Explainer provider.
	providerPrompt := promptui.Select{
		Label: "LLM explainer",
		Items: []string{"anthropic", "openai", "ollama", "disabled"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	if providerStr == "disabled" {
		cfg.LLM.Enabled = false
	} else {
		cfg.LLM.Provider = ProviderType(providerStr)
		cfg.LLM.Model = DefaultModel(cfg.LLM.Provider)
		if envVar := APIKeyEnvVar(cfg.LLM.Provider); envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment (or a .env file with --load-env) before running onboarder.\n", envVar)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, DefaultFileName)
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

func askInt(label string, def int) (int, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(def),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < 1 {
				return fmt.Errorf("enter a positive number")
			}
			return nil
		},
	}
	out, err := p.Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(out))
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
