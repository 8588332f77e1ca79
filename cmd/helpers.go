package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/ziadkadry99/repo-onboarder/internal/config"
)

// newLogger returns a text logger on w. --verbose enables debug output.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads path, or .onboarder.yml inside root when path is
// empty, and validates the result.
func loadConfig(path, root string) (*config.Config, error) {
	if path == "" {
		path = filepath.Join(root, config.DefaultFileName)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `onboarder init` to create a config file", err)
	}
	return cfg, nil
}

// loadEnv loads .env from the working directory and then from root.
// Variables already set are never overwritten and missing files are skipped.
func loadEnv(root string) ([]string, error) {
	var loaded []string
	for _, path := range []string{".env", filepath.Join(root, ".env")} {
		if containsPath(loaded, path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("loading %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

func containsPath(paths []string, path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, p := range paths {
		if pa, err := filepath.Abs(p); err == nil && pa == abs {
			return true
		}
	}
	return false
}
