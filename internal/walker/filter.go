package walker

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchesAny reports whether relPath matches any of the glob patterns.
// A pattern matches when it matches the whole slash-separated relative path,
// the base name, or (for patterns without a slash) any single path segment,
// so "node_modules" excludes nested dependency directories too.
func MatchesAny(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	base := path.Base(relPath)
	for _, pattern := range patterns {
		pattern = strings.TrimSuffix(strings.TrimSpace(pattern), "/")
		if pattern == "" {
			continue
		}
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if strings.Contains(pattern, "/") {
			continue
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// ValidatePatterns returns the first pattern that is not a valid glob.
func ValidatePatterns(patterns []string) (string, bool) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return p, false
		}
	}
	return "", true
}
