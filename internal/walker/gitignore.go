package walker

import (
	"bufio"
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreFile is read from the walk root.
const GitignoreFile = ".gitignore"

// gitignoreRule is one usable line of a .gitignore file.
type gitignoreRule struct {
	pattern  string
	dirOnly  bool // Trailing "/": matches directories only.
	anchored bool // Contains a slash: matched against the full relative path.
}

// loadGitignore reads the .gitignore at root. Comments, blank lines,
// negations and patterns doublestar cannot compile are dropped. A missing
// file yields no rules.
func loadGitignore(root string) []gitignoreRule {
	data, err := os.ReadFile(filepath.Join(root, GitignoreFile))
	if err != nil {
		return nil
	}

	var rules []gitignoreRule
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		r := gitignoreRule{pattern: line}
		if strings.HasSuffix(r.pattern, "/") {
			r.dirOnly = true
			r.pattern = strings.TrimRight(r.pattern, "/")
		}
		if strings.Contains(r.pattern, "/") {
			r.anchored = true
			r.pattern = strings.TrimPrefix(r.pattern, "/")
		}
		if r.pattern == "" || !doublestar.ValidatePattern(r.pattern) {
			continue
		}
		rules = append(rules, r)
	}
	return rules
}

// matchesGitignore reports whether relPath is excluded by rules. Rules are
// checked at every level before descending, so an unanchored pattern only
// needs to match the base name.
func matchesGitignore(relPath string, isDir bool, rules []gitignoreRule) bool {
	base := path.Base(relPath)
	for _, r := range rules {
		if r.dirOnly && !isDir {
			continue
		}
		target := base
		if r.anchored {
			target = relPath
		}
		if matched, _ := doublestar.Match(r.pattern, target); matched {
			return true
		}
	}
	return false
}
