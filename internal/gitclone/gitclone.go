// Package gitclone fetches a GitHub repository into a temporary directory
// so it can be analyzed like a local checkout.
package gitclone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	httpsPrefix = "https://github.com/"
	sshPrefix   = "git@github.com:"
)

// ErrInvalidURL is returned for references that do not name a GitHub
// repository.
var ErrInvalidURL = errors.New("invalid GitHub repository reference")

// segmentRe matches a GitHub owner or repository name.
var segmentRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// IsGitHubURL reports whether s is an https or ssh GitHub remote.
func IsGitHubURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, httpsPrefix) || strings.HasPrefix(s, sshPrefix)
}

// Normalize returns the https clone URL and repository name for a GitHub
// reference. It accepts https and ssh remotes, "github.com/owner/repo" and
// the "owner/repo" shorthand. SSH remotes are rewritten to https, ".git"
// is always appended, and extra path segments such as "/tree/main" are
// dropped.
func Normalize(raw string) (cloneURL, name string, err error) {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, sshPrefix):
		s = strings.TrimPrefix(s, sshPrefix)
	case strings.HasPrefix(s, httpsPrefix):
		s = strings.TrimPrefix(s, httpsPrefix)
	case strings.HasPrefix(s, "github.com/"):
		s = strings.TrimPrefix(s, "github.com/")
	case strings.Contains(s, "://"), strings.HasPrefix(s, "/"), strings.HasPrefix(s, "."):
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	owner, repo := parts[0], strings.TrimSuffix(parts[1], ".git")
	for _, seg := range []string{owner, repo} {
		if !segmentRe.MatchString(seg) || seg == "." || seg == ".." {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
		}
	}
	return httpsPrefix + owner + "/" + repo + ".git", repo, nil
}

// runGit runs git with prompts disabled. Replaced in tests.
var runGit = func(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Checkout is a shallow clone in a temporary directory.
type Checkout struct {
	URL  string // Normalized clone URL.
	Name string // Repository name.
	Dir  string // Working tree.
	tmp  string
}

// Close removes the checkout.
func (c *Checkout) Close() error {
	return os.RemoveAll(c.tmp)
}

// Clone shallow-clones the repository named by raw into a new temporary
// directory. The caller must Close the returned Checkout.
func Clone(ctx context.Context, raw string, logger *slog.Logger) (*Checkout, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	url, name, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp("", "onboarder_"+name+"_")
	if err != nil {
		return nil, fmt.Errorf("create clone directory: %w", err)
	}
	dir := filepath.Join(tmp, name)

	logger.Info("cloning repository", "url", url, "dir", dir)
	if err := runGit(ctx, "clone", "--depth", "1", "--quiet", url, dir); err != nil {
		os.RemoveAll(tmp)
		return nil, fmt.Errorf("clone %s: %w", url, err)
	}
	return &Checkout{URL: url, Name: name, Dir: dir, tmp: tmp}, nil
}
