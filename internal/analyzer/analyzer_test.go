package analyzer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/repo-onboarder/internal/config"
	"github.com/ziadkadry99/repo-onboarder/internal/entrypoints"
	"github.com/ziadkadry99/repo-onboarder/internal/integrations"
	"github.com/ziadkadry99/repo-onboarder/internal/routes"
)

const sampleProject = "../../testdata/sample_project"

func newAnalyzer(t *testing.T, cfg *config.Config) *Analyzer {
	t.Helper()
	a, err := New(cfg, nil)
	require.NoError(t, err)
	return a
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
}

func TestAnalyze_SampleProject(t *testing.T) {
	sum, err := newAnalyzer(t, config.DefaultConfig()).Analyze(context.Background(), sampleProject)
	require.NoError(t, err)

	assert.Equal(t, "sample_project", sum.Name)
	assert.Equal(t, Counts{Files: 13, Dirs: 8, Scanned: 13}, sum.Counts)
	assert.Empty(t, sum.Warnings)

	assert.Equal(t, []routes.Route{
		{Method: "GET", Path: "/api/users", Framework: "express", File: "server.js", Line: 8},
		{Method: "POST", Path: "/api/orders", Framework: "express", File: "server.js", Line: 12},
		{Method: "GET", Path: "/items", Framework: "flask", File: "api/app.py", Line: 10},
		{Method: "GET", Path: "/ping", Framework: "flask", File: "api/app.py", Line: 15},
		{Method: "POST", Path: "/items", Framework: "flask", File: "api/app.py", Line: 10},
		{Method: "ANY", Path: "/api/health", Framework: "net/http", File: "main.go", Line: 12},
		{Method: "ANY", Path: "/api/users", Framework: "net/http", File: "main.go", Line: 11},
		{Method: "ANY", Path: "/api/health", Framework: "nextjs", File: "pages/api/health.ts", Line: 1},
		{Method: "DELETE", Path: "/users/:id", Framework: "nextjs", File: "app/users/[id]/route.ts", Line: 5},
		{Method: "GET", Path: "/users/:id", Framework: "nextjs", File: "app/users/[id]/route.ts", Line: 1},
	}, sum.Routes)

	assert.Equal(t, []integrations.Integration{
		{Kind: integrations.KindSDK, Value: "redis", Service: "Redis", File: "api/app.py", Line: 3},
		{Kind: integrations.KindEnv, Value: "REDIS_URL", Service: "Redis", File: "api/app.py", Line: 7},
		{Kind: integrations.KindEnv, Value: "PORT", File: "main.go", Line: 14},
		{Kind: integrations.KindSDK, Value: "stripe", Service: "Stripe", File: "server.js", Line: 2},
		{Kind: integrations.KindEnv, Value: "STRIPE_SECRET_KEY", Service: "Stripe", File: "server.js", Line: 6},
		{Kind: integrations.KindHostname, Value: "api.github.com", Service: "GitHub", File: "server.js", Line: 13},
		{Kind: integrations.KindEnv, Value: "PORT", File: "server.js", Line: 18},
	}, sum.Integrations)

	assert.Equal(t, []string{"Redis", "Sentry", "Stripe"}, sum.Stack.Externals)
	assert.Equal(t, []string{"Express.js", "Flask", "Next.js", "React"}, sum.Stack.Frameworks)

	var systems []string
	for _, s := range sum.Systems {
		systems = append(systems, s.Name)
	}
	assert.Equal(t, []string{integrations.EnvSystemName, "GitHub", "Redis", "Sentry", "Stripe"}, systems)
	assert.Equal(t, "Variables: PORT, REDIS_URL, STRIPE_SECRET_KEY", sum.Systems[0].Description)

	assert.Equal(t, []entrypoints.EntryPoint{
		{Path: "main.go", Reason: "conventional file name"},
		{Path: "scripts/deploy.sh", Reason: "shebang"},
		{Path: "server.js", Reason: "package.json main"},
	}, sum.EntryPoints)

	assert.Len(t, sum.KeyFiles, 13)
	assert.Zero(t, sum.RolesOmitted)
	assert.Contains(t, sum.TreeText, "├── api/")
	assert.Empty(t, sum.Explainer)
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := newAnalyzer(t, config.DefaultConfig())
	first, err := a.Analyze(context.Background(), sampleProject)
	require.NoError(t, err)
	second, err := newAnalyzer(t, config.DefaultConfig()).Analyze(context.Background(), sampleProject)
	require.NoError(t, err)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
}

func TestAnalyze_RootErrors(t *testing.T) {
	a := newAnalyzer(t, nil)

	_, err := a.Analyze(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrRootNotFound)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = a.Analyze(context.Background(), file)
	assert.ErrorIs(t, err, ErrRootNotFound)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RoutesFrameworks = []string{"express", "rails"}
	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.ErrorContains(t, err, "rails")

	cfg = config.DefaultConfig()
	cfg.Ignore = []string{"[unclosed"}
	_, err = New(cfg, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestAnalyze_OutputDirExcluded(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.js":                 "app.get('/health', h)\n",
		"onboarding/report.json": `{"url": "https://api.stripe.com"}`,
		"onboarding/templates/x": "x",
	})
	a := newAnalyzer(t, config.DefaultConfig())
	a.SetOutputDir(filepath.Join(root, "onboarding"))

	sum, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Counts.Files)
	assert.Zero(t, sum.Counts.Dirs)
	assert.Empty(t, sum.Integrations)
	assert.Len(t, sum.Routes, 1)
}

func TestOutputRel(t *testing.T) {
	root := t.TempDir()

	_, ok := OutputRel(root, t.TempDir())
	assert.False(t, ok)
	_, ok = OutputRel(root, root)
	assert.False(t, ok)
	_, ok = OutputRel(root, "")
	assert.False(t, ok)

	rel, ok := OutputRel(root, filepath.Join(root, "docs", "onboarding"))
	assert.True(t, ok)
	assert.Equal(t, "docs/onboarding", rel)
}

func TestAnalyze_EmptyRepoHasEmptyLists(t *testing.T) {
	sum, err := newAnalyzer(t, nil).Analyze(context.Background(), t.TempDir())
	require.NoError(t, err)

	data, err := json.Marshal(sum)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{"entrypoints", "routes", "integrations", "systems", "key_files", "warnings"} {
		assert.Equal(t, []any{}, m[key], key)
	}
}

func TestAnalyze_NoRoutesWhenNoFrameworkPatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":   "# Notes\n",
		"lib/util.js": "module.exports = (a, b) => a + b;\n",
	})
	sum, err := newAnalyzer(t, nil).Analyze(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, sum.Routes)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newAnalyzer(t, nil).Analyze(ctx, sampleProject)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_MalformedManifestIsWarning(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json": "{not json",
		"index.js":     "console.log('hi')\n",
	})
	sum, err := newAnalyzer(t, nil).Analyze(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, sum.Warnings, 1)
	assert.Contains(t, sum.Warnings[0], "package.json")
	assert.Equal(t, []string{"JavaScript/TypeScript"}, sum.Stack.Languages)
}
