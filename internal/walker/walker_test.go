package walker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// testdataDir returns the absolute path to the testdata/sample_project directory.
func testdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	root := filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "sample_project")
	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("resolve testdata path: %v", err)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		t.Fatalf("testdata dir does not exist: %s", abs)
	}
	return abs
}

// writeFiles creates the given relative files (with content) under dir.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestWalk_BasicTraversal(t *testing.T) {
	dir := testdataDir(t)

	res, err := Walk(WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	expected := map[string]bool{
		"main.go":             false,
		"server.js":           false,
		"package.json":        false,
		"api/app.py":          false,
		"auth/middleware.go":  false,
		"pages/api/health.ts": false,
	}
	for _, f := range res.Files {
		if _, ok := expected[f.RelPath]; ok {
			expected[f.RelPath] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("expected file %q not found in walk results", name)
		}
	}
	if res.TotalFiles != len(res.Files) {
		t.Errorf("TotalFiles = %d, want %d", res.TotalFiles, len(res.Files))
	}
}

func TestWalk_FileInfoFields(t *testing.T) {
	dir := testdataDir(t)

	res, err := Walk(WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	for _, f := range res.Files {
		if !filepath.IsAbs(f.Path) {
			t.Errorf("FileInfo.Path for %s is not absolute: %s", f.RelPath, f.Path)
		}
		if strings.Contains(f.RelPath, `\`) {
			t.Errorf("FileInfo.RelPath should use forward slashes: %s", f.RelPath)
		}
		if f.Name != filepath.Base(f.Path) {
			t.Errorf("FileInfo.Name = %q, want %q", f.Name, filepath.Base(f.Path))
		}
		if f.Size <= 0 {
			t.Errorf("FileInfo.Size for %s is %d, expected > 0", f.RelPath, f.Size)
		}
		if f.Language == "" {
			t.Errorf("FileInfo.Language for %s is empty", f.RelPath)
		}
		if !f.Scannable {
			t.Errorf("fixture file %s should be scannable", f.RelPath)
		}
	}
}

func TestWalk_DeterministicOrder(t *testing.T) {
	dir := testdataDir(t)

	first, err := Walk(WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	second, err := Walk(WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	a, b := relPaths(first.Files), relPaths(second.Files)
	if strings.Join(a, ",") != strings.Join(b, ",") {
		t.Errorf("walk order differs between runs:\n%v\n%v", a, b)
	}
}

func TestWalk_IgnorePatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"app.js":                          "const x = 1;",
		"node_modules/express/index.js":   "module.exports = {}",
		"web/node_modules/react/index.js": "module.exports = {}",
		"cache.pyc":                       "x",
		"docs/guide.md":                   "# Guide",
		"dist/bundle.js":                  "bundle",
	})

	res, err := Walk(WalkerConfig{
		RootDir: tmpDir,
		Ignore:  []string{"node_modules", "*.pyc", "dist/"},
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	got := strings.Join(relPaths(res.Files), ",")
	if got != "app.js,docs/guide.md" {
		t.Errorf("files = %s, want app.js,docs/guide.md", got)
	}
	if res.TotalDirs != 2 {
		t.Errorf("TotalDirs = %d, want 2 (docs, web)", res.TotalDirs)
	}
}

func TestWalk_SkipExactPaths(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"main.go":                  "package main",
		"onboarding/report.json":   "{}",
		"docs/onboarding/guide.md": "# Guide",
	})

	res, err := Walk(WalkerConfig{RootDir: tmpDir, Skip: []string{"onboarding"}})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	got := strings.Join(relPaths(res.Files), ",")
	if got != "docs/onboarding/guide.md,main.go" {
		t.Errorf("files = %s, want docs/onboarding/guide.md,main.go", got)
	}
}

func TestWalk_Gitignore(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		".gitignore":          "# build output\nbuild/\n*.log\n/coverage.out\ndocs/generated/\n!keep.log\n\n",
		"main.go":             "package main",
		"app.log":             "x",
		"pkg/debug.log":       "x",
		"build/app":           "bin",
		"pkg/build/gen.go":    "package build",
		"coverage.out":        "x",
		"pkg/coverage.out":    "x",
		"docs/generated/a.md": "# A",
		"docs/guide.md":       "# Guide",
		"tools/build":         "file named like the ignored dir",
	})

	res, err := Walk(WalkerConfig{RootDir: tmpDir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	got := strings.Join(relPaths(res.Files), ",")
	want := ".gitignore,docs/guide.md,main.go,pkg/coverage.out,tools/build"
	if got != want {
		t.Errorf("files = %s, want %s", got, want)
	}

	var seq []string
	for fi, err := range Seq(WalkerConfig{RootDir: tmpDir}) {
		if err != nil {
			t.Fatalf("Seq() error: %v", err)
		}
		seq = append(seq, fi.RelPath)
	}
	if strings.Join(seq, ",") != want {
		t.Errorf("Seq files = %s, want %s", strings.Join(seq, ","), want)
	}
}

func TestLoadGitignore(t *testing.T) {
	if rules := loadGitignore(t.TempDir()); rules != nil {
		t.Errorf("missing .gitignore: got %v, want nil", rules)
	}

	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{".gitignore": "  # c\n!x\n/\nvendor/\n/dist\n[unclosed\n"})
	rules := loadGitignore(tmpDir)
	want := []gitignoreRule{
		{pattern: "vendor", dirOnly: true},
		{pattern: "dist", anchored: true},
	}
	if len(rules) != len(want) {
		t.Fatalf("rules = %+v, want %+v", rules, want)
	}
	for i := range want {
		if rules[i] != want[i] {
			t.Errorf("rules[%d] = %+v, want %+v", i, rules[i], want[i])
		}
	}
}

func TestWalk_NotScannable(t *testing.T) {
	tmpDir := t.TempDir()

	binary := make([]byte, 100)
	binary[50] = 0x00
	big := strings.Repeat("A", 200)
	writeFiles(t, tmpDir, map[string]string{
		"readme.md": "# Hello",
		"image.bin": string(binary),
		"big.txt":   big,
	})

	res, err := Walk(WalkerConfig{RootDir: tmpDir, MaxFileSize: 100})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files (counted and listed), got %d", len(res.Files))
	}
	for _, f := range res.Files {
		want := f.RelPath == "readme.md"
		if f.Scannable != want {
			t.Errorf("%s: Scannable = %v, want %v", f.RelPath, f.Scannable, want)
		}
	}
}

func TestWalk_MaxItemsPerDirTruncatesTreeButKeepsCount(t *testing.T) {
	tmpDir := t.TempDir()
	files := make(map[string]string)
	for i := 0; i < 15; i++ {
		files[fmt.Sprintf("big/file%02d.txt", i)] = "x"
	}
	files["small/a.txt"] = "a"
	writeFiles(t, tmpDir, files)

	res, err := Walk(WalkerConfig{RootDir: tmpDir, Depth: 3, MaxItemsPerDir: 10})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if res.TotalFiles != 16 {
		t.Errorf("TotalFiles = %d, want 16", res.TotalFiles)
	}
	if len(res.Files) != 16 {
		t.Errorf("len(Files) = %d, want 16", len(res.Files))
	}

	var big *TreeNode
	for _, c := range res.Tree.Children {
		if c.Name == "big" {
			big = c
		}
	}
	if big == nil {
		t.Fatal("big/ not listed in tree")
	}
	if len(big.Children) != 10 {
		t.Errorf("big/ lists %d children, want 10", len(big.Children))
	}
	if !big.Truncated || big.Omitted != 5 || big.TotalItems != 15 {
		t.Errorf("big/ truncation = (%v, omitted %d, total %d), want (true, 5, 15)",
			big.Truncated, big.Omitted, big.TotalItems)
	}
	if big.FileCount != 15 {
		t.Errorf("big/ FileCount = %d, want 15", big.FileCount)
	}
	if res.Tree.FileCount != 16 {
		t.Errorf("root FileCount = %d, want 16", res.Tree.FileCount)
	}

	text := res.Tree.Render()
	if !strings.Contains(text, "└── ... and 5 more") {
		t.Errorf("rendered tree missing truncation marker:\n%s", text)
	}
	if strings.Contains(text, "file14.txt") {
		t.Errorf("rendered tree should not list omitted file14.txt:\n%s", text)
	}
}

func TestWalk_DepthLimitsTreeOnly(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"a/b/c/deep.go": "package c",
		"top.go":        "package top",
	})

	res, err := Walk(WalkerConfig{RootDir: tmpDir, Depth: 2})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	found := false
	for _, f := range res.Files {
		if f.RelPath == "a/b/c/deep.go" {
			found = true
		}
	}
	if !found {
		t.Error("deep file should still be discovered beyond the tree depth")
	}

	text := res.Tree.Render()
	if !strings.Contains(text, "b/") {
		t.Errorf("tree should list a/b at depth 2:\n%s", text)
	}
	if strings.Contains(text, "c/") {
		t.Errorf("tree should not list a/b/c beyond depth 2:\n%s", text)
	}
}

func TestWalk_HiddenEntriesNotListed(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		".env.example":             "API_KEY=",
		".github/workflows/ci.yml": "on: push",
		"main.go":                  "package main",
	})

	res, err := Walk(WalkerConfig{RootDir: tmpDir, Depth: 3, MaxItemsPerDir: 10})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if len(res.Tree.Children) != 1 || res.Tree.Children[0].Name != "main.go" {
		t.Errorf("tree should list only main.go, got %+v", res.Tree.Children)
	}
	if len(res.Files) != 3 {
		t.Errorf("hidden files should still be discovered, got %v", relPaths(res.Files))
	}
}

func TestWalk_UnreadableDirectoryIsWarning(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"ok.go":       "package ok",
		"locked/x.go": "package x",
	})
	locked := filepath.Join(tmpDir, "locked")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	res, err := Walk(WalkerConfig{RootDir: tmpDir, Depth: 3})
	if err != nil {
		t.Fatalf("Walk() should not fail on unreadable dirs: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "locked") {
		t.Errorf("expected one warning about locked/, got %v", res.Warnings)
	}
	if len(res.Files) != 1 {
		t.Errorf("expected only ok.go, got %v", relPaths(res.Files))
	}
}

func TestWalk_RootErrors(t *testing.T) {
	if _, err := Walk(WalkerConfig{RootDir: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected error for missing root")
	}

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Walk(WalkerConfig{RootDir: file})
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory, got %v", err)
	}
}

func TestSeq_MatchesWalk(t *testing.T) {
	dir := testdataDir(t)
	cfg := WalkerConfig{RootDir: dir, Depth: 1, MaxItemsPerDir: 2}

	res, err := Walk(cfg)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	var seq []FileInfo
	for f, err := range Seq(cfg) {
		if err != nil {
			t.Fatalf("Seq() error: %v", err)
		}
		seq = append(seq, f)
	}

	if strings.Join(relPaths(seq), ",") != strings.Join(relPaths(res.Files), ",") {
		t.Errorf("Seq and Walk disagree:\n%v\n%v", relPaths(seq), relPaths(res.Files))
	}
}

func TestSeq_EarlyStop(t *testing.T) {
	dir := testdataDir(t)

	n := 0
	for _, err := range Seq(WalkerConfig{RootDir: dir}) {
		if err != nil {
			t.Fatalf("Seq() error: %v", err)
		}
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("expected to stop after 2 files, got %d", n)
	}
}

func TestSeq_RootError(t *testing.T) {
	for _, err := range Seq(WalkerConfig{RootDir: filepath.Join(t.TempDir(), "missing")}) {
		if err == nil {
			t.Error("expected an error for a missing root")
		}
	}
}

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		name, rel string
		want      bool
	}{
		{"walker_test.go", "internal/walker/walker_test.go", true},
		{"test_app.py", "test_app.py", true},
		{"app.test.ts", "src/app.test.ts", true},
		{"button.spec.jsx", "src/button.spec.jsx", true},
		{"helpers.js", "tests/helpers.js", true},
		{"util.js", "src/__tests__/util.js", true},
		{"main.go", "main.go", false},
		{"latest.js", "src/latest.js", false},
		{"contest.py", "contest.py", false},
	}
	for _, tt := range tests {
		if got := isTestFile(tt.name, tt.rel); got != tt.want {
			t.Errorf("isTestFile(%q, %q) = %v, want %v", tt.name, tt.rel, got, tt.want)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		file, want string
	}{
		{"main.go", "Go"},
		{"app.PY", "Python"},
		{"index.tsx", "TypeScript"},
		{"server.mjs", "JavaScript"},
		{"Dockerfile", "Dockerfile"},
		{"Gemfile", "Ruby"},
		{"notes.txt", "unknown"},
		{"LICENSE", "unknown"},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.file); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestIsProgrammingLanguage(t *testing.T) {
	for _, lang := range []string{"Go", "Python", "Rust"} {
		if !IsProgrammingLanguage(lang) {
			t.Errorf("%s should be a programming language", lang)
		}
	}
	for _, lang := range []string{"JSON", "Markdown", "unknown", ""} {
		if IsProgrammingLanguage(lang) {
			t.Errorf("%q should not be a programming language", lang)
		}
	}
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		rel      string
		patterns []string
		want     bool
	}{
		{"node_modules", []string{"node_modules"}, true},
		{"web/node_modules", []string{"node_modules"}, true},
		{"pkg/cache.pyc", []string{"*.pyc"}, true},
		{"src/gen/types.go", []string{"src/gen/**"}, true},
		{"src/gen", []string{"src/gen"}, true},
		{"other/gen", []string{"src/gen"}, false},
		{"build", []string{"build/"}, true},
		{"main.go", []string{"*.py"}, false},
		{"main.go", nil, false},
	}
	for _, tt := range tests {
		if got := MatchesAny(tt.rel, tt.patterns); got != tt.want {
			t.Errorf("MatchesAny(%q, %v) = %v, want %v", tt.rel, tt.patterns, got, tt.want)
		}
	}
}

func TestValidatePatterns(t *testing.T) {
	if _, ok := ValidatePatterns([]string{"*.go", "**/vendor"}); !ok {
		t.Error("valid patterns reported invalid")
	}
	if bad, ok := ValidatePatterns([]string{"*.go", "[abc"}); ok || bad != "[abc" {
		t.Errorf("ValidatePatterns = (%q, %v), want ([abc, false)", bad, ok)
	}
}

func TestTopLevel(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"api/a.py":   "",
		"api/b.py":   "",
		"api/c.py":   "",
		"api/d.py":   "",
		"web/app.js": "",
		"root.txt":   "",
	})
	res, err := Walk(WalkerConfig{RootDir: tmpDir, Depth: 3, MaxItemsPerDir: 10})
	if err != nil {
		t.Fatal(err)
	}
	dirs, files := res.Tree.TopLevel(3)
	if strings.Join(dirs, ",") != "api,web" {
		t.Errorf("dirs = %v", dirs)
	}
	if strings.Join(files["api"], ",") != "a.py,b.py,c.py" {
		t.Errorf("api files = %v", files["api"])
	}
}
