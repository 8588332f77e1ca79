package entrypoints

import (
	"errors"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/repo-onboarder/internal/content"
	"github.com/ziadkadry99/repo-onboarder/internal/manifest"
	"github.com/ziadkadry99/repo-onboarder/internal/walker"
)

type mapReader map[string]string

func (m mapReader) Read(p string) ([]byte, error) {
	s, ok := m[p]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(s), nil
}

func files(paths ...string) []walker.FileInfo {
	out := make([]walker.FileInfo, 0, len(paths))
	for _, p := range paths {
		out = append(out, walker.FileInfo{Path: "/repo/" + p, RelPath: p, Name: path.Base(p), Scannable: true, Size: 100})
	}
	return out
}

func TestFind_SampleProject(t *testing.T) {
	res, err := walker.Walk(walker.WalkerConfig{RootDir: "../../testdata/sample_project", Depth: 3, MaxItemsPerDir: 10})
	require.NoError(t, err)
	store, err := content.NewStore(content.DefaultEntries, walker.DefaultMaxFileSize)
	require.NoError(t, err)
	manifests, warnings := manifest.Load(store, res.Files)
	require.Empty(t, warnings)

	got := Find(manifests, res.Files, store)
	want := []EntryPoint{
		{Path: "main.go", Reason: "conventional file name"},
		{Path: "scripts/deploy.sh", Reason: "shebang"},
		{Path: "server.js", Reason: "package.json main"},
	}
	assert.Equal(t, want, got)
}

func TestFind_Conventions(t *testing.T) {
	fs := files(
		"index.ts",
		"src/app.js",
		"cmd/onboarder/main.go",
		"backend/manage.py",
		"svc/wsgi.py",
		"src/main.rs",
		"src/main/java/com/acme/Main.java",
		"src/main/kotlin/Main.kt",
		"lib/helpers.js",
		"README.md",
	)
	got := Find(nil, fs, nil)
	var paths []string
	for _, ep := range got {
		paths = append(paths, ep.Path)
		assert.Equal(t, "conventional file name", ep.Reason)
	}
	assert.Equal(t, []string{
		"backend/manage.py",
		"cmd/onboarder/main.go",
		"index.ts",
		"src/app.js",
		"src/main.rs",
		"src/main/java/com/acme/Main.java",
		"src/main/kotlin/Main.kt",
		"svc/wsgi.py",
	}, paths)
}

func TestFind_SkipsTests(t *testing.T) {
	fs := files("main.go")
	fs[0].IsTest = true
	assert.Empty(t, Find(nil, fs, nil))
}

func TestFind_PackageJSON(t *testing.T) {
	fs := files("web/src/index.tsx", "web/bin/cli.js", "web/tools/serve.mjs", "web/package.json")
	m := manifest.Manifest{
		Path: "web/package.json",
		Kind: manifest.KindPackageJSON,
		Scripts: map[string]string{
			"start": "node tools/serve.mjs --port 3000",
			"build": "tsc -p .",
			"test":  "node bin/cli.js",
		},
		Bins: map[string]string{"acme": "./bin/cli.js"},
	}
	got := Find([]manifest.Manifest{m}, fs, nil)
	assert.Equal(t, []EntryPoint{
		{Path: "web/bin/cli.js", Reason: "package.json bin acme"},
		{Path: "web/tools/serve.mjs", Reason: "npm script start"},
	}, got)
}

func TestFind_ScriptEscapingRootIgnored(t *testing.T) {
	fs := files("server.js")
	m := manifest.Manifest{Path: "package.json", Kind: manifest.KindPackageJSON, Main: "../server.js"}
	assert.Equal(t, []EntryPoint{{Path: "server.js", Reason: "conventional file name"}}, Find([]manifest.Manifest{m}, fs, nil))
}

func TestFind_PythonScripts(t *testing.T) {
	fs := files("src/acme/cli.py", "tool/__main__.py", "pyproject.toml")
	m := manifest.Manifest{
		Path: "pyproject.toml",
		Kind: manifest.KindPyproject,
		Bins: map[string]string{"acme": "acme.cli:main", "tool": "tool", "missing": "nope.mod:run"},
	}
	got := Find([]manifest.Manifest{m}, fs, nil)
	assert.Equal(t, []EntryPoint{
		{Path: "src/acme/cli.py", Reason: "pyproject.toml script acme"},
		{Path: "tool/__main__.py", Reason: "pyproject.toml script tool"},
	}, got)
}

func TestFind_CargoBins(t *testing.T) {
	fs := files("crates/cli/src/bin/tool.rs", "crates/cli/Cargo.toml")
	m := manifest.Manifest{
		Path: "crates/cli/Cargo.toml",
		Kind: manifest.KindCargo,
		Bins: map[string]string{"tool": "src/bin/tool.rs"},
	}
	got := Find([]manifest.Manifest{m}, fs, nil)
	assert.Equal(t, []EntryPoint{{Path: "crates/cli/src/bin/tool.rs", Reason: "Cargo bin tool"}}, got)
}

func TestFind_Shebang(t *testing.T) {
	fs := files("bin/deploy", "bin/notes", "bin/big")
	fs[2].Size = MaxShebangSize
	r := mapReader{
		"/repo/bin/deploy": "#!/bin/sh\necho hi\n",
		"/repo/bin/notes":  "just text\n",
		"/repo/bin/big":    "#!/bin/sh\n",
	}
	assert.Equal(t, []EntryPoint{{Path: "bin/deploy", Reason: "shebang"}}, Find(nil, fs, r))
}

func TestFind_Empty(t *testing.T) {
	got := Find(nil, nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
