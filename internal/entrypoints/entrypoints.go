// Package entrypoints locates the files a repository is started from.
package entrypoints

import (
	"bytes"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/repo-onboarder/internal/manifest"
	"github.com/ziadkadry99/repo-onboarder/internal/walker"
)

// EntryPoint is a file the repository can be started from.
type EntryPoint struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Reader reads file contents by absolute path.
type Reader interface {
	Read(path string) ([]byte, error)
}

// MaxShebangSize is the largest file checked for a "#!" line.
const MaxShebangSize = 10_000

// Conventions are the file name patterns that mark an entry point.
var Conventions = []string{
	"**/index.{js,ts,mjs}",
	"**/server.{js,ts}",
	"**/app.{js,ts}",
	"**/main.{js,ts,py,go,rs}",
	"**/{wsgi,asgi,manage}.py",
	"**/src/main/java/**/Main.java",
	"**/src/main/kotlin/**/Main.kt",
}

// startScripts are the package.json scripts that launch the application.
var startScripts = []string{"start", "dev", "serve"}

// Find returns entry points discovered from manifests, file name
// conventions and shebang lines, sorted by path. A file found by several
// signals is reported once with the first reason in that order.
func Find(manifests []manifest.Manifest, files []walker.FileInfo, r Reader) []EntryPoint {
	f := finder{
		byRel:  make(map[string]walker.FileInfo, len(files)),
		reason: make(map[string]string),
	}
	for _, fi := range files {
		f.byRel[fi.RelPath] = fi
	}

	for _, m := range manifests {
		f.fromManifest(m)
	}
	for _, fi := range files {
		if fi.IsTest {
			continue
		}
		for _, pattern := range Conventions {
			if ok, _ := doublestar.Match(pattern, fi.RelPath); ok {
				f.add(fi.RelPath, "conventional file name")
				break
			}
		}
	}
	if r != nil {
		for _, fi := range files {
			if fi.Scannable && fi.Size < MaxShebangSize && hasShebang(r, fi.Path) {
				f.add(fi.RelPath, "shebang")
			}
		}
	}

	out := make([]EntryPoint, 0, len(f.reason))
	for p, reason := range f.reason {
		out = append(out, EntryPoint{Path: p, Reason: reason})
	}
	slices.SortFunc(out, func(a, b EntryPoint) int { return strings.Compare(a.Path, b.Path) })
	return out
}

type finder struct {
	byRel  map[string]walker.FileInfo
	reason map[string]string
}

func (f *finder) add(rel, reason string) {
	if _, ok := f.reason[rel]; !ok {
		f.reason[rel] = reason
	}
}

// resolve returns the repository-relative path of p, interpreted relative
// to dir, when that file exists.
func (f *finder) resolve(dir, p string) (string, bool) {
	p = strings.Trim(p, `"'`)
	if p == "" || strings.HasPrefix(p, "-") {
		return "", false
	}
	rel := path.Clean(path.Join(dir, p))
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return "", false
	}
	if _, ok := f.byRel[rel]; ok {
		return rel, true
	}
	return "", false
}

func (f *finder) fromManifest(m manifest.Manifest) {
	dir := m.Dir()
	name := path.Base(m.Path)
	switch m.Kind {
	case manifest.KindPackageJSON, manifest.KindComposer:
		if m.Main != "" {
			if rel, ok := f.resolve(dir, m.Main); ok {
				f.add(rel, name+" main")
			}
		}
		for _, script := range startScripts {
			cmd, ok := m.Scripts[script]
			if !ok {
				continue
			}
			for _, tok := range strings.Fields(cmd) {
				if rel, ok := f.resolve(dir, tok); ok {
					f.add(rel, "npm script "+script)
				}
			}
		}
		for _, bin := range sortedKeys(m.Bins) {
			if rel, ok := f.resolve(dir, m.Bins[bin]); ok {
				f.add(rel, name+" bin "+bin)
			}
		}
	case manifest.KindCargo:
		for _, bin := range sortedKeys(m.Bins) {
			if rel, ok := f.resolve(dir, m.Bins[bin]); ok {
				f.add(rel, "Cargo bin "+bin)
			}
		}
	case manifest.KindPyproject, manifest.KindSetupPy:
		for _, bin := range sortedKeys(m.Bins) {
			module, _, _ := strings.Cut(m.Bins[bin], ":")
			if rel, ok := f.resolveModule(dir, strings.TrimSpace(module)); ok {
				f.add(rel, name+" script "+bin)
			}
		}
	}
}

// resolveModule maps a dotted Python module to its source file, trying
// the flat and src/ layouts.
func (f *finder) resolveModule(dir, module string) (string, bool) {
	if module == "" {
		return "", false
	}
	base := strings.ReplaceAll(module, ".", "/")
	for _, prefix := range []string{"", "src/"} {
		for _, candidate := range []string{base + ".py", base + "/__main__.py", base + "/__init__.py"} {
			if rel, ok := f.resolve(dir, prefix+candidate); ok {
				return rel, true
			}
		}
	}
	return "", false
}

func hasShebang(r Reader, abs string) bool {
	data, err := r.Read(abs)
	if err != nil {
		return false
	}
	return bytes.HasPrefix(data, []byte("#!"))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
