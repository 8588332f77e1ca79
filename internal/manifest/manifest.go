// Package manifest parses package and build manifests (package.json,
// go.mod, pyproject.toml, Cargo.toml, ...) into a common shape consumed by
// the stack, entry point and integration detectors.
package manifest

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/ziadkadry99/repo-onboarder/internal/walker"
)

// MaxDepth is the deepest directory level (0 = repository root) searched
// for manifests, so fixtures and vendored trees deeper down do not skew
// detection.
const MaxDepth = 1

// Kind identifies the manifest format.
type Kind string

const (
	KindPackageJSON  Kind = "package.json"
	KindRequirements Kind = "requirements.txt"
	KindPyproject    Kind = "pyproject.toml"
	KindPipfile      Kind = "Pipfile"
	KindSetupPy      Kind = "setup.py"
	KindGoMod        Kind = "go.mod"
	KindCargo        Kind = "Cargo.toml"
	KindPom          Kind = "pom.xml"
	KindGradle       Kind = "build.gradle"
	KindGemfile      Kind = "Gemfile"
	KindComposer     Kind = "composer.json"
	KindDockerfile   Kind = "Dockerfile"
	KindCompose      Kind = "docker-compose.yml"
)

// Ecosystem groups manifest kinds by language toolchain.
type Ecosystem string

const (
	EcosystemNode   Ecosystem = "node"
	EcosystemPython Ecosystem = "python"
	EcosystemGo     Ecosystem = "go"
	EcosystemRust   Ecosystem = "rust"
	EcosystemJVM    Ecosystem = "jvm"
	EcosystemRuby   Ecosystem = "ruby"
	EcosystemPHP    Ecosystem = "php"
	EcosystemDocker Ecosystem = "docker"
)

// Manifest is the parsed, format-independent view of one manifest file.
type Manifest struct {
	Path         string            // Slash-separated path relative to the repository root.
	Kind         Kind
	Ecosystem    Ecosystem
	Manager      string            // Package manager, e.g. "pnpm" or "poetry".
	Runtime      string            // Declared runtime constraint, e.g. ">=18" or "1.22".
	Dependencies []string          // Declared dependency names, sorted and unique.
	Scripts      map[string]string // package.json scripts.
	Main         string            // package.json main.
	Bins         map[string]string // Executable name to file path or module reference.
	Images       []string          // Container images referenced by Dockerfile or compose.
}

// Dir returns the manifest's directory relative to the root ("" for the root).
func (m Manifest) Dir() string {
	d := path.Dir(m.Path)
	if d == "." {
		return ""
	}
	return d
}

// HasDependency reports whether name is declared.
func (m Manifest) HasDependency(name string) bool {
	i := sort.SearchStrings(m.Dependencies, name)
	return i < len(m.Dependencies) && m.Dependencies[i] == name
}

// Reader supplies file contents. content.Store satisfies it.
type Reader interface {
	Read(path string) ([]byte, error)
}

type parseFunc func(data []byte, m *Manifest, siblings map[string]bool) error

type format struct {
	kind      Kind
	ecosystem Ecosystem
	parse     parseFunc
}

// formats maps manifest file names to their parser.
var formats = map[string]format{
	"package.json":        {KindPackageJSON, EcosystemNode, parsePackageJSON},
	"requirements.txt":    {KindRequirements, EcosystemPython, parseRequirements},
	"pyproject.toml":      {KindPyproject, EcosystemPython, parsePyproject},
	"Pipfile":             {KindPipfile, EcosystemPython, parsePipfile},
	"setup.py":            {KindSetupPy, EcosystemPython, parseSetupPy},
	"go.mod":              {KindGoMod, EcosystemGo, parseGoMod},
	"Cargo.toml":          {KindCargo, EcosystemRust, parseCargo},
	"pom.xml":             {KindPom, EcosystemJVM, parsePom},
	"build.gradle":        {KindGradle, EcosystemJVM, parseGradle},
	"build.gradle.kts":    {KindGradle, EcosystemJVM, parseGradle},
	"Gemfile":             {KindGemfile, EcosystemRuby, parseGemfile},
	"composer.json":       {KindComposer, EcosystemPHP, parseComposer},
	"Dockerfile":          {KindDockerfile, EcosystemDocker, parseDockerfile},
	"docker-compose.yml":  {KindCompose, EcosystemDocker, parseCompose},
	"docker-compose.yaml": {KindCompose, EcosystemDocker, parseCompose},
	"compose.yml":         {KindCompose, EcosystemDocker, parseCompose},
	"compose.yaml":        {KindCompose, EcosystemDocker, parseCompose},
}

// IsManifest reports whether the file name is a recognized manifest.
func IsManifest(name string) bool {
	_, ok := formats[name]
	return ok
}

// Load parses every recognized manifest among files that sits at most
// MaxDepth directories below the root. Files are expected in walk order;
// the result follows it. Unreadable or malformed manifests are skipped and
// reported as warnings.
func Load(r Reader, files []walker.FileInfo) ([]Manifest, []string) {
	siblings := make(map[string]map[string]bool)
	for _, f := range files {
		dir := path.Dir(f.RelPath)
		if siblings[dir] == nil {
			siblings[dir] = make(map[string]bool)
		}
		siblings[dir][f.Name] = true
	}

	var (
		out      []Manifest
		warnings []string
	)
	for _, f := range files {
		fm, ok := formats[f.Name]
		if !ok || strings.Count(f.RelPath, "/") > MaxDepth {
			continue
		}
		data, err := r.Read(f.Path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping manifest %s: %v", f.RelPath, err))
			continue
		}
		m := Manifest{Path: f.RelPath, Kind: fm.kind, Ecosystem: fm.ecosystem}
		if err := fm.parse(data, &m, siblings[path.Dir(f.RelPath)]); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping malformed manifest %s: %v", f.RelPath, err))
			continue
		}
		m.Dependencies = uniqueSorted(m.Dependencies)
		out = append(out, m)
	}
	return out, warnings
}

func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
