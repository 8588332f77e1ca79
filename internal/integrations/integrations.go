// Package integrations finds the external systems a repository touches:
// environment variables it reads, service hostnames it calls and SDKs it
// imports, plus services named by manifest dependencies.
package integrations

import (
	"cmp"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/ziadkadry99/repo-onboarder/internal/manifest"
)

// Kind is the signal an Integration was found by.
type Kind string

const (
	KindEnv      Kind = "env"
	KindHostname Kind = "hostname"
	KindSDK      Kind = "sdk"
)

// Integration is a single match in a source file.
type Integration struct {
	Kind    Kind   `json:"kind"`
	Value   string `json:"value"`
	Service string `json:"service,omitempty"`
	File    string `json:"file"`
	Line    int    `json:"line"`
}

var envPatterns = []*regexp.Regexp{
	regexp.MustCompile(`process\.env\.([A-Za-z_]\w*)`),
	regexp.MustCompile(`process\.env\[\s*['"]([^'"]+)['"]\s*\]`),
	regexp.MustCompile(`import\.meta\.env\.([A-Za-z_]\w*)`),
	regexp.MustCompile(`os\.environ\.get\(\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`os\.environ\[\s*['"]([^'"]+)['"]\s*\]`),
	regexp.MustCompile(`\bgetenv\(\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`os\.(?:Getenv|LookupEnv)\(\s*"([^"]+)"`),
	regexp.MustCompile(`\bENV\[\s*['"]([^'"]+)['"]\s*\]`),
	regexp.MustCompile(`\bENV\.fetch\(\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`System\.getenv\(\s*"([^"]+)"`),
	regexp.MustCompile(`\benv::var(?:_os)?\(\s*"([^"]+)"`),
}

var urlRe = regexp.MustCompile(`https?://([A-Za-z0-9.-]+)`)

var (
	jsImportRe  = regexp.MustCompile(`(?:\bfrom\s+|\bimport\s+|\brequire\(\s*)['"]([^'"]+)['"]`)
	pyImportRe  = regexp.MustCompile(`^\s*(?:from\s+([\w.]+)\s+import\b|import\s+([\w.]+))`)
	goImportRe  = regexp.MustCompile(`^\s*(?:import\s+)?(?:[\w.]+\s+)?"([^"]+)"\s*$`)
	rbRequireRe = regexp.MustCompile(`^\s*require\s+['"]([^'"]+)['"]`)
)

// skippedExts and skippedNames cover documentation and lockfiles, which
// mention services without integrating them.
var skippedExts = map[string]bool{".md": true, ".markdown": true, ".rst": true, ".txt": true, ".lock": true}

var skippedNames = map[string]bool{
	"package-lock.json": true,
	"pnpm-lock.yaml":    true,
	"yarn.lock":         true,
	"go.sum":            true,
}

// Applies reports whether a file should be scanned.
func Applies(relPath string) bool {
	base := path.Base(relPath)
	if skippedNames[base] {
		return false
	}
	return !skippedExts[strings.ToLower(path.Ext(base))]
}

// ScanFile returns the integrations found in one file, in line order.
func ScanFile(relPath, content string) []Integration {
	var (
		found  []Integration
		seen   = make(map[Integration]bool)
		lang   = importStyle(relPath)
		inGoIm bool
	)
	add := func(in Integration) {
		if !seen[in] {
			seen[in] = true
			found = append(found, in)
		}
	}
	lineNo := 0
	for line := range strings.Lines(content) {
		lineNo++
		line = strings.TrimRight(line, "\r\n")

		for _, re := range envPatterns {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				in := Integration{Kind: KindEnv, Value: m[1], File: relPath, Line: lineNo}
				if s, ok := matchEnv(m[1]); ok {
					in.Service = s.Name
				}
				add(in)
			}
		}

		for _, m := range urlRe.FindAllStringSubmatch(line, -1) {
			host := strings.ToLower(strings.TrimRight(m[1], "."))
			if s, ok := matchHost(host); ok {
				add(Integration{Kind: KindHostname, Value: host, Service: s.Name, File: relPath, Line: lineNo})
			}
		}

		var imports []string
		switch lang {
		case "js":
			for _, m := range jsImportRe.FindAllStringSubmatch(line, -1) {
				imports = append(imports, m[1])
			}
		case "python":
			if m := pyImportRe.FindStringSubmatch(line); m != nil {
				imports = append(imports, cmp.Or(m[1], m[2]))
			}
		case "go":
			trimmed := strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(trimmed, "import ("):
				inGoIm = true
			case inGoIm && trimmed == ")":
				inGoIm = false
			case inGoIm || strings.HasPrefix(trimmed, "import "):
				if m := goImportRe.FindStringSubmatch(line); m != nil {
					imports = append(imports, m[1])
				}
			}
		case "ruby":
			if m := rbRequireRe.FindStringSubmatch(line); m != nil {
				imports = append(imports, m[1])
			}
		}
		for _, imp := range imports {
			if s, ok := matchPackage(imp); ok {
				add(Integration{Kind: KindSDK, Value: imp, Service: s.Name, File: relPath, Line: lineNo})
			}
		}
	}
	return found
}

func importStyle(relPath string) string {
	switch strings.ToLower(path.Ext(relPath)) {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".vue", ".svelte":
		return "js"
	case ".py":
		return "python"
	case ".go":
		return "go"
	case ".rb":
		return "ruby"
	}
	return ""
}

// Sort orders integrations by file, line, kind and value.
func Sort(found []Integration) {
	slices.SortStableFunc(found, func(a, b Integration) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Value, b.Value),
		)
	})
}

// Externals returns the sorted names of services that manifest
// dependencies or container images refer to.
func Externals(manifests []manifest.Manifest) []string {
	set := make(map[string]bool)
	for _, m := range manifests {
		for _, dep := range m.Dependencies {
			if m.Kind == manifest.KindCompose {
				// compose services are named by the user, not the package
				continue
			}
			if s, ok := matchPackage(dep); ok {
				set[s.Name] = true
			}
		}
		for _, img := range m.Images {
			if s, ok := matchImage(img); ok {
				set[s.Name] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// System is a node in the external systems view.
type System struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Signals     []string `json:"signals"`
}

// EnvSystemName names the node summarizing environment variables.
const EnvSystemName = "Environment Variables"

// maxListedEnv bounds how many variable names the summary node spells out.
const maxListedEnv = 5

// Systems merges manifest externals and file-level integrations into one
// node per service. An environment variable summary comes first when any
// variables are read.
func Systems(externals []string, found []Integration) []System {
	signals := make(map[string]map[string]bool)
	mark := func(service, signal string) {
		if signals[service] == nil {
			signals[service] = make(map[string]bool)
		}
		signals[service][signal] = true
	}
	for _, name := range externals {
		mark(name, "dependency")
	}
	envSet := make(map[string]bool)
	for _, in := range found {
		if in.Kind == KindEnv {
			envSet[in.Value] = true
		}
		if in.Service != "" {
			mark(in.Service, string(in.Kind))
		}
	}

	systems := []System{}
	if len(envSet) > 0 {
		vars := make([]string, 0, len(envSet))
		for v := range envSet {
			vars = append(vars, v)
		}
		slices.Sort(vars)
		systems = append(systems, System{
			Name:        EnvSystemName,
			Kind:        "env",
			Description: envDescription(vars),
			Signals:     []string{string(KindEnv)},
		})
	}

	names := make([]string, 0, len(signals))
	for name := range signals {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		sys := System{Name: name, Kind: "service"}
		if s, ok := lookupService(name); ok {
			sys.Description = s.Description
		}
		for sig := range signals[name] {
			sys.Signals = append(sys.Signals, sig)
		}
		slices.Sort(sys.Signals)
		systems = append(systems, sys)
	}
	return systems
}

func envDescription(vars []string) string {
	if len(vars) > 12 {
		return fmt.Sprintf("%d variables", len(vars))
	}
	listed := vars[:min(len(vars), maxListedEnv)]
	desc := "Variables: " + strings.Join(listed, ", ")
	if len(vars) > maxListedEnv {
		desc += "..."
	}
	return desc
}
