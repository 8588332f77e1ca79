// Package routes extracts HTTP routes from source text. Each supported
// framework is a Detector registered by name; matching is line-local and
// deliberately heuristic, so routes built through indirection are missed
// and matches inside comments or strings are kept.
package routes

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Route is one HTTP method and path found in a source file.
type Route struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Framework string `json:"framework"`
	File      string `json:"file"`
	Line      int    `json:"line"`
}

// MethodAny marks a route that accepts every method.
const MethodAny = "ANY"

// Detector finds the routes of one framework.
type Detector interface {
	// Name is the registry key, e.g. "express".
	Name() string
	// Applies reports whether files at relPath are worth inspecting.
	Applies(relPath string) bool
	// Detect returns the routes declared in content. It never fails; no
	// match yields nil.
	Detect(relPath, content string) []Route
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Detector)
)

// Register makes a detector available by name. It panics if Register is
// called twice with the same name or if d is nil.
func Register(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if d == nil {
		panic("routes: Register detector is nil")
	}
	if _, dup := registry[d.Name()]; dup {
		panic("routes: Register called twice for detector " + d.Name())
	}
	registry[d.Name()] = d
}

// Lookup returns the detector registered under name.
func Lookup(name string) (Detector, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[name]
	return d, ok
}

// Names returns the sorted names of the registered detectors.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extractor runs a fixed set of detectors over files.
type Extractor struct {
	detectors []Detector
}

// NewExtractor builds an Extractor from the named detectors; an empty list
// selects every registered detector. Unknown names are returned as an error
// alongside a usable Extractor built from the known ones.
func NewExtractor(names []string) (*Extractor, error) {
	if len(names) == 0 {
		names = Names()
	}
	e := &Extractor{}
	var unknown []string
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if seen[name] {
			continue
		}
		seen[name] = true
		d, ok := Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		e.detectors = append(e.detectors, d)
	}
	sort.Slice(e.detectors, func(i, j int) bool { return e.detectors[i].Name() < e.detectors[j].Name() })
	if len(unknown) > 0 {
		return e, fmt.Errorf("routes: unknown frameworks %s (known: %s)",
			strings.Join(unknown, ", "), strings.Join(Names(), ", "))
	}
	return e, nil
}

// Detectors returns the names of the detectors the extractor runs.
func (e *Extractor) Detectors() []string {
	out := make([]string, len(e.detectors))
	for i, d := range e.detectors {
		out[i] = d.Name()
	}
	return out
}

// Extract returns the routes declared in one file, ordered by line.
func (e *Extractor) Extract(relPath, content string) []Route {
	var out []Route
	for _, d := range e.detectors {
		if d.Applies(relPath) {
			out = append(out, d.Detect(relPath, content)...)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// Sort orders routes by framework, method, path, then source location.
func Sort(routes []Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		a, b := routes[i], routes[j]
		switch {
		case a.Framework != b.Framework:
			return a.Framework < b.Framework
		case a.Method != b.Method:
			return a.Method < b.Method
		case a.Path != b.Path:
			return a.Path < b.Path
		case a.File != b.File:
			return a.File < b.File
		default:
			return a.Line < b.Line
		}
	})
}

// quoted matches a single-, double- or back-quoted string literal and
// captures its body.
const quoted = "[\"'`]([^\"'`]*)[\"'`]"

// httpMethods are the lower-case method names routers expose.
const httpMethods = `get|post|put|delete|patch|options|head`

// forEachLine calls fn with each 1-based line number and line of content.
func forEachLine(content string, fn func(n int, line string)) {
	n := 0
	for line := range strings.Lines(content) {
		n++
		fn(n, strings.TrimRight(line, "\r\n"))
	}
}

// hasExt reports whether relPath ends in one of exts.
func hasExt(relPath string, exts ...string) bool {
	ext := strings.ToLower(path.Ext(relPath))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalizeMethod upper-cases a method and maps catch-all spellings to ANY.
func normalizeMethod(m string) string {
	switch up := strings.ToUpper(m); up {
	case "ALL", "ANY", "USE", "":
		return MethodAny
	default:
		return up
	}
}

// prefixes maps variable names to the URL prefix passed to their
// constructor, e.g. `users = APIRouter(prefix="/users")`.
func prefixes(content string, ctor *regexp.Regexp) map[string]string {
	out := make(map[string]string)
	for _, g := range ctor.FindAllStringSubmatch(content, -1) {
		out[g[1]] = strings.TrimSuffix(g[2], "/")
	}
	return out
}
