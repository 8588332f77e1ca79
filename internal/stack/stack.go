// Package stack infers a repository's languages, frameworks, package
// managers and runtimes. Manifests are the primary signal; a file-extension
// histogram is used only when no manifest names a language.
package stack

import (
	"sort"
	"strings"

	"github.com/ziadkadry99/repo-onboarder/internal/manifest"
	"github.com/ziadkadry99/repo-onboarder/internal/walker"
)

// Language sources recorded in Stack.LanguageSource.
const (
	SourceManifest  = "manifest"
	SourceExtension = "extension"
	SourceNone      = "none"
)

// Stack is the detected technology stack. Every list is a sorted set, so
// two frameworks found in the same manifest are both reported.
type Stack struct {
	Languages      []string          `json:"languages"`
	LanguageSource string            `json:"language_source"`
	Frameworks     []string          `json:"frameworks"`
	Managers       []string          `json:"managers"`
	Runtimes       []string          `json:"runtimes"`
	Scripts        map[string]string `json:"scripts"`
	Externals      []string          `json:"externals"`
	Sources        []string          `json:"sources"`
}

// ecosystemLanguage names the language implied by each manifest ecosystem.
var ecosystemLanguage = map[manifest.Ecosystem]string{
	manifest.EcosystemNode:   "JavaScript/TypeScript",
	manifest.EcosystemPython: "Python",
	manifest.EcosystemGo:     "Go",
	manifest.EcosystemRust:   "Rust",
	manifest.EcosystemJVM:    "Java/Kotlin",
	manifest.EcosystemRuby:   "Ruby",
	manifest.EcosystemPHP:    "PHP",
}

// ecosystemRuntime names the runtime each ecosystem runs on.
var ecosystemRuntime = map[manifest.Ecosystem]string{
	manifest.EcosystemNode:   "Node.js",
	manifest.EcosystemPython: "Python",
	manifest.EcosystemGo:     "Go",
	manifest.EcosystemRust:   "Rust",
	manifest.EcosystemJVM:    "JVM",
	manifest.EcosystemRuby:   "Ruby",
	manifest.EcosystemPHP:    "PHP",
	manifest.EcosystemDocker: "Docker",
}

// histogramLanguage folds extension-level languages into the labels used
// for manifest-derived languages.
var histogramLanguage = map[string]string{
	"JavaScript": "JavaScript/TypeScript",
	"TypeScript": "JavaScript/TypeScript",
	"Java":       "Java/Kotlin",
	"Kotlin":     "Java/Kotlin",
}

// Detect builds the Stack from parsed manifests and the discovered files.
// Externals is left empty; it is filled by the integration scanner.
func Detect(manifests []manifest.Manifest, files []walker.FileInfo) Stack {
	langs := newSet()
	frameworks := newSet()
	managers := newSet()
	runtimes := newSet()
	s := Stack{Scripts: map[string]string{}}

	for _, m := range manifests {
		s.Sources = append(s.Sources, m.Path)
		if lang, ok := ecosystemLanguage[m.Ecosystem]; ok {
			langs.add(lang)
		}
		if m.Manager != "" {
			managers.add(m.Manager)
		}
		if rt, ok := ecosystemRuntime[m.Ecosystem]; ok {
			if m.Runtime != "" {
				rt += " " + m.Runtime
			}
			runtimes.add(rt)
		}
		for _, name := range matchFrameworks(m) {
			frameworks.add(name)
		}
		for name, cmd := range m.Scripts {
			if dir := m.Dir(); dir != "" {
				name = dir + "/" + name
			}
			s.Scripts[name] = cmd
		}
	}

	if len(langs) > 0 {
		s.Languages = langs.sorted()
		s.LanguageSource = SourceManifest
	} else if s.Languages = histogram(files); len(s.Languages) > 0 {
		s.LanguageSource = SourceExtension
	} else {
		s.LanguageSource = SourceNone
	}

	s.Frameworks = frameworks.sorted()
	s.Managers = managers.sorted()
	s.Runtimes = runtimes.sorted()
	sort.Strings(s.Sources)
	return s.normalized()
}

// histogram returns the programming languages among files, most frequent
// first, ties broken by name.
func histogram(files []walker.FileInfo) []string {
	counts := make(map[string]int)
	for _, f := range files {
		if !walker.IsProgrammingLanguage(f.Language) {
			continue
		}
		lang := f.Language
		if folded, ok := histogramLanguage[lang]; ok {
			lang = folded
		}
		counts[lang]++
	}
	out := make([]string, 0, len(counts))
	for lang := range counts {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// normalized replaces nil lists with empty ones so the JSON form is stable.
func (s Stack) normalized() Stack {
	for _, l := range []*[]string{&s.Languages, &s.Frameworks, &s.Managers, &s.Runtimes, &s.Externals, &s.Sources} {
		if *l == nil {
			*l = []string{}
		}
	}
	if s.Scripts == nil {
		s.Scripts = map[string]string{}
	}
	return s
}

// WithExternals returns a copy of s with the given external services set.
func (s Stack) WithExternals(externals []string) Stack {
	set := newSet()
	for _, e := range externals {
		set.add(e)
	}
	s.Externals = set.sorted()
	return s.normalized()
}

type set map[string]bool

func newSet() set { return make(set) }

func (s set) add(v string) {
	if v = strings.TrimSpace(v); v != "" {
		s[v] = true
	}
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
