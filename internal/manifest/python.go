package manifest

import (
	"bufio"
	"bytes"
	"cmp"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// pyNameRe captures the distribution name at the start of a requirement
// specifier such as "Flask[async]>=2.0; python_version>'3.8'".
var pyNameRe = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)`)

// pyName normalizes a requirement string to its lower-cased project name.
func pyName(req string) string {
	m := pyNameRe.FindString(strings.TrimSpace(req))
	return strings.ToLower(strings.ReplaceAll(m, "_", "-"))
}

func parseRequirements(data []byte, m *Manifest, _ map[string]bool) error {
	m.Manager = "pip"
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if i := strings.Index(line, " #"); i >= 0 {
			line = line[:i]
		}
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if name := pyName(line); name != "" {
			m.Dependencies = append(m.Dependencies, name)
		}
	}
	return sc.Err()
}

// pyproject is the subset of pyproject.toml read by the analyzer. Poetry
// dependency values are version strings or inline tables, so they decode
// into any and only the keys are used.
type pyproject struct {
	Project struct {
		RequiresPython       string              `toml:"requires-python"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
		Scripts              map[string]string   `toml:"scripts"`
	} `toml:"project"`
	DependencyGroups map[string][]any `toml:"dependency-groups"`
	Tool             struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
			Scripts map[string]any `toml:"scripts"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func parsePyproject(data []byte, m *Manifest, siblings map[string]bool) error {
	var doc pyproject
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return err
	}

	m.Manager = "pip"
	switch {
	case md.IsDefined("tool", "poetry"):
		m.Manager = "poetry"
	case md.IsDefined("tool", "pdm"):
		m.Manager = "pdm"
	case siblings["uv.lock"] || md.IsDefined("tool", "uv"):
		m.Manager = "uv"
	}

	m.Runtime = doc.Project.RequiresPython
	for _, req := range doc.Project.Dependencies {
		m.Dependencies = append(m.Dependencies, pyName(req))
	}
	for _, reqs := range doc.Project.OptionalDependencies {
		for _, req := range reqs {
			m.Dependencies = append(m.Dependencies, pyName(req))
		}
	}
	for _, group := range doc.DependencyGroups {
		for _, entry := range group {
			// {include-group = "..."} entries reference other groups.
			if req, ok := entry.(string); ok {
				m.Dependencies = append(m.Dependencies, pyName(req))
			}
		}
	}

	poetry := doc.Tool.Poetry
	tables := []map[string]any{poetry.Dependencies, poetry.DevDependencies}
	for _, g := range poetry.Group {
		tables = append(tables, g.Dependencies)
	}
	for _, deps := range tables {
		for name, v := range deps {
			if name == "python" {
				if s, ok := v.(string); ok && m.Runtime == "" {
					m.Runtime = s
				}
				continue
			}
			m.Dependencies = append(m.Dependencies, pyName(name))
		}
	}

	for name, target := range doc.Project.Scripts {
		addBin(m, name, target)
	}
	for name, v := range poetry.Scripts {
		switch v := v.(type) {
		case string:
			addBin(m, name, v)
		case map[string]any:
			// Newer poetry form: {callable = "pkg.mod:fn"}.
			if s, ok := v["callable"].(string); ok {
				addBin(m, name, s)
			}
		}
	}
	return nil
}

func addBin(m *Manifest, name, target string) {
	if m.Bins == nil {
		m.Bins = make(map[string]string)
	}
	m.Bins[name] = target
}

type pipfile struct {
	Packages    map[string]any `toml:"packages"`
	DevPackages map[string]any `toml:"dev-packages"`
	Requires    struct {
		PythonVersion     string `toml:"python_version"`
		PythonFullVersion string `toml:"python_full_version"`
	} `toml:"requires"`
}

func parsePipfile(data []byte, m *Manifest, _ map[string]bool) error {
	var doc pipfile
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return err
	}
	m.Manager = "pipenv"
	for _, deps := range []map[string]any{doc.Packages, doc.DevPackages} {
		for name := range deps {
			m.Dependencies = append(m.Dependencies, pyName(name))
		}
	}
	m.Runtime = cmp.Or(doc.Requires.PythonVersion, doc.Requires.PythonFullVersion)
	return nil
}

// pyStringRe matches single or double quoted Python string literals.
var pyStringRe = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)

// pyStrings returns the quoted string literals in a Python list body.
func pyStrings(src string) []string {
	var out []string
	for _, g := range pyStringRe.FindAllStringSubmatch(src, -1) {
		out = append(out, g[1]+g[2])
	}
	return out
}

var (
	installRequiresRe = regexp.MustCompile(`(?s)install_requires\s*=\s*\[(.*?)\]`)
	consoleScriptsRe  = regexp.MustCompile(`(?s)["']console_scripts["']\s*:\s*\[(.*?)\]`)
	pythonRequiresRe  = regexp.MustCompile(`python_requires\s*=\s*["']([^"']+)["']`)
)

func parseSetupPy(data []byte, m *Manifest, _ map[string]bool) error {
	m.Manager = "setuptools"
	src := string(data)
	if g := installRequiresRe.FindStringSubmatch(src); g != nil {
		for _, req := range pyStrings(g[1]) {
			m.Dependencies = append(m.Dependencies, pyName(req))
		}
	}
	if g := consoleScriptsRe.FindStringSubmatch(src); g != nil {
		for _, spec := range pyStrings(g[1]) {
			name, target, ok := strings.Cut(spec, "=")
			if !ok {
				continue
			}
			addBin(m, strings.TrimSpace(name), strings.TrimSpace(target))
		}
	}
	if g := pythonRequiresRe.FindStringSubmatch(src); g != nil {
		m.Runtime = g[1]
	}
	return nil
}
