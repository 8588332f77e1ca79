package manifest

import (
	"encoding/json"
	"strings"
)

type packageJSON struct {
	Name            string            `json:"name"`
	Main            string            `json:"main"`
	Bin             json.RawMessage   `json:"bin"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Engines         map[string]string `json:"engines"`
	PackageManager  string            `json:"packageManager"`
}

// nodeLockfiles maps lockfile names to the package manager that writes them,
// in precedence order.
var nodeLockfiles = []struct{ file, manager string }{
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"bun.lockb", "bun"},
	{"bun.lock", "bun"},
	{"package-lock.json", "npm"},
}

func parsePackageJSON(data []byte, m *Manifest, siblings map[string]bool) error {
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return err
	}

	for name := range pkg.Dependencies {
		m.Dependencies = append(m.Dependencies, name)
	}
	for name := range pkg.DevDependencies {
		m.Dependencies = append(m.Dependencies, name)
	}
	m.Scripts = pkg.Scripts
	m.Main = pkg.Main
	m.Runtime = pkg.Engines["node"]
	m.Bins = parseBin(pkg.Name, pkg.Bin)

	m.Manager = "npm"
	if pm, _, ok := strings.Cut(pkg.PackageManager, "@"); ok && pm != "" {
		m.Manager = pm
		return nil
	}
	for _, lf := range nodeLockfiles {
		if siblings[lf.file] {
			m.Manager = lf.manager
			break
		}
	}
	return nil
}

// parseBin handles both forms of the bin field: a single path named after
// the package, or a name-to-path object.
func parseBin(pkgName string, raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil
		}
		name := pkgName
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		return map[string]string{name: single}
	}
	var many map[string]string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many
	}
	return nil
}

type composerJSON struct {
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
	Bin        []string          `json:"bin"`
}

func parseComposer(data []byte, m *Manifest, _ map[string]bool) error {
	var c composerJSON
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	m.Manager = "Composer"
	for _, deps := range []map[string]string{c.Require, c.RequireDev} {
		for name, version := range deps {
			if name == "php" {
				m.Runtime = version
				continue
			}
			if strings.HasPrefix(name, "ext-") {
				continue
			}
			m.Dependencies = append(m.Dependencies, name)
		}
	}
	for _, b := range c.Bin {
		if m.Bins == nil {
			m.Bins = make(map[string]string)
		}
		m.Bins[b[strings.LastIndex(b, "/")+1:]] = b
	}
	return nil
}
