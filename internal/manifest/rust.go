package manifest

import (
	"maps"
	"slices"

	"github.com/BurntSushi/toml"
)

// depTables holds the dependency sections shared by [package], [workspace]
// and [target.'cfg(...)'] scopes. Values are version strings or inline
// tables; only the crate names are kept.
type depTables struct {
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

func (d depTables) names() []string {
	var out []string
	for _, t := range []map[string]any{d.Dependencies, d.DevDependencies, d.BuildDependencies} {
		out = append(out, slices.Collect(maps.Keys(t))...)
	}
	return out
}

type cargoManifest struct {
	Package struct {
		Name        string `toml:"name"`
		RustVersion any    `toml:"rust-version"` // string or {workspace = true}
	} `toml:"package"`
	depTables
	Workspace struct {
		Dependencies map[string]any `toml:"dependencies"`
	} `toml:"workspace"`
	Target map[string]depTables `toml:"target"`
	Bin    []struct {
		Name string `toml:"name"`
		Path string `toml:"path"`
	} `toml:"bin"`
}

func parseCargo(data []byte, m *Manifest, _ map[string]bool) error {
	var doc cargoManifest
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return err
	}
	m.Manager = "cargo"

	if v, ok := doc.Package.RustVersion.(string); ok {
		m.Runtime = v
	}
	m.Dependencies = append(m.Dependencies, doc.depTables.names()...)
	m.Dependencies = append(m.Dependencies, slices.Collect(maps.Keys(doc.Workspace.Dependencies))...)
	for _, t := range doc.Target {
		m.Dependencies = append(m.Dependencies, t.names()...)
	}

	for _, b := range doc.Bin {
		if b.Name == "" {
			continue
		}
		p := b.Path
		if p == "" {
			p = "src/bin/" + b.Name + ".rs"
		}
		addBin(m, b.Name, p)
	}
	return nil
}
