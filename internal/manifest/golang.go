package manifest

import (
	"golang.org/x/mod/modfile"
)

func parseGoMod(data []byte, m *Manifest, _ map[string]bool) error {
	f, err := modfile.ParseLax(m.Path, data, nil)
	if err != nil {
		return err
	}
	m.Manager = "go mod"
	if f.Go != nil {
		m.Runtime = f.Go.Version
	}
	for _, r := range f.Require {
		m.Dependencies = append(m.Dependencies, r.Mod.Path)
	}
	return nil
}
