package manifest

import (
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	dockerFromRe  = regexp.MustCompile(`(?im)^\s*FROM\s+(?:--platform=\S+\s+)?(\S+)`)
	dockerStageRe = regexp.MustCompile(`(?im)^\s*FROM\s+.*\s+AS\s+(\S+)\s*$`)
)

func parseDockerfile(data []byte, m *Manifest, _ map[string]bool) error {
	src := string(data)

	// FROM <stage> refers to an earlier build stage, not an image.
	stages := make(map[string]bool)
	for _, g := range dockerStageRe.FindAllStringSubmatch(src, -1) {
		stages[g[1]] = true
	}
	for _, g := range dockerFromRe.FindAllStringSubmatch(src, -1) {
		if !stages[g[1]] {
			m.Images = append(m.Images, g[1])
		}
	}
	return nil
}

type composeFile struct {
	Services map[string]struct {
		Image string `yaml:"image"`
	} `yaml:"services"`
}

func parseCompose(data []byte, m *Manifest, _ map[string]bool) error {
	var c composeFile
	if err := yaml.Unmarshal(data, &c); err != nil {
		return err
	}
	names := make([]string, 0, len(c.Services))
	for name := range c.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.Dependencies = append(m.Dependencies, name)
		if img := c.Services[name].Image; img != "" {
			m.Images = append(m.Images, img)
		}
	}
	return nil
}
