package manifest

import "regexp"

var (
	gemRe         = regexp.MustCompile(`(?m)^\s*gem\s+["']([^"']+)["']`)
	gemfileRubyRe = regexp.MustCompile(`(?m)^\s*ruby\s+["']([^"']+)["']`)
)

func parseGemfile(data []byte, m *Manifest, _ map[string]bool) error {
	m.Manager = "Bundler"
	src := string(data)
	for _, g := range gemRe.FindAllStringSubmatch(src, -1) {
		m.Dependencies = append(m.Dependencies, g[1])
	}
	if g := gemfileRubyRe.FindStringSubmatch(src); g != nil {
		m.Runtime = g[1]
	}
	return nil
}
