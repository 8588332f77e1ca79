// Package roles guesses the purpose of each file from its path.
package roles

import (
	"path"
	"strings"

	"github.com/ziadkadry99/repo-onboarder/internal/walker"
)

// MaxKeyFiles caps the number of files given a role in a report.
const MaxKeyFiles = 120

// KeyFile pairs a file with its likely role.
type KeyFile struct {
	Path string `json:"path"`
	Role string `json:"role"`
}

// GeneralCode is the role of files no rule matches.
const GeneralCode = "General Code"

type rule struct {
	pattern string
	role    string
}

// rules are tried in order. A pattern ending in "/" matches a directory
// name anywhere in the path; any other pattern is a substring of the
// lower-cased file name.
var rules = []rule{
	{"routes/", "API Routes"},
	{"router/", "API Routes"},
	{"app.js", "Main Application"},
	{"server.js", "Server Entry Point"},
	{"index.js", "Entry Point"},
	{"main.js", "Entry Point"},
	{"controllers/", "Business Logic"},
	{"models/", "Data Models"},
	{"middleware/", "HTTP Middleware"},
	{"middlewares/", "HTTP Middleware"},
	{"services/", "Business Services"},
	{"utils/", "Utilities"},
	{"lib/", "Library Code"},
	{"helpers/", "Helper Functions"},
	{"config/", "Configuration"},
	{"settings/", "Configuration"},
	{"migrations/", "Database Migrations"},
	{"seeds/", "Database Seeds"},

	{"components/", "UI Components"},
	{"views/", "UI Views"},
	{"pages/", "UI Pages"},
	{"templates/", "UI Templates"},
	{"static/", "Static Assets"},
	{"public/", "Public Assets"},
	{"assets/", "Assets"},
	{"styles/", "Styling"},
	{"css/", "Styling"},
	{"scss/", "Styling"},
	{"sass/", "Styling"},
	{"less/", "Styling"},

	{"tests/", "Tests"},
	{"test/", "Tests"},
	{"spec/", "Tests"},
	{"__tests__/", "Tests"},
	{"test_", "Test File"},
	{".test.", "Test File"},
	{".spec.", "Test File"},

	{"readme", "Documentation"},
	{"docs/", "Documentation"},
	{"documentation/", "Documentation"},
	{"changelog", "Documentation"},
	{"license", "Documentation"},
	{"contributing", "Documentation"},

	{"package.json", "Package Configuration"},
	{"requirements.txt", "Dependencies"},
	{"pyproject.toml", "Python Configuration"},
	{"cargo.toml", "Rust Configuration"},
	{"go.mod", "Go Module"},
	{"pom.xml", "Maven Configuration"},
	{"build.gradle", "Gradle Configuration"},
	{"dockerfile", "Docker Configuration"},
	{"docker-compose", "Docker Configuration"},
	{".env", "Environment Configuration"},
	{".gitignore", "Git Configuration"},
	{".github/", "GitHub Configuration"},
	{"workflows/", "CI/CD Configuration"},

	{"dist/", "Build Output"},
	{"build/", "Build Output"},
	{"out/", "Build Output"},
	{"target/", "Build Output"},
	{"coverage/", "Test Coverage"},
	{"node_modules/", "Dependencies"},

	{"schema/", "Database Schema"},
	{"sql/", "SQL Scripts"},
}

// Role returns the role of the file at relPath.
func Role(relPath string) string {
	lower := strings.ToLower(relPath)
	name := path.Base(lower)
	dirs := strings.Split(path.Dir(lower), "/")

	for _, r := range rules {
		if dir, ok := strings.CutSuffix(r.pattern, "/"); ok {
			for _, d := range dirs {
				if d == dir {
					return r.role
				}
			}
			continue
		}
		if strings.Contains(name, r.pattern) {
			return r.role
		}
	}
	return byExtension(name)
}

func byExtension(name string) string {
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(name, w) {
				return true
			}
		}
		return false
	}
	switch path.Ext(name) {
	case ".js", ".ts", ".jsx", ".tsx":
		switch {
		case has("test", "spec"):
			return "Test File"
		case has("config", "settings"):
			return "Configuration"
		case has("index", "main"):
			return "Entry Point"
		}
		return "JavaScript/TypeScript Code"
	case ".py":
		switch {
		case has("test", "spec"):
			return "Test File"
		case has("config", "settings"):
			return "Configuration"
		case has("main", "__init__"):
			return "Entry Point"
		}
		return "Python Code"
	case ".go":
		switch {
		case has("test"):
			return "Test File"
		case has("main"):
			return "Entry Point"
		}
		return "Go Code"
	case ".rs":
		switch {
		case has("test"):
			return "Test File"
		case has("main"):
			return "Entry Point"
		}
		return "Rust Code"
	case ".html", ".htm":
		return "HTML Template"
	case ".css", ".scss", ".sass", ".less":
		return "Styling"
	case ".json":
		return "Configuration/Data"
	case ".md":
		return "Documentation"
	case ".yml", ".yaml":
		return "Configuration"
	case ".sql":
		return "Database Script"
	case ".sh", ".bash":
		return "Shell Script"
	case ".dockerfile", ".dockerignore":
		return "Docker Configuration"
	}
	return GeneralCode
}

// Assign gives every scannable file a role, in walk order. Files beyond
// MaxKeyFiles are counted in omitted instead of listed.
func Assign(files []walker.FileInfo) (keyFiles []KeyFile, omitted int) {
	keyFiles = []KeyFile{}
	for _, f := range files {
		if !f.Scannable {
			continue
		}
		if len(keyFiles) == MaxKeyFiles {
			omitted++
			continue
		}
		keyFiles = append(keyFiles, KeyFile{Path: f.RelPath, Role: Role(f.RelPath)})
	}
	return keyFiles, omitted
}
