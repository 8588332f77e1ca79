package roles

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ziadkadry99/repo-onboarder/internal/walker"
)

func TestRole(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/routes/users.js", "API Routes"},
		{"app.js", "Main Application"},
		{"server.js", "Server Entry Point"},
		{"auth/middleware/jwt.go", "HTTP Middleware"},
		{"app/models/user.rb", "Data Models"},
		{"web/components/Button.tsx", "UI Components"},
		{"pages/api/health.ts", "UI Pages"},
		{"tests/test_app.py", "Tests"},
		{"pkg/test_helpers.py", "Test File"},
		{"src/user.spec.ts", "Test File"},
		{"README.md", "Documentation"},
		{"package.json", "Package Configuration"},
		{"Cargo.toml", "Rust Configuration"},
		{"Dockerfile", "Docker Configuration"},
		{"docker-compose.yml", "Docker Configuration"},
		{".env.example", "Environment Configuration"},
		{".github/workflows/ci.yml", "GitHub Configuration"},
		{"db/migrations/001_init.sql", "Database Migrations"},
		{"src/config.ts", "Configuration"},
		{"src/main.ts", "Entry Point"},
		{"src/widget.tsx", "JavaScript/TypeScript Code"},
		{"pkg/__init__.py", "Entry Point"},
		{"pkg/settings.py", "Configuration"},
		{"pkg/models.py", "Python Code"},
		{"main.go", "Entry Point"},
		{"store.go", "Go Code"},
		{"src/main.rs", "Entry Point"},
		{"src/parser.rs", "Rust Code"},
		{"index.html", "HTML Template"},
		{"theme.scss", "Styling"},
		{"data.json", "Configuration/Data"},
		{"ARCHITECTURE.md", "Documentation"},
		{"deploy.sh", "Shell Script"},
		{"query.sql", "Database Script"},
		{"Makefile", GeneralCode},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Role(tt.path))
		})
	}
}

func TestRole_DirectoryMatchesWholeSegment(t *testing.T) {
	assert.Equal(t, "Go Code", Role("library/store.go"))
	assert.Equal(t, "Library Code", Role("internal/lib/store.go"))
}

func TestAssign(t *testing.T) {
	files := []walker.FileInfo{
		{RelPath: "main.go", Scannable: true},
		{RelPath: "logo.png", Scannable: false},
		{RelPath: "README.md", Scannable: true},
	}
	got, omitted := Assign(files)
	assert.Equal(t, []KeyFile{
		{Path: "main.go", Role: "Entry Point"},
		{Path: "README.md", Role: "Documentation"},
	}, got)
	assert.Zero(t, omitted)
}

func TestAssign_Cap(t *testing.T) {
	var files []walker.FileInfo
	for i := range MaxKeyFiles + 7 {
		files = append(files, walker.FileInfo{RelPath: fmt.Sprintf("f%03d.go", i), Scannable: true})
	}
	got, omitted := Assign(files)
	assert.Len(t, got, MaxKeyFiles)
	assert.Equal(t, 7, omitted)
	assert.Equal(t, "f119.go", got[len(got)-1].Path)
}

func TestAssign_Empty(t *testing.T) {
	got, omitted := Assign(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, omitted)
}
