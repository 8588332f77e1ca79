// Package report renders a RepoSummary into the onboarding artifacts:
// a Markdown overview, a JSON report, Mermaid diagrams and an HTML viewer.
// Every artifact is a pure function of the summary, so two runs over the
// same repository produce identical files.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/repo-onboarder/internal/analyzer"
	"github.com/ziadkadry99/repo-onboarder/internal/diagrams"
	"github.com/ziadkadry99/repo-onboarder/internal/integrations"
)

// Artifact file names, relative to the output directory.
const (
	FileHTML      = "index.html"
	FileMarkdown  = "repo_overview.md"
	FileJSON      = "report.json"
	FileStructure = "mermaid_structure.mmd"
	FileSystems   = "mermaid_systems.mmd"
	FileRoutes    = "mermaid_routes.mmd"
	FileStyle     = "templates/style.css"
)

// NoExplainer is rendered in place of an empty explainer.
const NoExplainer = "LLM explanation not available"

// MaxListedIntegrations bounds the integration table in the overview;
// report.json always carries the full list.
const MaxListedIntegrations = 100

// Write renders every artifact for sum into dir, creating it as needed,
// and returns the paths written.
func Write(dir string, sum *analyzer.RepoSummary) ([]string, error) {
	md, err := Markdown(sum)
	if err != nil {
		return nil, err
	}
	js, err := JSON(sum)
	if err != nil {
		return nil, err
	}
	structure := diagrams.Structure(sum.Tree)
	systems := diagrams.Systems(sum.Systems)
	routes := diagrams.Routes(sum.Routes)
	page, err := HTML(sum, md, structure, systems, routes)
	if err != nil {
		return nil, err
	}

	artifacts := []struct {
		name string
		data []byte
	}{
		{FileJSON, js},
		{FileMarkdown, []byte(md)},
		{FileStructure, []byte(structure)},
		{FileSystems, []byte(systems)},
		{FileRoutes, []byte(routes)},
		{FileHTML, page},
		{FileStyle, []byte(styleCSS)},
	}

	var written []string
	for _, a := range artifacts {
		p := filepath.Join(dir, filepath.FromSlash(a.name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return written, fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(p, a.data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", a.name, err)
		}
		written = append(written, p)
	}
	return written, nil
}

// JSON returns the indented JSON form of sum with a trailing newline.
func JSON(sum *analyzer.RepoSummary) ([]byte, error) {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(data, '\n'), nil
}

var markdownTmpl = template.Must(template.New("overview").Funcs(template.FuncMap{
	"list": func(items []string) string {
		if len(items) == 0 {
			return "Not detected"
		}
		return strings.Join(items, ", ")
	},
	"oneline": func(s string) string {
		return strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "\r", ""), "\n", " "))
	},
	// cell escapes pipes so a value cannot split a table row.
	"cell": func(s string) string {
		return strings.ReplaceAll(s, "|", `\|`)
	},
}).Parse(markdownTemplate))

// Markdown renders the repo_overview.md document.
func Markdown(sum *analyzer.RepoSummary) (string, error) {
	data := struct {
		*analyzer.RepoSummary
		ListedIntegrations []integrations.Integration
		MoreIntegrations   int
		Explainer          string
	}{
		RepoSummary:        sum,
		ListedIntegrations: sum.Integrations[:min(len(sum.Integrations), MaxListedIntegrations)],
		MoreIntegrations:   max(len(sum.Integrations)-MaxListedIntegrations, 0),
		Explainer:          strings.TrimSpace(sum.Explainer),
	}
	if data.Explainer == "" {
		data.Explainer = NoExplainer
	}
	var buf bytes.Buffer
	if err := markdownTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render overview: %w", err)
	}
	return buf.String(), nil
}

var pageTmpl = htmltemplate.Must(htmltemplate.New("page").Parse(pageTemplate))

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// HTML renders the single-page viewer. The overview is converted from
// Markdown here; diagrams are rendered in the browser by mermaid.js.
func HTML(sum *analyzer.RepoSummary, md, structure, systems, routes string) ([]byte, error) {
	var overview bytes.Buffer
	if err := newMarkdown().Convert([]byte(md), &overview); err != nil {
		return nil, fmt.Errorf("convert overview: %w", err)
	}

	data := struct {
		Name      string
		Overview  htmltemplate.HTML
		Markdown  string
		Structure string
		Systems   string
		Routes    string
	}{
		Name:      sum.Name,
		Overview:  htmltemplate.HTML(overview.String()),
		Markdown:  md,
		Structure: structure,
		Systems:   systems,
		Routes:    routes,
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render viewer: %w", err)
	}
	return buf.Bytes(), nil
}
