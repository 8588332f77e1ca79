package report

const markdownTemplate = `# Repository Overview: {{ .Name }}

## Tech Snapshot

**Languages:** {{ list .Stack.Languages }}{{ if eq .Stack.LanguageSource "extension" }} _(from file extensions)_{{ end }}
**Frameworks:** {{ list .Stack.Frameworks }}
**Package Managers:** {{ list .Stack.Managers }}
**Runtimes:** {{ list .Stack.Runtimes }}

**Files:** {{ .Counts.Files }} in {{ .Counts.Dirs }} directories ({{ .Counts.Scanned }} scanned)

## Entrypoints & Startup Scripts
{{ if .EntryPoints }}
{{ range .EntryPoints }}- ` + "`{{ .Path }}`" + ` ({{ .Reason }})
{{ end }}{{ else }}
No entrypoints detected
{{ end }}
### Scripts
{{ if .Stack.Scripts }}
{{ range $name, $cmd := .Stack.Scripts }}- ` + "`{{ $name }}`" + `: {{ oneline $cmd }}
{{ end }}{{ else }}
No scripts found
{{ end }}
## Project Structure

` + "```text" + `
{{ .Name }}/
{{ .TreeText }}
` + "```" + `

## HTTP Routes
{{ if .Routes }}
| Method | Path | Framework | Source |
|--------|------|-----------|--------|
{{ range .Routes }}| **{{ .Method }}** | ` + "`{{ cell .Path }}`" + ` | {{ .Framework }} | ` + "`{{ cell .File }}:{{ .Line }}`" + ` |
{{ end }}{{ else }}
No routes detected
{{ end }}
## External Systems & Integrations

**Dependencies:** {{ if .Stack.Externals }}{{ list .Stack.Externals }}{{ else }}None detected{{ end }}
{{ if .Systems }}
{{ range .Systems }}- **{{ .Name }}**{{ if .Description }}: {{ .Description }}{{ end }}
{{ end }}{{ else }}
No external systems detected
{{ end }}{{ if .ListedIntegrations }}
| Kind | Value | Service | Source |
|------|-------|---------|--------|
{{ range .ListedIntegrations }}| {{ .Kind }} | ` + "`{{ cell .Value }}`" + ` | {{ cell .Service }} | ` + "`{{ cell .File }}:{{ .Line }}`" + ` |
{{ end }}{{ if .MoreIntegrations }}
_... and {{ .MoreIntegrations }} more in report.json_
{{ end }}{{ end }}
## Key Files & Roles
{{ if .KeyFiles }}
{{ range .KeyFiles }}- ` + "`{{ .Path }}`" + ` - {{ .Role }}
{{ end }}{{ if .RolesOmitted }}- ... and {{ .RolesOmitted }} more files
{{ end }}{{ else }}
No files scanned
{{ end }}{{ if .Warnings }}
## Warnings

{{ range .Warnings }}- {{ . }}
{{ end }}{{ end }}
## High-Level Explainer

{{ .Explainer }}
`

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{ .Name }} · Repository Onboarding</title>
  <link rel="stylesheet" href="templates/style.css">
  <script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
</head>
<body>
  <div class="container">
    <header>
      <h1>Repository Onboarding</h1>
      <p>{{ .Name }}</p>
    </header>

    <nav class="tabs">
      <button class="tab-button active" data-tab="overview">Overview</button>
      <button class="tab-button" data-tab="structure">Structure</button>
      <button class="tab-button" data-tab="routes">HTTP Routes</button>
      <button class="tab-button" data-tab="systems">External Systems</button>
      <button class="tab-button" data-tab="raw">Raw Markdown</button>
    </nav>

    <div id="overview" class="tab-content active">
      <article class="markdown">{{ .Overview }}</article>
    </div>
    <div id="structure" class="tab-content">
      <h2>Project Structure</h2>
      <div id="structure-diagram" class="diagram"></div>
    </div>
    <div id="routes" class="tab-content">
      <h2>HTTP Routes</h2>
      <div id="routes-diagram" class="diagram"></div>
    </div>
    <div id="systems" class="tab-content">
      <h2>External Systems</h2>
      <div id="systems-diagram" class="diagram"></div>
    </div>
    <div id="raw" class="tab-content">
      <h2>Raw Markdown</h2>
      <pre id="raw-markdown">{{ .Markdown }}</pre>
    </div>
  </div>

  <script>
    const diagrams = {
      "structure-diagram": {{ .Structure }},
      "routes-diagram": {{ .Routes }},
      "systems-diagram": {{ .Systems }},
    };

    document.addEventListener('DOMContentLoaded', function () {
      mermaid.initialize({ startOnLoad: false });
      Object.entries(diagrams).forEach(function ([id, source], i) {
        const el = document.getElementById(id);
        if (!source.trim()) {
          el.innerHTML = '<p>(none)</p>';
          return;
        }
        mermaid.render('diagram-svg-' + i, source).then(function ({ svg }) {
          el.innerHTML = svg;
        }).catch(function (err) {
          console.error(id, err);
          el.innerHTML = '<p>Error rendering diagram</p>';
        });
      });

      document.querySelectorAll('.tab-button').forEach(function (btn) {
        btn.addEventListener('click', function () {
          document.querySelectorAll('.tab-content, .tab-button').forEach(function (el) {
            el.classList.remove('active');
          });
          document.getElementById(btn.dataset.tab).classList.add('active');
          btn.classList.add('active');
        });
      });
    });
  </script>
</body>
</html>
`

const styleCSS = `/* Repository onboarding viewer */
* {
  margin: 0;
  padding: 0;
  box-sizing: border-box;
}

body {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
  line-height: 1.6;
  color: #333;
  background: #f8f9fa;
}

.container {
  max-width: 1200px;
  margin: 0 auto;
  padding: 20px;
}

header {
  text-align: center;
  margin-bottom: 30px;
  padding: 20px;
  background: white;
  border-radius: 8px;
  box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
}

h1 {
  color: #2c3e50;
  margin-bottom: 10px;
}

.tabs {
  display: flex;
  margin-bottom: 20px;
  background: white;
  border-radius: 8px;
  box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
  overflow: hidden;
}

.tab-button {
  flex: 1;
  padding: 15px 20px;
  border: none;
  background: white;
  cursor: pointer;
  transition: background 0.2s;
  font-size: 14px;
  font-weight: 500;
}

.tab-button:hover {
  background: #f8f9fa;
}

.tab-button.active {
  background: #007bff;
  color: white;
}

.tab-content {
  display: none;
  background: white;
  padding: 30px;
  border-radius: 8px;
  box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
}

.tab-content.active {
  display: block;
}

h2 {
  color: #2c3e50;
  margin: 20px 0;
  padding-bottom: 10px;
  border-bottom: 2px solid #e9ecef;
}

h3 {
  color: #495057;
  margin: 20px 0 10px 0;
}

ul, ol {
  margin: 10px 0 20px 20px;
}

li {
  margin: 5px 0;
}

table {
  border-collapse: collapse;
  margin: 10px 0 20px;
  width: 100%;
}

th, td {
  border: 1px solid #e9ecef;
  padding: 6px 10px;
  text-align: left;
}

code {
  background: #f8f9fa;
  padding: 2px 6px;
  border-radius: 4px;
  font-family: 'Monaco', 'Menlo', monospace;
  font-size: 13px;
}

pre {
  background: #f8f9fa;
  padding: 15px;
  border-radius: 4px;
  overflow-x: auto;
  margin: 10px 0;
}

pre code {
  background: none;
  padding: 0;
}

#raw-markdown {
  white-space: pre-wrap;
  font-family: 'Monaco', 'Menlo', monospace;
  font-size: 12px;
  line-height: 1.4;
}

.diagram {
  text-align: center;
  margin: 20px 0;
}

@media (max-width: 768px) {
  .container {
    padding: 10px;
  }

  .tabs {
    flex-direction: column;
  }

  .tab-button {
    border-bottom: 1px solid #e9ecef;
  }

  .tab-content {
    padding: 20px;
  }
}
`
