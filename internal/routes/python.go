package routes

import (
	"regexp"
	"strings"
)

func init() {
	Register(flaskDetector{})
	Register(fastapiDetector{})
}

var (
	flaskImportRe    = regexp.MustCompile(`(?m)^\s*(?:from\s+flask\b|import\s+flask\b)`)
	flaskRouteRe     = regexp.MustCompile(`^\s*@(\w+)\.route\s*\(\s*[rb]?` + quoted + `(.*)`)
	flaskMethodsRe   = regexp.MustCompile(`methods\s*=\s*[\[(]([^\])]*)[\])]`)
	flaskBlueprintRe = regexp.MustCompile(`(\w+)\s*=\s*Blueprint\s*\(.*url_prefix\s*=\s*` + quoted)
	pyShortcutRe     = regexp.MustCompile(`^\s*@(\w+)\.(` + httpMethods + `|api_route|websocket)\s*\(\s*[rb]?` + quoted)
	fastapiRouterRe  = regexp.MustCompile(`(\w+)\s*=\s*APIRouter\s*\(.*prefix\s*=\s*` + quoted)
	pyStringRe       = regexp.MustCompile(`["']([A-Za-z]+)["']`)
)

// flaskDetector matches @app.route decorators (expanding methods=[...],
// defaulting to GET) and, in files importing flask, the @app.get style
// shortcuts.
type flaskDetector struct{}

func (flaskDetector) Name() string { return "flask" }

func (flaskDetector) Applies(relPath string) bool { return hasExt(relPath, ".py") }

func (flaskDetector) Detect(relPath, content string) []Route {
	shortcuts := flaskImportRe.MatchString(content)
	bp := prefixes(content, flaskBlueprintRe)

	var out []Route
	forEachLine(content, func(n int, line string) {
		if g := flaskRouteRe.FindStringSubmatch(line); g != nil {
			methods := []string{"GET"}
			if m := flaskMethodsRe.FindStringSubmatch(g[3]); m != nil {
				methods = methods[:0]
				for _, s := range pyStringRe.FindAllStringSubmatch(m[1], -1) {
					methods = append(methods, normalizeMethod(s[1]))
				}
			}
			for _, method := range methods {
				out = append(out, Route{Method: method, Path: bp[g[1]] + g[2], Framework: "flask", File: relPath, Line: n})
			}
			return
		}
		if !shortcuts {
			return
		}
		if g := pyShortcutRe.FindStringSubmatch(line); g != nil && g[2] != "api_route" && g[2] != "websocket" {
			out = append(out, Route{Method: normalizeMethod(g[2]), Path: bp[g[1]] + g[3], Framework: "flask", File: relPath, Line: n})
		}
	})
	return out
}

// fastapiDetector matches @app.get("/x") style decorators, honouring
// APIRouter(prefix=...). Files importing flask are left to flaskDetector.
type fastapiDetector struct{}

func (fastapiDetector) Name() string { return "fastapi" }

func (fastapiDetector) Applies(relPath string) bool { return hasExt(relPath, ".py") }

func (fastapiDetector) Detect(relPath, content string) []Route {
	if flaskImportRe.MatchString(content) {
		return nil
	}
	routers := prefixes(content, fastapiRouterRe)

	var out []Route
	forEachLine(content, func(n int, line string) {
		g := pyShortcutRe.FindStringSubmatch(line)
		if g == nil {
			return
		}
		method := g[2]
		switch method {
		case "api_route":
			method = MethodAny
		case "websocket":
			method = "WS"
		}
		out = append(out, Route{
			Method:    normalizeMethod(method),
			Path:      routers[g[1]] + g[3],
			Framework: "fastapi",
			File:      relPath,
			Line:      n,
		})
	})
	return out
}

func init() { Register(djangoDetector{}) }

var (
	djangoPathRe = regexp.MustCompile(`\b(?:re_path|path|url)\s*\(\s*r?` + quoted)
	djangoURLsRe = regexp.MustCompile(`\burlpatterns\b`)
)

// djangoDetector matches path()/re_path()/url() entries in URL confs.
// Django routes do not name a method, so they are reported as ANY.
type djangoDetector struct{}

func (djangoDetector) Name() string { return "django" }

func (djangoDetector) Applies(relPath string) bool { return hasExt(relPath, ".py") }

func (djangoDetector) Detect(relPath, content string) []Route {
	if !strings.HasSuffix(relPath, "urls.py") && !djangoURLsRe.MatchString(content) {
		return nil
	}
	var out []Route
	forEachLine(content, func(n int, line string) {
		for _, g := range djangoPathRe.FindAllStringSubmatch(line, -1) {
			p := strings.TrimPrefix(g[1], "^")
			if !strings.HasPrefix(p, "/") {
				p = "/" + p
			}
			out = append(out, Route{Method: MethodAny, Path: p, Framework: "django", File: relPath, Line: n})
		}
	})
	return out
}
