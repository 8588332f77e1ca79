package routes

import (
	"regexp"
	"strings"
)

func init() { Register(goDetector{}) }

// goDetector matches route registration in Go routers: gin and echo
// (r.GET), chi and fiber (r.Get), gorilla/mux (HandleFunc(...).Methods)
// and net/http, including Go 1.22 "METHOD /path" patterns.
type goDetector struct{}

var (
	goMethodCallRe = regexp.MustCompile(`\.(GET|POST|PUT|DELETE|PATCH|OPTIONS|HEAD|Any|Get|Post|Put|Delete|Patch|Options|Head|All)\(\s*"(/[^"]*)"`)
	goHandleRe     = regexp.MustCompile(`\b(?:HandleFunc|Handle)\(\s*"(?:(GET|POST|PUT|DELETE|PATCH|OPTIONS|HEAD)\s+)?([^"\s]*/[^"]*)"`)
	goMethodsRe    = regexp.MustCompile(`\.Methods\(([^)]*)\)`)
	goStringRe     = regexp.MustCompile(`"([A-Za-z]+)"`)
)

// goRouterImports identifies the router a file uses, most specific first.
var goRouterImports = []struct{ importPath, framework string }{
	{`"github.com/gin-gonic/gin"`, "gin"},
	{`"github.com/labstack/echo`, "echo"},
	{`"github.com/go-chi/chi`, "chi"},
	{`"github.com/gofiber/fiber`, "fiber"},
	{`"github.com/gorilla/mux"`, "gorilla"},
}

func (goDetector) Name() string { return "go" }

func (goDetector) Applies(relPath string) bool {
	return hasExt(relPath, ".go") && !strings.HasSuffix(relPath, "_test.go")
}

func (goDetector) Detect(relPath, content string) []Route {
	framework := "net/http"
	for _, ri := range goRouterImports {
		if strings.Contains(content, ri.importPath) {
			framework = ri.framework
			break
		}
	}

	var out []Route
	forEachLine(content, func(n int, line string) {
		for _, g := range goMethodCallRe.FindAllStringSubmatch(line, -1) {
			out = append(out, Route{Method: normalizeMethod(g[1]), Path: g[2], Framework: framework, File: relPath, Line: n})
		}
		g := goHandleRe.FindStringSubmatch(line)
		if g == nil {
			return
		}
		methods := []string{normalizeMethod(g[1])}
		if m := goMethodsRe.FindStringSubmatch(line); m != nil {
			methods = methods[:0]
			for _, s := range goStringRe.FindAllStringSubmatch(m[1], -1) {
				methods = append(methods, normalizeMethod(s[1]))
			}
		}
		for _, method := range methods {
			out = append(out, Route{Method: method, Path: g[2], Framework: framework, File: relPath, Line: n})
		}
	})
	return out
}
