package routes

import (
	"regexp"
	"strings"
)

func init() { Register(nextjsDetector{}) }

// nextjsDetector derives routes from Next.js file-system routing:
// pages/api/** handlers (any method) and app/**/route.ts handlers (one
// route per exported method).
type nextjsDetector struct{}

var nextjsExportRe = regexp.MustCompile(`^\s*export\s+(?:async\s+function|function|const)\s+(GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS)\b`)

var nextjsExts = []string{".js", ".jsx", ".ts", ".tsx", ".mjs"}

func (nextjsDetector) Name() string { return "nextjs" }

func (nextjsDetector) Applies(relPath string) bool {
	if !hasExt(relPath, nextjsExts...) {
		return false
	}
	_, ok := pagesAPIPath(relPath)
	if !ok {
		_, ok = appRouterPath(relPath)
	}
	return ok
}

func (nextjsDetector) Detect(relPath, content string) []Route {
	if p, ok := pagesAPIPath(relPath); ok {
		return []Route{{Method: MethodAny, Path: p, Framework: "nextjs", File: relPath, Line: 1}}
	}
	p, ok := appRouterPath(relPath)
	if !ok {
		return nil
	}
	var out []Route
	forEachLine(content, func(n int, line string) {
		if g := nextjsExportRe.FindStringSubmatch(line); g != nil {
			out = append(out, Route{Method: g[1], Path: p, Framework: "nextjs", File: relPath, Line: n})
		}
	})
	return out
}

// pagesAPIPath maps pages/api/users/[id].ts to /api/users/:id.
func pagesAPIPath(relPath string) (string, bool) {
	segs := strings.Split(stripExt(relPath), "/")
	for i := 0; i+1 < len(segs); i++ {
		if segs[i] == "pages" && segs[i+1] == "api" && (i == 0 || segs[i-1] == "src") {
			rest := segs[i+1:]
			if rest[len(rest)-1] == "index" {
				rest = rest[:len(rest)-1]
			}
			return routePath(rest), true
		}
	}
	return "", false
}

// appRouterPath maps app/(shop)/users/[id]/route.ts to /users/:id.
func appRouterPath(relPath string) (string, bool) {
	segs := strings.Split(stripExt(relPath), "/")
	if len(segs) < 2 || segs[len(segs)-1] != "route" {
		return "", false
	}
	for i := 0; i < len(segs)-1; i++ {
		if segs[i] == "app" && (i == 0 || segs[i-1] == "src") {
			return routePath(segs[i+1 : len(segs)-1]), true
		}
	}
	return "", false
}

// routePath joins file-system segments into a URL path, dropping route
// groups and parallel-route slots and turning dynamic segments into
// :params (catch-alls into *params).
func routePath(segs []string) string {
	var parts []string
	for _, s := range segs {
		switch {
		case s == "" || strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") || strings.HasPrefix(s, "@"):
			continue
		case strings.HasPrefix(s, "[[...") || strings.HasPrefix(s, "[..."):
			parts = append(parts, "*"+strings.Trim(s, "[]."))
		case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
			parts = append(parts, ":"+strings.Trim(s, "[]"))
		default:
			parts = append(parts, s)
		}
	}
	return "/" + strings.Join(parts, "/")
}

func stripExt(p string) string {
	if i := strings.LastIndex(p, "."); i > strings.LastIndex(p, "/") {
		return p[:i]
	}
	return p
}
