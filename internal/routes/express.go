package routes

import (
	"regexp"
)

func init() { Register(expressDetector{}) }

// expressDetector matches Express-style router calls such as
// app.get('/users', h), userRouter.post(`/x`, h) and
// router.route('/books').get(h).post(h).
type expressDetector struct{}

var (
	expressCallRe  = regexp.MustCompile(`\b(?:app|router|server|api|[A-Za-z_$][\w$]*Router)\.(` + httpMethods + `|all)\s*\(\s*` + quoted)
	expressRouteRe = regexp.MustCompile(`\b(?:app|router|[A-Za-z_$][\w$]*Router)\.route\s*\(\s*` + quoted + `\s*\)`)
	expressChainRe = regexp.MustCompile(`\.(` + httpMethods + `|all)\s*\(`)
)

func (expressDetector) Name() string { return "express" }

func (expressDetector) Applies(relPath string) bool {
	return hasExt(relPath, ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs")
}

func (expressDetector) Detect(relPath, content string) []Route {
	var out []Route
	forEachLine(content, func(n int, line string) {
		for _, g := range expressCallRe.FindAllStringSubmatch(line, -1) {
			out = append(out, Route{
				Method:    normalizeMethod(g[1]),
				Path:      g[2],
				Framework: "express",
				File:      relPath,
				Line:      n,
			})
		}
		if loc := expressRouteRe.FindStringSubmatchIndex(line); loc != nil {
			p := line[loc[2]:loc[3]]
			for _, g := range expressChainRe.FindAllStringSubmatch(line[loc[1]:], -1) {
				out = append(out, Route{
					Method:    normalizeMethod(g[1]),
					Path:      p,
					Framework: "express",
					File:      relPath,
					Line:      n,
				})
			}
		}
	})
	return out
}
