package mcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/repo-onboarder/internal/analyzer"
	"github.com/ziadkadry99/repo-onboarder/internal/integrations"
	"github.com/ziadkadry99/repo-onboarder/internal/report"
	"github.com/ziadkadry99/repo-onboarder/internal/routes"
	"github.com/ziadkadry99/repo-onboarder/internal/walker"
)

const defaultFindLimit = 50

// handleAnalyzeRepository returns the full summary in report.json form.
func (s *Server) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	sum, err := s.summary(ctx, root, request.GetBool("refresh", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	data, err := report.JSON(sum)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding summary: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleListRoutes lists routes, optionally filtered by framework and method.
func (s *Server) handleListRoutes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	sum, err := s.summary(ctx, root, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	framework := request.GetString("framework", "")
	method := strings.ToUpper(request.GetString("method", ""))
	var matched []routes.Route
	for _, r := range sum.Routes {
		if framework != "" && !strings.EqualFold(r.Framework, framework) {
			continue
		}
		if method != "" && r.Method != method && r.Method != routes.MethodAny {
			continue
		}
		matched = append(matched, r)
	}

	if len(matched) == 0 {
		return mcp.NewToolResultText("No HTTP routes found."), nil
	}
	return mcp.NewToolResultText(formatRoutes(matched)), nil
}

// handleListIntegrations lists external systems and the signals behind them.
func (s *Server) handleListIntegrations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	sum, err := s.summary(ctx, root, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	kind := integrations.Kind(request.GetString("kind", ""))
	var matched []integrations.Integration
	for _, in := range sum.Integrations {
		if kind == "" || in.Kind == kind {
			matched = append(matched, in)
		}
	}

	if len(sum.Systems) == 0 && len(matched) == 0 {
		return mcp.NewToolResultText("No external systems or integrations found."), nil
	}
	return mcp.NewToolResultText(formatIntegrations(sum.Systems, matched)), nil
}

// handleFindFiles streams the walk and stops as soon as limit matches are
// collected.
func (s *Server) handleFindFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}
	pattern, err := request.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: pattern"), nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid pattern %q", pattern)), nil
	}
	limit := request.GetInt("limit", defaultFindLimit)
	if limit <= 0 {
		limit = defaultFindLimit
	}

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("%s is not a directory", root)), nil
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading config: %v", err)), nil
	}

	var skip []string
	if rel, ok := analyzer.OutputRel(root, cfg.Output.Path(root)); ok {
		skip = []string{rel}
	}

	var found []walker.FileInfo
	truncated := false
	for fi, err := range walker.Seq(walker.WalkerConfig{
		RootDir:     root,
		Ignore:      cfg.Ignore,
		Skip:        skip,
		MaxFileSize: cfg.MaxFileSize,
	}) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError("search cancelled"), nil
		}
		if err != nil {
			s.logger.Warn("find_files", "error", err)
			continue
		}
		if ok, _ := doublestar.Match(pattern, fi.RelPath); !ok {
			continue
		}
		if len(found) == limit {
			truncated = true
			break
		}
		found = append(found, fi)
	}

	if len(found) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No files match %q.", pattern)), nil
	}
	return mcp.NewToolResultText(formatFiles(found, truncated)), nil
}

func formatRoutes(rs []routes.Route) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d route(s):\n", len(rs))
	for _, r := range rs {
		fmt.Fprintf(&sb, "%-7s %s  (%s) %s:%d\n", r.Method, r.Path, r.Framework, r.File, r.Line)
	}
	return sb.String()
}

func formatIntegrations(systems []integrations.System, found []integrations.Integration) string {
	var sb strings.Builder
	if len(systems) > 0 {
		sb.WriteString("External systems:\n")
		for _, sys := range systems {
			fmt.Fprintf(&sb, "- %s: %s", sys.Name, sys.Description)
			if len(sys.Signals) > 0 {
				fmt.Fprintf(&sb, " [%s]", strings.Join(sys.Signals, ", "))
			}
			sb.WriteString("\n")
		}
	}
	if len(found) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Found %d integration(s):\n", len(found))
		for _, in := range found {
			fmt.Fprintf(&sb, "%-8s %s", in.Kind, in.Value)
			if in.Service != "" {
				fmt.Fprintf(&sb, " -> %s", in.Service)
			}
			fmt.Fprintf(&sb, "  %s:%d\n", in.File, in.Line)
		}
	}
	return sb.String()
}

func formatFiles(files []walker.FileInfo, truncated bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d file(s):\n", len(files))
	for _, fi := range files {
		fmt.Fprintf(&sb, "%s (%s, %d bytes)\n", fi.RelPath, fi.Language, fi.Size)
	}
	if truncated {
		sb.WriteString("More files match; raise limit to see them.\n")
	}
	return sb.String()
}
