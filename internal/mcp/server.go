// Package mcp exposes repository analysis to MCP clients over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/repo-onboarder/internal/analyzer"
	"github.com/ziadkadry99/repo-onboarder/internal/config"
)

// Version is set via ldflags at build time.
var Version = "dev"

// summaryCacheSize bounds how many analyzed repositories are remembered.
const summaryCacheSize = 16

// Server wraps an MCP server that exposes repository analysis tools.
type Server struct {
	logger *slog.Logger
	mcp    *server.MCPServer

	// mu serializes analyses; an Analyzer is not safe for concurrent use.
	mu        sync.Mutex
	summaries *lru.Cache[string, *analyzer.RepoSummary]
}

// NewServer creates a new MCP server. Logs must not go to stdout.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	summaries, _ := lru.New[string, *analyzer.RepoSummary](summaryCacheSize)
	s := &Server{
		logger:    logger,
		summaries: summaries,
	}

	s.mcp = server.NewMCPServer(
		"onboarder",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(analyzeRepositoryTool, s.handleAnalyzeRepository)
	s.mcp.AddTool(listRoutesTool, s.handleListRoutes)
	s.mcp.AddTool(listIntegrationsTool, s.handleListIntegrations)
	s.mcp.AddTool(findFilesTool, s.handleFindFiles)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// loadConfig reads the repository's own .onboarder.yml when present.
func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(root, config.DefaultFileName))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// summary analyzes root, reusing an earlier result unless refresh is set.
// The explainer never runs here.
func (s *Server) summary(ctx context.Context, root string, refresh bool) (*analyzer.RepoSummary, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !refresh {
		if sum, ok := s.summaries.Get(abs); ok {
			return sum, nil
		}
	}

	cfg, err := loadConfig(abs)
	if err != nil {
		return nil, err
	}
	a, err := analyzer.New(cfg, s.logger)
	if err != nil {
		return nil, err
	}
	a.SetOutputDir(cfg.Output.Path(abs))

	sum, err := a.Analyze(ctx, abs)
	if err != nil {
		return nil, err
	}
	s.summaries.Add(abs, sum)
	return sum, nil
}
