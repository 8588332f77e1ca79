package mcp

import "github.com/mark3labs/mcp-go/mcp"

// analyzeRepositoryTool defines the analyze_repository MCP tool.
var analyzeRepositoryTool = mcp.NewTool("analyze_repository",
	mcp.WithDescription("Analyze a local repository and return the full onboarding summary as JSON: tech stack, entry points, structure, HTTP routes, integrations and key files."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the repository root"),
	),
	mcp.WithBoolean("refresh",
		mcp.Description("Re-analyze even if a cached result exists"),
	),
)

// listRoutesTool defines the list_routes MCP tool.
var listRoutesTool = mcp.NewTool("list_routes",
	mcp.WithDescription("List the HTTP routes declared in a repository with their source location."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the repository root"),
	),
	mcp.WithString("framework",
		mcp.Description("Only list routes from this framework, e.g. express, flask, nextjs or gin"),
	),
	mcp.WithString("method",
		mcp.Description("Only list routes with this HTTP method, e.g. GET"),
	),
)

// listIntegrationsTool defines the list_integrations MCP tool.
var listIntegrationsTool = mcp.NewTool("list_integrations",
	mcp.WithDescription("List external systems and the environment variables, hostnames and SDK imports that reference them."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the repository root"),
	),
	mcp.WithString("kind",
		mcp.Description("Only list integrations found by this signal"),
		mcp.Enum("env", "hostname", "sdk"),
	),
)

// findFilesTool defines the find_files MCP tool.
var findFilesTool = mcp.NewTool("find_files",
	mcp.WithDescription("Find files in a repository whose relative path matches a glob such as **/*.go. Ignored directories are skipped."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the repository root"),
	),
	mcp.WithString("pattern",
		mcp.Required(),
		mcp.Description("Glob matched against slash-separated relative paths (supports **)"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of files to return (default 50)"),
	),
)
