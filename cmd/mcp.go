package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/repo-onboarder/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the
analyze_repository, list_routes, list_integrations and find_files tools.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Stdout carries the protocol; everything else goes to stderr.
		mcpserver.Version = Version
		fmt.Fprintln(cmd.ErrOrStderr(), "onboarder MCP server started on stdio")

		srv := mcpserver.NewServer(newLogger(cmd.ErrOrStderr()))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
