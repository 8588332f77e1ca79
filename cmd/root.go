package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "onboarder",
	Short: "Generate an onboarding report for an unfamiliar repository",
	Long: `Onboarder walks a repository without modifying it and writes a static
report: tech stack, entry points, directory structure, HTTP routes,
external integrations and key files, with Mermaid diagrams and an
optional LLM-written explainer.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
