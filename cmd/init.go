package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repo-onboarder/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize onboarder configuration with an interactive wizard",
	Long:  `Runs an interactive wizard and writes a .onboarder.yml file into dir (default: the current directory).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		_, err := config.RunWizard(dir)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
