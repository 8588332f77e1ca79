package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repo-onboarder/internal/config"
	"github.com/ziadkadry99/repo-onboarder/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve a generated report over HTTP",
	Long:  `Starts a local web server for a report directory written by "onboarder run" (default: ./onboarding).`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", site.DefaultPort, "port to listen on")
	serveCmd.Flags().Bool("open", false, "open the report in a browser")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow cross-origin requests from any origin")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	dir := config.DefaultConfig().Output.Dir
	if len(args) == 1 {
		dir = args[0]
	}
	port, _ := cmd.Flags().GetInt("port")
	open, _ := cmd.Flags().GetBool("open")
	allowAll, _ := cmd.Flags().GetBool("allow-all-origins")

	srv, err := site.New(site.Config{Dir: dir, Port: port, AllowAll: allowAll, Open: open}, newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving report at %s\n", srv.URL())
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop.")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}
