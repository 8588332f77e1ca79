package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repo-onboarder/internal/analyzer"
	"github.com/ziadkadry99/repo-onboarder/internal/config"
	"github.com/ziadkadry99/repo-onboarder/internal/explainer"
	"github.com/ziadkadry99/repo-onboarder/internal/gitclone"
	"github.com/ziadkadry99/repo-onboarder/internal/llm"
	"github.com/ziadkadry99/repo-onboarder/internal/progress"
	"github.com/ziadkadry99/repo-onboarder/internal/report"
)

// runOptions holds the flags of the run command.
type runOptions struct {
	configFile string
	outputDir  string
	noLLM      bool
	loadEnv    bool
	provider   string
	model      string
	clone      bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run <path|github-url>",
	Short: "Analyze a repository and write the onboarding report",
	Long: `Walks the repository at <path>, detects its stack, routes, integrations
and entry points, and writes index.html, repo_overview.md, report.json and
Mermaid diagrams to the output directory. The repository is only read.

A https://github.com/... or git@github.com: URL (or any owner/repo with
--clone) is shallow-cloned into a temporary directory first. The report is
then written under the current directory and the clone is removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runOpts.configFile, "config", "c", "", "config file path (default <path>/.onboarder.yml)")
	runCmd.Flags().StringVarP(&runOpts.outputDir, "output", "o", "", "output directory (default <path>/<output.dir>, or ./<output.dir> when cloning)")
	runCmd.Flags().BoolVar(&runOpts.noLLM, "no-llm", false, "skip the LLM explainer")
	runCmd.Flags().BoolVar(&runOpts.loadEnv, "load-env", false, "load API keys from .env files")
	runCmd.Flags().StringVar(&runOpts.provider, "provider", "", "LLM provider: anthropic, openai or ollama (overrides config)")
	runCmd.Flags().StringVar(&runOpts.model, "model", "", "LLM model (overrides config)")
	runCmd.Flags().BoolVar(&runOpts.clone, "clone", false, "treat <path> as a GitHub repository and clone it")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	start := time.Now()
	root := args[0]
	logger := newLogger(cmd.ErrOrStderr())

	// A cloned checkout is removed on exit, so the report and .env files
	// come from the working directory instead.
	base := root
	if runOpts.clone || gitclone.IsGitHubURL(root) {
		checkout, err := gitclone.Clone(cmd.Context(), root, logger)
		if err != nil {
			return err
		}
		defer checkout.Close()
		fmt.Fprintf(cmd.OutOrStdout(), "Cloned %s\n", checkout.URL)
		root, base = checkout.Dir, "."
	}

	if runOpts.loadEnv {
		loaded, err := loadEnv(base)
		if err != nil {
			return err
		}
		logger.Debug("environment loaded", "files", loaded)
	}

	cfg, err := loadConfig(runOpts.configFile, root)
	if err != nil {
		return err
	}
	applyRunOverrides(cfg, runOpts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	outputDir := runOpts.outputDir
	if outputDir == "" {
		outputDir = cfg.Output.Path(base)
	}

	a, err := analyzer.New(cfg, logger)
	if err != nil {
		return err
	}
	a.SetOutputDir(outputDir)
	a.SetProgress(progress.NewReporter())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sum, err := a.Analyze(ctx, root)
	if err != nil {
		return err
	}

	explained := "skipped"
	if cfg.LLM.Enabled {
		explain(ctx, cfg, logger, sum)
		explained = "unavailable"
		if sum.Explainer != "" {
			explained = fmt.Sprintf("generated (%s)", cfg.LLM.Model)
		}
	}

	written, err := report.Write(outputDir, sum)
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logger.Debug("report written", "files", written)

	printRunSummary(cmd.OutOrStdout(), cmd.ErrOrStderr(), sum, outputDir, explained, time.Since(start))
	return nil
}

// applyRunOverrides folds command-line flags into cfg. A provider given
// without a model selects that provider's default model.
func applyRunOverrides(cfg *config.Config, opts runOptions) {
	if opts.provider != "" {
		cfg.LLM.Provider = config.ProviderType(opts.provider)
		if opts.model == "" {
			cfg.LLM.Model = config.DefaultModel(cfg.LLM.Provider)
		}
	}
	if opts.model != "" {
		cfg.LLM.Model = opts.model
	}
	if opts.noLLM {
		cfg.LLM.Enabled = false
	}
}

// explain fills sum.Explainer. A provider that cannot be created is a
// warning, never a failure.
func explain(ctx context.Context, cfg *config.Config, logger *slog.Logger, sum *analyzer.RepoSummary) {
	provider, err := llm.NewProvider(cfg.LLM.Provider, cfg.LLM.Model)
	if err != nil {
		logger.Warn("explainer unavailable", "error", err)
		sum.Warnings = append(sum.Warnings, fmt.Sprintf("explainer unavailable: %v", err))
		return
	}
	explainer.New(provider, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Timeout, logger).Fill(ctx, sum)
}

func printRunSummary(out, errOut io.Writer, sum *analyzer.RepoSummary, outputDir, explained string, duration time.Duration) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Onboarding report complete!")
	fmt.Fprintf(out, "  Repository:    %s\n", sum.Name)
	fmt.Fprintf(out, "  Files:         %d in %d directories (%d scanned)\n", sum.Counts.Files, sum.Counts.Dirs, sum.Counts.Scanned)
	fmt.Fprintf(out, "  Entry points:  %d\n", len(sum.EntryPoints))
	fmt.Fprintf(out, "  Routes:        %d\n", len(sum.Routes))
	fmt.Fprintf(out, "  Integrations:  %d (%d systems)\n", len(sum.Integrations), len(sum.Systems))
	fmt.Fprintf(out, "  Explainer:     %s\n", explained)
	fmt.Fprintf(out, "  Duration:      %s\n", duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  Output:        %s\n", filepath.Join(outputDir, report.FileHTML))

	if len(sum.Warnings) > 0 {
		fmt.Fprintf(errOut, "\nWarnings (%d):\n", len(sum.Warnings))
		for _, w := range sum.Warnings {
			fmt.Fprintf(errOut, "  - %s\n", w)
		}
	}
}
