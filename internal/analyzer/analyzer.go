// Package analyzer runs the detectors over a repository and assembles the
// RepoSummary every report artifact is rendered from.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ziadkadry99/repo-onboarder/internal/config"
	"github.com/ziadkadry99/repo-onboarder/internal/content"
	"github.com/ziadkadry99/repo-onboarder/internal/entrypoints"
	"github.com/ziadkadry99/repo-onboarder/internal/integrations"
	"github.com/ziadkadry99/repo-onboarder/internal/manifest"
	"github.com/ziadkadry99/repo-onboarder/internal/progress"
	"github.com/ziadkadry99/repo-onboarder/internal/roles"
	"github.com/ziadkadry99/repo-onboarder/internal/routes"
	"github.com/ziadkadry99/repo-onboarder/internal/stack"
	"github.com/ziadkadry99/repo-onboarder/internal/walker"
)

// ErrRootNotFound is returned when the repository path does not exist or
// is not a directory.
var ErrRootNotFound = errors.New("repository root not found")

// Counts summarizes the size of the walk.
type Counts struct {
	Files   int `json:"files"`
	Dirs    int `json:"dirs"`
	Scanned int `json:"scanned"`
}

// RepoSummary is everything known about a repository after analysis.
// Lists are never nil so the JSON form is stable.
type RepoSummary struct {
	Name         string                     `json:"name"`
	Stack        stack.Stack                `json:"stack"`
	EntryPoints  []entrypoints.EntryPoint   `json:"entrypoints"`
	Tree         *walker.TreeNode           `json:"tree"`
	TreeText     string                     `json:"tree_text"`
	Counts       Counts                     `json:"counts"`
	Routes       []routes.Route             `json:"routes"`
	Integrations []integrations.Integration `json:"integrations"`
	Systems      []integrations.System      `json:"systems"`
	KeyFiles     []roles.KeyFile            `json:"key_files"`
	RolesOmitted int                        `json:"roles_omitted"`
	Warnings     []string                   `json:"warnings"`
	Explainer    string                     `json:"explainer"`
}

// Analyzer runs one analysis per Analyze call. It is not safe for
// concurrent use.
type Analyzer struct {
	cfg       *config.Config
	logger    *slog.Logger
	extractor *routes.Extractor
	store     *content.Store
	progress  progress.Reporter
	outputDir string
}

// New validates the parts of cfg the analysis depends on and returns an
// Analyzer. Configuration problems wrap config.ErrInvalid.
func New(cfg *config.Config, logger *slog.Logger) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if p, ok := walker.ValidatePatterns(cfg.Ignore); !ok {
		return nil, fmt.Errorf("%w: invalid ignore pattern %q", config.ErrInvalid, p)
	}
	extractor, err := routes.NewExtractor(cfg.RoutesFrameworks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	store, err := content.NewStore(content.DefaultEntries, cfg.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("create content store: %w", err)
	}
	return &Analyzer{
		cfg:       cfg,
		logger:    logger,
		extractor: extractor,
		store:     store,
		progress:  progress.Silent{},
	}, nil
}

// SetProgress sets the reporter used during the content scan.
func (a *Analyzer) SetProgress(r progress.Reporter) {
	if r == nil {
		r = progress.Silent{}
	}
	a.progress = r
}

// SetOutputDir excludes the report directory from analysis when it lies
// inside the repository, so a second run sees the same files as the first.
func (a *Analyzer) SetOutputDir(dir string) {
	a.outputDir = dir
}

// Analyze inspects the repository at root. Only a missing root or a
// cancelled context is an error; everything else is reported as a warning
// in the summary.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*RepoSummary, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	log := a.logger.With("run_id", uuid.NewString(), "root", abs)
	log.Info("analysis started")

	wcfg := walker.WalkerConfig{
		RootDir:        abs,
		Depth:          a.cfg.Depth,
		MaxItemsPerDir: a.cfg.MaxItemsPerDir,
		Ignore:         a.cfg.Ignore,
		MaxFileSize:    a.cfg.MaxFileSize,
	}
	if rel, ok := OutputRel(abs, a.outputDir); ok {
		wcfg.Skip = []string{rel}
		log.Debug("excluding output directory", "path", rel)
	}
	walked, err := walker.Walk(wcfg)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	log.Info("walk complete", "files", walked.TotalFiles, "dirs", walked.TotalDirs)

	sum := &RepoSummary{
		Name:     filepath.Base(abs),
		Tree:     walked.Tree,
		TreeText: walked.Tree.Render(),
		Counts:   Counts{Files: walked.TotalFiles, Dirs: walked.TotalDirs},
		Warnings: append([]string{}, walked.Warnings...),
	}

	manifests, warnings := manifest.Load(a.store, walked.Files)
	sum.Warnings = append(sum.Warnings, warnings...)
	log.Debug("manifests loaded", "count", len(manifests))

	if err := a.scan(ctx, log, walked.Files, sum); err != nil {
		return nil, err
	}

	sum.Stack = stack.Detect(manifests, walked.Files).WithExternals(integrations.Externals(manifests))
	sum.Systems = integrations.Systems(sum.Stack.Externals, sum.Integrations)
	sum.EntryPoints = entrypoints.Find(manifests, walked.Files, a.store)
	sum.KeyFiles, sum.RolesOmitted = roles.Assign(walked.Files)

	for _, w := range sum.Warnings {
		log.Warn(w)
	}
	log.Info("analysis complete",
		"routes", len(sum.Routes),
		"integrations", len(sum.Integrations),
		"entrypoints", len(sum.EntryPoints),
		"warnings", len(sum.Warnings),
	)
	return sum, nil
}

// scan reads every scannable file once and runs the route extractor and
// integration scanner over it.
func (a *Analyzer) scan(ctx context.Context, log *slog.Logger, files []walker.FileInfo, sum *RepoSummary) error {
	var scannable []walker.FileInfo
	for _, f := range files {
		if f.Scannable {
			scannable = append(scannable, f)
		}
	}

	sum.Routes = []routes.Route{}
	sum.Integrations = []integrations.Integration{}

	a.progress.Start(len(scannable))
	defer a.progress.Finish()
	for i, f := range scannable {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("analysis cancelled: %w", err)
		}
		a.progress.Update(i+1, f.RelPath)

		text, err := a.store.ReadString(f.Path)
		if err != nil {
			sum.Warnings = append(sum.Warnings, fmt.Sprintf("skipping %s: %v", f.RelPath, err))
			continue
		}
		sum.Counts.Scanned++

		sum.Routes = append(sum.Routes, a.extractor.Extract(f.RelPath, text)...)
		if integrations.Applies(f.RelPath) {
			sum.Integrations = append(sum.Integrations, integrations.ScanFile(f.RelPath, text)...)
		}
	}
	routes.Sort(sum.Routes)
	integrations.Sort(sum.Integrations)
	log.Debug("content scan complete", "scanned", sum.Counts.Scanned, "cached", a.store.Len())
	return nil
}

// OutputRel returns the output directory dir relative to root when it
// lies inside root. The result is slash-separated, ready for
// walker.WalkerConfig.Skip.
func OutputRel(root, dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	out, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, out)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
