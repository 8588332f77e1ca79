package walker

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultMaxFileSize is the largest file whose content is scanned (100 KB).
const DefaultMaxFileSize int64 = 100_000

// ErrNotDirectory is returned when the root path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// FileInfo holds metadata about a single file discovered during traversal.
type FileInfo struct {
	Path      string `json:"-"`        // Absolute path on disk.
	RelPath   string `json:"path"`     // Slash-separated path relative to the root.
	Name      string `json:"name"`     // Base name.
	Ext       string `json:"ext"`      // Lower-cased extension including the dot.
	Size      int64  `json:"size"`     // Size in bytes.
	Language  string `json:"language"` // Detected language, "unknown" when unrecognized.
	IsTest    bool   `json:"is_test"`
	Scannable bool   `json:"-"` // Text file within the size limit.
}

// WalkerConfig controls the behaviour of Walk and Seq.
type WalkerConfig struct {
	RootDir        string   // Root directory to walk.
	Depth          int      // Levels listed in the tree view (0 = unlimited).
	MaxItemsPerDir int      // Children listed per directory node (0 = unlimited).
	Ignore         []string // Glob patterns matched against names and relative paths.
	Skip           []string // Exact relative paths excluded, e.g. the report output directory.
	MaxFileSize    int64    // Files larger than this are not scannable (0 = default).
}

// Result is the outcome of a full walk.
type Result struct {
	Files      []FileInfo
	Tree       *TreeNode
	Warnings   []string
	TotalFiles int
	TotalDirs  int
}

// Walk traverses the directory tree rooted at cfg.RootDir. Every file that
// is not ignored is returned in Files regardless of depth or per-directory
// caps; those limits only shape the Tree view. Unreadable directories are
// recorded as warnings.
func Walk(cfg WalkerConfig) (*Result, error) {
	w, err := newWalk(cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	w.visit = func(fi FileInfo) bool {
		res.Files = append(res.Files, fi)
		return true
	}
	w.warn = func(rel string, err error) bool {
		res.Warnings = append(res.Warnings, fmt.Sprintf("cannot read %s: %v", displayPath(rel), err))
		return true
	}

	res.Tree = &TreeNode{Name: filepath.Base(w.root), Type: NodeDir, Path: "."}
	res.Tree.FileCount = w.dir(w.root, "", 0, res.Tree)
	res.TotalFiles = w.files
	res.TotalDirs = w.dirs
	return res, nil
}

// Seq returns a lazy sequence of the files under cfg.RootDir in the same
// order Walk reports them. Each call re-walks from scratch; stopping the
// range loop stops the traversal. Unreadable directories are yielded as
// errors and traversal continues.
func Seq(cfg WalkerConfig) iter.Seq2[FileInfo, error] {
	return func(yield func(FileInfo, error) bool) {
		w, err := newWalk(cfg)
		if err != nil {
			yield(FileInfo{}, err)
			return
		}
		w.visit = func(fi FileInfo) bool { return yield(fi, nil) }
		w.warn = func(rel string, err error) bool {
			return yield(FileInfo{}, fmt.Errorf("walker: read %s: %w", displayPath(rel), err))
		}
		w.dir(w.root, "", 0, nil)
	}
}

type walk struct {
	cfg       WalkerConfig
	root      string
	maxSize   int64
	gitignore []gitignoreRule
	visit     func(FileInfo) bool
	warn      func(rel string, err error) bool
	stopped   bool
	files     int
	dirs      int
}

func newWalk(cfg WalkerConfig) (*walk, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walker: %s: %w", root, ErrNotDirectory)
	}

	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &walk{cfg: cfg, root: root, maxSize: maxSize, gitignore: loadGitignore(root)}, nil
}

// dir walks one directory. node is nil when the directory is not part of
// the tree view (too deep, past the per-directory cap, or Seq mode); its
// contents are still visited. It returns the number of files beneath.
func (w *walk) dir(abs, rel string, depth int, node *TreeNode) int {
	entries, err := os.ReadDir(abs)
	if err != nil {
		if node != nil {
			node.Unreadable = true
		}
		if !w.warn(rel, err) {
			w.stopped = true
		}
		return 0
	}

	// Ignore and .gitignore patterns are applied before descending.
	kept := entries[:0]
	for _, e := range entries {
		childRel := joinRel(rel, e.Name())
		if MatchesAny(childRel, w.cfg.Ignore) || slices.Contains(w.cfg.Skip, childRel) ||
			matchesGitignore(childRel, e.IsDir(), w.gitignore) {
			continue
		}
		if e.IsDir() || e.Type().IsRegular() {
			kept = append(kept, e)
		}
	}

	listing := node != nil && (w.cfg.Depth <= 0 || depth < w.cfg.Depth)
	var visible int
	for _, e := range kept {
		if !isHidden(e.Name()) {
			visible++
		}
	}
	if node != nil {
		node.TotalItems = visible
	}

	var listed, count int
	for _, e := range kept {
		if w.stopped {
			break
		}
		name := e.Name()
		childAbs := filepath.Join(abs, name)
		childRel := joinRel(rel, name)

		var child *TreeNode
		if listing && !isHidden(name) && (w.cfg.MaxItemsPerDir <= 0 || listed < w.cfg.MaxItemsPerDir) {
			child = &TreeNode{Name: name, Path: childRel, Type: NodeFile}
			if e.IsDir() {
				child.Type = NodeDir
			}
			node.Children = append(node.Children, child)
			listed++
		}

		if e.IsDir() {
			w.dirs++
			n := w.dir(childAbs, childRel, depth+1, child)
			if child != nil {
				child.FileCount = n
			}
			count += n
			continue
		}

		fi, err := w.file(childAbs, childRel, e)
		if err != nil {
			if !w.warn(childRel, err) {
				w.stopped = true
			}
			continue
		}
		w.files++
		count++
		if child != nil {
			child.Size = fi.Size
		}
		if !w.visit(fi) {
			w.stopped = true
		}
	}

	if node != nil {
		node.Omitted = visible - listed
		node.Truncated = node.Omitted > 0
	}
	return count
}

func (w *walk) file(abs, rel string, e os.DirEntry) (FileInfo, error) {
	info, err := e.Info()
	if err != nil {
		return FileInfo{}, err
	}
	name := e.Name()
	fi := FileInfo{
		Path:     abs,
		RelPath:  rel,
		Name:     name,
		Ext:      strings.ToLower(filepath.Ext(name)),
		Size:     info.Size(),
		Language: DetectLanguage(name),
		IsTest:   isTestFile(name, rel),
	}
	fi.Scannable = fi.Size <= w.maxSize && !isBinary(abs)
	return fi, nil
}

// isBinary reads the first 512 bytes of a file and reports whether any of
// them is NUL. Unreadable files are treated as binary.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	for _, b := range buf[:n] {
		if b == 0 {
			return true
		}
	}
	return false
}

// isTestFile returns true if the filename or path looks like a test file.
func isTestFile(name, relPath string) bool {
	lower := strings.ToLower(name)

	switch {
	case strings.HasSuffix(lower, "_test.go"),
		strings.HasSuffix(lower, "_test.py"),
		strings.HasSuffix(lower, ".py") && strings.HasPrefix(lower, "test_"):
		return true
	}
	for _, marker := range []string{".test.", ".spec."} {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	for _, part := range strings.Split(strings.ToLower(relPath), "/") {
		if part == "test" || part == "tests" || part == "__tests__" {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func joinRel(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
