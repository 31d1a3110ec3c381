package locator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-usage-ledger/internal/util"
)

// EnvConfigDir overrides the default search roots with a comma-separated
// directory list.
const EnvConfigDir = "CLAUDE_CONFIG_DIR"

// Layout describes where one tool keeps its usage logs: the environment
// variable that overrides the search roots and the conventional locations
// searched otherwise.
type Layout struct {
	EnvVar       string
	DefaultRoots []string
}

// ClaudeLayout is the conventional Claude Code data layout.
var ClaudeLayout = Layout{
	EnvVar: EnvConfigDir,
	DefaultRoots: []string{
		"~/.config/claude/projects",
		"~/.claude/projects",
	},
}

// CodexLayout is the conventional Codex CLI data layout.
var CodexLayout = Layout{
	EnvVar: "CODEX_HOME",
	DefaultRoots: []string{
		"~/.codex/sessions",
	},
}

// FileRef is one discovered usage file together with the root it was found
// under. BaseDir is needed later to derive project and session keys from the
// path structure.
type FileRef struct {
	Path    string
	BaseDir string
}

// Locator resolves base directories and globs usage files beneath them.
type Locator struct {
	explicitDirs []string
	layout       Layout
	pattern      string
}

// New creates a Locator. When explicitDirs is non-empty those directories are
// used as-is; otherwise the layout's environment override and conventional
// defaults apply.
func New(explicitDirs []string, layout Layout) *Locator {
	if layout.EnvVar == "" && len(layout.DefaultRoots) == 0 {
		layout = ClaudeLayout
	}
	return &Locator{
		explicitDirs: explicitDirs,
		layout:       layout,
		pattern:      ".jsonl",
	}
}

// ResolveRoots returns the base directories to search, de-duplicated by
// normalized absolute path. An environment override that yields no usable
// directory is a configuration error.
func (l *Locator) ResolveRoots() ([]string, error) {
	if len(l.explicitDirs) > 0 {
		return normalizeRoots(l.explicitDirs), nil
	}

	if env := os.Getenv(l.layout.EnvVar); l.layout.EnvVar != "" && env != "" {
		var roots []string
		for _, dir := range strings.Split(env, ",") {
			dir = strings.TrimSpace(dir)
			if dir == "" {
				continue
			}
			dir = expandHome(dir)
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				roots = append(roots, dir)
			} else {
				util.LogDebugf("Override directory not usable: %s", dir)
			}
		}
		if len(roots) == 0 {
			return nil, fmt.Errorf("%s is set but none of its directories exist: %s", l.layout.EnvVar, env)
		}
		return normalizeRoots(roots), nil
	}

	var roots []string
	for _, dir := range l.layout.DefaultRoots {
		dir = expandHome(dir)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}
	return normalizeRoots(roots), nil
}

// Locate resolves roots and returns every usage file beneath them.
func (l *Locator) Locate() ([]FileRef, error) {
	roots, err := l.ResolveRoots()
	if err != nil {
		return nil, err
	}

	var refs []FileRef
	for _, root := range roots {
		files, err := l.scanRoot(root)
		if err != nil {
			util.LogWarnf("Failed to scan %s: %v", root, err)
			continue
		}
		refs = append(refs, files...)
	}

	util.LogDebugf("Located %d usage files under %d roots", len(refs), len(roots))
	return refs, nil
}

// scanRoot walks one root collecting .jsonl files. Unreadable entries are
// skipped, never fatal.
func (l *Locator) scanRoot(root string) ([]FileRef, error) {
	var refs []FileRef

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebugf("Skip path (error): %s - %v", path, err)
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(path), l.pattern) {
			refs = append(refs, FileRef{Path: path, BaseDir: root})
		}
		return nil
	})

	return refs, err
}

func normalizeRoots(dirs []string) []string {
	seen := make(map[string]struct{}, len(dirs))
	var result []string
	for _, dir := range dirs {
		abs, err := filepath.Abs(expandHome(dir))
		if err != nil {
			abs = dir
		}
		abs = filepath.Clean(abs)
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		result = append(result, abs)
	}
	return result
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
