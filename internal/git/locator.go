package git

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MetadataDir marks the top of a working copy. Worktrees and submodules
// carry it as a file rather than a directory.
const MetadataDir = ".git"

// LocateOptions bounds the repository search
type LocateOptions struct {
	// MaxDepth limits how far below the root the search goes. The root is
	// depth 0. Zero or negative means unlimited.
	MaxDepth int
	// Exclude holds doublestar patterns, matched against slash separated
	// paths relative to the root, for directories that are never entered.
	Exclude []string
}

// Locate walks root and returns the absolute paths of directories holding a
// git metadata marker, in lexical walk order. Repository roots are not
// descended into, so nested repositories are not reported. A missing root or
// an unreadable directory yields fewer results, not an error; only
// cancellation of ctx is returned.
func Locate(ctx context.Context, root string, opts LocateOptions) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil
	}

	repos := []string{}
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Unreadable entries are skipped
			if d != nil && d.IsDir() && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		rel, _ := filepath.Rel(absRoot, path)
		depth := pathDepth(rel)
		if opts.MaxDepth > 0 && depth > opts.MaxDepth {
			return filepath.SkipDir
		}
		if d.Name() == MetadataDir {
			return filepath.SkipDir
		}
		if depth > 0 && excluded(filepath.ToSlash(rel), opts.Exclude) {
			return filepath.SkipDir
		}

		if hasMetadata(path) {
			repos = append(repos, path)
			return filepath.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return repos, walkErr
	}

	return repos, nil
}

// IsRepository reports whether path is the top of a working copy
func IsRepository(path string) bool {
	return hasMetadata(path)
}

func hasMetadata(dir string) bool {
	_, err := os.Lstat(filepath.Join(dir, MetadataDir))
	return err == nil
}

func pathDepth(rel string) int {
	if rel == "." || rel == "" {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/") + 1
}

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
