// Package workspace finds the project root of a data file and manages the
// temp directories rendered images are written to.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-git/go-git/v5"
)

// TempDirName is created under the workspace root when no temp dir is configured.
const TempDirName = ".geoview_temp"

// Resolver maps files to workspace roots and tracks every temp dir handed out.
type Resolver struct {
	override string
	tempDir  string

	mu   sync.Mutex
	dirs map[string]struct{}
}

// NewResolver creates a Resolver. Non-empty override pins the workspace root;
// non-empty tempDir replaces <root>/.geoview_temp.
func NewResolver(override, tempDir string) *Resolver {
	return &Resolver{
		override: override,
		tempDir:  tempDir,
		dirs:     make(map[string]struct{}),
	}
}

// Root returns the workspace root for path: the override if set, else the
// enclosing git worktree, else the directory containing path.
func (r *Resolver) Root(path string) (string, error) {
	if r.override != "" {
		return filepath.Abs(r.override)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return dir, nil
		}
		return "", fmt.Errorf("failed to open repository for %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repository: no checkout to anchor on.
		return dir, nil
	}
	return wt.Filesystem.Root(), nil
}

// TempDir returns the image directory for a workspace root and remembers it
// for Cleanup. The directory itself is created by the renderer invoker.
func (r *Resolver) TempDir(root string) string {
	dir := r.tempDir
	if dir == "" {
		dir = filepath.Join(root, TempDirName)
	}

	r.mu.Lock()
	r.dirs[dir] = struct{}{}
	r.mu.Unlock()
	return dir
}

// TempDirs returns every temp dir handed out so far, sorted.
func (r *Resolver) TempDirs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.dirs))
	for d := range r.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Cleanup removes every temp dir and its contents. Missing dirs are not an error.
func (r *Resolver) Cleanup() error {
	var errs []error
	for _, d := range r.TempDirs() {
		if err := os.RemoveAll(d); err != nil {
			errs = append(errs, err)
		}
	}

	r.mu.Lock()
	r.dirs = make(map[string]struct{})
	r.mu.Unlock()
	return errors.Join(errs...)
}
