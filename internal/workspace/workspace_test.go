package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func realPath(t *testing.T, p string) string {
	t.Helper()
	out, err := filepath.EvalSymlinks(p)
	require.NoError(t, err)
	return out
}

func TestRoot_GitWorktree(t *testing.T) {
	root := realPath(t, t.TempDir())
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	data := filepath.Join(root, "surveys", "line1")
	require.NoError(t, os.MkdirAll(data, 0o755))

	got, err := NewResolver("", "").Root(filepath.Join(data, "survey.bin"))

	require.NoError(t, err)
	assert.Equal(t, root, realPath(t, got))
}

func TestRoot_NoRepository_UsesFileDir(t *testing.T) {
	dir := realPath(t, t.TempDir())

	got, err := NewResolver("", "").Root(filepath.Join(dir, "survey.bin"))

	require.NoError(t, err)
	// TempDir may itself sit inside a repository on some machines.
	if got != dir {
		t.Skipf("temp dir %s is inside a git worktree (%s)", dir, got)
	}
	assert.Equal(t, dir, got)
}

func TestRoot_Override(t *testing.T) {
	override := t.TempDir()

	got, err := NewResolver(override, "").Root("/anywhere/survey.bin")

	require.NoError(t, err)
	assert.Equal(t, override, got)
}

func TestTempDir(t *testing.T) {
	t.Run("Under workspace root", func(t *testing.T) {
		r := NewResolver("", "")
		assert.Equal(t, filepath.Join("/ws", ".geoview_temp"), r.TempDir("/ws"))
	})

	t.Run("Configured dir wins", func(t *testing.T) {
		r := NewResolver("", "/tmp/gv")
		assert.Equal(t, "/tmp/gv", r.TempDir("/ws"))
	})

	t.Run("Tracks unique dirs", func(t *testing.T) {
		r := NewResolver("", "")
		r.TempDir("/b")
		r.TempDir("/a")
		r.TempDir("/a")
		assert.Equal(t, []string{"/a/.geoview_temp", "/b/.geoview_temp"}, r.TempDirs())
	})
}

func TestCleanup_RemovesTempDirs(t *testing.T) {
	root := t.TempDir()
	r := NewResolver("", "")
	dir := r.TempDir(root)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geoview_x.png"), []byte("png"), 0o644))
	r.TempDir(filepath.Join(root, "never-created"))

	require.NoError(t, r.Cleanup())

	assert.NoDirExists(t, dir)
	assert.Empty(t, r.TempDirs())
	assert.DirExists(t, root, "workspace itself is kept")
}
