package fsutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/lookmlaudit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinder_Find(t *testing.T) {
	t.Parallel()

	root := testutil.WriteProject(t, map[string]string{
		"views/b.view.lkml":           "",
		"views/a.view.lkml":           "",
		"views/sub/c.view.lkml":       "",
		"views/notes.md":              "",
		"views/tmp/scratch.view.lkml": "",
		".gitignore":                  "views/tmp/\n",
	})

	f, err := NewFinder([]string{"*.view.lkml"}, filepath.Join(root, ".gitignore"))
	require.NoError(t, err)

	files, err := f.Find(context.Background(), filepath.Join(root, "views"), root)
	require.NoError(t, err)

	var rel []string
	for _, file := range files {
		r, err := filepath.Rel(root, file)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"views/a.view.lkml", "views/b.view.lkml", "views/sub/c.view.lkml"}, rel)
}

func TestFinder_MissingGitignoreIsFine(t *testing.T) {
	t.Parallel()

	f, err := NewFinder([]string{"*.lkml"}, filepath.Join(t.TempDir(), ".gitignore"))
	require.NoError(t, err)
	assert.False(t, f.Ignored("anything.lkml"))
}

func TestFinder_Match(t *testing.T) {
	t.Parallel()

	f, err := NewFinder([]string{"*.model.lkml", "*.explore.lkml"}, "")
	require.NoError(t, err)

	assert.True(t, f.Match("/x/y/shop.model.lkml"))
	assert.True(t, f.Match("orders.explore.lkml"))
	assert.False(t, f.Match("orders.view.lkml"))
}

func TestNewFinder_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFinder([]string{"[unclosed"}, "")
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestFind_SkipsUnreadableSubdirectory(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := testutil.WriteProject(t, map[string]string{
		"a.view.lkml":        "",
		"locked/b.view.lkml": "",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	f, err := NewFinder([]string{"*.view.lkml"}, "")
	require.NoError(t, err)
	ctx, logs := testutil.Context(t)

	files, err := f.Find(ctx, root, root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.view.lkml")}, files)
	assert.Contains(t, logs.String(), "Skipping unreadable path")

	_, err = f.Find(ctx, filepath.Join(root, "missing"), root)
	assert.Error(t, err, "an unreadable root still fails")
}

func TestFind_CancelledContext(t *testing.T) {
	t.Parallel()

	root := testutil.WriteProject(t, map[string]string{"a.view.lkml": ""})
	f, err := NewFinder([]string{"*.view.lkml"}, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Find(ctx, root, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsDir(t *testing.T) {
	t.Parallel()

	root := testutil.WriteProject(t, map[string]string{"f": ""})

	assert.True(t, IsDir(root))
	assert.False(t, IsDir(filepath.Join(root, "f")))
	assert.False(t, IsDir(filepath.Join(root, "missing")))
}
