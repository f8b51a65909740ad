package prune_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/filesystem"
	"github.com/arthur-debert/templar/pkg/prune"
	"github.com/arthur-debert/templar/pkg/testutil"
	"github.com/arthur-debert/templar/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRemoveFS struct {
	types.FS
	fail map[string]bool
}

func (f *failingRemoveFS) Remove(name string) error {
	if f.fail[filepath.Base(name)] {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrPermission}
	}
	return f.FS.Remove(name)
}

func setupTree(t *testing.T, files ...string) string {
	t.Helper()
	tree := make(map[string]string, len(files))
	for _, rel := range files {
		tree[rel] = rel
	}
	return testutil.WriteTree(t, tree)
}

func newPruner(fsys types.FS) *prune.Pruner {
	logger := zerolog.Nop()
	return prune.New(prune.Options{FS: fsys, Logger: &logger})
}

func TestRemoveByExtension(t *testing.T) {
	t.Run("yaml_only", func(t *testing.T) {
		root := setupTree(t, "a.yaml", "a.yml", "b.txt")

		result, err := newPruner(filesystem.NewOS()).RemoveByExtension(root, ".yaml")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Removed)
		assert.Equal(t, 3, result.Scanned)
		assert.Equal(t, []string{"a.yml", "b.txt"}, testutil.Files(t, root))
	})

	t.Run("recursive", func(t *testing.T) {
		root := setupTree(t,
			"docker-compose.yml",
			"deploy/k8s/service.yml",
			"deploy/k8s/README.md",
			"src/app.cs",
		)

		result, err := newPruner(filesystem.NewOS()).RemoveByExtension(root, ".yml")
		require.NoError(t, err)
		assert.Equal(t, 2, result.Removed)
		assert.Equal(t, []string{"deploy/k8s/README.md", "src/app.cs"}, testutil.Files(t, root))
	})

	t.Run("failure_is_counted_and_walk_continues", func(t *testing.T) {
		root := setupTree(t, "locked.yaml", "sub/free.yaml")
		fsys := &failingRemoveFS{FS: filesystem.NewOS(), fail: map[string]bool{"locked.yaml": true}}

		result, err := newPruner(fsys).RemoveByExtension(root, ".yaml")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.Removed)
		assert.Equal(t, []string{"locked.yaml"}, testutil.Files(t, root))
	})

	t.Run("through_synthfs", func(t *testing.T) {
		root := setupTree(t, "a.yaml", "keep.txt")
		logger := zerolog.Nop()
		p := prune.New(prune.Options{Logger: &logger})

		result, err := p.RemoveByExtension(root, ".yaml")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Removed)
		assert.Equal(t, []string{"keep.txt"}, testutil.Files(t, root))
	})

	t.Run("preconditions", func(t *testing.T) {
		p := newPruner(filesystem.NewOS())

		_, err := p.RemoveByExtension(t.TempDir(), "")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

		_, err = p.RemoveByExtension(filepath.Join(t.TempDir(), "nope"), ".yaml")
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})
}

func TestRemoveByExactName(t *testing.T) {
	t.Run("counts_matches_outside_vcs_dir", func(t *testing.T) {
		root := setupTree(t,
			"nuget.config",
			"src/nuget.config",
			"src/nuget.config.bak",
			".git/nuget.config",
			"lib/.git/nuget.config",
		)

		removed, err := newPruner(filesystem.NewOS()).RemoveByExactName(root, "nuget.config")
		require.NoError(t, err)
		assert.Equal(t, 2, removed)
		assert.Equal(t, []string{
			".git/nuget.config",
			"lib/.git/nuget.config",
			"src/nuget.config.bak",
		}, testutil.Files(t, root))
	})

	t.Run("custom_vcs_dir", func(t *testing.T) {
		root := setupTree(t, ".hg/target", ".git/target", "target")
		logger := zerolog.Nop()
		p := prune.New(prune.Options{FS: filesystem.NewOS(), Logger: &logger, VCSDir: ".hg"})

		removed, err := p.RemoveByExactName(root, "target")
		require.NoError(t, err)
		assert.Equal(t, 2, removed)
		assert.Equal(t, []string{".hg/target"}, testutil.Files(t, root))
	})

	t.Run("directory_with_target_name_is_skipped", func(t *testing.T) {
		root := setupTree(t, "Dockerfile.develop/inner.txt", "sub/Dockerfile.develop")

		removed, err := newPruner(filesystem.NewOS()).RemoveByExactName(root, "Dockerfile.develop")
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		assert.Equal(t, []string{"Dockerfile.develop/inner.txt"}, testutil.Files(t, root))
	})

	t.Run("no_match", func(t *testing.T) {
		root := setupTree(t, "a.txt")

		removed, err := newPruner(filesystem.NewOS()).RemoveByExactName(root, "missing.txt")
		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("failed_removal_not_counted", func(t *testing.T) {
		root := setupTree(t, "x/nuget.config", "y/nuget.config")
		fsys := &failingRemoveFS{FS: filesystem.NewOS(), fail: map[string]bool{"nuget.config": true}}

		removed, err := newPruner(fsys).RemoveByExactName(root, "nuget.config")
		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("named_result_reports_failures", func(t *testing.T) {
		root := setupTree(t, "x/nuget.config", "y/keep.txt", "z/nuget.config")
		fsys := &failingRemoveFS{FS: filesystem.NewOS(), fail: map[string]bool{"nuget.config": true}}

		result, err := newPruner(fsys).RemoveNamed(root, "nuget.config")
		require.NoError(t, err)
		assert.Equal(t, prune.Result{Scanned: 3, Removed: 0, Failed: 2}, result)
	})

	t.Run("preconditions", func(t *testing.T) {
		p := newPruner(filesystem.NewOS())

		_, err := p.RemoveByExactName(filepath.Join(t.TempDir(), "missing"), "x")
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0644))
		_, err = p.RemoveByExactName(file, "x")
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

		_, err = p.RemoveByExactName(t.TempDir(), "   ")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}
