package scm_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/runner"
	"github.com/arthur-debert/templar/pkg/scm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	calls []runner.Invocation
	fail  map[string]error
}

func (r *recordingRunner) Run(ctx context.Context, inv runner.Invocation) ([]byte, error) {
	r.calls = append(r.calls, inv)
	for _, arg := range inv {
		if err, ok := r.fail[arg]; ok {
			return []byte("fatal: something"), err
		}
	}
	return nil, nil
}

func newGit(r runner.CommandRunner, path string) *scm.Git {
	logger := zerolog.Nop()
	return scm.New(scm.Options{Runner: r, Logger: &logger, Path: path})
}

func TestGitCommands(t *testing.T) {
	ctx := context.Background()
	rec := &recordingRunner{}
	g := newGit(rec, "")

	require.NoError(t, g.Clone(ctx, "https://example.com/template.git", "/work/app"))
	require.NoError(t, g.Checkout(ctx, "develop"))
	require.NoError(t, g.AddRemote(ctx, "project", "https://example.com/app.git"))
	require.NoError(t, g.StageAll(ctx))
	require.NoError(t, g.Commit(ctx, "Initial commit from template"))
	require.NoError(t, g.Push(ctx, "project", "develop"))

	want := []runner.Invocation{
		{"git", "clone", "https://example.com/template.git", "/work/app"},
		{"git", "-C", "/work/app", "checkout", "develop"},
		{"git", "-C", "/work/app", "remote", "add", "project", "https://example.com/app.git"},
		{"git", "-C", "/work/app", "add", "-A"},
		{"git", "-C", "/work/app", "commit", "-m", "Initial commit from template"},
		{"git", "-C", "/work/app", "push", "project", "develop:develop"},
	}
	assert.Equal(t, want, rec.calls)
	assert.Equal(t, "/work/app", g.Path())
}

func TestGitRequiresRepository(t *testing.T) {
	rec := &recordingRunner{}
	g := newGit(rec, "")

	err := g.Checkout(context.Background(), "develop")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceControl))
	assert.Empty(t, rec.calls)
}

func TestGitFailureIsWrapped(t *testing.T) {
	rec := &recordingRunner{fail: map[string]error{"checkout": errors.New(errors.ErrCommandFailed, "exit status 1")}}
	g := newGit(rec, "/work/app")

	err := g.Checkout(context.Background(), "missing-branch")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceControl))
	assert.True(t, errors.HasErrorCode(err, errors.ErrCommandFailed))
}

func TestGitCloneFailureLeavesClientDetached(t *testing.T) {
	rec := &recordingRunner{fail: map[string]error{"clone": errors.New(errors.ErrCommandFailed, "exit status 128")}}
	g := newGit(rec, "")

	require.Error(t, g.Clone(context.Background(), "https://bad", "/work/app"))
	assert.Empty(t, g.Path())
}

func TestGitCommitRequiresMessage(t *testing.T) {
	g := newGit(&recordingRunner{}, "/work/app")
	err := g.Commit(context.Background(), " ")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestGitAgainstRealBinary(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	logger := zerolog.Nop()
	run := runner.NewExecRunner(&logger)
	run.Env = map[string]string{
		"GIT_AUTHOR_NAME":     "templar",
		"GIT_AUTHOR_EMAIL":    "templar@example.com",
		"GIT_COMMITTER_NAME":  "templar",
		"GIT_COMMITTER_EMAIL": "templar@example.com",
	}
	g := scm.New(scm.Options{Runner: run, Logger: &logger})

	origin := filepath.Join(t.TempDir(), "origin")
	require.NoError(t, g.Init(ctx, origin))
	require.NoError(t, os.WriteFile(filepath.Join(origin, "README.md"), []byte("# pkg.template."), 0644))
	require.NoError(t, g.StageAll(ctx))
	require.NoError(t, g.Commit(ctx, "seed"))

	clone := filepath.Join(t.TempDir(), "clone")
	cloner := scm.New(scm.Options{Runner: run, Logger: &logger})
	require.NoError(t, cloner.Clone(ctx, origin, clone))
	assert.FileExists(t, filepath.Join(clone, "README.md"))

	err := cloner.Checkout(ctx, "no-such-branch")
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceControl))
}
