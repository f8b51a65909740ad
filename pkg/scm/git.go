// Package scm drives the git binary on behalf of the provisioning pipeline.
package scm

import (
	"context"
	"strings"

	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/arthur-debert/templar/pkg/runner"
	"github.com/arthur-debert/templar/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Git client
type Options struct {
	Runner runner.CommandRunner
	Logger *zerolog.Logger
	// Binary is the git executable, "git" when empty
	Binary string
	// Path attaches the client to an existing working tree
	Path string
}

// Git runs git commands against a single working tree
type Git struct {
	runner runner.CommandRunner
	logger zerolog.Logger
	binary string
	path   string
}

var _ types.SourceControl = (*Git)(nil)

// New creates a git client
func New(opts Options) *Git {
	g := &Git{
		runner: opts.Runner,
		logger: logging.OrDefault(opts.Logger, "scm.git"),
		binary: opts.Binary,
		path:   opts.Path,
	}
	if g.runner == nil {
		g.runner = runner.NewExecRunner(opts.Logger)
	}
	if g.binary == "" {
		g.binary = "git"
	}
	return g
}

// Path is the working tree the client operates on
func (g *Git) Path() string {
	return g.path
}

// Init creates an empty repository at path and attaches to it
func (g *Git) Init(ctx context.Context, path string) error {
	if err := g.run(ctx, "init", g.binary, "init", path); err != nil {
		return err
	}
	g.path = path
	g.logger.Info().Str("path", path).Msg("Initialized empty git repository")
	return nil
}

// Clone copies url into path and attaches to the clone
func (g *Git) Clone(ctx context.Context, url, path string) error {
	if err := g.run(ctx, "clone", g.binary, "clone", url, path); err != nil {
		return err
	}
	g.path = path
	g.logger.Info().Str("url", url).Str("path", path).Msg("Cloned repository")
	return nil
}

// Checkout switches the working tree to branch
func (g *Git) Checkout(ctx context.Context, branch string) error {
	if err := g.inTree(ctx, "checkout", "checkout", branch); err != nil {
		return err
	}
	g.logger.Info().Str("branch", branch).Msg("Checked out branch")
	return nil
}

// AddRemote registers a new remote
func (g *Git) AddRemote(ctx context.Context, name, url string) error {
	if err := g.inTree(ctx, "add remote", "remote", "add", name, url); err != nil {
		return err
	}
	g.logger.Info().Str("remote", name).Str("url", url).Msg("Added remote")
	return nil
}

// StageAll stages every new, modified and deleted file
func (g *Git) StageAll(ctx context.Context) error {
	if err := g.inTree(ctx, "stage", "add", "-A"); err != nil {
		return err
	}
	g.logger.Info().Msg("Staged all changes")
	return nil
}

// Commit records the staged changes
func (g *Git) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New(errors.ErrInvalidInput, "commit message cannot be empty")
	}
	if err := g.inTree(ctx, "commit", "commit", "-m", message); err != nil {
		return err
	}
	g.logger.Info().Str("message", message).Msg("Committed changes")
	return nil
}

// Push sends branch to the same-named branch on remote
func (g *Git) Push(ctx context.Context, remote, branch string) error {
	if err := g.inTree(ctx, "push", "push", remote, branch+":"+branch); err != nil {
		return err
	}
	g.logger.Info().Str("remote", remote).Str("branch", branch).Msg("Pushed branch")
	return nil
}

func (g *Git) inTree(ctx context.Context, op string, args ...string) error {
	if g.path == "" {
		g.logger.Error().Str("operation", op).Msg("Repository not initialized")
		return errors.Newf(errors.ErrSourceControl, "cannot %s: repository not initialized", op)
	}
	return g.run(ctx, op, append([]string{g.binary, "-C", g.path}, args...)...)
}

func (g *Git) run(ctx context.Context, op string, args ...string) error {
	out, err := g.runner.Run(ctx, runner.NewInvocation(args...))
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("operation", op).
			Str("output", strings.TrimSpace(string(out))).
			Msg("Git command failed")
		return errors.Wrapf(err, errors.ErrSourceControl, "git %s failed", op).
			WithDetail("operation", op)
	}
	g.logger.Debug().Str("operation", op).Str("output", strings.TrimSpace(string(out))).Msg("Git command succeeded")
	return nil
}
