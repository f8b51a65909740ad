package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/rs/zerolog"
)

// Invocation is a command followed by its arguments
type Invocation []string

// NewInvocation copies args into a new invocation
func NewInvocation(args ...string) Invocation {
	inv := make(Invocation, len(args))
	copy(inv, args)
	return inv
}

// Name is the program to run
func (i Invocation) Name() string {
	if len(i) == 0 {
		return ""
	}
	return i[0]
}

// Args are the arguments after the program name
func (i Invocation) Args() []string {
	if len(i) < 2 {
		return nil
	}
	return i[1:]
}

func (i Invocation) String() string {
	return strings.Join(i, " ")
}

// CommandRunner runs one process to completion and returns its stdout
type CommandRunner interface {
	Run(ctx context.Context, inv Invocation) ([]byte, error)
}

// ExecRunner runs processes with os/exec
type ExecRunner struct {
	// Dir is the working directory; empty means the current one
	Dir string
	// Env is appended to the inherited environment
	Env    map[string]string
	logger zerolog.Logger
}

// NewExecRunner creates a runner that inherits the process environment
func NewExecRunner(logger *zerolog.Logger) *ExecRunner {
	return &ExecRunner{logger: logging.OrDefault(logger, "runner.exec")}
}

// Run starts the process and waits for it. A non-zero exit is
// ErrCommandFailed carrying stderr; failing to start at all is
// ErrCommandStart.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) ([]byte, error) {
	if len(inv) == 0 || inv.Name() == "" {
		return nil, errors.New(errors.ErrInvalidInput, "invocation requires a command")
	}

	logging.LogCommand(r.logger, inv.Name(), inv.Args())

	cmd := exec.CommandContext(ctx, inv.Name(), inv.Args()...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	if len(r.Env) > 0 {
		cmd.Env = os.Environ()
		for key, value := range r.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if stderr.Len() > 0 {
		r.logger.Debug().
			Str("command", inv.Name()).
			Str("output", stderr.String()).
			Msg("Command stderr")
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), errors.Wrapf(err, errors.ErrCommandFailed,
				"command exited with status %d: %s", exitErr.ExitCode(), inv.Name()).
				WithDetail("exitCode", exitErr.ExitCode()).
				WithDetail("stderr", strings.TrimSpace(stderr.String()))
		}
		return nil, errors.Wrapf(err, errors.ErrCommandStart, "failed to start command: %s", inv.Name())
	}

	return stdout.Bytes(), nil
}
