package runner

import (
	"context"
	"math"
	"time"

	"github.com/arthur-debert/templar/pkg/document"
	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Retry defaults
const (
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = time.Second
	DefaultMultiplier   = 2.0
)

// Options configures an Executor
type Options struct {
	Runner       CommandRunner
	Logger       *zerolog.Logger
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	// Format is the structured output encoding, json when empty
	Format document.Format
	// Timer waits between attempts; nil uses a real timer
	Timer backoff.Timer
}

// Executor runs invocations with retry and parses their output
type Executor struct {
	runner       CommandRunner
	logger       zerolog.Logger
	maxAttempts  int
	initialDelay time.Duration
	multiplier   float64
	format       document.Format
	timer        backoff.Timer
}

// NewExecutor creates an executor, filling zero options with defaults
func NewExecutor(opts Options) *Executor {
	e := &Executor{
		runner:       opts.Runner,
		logger:       logging.OrDefault(opts.Logger, "runner"),
		maxAttempts:  opts.MaxAttempts,
		initialDelay: opts.InitialDelay,
		multiplier:   opts.Multiplier,
		format:       opts.Format,
		timer:        opts.Timer,
	}
	if e.runner == nil {
		e.runner = NewExecRunner(opts.Logger)
	}
	if e.maxAttempts < 1 {
		e.maxAttempts = DefaultMaxAttempts
	}
	if e.initialDelay <= 0 {
		e.initialDelay = DefaultInitialDelay
	}
	if e.multiplier < 1 {
		e.multiplier = DefaultMultiplier
	}
	if e.format == "" {
		e.format = document.FormatJSON
	}
	return e
}

// newBackOff returns a fresh policy for one Execute call. The interval
// grows by the multiplier each attempt with no jitter and no ceiling.
func (e *Executor) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.initialDelay
	bo.RandomizationFactor = 0
	bo.Multiplier = e.multiplier
	bo.MaxInterval = time.Duration(math.MaxInt64)
	bo.MaxElapsedTime = 0
	bo.Reset()

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if e.maxAttempts > 1 {
		policy = backoff.WithMaxRetries(bo, uint64(e.maxAttempts-1))
	}
	return backoff.WithContext(policy, ctx)
}

// Execute runs inv until it exits zero or attempts run out, then parses
// stdout as a key/value document.
func (e *Executor) Execute(ctx context.Context, inv Invocation) (document.Document, error) {
	if len(inv) == 0 || inv.Name() == "" {
		return nil, errors.New(errors.ErrInvalidInput, "invocation cannot be empty")
	}

	logger := e.logger.With().Str("command", inv.Name()).Logger()
	attempt := 0
	var doc document.Document

	operation := func() error {
		attempt++
		out, err := e.runner.Run(ctx, inv)
		if err != nil {
			logger.Error().
				Err(err).
				Int("attempt", attempt).
				Int("maxAttempts", e.maxAttempts).
				Msg("Command attempt failed")
			if errors.HasErrorCode(err, errors.ErrCommandFailed) {
				return err
			}
			return backoff.Permanent(err)
		}

		parsed, err := document.Parse(e.format, out)
		if err != nil {
			logger.Error().
				Err(err).
				Int("attempt", attempt).
				Msg("Command output could not be parsed, not retrying")
			return backoff.Permanent(err)
		}
		doc = parsed
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Info().
			Int("attempt", attempt).
			Dur("retryIn", wait).
			Msg("Retrying command")
	}

	err := backoff.RetryNotifyWithTimer(operation, e.newBackOff(ctx), notify, e.timer)
	if err != nil {
		if errors.HasErrorCode(err, errors.ErrCommandFailed) {
			logger.Error().
				Err(err).
				Int("attempts", attempt).
				Msg("Command failed, giving up")
			return nil, errors.Wrapf(err, errors.ErrCommandFailed,
				"command failed after %d attempts: %s", attempt, inv.Name()).
				WithDetail("attempts", attempt)
		}
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, errors.Wrap(err, errors.ErrCommandFailed, "command retries cancelled").
				WithDetail("attempts", attempt)
		}
		return nil, err
	}

	logger.Debug().
		Int("attempts", attempt).
		Interface("result", doc).
		Msg("Command succeeded")
	return doc, nil
}
