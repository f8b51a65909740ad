package devops_test

import (
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/templar/pkg/devops"
	"github.com/arthur-debert/templar/pkg/document"
	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/runner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, inv runner.Invocation) (document.Document, error) {
	args := m.Called(ctx, inv)
	doc, _ := args.Get(0).(document.Document)
	return doc, args.Error(1)
}

func newClient(exec devops.Executor) *devops.Client {
	logger := zerolog.Nop()
	return devops.NewClient(devops.Options{
		Executor:     exec,
		Logger:       &logger,
		Organization: "https://dev.example.com/org",
		Project:      "SAJAK",
	})
}

func TestCreateRepository(t *testing.T) {
	ctx := context.Background()
	wantInv := runner.NewInvocation("az", "repos", "create",
		"--org", "https://dev.example.com/org",
		"--project", "SAJAK",
		"--name", "rpk-app",
		"--output", "json")

	t.Run("success", func(t *testing.T) {
		exec := &mockExecutor{}
		exec.On("Execute", ctx, wantInv).Return(document.Document{
			"id":        "abc-123",
			"name":      "rpk-app",
			"remoteUrl": "https://dev.example.com/org/SAJAK/_git/rpk-app",
			"webUrl":    "https://dev.example.com/web",
		}, nil)

		desc, err := newClient(exec).CreateRepository(ctx, "rpk-app")
		require.NoError(t, err)
		assert.Equal(t, "abc-123", desc.ID)
		assert.Equal(t, "https://dev.example.com/org/SAJAK/_git/rpk-app", desc.RemoteURL)
		assert.Equal(t, "https://dev.example.com/web", desc.WebURL)
		exec.AssertExpectations(t)
	})

	t.Run("missing_remote_url", func(t *testing.T) {
		exec := &mockExecutor{}
		exec.On("Execute", ctx, wantInv).Return(document.Document{"id": "abc-123"}, nil)

		desc, err := newClient(exec).CreateRepository(ctx, "rpk-app")
		assert.Nil(t, desc)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrIncompleteResult))
		assert.Equal(t, []string{"remoteUrl"}, errors.GetErrorDetails(err)["missing"])
	})

	t.Run("missing_id", func(t *testing.T) {
		exec := &mockExecutor{}
		exec.On("Execute", ctx, wantInv).Return(document.Document{"remoteUrl": "https://x"}, nil)

		_, err := newClient(exec).CreateRepository(ctx, "rpk-app")
		assert.True(t, errors.IsErrorCode(err, errors.ErrIncompleteResult))
	})

	t.Run("command_failure_passes_through", func(t *testing.T) {
		exec := &mockExecutor{}
		exec.On("Execute", ctx, wantInv).Return(nil, errors.New(errors.ErrCommandFailed, "gave up"))

		_, err := newClient(exec).CreateRepository(ctx, "rpk-app")
		assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
	})

	t.Run("malformed_passes_through", func(t *testing.T) {
		exec := &mockExecutor{}
		exec.On("Execute", ctx, wantInv).Return(nil, errors.New(errors.ErrMalformedOutput, "bad json"))

		_, err := newClient(exec).CreateRepository(ctx, "rpk-app")
		assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedOutput))
	})

	t.Run("empty_name", func(t *testing.T) {
		exec := &mockExecutor{}
		_, err := newClient(exec).CreateRepository(ctx, "  ")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("unconfigured", func(t *testing.T) {
		logger := zerolog.Nop()
		exec := &mockExecutor{}
		c := devops.NewClient(devops.Options{Executor: exec, Logger: &logger})
		_, err := c.CreateRepository(ctx, "rpk-app")
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})
}

// fakeRunner replays canned process results
type fakeRunner struct {
	outputs [][]byte
	errs    []error
	calls   int
}

func (f *fakeRunner) Run(ctx context.Context, inv runner.Invocation) ([]byte, error) {
	i := f.calls
	f.calls++
	return f.outputs[i], f.errs[i]
}

type instantTimer struct{ c chan time.Time }

func (i *instantTimer) Start(time.Duration) {
	i.c = make(chan time.Time, 1)
	i.c <- time.Now()
}
func (i *instantTimer) Stop()               {}
func (i *instantTimer) C() <-chan time.Time { return i.c }

func TestCreateRepositoryThroughExecutor(t *testing.T) {
	logger := zerolog.Nop()
	run := &fakeRunner{
		outputs: [][]byte{nil, []byte(`{"id":"abc-123"}`)},
		errs:    []error{errors.New(errors.ErrCommandFailed, "exit status 1"), nil},
	}
	exec := runner.NewExecutor(runner.Options{Runner: run, Logger: &logger, Timer: &instantTimer{}})
	c := devops.NewClient(devops.Options{
		Executor:     exec,
		Logger:       &logger,
		Organization: "org",
		Project:      "proj",
	})

	_, err := c.CreateRepository(context.Background(), "svc")
	assert.True(t, errors.IsErrorCode(err, errors.ErrIncompleteResult))
	assert.Equal(t, 2, run.calls)
}
