// Package devops registers remote repositories through the Azure DevOps CLI.
package devops

import (
	"context"
	"strings"

	"github.com/arthur-debert/templar/pkg/document"
	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/arthur-debert/templar/pkg/runner"
	"github.com/arthur-debert/templar/pkg/types"
	"github.com/rs/zerolog"
)

// Executor runs an invocation and returns its parsed output
type Executor interface {
	Execute(ctx context.Context, inv runner.Invocation) (document.Document, error)
}

// Options configures a Client
type Options struct {
	Executor     Executor
	Logger       *zerolog.Logger
	CLI          string
	Organization string
	Project      string
	OutputFormat string
}

// Client creates repositories in one organization and project
type Client struct {
	executor     Executor
	logger       zerolog.Logger
	cli          string
	organization string
	project      string
	outputFormat string
}

var _ types.RepositoryRegistrar = (*Client)(nil)

// NewClient creates a client. CLI defaults to "az" and output to json.
func NewClient(opts Options) *Client {
	c := &Client{
		executor:     opts.Executor,
		logger:       logging.OrDefault(opts.Logger, "devops"),
		cli:          opts.CLI,
		organization: opts.Organization,
		project:      opts.Project,
		outputFormat: opts.OutputFormat,
	}
	if c.cli == "" {
		c.cli = "az"
	}
	if c.outputFormat == "" {
		c.outputFormat = string(document.FormatJSON)
	}
	if c.executor == nil {
		c.executor = runner.NewExecutor(runner.Options{
			Logger: opts.Logger,
			Format: document.Format(c.outputFormat),
		})
	}
	return c
}

// Invocation builds the repository creation command for name
func (c *Client) Invocation(name string) runner.Invocation {
	return runner.NewInvocation(
		c.cli, "repos", "create",
		"--org", c.organization,
		"--project", c.project,
		"--name", name,
		"--output", c.outputFormat,
	)
}

// CreateRepository creates the remote repository and returns its descriptor.
// A command that succeeds without both an id and a remoteUrl yields
// ErrIncompleteResult.
func (c *Client) CreateRepository(ctx context.Context, name string) (*types.RepositoryDescriptor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "repository name cannot be empty")
	}
	if c.organization == "" || c.project == "" {
		return nil, errors.New(errors.ErrConfigValid, "devops organization and project must be configured").
			WithDetail("organization", c.organization).
			WithDetail("project", c.project)
	}

	c.logger.Info().
		Str("name", name).
		Str("organization", c.organization).
		Str("project", c.project).
		Msg("Creating remote repository")

	doc, err := c.executor.Execute(ctx, c.Invocation(name))
	if err != nil {
		c.logger.Error().Err(err).Str("name", name).Msg("Could not create remote repository")
		return nil, err
	}

	id, hasID := doc.String("id")
	remoteURL, hasURL := doc.String("remoteUrl")
	if !hasID || !hasURL {
		var missing []string
		if !hasID {
			missing = append(missing, "id")
		}
		if !hasURL {
			missing = append(missing, "remoteUrl")
		}
		c.logger.Error().
			Strs("missing", missing).
			Str("name", name).
			Msg("Repository may have been created, but the response is incomplete")
		c.logger.Debug().Interface("response", doc).Msg("Full response received")
		return nil, errors.Newf(errors.ErrIncompleteResult,
			"repository created but descriptor incomplete, missing: %s", strings.Join(missing, ", ")).
			WithDetail("missing", missing).
			WithDetail("name", name)
	}

	descriptor := &types.RepositoryDescriptor{
		ID:        id,
		Name:      name,
		RemoteURL: remoteURL,
	}
	if n, ok := doc.String("name"); ok {
		descriptor.Name = n
	}
	if web, ok := doc.String("webUrl"); ok {
		descriptor.WebURL = web
	}

	c.logger.Info().
		Str("id", descriptor.ID).
		Str("remoteUrl", descriptor.RemoteURL).
		Msg("Retrieved repository descriptor")
	return descriptor, nil
}
