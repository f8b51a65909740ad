package provision

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/arthur-debert/templar/pkg/config"
	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/filesystem"
	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/arthur-debert/templar/pkg/prune"
	"github.com/arthur-debert/templar/pkg/rewrite"
	"github.com/arthur-debert/templar/pkg/telemetry"
	"github.com/arthur-debert/templar/pkg/types"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "github.com/arthur-debert/templar/provision"

var projectNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateProjectName rejects names that cannot be substituted safely
// into paths and namespaces
func ValidateProjectName(name string) error {
	if !projectNamePattern.MatchString(name) {
		return errors.Newf(errors.ErrInvalidInput,
			"invalid project name %q: use letters, digits, '-' and '_', starting with a letter or digit", name).
			WithDetail("name", name)
	}
	return nil
}

// Options configures an Orchestrator
type Options struct {
	// TemplateName labels the profile in reports and logs
	TemplateName string
	Template     config.Template
	Git          config.Git

	SourceControl types.SourceControl
	Registrar     types.RepositoryRegistrar

	// FS is used for pruning and rewriting; deletions go through synthfs when nil
	FS     types.FS
	Logger *zerolog.Logger
	DryRun bool
}

// Request names the project to create
type Request struct {
	ProjectName string
	TargetDir   string
	// UseExisting skips cloning and works on a tree already at TargetDir
	UseExisting bool
}

// Orchestrator sequences one provisioning run
type Orchestrator struct {
	opts     Options
	logger   zerolog.Logger
	fs       types.FS
	dryRunFS *filesystem.DryRunFS
	state    State
	report   *Report
	root     string

	tracer   trace.Tracer
	stages   metric.Int64Counter
	duration metric.Float64Histogram
}

// New creates an orchestrator in the Idle state
func New(opts Options) *Orchestrator {
	logger := logging.OrDefault(opts.Logger, "provision")
	o := &Orchestrator{
		opts:   opts,
		logger: logger,
		fs:     opts.FS,
		state:  StateIdle,
		tracer: telemetry.Tracer(scopeName),
	}
	if o.fs == nil {
		o.fs = filesystem.NewSynthfs()
	}
	if opts.DryRun {
		o.dryRunFS = filesystem.NewDryRun(o.fs, logger)
		o.fs = o.dryRunFS
	}
	if o.opts.Git.VCSDir == "" {
		o.opts.Git.VCSDir = prune.DefaultVCSDir
	}

	m := telemetry.Meter(scopeName)
	o.stages, _ = m.Int64Counter("templar.provision.stages",
		metric.WithDescription("Provisioning stages entered"),
	)
	o.duration, _ = m.Float64Histogram("templar.provision.stage.duration",
		metric.WithDescription("Provisioning stage duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	return o
}

// State is the current pipeline state
func (o *Orchestrator) State() State {
	return o.state
}

// Report is the report of the last Provision call, or nil
func (o *Orchestrator) Report() *Report {
	return o.report
}

// Provision acquires the template and materializes it for the project
func (o *Orchestrator) Provision(ctx context.Context, req Request) (*Report, error) {
	if o.state != StateIdle {
		return nil, errors.Newf(errors.ErrInvalidInput, "orchestrator already ran (state %s)", o.state)
	}
	if err := ValidateProjectName(req.ProjectName); err != nil {
		return nil, err
	}
	if req.TargetDir == "" {
		return nil, errors.New(errors.ErrInvalidInput, "target directory cannot be empty")
	}

	tmpl := o.opts.Template
	o.report = &Report{
		ProjectName: req.ProjectName,
		Template:    o.opts.TemplateName,
		TargetDir:   req.TargetDir,
		DryRun:      o.opts.DryRun,
		Started:     time.Now(),
	}
	o.report.States = append(o.report.States, StateIdle)
	defer func() { o.report.Duration = time.Since(o.report.Started) }()

	ctx, span := o.tracer.Start(ctx, "provision",
		trace.WithAttributes(
			attribute.String("templar.project", req.ProjectName),
			attribute.String("templar.template", o.opts.TemplateName),
			attribute.Bool("templar.dry_run", o.opts.DryRun),
		),
	)
	defer span.End()

	o.root = req.TargetDir
	if o.opts.DryRun && !req.UseExisting {
		preview, cleanup, err := o.previewDir(req.TargetDir)
		if err != nil {
			return o.report, o.fail(span, err)
		}
		defer cleanup()
		o.root = preview
	}

	// Acquiring
	if err := o.stage(ctx, StateAcquiring, func(ctx context.Context) error {
		return o.acquire(ctx, req, tmpl)
	}); err != nil {
		return o.report, o.fail(span, err)
	}

	manifest, err := ReadManifest(o.fs, o.root)
	if err != nil {
		return o.report, o.fail(span, err)
	}
	if manifest != nil {
		o.logger.Info().Str("path", filepath.Join(o.root, ManifestName)).Msg("Applying template manifest")
		tmpl = manifest.Apply(tmpl)
	}
	rule := tmpl.Rule(req.ProjectName)
	if err := rule.Validate(); err != nil {
		return o.report, o.fail(span, err)
	}
	o.report.Placeholder = rule.Old
	o.report.Replacement = rule.New

	pruner := prune.New(prune.Options{FS: o.fs, Logger: &o.logger, VCSDir: o.opts.Git.VCSDir})
	rewriter := rewrite.New(rewrite.Options{
		FS:       o.fs,
		Logger:   &o.logger,
		SkipDirs: tmpl.SkipDirs,
		Exclude:  []string{o.opts.Git.VCSDir},
	})

	// Pruning never fails the run
	_ = o.stage(ctx, StatePruning, func(ctx context.Context) error {
		o.prune(pruner, tmpl, manifest != nil)
		return nil
	})

	if err := o.stage(ctx, StateRenaming, func(ctx context.Context) error {
		result, err := rewriter.RenameTree(o.root, rule.Old, rule.New)
		o.report.Renamed = result
		return err
	}); err != nil {
		return o.report, o.fail(span, err)
	}

	if err := o.stage(ctx, StateRewritingContent, func(ctx context.Context) error {
		result, err := rewriter.RewriteContents(o.root, rule)
		o.report.Rewritten = result
		return err
	}); err != nil {
		return o.report, o.fail(span, err)
	}

	o.enter(StateDone)
	o.recordPlanned()
	o.logger.Info().
		Str("project", req.ProjectName).
		Str("dir", req.TargetDir).
		Int("pruned", o.report.TotalPruned()).
		Int("renamed", o.report.Renamed.Renamed).
		Int("rewritten", o.report.Rewritten.Rewritten).
		Msg("Project materialized")
	return o.report, nil
}

func (o *Orchestrator) acquire(ctx context.Context, req Request, tmpl config.Template) error {
	if req.UseExisting {
		info, err := os.Stat(o.root)
		if err != nil || !info.IsDir() {
			return errors.Newf(errors.ErrNotFound, "existing project directory not found: %s", o.root)
		}
		o.logger.Info().Str("dir", o.root).Msg("Using existing tree, skipping clone")
		return nil
	}
	if o.opts.SourceControl == nil {
		return errors.New(errors.ErrSourceControl, "no source control configured")
	}
	if err := o.opts.SourceControl.Clone(ctx, tmpl.URL, o.root); err != nil {
		return errors.Wrapf(err, errors.ErrSourceControl, "failed to clone template %s", tmpl.URL)
	}
	if err := o.opts.SourceControl.Checkout(ctx, tmpl.Branch); err != nil {
		return errors.Wrapf(err, errors.ErrSourceControl, "failed to check out %s", tmpl.Branch)
	}
	o.logger.Info().Str("url", tmpl.URL).Str("branch", tmpl.Branch).Msg("Template is downloaded")
	return nil
}

func (o *Orchestrator) prune(pruner *prune.Pruner, tmpl config.Template, hasManifest bool) {
	for _, ext := range tmpl.PruneExtensions {
		result, err := pruner.RemoveByExtension(o.root, ext)
		o.recordPrune(PruneByExtension, ext, result.Removed, result.Failed, err)
	}

	names := tmpl.PruneFiles
	if hasManifest {
		names = append(append([]string{}, names...), ManifestName)
	}
	for _, name := range names {
		result, err := pruner.RemoveNamed(o.root, name)
		o.recordPrune(PruneByName, name, result.Removed, result.Failed, err)
	}
}

func (o *Orchestrator) recordPrune(kind PruneKind, target string, removed, failed int, err error) {
	outcome := PruneOutcome{Kind: kind, Target: target, Removed: removed, Failed: failed}
	if err != nil {
		outcome.Error = err.Error()
		o.logger.Error().Err(err).Str("kind", string(kind)).Str("target", target).Msg("Prune step failed, continuing")
	}
	o.report.Pruned = append(o.report.Pruned, outcome)
}

// RegisterRemote creates the remote repository for the project
func (o *Orchestrator) RegisterRemote(ctx context.Context, repoName string) (*types.RepositoryDescriptor, error) {
	if o.state.Terminal() {
		return nil, errors.New(errors.ErrInvalidInput, "cannot register a remote after a failed run")
	}
	if o.opts.Registrar == nil {
		return nil, errors.New(errors.ErrConfigValid, "no repository registrar configured")
	}

	var descriptor *types.RepositoryDescriptor
	err := o.stage(ctx, StateRegisteringRemote, func(ctx context.Context) error {
		if o.opts.DryRun {
			o.logger.Info().Str("name", repoName).Msg("Dry run - would create remote repository")
			return nil
		}
		d, err := o.opts.Registrar.CreateRepository(ctx, repoName)
		if err != nil {
			return err
		}
		descriptor = d
		return nil
	})
	if err != nil {
		o.enter(StateFailed)
		o.setError(err)
		return nil, err
	}
	if o.report != nil {
		o.report.Repository = descriptor
	}
	o.enter(StateDone)
	return descriptor, nil
}

// Publish pushes the materialized tree to the registered repository
func (o *Orchestrator) Publish(ctx context.Context, descriptor *types.RepositoryDescriptor) error {
	if o.state != StateDone {
		return errors.Newf(errors.ErrInvalidInput, "cannot publish from state %s", o.state)
	}
	if !o.opts.DryRun {
		if descriptor == nil || descriptor.RemoteURL == "" {
			return errors.New(errors.ErrInvalidInput, "publishing requires a repository with a remote URL")
		}
		if o.opts.SourceControl == nil {
			return errors.New(errors.ErrSourceControl, "no source control configured")
		}
	}

	remote := o.opts.Git.PublishRemote
	if remote == "" {
		remote = "origin"
	}
	message := o.opts.Git.CommitMessage
	if message == "" {
		message = "Initial commit from template"
	}
	branch := o.opts.Template.Branch

	err := o.stage(ctx, StatePublishing, func(ctx context.Context) error {
		if o.opts.DryRun {
			o.logger.Info().
				Str("remote", remote).
				Str("branch", branch).
				Msg("Dry run - would commit and push the project")
			return nil
		}
		sc := o.opts.SourceControl
		if err := sc.AddRemote(ctx, remote, descriptor.RemoteURL); err != nil {
			return err
		}
		if err := sc.StageAll(ctx); err != nil {
			return err
		}
		if err := sc.Commit(ctx, message); err != nil {
			return err
		}
		return sc.Push(ctx, remote, branch)
	})
	if err != nil {
		o.enter(StateFailed)
		o.setError(err)
		return errors.Wrap(err, errors.ErrSourceControl, "failed to publish project")
	}

	if o.report != nil {
		o.report.Published = !o.opts.DryRun
	}
	o.enter(StateDone)
	return nil
}

// stage enters state, runs fn inside a span and records its duration
func (o *Orchestrator) stage(ctx context.Context, state State, fn func(context.Context) error) error {
	o.enter(state)
	attrs := metric.WithAttributes(attribute.String("templar.stage", string(state)))
	o.stages.Add(ctx, 1, attrs)

	ctx, span := o.tracer.Start(ctx, "provision."+string(state))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	o.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.Error().Err(err).Str("state", string(state)).Msg("Stage failed")
	}
	return err
}

func (o *Orchestrator) enter(state State) {
	o.logger.Info().
		Str("from", string(o.state)).
		Str("to", string(state)).
		Msg("State transition")
	o.state = state
	if o.report != nil {
		o.report.States = append(o.report.States, state)
	}
}

func (o *Orchestrator) fail(span trace.Span, err error) error {
	o.enter(StateFailed)
	o.setError(err)
	o.recordPlanned()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (o *Orchestrator) setError(err error) {
	if o.report != nil && err != nil {
		o.report.Error = err.Error()
	}
}

func (o *Orchestrator) recordPlanned() {
	if o.dryRunFS == nil || o.report == nil {
		return
	}
	o.report.Planned = &Planned{
		Renames: o.dryRunFS.Renames,
		Writes:  o.dryRunFS.Writes,
		Removes: o.dryRunFS.Removes,
	}
}

// previewDir gives a dry run somewhere to clone the template. The
// directory is removed by the returned cleanup.
func (o *Orchestrator) previewDir(target string) (string, func(), error) {
	tmp, err := os.MkdirTemp("", "templar-preview-")
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrFileAccess, "failed to create preview directory")
	}
	cleanup := func() {
		if err := os.RemoveAll(tmp); err != nil {
			o.logger.Warn().Err(err).Str("dir", tmp).Msg("Failed to remove preview directory")
		}
	}
	dir := filepath.Join(tmp, filepath.Base(target))
	o.logger.Info().Str("preview", dir).Msg("Dry run - cloning template into a preview directory")
	return dir, cleanup, nil
}
