package config

import (
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/types"
)

// Config is the complete templar configuration
type Config struct {
	DefaultTemplate string              `koanf:"default_template"`
	WorkDir         string              `koanf:"work_dir"`
	Retry           Retry               `koanf:"retry"`
	DevOps          DevOps              `koanf:"devops"`
	Git             Git                 `koanf:"git"`
	Templates       map[string]Template `koanf:"templates"`
}

// Retry is the policy for DevOps CLI calls
type Retry struct {
	MaxAttempts  int           `koanf:"max_attempts"`
	InitialDelay time.Duration `koanf:"initial_delay"`
	Multiplier   float64       `koanf:"multiplier"`
}

// DevOps addresses the remote repository provider
type DevOps struct {
	CLI          string `koanf:"cli"`
	Organization string `koanf:"organization"`
	Project      string `koanf:"project"`
	OutputFormat string `koanf:"output_format"`
}

// Git configures the source-control collaborator
type Git struct {
	Binary        string `koanf:"binary"`
	VCSDir        string `koanf:"vcs_dir"`
	PublishRemote string `koanf:"publish_remote"`
	CommitMessage string `koanf:"commit_message"`
}

// Template is one provisioning profile
type Template struct {
	URL               string   `koanf:"url" toml:"url"`
	Branch            string   `koanf:"branch" toml:"branch"`
	Placeholder       string   `koanf:"placeholder" toml:"placeholder"`
	Replacement       string   `koanf:"replacement" toml:"replacement"`
	PruneExtensions   []string `koanf:"prune_extensions" toml:"prune_extensions"`
	PruneFiles        []string `koanf:"prune_files" toml:"prune_files"`
	ContentExtensions []string `koanf:"content_extensions" toml:"content_extensions"`
	SkipDirs          []string `koanf:"skip_dirs" toml:"skip_dirs"`
}

// NamePlaceholder marks where the project name goes in Template.Replacement
const NamePlaceholder = "{name}"

// ReplacementFor expands the replacement pattern for a project
func (t Template) ReplacementFor(project string) string {
	return strings.ReplaceAll(t.Replacement, NamePlaceholder, project)
}

// Rule is the substitution rule that turns the template into project
func (t Template) Rule(project string) types.SubstitutionRule {
	return types.SubstitutionRule{
		Old:        t.Placeholder,
		New:        t.ReplacementFor(project),
		Extensions: t.ContentExtensions,
	}
}

// Template resolves a profile by name, falling back to DefaultTemplate
func (c *Config) Template(name string) (Template, error) {
	if name == "" {
		name = c.DefaultTemplate
	}
	t, ok := c.Templates[name]
	if !ok {
		return Template{}, errors.Newf(errors.ErrNotFound, "unknown template: %s", name).
			WithDetail("template", name).
			WithDetail("available", c.TemplateNames())
	}
	return t, nil
}

// TemplateNames lists configured profiles
func (c *Config) TemplateNames() []string {
	names := make([]string, 0, len(c.Templates))
	for name := range c.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var outputFormats = map[string]bool{"json": true, "yaml": true}

// Validate checks values that would otherwise fail deep inside a run
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return invalid("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.InitialDelay <= 0 {
		return invalid("retry.initial_delay must be positive, got %s", c.Retry.InitialDelay)
	}
	if c.Retry.Multiplier < 1 {
		return invalid("retry.multiplier must be at least 1, got %g", c.Retry.Multiplier)
	}
	if !outputFormats[strings.ToLower(c.DevOps.OutputFormat)] {
		return invalid("devops.output_format must be json or yaml, got %q", c.DevOps.OutputFormat)
	}
	if c.Git.VCSDir == "" {
		return invalid("git.vcs_dir cannot be empty")
	}
	for _, name := range c.TemplateNames() {
		t := c.Templates[name]
		switch {
		case t.URL == "":
			return invalid("templates.%s.url is required", name)
		case t.Branch == "":
			return invalid("templates.%s.branch is required", name)
		case t.Placeholder == "":
			return invalid("templates.%s.placeholder is required", name)
		}
	}
	if c.DefaultTemplate != "" {
		if _, ok := c.Templates[c.DefaultTemplate]; !ok {
			return invalid("default_template %q is not a configured template", c.DefaultTemplate)
		}
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrConfigValid, format, args...)
}
