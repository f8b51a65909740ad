package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arthur-debert/templar/pkg/provision"
	"github.com/arthur-debert/templar/pkg/rewrite"
	"github.com/arthur-debert/templar/pkg/types"
)

// Markdown summarizes a provisioning report
func Markdown(r *provision.Report) string {
	var b strings.Builder

	title := "Project"
	if r.DryRun {
		title = "Dry run for project"
	}
	fmt.Fprintf(&b, "# %s `%s`\n\n", title, r.ProjectName)

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Template | %s |\n", orDash(r.Template))
	fmt.Fprintf(&b, "| Directory | `%s` |\n", r.TargetDir)
	if r.Placeholder != "" {
		fmt.Fprintf(&b, "| Substitution | `%s` to `%s` |\n", r.Placeholder, r.Replacement)
	}
	fmt.Fprintf(&b, "| Outcome | %s |\n", r.Final())
	fmt.Fprintf(&b, "| Duration | %s |\n\n", r.Duration.Round(time.Millisecond))

	b.WriteString("## Stages\n\n")
	states := make([]string, len(r.States))
	for i, s := range r.States {
		states[i] = string(s)
	}
	b.WriteString(strings.Join(states, " > "))
	b.WriteString("\n\n")

	if len(r.Pruned) > 0 {
		b.WriteString(pruneMarkdown(r.Pruned))
	}

	b.WriteString("## Rewrite\n\n")
	fmt.Fprintf(&b, "- Paths renamed: %d (failed %d)\n", r.Renamed.Renamed, r.Renamed.Failed)
	fmt.Fprintf(&b, "- Files rewritten: %d of %d scanned (failed %d)\n",
		r.Rewritten.Rewritten, r.Rewritten.Scanned, r.Rewritten.Failed)
	if r.Planned != nil {
		fmt.Fprintf(&b, "- Skipped by dry run: %d renames, %d writes, %d removals\n",
			r.Planned.Renames, r.Planned.Writes, r.Planned.Removes)
	}
	b.WriteString("\n")

	if r.Repository != nil {
		b.WriteString(RepositoryMarkdown(r.Repository))
		if r.Published {
			b.WriteString("Published to the new repository.\n\n")
		}
	}

	if r.Error != "" {
		fmt.Fprintf(&b, "## Error\n\n```\n%s\n```\n", r.Error)
	}
	return b.String()
}

func pruneMarkdown(outcomes []provision.PruneOutcome) string {
	var b strings.Builder
	b.WriteString("## Pruned\n\n| Kind | Target | Removed | Failed |\n|---|---|---|---|\n")
	for _, p := range outcomes {
		failed := fmt.Sprint(p.Failed)
		if p.Error != "" {
			failed = p.Error
		}
		fmt.Fprintf(&b, "| %s | `%s` | %d | %s |\n", p.Kind, p.Target, p.Removed, failed)
	}
	b.WriteString("\n")
	return b.String()
}

// RepositoryMarkdown summarizes a created repository
func RepositoryMarkdown(d *types.RepositoryDescriptor) string {
	var b strings.Builder
	b.WriteString("## Repository\n\n")
	fmt.Fprintf(&b, "- ID: `%s`\n", d.ID)
	if d.Name != "" {
		fmt.Fprintf(&b, "- Name: %s\n", d.Name)
	}
	fmt.Fprintf(&b, "- Remote: %s\n", d.RemoteURL)
	if d.WebURL != "" {
		fmt.Fprintf(&b, "- Web: %s\n", d.WebURL)
	}
	b.WriteString("\n")
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// MarkdownRenderer writes the raw markdown summary
type MarkdownRenderer struct {
	output io.Writer
}

// NewMarkdownRenderer creates a markdown renderer
func NewMarkdownRenderer(w io.Writer) *MarkdownRenderer {
	return &MarkdownRenderer{output: w}
}

func (r *MarkdownRenderer) RenderResult(result interface{}) error {
	_, err := io.WriteString(r.output, toMarkdown(result))
	return err
}

func (r *MarkdownRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "**Error:** %v\n", err)
	return werr
}

func (r *MarkdownRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func toMarkdown(result interface{}) string {
	switch v := result.(type) {
	case *provision.Report:
		return Markdown(v)
	case *types.RepositoryDescriptor:
		return RepositoryMarkdown(v)
	case []provision.PruneOutcome:
		return pruneMarkdown(v)
	case rewrite.RenameResult:
		return fmt.Sprintf("- Paths renamed: %d (failed %d)\n", v.Renamed, v.Failed)
	case rewrite.RewriteResult:
		return fmt.Sprintf("- Files rewritten: %d of %d scanned (failed %d)\n", v.Rewritten, v.Scanned, v.Failed)
	case string:
		return v + "\n"
	default:
		return fmt.Sprintf("%+v\n", v)
	}
}
