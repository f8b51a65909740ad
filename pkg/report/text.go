package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/templar/pkg/provision"
	"github.com/arthur-debert/templar/pkg/rewrite"
	"github.com/arthur-debert/templar/pkg/types"
)

// Text renders plain text output without colors or styling
type Text struct {
	output io.Writer
}

// NewText creates a plain text renderer
func NewText(w io.Writer) *Text {
	return &Text{output: w}
}

func (t *Text) RenderResult(result interface{}) error {
	var lines []string
	switch v := result.(type) {
	case *provision.Report:
		lines = textReport(v)
	case *types.RepositoryDescriptor:
		lines = textRepository(v)
	case []provision.PruneOutcome:
		for _, p := range v {
			line := fmt.Sprintf("%s %s: removed %d", p.Kind, p.Target, p.Removed)
			if p.Error != "" {
				line += " (" + p.Error + ")"
			} else if p.Failed > 0 {
				line += fmt.Sprintf(" (failed %d)", p.Failed)
			}
			lines = append(lines, line)
		}
	case rewrite.RenameResult:
		lines = []string{fmt.Sprintf("renamed: %d (failed %d)", v.Renamed, v.Failed)}
	case rewrite.RewriteResult:
		lines = []string{fmt.Sprintf("rewritten: %d of %d (failed %d)", v.Rewritten, v.Scanned, v.Failed)}
	default:
		lines = []string{fmt.Sprintf("%+v", v)}
	}
	_, err := fmt.Fprintln(t.output, strings.Join(lines, "\n"))
	return err
}

func (t *Text) RenderError(err error) error {
	_, werr := fmt.Fprintf(t.output, "Error: %v\n", err)
	return werr
}

func (t *Text) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(t.output, msg)
	return err
}

func textReport(r *provision.Report) []string {
	lines := []string{
		fmt.Sprintf("project: %s", r.ProjectName),
		fmt.Sprintf("template: %s", orDash(r.Template)),
		fmt.Sprintf("directory: %s", r.TargetDir),
	}
	if r.Placeholder != "" {
		lines = append(lines, fmt.Sprintf("substitution: %s -> %s", r.Placeholder, r.Replacement))
	}
	if r.DryRun {
		lines = append(lines, "dry run: yes")
	}
	lines = append(lines,
		fmt.Sprintf("outcome: %s", r.Final()),
		fmt.Sprintf("pruned: %d", r.TotalPruned()),
		fmt.Sprintf("renamed: %d (failed %d)", r.Renamed.Renamed, r.Renamed.Failed),
		fmt.Sprintf("rewritten: %d of %d (failed %d)", r.Rewritten.Rewritten, r.Rewritten.Scanned, r.Rewritten.Failed),
	)
	if r.Planned != nil {
		lines = append(lines, fmt.Sprintf("skipped: %d renames, %d writes, %d removals",
			r.Planned.Renames, r.Planned.Writes, r.Planned.Removes))
	}
	if r.Repository != nil {
		lines = append(lines, textRepository(r.Repository)...)
	}
	if r.Error != "" {
		lines = append(lines, "error: "+r.Error)
	}
	return lines
}

func textRepository(d *types.RepositoryDescriptor) []string {
	return []string{
		fmt.Sprintf("repository id: %s", d.ID),
		fmt.Sprintf("remote url: %s", d.RemoteURL),
	}
}
