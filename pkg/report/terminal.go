package report

import (
	"fmt"
	"io"

	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/arthur-debert/templar/pkg/provision"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// StateStyle returns the pterm style used for a pipeline outcome
func StateStyle(state string) *pterm.Style {
	switch state {
	case "done":
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case "failed":
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgCyan)
	}
}

// Terminal renders the markdown summary through glamour
type Terminal struct {
	output   io.Writer
	style    string
	errStyle lipgloss.Style
	msgStyle lipgloss.Style
	logger   zerolog.Logger
}

// NewTerminal creates a terminal renderer. style is a glamour style name
// ("dark", "light", "notty") or empty to auto-detect.
func NewTerminal(w io.Writer, style string) *Terminal {
	r := lipgloss.NewRenderer(w)
	return &Terminal{
		output:   w,
		style:    style,
		errStyle: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		msgStyle: r.NewStyle().Foreground(lipgloss.Color("12")),
		logger:   logging.GetLogger("report"),
	}
}

func (t *Terminal) RenderResult(result interface{}) error {
	content := toMarkdown(result)
	if outcome, ok := outcomeOf(result); ok {
		badge := StateStyle(outcome).Sprintf(" %s ", outcome)
		if _, err := fmt.Fprintln(t.output, badge); err != nil {
			return err
		}
	}
	_, err := io.WriteString(t.output, t.glamour(content))
	return err
}

func (t *Terminal) RenderError(err error) error {
	_, werr := fmt.Fprintln(t.output, t.errStyle.Render("Error: "+err.Error()))
	return werr
}

func (t *Terminal) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(t.output, t.msgStyle.Render(msg))
	return err
}

func (t *Terminal) glamour(content string) string {
	var options []glamour.TermRendererOption
	if t.style != "" && t.style != "auto" {
		options = append(options, glamour.WithStylePath(t.style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		t.logger.Debug().Err(err).Msg("Falling back to plain markdown")
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		t.logger.Debug().Err(err).Msg("Falling back to plain markdown")
		return content
	}
	return rendered
}

func outcomeOf(result interface{}) (string, bool) {
	if r, ok := result.(*provision.Report); ok {
		return string(r.Final()), true
	}
	return "", false
}
