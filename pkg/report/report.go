// Package report renders provisioning results for humans and machines.
// Terminal, text and JSON renderers share one interface; the terminal
// and markdown forms are built from the same markdown summary.
package report

import (
	"io"
	"os"

	"github.com/arthur-debert/templar/pkg/errors"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderResult renders a *provision.Report, a *types.RepositoryDescriptor or any value
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format, detecting terminal
// capabilities when format is FormatAuto
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return NewTerminal(output, ""), nil
	case FormatText:
		return NewText(output), nil
	case FormatJSON:
		return NewJSON(output), nil
	case FormatMarkdown:
		return NewMarkdownRenderer(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
