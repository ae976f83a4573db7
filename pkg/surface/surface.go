// Package surface defines output rendering for deliberation reports.
// Implementations handle different output targets: terminal, markdown, share text, JSON.
package surface

import (
	"fmt"
	"io"

	"github.com/deliberate/deliberate/pkg/scoring"
)

// Renderer produces formatted output from a Report.
type Renderer interface {
	// Render writes the formatted report to the writer.
	Render(w io.Writer, report *scoring.Report) error
}

// ForFormat returns the renderer for an output format name.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "", "text":
		return &TerminalRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "share":
		return &ShareRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// points formats a valuation as whole points out of 100.
func points(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
