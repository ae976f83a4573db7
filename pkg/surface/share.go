package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/deliberate/deliberate/pkg/scoring"
)

// ShareRenderer produces the plain-text summary users paste into messages.
type ShareRenderer struct{}

func (r *ShareRenderer) Render(w io.Writer, report *scoring.Report) error {
	_, err := io.WriteString(w, ShareText(report))
	return err
}

// ShareText builds the share summary for a report.
func ShareText(report *scoring.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Decision: %s\n\n", report.Name)
	if report.Winner != nil {
		fmt.Fprintf(&sb, "Recommended: %s (%s/100)\n\n", report.Winner.Name, points(report.WinningScore))
	}
	sb.WriteString("Rankings:\n")
	for i, s := range report.Standings {
		fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, s.Contender.Name, points(s.Valuation))
	}
	return sb.String()
}
