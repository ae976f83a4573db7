package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/deliberate/deliberate/pkg/scoring"
)

// MarkdownRenderer produces a markdown summary suitable for issues, chat or notes.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, report *scoring.Report) error {
	_, err := io.WriteString(w, buildMarkdownSummary(report))
	return err
}

func buildMarkdownSummary(report *scoring.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## %s %s\n\n", verdictIcon(report.Verdict), report.Name))

	if report.Winner == nil {
		sb.WriteString(report.Narrative + "\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("**Recommended:** %s (%s/100)\n\n", report.Winner.Name, points(report.WinningScore)))

	// Rankings
	sb.WriteString("### Rankings\n\n")
	sb.WriteString("| # | Option | Score |\n|---|--------|-------|\n")
	for i, s := range report.Standings {
		sb.WriteString(fmt.Sprintf("| %d | %s | %.1f |\n", i+1, s.Contender.Name, s.Valuation))
	}
	sb.WriteString("\n")

	// Breakdown (max 5)
	if len(report.Breakdown) > 0 {
		sb.WriteString("### Breakdown\n\n")
		for i, c := range report.Breakdown {
			if i >= 5 {
				sb.WriteString(fmt.Sprintf("_... and %d more criteria_\n", len(report.Breakdown)-5))
				break
			}
			sb.WriteString(fmt.Sprintf("- **%s** (+%.1f) weight %.0f%%, rated %.1f\n",
				c.Criterion, c.Points, c.Weight*100, c.Appraisal))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(report.Narrative + "\n")
	return sb.String()
}

func verdictIcon(v scoring.Verdict) string {
	switch v {
	case scoring.VerdictDecisive, scoring.VerdictSole:
		return ":green_circle:"
	case scoring.VerdictClose:
		return ":yellow_circle:"
	case scoring.VerdictTied:
		return ":orange_circle:"
	default:
		return ":white_circle:"
	}
}
