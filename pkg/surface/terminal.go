package surface

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/deliberate/deliberate/pkg/scoring"
)

// TerminalRenderer renders a Report as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func verdictColor(v scoring.Verdict) string {
	if noColor() {
		return ""
	}
	switch v {
	case scoring.VerdictDecisive, scoring.VerdictSole:
		return colorGreen
	case scoring.VerdictClose, scoring.VerdictTied:
		return colorYellow
	case scoring.VerdictInsufficient:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, report *scoring.Report) error {
	vc := verdictColor(report.Verdict)

	// Header
	fmt.Fprintf(w, "%s  %s\n\n", bold(report.Name), colored(string(report.Verdict), vc))

	if report.Winner == nil {
		fmt.Fprintln(w, report.Narrative)
		return nil
	}

	fmt.Fprintf(w, "Recommended: %s %s\n\n",
		bold(report.Winner.Name), dim(fmt.Sprintf("(%s/100)", points(report.WinningScore))))

	// Rankings
	fmt.Fprintln(w, "Rankings:")
	for i, s := range report.Standings {
		marker := " "
		if i == 0 {
			marker = colored("●", colorGreen)
		}
		fmt.Fprintf(w, "  %s %d. %-24s %6.1f  %s\n",
			marker, i+1, s.Contender.Name, s.Valuation, bar(s.Valuation))
	}
	fmt.Fprintln(w)

	// Breakdown
	if len(report.Breakdown) > 0 {
		fmt.Fprintf(w, "Why %s:\n", report.Winner.Name)
		for _, c := range report.Breakdown {
			note := ""
			if !c.Appraised {
				note = dim(" (not rated)")
			}
			fmt.Fprintf(w, "  (+%.1f) %s %s%s\n",
				c.Points, bold(c.Criterion),
				dim(fmt.Sprintf("weight %.0f%%, rated %.1f", c.Weight*100, c.Appraisal)), note)
		}
		fmt.Fprintln(w)
	}

	for _, line := range wrapText(report.Narrative, 70) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	return nil
}

// bar draws a 20-cell gauge for a 0-100 valuation.
func bar(v float64) string {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	cells := int(v/5 + 0.5)
	if cells > 20 {
		cells = 20
	}
	return strings.Repeat("█", cells) + dim(strings.Repeat("·", 20-cells))
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
