// Package scoring builds explainable reports on top of the decision engine.
// A Report says who wins, by how much, and which criteria carried the result.
package scoring

import "github.com/deliberate/deliberate/pkg/decision"

// Report is the complete analysis of one deliberation.
// Immutable once computed.
type Report struct {
	DeliberationID string              `json:"deliberation_id"`
	Name           string              `json:"name"`
	Standings      []decision.Standing `json:"standings"`
	Winner         *decision.Contender `json:"winner,omitempty"`
	WinningScore   float64             `json:"winning_score"`
	RunnerUp       *decision.Contender `json:"runner_up,omitempty"`
	Margin         float64             `json:"margin"` // winner minus runner-up, in valuation points
	Verdict        Verdict             `json:"verdict"`
	Breakdown      []Contribution      `json:"breakdown"`
	Dominant       *decision.Criterion `json:"dominant,omitempty"`
	Narrative      string              `json:"narrative"`
}

// Verdict classifies how clear-cut the outcome is.
type Verdict string

const (
	VerdictInsufficient Verdict = "INSUFFICIENT"
	VerdictSole         Verdict = "SOLE"
	VerdictTied         Verdict = "TIED"
	VerdictClose        Verdict = "CLOSE"
	VerdictDecisive     Verdict = "DECISIVE"
)

// Contribution is one criterion's share of the winner's valuation.
type Contribution struct {
	CriterionID string  `json:"criterion_id"`
	Criterion   string  `json:"criterion"`
	Weight      float64 `json:"weight"` // normalized
	Appraisal   float64 `json:"appraisal"`
	Appraised   bool    `json:"appraised"` // false when the score defaulted to 0
	Points      float64 `json:"points"`
}

// Stats summarizes an archive.
type Stats struct {
	Total               int     `json:"total"`
	Recent              int     `json:"recent"`
	Decided             int     `json:"decided"` // deliberations with a winner
	AverageWinningScore float64 `json:"average_winning_score"`
}

// VerdictFromMargin maps the number of ranked contenders and the lead over
// the runner-up to a verdict.
func VerdictFromMargin(ranked int, margin, closeMargin float64) Verdict {
	switch {
	case ranked == 0:
		return VerdictInsufficient
	case ranked == 1:
		return VerdictSole
	case margin == 0:
		return VerdictTied
	case margin < closeMargin:
		return VerdictClose
	default:
		return VerdictDecisive
	}
}
