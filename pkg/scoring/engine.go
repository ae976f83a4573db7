package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/deliberate/deliberate/pkg/decision"
)

// InsufficientNarrative is shown when a deliberation cannot be analysed.
const InsufficientNarrative = "Unable to generate analysis due to insufficient data."

// Engine produces reports for deliberations.
type Engine struct {
	opts Options
}

// NewEngine creates a report engine. Zero option fields take their defaults.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Report analyses a deliberation. Every figure is recomputed from the
// deliberation's current state; nothing is cached.
func (e *Engine) Report(d decision.Deliberation) *Report {
	result := &Report{
		DeliberationID: d.ID,
		Name:           d.Name,
		Standings:      d.Ranking(),
	}

	ranked := 0
	for _, s := range result.Standings {
		if !math.IsNaN(s.Valuation) {
			ranked++
		}
	}

	if winner, ok := d.Sovereign(); ok {
		result.Winner = &winner
		result.WinningScore = result.Standings[0].Valuation
		result.Breakdown = computeBreakdown(winner, d.NormalizedCriteria())
	}
	if ranked >= 2 {
		runnerUp := result.Standings[1].Contender
		result.RunnerUp = &runnerUp
		result.Margin = result.Standings[0].Valuation - result.Standings[1].Valuation
	}
	if k, ok := Dominant(d.Criteria); ok {
		result.Dominant = &k
	}

	result.Verdict = VerdictFromMargin(ranked, result.Margin, e.opts.CloseMargin)
	result.Narrative = e.narrative(result)
	return result
}

// Summarize computes archive statistics. A deliberation is recent when it
// was created within window of now.
func (e *Engine) Summarize(deliberations []decision.Deliberation, now time.Time) Stats {
	return Summarize(deliberations, now, e.opts.RecentWindow)
}

// Summarize computes archive statistics with an explicit recent window.
func Summarize(deliberations []decision.Deliberation, now time.Time, window time.Duration) Stats {
	stats := Stats{Total: len(deliberations)}
	cutoff := now.Add(-window)

	var sum float64
	for _, d := range deliberations {
		if !d.CreatedAt.Before(cutoff) {
			stats.Recent++
		}
		winner, ok := d.Sovereign()
		if !ok {
			continue
		}
		v, _ := d.Valuation(winner.ID)
		sum += v
		stats.Decided++
	}
	if stats.Decided > 0 {
		stats.AverageWinningScore = sum / float64(stats.Decided)
	}
	return stats
}

// Dominant returns the criterion with the largest weight. The first one
// listed wins ties; NaN weights are ignored.
func Dominant(criteria []decision.Criterion) (decision.Criterion, bool) {
	var (
		best  decision.Criterion
		found bool
	)
	for _, k := range criteria {
		if math.IsNaN(k.Weight) {
			continue
		}
		if !found || k.Weight > best.Weight {
			best, found = k, true
		}
	}
	return best, found
}

// computeBreakdown splits the winner's valuation per criterion, largest
// contribution first.
func computeBreakdown(winner decision.Contender, normalized []decision.Criterion) []Contribution {
	breakdown := make([]Contribution, 0, len(normalized))
	for _, k := range normalized {
		score, ok := winner.Appraisal(k.ID)
		breakdown = append(breakdown, Contribution{
			CriterionID: k.ID,
			Criterion:   k.Name,
			Weight:      k.Weight,
			Appraisal:   score,
			Appraised:   ok,
			Points:      score * k.Weight * decision.ValuationScale,
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Points > breakdown[j].Points
	})
	return breakdown
}

func (e *Engine) narrative(r *Report) string {
	if r.Winner == nil {
		return InsufficientNarrative
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your criteria, %s emerges as the optimal choice", r.Winner.Name)
	if r.RunnerUp != nil {
		if r.Margin < e.opts.CloseMargin {
			fmt.Fprintf(&b, ", though %s is a close alternative with only a %.1f point difference", r.RunnerUp.Name, r.Margin)
		} else {
			fmt.Fprintf(&b, " with a significant %.1f point advantage over the second option", r.Margin)
		}
	}
	if r.Dominant != nil {
		fmt.Fprintf(&b, ". The decision is most influenced by %s", strings.ToLower(r.Dominant.Name))
	}
	b.WriteString(".")
	return b.String()
}
