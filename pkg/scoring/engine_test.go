package scoring_test

import (
	"math"
	"testing"
	"time"

	"github.com/deliberate/deliberate/pkg/decision"
	"github.com/deliberate/deliberate/pkg/scoring"
)

func fixture(runnerUp map[string]float64) decision.Deliberation {
	return decision.Deliberation{
		ID:   "lunch",
		Name: "Lunch",
		Criteria: []decision.Criterion{
			{ID: "cost", Name: "Cost", Weight: 0.5},
			{ID: "quality", Name: "Quality", Weight: 0.5},
		},
		Contenders: []decision.Contender{
			{ID: "a", Name: "Alpha", Appraisals: map[string]float64{"cost": 8, "quality": 6}},
			{ID: "b", Name: "Bravo", Appraisals: runnerUp},
			{ID: "c", Name: "Charlie", Appraisals: map[string]float64{"cost": 4, "quality": 4}},
		},
	}
}

func TestReportDecisive(t *testing.T) {
	engine := scoring.NewEngine(scoring.Defaults())
	r := engine.Report(fixture(map[string]float64{"cost": 7, "quality": 6}))

	if r.Winner == nil || r.Winner.ID != "a" {
		t.Fatalf("expected winner a, got %+v", r.Winner)
	}
	if r.WinningScore != 70 {
		t.Errorf("expected winning score 70, got %f", r.WinningScore)
	}
	if r.RunnerUp == nil || r.RunnerUp.ID != "b" {
		t.Errorf("expected runner-up b, got %+v", r.RunnerUp)
	}
	if r.Margin != 5 {
		t.Errorf("expected margin 5, got %f", r.Margin)
	}
	if r.Verdict != scoring.VerdictDecisive {
		t.Errorf("expected DECISIVE, got %s", r.Verdict)
	}
	if len(r.Standings) != 3 || r.Standings[2].Contender.ID != "c" {
		t.Errorf("unexpected standings: %+v", r.Standings)
	}

	want := "Based on your criteria, Alpha emerges as the optimal choice with a significant 5.0 point advantage over the second option. The decision is most influenced by cost."
	if r.Narrative != want {
		t.Errorf("narrative mismatch\n got: %s\nwant: %s", r.Narrative, want)
	}
}

func TestReportClose(t *testing.T) {
	engine := scoring.NewEngine(scoring.Options{})
	r := engine.Report(fixture(map[string]float64{"cost": 8, "quality": 5.5}))

	if r.Verdict != scoring.VerdictClose {
		t.Errorf("expected CLOSE, got %s", r.Verdict)
	}
	want := "Based on your criteria, Alpha emerges as the optimal choice, though Bravo is a close alternative with only a 2.5 point difference. The decision is most influenced by cost."
	if r.Narrative != want {
		t.Errorf("narrative mismatch\n got: %s\nwant: %s", r.Narrative, want)
	}
}

func TestReportTieGoesToFirstListed(t *testing.T) {
	engine := scoring.NewEngine(scoring.Defaults())
	r := engine.Report(fixture(map[string]float64{"cost": 8, "quality": 6}))

	if r.Winner.ID != "a" {
		t.Errorf("expected first-listed contender to win tie, got %s", r.Winner.ID)
	}
	if r.Verdict != scoring.VerdictTied {
		t.Errorf("expected TIED, got %s", r.Verdict)
	}
}

func TestReportInsufficient(t *testing.T) {
	engine := scoring.NewEngine(scoring.Defaults())

	tests := []struct {
		name string
		d    decision.Deliberation
	}{
		{"empty", decision.Deliberation{ID: "x"}},
		{"no criteria", decision.Deliberation{Contenders: []decision.Contender{{ID: "a"}}}},
		{"no contenders", decision.Deliberation{Criteria: []decision.Criterion{{ID: "k", Weight: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := engine.Report(tt.d)
			if r.Winner != nil {
				t.Errorf("expected no winner, got %+v", r.Winner)
			}
			if r.Verdict != scoring.VerdictInsufficient {
				t.Errorf("expected INSUFFICIENT, got %s", r.Verdict)
			}
			if r.Narrative != scoring.InsufficientNarrative {
				t.Errorf("unexpected narrative %q", r.Narrative)
			}
			if r.Standings == nil {
				t.Error("expected non-nil empty standings")
			}
		})
	}
}

func TestReportSoleContender(t *testing.T) {
	d := decision.Deliberation{
		Criteria:   []decision.Criterion{{ID: "k", Name: "Speed", Weight: 3}},
		Contenders: []decision.Contender{{ID: "a", Name: "Only", Appraisals: map[string]float64{"k": 9}}},
	}
	r := scoring.NewEngine(scoring.Defaults()).Report(d)

	if r.Verdict != scoring.VerdictSole {
		t.Errorf("expected SOLE, got %s", r.Verdict)
	}
	if r.RunnerUp != nil {
		t.Errorf("expected no runner-up, got %+v", r.RunnerUp)
	}
	want := "Based on your criteria, Only emerges as the optimal choice. The decision is most influenced by speed."
	if r.Narrative != want {
		t.Errorf("narrative mismatch\n got: %s\nwant: %s", r.Narrative, want)
	}
}

func TestReportBreakdown(t *testing.T) {
	r := scoring.NewEngine(scoring.Defaults()).Report(fixture(map[string]float64{"cost": 1}))

	if len(r.Breakdown) != 2 {
		t.Fatalf("expected 2 breakdown entries, got %d", len(r.Breakdown))
	}
	if r.Breakdown[0].CriterionID != "cost" || r.Breakdown[0].Points != 40 {
		t.Errorf("expected cost first with 40 points, got %+v", r.Breakdown[0])
	}
	if r.Breakdown[1].Points != 30 {
		t.Errorf("expected quality with 30 points, got %+v", r.Breakdown[1])
	}

	var total float64
	for _, c := range r.Breakdown {
		total += c.Points
	}
	if math.Abs(total-r.WinningScore) > 1e-9 {
		t.Errorf("breakdown sums to %f, winning score %f", total, r.WinningScore)
	}
}

func TestReportBreakdownFlagsMissingAppraisals(t *testing.T) {
	d := fixture(map[string]float64{})
	d.Contenders[0].Appraisals = map[string]float64{"cost": 10}

	r := scoring.NewEngine(scoring.Defaults()).Report(d)
	if r.Winner.ID != "a" {
		t.Fatalf("expected winner a, got %s", r.Winner.ID)
	}
	for _, c := range r.Breakdown {
		if c.CriterionID == "quality" && c.Appraised {
			t.Error("expected quality to be flagged as unappraised")
		}
		if c.CriterionID == "cost" && !c.Appraised {
			t.Error("expected cost to be flagged as appraised")
		}
	}
}

func TestDominant(t *testing.T) {
	tests := []struct {
		name     string
		criteria []decision.Criterion
		wantID   string
		wantOK   bool
	}{
		{"empty", nil, "", false},
		{"largest wins", []decision.Criterion{{ID: "a", Weight: 0.2}, {ID: "b", Weight: 0.5}, {ID: "c", Weight: 0.3}}, "b", true},
		{"first wins ties", []decision.Criterion{{ID: "a", Weight: 0.4}, {ID: "b", Weight: 0.4}}, "a", true},
		{"nan ignored", []decision.Criterion{{ID: "a", Weight: math.NaN()}, {ID: "b", Weight: 0.1}}, "b", true},
		{"all zero", []decision.Criterion{{ID: "a"}, {ID: "b"}}, "a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scoring.Dominant(tt.criteria)
			if ok != tt.wantOK || got.ID != tt.wantID {
				t.Errorf("Dominant() = %q, %v; want %q, %v", got.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestVerdictFromMargin(t *testing.T) {
	tests := []struct {
		ranked int
		margin float64
		want   scoring.Verdict
	}{
		{0, 0, scoring.VerdictInsufficient},
		{1, 0, scoring.VerdictSole},
		{2, 0, scoring.VerdictTied},
		{2, 4.99, scoring.VerdictClose},
		{2, 5, scoring.VerdictDecisive},
		{3, 30, scoring.VerdictDecisive},
	}
	for _, tt := range tests {
		if got := scoring.VerdictFromMargin(tt.ranked, tt.margin, 5); got != tt.want {
			t.Errorf("VerdictFromMargin(%d, %v) = %s, want %s", tt.ranked, tt.margin, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	decided := fixture(map[string]float64{"cost": 7, "quality": 6})
	decided.CreatedAt = now.Add(-2 * 24 * time.Hour)

	old := fixture(map[string]float64{"cost": 7, "quality": 6})
	old.Contenders[0].Appraisals = map[string]float64{"cost": 10, "quality": 10}
	old.CreatedAt = now.Add(-30 * 24 * time.Hour)

	undecided := decision.Deliberation{Name: "Empty", CreatedAt: now}

	stats := scoring.NewEngine(scoring.Defaults()).Summarize([]decision.Deliberation{decided, old, undecided}, now)

	if stats.Total != 3 {
		t.Errorf("expected total 3, got %d", stats.Total)
	}
	if stats.Recent != 2 {
		t.Errorf("expected 2 recent, got %d", stats.Recent)
	}
	if stats.Decided != 2 {
		t.Errorf("expected 2 decided, got %d", stats.Decided)
	}
	if stats.AverageWinningScore != 85 {
		t.Errorf("expected average 85, got %f", stats.AverageWinningScore)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := scoring.Summarize(nil, time.Now(), time.Hour)
	if stats != (scoring.Stats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestReportDoesNotCache(t *testing.T) {
	engine := scoring.NewEngine(scoring.Defaults())
	d := fixture(map[string]float64{"cost": 7, "quality": 6})
	first := engine.Report(d)

	d, err := d.Appraise("b", "cost", 10)
	if err != nil {
		t.Fatal(err)
	}
	second := engine.Report(d)

	if first.Winner.ID != "a" || second.Winner.ID != "b" {
		t.Errorf("expected winner to move from a to b, got %s then %s", first.Winner.ID, second.Winner.ID)
	}
}
