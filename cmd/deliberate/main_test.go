package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deliberate/deliberate/internal/events"
	"github.com/deliberate/deliberate/pkg/decision"
	"github.com/deliberate/deliberate/pkg/scoring"
)

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	f := cmd.PersistentFlags()

	output, _ := f.GetString("output")
	if output != "text" {
		t.Errorf("default output = %q, want text", output)
	}
	for _, flag := range []string{"config", "archive", "output", "verbose"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}

	want := []string{
		"new", "list", "show", "rank", "share", "rename", "rate", "weigh", "equalize",
		"add-contender", "remove-contender", "add-criterion", "remove-criterion",
		"delete", "clear", "stats", "templates", "pick", "serve", "mcp", "watch",
	}
	for _, name := range want {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("missing command: %s", name)
		}
	}
}

func TestNewCmdFlags(t *testing.T) {
	cmd := newNewCmd(&globalOpts{})
	for _, flag := range []string{"contender", "criterion", "template"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}

	add := newAddCriterionCmd(&globalOpts{})
	weight, _ := add.Flags().GetFloat64("weight")
	if weight != 1 {
		t.Errorf("default criterion weight = %v, want 1", weight)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a", "b", "c"}, "a"},
		{[]string{"", "b", "c"}, "b"},
		{[]string{"", "", "c"}, "c"},
		{[]string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		got := firstNonEmpty(tt.args...)
		if got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		in      string
		want    decision.Criterion
		wantErr bool
	}{
		{in: "Cost", want: decision.Criterion{Name: "Cost", Weight: 1}},
		{in: " Fun = 2.5 ", want: decision.Criterion{Name: "Fun", Weight: 2.5}},
		{in: "Risk=0", want: decision.Criterion{Name: "Risk", Weight: 0}},
		{in: "=3", wantErr: true},
		{in: "Cost=cheap", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseCriterion(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCriterion(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parseCriterion(%q) = %+v, %v; want %+v", tt.in, got, err, tt.want)
		}
	}
}

func TestFormatEvent(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.Local)
	got := formatEvent(events.Event{Type: events.TypeUpdated, DeliberationID: "0123456789abcdef", Name: "Trip", At: at})
	if got != "12:00:00  updated  Trip (01234567)" {
		t.Errorf("formatEvent = %q", got)
	}
	got = formatEvent(events.Event{Type: events.TypeCleared, At: at})
	if got != "12:00:00  cleared  archive" {
		t.Errorf("formatEvent cleared = %q", got)
	}
}

// cli runs commands against a private archive.
type cli struct {
	t    *testing.T
	base []string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	return &cli{t: t, base: []string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--archive", filepath.Join(dir, "deliberations_archive.json"),
	}}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(append([]string{}, c.base...), args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("deliberate %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestWorkflow(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("new", "Trip", "-c", "Beach", "-c", "Mountains", "-k", "Cost", "-k", "Fun")
	if !strings.HasPrefix(out, `Created "Trip"`) || !strings.Contains(out, "with 2 contenders and 2 criteria") {
		t.Errorf("unexpected new output %q", out)
	}

	out = c.mustRun("rate", "Trip", "mountains", "fun", "9")
	if out != "Rated Mountains 9 on Fun\nLeader: Mountains (70/100)\n" {
		t.Errorf("unexpected rate output %q", out)
	}

	out = c.mustRun("rank", "trip")
	if out != "1. Mountains - 70.0\n2. Beach - 50.0\n" {
		t.Errorf("unexpected rank output %q", out)
	}

	out = c.mustRun("share", "Trip")
	if !strings.Contains(out, "Recommended: Mountains (70/100)") {
		t.Errorf("unexpected share output %q", out)
	}

	out = c.mustRun("show", "Trip", "-o", "json")
	var report scoring.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("show json: %v\n%s", err, out)
	}
	if report.Verdict != scoring.VerdictDecisive || report.Winner == nil || report.Winner.Name != "Mountains" {
		t.Errorf("unexpected report %+v", report)
	}

	if _, err := c.run("remove-contender", "Trip", "Beach"); err == nil || !strings.Contains(err.Error(), "policy violation") {
		t.Errorf("expected policy violation, got %v", err)
	}
	if _, err := c.run("rate", "Trip", "Mountains", "Fun", "11"); err == nil {
		t.Error("expected out-of-range score to be rejected")
	}
	if _, err := c.run("rate", "Nope", "Mountains", "Fun", "3"); err == nil {
		t.Error("expected unknown deliberation to be rejected")
	}

	c.mustRun("new", "--template", "restaurant", "Dinner")
	out = c.mustRun("list", "-o", "json")
	var list []decision.Deliberation
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("list json: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Dinner" || len(list[0].Contenders) != 3 {
		t.Errorf("unexpected list %+v", list)
	}

	out = c.mustRun("stats", "-o", "json")
	var stats scoring.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("stats json: %v", err)
	}
	if stats.Total != 2 || stats.Recent != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if _, err := c.run("clear"); err == nil {
		t.Error("expected clear without --yes to fail")
	}
	out = c.mustRun("clear", "--yes")
	if out != "Cleared 2 deliberations\n" {
		t.Errorf("unexpected clear output %q", out)
	}
	out = c.mustRun("list")
	if !strings.HasPrefix(out, "No deliberations yet.") {
		t.Errorf("expected empty list, got %q", out)
	}
}

func TestWeightCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("new", "Laptop", "-c", "Air", "-c", "Pro", "-k", "Price=3", "-k", "Battery")

	out := c.mustRun("weigh", "Laptop", "Battery", "1", "-o", "json")
	var d decision.Deliberation
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("weigh json: %v", err)
	}
	if d.Criteria[0].Weight != 3 || d.Criteria[1].Weight != 1 {
		t.Errorf("unexpected weights %+v", d.Criteria)
	}

	out = c.mustRun("equalize", "Laptop", "--normalize", "-o", "json")
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatal(err)
	}
	if d.Criteria[0].Weight != 0.75 || d.Criteria[1].Weight != 0.25 {
		t.Errorf("unexpected normalized weights %+v", d.Criteria)
	}

	c.mustRun("add-criterion", "Laptop", "Screen", "-w", "2")
	c.mustRun("remove-criterion", "Laptop", "price")
	c.mustRun("add-contender", "Laptop", "Mini", "-d", "small")
	out = c.mustRun("equalize", "Laptop", "-o", "json")
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatal(err)
	}
	if len(d.Criteria) != 2 || d.Criteria[0].Weight != 0.5 || d.Criteria[1].Name != "Screen" {
		t.Errorf("unexpected criteria %+v", d.Criteria)
	}
	if len(d.Contenders) != 3 || d.Contenders[2].Description != "small" {
		t.Errorf("unexpected contenders %+v", d.Contenders)
	}

	out = c.mustRun("rename", "Laptop", "New laptop")
	if !strings.HasPrefix(out, `Renamed "Laptop" to "New laptop"`) {
		t.Errorf("unexpected rename output %q", out)
	}
	out = c.mustRun("delete", "new laptop")
	if out != "Deleted \"New laptop\"\n" {
		t.Errorf("unexpected delete output %q", out)
	}
}

func TestTemplatesAndPick(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("templates", "-o", "json")
	var templates []decision.Template
	if err := json.Unmarshal([]byte(out), &templates); err != nil {
		t.Fatalf("templates json: %v", err)
	}
	if len(templates) != len(decision.BuiltinTemplates()) {
		t.Errorf("got %d templates", len(templates))
	}

	first := c.mustRun("pick", "pizza, sushi,, tacos", "--seed", "7")
	second := c.mustRun("pick", "pizza, sushi,, tacos", "--seed", "7")
	if first != second {
		t.Errorf("same seed picked %q then %q", first, second)
	}
	switch strings.TrimSpace(first) {
	case "pizza", "sushi", "tacos":
	default:
		t.Errorf("unexpected pick %q", first)
	}

	if _, err := c.run("pick", " , "); err == nil {
		t.Error("expected error for empty options")
	}
}
