package decision_test

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/deliberate/deliberate/pkg/decision"
)

func sample() decision.Deliberation {
	return decision.Deliberation{
		ID:   "d1",
		Name: "Laptop",
		Criteria: []decision.Criterion{
			criterion("price", 2),
			criterion("battery", 1),
		},
		Contenders: []decision.Contender{
			contender("air", map[string]float64{"price": 6, "battery": 9}),
			contender("pro", map[string]float64{"price": 3, "battery": 8}),
		},
	}
}

func TestEditsDoNotMutateReceiver(t *testing.T) {
	orig := sample()

	_, _ = orig.Appraise("air", "price", 1)
	_, _ = orig.Weigh("price", 9)
	_, _ = orig.RemoveCriterion("battery")
	_, _ = orig.RemoveContender("pro")
	_ = orig.AddContender(contender("new", nil))
	_ = orig.EqualizeWeights()
	_ = orig.Rename("Other")

	if orig.Name != "Laptop" {
		t.Errorf("Name = %q, want Laptop", orig.Name)
	}
	if orig.Contenders[0].Appraisals["price"] != 6 {
		t.Errorf("appraisal mutated: %v", orig.Contenders[0].Appraisals)
	}
	if orig.Criteria[0].Weight != 2 {
		t.Errorf("weight mutated: %v", orig.Criteria[0].Weight)
	}
	if len(orig.Criteria) != 2 || len(orig.Contenders) != 2 {
		t.Errorf("lists mutated: %d criteria, %d contenders", len(orig.Criteria), len(orig.Contenders))
	}
	if _, ok := orig.Contenders[1].Appraisals["battery"]; !ok {
		t.Error("RemoveCriterion leaked into receiver's appraisals")
	}
}

func TestRemoveCriterionDropsAppraisals(t *testing.T) {
	d, err := sample().RemoveCriterion("battery")
	if err != nil {
		t.Fatalf("RemoveCriterion: %v", err)
	}
	if len(d.Criteria) != 1 || d.Criteria[0].ID != "price" {
		t.Fatalf("criteria = %+v", d.Criteria)
	}
	for _, c := range d.Contenders {
		if _, ok := c.Appraisals["battery"]; ok {
			t.Errorf("%s still has a battery appraisal", c.ID)
		}
	}
}

func TestEditsUnknownIDs(t *testing.T) {
	d := sample()
	checks := []struct {
		name string
		err  error
		want error
	}{
		{"remove contender", second(d.RemoveContender("nope")), decision.ErrContenderNotFound},
		{"rename contender", second(d.RenameContender("nope", "x")), decision.ErrContenderNotFound},
		{"describe contender", second(d.DescribeContender("nope", "x")), decision.ErrContenderNotFound},
		{"remove criterion", second(d.RemoveCriterion("nope")), decision.ErrCriterionNotFound},
		{"rename criterion", second(d.RenameCriterion("nope", "x")), decision.ErrCriterionNotFound},
		{"weigh", second(d.Weigh("nope", 1)), decision.ErrCriterionNotFound},
		{"appraise unknown criterion", second(d.Appraise("air", "nope", 1)), decision.ErrCriterionNotFound},
		{"appraise unknown contender", second(d.Appraise("nope", "price", 1)), decision.ErrContenderNotFound},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if !errors.Is(c.err, c.want) {
				t.Errorf("err = %v, want %v", c.err, c.want)
			}
		})
	}
}

func second(_ decision.Deliberation, err error) error { return err }

func TestEqualizeAndNormalizeWeights(t *testing.T) {
	d := sample().EqualizeWeights()
	for _, k := range d.Criteria {
		if k.Weight != 0.5 {
			t.Errorf("%s weight = %v, want 0.5", k.ID, k.Weight)
		}
	}

	n := sample().NormalizeWeights()
	if math.Abs(n.Criteria[0].Weight-2.0/3) > tolerance || math.Abs(n.Criteria[1].Weight-1.0/3) > tolerance {
		t.Errorf("normalized weights = %v, %v", n.Criteria[0].Weight, n.Criteria[1].Weight)
	}

	empty := decision.Deliberation{}.EqualizeWeights()
	if len(empty.Criteria) != 0 {
		t.Errorf("EqualizeWeights on empty produced %d criteria", len(empty.Criteria))
	}
}

func TestFillMissingAppraisals(t *testing.T) {
	d := sample().AddContender(contender("fresh", map[string]float64{"price": 2}))
	d = d.FillMissingAppraisals(5)

	fresh, _ := d.Contender("fresh")
	if fresh.Appraisals["price"] != 2 {
		t.Errorf("existing appraisal overwritten: %v", fresh.Appraisals["price"])
	}
	if fresh.Appraisals["battery"] != 5 {
		t.Errorf("missing appraisal = %v, want 5", fresh.Appraisals["battery"])
	}
}

func TestTouchAndRename(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := sample().Rename("Desk").Touch(now)
	if d.Name != "Desk" || !d.ModifiedAt.Equal(now) {
		t.Errorf("got %q at %v", d.Name, d.ModifiedAt)
	}
	if d.ID != "d1" {
		t.Errorf("ID changed to %q", d.ID)
	}
}

func TestPolicy(t *testing.T) {
	p := decision.DefaultPolicy()
	d := sample()

	if err := p.CheckRemoveContender(d); !errors.Is(err, decision.ErrPolicy) {
		t.Errorf("removing one of two contenders: err = %v, want policy violation", err)
	}
	d = d.AddContender(contender("c3", nil))
	if err := p.CheckRemoveContender(d); err != nil {
		t.Errorf("removing one of three contenders: %v", err)
	}

	d = d.AddContender(contender("c4", nil)).AddContender(contender("c5", nil))
	if err := p.CheckAddContender(d); !errors.Is(err, decision.ErrPolicy) {
		t.Errorf("sixth contender: err = %v, want policy violation", err)
	}

	one, _ := sample().RemoveCriterion("battery")
	if err := p.CheckRemoveCriterion(one); !errors.Is(err, decision.ErrPolicy) {
		t.Errorf("removing last criterion: err = %v, want policy violation", err)
	}
	if err := p.CheckRemoveCriterion(sample()); err != nil {
		t.Errorf("removing one of two criteria: %v", err)
	}

	for _, score := range []float64{0, 10.5, math.NaN()} {
		if err := p.CheckAppraisal(score); err == nil {
			t.Errorf("CheckAppraisal(%v) = nil, want error", score)
		}
	}
	if err := p.CheckAppraisal(7.5); err != nil {
		t.Errorf("CheckAppraisal(7.5) = %v", err)
	}
	for _, w := range []float64{-0.1, math.Inf(1), math.NaN()} {
		if err := p.CheckWeight(w); err == nil {
			t.Errorf("CheckWeight(%v) = nil, want error", w)
		}
	}

	var pe *decision.PolicyError
	if !errors.As(p.CheckWeight(-1), &pe) || pe.Rule != "weight" {
		t.Errorf("CheckWeight(-1) = %v, want PolicyError with rule weight", pe)
	}
}

func TestCompose(t *testing.T) {
	now := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	p := decision.DefaultPolicy()

	t.Run("fills defaults", func(t *testing.T) {
		d, err := decision.Compose(decision.Draft{
			Name:       "  ",
			Contenders: []decision.Contender{{Name: "Bus"}, {Name: "Bike"}},
			Criteria:   decision.DefaultDraftCriteria(),
		}, p, now)
		if err != nil {
			t.Fatalf("Compose: %v", err)
		}
		if d.Name != decision.UntitledName {
			t.Errorf("Name = %q, want %q", d.Name, decision.UntitledName)
		}
		if d.ID == "" || !d.CreatedAt.Equal(now) || !d.ModifiedAt.Equal(now) {
			t.Errorf("identity/timestamps not set: %+v", d)
		}
		for _, c := range d.Contenders {
			if c.ID == "" {
				t.Error("contender without ID")
			}
			for _, k := range d.Criteria {
				if c.Appraisals[k.ID] != 5 {
					t.Errorf("%s/%s = %v, want 5", c.Name, k.Name, c.Appraisals[k.ID])
				}
			}
		}
	})

	t.Run("rejects counts", func(t *testing.T) {
		cases := []decision.Draft{
			{Contenders: []decision.Contender{{Name: "only"}}, Criteria: decision.DefaultDraftCriteria()},
			{Contenders: make([]decision.Contender, 6), Criteria: decision.DefaultDraftCriteria()},
			{Contenders: []decision.Contender{{Name: "a"}, {Name: "b"}}},
		}
		for i, draft := range cases {
			if _, err := decision.Compose(draft, p, now); !errors.Is(err, decision.ErrPolicy) {
				t.Errorf("case %d: err = %v, want policy violation", i, err)
			}
		}
	})

	t.Run("keeps valid supplied appraisals", func(t *testing.T) {
		d, err := decision.Compose(decision.Draft{
			Criteria: []decision.Criterion{criterion("k", 1)},
			Contenders: []decision.Contender{
				contender("a", map[string]float64{"k": 9}),
				{Name: "b"},
			},
		}, p, now)
		if err != nil {
			t.Fatalf("Compose: %v", err)
		}
		if got := d.Contenders[0].Appraisals["k"]; got != 9 {
			t.Errorf("a/k = %v, want 9", got)
		}
		if got := d.Contenders[1].Appraisals["k"]; got != 5 {
			t.Errorf("b/k = %v, want default 5", got)
		}
	})

	t.Run("rejects bad identities and appraisals", func(t *testing.T) {
		k := []decision.Criterion{criterion("k", 1)}
		tests := []struct {
			name  string
			draft decision.Draft
			rule  string
		}{
			{"appraisal above range", decision.Draft{Criteria: k, Contenders: []decision.Contender{
				contender("a", map[string]float64{"k": 1000}), contender("b", nil)}}, "appraisal_range"},
			{"appraisal below range", decision.Draft{Criteria: k, Contenders: []decision.Contender{
				contender("a", nil), contender("b", map[string]float64{"k": -50})}}, "appraisal_range"},
			{"appraisal is NaN", decision.Draft{Criteria: k, Contenders: []decision.Contender{
				contender("a", map[string]float64{"k": math.NaN()}), contender("b", nil)}}, "appraisal_range"},
			{"appraisal for unknown criterion", decision.Draft{Criteria: k, Contenders: []decision.Contender{
				contender("a", map[string]float64{"ghost": 5}), contender("b", nil)}}, "appraisal_criterion"},
			{"duplicate criterion ids", decision.Draft{
				Criteria:   []decision.Criterion{criterion("k", 1), criterion("k", 1)},
				Contenders: []decision.Contender{contender("a", nil), contender("b", nil)}}, "duplicate_id"},
			{"duplicate contender ids", decision.Draft{Criteria: k, Contenders: []decision.Contender{
				contender("a", nil), contender("a", nil)}}, "duplicate_id"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := decision.Compose(tt.draft, p, now)
				var pe *decision.PolicyError
				if !errors.As(err, &pe) || pe.Rule != tt.rule {
					t.Fatalf("err = %v, want PolicyError with rule %s", err, tt.rule)
				}
			})
		}
	})
}

func TestTemplates(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tpl, ok := decision.LookupTemplate("TRAVEL")
	if !ok {
		t.Fatal("travel template not found")
	}
	d := tpl.Instantiate(now)
	if d.Name != "Travel Destination" {
		t.Errorf("Name = %q", d.Name)
	}
	if len(d.Criteria) != 3 || len(d.Contenders) != 3 {
		t.Fatalf("got %d criteria, %d contenders", len(d.Criteria), len(d.Contenders))
	}
	if got := sumWeights(d.Criteria); math.Abs(got-1) > tolerance {
		t.Errorf("weights sum to %v", got)
	}

	custom := decision.Template{Key: "travel", Name: "Custom Trip", Criteria: []string{"Fun"}, Contenders: []string{"A", "B"}}
	got, _ := decision.LookupTemplate("travel", custom)
	if got.Name != "Custom Trip" {
		t.Errorf("extra template did not shadow built-in: %q", got.Name)
	}

	if _, ok := decision.LookupTemplate("nope"); ok {
		t.Error("unknown template found")
	}
}

func TestRandomChoice(t *testing.T) {
	opts := decision.SplitOptions(" Pizza, Burger ,, Sushi ,")
	want := []string{"Pizza", "Burger", "Sushi"}
	if len(opts) != len(want) {
		t.Fatalf("SplitOptions = %v", opts)
	}
	for i := range want {
		if opts[i] != want[i] {
			t.Errorf("opts[%d] = %q, want %q", i, opts[i], want[i])
		}
	}

	rng := rand.New(rand.NewPCG(1, 2))
	pick, ok := decision.PickRandom(opts, rng)
	if !ok {
		t.Fatal("PickRandom returned nothing")
	}
	found := false
	for _, o := range opts {
		found = found || o == pick
	}
	if !found {
		t.Errorf("pick %q not among options", pick)
	}

	if _, ok := decision.PickRandom(nil, rng); ok {
		t.Error("PickRandom(nil) reported ok")
	}
}

func TestLookupByIDOrName(t *testing.T) {
	d := sample()
	d.Contenders[1].Name = "MacBook Pro"
	d.Criteria[0].Name = "Price"

	if c, ok := d.LookupContender("pro"); !ok || c.ID != "pro" {
		t.Errorf("LookupContender by ID = %+v, %v", c, ok)
	}
	if c, ok := d.LookupContender("macbook PRO"); !ok || c.ID != "pro" {
		t.Errorf("LookupContender by name = %+v, %v", c, ok)
	}
	if _, ok := d.LookupContender("mini"); ok {
		t.Error("expected unknown contender to miss")
	}
	if k, ok := d.LookupCriterion("PRICE"); !ok || k.ID != "price" {
		t.Errorf("LookupCriterion by name = %+v, %v", k, ok)
	}
	if _, ok := d.LookupCriterion("weight"); ok {
		t.Error("expected unknown criterion to miss")
	}
}
