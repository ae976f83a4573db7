package decision

import (
	"math"
	"slices"
	"sort"
)

// ValuationScale maps a weighted appraisal sum on the 1-10 entry scale onto
// the 0-100 range shown to users.
const ValuationScale = 10.0

// Standing is one contender's place in a ranking.
type Standing struct {
	Contender Contender `json:"contender"`
	Valuation float64   `json:"valuation"`
}

// Normalize returns criteria whose weights sum to 1. Empty input yields an
// empty slice. If the total weight is not strictly positive the weights are
// returned unchanged.
func Normalize(criteria []Criterion) []Criterion {
	if len(criteria) == 0 {
		return []Criterion{}
	}

	var total float64
	for _, c := range criteria {
		total += c.Weight
	}
	if !(total > 0) {
		return slices.Clone(criteria)
	}

	out := make([]Criterion, len(criteria))
	for i, c := range criteria {
		c.Weight /= total
		out[i] = c
	}
	return out
}

// Valuation computes a contender's weighted aggregate score against
// criteria as given. It does not normalize. Missing appraisals count as 0.
func Valuation(c Contender, criteria []Criterion) float64 {
	var sum float64
	for _, k := range criteria {
		sum += c.Appraisals[k.ID] * k.Weight
	}
	return sum * ValuationScale
}

// Rank scores every contender against the normalized criteria and orders
// them by valuation, highest first. Equal valuations keep contender order.
// NaN valuations sort after all numbers.
func Rank(contenders []Contender, criteria []Criterion) []Standing {
	if len(contenders) == 0 || len(criteria) == 0 {
		return []Standing{}
	}

	normalized := Normalize(criteria)
	standings := make([]Standing, len(contenders))
	for i, c := range contenders {
		standings[i] = Standing{Contender: c, Valuation: Valuation(c, normalized)}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return outranks(standings[i].Valuation, standings[j].Valuation)
	})
	return standings
}

// Sovereign returns the highest-valued contender. On ties the contender
// listed first wins. A NaN valuation never leads, so when every valuation
// is NaN there is no sovereign. Otherwise the result is the head of Rank.
func Sovereign(contenders []Contender, criteria []Criterion) (Contender, bool) {
	if len(contenders) == 0 || len(criteria) == 0 {
		return Contender{}, false
	}

	normalized := Normalize(criteria)
	var (
		best  Contender
		score float64
		found bool
	)
	for _, c := range contenders {
		v := Valuation(c, normalized)
		if math.IsNaN(v) {
			continue
		}
		if !found || v > score {
			best, score, found = c, v, true
		}
	}
	return best, found
}

func outranks(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}
