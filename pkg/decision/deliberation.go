package decision

// NormalizedCriteria returns the deliberation's criteria with weights
// normalized to sum to 1. Computed fresh on every call.
func (d Deliberation) NormalizedCriteria() []Criterion {
	return Normalize(d.Criteria)
}

// Valuation scores the contender with the given ID against the normalized
// criteria. It reports false if no such contender exists.
func (d Deliberation) Valuation(contenderID string) (float64, bool) {
	c, ok := d.Contender(contenderID)
	if !ok {
		return 0, false
	}
	return Valuation(c, d.NormalizedCriteria()), true
}

// Ranking orders the deliberation's contenders by valuation.
func (d Deliberation) Ranking() []Standing {
	return Rank(d.Contenders, d.Criteria)
}

// Sovereign returns the recommended contender, if the deliberation has
// both contenders and criteria.
func (d Deliberation) Sovereign() (Contender, bool) {
	return Sovereign(d.Contenders, d.Criteria)
}
