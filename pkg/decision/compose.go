package decision

import (
	"fmt"
	"strings"
	"time"
)

// UntitledName is used when a draft is finished without a title.
const UntitledName = "Untitled Decision"

// Draft is the user's input before a deliberation is finalized.
type Draft struct {
	Name       string      `json:"name"`
	Contenders []Contender `json:"contenders"`
	Criteria   []Criterion `json:"criteria"`
}

// DefaultDraftCriteria returns the criteria a new draft starts with.
func DefaultDraftCriteria() []Criterion {
	return []Criterion{
		NewCriterion("Cost", 0.33),
		NewCriterion("Time", 0.33),
		NewCriterion("Risk", 0.34),
	}
}

// Compose validates a draft against the policy and turns it into a
// deliberation. Supplied IDs must be unique, and supplied appraisals must be
// keyed by a criterion ID from the same draft and lie within the policy
// range. Unrated contender/criterion pairs get the policy's default
// appraisal.
func Compose(draft Draft, p Policy, now time.Time) (Deliberation, error) {
	n := len(draft.Contenders)
	if n < p.MinContenders {
		return Deliberation{}, &PolicyError{Rule: "min_contenders", Detail: fmt.Sprintf("need at least %d contenders, got %d", p.MinContenders, n)}
	}
	if p.MaxContenders > 0 && n > p.MaxContenders {
		return Deliberation{}, &PolicyError{Rule: "max_contenders", Detail: fmt.Sprintf("at most %d contenders allowed, got %d", p.MaxContenders, n)}
	}
	if len(draft.Criteria) < p.MinCriteria {
		return Deliberation{}, &PolicyError{Rule: "min_criteria", Detail: fmt.Sprintf("need at least %d criteria, got %d", p.MinCriteria, len(draft.Criteria))}
	}
	if err := checkDraftIdentity(draft, p); err != nil {
		return Deliberation{}, err
	}

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		name = UntitledName
	}

	d := NewDeliberation(name, now)
	for _, k := range draft.Criteria {
		if k.ID == "" {
			k = NewCriterion(k.Name, k.Weight)
		}
		d = d.AddCriterion(k)
	}
	for _, c := range draft.Contenders {
		if c.ID == "" {
			fresh := NewContender(c.Name)
			fresh.Description = c.Description
			for id, v := range c.Appraisals {
				fresh.Appraisals[id] = v
			}
			c = fresh
		}
		d = d.AddContender(c)
	}
	return d.FillMissingAppraisals(p.DefaultAppraisal), nil
}

func checkDraftIdentity(draft Draft, p Policy) error {
	criteria := make(map[string]bool, len(draft.Criteria))
	for _, k := range draft.Criteria {
		if err := p.CheckWeight(k.Weight); err != nil {
			return err
		}
		if k.ID == "" {
			continue
		}
		if criteria[k.ID] {
			return &PolicyError{Rule: "duplicate_id", Detail: fmt.Sprintf("criterion id %q used more than once", k.ID)}
		}
		criteria[k.ID] = true
	}

	contenders := make(map[string]bool, len(draft.Contenders))
	for _, c := range draft.Contenders {
		if c.ID != "" {
			if contenders[c.ID] {
				return &PolicyError{Rule: "duplicate_id", Detail: fmt.Sprintf("contender id %q used more than once", c.ID)}
			}
			contenders[c.ID] = true
		}
		for id, v := range c.Appraisals {
			if !criteria[id] {
				return &PolicyError{Rule: "appraisal_criterion", Detail: fmt.Sprintf("contender %q rates unknown criterion %q", c.Name, id)}
			}
			if err := p.CheckAppraisal(v); err != nil {
				return err
			}
		}
	}
	return nil
}
