package decision

import (
	"errors"
	"fmt"
	"math"
)

// ErrPolicy is matched by every PolicyError.
var ErrPolicy = errors.New("policy violation")

// PolicyError describes which limit an edit would break.
type PolicyError struct {
	Rule   string
	Detail string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrPolicy, e.Rule, e.Detail)
}

func (e *PolicyError) Is(target error) bool { return target == ErrPolicy }

// Policy holds the limits callers enforce before editing a deliberation.
// The data model itself accepts any counts and scores.
type Policy struct {
	MaxContenders    int     `yaml:"max_contenders" json:"max_contenders"`
	MinContenders    int     `yaml:"min_contenders" json:"min_contenders"`
	MinCriteria      int     `yaml:"min_criteria" json:"min_criteria"`
	MinAppraisal     float64 `yaml:"min_appraisal" json:"min_appraisal"`
	MaxAppraisal     float64 `yaml:"max_appraisal" json:"max_appraisal"`
	DefaultAppraisal float64 `yaml:"default_appraisal" json:"default_appraisal"`
}

// DefaultPolicy returns the limits used by the app: two to five
// contenders, at least one criterion, appraisals on a 1-10 scale.
func DefaultPolicy() Policy {
	return Policy{
		MaxContenders:    5,
		MinContenders:    2,
		MinCriteria:      1,
		MinAppraisal:     1,
		MaxAppraisal:     10,
		DefaultAppraisal: 5,
	}
}

// CheckAddContender reports whether another contender fits.
func (p Policy) CheckAddContender(d Deliberation) error {
	if p.MaxContenders > 0 && len(d.Contenders) >= p.MaxContenders {
		return &PolicyError{Rule: "max_contenders", Detail: fmt.Sprintf("at most %d contenders allowed", p.MaxContenders)}
	}
	return nil
}

// CheckRemoveContender allows removal only while more than MinContenders remain.
func (p Policy) CheckRemoveContender(d Deliberation) error {
	if len(d.Contenders) <= p.MinContenders {
		return &PolicyError{Rule: "min_contenders", Detail: fmt.Sprintf("at least %d contenders required", p.MinContenders)}
	}
	return nil
}

// CheckRemoveCriterion allows removal only while more than MinCriteria remain.
func (p Policy) CheckRemoveCriterion(d Deliberation) error {
	if len(d.Criteria) <= p.MinCriteria {
		return &PolicyError{Rule: "min_criteria", Detail: fmt.Sprintf("at least %d criteria required", p.MinCriteria)}
	}
	return nil
}

// CheckAppraisal validates a score against the entry scale.
func (p Policy) CheckAppraisal(score float64) error {
	if math.IsNaN(score) || score < p.MinAppraisal || score > p.MaxAppraisal {
		return &PolicyError{Rule: "appraisal_range", Detail: fmt.Sprintf("score %v outside [%v, %v]", score, p.MinAppraisal, p.MaxAppraisal)}
	}
	return nil
}

// CheckWeight rejects negative or non-finite weights.
func (p Policy) CheckWeight(weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return &PolicyError{Rule: "weight", Detail: fmt.Sprintf("weight %v must be finite and non-negative", weight)}
	}
	return nil
}
