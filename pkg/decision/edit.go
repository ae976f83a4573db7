package decision

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrContenderNotFound = errors.New("contender not found")
	ErrCriterionNotFound = errors.New("criterion not found")
)

// The edit methods below return an updated copy and leave the receiver
// untouched. Entities are addressed by ID. Limits such as the contender cap
// are the caller's concern; see Policy.

// Rename sets the deliberation's display name.
func (d Deliberation) Rename(name string) Deliberation {
	out := d.Clone()
	out.Name = name
	return out
}

// Touch sets the last-modified timestamp.
func (d Deliberation) Touch(now time.Time) Deliberation {
	out := d.Clone()
	out.ModifiedAt = now
	return out
}

// AddContender appends a contender.
func (d Deliberation) AddContender(c Contender) Deliberation {
	out := d.Clone()
	out.Contenders = append(out.Contenders, c.Clone())
	return out
}

// RemoveContender drops the contender with the given ID.
func (d Deliberation) RemoveContender(id string) (Deliberation, error) {
	i := d.contenderIndex(id)
	if i < 0 {
		return d, fmt.Errorf("remove %s: %w", id, ErrContenderNotFound)
	}
	out := d.Clone()
	out.Contenders = append(out.Contenders[:i], out.Contenders[i+1:]...)
	return out, nil
}

// RenameContender sets a contender's name.
func (d Deliberation) RenameContender(id, name string) (Deliberation, error) {
	return d.editContender(id, func(c *Contender) { c.Name = name })
}

// DescribeContender sets a contender's free-text description.
func (d Deliberation) DescribeContender(id, description string) (Deliberation, error) {
	return d.editContender(id, func(c *Contender) { c.Description = description })
}

// AddCriterion appends a criterion.
func (d Deliberation) AddCriterion(c Criterion) Deliberation {
	out := d.Clone()
	out.Criteria = append(out.Criteria, c)
	return out
}

// RemoveCriterion drops the criterion with the given ID. Appraisals recorded
// against it are removed from every contender.
func (d Deliberation) RemoveCriterion(id string) (Deliberation, error) {
	i := d.criterionIndex(id)
	if i < 0 {
		return d, fmt.Errorf("remove %s: %w", id, ErrCriterionNotFound)
	}
	out := d.Clone()
	out.Criteria = append(out.Criteria[:i], out.Criteria[i+1:]...)
	for k := range out.Contenders {
		delete(out.Contenders[k].Appraisals, id)
	}
	return out, nil
}

// RenameCriterion sets a criterion's name.
func (d Deliberation) RenameCriterion(id, name string) (Deliberation, error) {
	return d.editCriterion(id, func(c *Criterion) { c.Name = name })
}

// Weigh sets a criterion's raw weight.
func (d Deliberation) Weigh(id string, weight float64) (Deliberation, error) {
	return d.editCriterion(id, func(c *Criterion) { c.Weight = weight })
}

// Appraise records a contender's score for a criterion.
func (d Deliberation) Appraise(contenderID, criterionID string, score float64) (Deliberation, error) {
	if d.criterionIndex(criterionID) < 0 {
		return d, fmt.Errorf("appraise %s: %w", criterionID, ErrCriterionNotFound)
	}
	return d.editContender(contenderID, func(c *Contender) { c.Appraisals[criterionID] = score })
}

// EqualizeWeights gives every criterion weight 1/n.
func (d Deliberation) EqualizeWeights() Deliberation {
	out := d.Clone()
	if len(out.Criteria) == 0 {
		return out
	}
	w := 1.0 / float64(len(out.Criteria))
	for i := range out.Criteria {
		out.Criteria[i].Weight = w
	}
	return out
}

// NormalizeWeights stores the normalized weights in place of the raw ones.
func (d Deliberation) NormalizeWeights() Deliberation {
	out := d.Clone()
	out.Criteria = Normalize(out.Criteria)
	return out
}

// FillMissingAppraisals records score for every contender/criterion pair
// that has no appraisal yet.
func (d Deliberation) FillMissingAppraisals(score float64) Deliberation {
	out := d.Clone()
	for i := range out.Contenders {
		for _, k := range out.Criteria {
			if _, ok := out.Contenders[i].Appraisals[k.ID]; !ok {
				out.Contenders[i].Appraisals[k.ID] = score
			}
		}
	}
	return out
}

func (d Deliberation) editContender(id string, fn func(*Contender)) (Deliberation, error) {
	i := d.contenderIndex(id)
	if i < 0 {
		return d, fmt.Errorf("edit %s: %w", id, ErrContenderNotFound)
	}
	out := d.Clone()
	fn(&out.Contenders[i])
	return out, nil
}

func (d Deliberation) editCriterion(id string, fn func(*Criterion)) (Deliberation, error) {
	i := d.criterionIndex(id)
	if i < 0 {
		return d, fmt.Errorf("edit %s: %w", id, ErrCriterionNotFound)
	}
	out := d.Clone()
	fn(&out.Criteria[i])
	return out, nil
}
