// Package decision defines the deliberation data model and the weighted-sum
// scoring engine that ranks contenders against weighted criteria.
package decision

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Criterion is a named decision factor with a relative weight.
// Weights need not sum to 1; the engine normalizes them before scoring.
type Criterion struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Contender is a candidate option. Appraisals maps criterion ID to score;
// a criterion with no entry scores 0.
type Contender struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Appraisals  map[string]float64 `json:"appraisals"`
}

// Deliberation is a decision under consideration. It owns its contenders and
// criteria; both lists keep insertion order.
type Deliberation struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Contenders []Contender `json:"contenders"`
	Criteria   []Criterion `json:"criteria"`
	CreatedAt  time.Time   `json:"created_at"`
	ModifiedAt time.Time   `json:"modified_at"`
}

// NewCriterion creates a criterion with a fresh ID.
func NewCriterion(name string, weight float64) Criterion {
	return Criterion{ID: uuid.NewString(), Name: name, Weight: weight}
}

// NewContender creates a contender with a fresh ID and no appraisals.
func NewContender(name string) Contender {
	return Contender{ID: uuid.NewString(), Name: name, Appraisals: map[string]float64{}}
}

// NewDeliberation creates an empty deliberation stamped with now.
func NewDeliberation(name string, now time.Time) Deliberation {
	return Deliberation{
		ID:         uuid.NewString(),
		Name:       name,
		Contenders: []Contender{},
		Criteria:   []Criterion{},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Appraisal returns the contender's score for a criterion and whether one
// was recorded.
func (c Contender) Appraisal(criterionID string) (float64, bool) {
	v, ok := c.Appraisals[criterionID]
	return v, ok
}

// Clone returns a deep copy of the contender.
func (c Contender) Clone() Contender {
	out := c
	out.Appraisals = maps.Clone(c.Appraisals)
	if out.Appraisals == nil {
		out.Appraisals = map[string]float64{}
	}
	return out
}

// Clone returns a deep copy of the deliberation. Edits on the copy never
// reach the receiver's slices or maps.
func (d Deliberation) Clone() Deliberation {
	out := d
	out.Criteria = slices.Clone(d.Criteria)
	if out.Criteria == nil {
		out.Criteria = []Criterion{}
	}
	out.Contenders = make([]Contender, len(d.Contenders))
	for i, c := range d.Contenders {
		out.Contenders[i] = c.Clone()
	}
	return out
}

// Contender looks up a contender by ID.
func (d Deliberation) Contender(id string) (Contender, bool) {
	i := d.contenderIndex(id)
	if i < 0 {
		return Contender{}, false
	}
	return d.Contenders[i], true
}

// Criterion looks up a criterion by ID.
func (d Deliberation) Criterion(id string) (Criterion, bool) {
	i := d.criterionIndex(id)
	if i < 0 {
		return Criterion{}, false
	}
	return d.Criteria[i], true
}

// LookupContender resolves ref as an ID, then as a case-insensitive name.
func (d Deliberation) LookupContender(ref string) (Contender, bool) {
	if c, ok := d.Contender(ref); ok {
		return c, true
	}
	i := slices.IndexFunc(d.Contenders, func(c Contender) bool { return strings.EqualFold(c.Name, ref) })
	if i < 0 {
		return Contender{}, false
	}
	return d.Contenders[i], true
}

// LookupCriterion resolves ref as an ID, then as a case-insensitive name.
func (d Deliberation) LookupCriterion(ref string) (Criterion, bool) {
	if k, ok := d.Criterion(ref); ok {
		return k, true
	}
	i := slices.IndexFunc(d.Criteria, func(k Criterion) bool { return strings.EqualFold(k.Name, ref) })
	if i < 0 {
		return Criterion{}, false
	}
	return d.Criteria[i], true
}

func (d Deliberation) contenderIndex(id string) int {
	return slices.IndexFunc(d.Contenders, func(c Contender) bool { return c.ID == id })
}

func (d Deliberation) criterionIndex(id string) int {
	return slices.IndexFunc(d.Criteria, func(c Criterion) bool { return c.ID == id })
}
