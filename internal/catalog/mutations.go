package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/deliberate/deliberate/internal/events"
	"github.com/deliberate/deliberate/pkg/decision"
)

// Create adds d to the front of the catalog. A missing ID is generated; a
// zero CreatedAt is stamped with the current time.
func (s *Service) Create(ctx context.Context, d decision.Deliberation) (decision.Deliberation, error) {
	now := s.now()
	d = d.Clone()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if strings.TrimSpace(d.Name) == "" {
		d.Name = decision.UntitledName
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d = d.Touch(now)

	s.mu.Lock()
	if s.indexLocked(d.ID) >= 0 {
		s.mu.Unlock()
		return decision.Deliberation{}, fmt.Errorf("%w: %s", ErrDuplicate, d.ID)
	}
	next := make([]decision.Deliberation, 0, len(s.items)+1)
	next = append(next, d)
	next = append(next, s.items...)

	if err := s.commitLocked(ctx, next, events.Event{Type: events.TypeCreated, DeliberationID: d.ID, Name: d.Name}); err != nil {
		return decision.Deliberation{}, err
	}
	return d.Clone(), nil
}

// Compose validates a draft against the catalog policy and creates it.
func (s *Service) Compose(ctx context.Context, draft decision.Draft) (decision.Deliberation, error) {
	d, err := decision.Compose(draft, s.policy, s.now())
	if err != nil {
		return decision.Deliberation{}, err
	}
	return s.Create(ctx, d)
}

// FromTemplate creates a deliberation from a configured or built-in template.
func (s *Service) FromTemplate(ctx context.Context, key string) (decision.Deliberation, error) {
	t, ok := decision.LookupTemplate(key, s.templates...)
	if !ok {
		return decision.Deliberation{}, fmt.Errorf("%w: template %q", ErrNotFound, key)
	}
	return s.Create(ctx, t.Instantiate(s.now()))
}

// Delete removes a deliberation.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	name := s.items[i].Name
	next := make([]decision.Deliberation, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)

	return s.commitLocked(ctx, next, events.Event{Type: events.TypeDeleted, DeliberationID: id, Name: name})
}

// Clear removes every deliberation from the archive.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.store.Clear(ctx); err != nil {
		s.mu.Unlock()
		s.logger.Error("archive clear failed", "error", err)
		return err
	}
	s.items = []decision.Deliberation{}
	s.version++
	snap := s.snapshotLocked()
	s.enqueueLocked(snap)
	s.mu.Unlock()

	s.logger.Info("catalog cleared", "version", snap.Version)
	s.dispatch()
	if err := s.publisher.Publish(ctx, events.Event{Type: events.TypeCleared, At: s.now()}); err != nil {
		s.logger.Warn("failed to publish event", "event", events.TypeCleared, "error", err)
	}
	return nil
}

// Update applies edit to a deliberation, stamps ModifiedAt and commits.
// If edit fails nothing changes.
func (s *Service) Update(ctx context.Context, id string, edit Edit) (decision.Deliberation, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return decision.Deliberation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated, err := edit(s.items[i].Clone())
	if err != nil {
		s.mu.Unlock()
		return decision.Deliberation{}, err
	}
	updated.ID = id
	updated.CreatedAt = s.items[i].CreatedAt
	updated = updated.Touch(s.now())

	next := make([]decision.Deliberation, 0, len(s.items))
	next = append(next, updated)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)

	if err := s.commitLocked(ctx, next, events.Event{Type: events.TypeUpdated, DeliberationID: id, Name: updated.Name}); err != nil {
		return decision.Deliberation{}, err
	}
	return updated.Clone(), nil
}

// Rename changes a deliberation's title. Blank names become the untitled name.
func (s *Service) Rename(ctx context.Context, id, name string) (decision.Deliberation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = decision.UntitledName
	}
	return s.Update(ctx, id, func(d decision.Deliberation) (decision.Deliberation, error) {
		return d.Rename(name), nil
	})
}

// AddContender appends a new unrated contender, subject to the contender limit.
func (s *Service) AddContender(ctx context.Context, id, name, description string) (decision.Deliberation, error) {
	return s.Update(ctx, id, func(d decision.Deliberation) (decision.Deliberation, error) {
		if err := s.policy.CheckAddContender(d); err != nil {
			return d, err
		}
		c := decision.NewContender(strings.TrimSpace(name))
		c.Description = description
		return d.AddContender(c), nil
	})
}

// RemoveContender removes a contender while enough remain.
func (s *Service) RemoveContender(ctx context.Context, id, contenderID string) (decision.Deliberation, error) {
	return s.Update(ctx, id, func(d decision.Deliberation) (decision.Deliberation, error) {
		if _, ok := d.Contender(contenderID); !ok {
			return d, fmt.Errorf("%w: %s", decision.ErrContenderNotFound, contenderID)
		}
		if err := s.policy.CheckRemoveContender(d); err != nil {
			return d, err
		}
		return d.RemoveContender(contenderID)
	})
}

// AddCriterion appends a criterion with the given raw weight.
func (s *Service) AddCriterion(ctx context.Context, id, name string, weight float64) (decision.Deliberation, error) {
	return s.Update(ctx, id, func(d decision.Deliberation) (decision.Deliberation, error) {
		if err := s.policy.CheckWeight(weight); err != nil {
			return d, err
		}
		return d.AddCriterion(decision.NewCriterion(strings.TrimSpace(name), weight)), nil
	})
}

// RemoveCriterion removes a criterion while enough remain.
func (s *Service) RemoveCriterion(ctx context.Context, id, criterionID string) (decision.Deliberation, error) {
	return s.Update(ctx, id, func(d decision.Deliberation) (decision.Deliberation, error) {
		if _, ok := d.Criterion(criterionID); !ok {
			return d, fmt.Errorf("%w: %s", decision.ErrCriterionNotFound, criterionID)
		}
		if err := s.policy.CheckRemoveCriterion(d); err != nil {
			return d, err
		}
		return d.RemoveCriterion(criterionID)
	})
}

// Appraise records a contender's score on a criterion within the policy range.
func (s *Service) Appraise(ctx context.Context, id, contenderID, criterionID string, score float64) (decision.Deliberation, error) {
	return s.Update(ctx, id, func(d decision.Deliberation) (decision.Deliberation, error) {
		if err := s.policy.CheckAppraisal(score); err != nil {
			return d, err
		}
		return d.Appraise(contenderID, criterionID, score)
	})
}

// Weigh sets a criterion's raw weight.
func (s *Service) Weigh(ctx context.Context, id, criterionID string, weight float64) (decision.Deliberation, error) {
	return s.Update(ctx, id, func(d decision.Deliberation) (decision.Deliberation, error) {
		if err := s.policy.CheckWeight(weight); err != nil {
			return d, err
		}
		return d.Weigh(criterionID, weight)
	})
}

// EqualizeWeights gives every criterion the same weight.
func (s *Service) EqualizeWeights(ctx context.Context, id string) (decision.Deliberation, error) {
	return s.Update(ctx, id, func(d decision.Deliberation) (decision.Deliberation, error) {
		return d.EqualizeWeights(), nil
	})
}

// NormalizeWeights rescales the stored weights to sum to 1.
func (s *Service) NormalizeWeights(ctx context.Context, id string) (decision.Deliberation, error) {
	return s.Update(ctx, id, func(d decision.Deliberation) (decision.Deliberation, error) {
		return d.NormalizeWeights(), nil
	})
}
