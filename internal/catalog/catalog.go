// Package catalog owns the working copy of the archive. Every mutation is
// persisted through the archive store before it becomes visible, then
// broadcast to subscribers and the event publisher.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deliberate/deliberate/internal/archive"
	"github.com/deliberate/deliberate/internal/events"
	"github.com/deliberate/deliberate/pkg/decision"
	"github.com/deliberate/deliberate/pkg/scoring"
)

var (
	ErrNotFound  = errors.New("deliberation not found")
	ErrDuplicate = errors.New("deliberation already exists")
)

// Snapshot is an immutable view of the catalog after a commit.
type Snapshot struct {
	Version       uint64
	Deliberations []decision.Deliberation // most recently modified first
}

// Edit transforms a deliberation. It must not retain or mutate its input.
type Edit func(decision.Deliberation) (decision.Deliberation, error)

// Service is safe for concurrent use.
type Service struct {
	store     archive.Store
	publisher events.Publisher
	policy    decision.Policy
	templates []decision.Template
	engine    *scoring.Engine
	now       func() time.Time
	logger    *slog.Logger

	mu      sync.RWMutex
	items   []decision.Deliberation
	version uint64

	// pending holds committed snapshots in commit order until a single
	// dispatcher hands them to subscribers outside every other lock.
	pendMu      sync.Mutex
	pending     []Snapshot
	dispatching bool

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// Option configures a Service.
type Option func(*Service)

func WithPublisher(p events.Publisher) Option { return func(s *Service) { s.publisher = p } }
func WithPolicy(p decision.Policy) Option     { return func(s *Service) { s.policy = p } }
func WithClock(now func() time.Time) Option   { return func(s *Service) { s.now = now } }
func WithLogger(l *slog.Logger) Option        { return func(s *Service) { s.logger = l } }
func WithScoring(o scoring.Options) Option    { return func(s *Service) { s.engine = scoring.NewEngine(o) } }

// WithTemplates adds templates that shadow the built-ins by key.
func WithTemplates(t []decision.Template) Option {
	return func(s *Service) { s.templates = t }
}

// New creates a catalog over store. Call Refresh to load existing data.
func New(store archive.Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: events.NopPublisher{},
		policy:    decision.DefaultPolicy(),
		engine:    scoring.NewEngine(scoring.Defaults()),
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
		items:     []decision.Deliberation{},
		subs:      map[int]func(Snapshot){},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Policy returns the limits enforced by the policy-checked helpers.
func (s *Service) Policy() decision.Policy { return s.policy }

// Engine returns the report engine.
func (s *Service) Engine() *scoring.Engine { return s.engine }

// Refresh replaces the working copy with the archive contents.
func (s *Service) Refresh(ctx context.Context) error {
	loaded, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	sortByModified(loaded)

	s.mu.Lock()
	s.items = loaded
	s.version++
	s.enqueueLocked(s.snapshotLocked())
	s.mu.Unlock()

	s.logger.Debug("catalog refreshed", "count", len(loaded))
	s.dispatch()
	return nil
}

// Snapshot returns the current state.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// List returns all deliberations, most recently modified first.
func (s *Service) List() []decision.Deliberation {
	return s.Snapshot().Deliberations
}

// Get returns the deliberation with the given ID.
func (s *Service) Get(id string) (decision.Deliberation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return decision.Deliberation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.items[i].Clone(), nil
}

// Search returns deliberations whose name contains query, ignoring case.
// An empty query matches everything.
func (s *Service) Search(query string) []decision.Deliberation {
	query = strings.ToLower(strings.TrimSpace(query))
	all := s.List()
	if query == "" {
		return all
	}
	out := []decision.Deliberation{}
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.Name), query) {
			out = append(out, d)
		}
	}
	return out
}

// Stats summarizes the archive.
func (s *Service) Stats() scoring.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Summarize(s.items, s.now())
}

// Report analyses one deliberation.
func (s *Service) Report(id string) (*scoring.Report, error) {
	d, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.engine.Report(d), nil
}

// Templates lists the configured templates followed by the built-ins they
// do not shadow.
func (s *Service) Templates() []decision.Template {
	out := append([]decision.Template{}, s.templates...)
	for _, b := range decision.BuiltinTemplates() {
		if _, shadowed := lookupKey(s.templates, b.Key); !shadowed {
			out = append(out, b)
		}
	}
	return out
}

func lookupKey(ts []decision.Template, key string) (decision.Template, bool) {
	for _, t := range ts {
		if strings.EqualFold(t.Key, key) {
			return t, true
		}
	}
	return decision.Template{}, false
}

// Subscribe registers fn to receive every committed snapshot. The returned
// func cancels the subscription.
func (s *Service) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// enqueueLocked must be called with mu held so the queue follows commit order.
func (s *Service) enqueueLocked(snap Snapshot) {
	s.pendMu.Lock()
	s.pending = append(s.pending, snap)
	s.pendMu.Unlock()
}

// dispatch drains the pending queue. Only one caller drains at a time; a
// commit made from inside a subscriber queues its snapshot and returns, and
// the active dispatcher delivers it after the current one.
func (s *Service) dispatch() {
	s.pendMu.Lock()
	if s.dispatching {
		s.pendMu.Unlock()
		return
	}
	s.dispatching = true
	s.pendMu.Unlock()

	for {
		s.pendMu.Lock()
		if len(s.pending) == 0 {
			s.dispatching = false
			s.pendMu.Unlock()
			return
		}
		snap := s.pending[0]
		s.pending = s.pending[1:]
		s.pendMu.Unlock()
		s.notify(snap)
	}
}

func (s *Service) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Service) snapshotLocked() Snapshot {
	out := make([]decision.Deliberation, len(s.items))
	for i, d := range s.items {
		out[i] = d.Clone()
	}
	return Snapshot{Version: s.version, Deliberations: out}
}

func (s *Service) indexLocked(id string) int {
	for i, d := range s.items {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// commitLocked persists next and, only if that succeeds, makes it the
// working copy. It must be called with mu held and releases it.
func (s *Service) commitLocked(ctx context.Context, next []decision.Deliberation, ev events.Event) error {
	sortByModified(next)
	if err := s.store.Save(ctx, next); err != nil {
		s.mu.Unlock()
		s.logger.Error("archive save failed", "event", ev.Type, "deliberation_id", ev.DeliberationID, "error", err)
		return err
	}

	s.items = next
	s.version++
	snap := s.snapshotLocked()
	s.enqueueLocked(snap)
	s.mu.Unlock()

	ev.Count = len(snap.Deliberations)
	ev.At = s.now()
	s.logger.Info("catalog committed", "event", ev.Type, "deliberation_id", ev.DeliberationID, "version", snap.Version)
	s.dispatch()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish event", "event", ev.Type, "error", err)
	}
	return nil
}

// sortByModified orders newest first; equal timestamps keep their order.
func sortByModified(ds []decision.Deliberation) {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].ModifiedAt.After(ds[j].ModifiedAt)
	})
}
