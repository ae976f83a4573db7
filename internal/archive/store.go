// Package archive persists the full collection of deliberations.
//
// Every backend stores the same thing: an ordered list of deliberations that
// is loaded whole and saved whole. A Save either lands completely or leaves
// the previous collection untouched.
package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/deliberate/deliberate/pkg/decision"
)

// Store loads and saves the deliberation collection.
type Store interface {
	// Load returns the saved collection, or an empty one if nothing has
	// been saved yet.
	Load(ctx context.Context) ([]decision.Deliberation, error)
	// Save atomically replaces the saved collection. A collection in which
	// two deliberations share an ID is rejected with an error matching
	// ErrDuplicateID and nothing is written.
	Save(ctx context.Context, deliberations []decision.Deliberation) error
	// Clear removes everything. Clearing an empty archive is not an error.
	Clear(ctx context.Context) error
}

var (
	// ErrCorrupt is matched by load errors caused by undecodable data.
	ErrCorrupt = errors.New("archive data is corrupt")
	// ErrDuplicateID is matched by save errors for collections that repeat
	// a deliberation ID.
	ErrDuplicateID = errors.New("duplicate deliberation id")
)

// Error reports a failed archive operation. Callers may retry.
type Error struct {
	Op      string // load, save, clear
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("archive %s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func opError(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Backend: backend, Err: err}
}

func checkUnique(deliberations []decision.Deliberation) error {
	seen := make(map[string]bool, len(deliberations))
	for _, d := range deliberations {
		if seen[d.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}
