// Package ensure keeps a picker's current selection visible in its
// option list even when the active search text excludes it from the
// server results.
package ensure

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/atlas/pkg/serrors"
)

// ErrFetchFailed wraps a failed fetch-by-id inside Ensure. It is logged
// and recorded on the entry, never returned to the picker: the option
// list simply falls back to the plain server results.
var ErrFetchFailed = serrors.NewError(
	"ENSURE_FETCH_FAILED",
	"failed to fetch the selected entity by id",
	"Ensure.Errors.FetchFailed",
)

// FetchState tags the fetch lifecycle of one picker's selection.
type FetchState int

const (
	// StateNotNeeded means the picker has no selection.
	StateNotNeeded FetchState = iota
	// StatePending means a fetch for the selection is in flight.
	StatePending
	// StateResolved means the selection was fetched and is cached.
	StateResolved
	// StateFailed means the single fetch attempt failed; it is not
	// retried until the selection changes.
	StateFailed
)

func (s FetchState) String() string {
	switch s {
	case StateNotNeeded:
		return "not_needed"
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

type entry[T any] struct {
	selectedID uuid.UUID
	state      FetchState
	entity     T
	err        error
}

// Cache tracks, per picker instance, whether the currently selected
// entity has been fetched by id. Entries are keyed by picker id so
// unrelated pickers on the same page never contaminate each other.
type Cache[T any] struct {
	idOf func(T) uuid.UUID
	log  *logrus.Logger

	mu      sync.Mutex
	entries map[string]*entry[T]
}

// NewCache builds a cache for entities of type T. idOf extracts the
// identity Ensure compares selections against.
func NewCache[T any](idOf func(T) uuid.UUID, log *logrus.Logger) *Cache[T] {
	return &Cache[T]{
		idOf:    idOf,
		log:     log,
		entries: make(map[string]*entry[T]),
	}
}

// Ensure returns the effective option list for a picker: results as-is
// when there is no selection or the selection is already among them,
// otherwise the cached or freshly fetched selected entity prepended.
//
// fetchByID is invoked at most once per (pickerID, selectedID) pair; a
// failure is recorded and not retried until the selection changes.
func (c *Cache[T]) Ensure(
	ctx context.Context,
	pickerID string,
	selectedID uuid.UUID,
	results []T,
	fetchByID func(ctx context.Context, id uuid.UUID) (T, error),
) []T {
	if selectedID == uuid.Nil {
		c.mu.Lock()
		delete(c.entries, pickerID)
		c.mu.Unlock()
		return results
	}

	c.mu.Lock()
	e, ok := c.entries[pickerID]
	if !ok || e.selectedID != selectedID {
		// First sight of this selection, or the selection changed:
		// previous attempts (including failures) no longer apply.
		e = &entry[T]{selectedID: selectedID}
		c.entries[pickerID] = e
	}

	if match, ok := findByID(results, selectedID, c.idOf); ok {
		// The server listed the selection itself: record it as resolved
		// so a later excluding search reuses it without a fetch.
		e.state = StateResolved
		e.entity = match
		e.err = nil
		c.mu.Unlock()
		return results
	}

	switch e.state {
	case StateResolved:
		out := prepend(results, e.entity)
		c.mu.Unlock()
		return out
	case StateFailed, StatePending:
		c.mu.Unlock()
		return results
	}

	e.state = StatePending
	c.mu.Unlock()

	entity, err := fetchByID(ctx, selectedID)

	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.entries[pickerID]
	if !ok || current.selectedID != selectedID {
		// The selection moved on while the fetch was in flight.
		return results
	}
	if err != nil {
		current.state = StateFailed
		current.err = serrors.Wrap(ErrFetchFailed, err)
		if c.log != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"picker_id":   pickerID,
				"selected_id": selectedID,
			}).Warn("ensure: fetch by id failed, selection hidden until re-search")
		}
		return results
	}
	current.state = StateResolved
	current.entity = entity
	current.err = nil
	return prepend(results, entity)
}

// State reports the fetch state for a picker's current entry;
// StateNotNeeded when the picker has none.
func (c *Cache[T]) State(pickerID string) FetchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[pickerID]; ok {
		return e.state
	}
	return StateNotNeeded
}

// Err returns the recorded fetch failure for a picker, if any.
func (c *Cache[T]) Err(pickerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[pickerID]; ok {
		return e.err
	}
	return nil
}

// Forget drops a picker's entry, e.g. when the picker unmounts.
func (c *Cache[T]) Forget(pickerID string) {
	c.mu.Lock()
	delete(c.entries, pickerID)
	c.mu.Unlock()
}

func findByID[T any](results []T, id uuid.UUID, idOf func(T) uuid.UUID) (T, bool) {
	for _, r := range results {
		if idOf(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

func prepend[T any](results []T, entity T) []T {
	out := make([]T, 0, len(results)+1)
	out = append(out, entity)
	return append(out, results...)
}
