// Package sync implements the fetch/mutate/refetch pattern every resource
// screen shares. A controller holds a point-in-time cache of one backend
// list, a selection set for bulk delete, and resynchronizes by reloading
// the whole list after every write ("read-your-writes via full reload")
// rather than patching the cache incrementally.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	gosync "sync"
)

// State is where a controller sits in its fetch lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// ErrUpdateUnsupported is returned for resources whose backend exposes no
// PUT endpoint.
var ErrUpdateUnsupported = errors.New("resource does not support updates")

// Draft is a create payload that can check its own required fields.
type Draft interface {
	Validate() error
}

// Ops binds a controller to one backend resource. Update may be nil.
type Ops[T any, D Draft, P any] struct {
	Fetch  func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, draft D) error
	Update func(ctx context.Context, id string, patch P) error
	Remove func(ctx context.Context, id string) error
	ID     func(item T) string
}

// Controller caches one resource list for one session. All methods are
// safe for interleaved handler calls; the mutex stands in for the single
// event thread the pattern assumes. Mutations are deliberately not
// serialized beyond that: two rapid writes race exactly as two rapid
// clicks always did, and the trailing refetch wins.
type Controller[T any, D Draft, P any] struct {
	mu     gosync.Mutex
	ops    Ops[T, D, P]
	logger *slog.Logger

	state    State
	items    []T
	lastErr  error
	selected map[string]struct{}
	gen      uint64
}

func NewController[T any, D Draft, P any](ops Ops[T, D, P], logger *slog.Logger) *Controller[T, D, P] {
	return &Controller[T, D, P]{
		ops:      ops,
		logger:   logger,
		state:    StateIdle,
		selected: make(map[string]struct{}),
	}
}

// Load fetches the list from scratch. Each call bumps a generation
// counter; a response that is no longer the newest issue is discarded on
// arrival, so the last response wins no matter the completion order.
func (c *Controller[T, D, P]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state = StateLoading
	c.gen++
	myGen := c.gen
	c.mu.Unlock()

	items, err := c.ops.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if myGen != c.gen {
		// A newer Load was issued while this one was in flight.
		return nil
	}
	if err != nil {
		// The previous cache stays visible, stale but better than blank.
		c.state = StateError
		c.lastErr = err
		c.logger.Error("list fetch failed", "error", err)
		return err
	}
	c.state = StateReady
	c.items = items
	c.lastErr = nil
	c.pruneSelection()
	return nil
}

// Snapshot returns the current state, a copy of the cached items, and the
// last fetch error if the controller is in StateError.
func (c *Controller[T, D, P]) Snapshot() (State, []T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return c.state, items, c.lastErr
}

// Add validates the draft locally, creates it on the backend, then
// refetches. An invalid draft never reaches the network and leaves the
// cache untouched; a failed create leaves the old cache in place.
func (c *Controller[T, D, P]) Add(ctx context.Context, draft D) error {
	if err := draft.Validate(); err != nil {
		return err
	}
	if err := c.ops.Create(ctx, draft); err != nil {
		return err
	}
	return c.Load(ctx)
}

// Update applies a patch to one item and refetches.
func (c *Controller[T, D, P]) Update(ctx context.Context, id string, patch P) error {
	if c.ops.Update == nil {
		return ErrUpdateUnsupported
	}
	if err := c.ops.Update(ctx, id, patch); err != nil {
		return err
	}
	return c.Load(ctx)
}

// Delete removes one item and refetches.
func (c *Controller[T, D, P]) Delete(ctx context.Context, id string) error {
	return c.DeleteMany(ctx, []string{id})
}

// DeleteMany issues one delete per id. There is no atomicity: a failed id
// does not stop the rest, failures are reported joined, and a full
// refetch runs regardless so the cache matches whatever state the server
// ended up in. Ids that vanished server-side are a tolerable failure.
func (c *Controller[T, D, P]) DeleteMany(ctx context.Context, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := c.ops.Remove(ctx, id); err != nil {
			c.logger.Warn("delete failed, continuing", "id", id, "error", err)
			errs = append(errs, err)
		}
	}

	c.mu.Lock()
	c.selected = make(map[string]struct{})
	c.mu.Unlock()

	if err := c.Load(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ToggleSelect flips one id in the selection set. Pure local state.
func (c *Controller[T, D, P]) ToggleSelect(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
	} else {
		c.selected[id] = struct{}{}
	}
}

// SelectAll selects every item currently in the cache.
func (c *Controller[T, D, P]) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		c.selected[c.ops.ID(item)] = struct{}{}
	}
}

func (c *Controller[T, D, P]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[string]struct{})
}

// Selected returns the selection as a sorted slice of ids.
func (c *Controller[T, D, P]) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Controller[T, D, P]) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[id]
	return ok
}

// pruneSelection drops selected ids that no longer exist in the cache, so
// a concurrent external delete cannot leave ghosts selected. Caller holds
// the lock.
func (c *Controller[T, D, P]) pruneSelection() {
	if len(c.selected) == 0 {
		return
	}
	live := make(map[string]struct{}, len(c.items))
	for _, item := range c.items {
		live[c.ops.ID(item)] = struct{}{}
	}
	for id := range c.selected {
		if _, ok := live[id]; !ok {
			delete(c.selected, id)
		}
	}
}
