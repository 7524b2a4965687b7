package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajithv/hospmeals/internal/domain"
)

type testItem struct {
	ID   string
	Name string
}

type testDraft struct {
	Name string
}

func (d testDraft) Validate() error {
	if d.Name == "" {
		return &domain.ValidationError{Fields: []string{"name"}}
	}
	return nil
}

type testPatch struct {
	Name string
}

// fakeBackend drives a controller without a network. Every knob a test
// needs is a public field.
type fakeBackend struct {
	items      []testItem
	nextID     int
	fetchErr   error
	createErr  error
	updateErr  error
	failDelete map[string]error

	fetchCalls  int
	createCalls int
	deleted     []string
}

func (b *fakeBackend) ops(withUpdate bool) Ops[testItem, testDraft, testPatch] {
	o := Ops[testItem, testDraft, testPatch]{
		Fetch: func(ctx context.Context) ([]testItem, error) {
			b.fetchCalls++
			if b.fetchErr != nil {
				return nil, b.fetchErr
			}
			out := make([]testItem, len(b.items))
			copy(out, b.items)
			return out, nil
		},
		Create: func(ctx context.Context, d testDraft) error {
			b.createCalls++
			if b.createErr != nil {
				return b.createErr
			}
			b.nextID++
			b.items = append(b.items, testItem{ID: fmt.Sprintf("%d", b.nextID), Name: d.Name})
			return nil
		},
		Remove: func(ctx context.Context, id string) error {
			b.deleted = append(b.deleted, id)
			if err := b.failDelete[id]; err != nil {
				return err
			}
			kept := b.items[:0]
			for _, it := range b.items {
				if it.ID != id {
					kept = append(kept, it)
				}
			}
			b.items = kept
			return nil
		},
		ID: func(it testItem) string { return it.ID },
	}
	if withUpdate {
		o.Update = func(ctx context.Context, id string, p testPatch) error {
			if b.updateErr != nil {
				return b.updateErr
			}
			for i := range b.items {
				if b.items[i].ID == id {
					b.items[i].Name = p.Name
				}
			}
			return nil
		}
	}
	return o
}

func newTestController(b *fakeBackend, withUpdate bool) *Controller[testItem, testDraft, testPatch] {
	return NewController(b.ops(withUpdate), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestControllerStartsIdle(t *testing.T) {
	ctrl := newTestController(&fakeBackend{}, false)

	state, items, err := ctrl.Snapshot()
	assert.Equal(t, StateIdle, state)
	assert.Empty(t, items)
	assert.NoError(t, err)
}

func TestControllerLoad(t *testing.T) {
	b := &fakeBackend{items: []testItem{{ID: "2", Name: "b"}, {ID: "1", Name: "a"}}}
	ctrl := newTestController(b, false)

	require.NoError(t, ctrl.Load(context.Background()))

	state, items, err := ctrl.Snapshot()
	assert.Equal(t, StateReady, state)
	assert.NoError(t, err)
	// Backend order is preserved, never sorted.
	require.Len(t, items, 2)
	assert.Equal(t, "2", items[0].ID)
	assert.Equal(t, "1", items[1].ID)
}

func TestControllerLoadFailureKeepsStaleCache(t *testing.T) {
	b := &fakeBackend{items: []testItem{{ID: "1", Name: "a"}}}
	ctrl := newTestController(b, false)
	require.NoError(t, ctrl.Load(context.Background()))

	b.fetchErr = errors.New("backend down")
	err := ctrl.Load(context.Background())
	assert.Error(t, err)

	state, items, lastErr := ctrl.Snapshot()
	assert.Equal(t, StateError, state)
	assert.Error(t, lastErr)
	// Old cache survives the failed refetch.
	assert.Len(t, items, 1)
}

func TestControllerAddRefetches(t *testing.T) {
	b := &fakeBackend{items: []testItem{{ID: "1", Name: "a"}}, nextID: 1}
	ctrl := newTestController(b, false)
	require.NoError(t, ctrl.Load(context.Background()))

	require.NoError(t, ctrl.Add(context.Background(), testDraft{Name: "b"}))

	state, items, _ := ctrl.Snapshot()
	assert.Equal(t, StateReady, state)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[1].Name)
	assert.Equal(t, 2, b.fetchCalls, "add must trigger a full refetch")
}

func TestControllerAddInvalidDraftSkipsNetwork(t *testing.T) {
	b := &fakeBackend{items: []testItem{{ID: "1", Name: "a"}}}
	ctrl := newTestController(b, false)
	require.NoError(t, ctrl.Load(context.Background()))
	fetchesBefore := b.fetchCalls

	err := ctrl.Add(context.Background(), testDraft{})

	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Zero(t, b.createCalls, "invalid draft must not reach the backend")
	assert.Equal(t, fetchesBefore, b.fetchCalls, "no refetch on validation failure")

	_, items, _ := ctrl.Snapshot()
	assert.Len(t, items, 1)
}

func TestControllerAddBackendFailureKeepsCache(t *testing.T) {
	b := &fakeBackend{items: []testItem{{ID: "1", Name: "a"}}}
	ctrl := newTestController(b, false)
	require.NoError(t, ctrl.Load(context.Background()))

	b.createErr = errors.New("500")
	err := ctrl.Add(context.Background(), testDraft{Name: "b"})
	assert.Error(t, err)

	state, items, _ := ctrl.Snapshot()
	assert.Equal(t, StateReady, state)
	assert.Len(t, items, 1)
}

func TestControllerUpdateRefetches(t *testing.T) {
	b := &fakeBackend{items: []testItem{{ID: "1", Name: "a"}}}
	ctrl := newTestController(b, true)
	require.NoError(t, ctrl.Load(context.Background()))

	require.NoError(t, ctrl.Update(context.Background(), "1", testPatch{Name: "z"}))

	_, items, _ := ctrl.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, "z", items[0].Name)
}

func TestControllerUpdateUnsupported(t *testing.T) {
	ctrl := newTestController(&fakeBackend{}, false)

	err := ctrl.Update(context.Background(), "1", testPatch{Name: "z"})
	assert.ErrorIs(t, err, ErrUpdateUnsupported)
}

func TestControllerDeleteManyContinuesPastFailure(t *testing.T) {
	b := &fakeBackend{
		items: []testItem{
			{ID: "1", Name: "a"}, {ID: "2", Name: "b"}, {ID: "3", Name: "c"},
		},
		failDelete: map[string]error{"2": errors.New("conflict")},
	}
	ctrl := newTestController(b, false)
	require.NoError(t, ctrl.Load(context.Background()))
	fetchesBefore := b.fetchCalls

	err := ctrl.DeleteMany(context.Background(), []string{"1", "2", "3"})
	assert.Error(t, err)

	// All three deletes were attempted despite the middle one failing.
	assert.Equal(t, []string{"1", "2", "3"}, b.deleted)
	// The refetch still happened.
	assert.Equal(t, fetchesBefore+1, b.fetchCalls)

	_, items, _ := ctrl.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID)
}

func TestControllerDeleteManyClearsSelection(t *testing.T) {
	b := &fakeBackend{items: []testItem{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}}
	ctrl := newTestController(b, false)
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.SelectAll()
	require.Len(t, ctrl.Selected(), 2)

	require.NoError(t, ctrl.DeleteMany(context.Background(), ctrl.Selected()))
	assert.Empty(t, ctrl.Selected())
}

func TestControllerSelection(t *testing.T) {
	b := &fakeBackend{items: []testItem{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}}
	ctrl := newTestController(b, false)
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.ToggleSelect("1")
	assert.True(t, ctrl.IsSelected("1"))
	assert.Equal(t, []string{"1"}, ctrl.Selected())

	ctrl.ToggleSelect("1")
	assert.False(t, ctrl.IsSelected("1"))

	ctrl.SelectAll()
	assert.Equal(t, []string{"1", "2"}, ctrl.Selected())

	ctrl.ClearSelection()
	assert.Empty(t, ctrl.Selected())
}

func TestControllerSelectionPrunedOnRefetch(t *testing.T) {
	b := &fakeBackend{items: []testItem{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}}
	ctrl := newTestController(b, false)
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.SelectAll()

	// Item 2 disappears server-side between fetches.
	b.items = []testItem{{ID: "1", Name: "a"}}
	require.NoError(t, ctrl.Load(context.Background()))

	assert.Equal(t, []string{"1"}, ctrl.Selected())
}

func TestControllerStaleResponseDiscarded(t *testing.T) {
	// Each fetch announces itself, then parks until the test hands it a
	// result, so completion order is fully controlled.
	started := make(chan int, 2)
	results := []chan []testItem{
		make(chan []testItem, 1),
		make(chan []testItem, 1),
	}
	var calls int32
	ops := Ops[testItem, testDraft, testPatch]{
		Fetch: func(ctx context.Context) ([]testItem, error) {
			n := atomic.AddInt32(&calls, 1)
			started <- int(n)
			return <-results[n-1], nil
		},
		ID: func(it testItem) string { return it.ID },
	}
	ctrl := NewController(ops, slog.New(slog.NewTextHandler(io.Discard, nil)))

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_ = ctrl.Load(context.Background())
	}()
	<-started

	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		_ = ctrl.Load(context.Background())
	}()
	<-started

	// The second (newest) load completes first and wins.
	results[1] <- []testItem{{ID: "new", Name: "new"}}
	<-secondDone

	// The first load straggles in afterwards and must be discarded.
	results[0] <- []testItem{{ID: "old", Name: "old"}}
	<-firstDone

	_, items, _ := ctrl.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].ID)
}
