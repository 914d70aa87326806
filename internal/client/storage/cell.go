package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// Cell binds one key of a Medium to a typed, JSON-serialized value.
//
// The in-memory copy is authoritative for readers: Set and Update always
// change it, even when the medium is absent or failing, so the process keeps
// working without persistence. Reads never touch the medium after the
// initial load; resynchronization happens only through StartWatch when
// another context modifies the key.
type Cell[T any] struct {
	medium Medium
	key    string

	mu       sync.RWMutex
	value    T
	onChange func(T)
}

// NewCell creates a cell for key, loading the stored value from medium.
// A nil medium, a missing key, or an undecodable payload all yield initial.
func NewCell[T any](ctx context.Context, medium Medium, key string, initial T) *Cell[T] {
	c := &Cell[T]{medium: medium, key: key, value: initial}

	if medium == nil {
		return c
	}
	raw, found, err := medium.Read(ctx, key)
	if err != nil || !found {
		return c
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		// Corrupt payload, fall back to the initial value.
		return c
	}
	c.value = v
	return c
}

// Get returns the current in-memory value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and persists it best-effort.
func (c *Cell[T]) Set(ctx context.Context, v T) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
	c.persist(ctx, v)
}

// Update applies fn to the previous value and stores the result,
// persisting it best-effort.
func (c *Cell[T]) Update(ctx context.Context, fn func(T) T) {
	c.mu.Lock()
	v := fn(c.value)
	c.value = v
	c.mu.Unlock()
	c.persist(ctx, v)
}

func (c *Cell[T]) persist(ctx context.Context, v T) {
	if c.medium == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	// Persistence failures are deliberately swallowed: the in-memory value
	// already holds the update.
	_ = c.medium.Write(ctx, c.key, string(raw))
}

// OnChange registers fn to run after the cell resynchronizes from a
// cross-context change. At most one callback is kept.
func (c *Cell[T]) OnChange(fn func(T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// StartWatch consumes the medium's change signal and reloads the cell when
// its key is modified by another context. Runs until ctx is cancelled.
// No-op for a nil medium.
func (c *Cell[T]) StartWatch(ctx context.Context) error {
	if c.medium == nil {
		return nil
	}
	ch, err := c.medium.Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		for key := range ch {
			if key != c.key {
				continue
			}
			c.reload(ctx)
		}
	}()

	return nil
}

func (c *Cell[T]) reload(ctx context.Context) {
	raw, found, err := c.medium.Read(ctx, c.key)
	if err != nil || !found {
		return
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return
	}

	c.mu.Lock()
	c.value = v
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(v)
	}
}
