package storage

import (
	"context"
	"sync"
)

// MemoryMedium is a process-local Medium. It is used in tests and as the
// fallback when no store file is configured. ExternalWrite simulates a write
// arriving from another execution context, which is the only path that fires
// the watch signal.
type MemoryMedium struct {
	mu       sync.Mutex
	values   map[string]string
	watchers []chan string
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{values: make(map[string]string)}
}

func (m *MemoryMedium) Read(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryMedium) Write(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// ExternalWrite stores value under key and notifies all watchers, as if a
// different process had modified the shared store.
func (m *MemoryMedium) ExternalWrite(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	for _, ch := range m.watchers {
		select {
		case ch <- key:
		default:
		}
	}
}

func (m *MemoryMedium) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 8)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		m.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func (m *MemoryMedium) Close() error { return nil }

var _ Medium = (*MemoryMedium)(nil)
