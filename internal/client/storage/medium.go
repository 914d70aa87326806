// Package storage implements the client's local persistence: a small
// key-value medium with change watching, and a typed Cell bound to one key.
// The medium mirrors browser session storage semantics: it may be absent
// entirely, and writes performed by other processes sharing the same store
// are surfaced through a change signal.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable indicates the persistence medium cannot be used in the
	// current environment. Cells treat it as "no stored value".
	ErrUnavailable = errors.New("storage unavailable")
)

// Medium is a string-keyed store for string-serialized values.
//
// Watch returns a channel that delivers the keys of entries changed by
// *other* execution contexts (other processes holding the same store).
// Writes performed through this Medium instance are never echoed back on
// its own channel. The channel closes when ctx is cancelled.
type Medium interface {
	Read(ctx context.Context, key string) (value string, found bool, err error)
	Write(ctx context.Context, key, value string) error
	Watch(ctx context.Context) (<-chan string, error)
	Close() error
}
