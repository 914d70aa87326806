package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/secureballot/cli/internal/client/storage/migrations"
)

// SQLiteMedium persists key-value pairs in a local SQLite database. Several
// processes may share the same store file; each row carries a version counter
// bumped on every write, and a poller surfaces rows whose version moved
// without this instance writing them. That gives cells the cross-context
// change signal without any IPC.
type SQLiteMedium struct {
	db           *sql.DB
	pollInterval time.Duration

	mu   sync.Mutex
	seen map[string]int64 // last version written or observed by this instance
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewSQLiteMedium opens (creating if needed) the store at dsn and applies
// schema migrations. pollInterval controls how often the store is checked
// for writes from other processes.
func NewSQLiteMedium(ctx context.Context, dsn string, pollInterval time.Duration) (*SQLiteMedium, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating session store: %w", err)
	}
	return &SQLiteMedium{
		db:           db,
		pollInterval: pollInterval,
		seen:         make(map[string]int64),
	}, nil
}

func (m *SQLiteMedium) Read(ctx context.Context, key string) (string, bool, error) {
	var value string
	var version int64
	err := m.db.QueryRowContext(ctx, `SELECT value, version FROM kv WHERE key = ?`, key).Scan(&value, &version)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read kv[%s]: %w", key, err)
	}

	m.mu.Lock()
	m.seen[key] = version
	m.mu.Unlock()

	return value, true, nil
}

func (m *SQLiteMedium) Write(ctx context.Context, key, value string) error {
	var version int64
	err := m.db.QueryRowContext(ctx, `
		INSERT INTO kv (key, value, version) VALUES (?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, version = kv.version + 1
		RETURNING version
	`, key, value).Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to write kv[%s]: %w", key, err)
	}

	// Own writes are recorded so the watcher does not report them back.
	m.mu.Lock()
	m.seen[key] = version
	m.mu.Unlock()

	return nil
}

// Watch polls the store and delivers keys whose version changed outside this
// instance. The channel closes when ctx is cancelled.
func (m *SQLiteMedium) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 8)

	go func() {
		defer close(ch)
		ticker := time.NewTicker(m.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, key := range m.changedKeys(ctx) {
					select {
					case ch <- key:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return ch, nil
}

// changedKeys returns keys whose stored version differs from the last one
// this instance wrote or observed, updating the bookkeeping as it goes.
func (m *SQLiteMedium) changedKeys(ctx context.Context) []string {
	rows, err := m.db.QueryContext(ctx, `SELECT key, version FROM kv`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var changed []string

	m.mu.Lock()
	defer m.mu.Unlock()

	for rows.Next() {
		var key string
		var version int64
		if err := rows.Scan(&key, &version); err != nil {
			return changed
		}
		if last, ok := m.seen[key]; !ok || last != version {
			m.seen[key] = version
			changed = append(changed, key)
		}
	}
	return changed
}

func (m *SQLiteMedium) Close() error {
	return m.db.Close()
}

var _ Medium = (*SQLiteMedium)(nil)
