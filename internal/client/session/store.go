package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/secureballot/cli/internal/client/storage"
)

// NotificationType classifies entries in the notification queue.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is one entry of the UI feedback queue. The presentation
// layer drains the queue and renders entries in order.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
}

// Snapshot is the persisted form of the session, written through the
// storage cell so a restarted process resumes a live session.
type Snapshot struct {
	Token       string `json:"token"`
	User        *User  `json:"user"`
	RequiresMfa bool   `json:"requiresMfa"`
}

// Store holds the process-wide auth and UI feedback state. All mutations
// are synchronous and mutex-guarded; readers always observe the latest
// completed mutation.
//
// Invariant: IsAuthenticated() implies a non-empty token and a user.
type Store struct {
	mu sync.Mutex

	token         string
	user          *User
	authenticated bool
	requiresMfa   bool

	loading       bool
	lastError     string
	notifications []Notification

	cell *storage.Cell[Snapshot] // nil when persistence is disabled
}

// NewStore builds a store, restoring any persisted session from cell.
// A nil cell keeps the session in memory only.
func NewStore(cell *storage.Cell[Snapshot]) *Store {
	s := &Store{cell: cell}
	if cell != nil {
		s.restore(cell.Get())
		cell.OnChange(s.restore)
	}
	return s
}

// restore applies a snapshot coming from the cell, either at startup or
// after a cross-context change to the shared store.
func (s *Store) restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = snap.Token
	s.user = snap.User
	s.requiresMfa = snap.RequiresMfa
	s.authenticated = snap.Token != "" && snap.User != nil
}

func (s *Store) persistLocked() {
	if s.cell == nil {
		return
	}
	snap := Snapshot{Token: s.token, RequiresMfa: s.requiresMfa}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	s.cell.Set(context.Background(), snap)
}

// SetAuth establishes a session: token, user, authenticated=true, and the
// given MFA requirement.
func (s *Store) SetAuth(token string, user User, requiresMfa bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	s.authenticated = true
	s.requiresMfa = requiresMfa
	s.persistLocked()
}

// Logout clears the session.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.authenticated = false
	s.requiresMfa = false
	s.persistLocked()
}

// UpdateUser shallow-merges patch into the current user. No-op when no user
// is present.
func (s *Store) UpdateUser(patch UserPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	if patch.FullName != nil {
		s.user.FullName = *patch.FullName
	}
	if patch.Email != nil {
		s.user.Email = *patch.Email
	}
	if patch.PhoneNumber != nil {
		s.user.PhoneNumber = *patch.PhoneNumber
	}
	if patch.IsVerified != nil {
		s.user.IsVerified = *patch.IsVerified
	}
	if patch.IsActive != nil {
		s.user.IsActive = *patch.IsActive
	}
	s.persistLocked()
}

func (s *Store) SetMfaRequired(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requiresMfa = v
	s.persistLocked()
}

func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// SetError records msg in the single-slot error; the latest overwrites.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// AddNotification appends an entry to the feedback queue.
func (s *Store) AddNotification(typ NotificationType, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, Notification{
		ID:        uuid.NewString(),
		Type:      typ,
		Message:   msg,
		CreatedAt: time.Now(),
	})
}

// DrainNotifications returns queued entries in order and empties the queue.
func (s *Store) DrainNotifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notifications
	s.notifications = nil
	return out
}

// --- readers ---

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the current user, if any.
func (s *Store) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Store) RequiresMfa() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requiresMfa
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the current error slot; empty means none.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Convenience role/state accessors mirroring what screens key off.

func (s *Store) IsVoter() bool {
	u, ok := s.User()
	return ok && u.Role == RoleVoter
}

func (s *Store) IsAdmin() bool {
	u, ok := s.User()
	return ok && u.Role == RoleAdmin
}

func (s *Store) IsVerified() bool {
	u, ok := s.User()
	return ok && u.IsVerified
}

func (s *Store) IsActive() bool {
	u, ok := s.User()
	return ok && u.IsActive
}
