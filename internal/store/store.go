package store

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when no binding exists for a session ID.
var ErrSessionNotFound = errors.New("session not found")

// Session is the room and display name bound to one client session.
// Either field may be empty.
type Session struct {
	ID        string
	Room      string
	Name      string
	UpdatedAt time.Time
}

// Active reports whether both room and name are set.
func (s Session) Active() bool {
	return s.Room != "" && s.Name != ""
}

// SessionStore handles session binding persistence.
type SessionStore interface {
	// GetSession retrieves the binding for a session ID.
	// Returns ErrSessionNotFound when nothing is bound.
	GetSession(ctx context.Context, id string) (*Session, error)

	// BindSession stores room and name for a session ID, replacing any previous binding.
	BindSession(ctx context.Context, id, room, name string) error

	// ClearSession removes the binding. Clearing an unknown ID is not an error.
	ClearSession(ctx context.Context, id string) error
}

// Store aggregates all storage interfaces.
type Store interface {
	SessionStore

	// Close releases the underlying resources.
	Close() error
}
