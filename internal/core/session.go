package core

import (
	"context"

	"github.com/vovakirdan/roomrelay/internal/store"
)

// SessionBinder associates a client session with a room and display name.
// It is satisfied by every store.SessionStore implementation.
type SessionBinder interface {
	GetSession(ctx context.Context, id string) (*store.Session, error)
	BindSession(ctx context.Context, id, room, name string) error
	ClearSession(ctx context.Context, id string) error
}
