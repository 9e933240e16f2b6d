package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/roomrelay/internal/store"
)

const maxCreateAttempts = 8

// EntryMode selects between opening a new room and joining an existing one.
type EntryMode int

const (
	// ModeJoin enters an existing room by code.
	ModeJoin EntryMode = iota
	// ModeCreate allocates a fresh room.
	ModeCreate
)

// ParseEntryMode maps "create" and "join" to a mode. An empty string means join.
func ParseEntryMode(s string) (EntryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "join":
		return ModeJoin, nil
	case "create":
		return ModeCreate, nil
	default:
		return ModeJoin, validationError("mode must be create or join")
	}
}

func (m EntryMode) String() string {
	if m == ModeCreate {
		return "create"
	}
	return "join"
}

// EntryRequest is what a user submits to enter a room.
type EntryRequest struct {
	Name string
	Code string
	Mode EntryMode
}

// RoomView is the state needed to render a room before live events arrive.
type RoomView struct {
	Code     string
	Messages []Message
}

// Lobby decides create/join requests and binds the outcome to the caller's session.
type Lobby struct {
	rooms      *Registry
	sessions   SessionBinder
	codeLength int
	log        *zerolog.Logger
}

// NewLobby constructs a lobby. A codeLength below 1 falls back to DefaultCodeLength.
func NewLobby(rooms *Registry, sessions SessionBinder, codeLength int, logger *zerolog.Logger) *Lobby {
	if codeLength < 1 {
		codeLength = DefaultCodeLength
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Lobby{
		rooms:      rooms,
		sessions:   sessions,
		codeLength: codeLength,
		log:        logger,
	}
}

// Enter validates req, creates or locates the room and binds room and name to the
// session. It never changes membership; that happens when the connection opens.
func (l *Lobby) Enter(ctx context.Context, sessionID string, req EntryRequest) (string, error) {
	if err := l.sessions.ClearSession(ctx, sessionID); err != nil {
		return "", fmt.Errorf("clear session: %w", err)
	}

	if req.Name == "" {
		return "", validationError("name required")
	}
	if req.Mode == ModeJoin && req.Code == "" {
		return "", validationError("code required")
	}

	code := req.Code
	switch req.Mode {
	case ModeCreate:
		created, err := l.createRoom()
		if err != nil {
			return "", err
		}
		code = created
		l.log.Info().Str("room", code).Str("user", req.Name).Msg("room created")
	default:
		if !l.rooms.Exists(code) {
			return "", validationError("room does not exist")
		}
	}

	if err := l.sessions.BindSession(ctx, sessionID, code, req.Name); err != nil {
		return "", fmt.Errorf("bind session: %w", err)
	}
	return code, nil
}

func (l *Lobby) createRoom() (string, error) {
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		code := GenerateCode(l.codeLength, l.rooms.Exists)
		err := l.rooms.Create(code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, ErrRoomExists) {
			return "", err
		}
		l.log.Warn().Str("room", code).Int("attempt", attempt).Msg("room code collision, retrying")
	}
	return "", fmt.Errorf("allocate room code: %w", ErrRoomExists)
}

// RoomView returns the bound room's code and history.
// ErrInactiveSession is returned when the session has no live room.
func (l *Lobby) RoomView(ctx context.Context, sessionID string) (RoomView, error) {
	sess, err := l.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return RoomView{}, ErrInactiveSession
		}
		return RoomView{}, fmt.Errorf("get session: %w", err)
	}
	if !sess.Active() {
		return RoomView{}, ErrInactiveSession
	}

	room, err := l.rooms.Get(sess.Room)
	if err != nil {
		return RoomView{}, ErrInactiveSession
	}
	return RoomView{Code: room.Code, Messages: room.Messages}, nil
}

// Leave drops the session's room binding.
func (l *Lobby) Leave(ctx context.Context, sessionID string) error {
	if err := l.sessions.ClearSession(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
