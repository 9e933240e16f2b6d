package core

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/roomrelay/internal/store"
)

const inboxSize = 256

// Hub routes connect, message and disconnect events. Commands are processed one at
// a time by Run, which fixes the order messages are appended to room history.
type Hub struct {
	rooms    *Registry
	sessions SessionBinder
	groups   map[string]*group
	inbox    chan *Command
	done     chan struct{}
	log      *zerolog.Logger
	now      func() time.Time
}

// NewHub creates a hub over the given registry and session binder.
func NewHub(rooms *Registry, sessions SessionBinder, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		rooms:    rooms,
		sessions: sessions,
		groups:   make(map[string]*group),
		inbox:    make(chan *Command, inboxSize),
		done:     make(chan struct{}),
		log:      logger,
		now:      time.Now,
	}
}

// Run processes commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Int("groups", len(h.groups)).Msg("hub stopped")
			return
		case cmd := <-h.inbox:
			h.handle(ctx, cmd)
		}
	}
}

// Connect queues the connect event for c.
func (h *Hub) Connect(c *Client) {
	h.submit(&Command{Kind: CommandConnect, Client: c})
}

// Send queues a chat message from c.
func (h *Hub) Send(c *Client, text string) {
	h.submit(&Command{Kind: CommandSendMessage, Client: c, Text: text})
}

// Disconnect queues the disconnect event for c.
func (h *Hub) Disconnect(c *Client) {
	h.submit(&Command{Kind: CommandDisconnect, Client: c})
}

func (h *Hub) submit(cmd *Command) {
	select {
	case h.inbox <- cmd:
	case <-h.done:
		h.log.Debug().Str("command", cmd.Kind.String()).Msg("hub stopped, command dropped")
	}
}

func (h *Hub) handle(ctx context.Context, cmd *Command) {
	if cmd == nil || cmd.Client == nil {
		return
	}
	switch cmd.Kind {
	case CommandConnect:
		h.onConnect(ctx, cmd.Client)
	case CommandSendMessage:
		h.onMessage(cmd.Client, cmd.Text)
	case CommandDisconnect:
		h.onDisconnect(cmd.Client)
	}
}

// resolveActiveSession is the guard shared by every handler: the client's session
// must name a room and a user, and the room must still be registered.
func (h *Hub) resolveActiveSession(c *Client) (store.Session, bool) {
	sess := c.session
	if !sess.Active() || !h.rooms.Exists(sess.Room) {
		return sess, false
	}
	return sess, true
}

func (h *Hub) lookupSession(ctx context.Context, id string) store.Session {
	if h.sessions == nil || id == "" {
		return store.Session{}
	}
	sess, err := h.sessions.GetSession(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrSessionNotFound) {
			h.log.Warn().Err(err).Str("session_id", id).Msg("session lookup failed")
		}
		return store.Session{}
	}
	return *sess
}

func (h *Hub) onConnect(ctx context.Context, c *Client) {
	c.session = h.lookupSession(ctx, c.SessionID)

	sess, ok := h.resolveActiveSession(c)
	if !ok {
		h.log.Debug().Str("client_id", c.ID).Str("room", sess.Room).Msg("connect ignored: no active session")
		return
	}

	h.join(sess.Room, c)
	members, err := h.rooms.IncrementMembers(sess.Room)
	if err != nil {
		h.leave(sess.Room, c)
		h.log.Debug().Err(err).Str("room", sess.Room).Msg("connect ignored")
		return
	}
	c.active = true

	h.broadcast(&Event{
		Kind:    EventUserJoined,
		Room:    sess.Room,
		Message: h.newMessage(sess.Room, sess.Name, enteredText),
	})
	h.log.Info().Str("room", sess.Room).Str("user", sess.Name).Int("members", members).Msg("user joined room")
}

func (h *Hub) onMessage(c *Client, text string) {
	sess, ok := h.resolveActiveSession(c)
	if !ok {
		return
	}

	msg := h.newMessage(sess.Room, sess.Name, text)
	h.broadcast(&Event{Kind: EventRoomMessage, Room: sess.Room, Message: msg})

	// Broadcast goes first; a room removed in between keeps the broadcast but not the history entry.
	if err := h.rooms.AppendMessage(sess.Room, msg); err != nil {
		h.log.Debug().Err(err).Str("room", sess.Room).Msg("message not stored")
		return
	}
	h.log.Debug().Str("room", sess.Room).Str("user", sess.Name).Msg("message relayed")
}

func (h *Hub) onDisconnect(c *Client) {
	if c.closed {
		return
	}
	sess := c.session
	h.leave(sess.Room, c)

	if c.active {
		c.active = false
		if h.rooms.Exists(sess.Room) {
			remaining, removed, err := h.rooms.DecrementMembers(sess.Room)
			switch {
			case err != nil:
				h.log.Debug().Err(err).Str("room", sess.Room).Msg("decrement skipped")
			case removed:
				h.log.Info().Str("room", sess.Room).Msg("room closed")
			default:
				h.log.Debug().Str("room", sess.Room).Int("members", remaining).Msg("member left")
			}
		}
	}

	if sess.Room != "" {
		h.broadcast(&Event{
			Kind:    EventUserLeft,
			Room:    sess.Room,
			Message: h.newMessage(sess.Room, sess.Name, leftText),
		})
		h.log.Info().Str("room", sess.Room).Str("user", sess.Name).Msg("user left room")
	}
	c.closed = true
	close(c.Events)
}

func (h *Hub) newMessage(room, from, text string) Message {
	return Message{Room: room, From: from, Text: text, CreatedAt: h.now()}
}

func (h *Hub) join(code string, c *Client) {
	g, ok := h.groups[code]
	if !ok {
		g = newGroup(code)
		h.groups[code] = g
	}
	g.add(c)
}

func (h *Hub) leave(code string, c *Client) {
	g, ok := h.groups[code]
	if !ok {
		return
	}
	g.remove(c)
	if g.empty() {
		delete(h.groups, code)
	}
}

func (h *Hub) broadcast(event *Event) {
	g, ok := h.groups[event.Room]
	if !ok {
		return
	}
	if dropped := g.broadcast(event); dropped > 0 {
		h.log.Warn().Str("room", event.Room).Int("dropped", dropped).Msg("slow consumers skipped")
	}
}
