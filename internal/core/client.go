package core

import "github.com/vovakirdan/roomrelay/internal/store"

const clientEventBuffer = 32

// Client is one live real-time connection as seen by the core layer.
type Client struct {
	ID        string
	SessionID string
	Events    chan *Event

	// session is pinned when the connection opens; only the hub goroutine touches it.
	session store.Session
	active  bool
	closed  bool
}

// NewClient constructs a client for a connection bound to sessionID.
func NewClient(id, sessionID string) *Client {
	return &Client{
		ID:        id,
		SessionID: sessionID,
		Events:    make(chan *Event, clientEventBuffer),
	}
}
