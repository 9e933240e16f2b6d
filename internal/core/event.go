package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomMessage notifies clients about a chat message in a room.
	EventRoomMessage EventKind = iota
	// EventUserJoined notifies clients about a user entering a room.
	EventUserJoined
	// EventUserLeft notifies clients about a user leaving a room.
	EventUserLeft
)

// Event is sent to clients to describe what happened in their room.
// System notices carry the member's name in Message.From.
type Event struct {
	Kind    EventKind
	Room    string
	Message Message
}
