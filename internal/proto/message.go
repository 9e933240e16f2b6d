package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Protocol envelope types and event names.
const (
	// InboundTypeMessage is the only frame type a client sends.
	InboundTypeMessage = "message"

	// OutboundTypeEvent wraps every frame the server sends.
	OutboundTypeEvent = "event"

	// EventMessage carries chat lines and join/leave notices alike.
	EventMessage = "message"
)

// MessageData is a chat message from the client.
type MessageData struct {
	Data string `json:"data"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// ChatMessage is broadcast to every member of a room. System notices use the
// member's name with the notice text as Message.
type ChatMessage struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}
