package core

import "time"

// Message is the domain model for a chat message.
type Message struct {
	Room      string
	From      string
	Text      string
	CreatedAt time.Time
}

const (
	enteredText = "has entered the room."
	leftText    = "has left the room."
)
