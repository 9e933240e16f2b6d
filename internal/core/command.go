package core

// CommandKind describes which real-time event the hub should process.
type CommandKind int

const (
	// CommandConnect is issued once when a connection opens.
	CommandConnect CommandKind = iota
	// CommandSendMessage carries chat text from a connection.
	CommandSendMessage
	// CommandDisconnect is issued once when a connection closes.
	CommandDisconnect
)

func (k CommandKind) String() string {
	switch k {
	case CommandConnect:
		return "connect"
	case CommandSendMessage:
		return "message"
	case CommandDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Command represents an event raised by a client connection.
type Command struct {
	Kind   CommandKind
	Client *Client
	Text   string
}
