package core

// group is the broadcast group of connections subscribed to one room code.
// It is owned by the hub goroutine.
type group struct {
	code    string
	clients map[*Client]struct{}
}

func newGroup(code string) *group {
	return &group{
		code:    code,
		clients: make(map[*Client]struct{}),
	}
}

// add inserts a client. Returns true if newly added.
func (g *group) add(c *Client) bool {
	if _, exists := g.clients[c]; exists {
		return false
	}
	g.clients[c] = struct{}{}
	return true
}

// remove deletes a client. Returns true if removed.
func (g *group) remove(c *Client) bool {
	if _, exists := g.clients[c]; !exists {
		return false
	}
	delete(g.clients, c)
	return true
}

// broadcast sends event to every subscriber and returns how many were skipped
// because their buffer was full.
func (g *group) broadcast(event *Event) (dropped int) {
	for client := range g.clients {
		select {
		case client.Events <- event:
		default:
			dropped++
		}
	}
	return dropped
}

func (g *group) empty() bool {
	return len(g.clients) == 0
}
