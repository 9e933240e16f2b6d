package core

import (
	"slices"
	"sync"
)

// Room is a point-in-time copy of a room's state.
type Room struct {
	Code     string
	Members  int
	Messages []Message
}

type roomState struct {
	members  int
	messages []Message
}

// Registry owns every active room. All methods are safe for concurrent use and are
// applied atomically with respect to each other.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*roomState
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*roomState)}
}

// Create inserts an empty room under code.
func (r *Registry) Create(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[code]; ok {
		return ErrRoomExists
	}
	r.rooms[code] = &roomState{}
	return nil
}

// Exists reports whether code names an active room.
func (r *Registry) Exists(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.rooms[code]
	return ok
}

// Get returns a copy of the room. The message slice is not shared with the registry.
func (r *Registry) Get(code string) (Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.rooms[code]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return Room{
		Code:     code,
		Members:  st.members,
		Messages: slices.Clone(st.messages),
	}, nil
}

// IncrementMembers adds one member and returns the new count.
func (r *Registry) IncrementMembers(code string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.rooms[code]
	if !ok {
		return 0, ErrRoomNotFound
	}
	st.members++
	return st.members, nil
}

// DecrementMembers removes one member. When no members remain the room and its
// history are deleted and removed is true.
func (r *Registry) DecrementMembers(code string) (remaining int, removed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.rooms[code]
	if !ok {
		return 0, false, ErrRoomNotFound
	}
	st.members--
	if st.members <= 0 {
		delete(r.rooms, code)
		return 0, true, nil
	}
	return st.members, false, nil
}

// AppendMessage adds msg to the end of the room's history.
func (r *Registry) AppendMessage(code string, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	st.messages = append(st.messages, msg)
	return nil
}

// Len returns the number of active rooms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
