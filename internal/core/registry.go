package core

// MaxRoomMembers caps room membership. The check uses the count before
// insertion, so an 11th join attempt is rejected and the room stays at 10.
const MaxRoomMembers = 10

// Registry is the authoritative mapping of live connections to rooms and
// the presence info they announced. It is owned by the Hub and mutated only
// inside the hub's run loop, so no internal locking is needed. Alongside the
// forward map it maintains a reverse index connection -> room, keeping
// disconnect cleanup constant-time and making "at most one room per
// connection" structurally true.
type Registry struct {
	rooms map[string]*Room
	index map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		index: make(map[string]string),
	}
}

// Join adds connection -> participant to the named room, creating the room
// when absent. Returns ErrRoomFull when the room already has MaxRoomMembers
// members and ErrAlreadyJoined when the connection is still indexed in some
// room; in both cases the registry is left unchanged.
func (g *Registry) Join(room string, c *Client, p Participant) error {
	if _, joined := g.index[c.ID]; joined {
		return ErrAlreadyJoined
	}
	r, exists := g.rooms[room]
	if exists && r.Len() >= MaxRoomMembers {
		return ErrRoomFull
	}
	if !exists {
		r = NewRoom(room)
		g.rooms[room] = r
	}
	r.Add(c, p)
	g.index[c.ID] = room
	return nil
}

// Leave removes the connection from its room, deleting the room entirely if
// it becomes empty. Returns the room name and the participant info that was
// removed so the caller can notify peers, or ok=false if the connection was
// never joined. Idempotent: a second Leave for the same connection is a
// no-op.
func (g *Registry) Leave(connID string) (string, Participant, bool) {
	room, joined := g.index[connID]
	if !joined {
		return "", Participant{}, false
	}
	delete(g.index, connID)

	r := g.rooms[room]
	p, _ := r.Remove(connID)
	if r.Empty() {
		delete(g.rooms, room)
	}
	return room, p, true
}

// Room returns the named room, if it exists.
func (g *Registry) Room(room string) (*Room, bool) {
	r, exists := g.rooms[room]
	return r, exists
}

// Members returns a membership snapshot for the named room, empty for an
// unknown room.
func (g *Registry) Members(room string) []Member {
	r, exists := g.rooms[room]
	if !exists {
		return nil
	}
	return r.Members()
}

// Count returns the current member count, 0 if the room does not exist.
func (g *Registry) Count(room string) int {
	r, exists := g.rooms[room]
	if !exists {
		return 0
	}
	return r.Len()
}

// RoomOf returns the room the connection currently belongs to.
func (g *Registry) RoomOf(connID string) (string, bool) {
	room, joined := g.index[connID]
	return room, joined
}

// Len returns the number of live rooms.
func (g *Registry) Len() int {
	return len(g.rooms)
}
