package core

// Room groups the connections exchanging signaling inside one named session.
// Rooms are implicit: created on first join, deleted by the registry when
// the last member leaves. Membership is insertion-ordered, though the order
// carries no semantic guarantee to callers.
type Room struct {
	Name    string
	order   []string
	members map[string]*Member
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		members: make(map[string]*Member),
	}
}

// Add inserts a connection into the room. Returns false if it is already a
// member.
func (r *Room) Add(c *Client, p Participant) bool {
	if _, exists := r.members[c.ID]; exists {
		return false
	}
	r.members[c.ID] = &Member{ConnectionID: c.ID, Participant: p, client: c}
	r.order = append(r.order, c.ID)
	return true
}

// Remove deletes a connection from the room, returning the participant info
// it announced. Returns false if the connection was not a member.
func (r *Room) Remove(connID string) (Participant, bool) {
	m, exists := r.members[connID]
	if !exists {
		return Participant{}, false
	}
	delete(r.members, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return m.Participant, true
}

// Members returns a snapshot of current membership in insertion order.
func (r *Room) Members() []Member {
	out := make([]Member, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.members[id])
	}
	return out
}

// Len returns the current member count.
func (r *Room) Len() int {
	return len(r.members)
}

// Empty returns true if no connections are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// Broadcast sends an event to all members except excludeID. Delivery is
// best-effort: slow consumers are skipped.
func (r *Room) Broadcast(event *Event, excludeID string) {
	for id, m := range r.members {
		if id == excludeID {
			continue
		}
		select {
		case m.client.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}
