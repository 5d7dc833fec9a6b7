package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Hub routes client commands to registry operations and fans events out to
// room members. All registry access happens inside Run's loop: commands from
// every connection are funneled into a single mailbox and processed to
// completion one at a time, so join and leave for different connections
// never observe a torn room state.
type Hub struct {
	log      *zerolog.Logger
	registry *Registry
	clients  map[string]*Client

	register   chan *Client
	unregister chan *Client
	mailbox    chan clientCommand
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// NewHub creates a hub with an empty registry.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		log:        logger,
		registry:   NewRegistry(),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		mailbox:    make(chan clientCommand, 64),
	}
}

// RegisterClient makes the connection known to the hub and starts pumping
// its commands into the mailbox. The connection stays Unjoined until its
// first successful join.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient removes the connection and runs disconnect cleanup.
// Safe to call more than once; cleanup runs exactly once per connection.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes registrations and commands until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c.ID] = c
			go h.pump(ctx, c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case cc := <-h.mailbox:
			h.handleCommand(cc.client, cc.cmd)
		}
	}
}

// pump forwards one client's commands into the shared mailbox, preserving
// per-connection ordering. It exits when the client is unregistered.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.mailbox <- clientCommand{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	// Commands from a connection that already disconnected are stale.
	if _, live := h.clients[c.ID]; !live {
		return
	}

	switch cmd.Kind {
	case CommandJoinRoom:
		h.handleJoin(c, cmd.Room, cmd.Participant)
	case CommandSignal:
		h.handleSignal(c, cmd.Signal)
	case CommandMediaToggle:
		h.handleMediaToggle(c, cmd.Media)
	default:
		h.send(c, &Event{
			Kind:  EventError,
			Error: &CoreError{Code: ErrCodeBadRequest, Message: "unknown command"},
		})
	}
}

func (h *Hub) handleJoin(c *Client, room string, p Participant) {
	// A connection joins at most one room. A join while already joined
	// implicitly leaves the previous room first, notifying its members.
	if prev, joined := h.registry.RoomOf(c.ID); joined {
		h.leaveRoom(c, prev)
	}

	// Snapshot is taken before insertion, in the same logical step as the
	// user-joined broadcast below, so the joiner's existing-users list and
	// the members' view of the newcomer can never diverge.
	snapshot := h.registry.Members(room)

	if err := h.registry.Join(room, c, p); err != nil {
		h.log.Debug().Str("client_id", c.ID).Str("room", room).Err(err).Msg("join rejected")
		if errors.Is(err, ErrRoomFull) {
			h.send(c, &Event{Kind: EventRoomFull, Room: room})
			return
		}
		h.send(c, &Event{
			Kind:  EventError,
			Error: &CoreError{Code: ErrCodeBadRequest, Message: err.Error()},
		})
		return
	}

	h.send(c, &Event{Kind: EventExistingUsers, Room: room, Members: snapshot})

	r, _ := h.registry.Room(room)
	r.Broadcast(&Event{
		Kind:        EventUserJoined,
		Room:        room,
		From:        c.ID,
		Participant: p,
	}, c.ID)

	h.log.Info().Str("client_id", c.ID).Str("room", room).Str("user_id", p.UserID).
		Int("members", r.Len()).Msg("client joined room")
}

func (h *Hub) handleSignal(c *Client, s *Signal) {
	if s == nil {
		return
	}
	target, live := h.clients[s.To]
	if !live {
		// Best-effort contract: unknown targets are dropped silently,
		// nothing is surfaced to the sender.
		h.log.Debug().Str("client_id", c.ID).Str("to", s.To).
			Str("kind", string(s.Kind)).Msg("relay target not connected, dropping")
		return
	}
	s.From = c.ID
	h.send(target, &Event{Kind: EventSignal, From: c.ID, Signal: s})
}

func (h *Hub) handleMediaToggle(c *Client, m *MediaState) {
	if m == nil {
		return
	}
	// The sender is trusted to report the room it occupies; membership is
	// not cross-checked. An unknown room is a no-op.
	r, exists := h.registry.Room(m.Room)
	if !exists {
		return
	}
	m.From = c.ID
	r.Broadcast(&Event{Kind: EventPeerMediaToggle, Room: m.Room, From: c.ID, Media: m}, c.ID)
}

func (h *Hub) handleDisconnect(c *Client) {
	if _, live := h.clients[c.ID]; !live {
		return
	}
	delete(h.clients, c.ID)
	close(c.done)

	if room, joined := h.registry.RoomOf(c.ID); joined {
		h.leaveRoom(c, room)
	}
	h.log.Debug().Str("client_id", c.ID).Msg("client disconnected")
}

// leaveRoom removes the connection from the named room and notifies the
// remaining members. The registry deletes the room if it became empty.
func (h *Hub) leaveRoom(c *Client, room string) {
	_, p, ok := h.registry.Leave(c.ID)
	if !ok {
		return
	}
	if r, exists := h.registry.Room(room); exists {
		r.Broadcast(&Event{
			Kind:        EventUserLeft,
			Room:        room,
			From:        c.ID,
			Participant: p,
		}, c.ID)
	}
	h.log.Info().Str("client_id", c.ID).Str("room", room).Msg("client left room")
}

func (h *Hub) send(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}
