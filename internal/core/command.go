package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom registers the client as a room member and announces
	// its presence info.
	CommandJoinRoom CommandKind = iota
	// CommandSignal relays a WebRTC negotiation message to one connection.
	CommandSignal
	// CommandMediaToggle broadcasts a media-state change to room peers.
	CommandMediaToggle
)

// Command represents an action requested by a client.
type Command struct {
	Kind        CommandKind
	Room        string
	Participant Participant
	Signal      *Signal
	Media       *MediaState
}
