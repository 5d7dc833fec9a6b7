package core

import "encoding/json"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventExistingUsers delivers the room membership snapshot to a client
	// that just joined, excluding the client itself.
	EventExistingUsers EventKind = iota
	// EventUserJoined notifies room members about a newcomer.
	EventUserJoined
	// EventUserLeft notifies room members that a member disconnected.
	EventUserLeft
	// EventRoomFull tells a joiner its join was rejected on capacity.
	EventRoomFull
	// EventSignal carries a relayed WebRTC negotiation message.
	EventSignal
	// EventPeerMediaToggle notifies room members about a peer's media-state
	// change.
	EventPeerMediaToggle
	// EventError notifies a client about a domain error.
	EventError
)

// SignalKind names the WebRTC negotiation message being relayed. The values
// double as wire event names.
type SignalKind string

const (
	SignalOffer        SignalKind = "webrtc-offer"
	SignalAnswer       SignalKind = "webrtc-answer"
	SignalICECandidate SignalKind = "webrtc-ice-candidate"
)

// Signal is a directed WebRTC negotiation message. Payload is forwarded
// verbatim; the hub only rewrites From to the sender's connection id.
type Signal struct {
	Kind    SignalKind
	To      string
	From    string
	Payload json.RawMessage
}

// MediaState describes a media-toggle announcement. From is set by the hub.
type MediaState struct {
	Room    string
	From    string
	Type    string
	Enabled bool
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind        EventKind
	Room        string
	From        string // originating connection id, where applicable
	Participant Participant
	Members     []Member // for EventExistingUsers
	Signal      *Signal
	Media       *MediaState
	Error       *CoreError
}
