package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Event names. Field names and values are fixed by the deployed clients.
const (
	InboundTypeJoinRoom     = "join-room"
	InboundTypeOffer        = "webrtc-offer"
	InboundTypeAnswer       = "webrtc-answer"
	InboundTypeICECandidate = "webrtc-ice-candidate"
	InboundTypeMediaToggle  = "media-toggle"

	OutboundTypeConnected       = "connected"
	OutboundTypeExistingUsers   = "existing-users"
	OutboundTypeUserJoined      = "user-joined"
	OutboundTypeUserLeft        = "user-left"
	OutboundTypeRoomFull        = "room-full"
	OutboundTypePeerMediaToggle = "peer-media-toggle"
	OutboundTypeError           = "error"
)

// UserInfo is the caller-supplied presence metadata for one participant.
type UserInfo struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// JoinRoomData requests membership in a named room.
type JoinRoomData struct {
	RoomID   string   `json:"roomId"`
	UserInfo UserInfo `json:"userInfo"`
}

// SignalData carries a directed WebRTC negotiation message. Exactly one of
// Offer, Answer or Candidate is set, matching the event name. From is
// server-assigned on relay; a caller-supplied value is overwritten.
type SignalData struct {
	To        string          `json:"to"`
	From      string          `json:"from,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// MediaToggleData announces a media-state change to room peers.
type MediaToggleData struct {
	RoomID  string `json:"roomId"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

// ConnectedData tells a client its server-assigned connection id.
type ConnectedData struct {
	ConnectionID string `json:"connectionId"`
}

// RoomMember is one entry of an existing-users snapshot.
type RoomMember struct {
	ConnectionID string   `json:"connectionId"`
	UserInfo     UserInfo `json:"userInfo"`
}

// UserJoinedData notifies room members about a newcomer.
type UserJoinedData struct {
	ConnectionID string   `json:"connectionId"`
	UserInfo     UserInfo `json:"userInfo"`
}

// UserLeftData notifies room members that a member disconnected.
type UserLeftData struct {
	ConnectionID string   `json:"connectionId"`
	UserInfo     UserInfo `json:"userInfo"`
}

// PeerMediaToggleData notifies room members about a peer's media change.
type PeerMediaToggleData struct {
	ConnectionID string `json:"connectionId"`
	Type         string `json:"type"`
	Enabled      bool   `json:"enabled"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
