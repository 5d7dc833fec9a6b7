package core

import "errors"

// Error codes for domain errors surfaced to clients.
const (
	ErrCodeRoomFull   = "room_full"
	ErrCodeBadRequest = "bad_request"
)

var (
	// ErrRoomFull is returned by the registry when a join would exceed
	// MaxRoomMembers.
	ErrRoomFull = errors.New("room full")
	// ErrAlreadyJoined is returned when a connection already indexed in a
	// room is joined again without leaving first.
	ErrAlreadyJoined = errors.New("already joined")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}
