package codesync

import "encoding/json"

const (
	// EventJoinRequest is emitted by the client to enter a room.
	EventJoinRequest = "join-request"

	outboundEvent = "event"
	outboundError = "error"

	eventJoinAccepted   = "join-accepted"
	eventJoinError      = "join-error"
	eventUsernameExists = "username-exists"
)

// Inbound represents the envelope from client to server.
type Inbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Outbound is the envelope server -> client.
type Outbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *Error          `json:"error,omitempty"`
}

// User identifies the local participant.
type User struct {
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

// Error describes a protocol error.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Msg
}

// UnmarshalData decodes RawMessage into target.
func UnmarshalData(data json.RawMessage, v any) error {
	return json.Unmarshal(data, v)
}
