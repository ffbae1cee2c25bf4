package codesync

// Status is the join handshake state of a session.
type Status int

const (
	// StatusDisconnected means no join is in progress or held.
	StatusDisconnected Status = iota

	// StatusAttemptingJoin means a join request is in flight.
	StatusAttemptingJoin

	// StatusJoined means the server confirmed room membership.
	StatusJoined

	// StatusConnectionError means the channel gave up connecting.
	StatusConnectionError
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusAttemptingJoin:
		return "attempting_join"
	case StatusJoined:
		return "joined"
	case StatusConnectionError:
		return "connection_error"
	default:
		return "unknown"
	}
}

// StatusEvent represents a status change.
type StatusEvent struct {
	OldStatus Status
	NewStatus Status
	Error     error // Optional error that caused the change
}
