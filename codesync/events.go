package codesync

// JoinedEvent emitted when the server admits the user into a room.
type JoinedEvent struct {
	User  User   `json:"user"`
	Users []User `json:"users"`
}

// JoinErrorEvent emitted when the server declines a join request.
type JoinErrorEvent struct {
	Code   ErrorCode `json:"-"`
	Reason string    `json:"reason"`
}

const usernameExistsReason = "The username you chose already exists in the room. Please choose a different username."
