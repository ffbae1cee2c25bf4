package codesync

import (
	"sync"

	"github.com/google/uuid"
)

// Field names a mutable User field.
type Field string

const (
	FieldUsername Field = "username"
	FieldRoomID   Field = "roomId"
)

// Session holds the local user's identity and join status.
// Status is written only by the Controller.
type Session struct {
	mu       sync.Mutex
	user     User
	status   Status
	members  []User
	notifier Notifier
	newID    func() string
}

// NewSession returns an empty session in StatusDisconnected.
// A nil notifier discards notifications.
func NewSession(notifier Notifier) *Session {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Session{
		notifier: notifier,
		newID:    uuid.NewString,
	}
}

// User returns a copy of the current user.
func (s *Session) User() User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Members returns the room members from the last accepted join.
func (s *Session) Members() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, len(s.members))
	copy(out, s.members)
	return out
}

// Update merges one field into the user. Unknown fields are ignored.
func (s *Session) Update(field Field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch field {
	case FieldUsername:
		s.user.Username = value
	case FieldRoomID:
		s.user.RoomID = value
	}
}

// GenerateRoomID replaces the room id with a fresh UUID and returns it.
func (s *Session) GenerateRoomID() string {
	id := s.newID()
	s.mu.Lock()
	s.user.RoomID = id
	s.mu.Unlock()
	s.notifier.Notify(NotifySuccess, "Created a new Room Id")
	return id
}

// Prefill copies a handed-off room id (for example from an invite link)
// into an empty room id field.
func (s *Session) Prefill(roomID string) {
	s.mu.Lock()
	if s.user.RoomID != "" || roomID == "" {
		s.mu.Unlock()
		return
	}
	s.user.RoomID = roomID
	needName := s.user.Username == ""
	s.mu.Unlock()
	if needName {
		s.notifier.Notify(NotifyInfo, "Enter your username")
	}
}

func (s *Session) setStatus(st Status) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.status
	s.status = st
	return old
}

func (s *Session) accept(ev JoinedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.User.Username != "" {
		s.user.Username = ev.User.Username
	}
	if ev.User.RoomID != "" {
		s.user.RoomID = ev.User.RoomID
	}
	s.members = append([]User(nil), ev.Users...)
}
