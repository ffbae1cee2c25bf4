package codesync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Kind    NotifyKind
	Message string
}

// recordingNotifier keeps every notification for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recordingNotifier) Notify(kind NotifyKind, message string) {
	r.mu.Lock()
	r.notes = append(r.notes, note{Kind: kind, Message: message})
	r.mu.Unlock()
}

func (r *recordingNotifier) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

func (r *recordingNotifier) last() note {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return note{}
	}
	return r.notes[len(r.notes)-1]
}

func TestSessionUpdateMergesField(t *testing.T) {
	s := NewSession(nil)
	s.Update(FieldUsername, "alice")
	s.Update(FieldRoomID, "12345")
	s.Update(FieldUsername, "alicia")
	s.Update(Field("color"), "red")

	assert.Equal(t, User{Username: "alicia", RoomID: "12345"}, s.User())
	assert.Equal(t, StatusDisconnected, s.Status())
}

func TestSessionGenerateRoomID(t *testing.T) {
	n := &recordingNotifier{}
	s := NewSession(n)
	s.Update(FieldUsername, "alice")

	first := s.GenerateRoomID()
	second := s.GenerateRoomID()

	require.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.Len(t, first, 36)
	assert.Equal(t, User{Username: "alice", RoomID: second}, s.User())
	assert.Equal(t, note{Kind: NotifySuccess, Message: "Created a new Room Id"}, n.last())
	assert.Len(t, n.all(), 2)
}

func TestSessionGenerateRoomIDKeepsEmptyUsername(t *testing.T) {
	s := NewSession(nil)
	id := s.GenerateRoomID()
	assert.Equal(t, "", s.User().Username)
	assert.Equal(t, id, s.User().RoomID)
}

func TestSessionPrefill(t *testing.T) {
	t.Run("fills empty room and asks for a username", func(t *testing.T) {
		n := &recordingNotifier{}
		s := NewSession(n)
		s.Prefill("invite-room")

		assert.Equal(t, "invite-room", s.User().RoomID)
		assert.Equal(t, []note{{Kind: NotifyInfo, Message: "Enter your username"}}, n.all())
	})

	t.Run("keeps an existing room id", func(t *testing.T) {
		n := &recordingNotifier{}
		s := NewSession(n)
		s.Update(FieldRoomID, "typed-room")
		s.Prefill("invite-room")

		assert.Equal(t, "typed-room", s.User().RoomID)
		assert.Empty(t, n.all())
	})

	t.Run("silent when username is known", func(t *testing.T) {
		n := &recordingNotifier{}
		s := NewSession(n)
		s.Update(FieldUsername, "alice")
		s.Prefill("invite-room")

		assert.Equal(t, "invite-room", s.User().RoomID)
		assert.Empty(t, n.all())
	})

	t.Run("ignores empty hand-off", func(t *testing.T) {
		s := NewSession(nil)
		s.Prefill("")
		assert.Equal(t, "", s.User().RoomID)
	})
}

func TestSessionMembersCopy(t *testing.T) {
	s := NewSession(nil)
	s.accept(JoinedEvent{Users: []User{{Username: "alice"}, {Username: "bob"}}})

	members := s.Members()
	require.Len(t, members, 2)
	members[0].Username = "mallory"
	assert.Equal(t, "alice", s.Members()[0].Username)
}
