package codesync

import "net/url"

// NotifyKind classifies a user-facing notification.
type NotifyKind string

const (
	NotifyInfo    NotifyKind = "info"
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
)

// Notifier surfaces short messages to the user. Implementations must not block.
type Notifier interface {
	Notify(kind NotifyKind, message string)
}

// NavState is handed to the editor view on navigation.
type NavState struct {
	Username string `json:"username"`
}

// Navigator moves the user to a room's editor view.
type Navigator interface {
	NavigateToRoom(roomID string, state NavState)
}

// EditorPath returns the route of a room's editor view.
func EditorPath(roomID string) string {
	return "/editor/" + url.PathEscape(roomID)
}

// LogNotifier writes notifications to a Logger.
type LogNotifier struct {
	Logger Logger
}

func (n LogNotifier) Notify(kind NotifyKind, message string) {
	if n.Logger == nil {
		return
	}
	fields := map[string]any{"kind": string(kind)}
	if kind == NotifyError {
		n.Logger.Warn(message, fields)
		return
	}
	n.Logger.Info(message, fields)
}

type noopNotifier struct{}

func (noopNotifier) Notify(NotifyKind, string) {}
