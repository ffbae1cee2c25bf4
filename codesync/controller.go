package codesync

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MinRoomIDLength   = 5
)

// ValidateUser checks u in a fixed order and returns the first failure.
func ValidateUser(u User) error {
	switch {
	case u.Username == "":
		return ErrUsernameRequired
	case u.RoomID == "":
		return ErrRoomIDRequired
	case utf8.RuneCountInString(u.RoomID) < MinRoomIDLength:
		return ErrRoomIDTooShort
	case utf8.RuneCountInString(u.Username) < MinUsernameLength:
		return ErrUsernameTooShort
	}
	return nil
}

// Controller drives the room-join handshake for one Session.
//
// Every transition runs under a single lock, so user calls and channel
// events are handled one at a time. Callbacks registered with
// OnStatusChanged and OnError run under that lock and must not call back
// into the Controller.
type Controller struct {
	session    *Session
	channel    Channel
	navigator  Navigator
	guard      *RedirectGuard
	logger     Logger
	dispatcher Dispatcher

	mu       sync.Mutex
	onStatus func(StatusEvent)
	onError  func(error)
}

// NewController binds a controller to channel. Notifications go through the
// session's notifier.
func NewController(session *Session, channel Channel, navigator Navigator) *Controller {
	c := &Controller{
		session:   session,
		channel:   channel,
		navigator: navigator,
		guard:     NewRedirectGuard(nil),
		logger:    noopLogger{},
	}
	c.dispatcher.SetOnJoined(c.OnJoined)
	c.dispatcher.SetOnJoinError(c.OnJoinError)
	c.dispatcher.SetOnError(c.handleProtocolError)
	channel.Bind(c)
	return c
}

// SetLogger overrides logger (optional).
func (c *Controller) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.logger = l
}

// SetMarker replaces the store behind the redirect guard.
func (c *Controller) SetMarker(m Marker) {
	c.mu.Lock()
	c.guard = NewRedirectGuard(m)
	c.mu.Unlock()
}

// OnStatusChanged registers callback for status transitions.
func (c *Controller) OnStatusChanged(fn func(StatusEvent)) {
	c.mu.Lock()
	c.onStatus = fn
	c.mu.Unlock()
}

// OnError registers callback for rejections and channel errors.
func (c *Controller) OnError(fn func(error)) {
	c.mu.Lock()
	c.onError = fn
	c.mu.Unlock()
}

// Session returns the session this controller drives.
func (c *Controller) Session() *Session { return c.session }

// Start connects the channel if the session is idle.
func (c *Controller) Start() {
	c.OnDisconnectedObserved()
}

// RequestJoin validates the session user and sends a join request.
// Validation failures are returned and reported to the notifier without
// touching the channel. While a request is in flight the call is a no-op.
func (c *Controller) RequestJoin(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	user := c.session.User()
	if err := ValidateUser(user); err != nil {
		var ce *CodesyncError
		if errors.As(err, &ce) {
			c.notify(NotifyError, ce.Message)
		}
		return err
	}
	if c.session.Status() == StatusAttemptingJoin {
		c.logger.Debug("join already in flight", map[string]any{"room": user.RoomID})
		return nil
	}

	c.notify(NotifyInfo, "Joining room...")
	c.transition(StatusAttemptingJoin, nil)
	if !c.channel.Connected() {
		c.channel.Connect()
	}
	if err := c.channel.Emit(ctx, EventJoinRequest, user); err != nil {
		werr := WrapError(ErrorChannel, "failed to send join request", err)
		c.logger.Warn("join request not sent", map[string]any{"error": err.Error()})
		c.transition(StatusDisconnected, werr)
		c.notify(NotifyError, "Failed to send join request")
		return werr
	}
	c.logger.Info("join requested", map[string]any{"room": user.RoomID, "user": user.Username})
	return nil
}

// OnJoined handles a server confirmation. The first confirmation of a cycle
// navigates to the editor; a repeated one resets the session and reconnects.
func (c *Controller) OnJoined(ev JoinedEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.accept(ev)
	c.transition(StatusJoined, nil)

	user := c.session.User()
	if c.guard.ConsumeOnce() {
		c.notify(NotifySuccess, "Joined room")
		c.logger.Info("joined", map[string]any{"room": user.RoomID, "user": user.Username})
		c.navigator.NavigateToRoom(user.RoomID, NavState{Username: user.Username})
		return
	}

	c.logger.Warn("duplicate join confirmation, reconnecting", map[string]any{"room": user.RoomID})
	c.transition(StatusDisconnected, nil)
	c.channel.Disconnect()
	c.channel.Connect()
}

// OnJoinError handles a server rejection of the join request.
func (c *Controller) OnJoinError(ev JoinErrorEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reject(ev)
}

// OnDisconnectedObserved starts one connect attempt when the session is
// disconnected and the channel is down.
func (c *Controller) OnDisconnectedObserved() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observeDisconnected()
}

// HandleMessage routes an inbound envelope.
func (c *Controller) HandleMessage(out Outbound) {
	c.dispatcher.Dispatch(out)
}

func (c *Controller) HandleConnected() {
	c.logger.Debug("channel connected", nil)
}

// HandleDisconnected resets the session after the channel dropped and
// reconnects once.
func (c *Controller) HandleDisconnected(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Warn("channel dropped", map[string]any{"error": errString(err)})
	c.transition(StatusDisconnected, err)
	c.notify(NotifyError, "Disconnected from the server")
	c.fireError(err)
	c.observeDisconnected()
}

// HandleConnectFailed parks the session in StatusConnectionError until the
// next RequestJoin.
func (c *Controller) HandleConnectFailed(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Error("connect failed", map[string]any{"error": errString(err)})
	c.transition(StatusConnectionError, err)
	c.notify(NotifyError, "Failed to connect to the server")
	c.fireError(err)
}

func (c *Controller) handleProtocolError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Status() == StatusAttemptingJoin {
		// Any error reply to an in-flight join ends the attempt.
		ev := JoinErrorEvent{Code: ErrorJoinRejected, Reason: errString(err)}
		var ce *CodesyncError
		if errors.As(err, &ce) {
			ev.Reason = ce.Message
			if IsRejection(ce) {
				ev.Code = ce.Code
			}
		}
		c.reject(ev)
		return
	}
	c.logger.Warn("server error", map[string]any{"error": errString(err)})
	c.fireError(err)
}

func (c *Controller) reject(ev JoinErrorEvent) {
	code := ev.Code
	if code == ErrorUnknown {
		code = ErrorJoinRejected
	}
	reason := ev.Reason
	if reason == "" {
		reason = "Join request rejected"
	}
	err := NewError(code, reason)

	c.logger.Warn("join rejected", map[string]any{"code": code.String(), "reason": reason})
	c.transition(StatusDisconnected, err)
	c.notify(NotifyError, reason)
	c.fireError(err)
}

func (c *Controller) observeDisconnected() {
	if c.session.Status() != StatusDisconnected || c.channel.Connected() {
		return
	}
	c.logger.Debug("connecting", nil)
	c.channel.Connect()
}

func (c *Controller) transition(to Status, err error) {
	from := c.session.setStatus(to)
	if from == to {
		return
	}
	c.logger.Debug("status changed", map[string]any{"from": from.String(), "to": to.String()})
	if c.onStatus != nil {
		c.onStatus(StatusEvent{OldStatus: from, NewStatus: to, Error: err})
	}
}

func (c *Controller) notify(kind NotifyKind, msg string) {
	c.session.notifier.Notify(kind, msg)
}

func (c *Controller) fireError(err error) {
	if c.onError != nil && err != nil {
		c.onError(err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
