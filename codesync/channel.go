package codesync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/vovakirdan/codesync-sdk/codesync-sdk-go/codesync/internal"
)

// ChannelHandler receives lifecycle and inbound events from a Channel.
// Calls may come from any goroutine.
type ChannelHandler interface {
	HandleConnected()
	HandleDisconnected(err error)
	HandleConnectFailed(err error)
	HandleMessage(out Outbound)
}

// Channel is a bidirectional event connection to the collaboration server.
// Connect and Disconnect return immediately; outcomes reach the bound handler.
// An explicit Disconnect never reports HandleDisconnected.
type Channel interface {
	Bind(h ChannelHandler)
	Connect()
	Disconnect()
	Connected() bool
	Emit(ctx context.Context, event string, payload any) error
}

type channelState int

const (
	channelIdle channelState = iota
	channelConnecting
	channelOpen
)

// WSChannel is a Channel over a websocket carrying JSON envelopes.
type WSChannel struct {
	cfg     Config
	logger  Logger
	writeCh chan Inbound

	mu      sync.Mutex
	handler ChannelHandler
	conn    *internal.Conn
	state   channelState
	gen     uint64
	cancel  context.CancelFunc
}

// NewWSChannel constructs a channel with provided config.
// Use DefaultConfig() as a starting point and modify as needed.
func NewWSChannel(cfg Config) *WSChannel {
	size := cfg.QueueSize
	if size <= 0 {
		size = 16
	}
	return &WSChannel{
		cfg:     cfg,
		logger:  noopLogger{},
		writeCh: make(chan Inbound, size),
		handler: noopHandler{},
	}
}

// SetLogger overrides logger (optional).
func (c *WSChannel) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.logger = l
}

func (c *WSChannel) Bind(h ChannelHandler) {
	if h == nil {
		h = noopHandler{}
	}
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

func (c *WSChannel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == channelOpen
}

// Connect starts dialing in the background. It is a no-op while a
// connection is open or being established.
func (c *WSChannel) Connect() {
	c.mu.Lock()
	if c.state != channelIdle {
		c.mu.Unlock()
		return
	}
	c.state = channelConnecting
	// Events left from a connection that never opened must not reach the new one.
	c.drainQueue()
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go c.dialLoop(ctx, gen)
}

// Disconnect closes the current connection and drops queued events.
func (c *WSChannel) Disconnect() {
	c.mu.Lock()
	c.gen++
	cancel := c.cancel
	conn := c.conn
	c.cancel = nil
	c.conn = nil
	c.state = channelIdle
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		go func() { _ = conn.Close(websocket.StatusNormalClosure, "client disconnect") }()
	}
	c.drainQueue()
}

// drainQueue discards events queued for a connection that will not open.
func (c *WSChannel) drainQueue() {
	for {
		select {
		case <-c.writeCh:
		default:
			return
		}
	}
}

// Emit queues an event for the server. Events queued while connecting are
// flushed once the connection opens.
func (c *WSChannel) Emit(ctx context.Context, event string, payload any) error {
	in := Inbound{Type: event, Data: payload}
	c.mu.Lock()
	if c.state == channelIdle {
		c.mu.Unlock()
		return NewError(ErrorNotConnected, "not connected")
	}
	select {
	case c.writeCh <- in:
		c.mu.Unlock()
		return nil
	default:
	}
	c.mu.Unlock()

	// Queue full: wait for the writer. Connect drops anything left behind.
	select {
	case c.writeCh <- in:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *WSChannel) currentHandler() ChannelHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler
}

func (c *WSChannel) dialLoop(ctx context.Context, gen uint64) {
	if err := c.cfg.Validate(); err != nil {
		c.giveUp(gen, err)
		return
	}

	delay := c.cfg.ReconnectInterval
	for attempt := 0; ; attempt++ {
		conn, err := internal.Dial(ctx, c.cfg.URL, c.cfg.HandshakeTimeout, c.cfg.ReadTimeout, c.cfg.WriteTimeout)
		if err == nil {
			c.open(ctx, gen, conn)
			return
		}
		if ctx.Err() != nil {
			return
		}
		c.logger.Warn("dial failed", map[string]any{"error": err.Error(), "attempt": attempt + 1})

		if !c.cfg.AutoReconnect || (c.cfg.MaxReconnectTries > 0 && attempt >= c.cfg.MaxReconnectTries) {
			c.giveUp(gen, WrapError(ErrorConnection, "failed to connect to the server", err))
			return
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
		delay = nextDelay(delay, c.cfg.MaxReconnectDelay)
	}
}

func nextDelay(cur, limit time.Duration) time.Duration {
	if cur <= 0 {
		cur = time.Second
	}
	next := cur * 2
	if limit > 0 && next > limit {
		return limit
	}
	return next
}

func (c *WSChannel) open(ctx context.Context, gen uint64, conn *internal.Conn) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		_ = conn.CloseNow()
		return
	}
	c.conn = conn
	c.state = channelOpen
	h := c.handler
	c.mu.Unlock()

	c.logger.Info("connected", map[string]any{"url": c.cfg.URL})
	h.HandleConnected()
	go c.writeLoop(ctx, gen, conn)
	go c.readLoop(ctx, gen, conn)
}

func (c *WSChannel) giveUp(gen uint64, err error) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = channelIdle
	h := c.handler
	c.mu.Unlock()
	c.drainQueue()
	h.HandleConnectFailed(err)
}

// drop tears down an unexpectedly lost connection and reports it.
func (c *WSChannel) drop(gen uint64, err error) {
	c.mu.Lock()
	if c.gen != gen || c.state != channelOpen {
		c.mu.Unlock()
		return
	}
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = channelIdle
	h := c.handler
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}
	h.HandleDisconnected(err)
}

func (c *WSChannel) readLoop(ctx context.Context, gen uint64, conn *internal.Conn) {
	for {
		var out Outbound
		if err := conn.Read(ctx, &out); err != nil {
			if isExpectedDisconnect(ctx, err) {
				return
			}
			c.logger.Warn("read loop exit", map[string]any{"error": err.Error()})
			c.drop(gen, WrapError(ErrorChannel, "connection lost", err))
			return
		}
		c.currentHandler().HandleMessage(out)
	}
}

func (c *WSChannel) writeLoop(ctx context.Context, gen uint64, conn *internal.Conn) {
	for {
		select {
		case in := <-c.writeCh:
			if ctx.Err() != nil {
				// Superseded connection: hand the event to the next writer.
				select {
				case c.writeCh <- in:
				default:
				}
				return
			}
			if err := conn.Write(ctx, in); err != nil {
				if isExpectedDisconnect(ctx, err) {
					return
				}
				c.logger.Warn("write loop exit", map[string]any{"error": err.Error()})
				c.drop(gen, WrapError(ErrorChannel, "write failed", err))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// isExpectedDisconnect reports errors caused by our own Disconnect.
// A close initiated by the server still counts as a drop.
func isExpectedDisconnect(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled)
}

type noopHandler struct{}

func (noopHandler) HandleConnected()          {}
func (noopHandler) HandleDisconnected(error)  {}
func (noopHandler) HandleConnectFailed(error) {}
func (noopHandler) HandleMessage(Outbound)    {}
