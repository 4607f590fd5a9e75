// Package wsconn provides a production-grade WebSocket client with
// automatic reconnection and exponential backoff.
package wsconn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// ErrClosed is returned when operating on a closed client.
var ErrClosed = errors.New("wsconn: client closed")

// ErrNotConnected is returned when sending without an open connection.
var ErrNotConnected = errors.New("wsconn: not connected")

// MessageHandler is invoked for every inbound message.
type MessageHandler func(ctx context.Context, msg []byte)

// StateChangeHandler is invoked on every state transition. err is non-nil
// when the transition was caused by a failure.
type StateChangeHandler func(state State, err error)

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	Name           string // for logs and error context
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	PingInterval   time.Duration
	PongTimeout    time.Duration
	MaxMessageSize int64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(rawURL, name string) Config {
	return Config{
		URL:            rawURL,
		Name:           name,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0, // infinite
		PingInterval:   30 * time.Second,
		PongTimeout:    10 * time.Second,
		MaxMessageSize: 1 << 20, // 1 MiB
	}
}

// Client is a WebSocket client that keeps itself connected.
type Client struct {
	config Config

	mu      sync.RWMutex
	conn    *websocket.Conn
	state   State
	onMsg   MessageHandler
	onState StateChangeHandler

	closeOnce sync.Once
	done      chan struct{}
	cancelBg  context.CancelFunc
}

// New creates a new WebSocket client. The connection is established by
// Connect, not here.
func New(config Config) (*Client, error) {
	u, err := url.Parse(config.URL)
	if err != nil {
		return nil, fmt.Errorf("wsconn: invalid url %q: %w", config.URL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("wsconn: unsupported scheme %q", u.Scheme)
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = 1 * time.Second
	}
	if config.MaxBackoff < config.InitialBackoff {
		config.MaxBackoff = config.InitialBackoff
	}

	return &Client{
		config: config,
		state:  StateDisconnected,
		done:   make(chan struct{}),
	}, nil
}

// OnMessage registers the inbound message handler. Must be called before
// Connect.
func (c *Client) OnMessage(h MessageHandler) {
	c.mu.Lock()
	c.onMsg = h
	c.mu.Unlock()
}

// OnStateChange registers the state transition handler. Must be called
// before Connect.
func (c *Client) OnStateChange(h StateChangeHandler) {
	c.mu.Lock()
	c.onState = h
	c.mu.Unlock()
}

// Connect establishes the WebSocket connection and starts the read and
// ping loops. On failure the client stays disconnected and no reconnect
// is attempted; reconnection only kicks in for connections lost after a
// successful Connect.
func (c *Client) Connect(ctx context.Context) error {
	if c.isClosed() {
		return ErrClosed
	}

	c.setState(StateConnecting, nil)

	conn, err := c.dial(ctx)
	if err != nil {
		c.setState(StateDisconnected, err)
		return fmt.Errorf("wsconn: connect %s: %w", c.config.Name, err)
	}

	bgCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.conn = conn
	c.cancelBg = cancel
	c.mu.Unlock()

	c.setState(StateConnected, nil)

	go c.readLoop(bgCtx, conn)
	if c.config.PingInterval > 0 {
		go c.pingLoop(bgCtx, conn)
	}

	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, c.config.URL, nil)
	if err != nil {
		return nil, err
	}
	if c.config.MaxMessageSize > 0 {
		conn.SetReadLimit(c.config.MaxMessageSize)
	}
	return conn, nil
}

// Send sends a raw text message.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	c.mu.RLock()
	conn := c.conn
	state := c.state
	c.mu.RUnlock()

	if state == StateClosed {
		return ErrClosed
	}
	if conn == nil || state != StateConnected {
		return ErrNotConnected
	}

	return conn.Write(ctx, websocket.MessageText, msg)
}

// SendJSON marshals v and sends it as a text message.
func (c *Client) SendJSON(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("wsconn: marshal: %w", err)
	}
	return c.Send(ctx, data)
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsConnected reports whether the connection is currently open.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Close gracefully closes the connection. Idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		conn := c.conn
		cancel := c.cancelBg
		c.conn = nil
		c.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if conn != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "client shutdown")
		}

		c.setState(StateClosed, nil)
	})
	return nil
}

// readLoop reads messages until the connection drops, then hands off to
// the reconnect loop.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if c.isClosed() || ctx.Err() != nil {
				return
			}
			c.reconnect(ctx, err)
			return
		}

		c.mu.RLock()
		handler := c.onMsg
		c.mu.RUnlock()

		if handler != nil {
			handler(ctx, data)
		}
	}
}

// pingLoop keeps the connection alive. A failed ping closes the
// connection, which surfaces in the read loop.
func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, c.config.PongTimeout)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				_ = conn.Close(websocket.StatusAbnormalClosure, "ping timeout")
				return
			}
		}
	}
}

// reconnect redials with exponential backoff until it succeeds, the
// retry budget runs out, or the client is closed.
func (c *Client) reconnect(ctx context.Context, cause error) {
	c.setState(StateReconnecting, cause)

	backoff := c.config.InitialBackoff
	attempts := 0

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		attempts++
		if c.config.MaxReconnects > 0 && attempts > c.config.MaxReconnects {
			c.setState(StateDisconnected, fmt.Errorf("wsconn: gave up after %d reconnect attempts: %w", attempts-1, cause))
			return
		}

		dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		conn, err := c.dial(dialCtx)
		cancel()
		if err != nil {
			backoff *= 2
			if backoff > c.config.MaxBackoff {
				backoff = c.config.MaxBackoff
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()

		c.setState(StateConnected, nil)

		go c.readLoop(ctx, conn)
		if c.config.PingInterval > 0 {
			go c.pingLoop(ctx, conn)
		}
		return
	}
}

func (c *Client) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Client) setState(state State, err error) {
	c.mu.Lock()
	if c.state == StateClosed && state != StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = state
	handler := c.onState
	c.mu.Unlock()

	if handler != nil {
		handler(state, err)
	}
}
