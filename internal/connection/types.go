package connection

import (
	"errors"
	"fmt"
	"time"

	"github.com/rickgao/bingo-client/internal/model"
)

// Errors
var (
	ErrNotConnected   = errors.New("not connected")
	ErrAlreadyClosed  = errors.New("already closed")
	ErrConnectionLost = errors.New("connection lost, please refresh")
)

// Close codes used by the game server.
const (
	CloseNormal         = 1000
	CloseAbnormal       = 1006 // No close frame received, or dial failure
	CloseServerError    = 4000
	ClosePlayerNotFound = 4004
	CloseGameConcluded  = 4005
)

// IsTerminalCode reports whether a close code forbids reconnection.
func IsTerminalCode(code int) bool {
	return code == ClosePlayerNotFound || code == CloseGameConcluded
}

// CloseError describes why a channel closed.
type CloseError struct {
	Code   int
	Reason string
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("websocket closed %d: %s", e.Code, e.Reason)
}

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// State is the lifecycle state of a GameConnection.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Handler receives the events a GameConnection surfaces to the UI layer.
// Callbacks are invoked without the connection's lock held, so they may call
// back into the connection.
type Handler interface {
	// OnGameState is called with every snapshot received.
	OnGameState(snap model.GameStateSnapshot)

	// OnWinner is called once per winner announcement.
	OnWinner(name string)

	// OnFatal is called once when reconnection gives up.
	OnFatal(err error)
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL              string        // WebSocket URL (e.g., wss://bingo.example.com/ws/game/42/)
	Origin           string        // Origin header sent with the handshake (optional)
	HandshakeTimeout time.Duration // Max time for the opening handshake
	WriteTimeout     time.Duration // Write deadline for sends
	BufferSize       int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		BufferSize:       256,
	}
}

// Config configures a GameConnection.
type Config struct {
	URL                  string        // Game channel URL
	Origin               string        // Origin header for the handshake
	MaxReconnectAttempts int           // Reconnect attempts before giving up
	ReconnectBaseDelay   time.Duration // Delay of the first reconnect; doubles per attempt
	PingInterval         time.Duration // Heartbeat period while open
	HandshakeTimeout     time.Duration
	WriteTimeout         time.Duration
	BufferSize           int
}

// DefaultConfig returns the defaults used by the browser client.
func DefaultConfig() Config {
	return Config{
		MaxReconnectAttempts: 5,
		ReconnectBaseDelay:   1 * time.Second,
		PingInterval:         30 * time.Second,
		HandshakeTimeout:     10 * time.Second,
		WriteTimeout:         5 * time.Second,
		BufferSize:           256,
	}
}

func (c Config) clientConfig() ClientConfig {
	return ClientConfig{
		URL:              c.URL,
		Origin:           c.Origin,
		HandshakeTimeout: c.HandshakeTimeout,
		WriteTimeout:     c.WriteTimeout,
		BufferSize:       c.BufferSize,
	}
}
