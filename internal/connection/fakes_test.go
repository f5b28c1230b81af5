package connection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/rickgao/bingo-client/internal/model"
)

var errDialRefused = errors.New("dial tcp: connection refused")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClient is an in-memory Client. Tests push inbound traffic with
// deliver and drop.
type fakeClient struct {
	connectErr error

	mu        sync.Mutex
	sent      []string
	connected bool
	closed    bool

	messages chan TimestampedMessage
	errors   chan error
}

func newFakeClient(connectErr error) *fakeClient {
	return &fakeClient{
		connectErr: connectErr,
		messages:   make(chan TimestampedMessage, 16),
		errors:     make(chan error, 1),
	}
}

func (c *fakeClient) Connect(ctx context.Context) error {
	if c.connectErr != nil {
		return c.connectErr
	}
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	return nil
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.connected = false
	return nil
}

func (c *fakeClient) ForceDisconnect() error {
	c.drop(CloseAbnormal)
	return nil
}

func (c *fakeClient) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ErrNotConnected
	}
	c.sent = append(c.sent, string(data))
	return nil
}

func (c *fakeClient) Messages() <-chan TimestampedMessage { return c.messages }
func (c *fakeClient) Errors() <-chan error                { return c.errors }

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) deliver(raw string) {
	c.messages <- TimestampedMessage{Data: []byte(raw)}
}

func (c *fakeClient) drop(code int) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	c.errors <- &CloseError{Code: code, Reason: "test"}
}

func (c *fakeClient) sentMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeDialer hands out fakeClients. failFirst makes that many connects fail.
type fakeDialer struct {
	failFirst int

	mu      sync.Mutex
	clients []*fakeClient
}

func (d *fakeDialer) factory(cfg ClientConfig, logger *slog.Logger) Client {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.failFirst < 0 || len(d.clients) < d.failFirst {
		err = errDialRefused
	}
	c := newFakeClient(err)
	d.clients = append(d.clients, c)
	return c
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.clients)
}

func (d *fakeDialer) client(i int) *fakeClient {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clients[i]
}

func (d *fakeDialer) last() *fakeClient {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clients[len(d.clients)-1]
}

// recordingHandler captures Handler callbacks.
type recordingHandler struct {
	mu      sync.Mutex
	states  []model.GameStateSnapshot
	winners []string
	fatals  []error
}

func (h *recordingHandler) OnGameState(snap model.GameStateSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = append(h.states, snap)
}

func (h *recordingHandler) OnWinner(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.winners = append(h.winners, name)
}

func (h *recordingHandler) OnFatal(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fatals = append(h.fatals, err)
}

func (h *recordingHandler) stateCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.states)
}

func (h *recordingHandler) winnerNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.winners...)
}

func (h *recordingHandler) fatalCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.fatals)
}
