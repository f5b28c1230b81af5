package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rickgao/bingo-client/internal/clock"
	"github.com/rickgao/bingo-client/internal/model"
)

// GameConnection keeps one player's realtime channel to the game server
// alive. It is a small state machine:
//
//	Connecting -> Open -> Closed -> Connecting (reconnect fires)
//	                            \-> terminal (attempts exhausted, code 4004/4005,
//	                                          game no longer active, or Close)
//
// All transitions happen under mu. Every dial creates a new channel
// instance; events from an instance that is no longer current are dropped.
type GameConnection struct {
	cfg     Config
	handler Handler
	sched   clock.Scheduler
	factory ClientFactory
	logger  *slog.Logger

	mu         sync.Mutex
	ctx        context.Context
	state      State
	active     bool
	policy     ReconnectPolicy
	current    *channel
	heartbeat  clock.Timer
	reconnect  clock.Timer
	closed     bool
	terminal   bool
	fatalSent  bool
	lastWinner string
}

// channel is one dial of the game socket.
type channel struct {
	id     uuid.UUID
	client Client
	done   chan struct{}
	once   sync.Once
}

func (ch *channel) stop() {
	ch.once.Do(func() { close(ch.done) })
}

// Option configures a GameConnection.
type Option func(*GameConnection)

// WithScheduler sets the scheduler used for the heartbeat and reconnect timers.
func WithScheduler(s clock.Scheduler) Option {
	return func(g *GameConnection) {
		g.sched = s
	}
}

// WithClientFactory sets how channel clients are built.
func WithClientFactory(f ClientFactory) Option {
	return func(g *GameConnection) {
		g.factory = f
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *GameConnection) {
		g.logger = logger
	}
}

// NewGameConnection creates a GameConnection. Nothing is dialed until Open.
func NewGameConnection(cfg Config, handler Handler, opts ...Option) *GameConnection {
	if handler == nil {
		handler = nopHandler{}
	}

	g := &GameConnection{
		cfg:     cfg,
		handler: handler,
		sched:   clock.Real{},
		factory: NewClient,
		logger:  slog.Default(),
		ctx:     context.Background(),
		state:   StateClosed,
		active:  true,
		policy:  NewReconnectPolicy(cfg.MaxReconnectAttempts, cfg.ReconnectBaseDelay),
	}

	for _, opt := range opts {
		opt(g)
	}

	g.logger = g.logger.With("url", cfg.URL)

	return g
}

// Open starts connecting. The handshake completes asynchronously; ctx bounds
// the dial of this and every later reconnect.
func (g *GameConnection) Open(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrAlreadyClosed
	}
	if g.current != nil {
		return nil
	}

	g.ctx = ctx
	g.terminal = false
	g.openLocked()
	return nil
}

// Close tears the connection down for good: the reconnect timer is cancelled,
// the heartbeat stopped and the channel closed with a normal closure.
func (g *GameConnection) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.terminal = true
	g.state = StateClosed
	g.stopReconnectLocked()
	g.stopHeartbeatLocked()
	ch := g.current
	g.current = nil
	g.mu.Unlock()

	g.logger.Debug("game connection closed by client")

	if ch != nil {
		ch.stop()
		return ch.client.Close()
	}
	return nil
}

// RequestGameState asks the server for a fresh snapshot.
func (g *GameConnection) RequestGameState() error {
	g.mu.Lock()
	ch := g.current
	open := g.state == StateOpen
	g.mu.Unlock()

	if ch == nil || !open {
		return ErrNotConnected
	}
	return ch.client.Send(model.Encode(model.TypeRequestGameState))
}

// State returns the current lifecycle state.
func (g *GameConnection) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// GameActive reports whether the local game-active flag is set.
func (g *GameConnection) GameActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// SetGameActive overrides the game-active flag, e.g. after a REST call
// reports a win or the board is cleared. Re-activating forgets the last
// announced winner so a new win is announced again.
func (g *GameConnection) SetGameActive(active bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = active
	if active {
		g.lastWinner = ""
	}
}

// Attempt returns the number of consecutive reconnect attempts made.
func (g *GameConnection) Attempt() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.policy.Attempt
}

// Terminal reports whether the connection is closed and will not reconnect.
func (g *GameConnection) Terminal() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.terminal
}

// openLocked creates a new channel instance and dials it in the background.
func (g *GameConnection) openLocked() {
	id := uuid.New()
	ch := &channel{
		id:     id,
		client: g.factory(g.cfg.clientConfig(), g.logger.With("channel", id.String())),
		done:   make(chan struct{}),
	}
	g.current = ch
	g.state = StateConnecting

	g.logger.Debug("connecting", "channel", id, "attempt", g.policy.Attempt)

	go g.dial(g.ctx, ch)
}

func (g *GameConnection) dial(ctx context.Context, ch *channel) {
	if err := ch.client.Connect(ctx); err != nil {
		g.logger.Warn("websocket connect failed",
			"channel", ch.id,
			"error", err,
		)
		g.handleClose(ch, CloseAbnormal, err.Error())
		return
	}

	if !g.handleOpen(ch) {
		ch.client.Close()
		return
	}

	g.pump(ch)
}

// pump forwards one channel's events to the state machine until it ends.
func (g *GameConnection) pump(ch *channel) {
	for {
		select {
		case <-ch.done:
			return

		case err := <-ch.client.Errors():
			// Deliver what was read before the close, in order.
			g.drain(ch)

			code, reason := CloseAbnormal, err.Error()
			var ce *CloseError
			if errors.As(err, &ce) {
				code, reason = ce.Code, ce.Reason
			}
			g.handleClose(ch, code, reason)
			return

		case msg, ok := <-ch.client.Messages():
			if !ok {
				return
			}
			g.handleMessage(ch, msg.Data)
		}
	}
}

func (g *GameConnection) drain(ch *channel) {
	for {
		select {
		case msg, ok := <-ch.client.Messages():
			if !ok {
				return
			}
			g.handleMessage(ch, msg.Data)
		default:
			return
		}
	}
}

// handleOpen moves to Open, resets the backoff, starts the heartbeat and
// requests a snapshot. It returns false if ch has been superseded.
func (g *GameConnection) handleOpen(ch *channel) bool {
	g.mu.Lock()
	if ch != g.current || g.closed {
		g.mu.Unlock()
		return false
	}
	g.state = StateOpen
	g.terminal = false
	g.fatalSent = false
	g.policy.Reset()
	g.stopHeartbeatLocked()
	g.heartbeat = g.sched.EveryFunc(g.cfg.PingInterval, func() {
		g.sendPing(ch)
	})
	g.mu.Unlock()

	g.logger.Info("websocket connected", "channel", ch.id)

	if err := ch.client.Send(model.Encode(model.TypeRequestGameState)); err != nil {
		g.logger.Warn("failed to request game state", "error", err)
	}
	return true
}

func (g *GameConnection) sendPing(ch *channel) {
	g.mu.Lock()
	if ch != g.current || g.state != StateOpen {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	if err := ch.client.Send(model.Encode(model.TypePing)); err != nil {
		g.logger.Debug("failed to send ping", "error", err)
	}
}

// handleMessage dispatches one inbound message on its type.
func (g *GameConnection) handleMessage(ch *channel, raw []byte) {
	env, err := model.DecodeEnvelope(raw)
	if err != nil {
		g.logger.Warn("ignoring malformed message", "error", err)
		return
	}

	var (
		snap      *model.GameStateSnapshot
		announce  string
		hasWinner bool
	)

	g.mu.Lock()
	if ch != g.current {
		g.mu.Unlock()
		return
	}

	switch env.Type {
	case model.TypeWinner:
		g.active = false
		announce, hasWinner = g.announceLocked(env.Winner)

	case model.TypeGameState:
		s, err := model.DecodeSnapshot(env, raw)
		if err != nil {
			g.mu.Unlock()
			g.logger.Warn("ignoring malformed game state", "error", err)
			return
		}
		snap = &s
		g.active = s.IsActive
		if s.IsActive && s.Winner == nil {
			// A new round has started; the next win is announced again.
			g.lastWinner = ""
		}
		if s.Winner != nil {
			g.active = false
			announce, hasWinner = g.announceLocked(*s.Winner)
		}

	case model.TypeError:
		g.logger.Warn("server error", "message", env.Message)

	case model.TypePong:

	default:
		g.logger.Debug("ignoring unknown message type", "type", env.Type)
	}
	g.mu.Unlock()

	if snap != nil {
		g.handler.OnGameState(*snap)
	}
	if hasWinner {
		g.handler.OnWinner(announce)
	}
}

// announceLocked reports whether name should be surfaced. A winner is
// announced once until the game is re-activated.
func (g *GameConnection) announceLocked(name string) (string, bool) {
	if name == g.lastWinner {
		return "", false
	}
	g.lastWinner = name
	return name, true
}

// handleClose stops the heartbeat and either absorbs the close or schedules
// a reconnect.
func (g *GameConnection) handleClose(ch *channel, code int, reason string) {
	g.mu.Lock()
	if ch != g.current {
		g.mu.Unlock()
		return
	}
	g.stopHeartbeatLocked()
	g.state = StateClosed
	g.current = nil
	ch.stop()

	g.logger.Info("websocket closed", "code", code, "reason", reason)

	if g.closed {
		g.mu.Unlock()
		return
	}

	if IsTerminalCode(code) || !g.active {
		g.terminal = true
		active := g.active
		g.mu.Unlock()
		g.logger.Info("not reconnecting, game ended or invalid session",
			"code", code,
			"game_active", active,
		)
		return
	}

	fatal := g.scheduleReconnectLocked()
	g.mu.Unlock()

	if fatal {
		g.handler.OnFatal(ErrConnectionLost)
	}
}

// scheduleReconnectLocked arms the reconnect timer. It returns true when the
// attempt budget is spent and the fatal notice has not been sent yet.
func (g *GameConnection) scheduleReconnectLocked() bool {
	if g.policy.Exhausted() {
		g.terminal = true
		g.logger.Warn("max reconnection attempts reached",
			"attempts", g.policy.Attempt,
		)
		if g.fatalSent {
			return false
		}
		g.fatalSent = true
		return true
	}

	if err := g.ctx.Err(); err != nil {
		g.terminal = true
		g.logger.Debug("not reconnecting, context done", "error", err)
		return false
	}

	delay := g.policy.NextDelay()
	g.logger.Info("attempting to reconnect",
		"delay", delay,
		"attempt", g.policy.Attempt+1,
		"max_attempts", g.policy.MaxAttempts,
	)

	g.stopReconnectLocked()
	g.reconnect = g.sched.AfterFunc(delay, g.fireReconnect)
	return false
}

func (g *GameConnection) fireReconnect() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.reconnect = nil
	if g.closed || g.current != nil {
		return
	}
	g.policy.Attempt++
	g.openLocked()
}

func (g *GameConnection) stopHeartbeatLocked() {
	if g.heartbeat != nil {
		g.heartbeat.Stop()
		g.heartbeat = nil
	}
}

func (g *GameConnection) stopReconnectLocked() {
	if g.reconnect != nil {
		g.reconnect.Stop()
		g.reconnect = nil
	}
}

type nopHandler struct{}

func (nopHandler) OnGameState(model.GameStateSnapshot) {}
func (nopHandler) OnWinner(string)                     {}
func (nopHandler) OnFatal(error)                       {}
