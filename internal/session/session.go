// Package session drives one player's game: it sends mark and clear actions
// over the REST API, keeps the realtime connection open and reflects both
// onto the board.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rickgao/bingo-client/internal/board"
	"github.com/rickgao/bingo-client/internal/connection"
	"github.com/rickgao/bingo-client/internal/model"
)

var (
	ErrGameInactive    = errors.New("game is not active")
	ErrInvalidPosition = errors.New("position out of range")
)

// GameAPI is the subset of the REST client a session needs.
type GameAPI interface {
	PrimeCSRF(ctx context.Context, playerID string) error
	Mark(ctx context.Context, playerID string, position int) (*model.MarkResult, error)
	Clear(ctx context.Context, playerID string) (*model.ClearResult, error)
}

// GameChannel is the subset of a GameConnection a session needs.
type GameChannel interface {
	Open(ctx context.Context) error
	Close() error
	RequestGameState() error
	State() connection.State
	GameActive() bool
	SetGameActive(active bool)
	Attempt() int
}

// Session is one player's game.
type Session struct {
	playerID string
	api      GameAPI
	conn     GameChannel
	board    *board.Board
	logger   *slog.Logger
}

// New creates a session. The board is expected to be the connection's
// handler so pushed snapshots land on it.
func New(playerID string, api GameAPI, conn GameChannel, b *board.Board, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		playerID: playerID,
		api:      api,
		conn:     conn,
		board:    b,
		logger:   logger.With("player", playerID),
	}
}

// Board returns the session's board.
func (s *Session) Board() *board.Board {
	return s.board
}

// Run primes the CSRF cookie, opens the realtime connection and keeps it
// open until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	if err := s.api.PrimeCSRF(ctx, s.playerID); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Actions will be rejected, but the live view still works.
		s.logger.Warn("failed to load csrf token", "error", err)
		s.board.ShowError("Could not load the board. Actions may fail.")
	}

	if err := s.conn.Open(ctx); err != nil {
		return fmt.Errorf("open game connection: %w", err)
	}
	s.logger.Info("session started")

	<-ctx.Done()

	if err := s.conn.Close(); err != nil {
		s.logger.Debug("close game connection", "error", err)
	}
	s.logger.Info("session stopped")
	return nil
}

// Mark toggles the cell at position. It does nothing while the game is not
// active. A win ends the game locally.
func (s *Session) Mark(ctx context.Context, position int) (*model.MarkResult, error) {
	if !s.conn.GameActive() {
		s.logger.Debug("mark ignored, game not active", "position", position)
		return nil, ErrGameInactive
	}

	size := s.board.Size()
	if position < 0 || position >= size*size {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}

	result, err := s.api.Mark(ctx, s.playerID, position)
	if err != nil {
		s.logger.Error("error marking position", "position", position, "error", err)
		s.board.ShowError("Error marking position.")
		return nil, err
	}

	if result.Status == model.MarkStatusWin {
		s.conn.SetGameActive(false)
		s.logger.Info("game won", "winner", result.Winner)
	}
	s.board.ApplyMark(position, *result)
	return result, nil
}

// Clear resets the board and starts a new game locally.
func (s *Session) Clear(ctx context.Context) (*model.ClearResult, error) {
	result, err := s.api.Clear(ctx, s.playerID)
	if err != nil {
		s.logger.Error("error clearing board", "error", err)
		s.board.ShowError("Error clearing board.")
		return nil, err
	}

	s.board.ApplyClear(*result)
	s.conn.SetGameActive(true)
	s.logger.Info("board cleared", "items", len(result.BoardItems))
	return result, nil
}

// Refresh asks the server for a fresh game state.
func (s *Session) Refresh() error {
	return s.conn.RequestGameState()
}

// Status is a point-in-time summary of the session for debugging.
type Status struct {
	PlayerID   string
	GameActive bool
	State      connection.State
	Attempt    int
	Covered    []int
	Winner     string
	Error      string
}

// Status returns the current session summary.
func (s *Session) Status() Status {
	return Status{
		PlayerID:   s.playerID,
		GameActive: s.conn.GameActive(),
		State:      s.conn.State(),
		Attempt:    s.conn.Attempt(),
		Covered:    s.board.Covered(),
		Winner:     s.board.Winner(),
		Error:      s.board.ErrorBanner(),
	}
}

func (st Status) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "player=%s active=%t state=%s attempt=%d covered=%v",
		st.PlayerID, st.GameActive, st.State, st.Attempt, st.Covered)
	if st.Winner != "" {
		fmt.Fprintf(&sb, " winner=%q", st.Winner)
	}
	if st.Error != "" {
		fmt.Fprintf(&sb, " error=%q", st.Error)
	}
	return sb.String()
}
