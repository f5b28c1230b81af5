package board

import (
	"log/slog"
	"sync"

	"github.com/rickgao/bingo-client/internal/model"
)

// ConnectionLostMessage is shown when the game connection gives up.
const ConnectionLostMessage = "Connection lost. Please refresh the page."

// NoFreeSquare disables the free centre cell.
const NoFreeSquare = -1

// Cell is a single square of the board.
type Cell struct {
	Position int
	Text     string
	Covered  bool
	Free     bool
	Win      bool // part of a completed line
}

// Board is the player's view of the game.
type Board struct {
	mu     sync.RWMutex
	logger *slog.Logger

	size    int
	free    int
	cells   []Cell
	players []string
	events  []model.GameEvent
	winner  string
	errMsg  string
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		b.logger = logger
	}
}

// WithItems sets the initial cell texts in position order.
func WithItems(items []string) Option {
	return func(b *Board) {
		b.setItemsLocked(items)
	}
}

// New creates an empty size x size board. With freeSquare set the centre
// cell of an odd-sized board is free and always covered.
func New(size int, freeSquare bool, opts ...Option) *Board {
	b := &Board{
		logger: slog.Default(),
		size:   size,
		free:   FreeSquare(size, freeSquare),
		cells:  make([]Cell, size*size),
	}

	for i := range b.cells {
		b.cells[i].Position = i
	}
	if b.free != NoFreeSquare {
		b.cells[b.free].Free = true
		b.cells[b.free].Covered = true
	}

	for _, opt := range opts {
		opt(b)
	}
	b.refreshWinLocked()
	return b
}

// FreeSquare returns the free cell position for a board, or NoFreeSquare.
// Only odd-sized boards have a centre.
func FreeSquare(size int, enabled bool) int {
	if !enabled || size < 1 || size%2 == 0 {
		return NoFreeSquare
	}
	return size * size / 2
}

// Size returns the board's edge length.
func (b *Board) Size() int {
	return b.size
}

// -----------------------------------------------------------------------------
// connection.Handler
// -----------------------------------------------------------------------------

// OnGameState applies a pushed snapshot.
func (b *Board) OnGameState(snap model.GameStateSnapshot) {
	b.ApplySnapshot(snap)
}

// OnWinner shows the winner announcement.
func (b *Board) OnWinner(name string) {
	b.mu.Lock()
	b.winner = name
	b.mu.Unlock()
}

// OnFatal shows the connection lost banner.
func (b *Board) OnFatal(err error) {
	b.logger.Error("game connection lost", "error", err)
	b.ShowError(ConnectionLostMessage)
}

// -----------------------------------------------------------------------------
// Mutations
// -----------------------------------------------------------------------------

// ApplySnapshot covers every position in the snapshot's covered set and
// replaces the players and the activity feed. Cells are never uncovered by
// a snapshot.
func (b *Board) ApplySnapshot(snap model.GameStateSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range snap.CoveredPositions {
		if !b.validLocked(p) {
			b.logger.Warn("snapshot position out of range", "position", p, "size", b.size)
			continue
		}
		b.cells[p].Covered = true
	}

	if snap.ConnectedPlayers != nil {
		b.players = append([]string(nil), snap.ConnectedPlayers...)
	}
	if snap.RecentEvents != nil {
		b.events = append([]model.GameEvent(nil), snap.RecentEvents...)
	}
	if name := snap.WinnerName(); name != "" {
		b.winner = name
	}

	b.refreshWinLocked()
}

// ApplyMark applies the result of marking position.
func (b *Board) ApplyMark(position int, result model.MarkResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validLocked(position) {
		return
	}

	cell := &b.cells[position]
	switch result.Status {
	case model.MarkStatusMarked:
		cell.Covered = true
	case model.MarkStatusAlreadyMarked:
		if !cell.Free {
			cell.Covered = false
		}
	case model.MarkStatusWin:
		cell.Covered = true
		b.winner = result.Winner
	}

	b.refreshWinLocked()
}

// ApplyClear uncovers every non-free cell, deals the new cell texts and
// hides the winner announcement and error banner.
func (b *Board) ApplyClear(result model.ClearResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.cells {
		if !b.cells[i].Free {
			b.cells[i].Covered = false
		}
	}
	for _, p := range result.CoveredPositions {
		if b.validLocked(p) {
			b.cells[p].Covered = true
		}
	}
	if result.BoardItems != nil {
		b.setItemsLocked(result.BoardItems)
	}

	b.winner = ""
	b.errMsg = ""
	b.refreshWinLocked()
}

// ShowError fills the error banner.
func (b *Board) ShowError(msg string) {
	b.mu.Lock()
	b.errMsg = msg
	b.mu.Unlock()
}

// DismissError empties the error banner.
func (b *Board) DismissError() {
	b.ShowError("")
}

func (b *Board) validLocked(p int) bool {
	return p >= 0 && p < len(b.cells)
}

func (b *Board) setItemsLocked(items []string) {
	for i := range b.cells {
		if i < len(items) {
			b.cells[i].Text = items[i]
		} else {
			b.cells[i].Text = ""
		}
	}
}

func (b *Board) refreshWinLocked() {
	covered := make(map[int]bool, len(b.cells))
	for _, c := range b.cells {
		if c.Covered {
			covered[c.Position] = true
		}
		b.cells[c.Position].Win = false
	}

	for _, line := range WinningLines(b.size, covered) {
		for _, p := range line {
			b.cells[p].Win = true
		}
	}
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// Cells returns a copy of the cells in position order.
func (b *Board) Cells() []Cell {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Cell(nil), b.cells...)
}

// Covered returns the covered positions in ascending order.
func (b *Board) Covered() []int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []int
	for _, c := range b.cells {
		if c.Covered {
			out = append(out, c.Position)
		}
	}
	return out
}

// Players returns the connected players.
func (b *Board) Players() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.players...)
}

// Events returns the recent activity feed.
func (b *Board) Events() []model.GameEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]model.GameEvent(nil), b.events...)
}

// Winner returns the announced winner, or "" when the modal is hidden.
func (b *Board) Winner() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.winner
}

// ErrorBanner returns the error banner text.
func (b *Board) ErrorBanner() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.errMsg
}
