package model

import (
	"encoding/json"
	"time"
)

// -----------------------------------------------------------------------------
// Game State
// -----------------------------------------------------------------------------

// GameStateSnapshot is the full game state pushed by the server. It replaces
// any previously held snapshot wholesale.
type GameStateSnapshot struct {
	IsActive         bool        `json:"is_active"`
	HasWon           bool        `json:"has_won"`
	CoveredPositions []int       `json:"covered_positions"`
	ConnectedPlayers []string    `json:"connected_players"`
	Winner           *string     `json:"winner"`
	RecentEvents     []GameEvent `json:"recent_events"`
}

// WinnerName returns the winner's name, or "" when nobody has won.
func (s GameStateSnapshot) WinnerName() string {
	if s.Winner == nil {
		return ""
	}
	return *s.Winner
}

// IsCovered reports whether position is among the covered positions.
func (s GameStateSnapshot) IsCovered(position int) bool {
	for _, p := range s.CoveredPositions {
		if p == position {
			return true
		}
	}
	return false
}

// GameEvent is a single entry of the game's activity feed.
type GameEvent struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// -----------------------------------------------------------------------------
// Realtime Messages
// -----------------------------------------------------------------------------

// Message types exchanged over the game channel.
const (
	TypeRequestGameState = "request_game_state"
	TypePing             = "ping"

	TypeWinner    = "winner"
	TypeGameState = "game_state"
	TypeError     = "error"
	TypePong      = "pong"
)

// Envelope is an inbound message. Type is the discriminator; the remaining
// fields are populated depending on it.
type Envelope struct {
	Type    string          `json:"type"`
	Winner  string          `json:"winner,omitempty"`  // "winner"
	Data    json.RawMessage `json:"data,omitempty"`    // "game_state"
	Message string          `json:"message,omitempty"` // "error"
}

// OutboundMessage is a message sent from the client to the server.
type OutboundMessage struct {
	Type string `json:"type"`
}

// -----------------------------------------------------------------------------
// REST Results
// -----------------------------------------------------------------------------

// MarkStatus is the outcome of marking a cell.
type MarkStatus string

const (
	MarkStatusMarked        MarkStatus = "marked"
	MarkStatusAlreadyMarked MarkStatus = "already_marked"
	MarkStatusWin           MarkStatus = "win"
)

// MarkRequest is the body of a mark call.
type MarkRequest struct {
	Position int `json:"position"`
}

// MarkResult is the response of a mark call.
type MarkResult struct {
	Status MarkStatus `json:"status"`
	Winner string     `json:"winner,omitempty"`
}

// ClearStatusCleared is the only successful clear status.
const ClearStatusCleared = "cleared"

// ClearResult is the response of a clear call. BoardItems holds the new cell
// texts in position order.
type ClearResult struct {
	Status           string   `json:"status"`
	CoveredPositions []int    `json:"covered_positions"`
	BoardItems       []string `json:"board_items"`
}
