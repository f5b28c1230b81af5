package feed

import (
	"time"

	"github.com/rickgao/bingo-client/internal/model"
)

// Kind identifies what an Event carries.
type Kind int

const (
	KindGameState Kind = iota
	KindWinner
	KindFatal
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindGameState:
		return "game_state"
	case KindWinner:
		return "winner"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Event is one callback from a game connection.
type Event struct {
	Kind     Kind
	At       time.Time
	Snapshot model.GameStateSnapshot // KindGameState
	Winner   string                  // KindWinner
	Err      error                   // KindFatal
}

// Recorder is a connection.Handler that queues every callback as an Event.
type Recorder struct {
	queue *Queue[Event]
	now   func() time.Time
}

// NewRecorder creates a recorder pushing into queue.
func NewRecorder(queue *Queue[Event]) *Recorder {
	return &Recorder{queue: queue, now: time.Now}
}

// OnGameState queues a game_state event.
func (r *Recorder) OnGameState(snap model.GameStateSnapshot) {
	r.queue.Push(Event{Kind: KindGameState, At: r.now(), Snapshot: snap})
}

// OnWinner queues a winner event.
func (r *Recorder) OnWinner(name string) {
	r.queue.Push(Event{Kind: KindWinner, At: r.now(), Winner: name})
}

// OnFatal queues the error and closes the queue; nothing follows a fatal
// error.
func (r *Recorder) OnFatal(err error) {
	r.queue.Push(Event{Kind: KindFatal, At: r.now(), Err: err})
	r.queue.Close()
}
