package feed

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/bingo-client/internal/connection"
	"github.com/rickgao/bingo-client/internal/model"
)

var _ connection.Handler = (*Recorder)(nil)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue[int](2)

	for i := 0; i < 5; i++ {
		require.True(t, q.Push(i))
	}
	assert.Equal(t, 5, q.Len())

	for i := 0; i < 5; i++ {
		v, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	_, ok := q.TryPop()
	assert.False(t, ok)

	stats := q.Stats()
	assert.Equal(t, int64(5), stats.Pushed)
	assert.Equal(t, int64(5), stats.Popped)
	assert.Equal(t, 8, stats.Capacity)
	assert.Equal(t, 2, stats.Resizes)
}

func TestQueue_GrowWhileWrapped(t *testing.T) {
	q := NewQueue[int](4)

	for i := 0; i < 3; i++ {
		q.Push(i)
	}
	q.TryPop()
	q.TryPop()
	for i := 3; i < 8; i++ {
		q.Push(i)
	}

	var got []int
	for {
		v, ok := q.TryPop()
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7}, got)
}

func TestQueue_CloseDrains(t *testing.T) {
	q := NewQueue[string](1)
	q.Push("a")
	q.Close()

	assert.False(t, q.Push("b"))

	v, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewQueue[int](1)

	var wg sync.WaitGroup
	var got int
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, _ = q.Pop()
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(42)
	wg.Wait()
	assert.Equal(t, 42, got)
}

func TestRecorder(t *testing.T) {
	q := NewQueue[Event](4)
	r := NewRecorder(q)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return at }

	r.OnGameState(model.GameStateSnapshot{IsActive: true, CoveredPositions: []int{12}})
	r.OnWinner("Alice")
	r.OnFatal(errors.New("lost"))
	r.OnWinner("ignored after fatal")

	ev, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, KindGameState, ev.Kind)
	assert.Equal(t, at, ev.At)
	assert.Equal(t, []int{12}, ev.Snapshot.CoveredPositions)

	ev, _ = q.Pop()
	assert.Equal(t, KindWinner, ev.Kind)
	assert.Equal(t, "Alice", ev.Winner)

	ev, _ = q.Pop()
	assert.Equal(t, KindFatal, ev.Kind)
	assert.EqualError(t, ev.Err, "lost")

	_, ok = q.Pop()
	assert.False(t, ok)
	assert.Equal(t, "fatal", KindFatal.String())
}
