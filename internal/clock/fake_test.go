package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_AfterFunc(t *testing.T) {
	c := NewFake()
	fired := 0
	c.AfterFunc(time.Second, func() { fired++ })

	c.Advance(999 * time.Millisecond)
	assert.Equal(t, 0, fired)
	assert.Equal(t, []time.Duration{time.Second}, c.Pending())

	c.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.Empty(t, c.Pending())

	c.Advance(time.Hour)
	assert.Equal(t, 1, fired)
}

func TestFake_EveryFunc(t *testing.T) {
	c := NewFake()
	fired := 0
	timer := c.EveryFunc(30*time.Second, func() { fired++ })

	c.Advance(95 * time.Second)
	assert.Equal(t, 3, fired)
	assert.Equal(t, 1, c.Repeating())

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(time.Minute)
	assert.Equal(t, 3, fired)
	assert.Equal(t, 0, c.Repeating())
}

func TestFake_StopBeforeFire(t *testing.T) {
	c := NewFake()
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	c.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestFake_CallbackArmsTimer(t *testing.T) {
	c := NewFake()
	var order []time.Duration
	c.AfterFunc(time.Second, func() {
		order = append(order, c.Elapsed())
		c.AfterFunc(2*time.Second, func() {
			order = append(order, c.Elapsed())
		})
	})

	c.Advance(5 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 3 * time.Second}, order)
	assert.Equal(t, 5*time.Second, c.Elapsed())
}

func TestReal_EveryFunc(t *testing.T) {
	fired := make(chan struct{}, 10)
	timer := Real{}.EveryFunc(10*time.Millisecond, func() { fired <- struct{}{} })
	defer timer.Stop()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("repeating timer never fired")
	}
}
