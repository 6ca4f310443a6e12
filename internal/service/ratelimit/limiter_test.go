package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(burst, perSec float64, idle time.Duration) (*Limiter, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(burst, perSec, idle)
	l.now = c.now
	return l, c
}

func TestAllowBurstThenRefill(t *testing.T) {
	l, c := newTestLimiter(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("a"), "request %d", i)
	}
	assert.False(t, l.Allow("a"))
	// other keys have their own bucket
	assert.True(t, l.Allow("b"))

	c.advance(time.Second)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	// refill is capped at burst
	c.advance(time.Hour)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("a"))
	}
	assert.False(t, l.Allow("a"))
}

func TestSweepDropsIdleBuckets(t *testing.T) {
	l, c := newTestLimiter(2, 1, time.Minute)
	l.Allow("a")
	c.advance(45 * time.Second)
	l.Allow("b")
	c.advance(30 * time.Second)

	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Len())
}

func TestSweepDisabled(t *testing.T) {
	l, c := newTestLimiter(2, 1, 0)
	l.Allow("a")
	c.advance(time.Hour)
	assert.Zero(t, l.Sweep())
}

func TestRunWithoutIntervalWaitsForStop(t *testing.T) {
	l, _ := newTestLimiter(2, 1, time.Minute)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		l.Run(0, stop)
		close(done)
	}()

	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after stop")
	}
}
