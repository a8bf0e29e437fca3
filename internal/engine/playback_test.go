package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlayback_StoppedClockIsFrozen(t *testing.T) {
	p := newPlayback(ts(0))
	p.advance(time.Now())
	p.advance(time.Now().Add(time.Second))
	assert.Equal(t, ts(0), p.sim)
	assert.Equal(t, StatusStopped, p.status)
}

func TestPlayback_AdvanceScalesBySpeed(t *testing.T) {
	p := newPlayback(ts(0))
	p.setSpeed(4)
	p.play()

	now := time.Now()
	p.advance(now)
	p.advance(now.Add(500 * time.Millisecond))

	assert.Equal(t, ts(0).Add(2*time.Second), p.sim)
}

func TestPlayback_MonotonicWhilePlaying(t *testing.T) {
	p := newPlayback(ts(0))
	p.play()
	now := time.Now()
	prev := p.sim
	for i := 0; i < 50; i++ {
		now = now.Add(33 * time.Millisecond)
		p.advance(now)
		assert.False(t, p.sim.Before(prev), "sim time went backward")
		prev = p.sim
	}
}

func TestPlayback_PauseResumeKeepsPosition(t *testing.T) {
	p := newPlayback(ts(0))
	p.play()
	now := time.Now()
	p.advance(now)
	p.advance(now.Add(5 * time.Second))
	assert.Equal(t, ts(5), p.sim)

	p.pause()
	// Frames keep arriving while paused; the clock must not move.
	p.advance(now.Add(9 * time.Second))
	assert.Equal(t, ts(5), p.sim)

	// Resuming after a long gap must not jump the clock either.
	p.play()
	p.advance(now.Add(60 * time.Second))
	assert.Equal(t, ts(5), p.sim, "first frame after resume re-bases the real clock")
	p.advance(now.Add(61 * time.Second))
	assert.Equal(t, ts(6), p.sim)
}

func TestPlayback_Transitions(t *testing.T) {
	p := newPlayback(ts(0))
	assert.True(t, p.play())
	assert.False(t, p.play(), "play while playing is not a transition")
	assert.True(t, p.pause())
	assert.False(t, p.pause())
	assert.True(t, p.play())
	assert.True(t, p.reset(ts(0)))
	assert.Equal(t, StatusStopped, p.status)
	assert.False(t, p.reset(ts(0)), "reset while stopped is not a transition")
}

func TestPlayback_SetSpeedRejectsNonPositive(t *testing.T) {
	p := newPlayback(ts(0))
	p.setSpeed(0)
	assert.Equal(t, 1.0, p.speed)
	p.setSpeed(-3)
	assert.Equal(t, 1.0, p.speed)
	p.setSpeed(2.5)
	assert.Equal(t, 2.5, p.speed)
}
