package engine

import "time"

// Status is the playback state machine's current state.
type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "stopped"
	}
}

// playback drives the simulated clock. SimTime advances only while
// Playing, by realDelta x speed per frame, and never decreases between
// frames.
type playback struct {
	status   Status
	speed    float64
	sim      time.Time
	last     time.Time
	hasFrame bool
}

func newPlayback(start time.Time) playback {
	return playback{status: StatusStopped, speed: 1, sim: start}
}

// advance consumes one frame timestamp and returns the simulated time
// delta for this frame (zero unless Playing).
func (p *playback) advance(now time.Time) time.Duration {
	if !p.hasFrame {
		p.last = now
		p.hasFrame = true
		return 0
	}
	real := now.Sub(p.last)
	p.last = now
	if p.status != StatusPlaying || real <= 0 {
		return 0
	}
	simDelta := time.Duration(float64(real) * p.speed)
	p.sim = p.sim.Add(simDelta)
	return simDelta
}

// play transitions Stopped→Playing or Paused→Playing. Returns true if
// the status changed.
func (p *playback) play() bool {
	if p.status == StatusPlaying {
		return false
	}
	p.status = StatusPlaying
	// Drop any stale frame timestamp so a long pause does not turn
	// into a giant simulated jump on resume.
	p.hasFrame = false
	return true
}

// pause freezes the simulated clock; the frame loop keeps running for
// interaction.
func (p *playback) pause() bool {
	if p.status != StatusPlaying {
		return false
	}
	p.status = StatusPaused
	return true
}

// reset returns to Stopped with the simulated clock at the timeline
// start.
func (p *playback) reset(start time.Time) bool {
	changed := p.status != StatusStopped
	p.status = StatusStopped
	p.sim = start
	p.hasFrame = false
	return changed
}

// setSpeed changes the multiplier without a state transition.
func (p *playback) setSpeed(multiplier float64) {
	if multiplier <= 0 {
		return
	}
	p.speed = multiplier
}
