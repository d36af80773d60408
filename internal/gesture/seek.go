// Package gesture classifies pointer input over the waveform as a tap, a
// drag, or a seek.
package gesture

import (
	"time"

	"github.com/olivier-w/wavescrub/internal/config"
)

// State is the gesture state machine position.
type State int

const (
	Idle State = iota
	PossibleTap
	Dragging
	Seeking
)

func (s State) String() string {
	switch s {
	case PossibleTap:
		return "possible-tap"
	case Dragging:
		return "dragging"
	case Seeking:
		return "seeking"
	default:
		return "idle"
	}
}

// Kind identifies an emitted signal.
type Kind int

const (
	Tap Kind = iota
	SeekStarted
	SeekPreview
	SeekCommitted
)

// Signal is an event produced by the controller. Position is set for
// SeekPreview and SeekCommitted.
type Signal struct {
	Kind     Kind
	Position time.Duration
}

// Controller is the pointer state machine. It is only used from the update
// loop and needs no locking.
type Controller struct {
	state    State
	moves    int
	downAt   time.Time
	started  bool
	duration time.Duration
	width    float64
}

// New returns an idle controller.
func New() *Controller {
	return &Controller{}
}

// SetBounds sets the stream duration and view width used to map x to a
// position.
func (c *Controller) SetBounds(duration time.Duration, width float64) {
	c.duration = duration
	c.width = width
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool { return c.state != Idle }

// Down starts a new gesture.
func (c *Controller) Down(x float64, at time.Time) []Signal {
	c.state = PossibleTap
	c.moves = 0
	c.started = false
	c.downAt = at
	return nil
}

// Move counts pointer motion. Past MoveThreshold moves the gesture becomes a
// seek and every move emits a preview position.
func (c *Controller) Move(x float64, at time.Time) []Signal {
	if c.state == Idle {
		return nil
	}
	c.moves++
	if c.moves <= config.MoveThreshold {
		c.state = Dragging
		return nil
	}

	var out []Signal
	c.state = Seeking
	if !c.started {
		c.started = true
		out = append(out, Signal{Kind: SeekStarted})
	}
	return append(out, Signal{Kind: SeekPreview, Position: c.positionAt(x)})
}

// Up ends the gesture. A seek commits its final position; anything else is a
// tap if it was released within TapTimeout.
func (c *Controller) Up(x float64, at time.Time) []Signal {
	prev := c.state
	c.state = Idle
	c.moves = 0
	c.started = false

	switch {
	case prev == Seeking:
		return []Signal{{Kind: SeekCommitted, Position: c.positionAt(x)}}
	case prev == Idle:
		return nil
	case at.Sub(c.downAt) <= config.TapTimeout:
		return []Signal{{Kind: Tap}}
	}
	return nil
}

// Cancel drops the gesture without emitting anything.
func (c *Controller) Cancel() {
	c.state = Idle
	c.moves = 0
	c.started = false
}

// positionAt maps x to duration*x/width. Clamping is left to the caller.
func (c *Controller) positionAt(x float64) time.Duration {
	if c.width <= 0 {
		return 0
	}
	return time.Duration(float64(c.duration) * x / c.width)
}
