// Package position reconciles player-reported playback positions with
// positions chosen by the user.
package position

import "time"

// Mode selects how reported positions are merged.
type Mode int

const (
	// Smoothing ignores reports that lag behind a user seek and keeps the
	// cursor moving by the last observed step instead.
	Smoothing Mode = iota
	// Direct renders every report as-is.
	Direct
)

// Tracker holds the position the view renders. It is owned by the update
// loop.
type Tracker struct {
	mode       Mode
	duration   time.Duration
	tracked    time.Duration
	previous   time.Duration
	lastDelta  time.Duration
	suppressed bool
}

// New returns a tracker at position 0.
func New(mode Mode, duration time.Duration) *Tracker {
	return &Tracker{mode: mode, duration: duration}
}

// SetMode switches merge strategy. The smoothing history is discarded.
func (t *Tracker) SetMode(mode Mode) {
	t.mode = mode
	t.lastDelta = 0
}

// SetDuration sets the stream duration used for clamping and completion.
func (t *Tracker) SetDuration(d time.Duration) {
	t.duration = d
	t.tracked = t.clamp(t.tracked)
}

// Duration returns the stream duration.
func (t *Tracker) Duration() time.Duration { return t.duration }

// Suppress drops player reports while a gesture owns the position.
func (t *Tracker) Suppress(on bool) { t.suppressed = on }

// Suppressed reports whether Update is currently ignored.
func (t *Tracker) Suppressed() bool { return t.suppressed }

// Position returns the position to render.
func (t *Tracker) Position() time.Duration { return t.tracked }

// Update merges a position reported by the player and returns the position
// to render.
func (t *Tracker) Update(reported time.Duration) time.Duration {
	if t.suppressed {
		return t.tracked
	}
	if t.mode == Direct {
		t.previous = reported
		t.tracked = t.clamp(reported)
		return t.tracked
	}

	delta := reported - t.previous
	switch {
	case reported == 0 || (t.duration > 0 && reported == t.duration):
		t.lastDelta = 0
		t.tracked = reported
	case delta >= 0 && reported >= t.tracked:
		t.lastDelta = delta
		t.tracked = reported
	default:
		t.tracked += t.lastDelta
	}
	t.previous = reported
	t.tracked = t.clamp(t.tracked)
	return t.tracked
}

// UpdateFromUser moves the position to a seek target.
func (t *Tracker) UpdateFromUser(target time.Duration) {
	t.tracked = t.clamp(target)
}

// Reset forces the position, bypassing suppression, and clears the
// smoothing history.
func (t *Tracker) Reset(pos time.Duration) {
	pos = t.clamp(pos)
	t.tracked = pos
	t.previous = pos
	t.lastDelta = 0
}

func (t *Tracker) clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if t.duration > 0 && d > t.duration {
		return t.duration
	}
	return d
}
