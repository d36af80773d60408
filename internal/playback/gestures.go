package playback

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// gestures routes view gestures to the controller: a tap toggles playback,
// a seek pauses while the cursor is held and seeks on release.
type gestures struct {
	c *Controller
}

func (g gestures) OnTap() tea.Cmd {
	c := g.c
	if c.disposed {
		return nil
	}
	c.listener.OnTap()
	return c.Toggle()
}

func (g gestures) OnSeekStarted() tea.Cmd {
	c := g.c
	if c.disposed {
		return nil
	}
	c.listener.OnSeekStarted()
	c.resume = c.state == Playing
	c.Pause()
	return nil
}

func (g gestures) OnSeek(pos time.Duration) tea.Cmd {
	c := g.c
	if c.disposed || c.transport == nil {
		return nil
	}
	c.listener.OnSeek(pos)
	switch c.state {
	case Ready, Paused, Stopped:
	default:
		return nil
	}
	c.seek(pos)
	if c.resume {
		c.resume = false
		return c.Play()
	}
	return nil
}
