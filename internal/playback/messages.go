package playback

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavescrub/internal/config"
	"github.com/olivier-w/wavescrub/internal/waveform"
)

type decodedMsg struct {
	owner   *Controller
	gen     uint64
	samples waveform.Samples
	err     error
}

type preparedMsg struct {
	owner *Controller
	gen   uint64
	err   error
}

type pollMsg struct {
	owner *Controller
	seq   uint64
}

type completedMsg struct {
	owner *Controller
	gen   uint64
	done  <-chan struct{}
}

func pollCmd(c *Controller, seq uint64) tea.Cmd {
	return tea.Tick(config.RefreshInterval, func(time.Time) tea.Msg {
		return pollMsg{owner: c, seq: seq}
	})
}
