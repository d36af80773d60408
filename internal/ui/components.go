package ui

import (
	"fmt"

	"github.com/olivier-w/wavescrub/internal/focus"
	"github.com/olivier-w/wavescrub/internal/playback"
)

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

func stateIcon(s playback.State) string {
	switch s {
	case playback.Playing:
		return "▶"
	case playback.Paused:
		return "❚❚"
	case playback.Failed:
		return "✗"
	default:
		return "■"
	}
}

func stateText(s playback.State, f focus.State) string {
	text := s.String()
	if f == focus.Suspended {
		text += " (interrupted)"
	}
	return text
}
