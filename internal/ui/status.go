package ui

import (
	"fmt"
	"time"

	"github.com/olivier-w/wavescrub/internal/playback"
	"github.com/olivier-w/wavescrub/internal/util"
)

// statusSink turns playback events into the status line.
type statusSink struct {
	playback.NopListener
	loaded bool
	note   string
	err    error
}

func (s *statusSink) OnLoadingComplete() {
	s.loaded = true
	s.err = nil
}

func (s *statusSink) OnSeek(pos time.Duration) {
	s.note = "seek " + util.FormatDuration(pos)
}

func (s *statusSink) OnPlay() { s.note = "" }

func (s *statusSink) OnStop() { s.note = "" }

func (s *statusSink) OnError(err error) {
	s.err = err
}

// takeLoaded reports a completed load once.
func (s *statusSink) takeLoaded() bool {
	loaded := s.loaded
	s.loaded = false
	return loaded
}

func (s *statusSink) errorText() string {
	if s.err == nil {
		return ""
	}
	return fmt.Sprintf("error: %v", s.err)
}
