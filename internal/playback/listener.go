package playback

import "time"

// Listener is told about playback lifecycle events. Calls happen on the
// update loop.
type Listener interface {
	OnTap()
	OnPlay()
	OnPause()
	OnSeekStarted()
	OnSeek(pos time.Duration)
	OnStop()
	OnLoadingComplete()
	OnError(err error)
}

// NopListener ignores every event. Embed it to implement only some of them.
type NopListener struct{}

func (NopListener) OnTap()                   {}
func (NopListener) OnPlay()                  {}
func (NopListener) OnPause()                 {}
func (NopListener) OnSeekStarted()           {}
func (NopListener) OnSeek(pos time.Duration) {}
func (NopListener) OnStop()                  {}
func (NopListener) OnLoadingComplete()       {}
func (NopListener) OnError(err error)        {}
