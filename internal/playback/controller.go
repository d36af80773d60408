// Package playback drives a player from the waveform view: it loads the
// samples and the player, turns gestures into transport commands, polls the
// playback position and arbitrates audio focus.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavescrub/internal/config"
	"github.com/olivier-w/wavescrub/internal/focus"
	"github.com/olivier-w/wavescrub/internal/gesture"
	"github.com/olivier-w/wavescrub/internal/waveform"
	"github.com/olivier-w/wavescrub/internal/waveview"
)

var (
	// ErrDecode reports that the waveform samples could not be produced.
	ErrDecode = errors.New("decode failed")
	// ErrPlayerInit reports that the player could not be prepared.
	ErrPlayerInit = errors.New("player init failed")
)

// Transport is the audio player the controller drives.
type Transport interface {
	Prepare() error
	Start()
	Pause()
	SeekTo(pos time.Duration) error
	CurrentPosition() time.Duration
	IsPlaying() bool
	// Done is closed when playback reaches the end. A seek away from the
	// end may replace the channel.
	Done() <-chan struct{}
	Duration() time.Duration
	Release()
}

// Extractor produces the waveform samples of the loaded stream.
type Extractor interface {
	Extract(ctx context.Context) (waveform.Samples, error)
}

// State is the controller's lifecycle state.
type State int

const (
	Unloaded State = iota
	Loading
	Ready
	Playing
	Paused
	Stopped
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return "unloaded"
	}
}

// Controller owns a Transport and the view it plays into. Every method and
// Update must be called from the update loop.
type Controller struct {
	transport Transport
	extractor Extractor
	focus     focus.Requester
	listener  Listener
	opts      config.Options
	view      *waveview.View

	state      State
	focusState focus.State
	resume     bool
	atEnd      bool

	gen     uint64
	pollSeq uint64
	waiting bool

	ctx      context.Context
	cancel   context.CancelFunc
	disposed bool
}

// New returns an unloaded controller. A nil listener is replaced by
// NopListener.
func New(t Transport, ex Extractor, f focus.Requester, l Listener, opts config.Options) *Controller {
	if l == nil {
		l = NopListener{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		transport: t,
		extractor: ex,
		focus:     f,
		listener:  l,
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// FocusState returns the controller's audio focus.
func (c *Controller) FocusState() focus.State { return c.focusState }

// SetOptions replaces the options used for completion handling.
func (c *Controller) SetOptions(opts config.Options) { c.opts = opts }

// LoadInto decodes the stream's samples, binds them to v and prepares the
// player. Gestures on v are routed to the controller.
func (c *Controller) LoadInto(v *waveview.View) tea.Cmd {
	if c.disposed || v == nil {
		return nil
	}
	c.view = v
	v.SetInteractive(false)
	v.SetGestureHandler(gestures{c})
	c.gen++
	c.pollSeq++
	c.waiting = false
	c.atEnd = false
	c.state = Loading

	gen, ctx, ex := c.gen, c.ctx, c.extractor
	return func() tea.Msg {
		var samples waveform.Samples
		err := guard(func() error {
			var err error
			samples, err = ex.Extract(ctx)
			return err
		})
		return decodedMsg{owner: c, gen: gen, samples: samples, err: err}
	}
}

// Play starts playback. Focus is requested unless it is only suspended.
func (c *Controller) Play() tea.Cmd {
	if c.disposed || c.transport == nil {
		return nil
	}
	switch c.state {
	case Ready, Paused, Stopped:
	default:
		return nil
	}

	if c.focusState == focus.Suspended {
		c.focusState = focus.Granted
	} else if c.focus != nil {
		if c.focus.Request(focus.UsageMedia, focus.ContentMusic) {
			c.focusState = focus.Granted
		} else {
			log.Printf("playback: audio focus denied for client %s, playing anyway", c.focus.ID())
		}
	}

	if c.atEnd {
		c.seek(0)
		c.view.ForcePosition(0)
	}
	c.transport.Start()
	c.state = Playing
	c.listener.OnPlay()
	return tea.Batch(c.startPolling(), c.waitDone())
}

// Pause pauses playback and gives up audio focus.
func (c *Controller) Pause() {
	if c.disposed {
		return
	}
	c.pause()
	c.releaseFocus()
}

// pause stops the transport and the poll but leaves focus alone.
func (c *Controller) pause() {
	if c.state != Playing {
		return
	}
	c.transport.Pause()
	c.pollSeq++
	c.state = Paused
	c.listener.OnPause()
}

// Toggle pauses when playing and plays otherwise.
func (c *Controller) Toggle() tea.Cmd {
	if c.state == Playing {
		c.Pause()
		return nil
	}
	return c.Play()
}

// Stop releases focus and pauses the player. With snapToStart the player and
// the view go back to the beginning. Stopping again only snaps.
func (c *Controller) Stop(snapToStart bool) {
	if c.disposed || c.transport == nil {
		return
	}
	switch c.state {
	case Ready, Playing, Paused, Stopped:
	default:
		return
	}
	wasStopped := c.state == Stopped
	if wasStopped && !snapToStart {
		return
	}

	if !wasStopped {
		c.releaseFocus()
		c.transport.Pause()
		c.pollSeq++
		c.resume = false
	}
	if snapToStart {
		c.seek(0)
		c.view.ForcePosition(0)
	}
	c.state = Stopped
	if !wasStopped {
		c.listener.OnStop()
	}
}

// SeekBy moves playback by delta, as from a key press.
func (c *Controller) SeekBy(delta time.Duration) {
	if c.disposed || c.view == nil || c.view.GestureState() != gesture.Idle {
		return
	}
	switch c.state {
	case Ready, Playing, Paused, Stopped:
	default:
		return
	}
	target := min(max(c.view.Position()+delta, 0), c.view.Duration())
	c.seek(target)
	c.view.ForcePosition(target)
}

// Dispose cancels any pending load, releases focus and the player, and makes
// every later call and message a no-op. It is safe to call more than once.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.cancel()
	c.gen++
	c.pollSeq++
	c.releaseFocus()
	if c.transport != nil {
		c.transport.Release()
	}
	if c.view != nil {
		c.view.SetInteractive(false)
		c.view.SetGestureHandler(nil)
	}
	c.transport = nil
	c.extractor = nil
	c.focus = nil
	c.view = nil
	c.listener = NopListener{}
	c.state = Unloaded
	log.Printf("playback: disposed")
}

// Update applies load results, poll ticks, completion and focus changes.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if c.disposed {
		return nil
	}
	switch msg := msg.(type) {
	case decodedMsg:
		if msg.owner != c || msg.gen != c.gen {
			return nil
		}
		return c.handleDecoded(msg)

	case preparedMsg:
		if msg.owner != c || msg.gen != c.gen {
			return nil
		}
		if msg.err != nil {
			c.fail(fmt.Errorf("%w: %w", ErrPlayerInit, msg.err))
			return nil
		}
		c.state = Ready
		c.view.SetInteractive(true)
		c.listener.OnLoadingComplete()
		return nil

	case pollMsg:
		if msg.owner != c || msg.seq != c.pollSeq || c.state != Playing || !c.transport.IsPlaying() {
			return nil
		}
		c.view.SetReportedPosition(c.transport.CurrentPosition())
		return pollCmd(c, msg.seq)

	case completedMsg:
		if msg.owner != c || msg.gen != c.gen {
			return nil
		}
		c.waiting = false
		if msg.done != c.transport.Done() {
			// A seek re-armed completion after this one fired.
			if c.state == Playing {
				return c.waitDone()
			}
			return nil
		}
		c.complete()
		return nil

	case focus.ChangeMsg:
		if c.focus != nil {
			log.Printf("playback: focus %v for client %s", msg.Change, c.focus.ID())
		}
		return c.handleFocus(msg.Change)
	}
	return nil
}

func (c *Controller) handleDecoded(msg decodedMsg) tea.Cmd {
	if msg.err != nil {
		c.fail(fmt.Errorf("%w: %w", ErrDecode, msg.err))
		return nil
	}
	resample := c.view.SetSamples(msg.samples)

	gen, t := c.gen, c.transport
	prepare := func() tea.Msg {
		return preparedMsg{owner: c, gen: gen, err: guard(t.Prepare)}
	}
	return tea.Batch(resample, prepare)
}

func (c *Controller) complete() {
	c.pollSeq++
	c.view.ForcePosition(c.view.Duration())
	c.atEnd = true
	c.Stop(c.opts.SnapToStartAtCompletion)
}

func (c *Controller) handleFocus(ch focus.Change) tea.Cmd {
	switch ch {
	case focus.Gained:
		if c.focusState != focus.Suspended {
			return nil
		}
		if c.resume {
			c.resume = false
			return c.Play()
		}
		c.releaseFocus()
	case focus.LostTransient, focus.LostTransientCanDuck:
		if c.focusState == focus.Granted {
			c.focusState = focus.Suspended
			c.resume = c.state == Playing
			c.pause()
		}
	case focus.LostPermanent:
		c.Stop(false)
	}
	return nil
}

func (c *Controller) fail(err error) {
	log.Printf("playback: %v", err)
	c.pollSeq++
	c.state = Failed
	c.resume = false
	if c.view != nil {
		c.view.Clear()
	}
	c.releaseFocus()
	c.listener.OnError(err)
}

func (c *Controller) releaseFocus() {
	if c.focusState == focus.NotRequested {
		return
	}
	c.focusState = focus.NotRequested
	if c.focus != nil {
		c.focus.Abandon()
	}
}

func (c *Controller) seek(pos time.Duration) {
	c.atEnd = false
	if err := c.transport.SeekTo(pos); err != nil {
		log.Printf("playback: seek to %v: %v", pos, err)
	}
}

func (c *Controller) startPolling() tea.Cmd {
	c.pollSeq++
	return pollCmd(c, c.pollSeq)
}

// waitDone watches the transport for completion. At most one watcher runs.
func (c *Controller) waitDone() tea.Cmd {
	if c.waiting {
		return nil
	}
	c.waiting = true
	done, ctx, gen := c.transport.Done(), c.ctx, c.gen
	return func() tea.Msg {
		select {
		case <-done:
			return completedMsg{owner: c, gen: gen, done: done}
		case <-ctx.Done():
			return nil
		}
	}
}

// guard runs fn and turns a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
