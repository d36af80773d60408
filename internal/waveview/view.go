// Package waveview is the waveform component: it owns the render model, the
// gesture state machine and the position tracker, and draws them into the
// terminal.
package waveview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/wavescrub/internal/config"
	"github.com/olivier-w/wavescrub/internal/gesture"
	"github.com/olivier-w/wavescrub/internal/position"
	"github.com/olivier-w/wavescrub/internal/util"
	"github.com/olivier-w/wavescrub/internal/waveform"
)

// GestureHandler receives the gestures recognised over the waveform.
type GestureHandler interface {
	OnTap() tea.Cmd
	OnSeekStarted() tea.Cmd
	OnSeek(pos time.Duration) tea.Cmd
}

// View is a waveform with a playback cursor. All methods must be called from
// the update loop.
type View struct {
	opts     config.Options
	model    *waveform.RenderModel
	gesture  *gesture.Controller
	tracker  *position.Tracker
	renderer Renderer
	handler  GestureHandler
	palette  [paintCount]lipgloss.Style

	samples     waveform.Samples
	loaded      bool
	interactive bool
	seq         uint64

	width, height    int
	originX, originY int

	anim      *barAnimator
	animating bool
	animSeq   uint64

	now func() time.Time
}

// New returns an empty view configured with opts.
func New(opts config.Options) *View {
	v := &View{
		model:   waveform.NewRenderModel(opts.BlockWidth, opts.TopBlockScale, opts.BottomBlockScale),
		gesture: gesture.New(),
		tracker: position.New(position.Smoothing, 0),
		anim:    newBarAnimator(),
		now:     time.Now,
	}
	v.apply(opts)
	return v
}

// Configure replaces the options and recomputes every piece of derived draw
// state together.
func (v *View) Configure(opts config.Options) tea.Cmd {
	v.apply(opts)
	return v.resample()
}

func (v *View) apply(opts config.Options) {
	v.opts = opts
	v.model.SetBlock(opts.BlockWidth, opts.TopBlockScale, opts.BottomBlockScale)
	v.renderer = rendererFor(opts.Variant)
	if opts.Variant == config.VariantFixed {
		v.tracker.SetMode(position.Direct)
	} else {
		v.tracker.SetMode(position.Smoothing)
	}
	v.palette = [paintCount]lipgloss.Style{
		PaintNone:     lipgloss.NewStyle(),
		PaintPlayed:   lipgloss.NewStyle().Foreground(opts.BlockColorPlayed),
		PaintUnplayed: lipgloss.NewStyle().Foreground(opts.BlockColor),
		PaintText:     lipgloss.NewStyle().Foreground(opts.TextColor).Background(opts.TextBgColor),
	}
	if !opts.AnimateBars {
		v.animating = false
		v.animSeq++
	}
}

// Options returns the current options.
func (v *View) Options() config.Options { return v.opts }

// SetGestureHandler sets who is told about taps and seeks.
func (v *View) SetGestureHandler(h GestureHandler) { v.handler = h }

// SetOrigin sets where the view's top-left cell sits on screen, for mouse
// hit testing.
func (v *View) SetOrigin(x, y int) {
	v.originX, v.originY = x, y
}

// SetSize resizes the view and recomputes the buckets for the new width.
func (v *View) SetSize(width, height int) tea.Cmd {
	if width == v.width && height == v.height {
		return nil
	}
	widthChanged := width != v.width
	v.width, v.height = width, height
	v.gesture.SetBounds(v.samples.Duration, float64(width))
	if !widthChanged {
		return nil
	}
	return v.resample()
}

// Size returns the view size in cells.
func (v *View) Size() (int, int) { return v.width, v.height }

// SetSamples replaces the waveform. Buckets derived from the previous
// samples are dropped immediately; the new ones arrive via the returned
// command. The view ignores the mouse until SetInteractive(true).
func (v *View) SetSamples(s waveform.Samples) tea.Cmd {
	v.samples = s
	v.loaded = true
	v.interactive = false
	v.model.SetBuckets(nil)
	v.anim.reset()
	v.tracker.SetDuration(s.Duration)
	v.tracker.Reset(0)
	v.gesture.Cancel()
	v.tracker.Suppress(false)
	v.gesture.SetBounds(s.Duration, float64(v.width))
	v.syncProgress()
	return v.resample()
}

// Clear removes the waveform and cursor, as after a failed load.
func (v *View) Clear() {
	v.samples = waveform.Samples{}
	v.loaded = false
	v.interactive = false
	v.seq++
	v.model.SetBuckets(nil)
	v.anim.reset()
	v.animating = false
	v.gesture.Cancel()
	v.tracker.Suppress(false)
	v.tracker.SetDuration(0)
	v.tracker.Reset(0)
	v.syncProgress()
}

// SetInteractive enables or disables gestures. Disabling drops a gesture in
// progress without committing it.
func (v *View) SetInteractive(on bool) {
	v.interactive = on
	if !on {
		v.gesture.Cancel()
		v.tracker.Suppress(false)
	}
}

// Interactive reports whether gestures are accepted.
func (v *View) Interactive() bool { return v.interactive }

// Loaded reports whether samples are bound to the view.
func (v *View) Loaded() bool { return v.loaded }

// Duration returns the duration of the bound samples.
func (v *View) Duration() time.Duration { return v.samples.Duration }

// Position returns the rendered playback position.
func (v *View) Position() time.Duration { return v.tracker.Position() }

// GestureState returns the current gesture state.
func (v *View) GestureState() gesture.State { return v.gesture.State() }

// SetReportedPosition feeds a position polled from the player. It is dropped
// while a gesture is in progress.
func (v *View) SetReportedPosition(pos time.Duration) {
	v.tracker.Update(pos)
	v.syncProgress()
}

// ForcePosition moves the cursor regardless of gestures or smoothing.
func (v *View) ForcePosition(pos time.Duration) {
	v.tracker.Reset(pos)
	v.syncProgress()
}

func (v *View) syncProgress() {
	v.model.SetProgress(v.tracker.Position(), v.tracker.Duration())
}

func (v *View) resample() tea.Cmd {
	v.seq++
	count := waveform.BucketCount(float64(v.width), v.opts.BlockWidth)
	if !v.loaded || count == 0 {
		v.model.SetBuckets(nil)
		return nil
	}
	return waveform.ResampleCmd(v.seq, v.samples.Data, count, v.opts.PeakMode)
}

// Update handles mouse input, resample results and animation frames.
func (v *View) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case waveform.ResampledMsg:
		if msg.Seq != v.seq || !v.loaded {
			return nil
		}
		v.model.SetBuckets(msg.Buckets)
		return v.startAnimation()

	case animFrameMsg:
		if msg.view != v || msg.seq != v.animSeq || !v.animating {
			return nil
		}
		if v.anim.step(v.model.Geometry(float64(v.width))) {
			v.animating = false
			return nil
		}
		return animFrameCmd(v, v.animSeq)

	case tea.MouseMsg:
		return v.handleMouse(msg)
	}
	return nil
}

func (v *View) startAnimation() tea.Cmd {
	if !v.opts.AnimateBars {
		return nil
	}
	v.anim.prime(len(v.model.Buckets()))
	if v.animating {
		return nil
	}
	v.animating = true
	v.animSeq++
	return animFrameCmd(v, v.animSeq)
}

func (v *View) contains(x, y int) bool {
	return x >= v.originX && x < v.originX+v.width &&
		y >= v.originY && y < v.originY+v.height
}

func (v *View) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !v.loaded || !v.interactive {
		return nil
	}
	x := float64(msg.X - v.originX)
	now := v.now()

	var sigs []gesture.Signal
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !v.contains(msg.X, msg.Y) {
			return nil
		}
		sigs = v.gesture.Down(x, now)
		v.tracker.Suppress(true)
	case tea.MouseActionMotion:
		if !v.gesture.Active() {
			return nil
		}
		sigs = v.gesture.Move(x, now)
	case tea.MouseActionRelease:
		if !v.gesture.Active() {
			return nil
		}
		sigs = v.gesture.Up(x, now)
		v.tracker.Suppress(false)
	}
	return v.dispatch(sigs)
}

func (v *View) clamp(pos time.Duration) time.Duration {
	return min(max(pos, 0), v.samples.Duration)
}

func (v *View) dispatch(sigs []gesture.Signal) tea.Cmd {
	var cmds []tea.Cmd
	for _, s := range sigs {
		switch s.Kind {
		case gesture.Tap:
			if v.handler != nil {
				cmds = append(cmds, v.handler.OnTap())
			}
		case gesture.SeekStarted:
			if v.handler != nil {
				cmds = append(cmds, v.handler.OnSeekStarted())
			}
		case gesture.SeekPreview:
			v.tracker.UpdateFromUser(v.clamp(s.Position))
			v.syncProgress()
		case gesture.SeekCommitted:
			pos := v.clamp(s.Position)
			v.tracker.UpdateFromUser(pos)
			v.syncProgress()
			if v.handler != nil {
				cmds = append(cmds, v.handler.OnSeek(pos))
			}
		}
	}
	return sequence(cmds)
}

// sequence runs cmds in order, skipping nils.
func sequence(cmds []tea.Cmd) tea.Cmd {
	var live []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			live = append(live, c)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return tea.Sequence(live...)
}

// Geometry returns the bar layout for the current frame, including any
// animation in progress.
func (v *View) Geometry() waveform.Geometry {
	g := v.model.Geometry(float64(v.width))
	if v.opts.AnimateBars {
		g = v.anim.apply(g)
	}
	return g
}

// Frame draws the current state. An unloaded view is blank.
func (v *View) Frame() *Frame {
	f := newFrame(v.width, v.height, v.palette)
	if !v.loaded {
		return f
	}
	v.renderer.Render(f, v.Geometry())
	if v.opts.ShowTimeText {
		text := " " + util.FormatProgress(v.tracker.Position(), v.samples.Duration) + " "
		f.Text(f.Width()-len([]rune(text)), 0, text, PaintText)
	}
	return f
}

// View renders the frame as a string.
func (v *View) View() string {
	return v.Frame().String()
}
