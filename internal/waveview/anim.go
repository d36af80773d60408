package waveview

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/olivier-w/wavescrub/internal/config"
	"github.com/olivier-w/wavescrub/internal/waveform"
)

const settleEpsilon = 1e-3

type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(fps int, frequency, damping float64) springField {
	return springField{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// resize keeps existing positions so bars only animate the part that changed.
func (s *springField) resize(n int) {
	if len(s.pos) == n {
		return
	}
	pos := make([]float64, n)
	vel := make([]float64, n)
	copy(pos, s.pos)
	copy(vel, s.vel)
	s.pos, s.vel = pos, vel
}

// step advances every spring toward targets and reports whether all of them
// have come to rest.
func (s *springField) step(targets []float64) bool {
	s.resize(len(targets))
	settled := true
	for i, target := range targets {
		p, v := s.spring.Update(s.pos[i], s.vel[i], target)
		if math.Abs(p-target) < settleEpsilon && math.Abs(v) < settleEpsilon {
			p, v = target, 0
		} else {
			settled = false
		}
		s.pos[i], s.vel[i] = p, v
	}
	return settled
}

// barAnimator eases displayed bar lengths toward their geometry.
type barAnimator struct {
	above springField
	below springField
}

func newBarAnimator() *barAnimator {
	return &barAnimator{
		above: newSpringField(config.AnimationFPS, 8.0, 0.9),
		below: newSpringField(config.AnimationFPS, 8.0, 0.9),
	}
}

func (a *barAnimator) step(g waveform.Geometry) bool {
	above := make([]float64, len(g.Bars))
	below := make([]float64, len(g.Bars))
	for i, b := range g.Bars {
		above[i] = b.Above
		below[i] = b.Below
	}
	doneAbove := a.above.step(above)
	doneBelow := a.below.step(below)
	return doneAbove && doneBelow
}

// apply replaces bar lengths with the animated ones.
func (a *barAnimator) apply(g waveform.Geometry) waveform.Geometry {
	if len(a.above.pos) != len(g.Bars) {
		return g
	}
	bars := make([]waveform.Bar, len(g.Bars))
	copy(bars, g.Bars)
	for i := range bars {
		bars[i].Above = a.above.pos[i]
		bars[i].Below = a.below.pos[i]
	}
	g.Bars = bars
	return g
}

func (a *barAnimator) reset() {
	a.above.resize(0)
	a.below.resize(0)
}

type animFrameMsg struct {
	view *View
	seq  uint64
}

func animFrameCmd(v *View, seq uint64) tea.Cmd {
	return tea.Tick(time.Second/config.AnimationFPS, func(time.Time) tea.Msg {
		return animFrameMsg{view: v, seq: seq}
	})
}

// prime sizes the springs for n bars so new bars grow from zero.
func (a *barAnimator) prime(n int) {
	a.above.resize(n)
	a.below.resize(n)
}
