package waveform

import "time"

// Bar is the geometry of one bucket. Above and Below are lengths relative to
// the available half height, already multiplied by the block scales.
type Bar struct {
	Index int
	X     float64
	Width float64
	Above float64
	Below float64
}

// Geometry is everything a renderer needs for one frame.
type Geometry struct {
	Bars   []Bar
	SplitX float64
	Width  float64
}

// PlayedAt reports whether column x lies left of the colour split.
func (g Geometry) PlayedAt(x float64) bool {
	return x < g.SplitX
}

// RenderModel holds the resampled buckets and the playback offset.
type RenderModel struct {
	buckets     []float64
	blockWidth  float64
	topScale    float64
	bottomScale float64
	position    time.Duration
	duration    time.Duration
}

// NewRenderModel returns an empty model with the given block geometry.
func NewRenderModel(blockWidth, topScale, bottomScale float64) *RenderModel {
	return &RenderModel{blockWidth: blockWidth, topScale: topScale, bottomScale: bottomScale}
}

// SetBlock replaces the block width and scales.
func (m *RenderModel) SetBlock(blockWidth, topScale, bottomScale float64) {
	m.blockWidth = blockWidth
	m.topScale = topScale
	m.bottomScale = bottomScale
}

// SetBuckets replaces the bucket set. A nil slice clears the waveform.
func (m *RenderModel) SetBuckets(b []float64) { m.buckets = b }

// Buckets returns the current bucket set.
func (m *RenderModel) Buckets() []float64 { return m.buckets }

// SetProgress sets the cursor position within duration.
func (m *RenderModel) SetProgress(position, duration time.Duration) {
	m.position = position
	m.duration = duration
}

// OffsetFraction is position/duration, with an absent duration read as 1.
func (m *RenderModel) OffsetFraction() float64 {
	d := m.duration
	if d <= 0 {
		d = 1
	}
	return float64(m.position) / float64(d)
}

// Geometry lays the buckets out across viewWidth. The peak is recomputed on
// every call; an all-zero bucket set is divided by 1.
func (m *RenderModel) Geometry(viewWidth float64) Geometry {
	g := Geometry{
		SplitX: m.OffsetFraction() * viewWidth,
		Width:  viewWidth,
	}
	if len(m.buckets) == 0 {
		return g
	}

	peak := 0.0
	for _, b := range m.buckets {
		if b > peak {
			peak = b
		}
	}
	if peak == 0 {
		peak = 1
	}

	g.Bars = make([]Bar, len(m.buckets))
	for i, b := range m.buckets {
		norm := b / peak
		g.Bars[i] = Bar{
			Index: i,
			X:     float64(i) * m.blockWidth,
			Width: m.blockWidth,
			Above: norm * m.topScale,
			Below: norm * m.bottomScale,
		}
	}
	return g
}
