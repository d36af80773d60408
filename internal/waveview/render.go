package waveview

import (
	"math"

	"github.com/olivier-w/wavescrub/internal/config"
	"github.com/olivier-w/wavescrub/internal/waveform"
)

// Eighth-height blocks, index 0 empty and 8 full.
var risingBlocks = []rune(" ▁▂▃▄▅▆▇█")

// Renderer draws bar geometry into a frame.
type Renderer interface {
	Render(f *Frame, g waveform.Geometry)
}

func rendererFor(v config.Variant) Renderer {
	if v == config.VariantFixed {
		return fixedRenderer{}
	}
	return fittedRenderer{}
}

// columns folds bars into per-column lengths, keeping the tallest bar when
// several share a column. Bars two or more columns wide leave their last
// column empty as a gap.
func columns(g waveform.Geometry, width int) (above, below []float64) {
	above = make([]float64, width)
	below = make([]float64, width)
	for _, b := range g.Bars {
		start := int(math.Floor(b.X))
		end := int(math.Floor(b.X + b.Width))
		if b.Width >= 2 {
			end--
		}
		if end <= start {
			end = start + 1
		}
		for c := max(start, 0); c < end && c < width; c++ {
			above[c] = max(above[c], b.Above)
			below[c] = max(below[c], b.Below)
		}
	}
	return above, below
}

func paintAt(g waveform.Geometry, col int) Paint {
	if g.PlayedAt(float64(col)) {
		return PaintPlayed
	}
	return PaintUnplayed
}

// eighths converts a relative length into eighth-cells over rows.
func eighths(length float64, rows int) int {
	n := int(math.Round(length * float64(rows) * 8))
	return min(max(n, 0), rows*8)
}

// drawRising fills a column upward from baseline over rows cells.
func drawRising(f *Frame, col, baseline, rows, units int, p Paint) {
	for i := 0; i < rows && units > 0; i++ {
		step := min(units, 8)
		f.Set(col, baseline-i, risingBlocks[step], p)
		units -= step
	}
}

// drawFalling fills a column downward from top over rows cells. Partial
// cells are drawn as an upper half block.
func drawFalling(f *Frame, col, top, rows, units int, p Paint) {
	for i := 0; i < rows && units > 0; i++ {
		switch {
		case units >= 8:
			f.Set(col, top+i, '█', p)
		case units >= 4:
			f.Set(col, top+i, '▀', p)
		}
		units -= 8
	}
}

// fittedRenderer draws single-axis bars growing up from the bottom row.
type fittedRenderer struct{}

func (fittedRenderer) Render(f *Frame, g waveform.Geometry) {
	rows := f.Height()
	if rows == 0 {
		return
	}
	above, _ := columns(g, f.Width())
	for c, length := range above {
		drawRising(f, c, rows-1, rows, eighths(length, rows), paintAt(g, c))
	}
}

// fixedRenderer draws bars split around a horizontal axis: the top half
// rises from the axis row, the bottom half hangs below it.
type fixedRenderer struct{}

func (fixedRenderer) Render(f *Frame, g waveform.Geometry) {
	rows := f.Height()
	if rows == 0 {
		return
	}
	axis := rows / 2
	if rows > 1 && rows%2 == 0 {
		axis--
	}
	topRows := axis + 1
	bottomRows := rows - topRows

	above, below := columns(g, f.Width())
	for c := range above {
		p := paintAt(g, c)
		drawRising(f, c, axis, topRows, eighths(above[c], topRows), p)
		if bottomRows > 0 {
			drawFalling(f, c, axis+1, bottomRows, eighths(below[c], bottomRows), p)
		}
	}
}
