package waveview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Paint selects the style of a cell.
type Paint uint8

const (
	PaintNone Paint = iota
	PaintPlayed
	PaintUnplayed
	PaintText
	paintCount
)

type cell struct {
	r     rune
	paint Paint
}

// Frame is a grid of terminal cells that renderers draw into.
type Frame struct {
	width   int
	height  int
	cells   []cell
	palette [paintCount]lipgloss.Style
}

// newFrame returns a blank frame. Non-positive sizes yield an empty frame.
func newFrame(width, height int, palette [paintCount]lipgloss.Style) *Frame {
	width = max(width, 0)
	height = max(height, 0)
	f := &Frame{width: width, height: height, palette: palette}
	f.cells = make([]cell, width*height)
	for i := range f.cells {
		f.cells[i].r = ' '
	}
	return f
}

// Width returns the frame width in columns.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in rows.
func (f *Frame) Height() int { return f.height }

// Set draws r at (x, y). Out of range cells are ignored.
func (f *Frame) Set(x, y int, r rune, p Paint) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	f.cells[y*f.width+x] = cell{r: r, paint: p}
}

// At returns the rune and paint at (x, y).
func (f *Frame) At(x, y int) (rune, Paint) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return ' ', PaintNone
	}
	c := f.cells[y*f.width+x]
	return c.r, c.paint
}

// Text writes s starting at (x, y).
func (f *Frame) Text(x, y int, s string, p Paint) {
	for i, r := range []rune(s) {
		f.Set(x+i, y, r, p)
	}
}

// String renders the frame, styling each run of equally painted cells.
func (f *Frame) String() string {
	var out strings.Builder
	var run strings.Builder
	for y := range f.height {
		if y > 0 {
			out.WriteByte('\n')
		}
		cur := PaintNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == PaintNone {
				out.WriteString(run.String())
			} else {
				out.WriteString(f.palette[cur].Render(run.String()))
			}
			run.Reset()
		}
		for x := range f.width {
			c := f.cells[y*f.width+x]
			if c.paint != cur {
				flush()
				cur = c.paint
			}
			run.WriteRune(c.r)
		}
		flush()
	}
	return out.String()
}
