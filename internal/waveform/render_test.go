package waveform

import (
	"testing"
	"time"
)

func TestGeometryPositionsBarsByBlockWidth(t *testing.T) {
	m := NewRenderModel(2, 1, 0.5)
	m.SetBuckets([]float64{1, 2, 4})

	g := m.Geometry(6)
	if len(g.Bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(g.Bars))
	}
	for i, want := range []float64{0, 2, 4} {
		if g.Bars[i].X != want {
			t.Fatalf("bar %d: expected x=%v, got %v", i, want, g.Bars[i].X)
		}
	}
	if g.Bars[2].Above != 1 || g.Bars[2].Below != 0.5 {
		t.Fatalf("expected peak bar to span full scale, got %+v", g.Bars[2])
	}
	if g.Bars[0].Above != 0.25 {
		t.Fatalf("expected bar 0 at 0.25, got %v", g.Bars[0].Above)
	}
}

func TestGeometryAllZeroBucketsAreDefined(t *testing.T) {
	m := NewRenderModel(1, 1, 1)
	m.SetBuckets([]float64{0, 0, 0})

	for _, b := range m.Geometry(3).Bars {
		if b.Above != 0 || b.Below != 0 {
			t.Fatalf("expected zero-length bar, got %+v", b)
		}
	}
}

func TestOffsetFractionWithoutDuration(t *testing.T) {
	m := NewRenderModel(1, 1, 1)
	if got := m.OffsetFraction(); got != 0 {
		t.Fatalf("expected 0 offset, got %v", got)
	}

	m.SetProgress(15*time.Second, 60*time.Second)
	if got := m.OffsetFraction(); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
}

func TestGeometrySplitFollowsOffset(t *testing.T) {
	m := NewRenderModel(1, 1, 1)
	m.SetBuckets([]float64{1, 1, 1, 1})
	m.SetProgress(500*time.Millisecond, time.Second)

	g := m.Geometry(4)
	if g.SplitX != 2 {
		t.Fatalf("expected split at 2, got %v", g.SplitX)
	}
	if !g.PlayedAt(g.Bars[1].X) || g.PlayedAt(g.Bars[2].X) {
		t.Fatal("expected bars left of the split to be played")
	}
}

func TestGeometryEmptyBuckets(t *testing.T) {
	m := NewRenderModel(1, 1, 1)
	if g := m.Geometry(80); len(g.Bars) != 0 {
		t.Fatalf("expected no bars, got %d", len(g.Bars))
	}
}
