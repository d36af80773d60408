package gesture

import (
	"testing"
	"time"
)

func kinds(sigs []Signal) []Kind {
	out := make([]Kind, len(sigs))
	for i, s := range sigs {
		out[i] = s.Kind
	}
	return out
}

func TestQuickReleaseIsTap(t *testing.T) {
	c := New()
	c.SetBounds(time.Minute, 100)
	t0 := time.Unix(0, 0)

	c.Down(10, t0)
	var all []Signal
	for i := range 4 {
		all = append(all, c.Move(float64(11+i), t0.Add(time.Duration(i)*10*time.Millisecond))...)
	}
	all = append(all, c.Up(14, t0.Add(250*time.Millisecond))...)

	if len(all) != 1 || all[0].Kind != Tap {
		t.Fatalf("expected exactly one tap, got %v", kinds(all))
	}
	if c.State() != Idle {
		t.Fatalf("expected idle after release, got %v", c.State())
	}
}

func TestSlowReleaseWithoutMovesIsNothing(t *testing.T) {
	c := New()
	t0 := time.Unix(0, 0)
	c.Down(10, t0)
	if got := c.Up(10, t0.Add(301*time.Millisecond)); len(got) != 0 {
		t.Fatalf("expected no signal for long press, got %v", kinds(got))
	}
}

func TestReleaseAtTapTimeoutIsTap(t *testing.T) {
	c := New()
	t0 := time.Unix(0, 0)
	c.Down(10, t0)
	if got := c.Up(10, t0.Add(300*time.Millisecond)); len(got) != 1 || got[0].Kind != Tap {
		t.Fatalf("expected tap at exactly the timeout, got %v", kinds(got))
	}
}

func TestDragPastThresholdSeeks(t *testing.T) {
	c := New()
	c.SetBounds(100*time.Second, 200)
	t0 := time.Unix(0, 0)

	c.Down(0, t0)
	var started, previews int
	for i := range 8 {
		for _, s := range c.Move(float64(i*10), t0) {
			switch s.Kind {
			case SeekStarted:
				started++
			case SeekPreview:
				previews++
			case Tap, SeekCommitted:
				t.Fatalf("unexpected %v during move", s.Kind)
			}
		}
		if i < 4 && c.State() != Dragging {
			t.Fatalf("move %d: expected dragging, got %v", i+1, c.State())
		}
	}
	if started != 1 {
		t.Fatalf("expected one seek start, got %d", started)
	}
	if previews != 4 {
		t.Fatalf("expected 4 previews, got %d", previews)
	}

	got := c.Up(50, t0.Add(100*time.Millisecond))
	if len(got) != 1 || got[0].Kind != SeekCommitted {
		t.Fatalf("expected a single commit, got %v", kinds(got))
	}
	if got[0].Position != 25*time.Second {
		t.Fatalf("expected commit at 25s, got %v", got[0].Position)
	}
}

func TestPreviewPositionTracksPointer(t *testing.T) {
	c := New()
	c.SetBounds(10*time.Second, 100)
	t0 := time.Unix(0, 0)
	c.Down(0, t0)
	for range 4 {
		c.Move(0, t0)
	}
	sigs := c.Move(30, t0)
	last := sigs[len(sigs)-1]
	if last.Kind != SeekPreview || last.Position != 3*time.Second {
		t.Fatalf("expected preview at 3s, got %+v", last)
	}
}

func TestMoveCountResetsOnEveryRelease(t *testing.T) {
	c := New()
	c.SetBounds(time.Minute, 60)
	t0 := time.Unix(0, 0)

	c.Down(0, t0)
	for range 3 {
		c.Move(1, t0)
	}
	c.Up(1, t0.Add(time.Second))

	// Three more moves would cross the threshold if the count carried over.
	c.Down(0, t0)
	for range 3 {
		if sigs := c.Move(1, t0); len(sigs) != 0 {
			t.Fatalf("expected no seek after reset, got %v", kinds(sigs))
		}
	}
	if got := c.Up(1, t0.Add(10*time.Millisecond)); len(got) != 1 || got[0].Kind != Tap {
		t.Fatalf("expected tap, got %v", kinds(got))
	}
}

func TestZeroWidthMapsToStart(t *testing.T) {
	c := New()
	c.SetBounds(time.Minute, 0)
	t0 := time.Unix(0, 0)
	c.Down(0, t0)
	for range 5 {
		c.Move(40, t0)
	}
	got := c.Up(40, t0)
	if got[0].Position != 0 {
		t.Fatalf("expected position 0 with zero width, got %v", got[0].Position)
	}
}

func TestMoveWithoutDownIsIgnored(t *testing.T) {
	c := New()
	if sigs := c.Move(5, time.Now()); sigs != nil {
		t.Fatalf("expected no signals, got %v", kinds(sigs))
	}
	if c.Active() {
		t.Fatal("expected controller to stay idle")
	}
}
