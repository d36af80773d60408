package position

import (
	"testing"
	"time"
)

const ms = time.Millisecond

func TestSmoothingFollowsForwardReports(t *testing.T) {
	tr := New(Smoothing, 10*time.Second)
	var got []time.Duration
	for _, r := range []time.Duration{0, 20 * ms, 40 * ms, 60 * ms} {
		got = append(got, tr.Update(r))
	}
	want := []time.Duration{0, 20 * ms, 40 * ms, 60 * ms}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tick %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSmoothingExtrapolatesPastStaleReport(t *testing.T) {
	tr := New(Smoothing, 10*time.Second)
	for _, r := range []time.Duration{0, 20 * ms, 40 * ms, 60 * ms} {
		tr.Update(r)
	}

	tr.UpdateFromUser(500 * ms)
	got := tr.Update(80 * ms)
	if got != 520*ms {
		t.Fatalf("expected extrapolation to 520ms, got %v", got)
	}
	if got = tr.Update(100 * ms); got != 540*ms {
		t.Fatalf("expected 540ms on the next stale tick, got %v", got)
	}

	// Player catches up past the tracked position.
	if got = tr.Update(600 * ms); got != 600*ms {
		t.Fatalf("expected to accept 600ms, got %v", got)
	}
}

func TestSmoothingBackwardReportDoesNotSnapBack(t *testing.T) {
	tr := New(Smoothing, 10*time.Second)
	tr.Update(0)
	tr.Update(20 * ms)
	tr.Update(40 * ms)
	if got := tr.Update(30 * ms); got != 60*ms {
		t.Fatalf("expected 60ms after a backward report, got %v", got)
	}
}

func TestSmoothingResetsOnRestartAndCompletion(t *testing.T) {
	tr := New(Smoothing, time.Second)
	tr.Update(0)
	tr.Update(20 * ms)
	tr.UpdateFromUser(900 * ms)

	if got := tr.Update(time.Second); got != time.Second {
		t.Fatalf("expected completion to land on duration, got %v", got)
	}
	if got := tr.Update(0); got != 0 {
		t.Fatalf("expected restart to land on 0, got %v", got)
	}
	// History was cleared, so a stale report cannot extrapolate.
	tr.UpdateFromUser(500 * ms)
	if got := tr.Update(10 * ms); got != 500*ms {
		t.Fatalf("expected 500ms with no delta history, got %v", got)
	}
}

func TestSmoothingClampsToDuration(t *testing.T) {
	tr := New(Smoothing, 100*ms)
	tr.Update(0)
	tr.Update(60 * ms)
	tr.UpdateFromUser(95 * ms)
	if got := tr.Update(70 * ms); got != 100*ms {
		t.Fatalf("expected clamp at 100ms, got %v", got)
	}
}

func TestSuppressedUpdatesAreDropped(t *testing.T) {
	tr := New(Smoothing, 10*time.Second)
	tr.Update(0)
	tr.Update(20 * ms)

	tr.Suppress(true)
	tr.UpdateFromUser(3 * time.Second)
	if got := tr.Update(40 * ms); got != 3*time.Second {
		t.Fatalf("expected suppressed update to keep 3s, got %v", got)
	}
	tr.Suppress(false)

	// The dropped report is not replayed; the cursor advances by the last
	// accepted step.
	if got := tr.Update(60 * ms); got != 3*time.Second+20*ms {
		t.Fatalf("expected extrapolation by 20ms, got %v", got)
	}
}

func TestDirectModeRendersReports(t *testing.T) {
	tr := New(Direct, 10*time.Second)
	tr.UpdateFromUser(5 * time.Second)
	if got := tr.Update(80 * ms); got != 80*ms {
		t.Fatalf("expected direct mode to snap to 80ms, got %v", got)
	}
	if got := tr.Update(20 * time.Second); got != 10*time.Second {
		t.Fatalf("expected clamp to duration, got %v", got)
	}
}

func TestResetBypassesSuppression(t *testing.T) {
	tr := New(Smoothing, time.Second)
	tr.Suppress(true)
	tr.Reset(time.Second)
	if tr.Position() != time.Second {
		t.Fatalf("expected reset to 1s, got %v", tr.Position())
	}
}
