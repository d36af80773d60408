package player

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type stubOutput struct {
	playing  bool
	volume   float64
	buffered int
	plays    int
}

func (o *stubOutput) Play()               { o.playing = true; o.plays++ }
func (o *stubOutput) Pause()              { o.playing = false }
func (o *stubOutput) IsPlaying() bool     { return o.playing }
func (o *stubOutput) SetVolume(v float64) { o.volume = v }
func (o *stubOutput) BufferedSize() int   { return o.buffered }

// preparedPlayer builds a player over n bytes of silence without touching
// the audio device.
func preparedPlayer(n int, bps int64) (*Player, *[]*stubOutput) {
	data := make([]byte, n)
	dec := bytes.NewReader(data)
	var outputs []*stubOutput
	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		ctx:         ctx,
		cancel:      cancel,
		data:        data,
		decoder:     dec,
		counter:     &countingReader{reader: dec},
		bytesPerSec: bps,
		volume:      0.5,
		paused:      true,
		prepared:    true,
		done:        make(chan struct{}),
		stopMon:     make(chan struct{}),
	}
	p.newOutput = func(io.Reader) output {
		o := &stubOutput{}
		outputs = append(outputs, o)
		return o
	}
	p.otoPlayer = p.newOutput(p.counter)
	return p, &outputs
}

func TestClampSeekByteOffsetClampsAndAligns(t *testing.T) {
	got := clampSeekByteOffset(3900*time.Millisecond, 10, 10, 4)
	if got != 8 {
		t.Fatalf("expected clamped aligned seek offset 8, got %d", got)
	}

	got = clampSeekByteOffset(-1*time.Second, 10, 100, 4)
	if got != 0 {
		t.Fatalf("expected negative seek to clamp to 0, got %d", got)
	}
}

func TestPauseSetsPausedWithoutToggle(t *testing.T) {
	p := &Player{}
	p.Pause()
	p.Pause()
	if !p.paused {
		t.Fatal("expected pause to set paused state")
	}
}

func TestStartRequiresPrepare(t *testing.T) {
	p := New("song.mp3")
	p.Start()
	if p.IsPlaying() {
		t.Fatal("expected unprepared player not to play")
	}
	if err := p.SeekTo(time.Second); err != ErrNotPrepared {
		t.Fatalf("expected ErrNotPrepared, got %v", err)
	}
}

func TestSeekToClampsAndAlignsToFrameBoundary(t *testing.T) {
	p, outputs := preparedPlayer(41, 10)

	if err := p.SeekTo(3900 * time.Millisecond); err != nil {
		t.Fatalf("SeekTo returned error: %v", err)
	}
	if got := p.counter.Pos(); got != 36 {
		t.Fatalf("expected counter position 36, got %d", got)
	}
	if len(*outputs) != 2 {
		t.Fatalf("expected output to be recreated, got %d outputs", len(*outputs))
	}
	if (*outputs)[1].plays != 0 {
		t.Fatal("expected paused seek not to start playback")
	}
	if (*outputs)[1].volume != 0.5 {
		t.Fatalf("expected volume carried over, got %v", (*outputs)[1].volume)
	}
}

func TestSeekWhilePlayingKeepsPlaying(t *testing.T) {
	p, outputs := preparedPlayer(400, 100)
	p.Start()
	if err := p.SeekTo(time.Second); err != nil {
		t.Fatalf("SeekTo returned error: %v", err)
	}
	if !(*outputs)[1].playing {
		t.Fatal("expected new output to be playing")
	}
	if !p.IsPlaying() {
		t.Fatal("expected player to report playing")
	}
}

func TestCurrentPositionExcludesBufferedAudio(t *testing.T) {
	p, outputs := preparedPlayer(1000, 100)
	p.counter.SetPos(500)
	(*outputs)[0].buffered = 100
	if got := p.CurrentPosition(); got != 4*time.Second {
		t.Fatalf("expected 4s, got %v", got)
	}
}

func TestSeekBackAfterDoneRearms(t *testing.T) {
	p, _ := preparedPlayer(400, 100)
	old := p.Done()
	close(p.done)

	if err := p.SeekTo(0); err != nil {
		t.Fatalf("SeekTo returned error: %v", err)
	}
	if p.Done() == old {
		t.Fatal("expected a fresh done channel")
	}
	select {
	case <-p.Done():
		t.Fatal("expected new done channel to be open")
	default:
	}
	p.Release()
}

func TestPlayerReleaseIsIdempotent(t *testing.T) {
	p, outputs := preparedPlayer(40, 10)
	p.Start()
	p.Release()
	p.Release()

	if p.IsPlaying() {
		t.Fatal("expected released player to stop")
	}
	if (*outputs)[0].playing {
		t.Fatal("expected output paused on release")
	}
}

func TestReleaseAbandonsPrepare(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := New(path)
	p.Release()

	if err := p.Prepare(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled prepare, got %v", err)
	}
	if p.IsPlaying() || p.Duration() != 0 {
		t.Fatal("expected player to stay unprepared")
	}
}

func TestVolumeClamps(t *testing.T) {
	p, outputs := preparedPlayer(40, 10)
	p.AdjustVolume(2)
	if p.Volume() != 1 || (*outputs)[0].volume != 1 {
		t.Fatalf("expected volume clamped to 1, got %v", p.Volume())
	}
	p.SetVolume(-1)
	if p.Volume() != 0 {
		t.Fatalf("expected volume clamped to 0, got %v", p.Volume())
	}
}
