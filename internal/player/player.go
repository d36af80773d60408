// Package player plays and decodes audio files for the waveform view.
package player

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const bytesPerSec = playbackSampleRate * playbackFrameSize

// ErrNotPrepared is returned by operations that need decoded audio.
var ErrNotPrepared = errors.New("player not prepared")

// countingReader wraps an io.Reader and tracks bytes read.
type countingReader struct {
	reader io.ReadSeeker
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.mu.Unlock()
}

// output is the part of an oto player the transport drives.
type output interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(float64)
	BufferedSize() int
}

// Player is an oto-backed transport. Prepare decodes the whole file; the
// other methods are cheap and safe to call from the update loop.
type Player struct {
	path      string
	data      []byte
	decoder   io.ReadSeeker
	counter   *countingReader
	otoCtx    *oto.Context
	otoPlayer output
	newOutput func(io.Reader) output

	bytesPerSec int64
	duration    time.Duration
	volume      float64
	paused      bool
	prepared    bool
	done        chan struct{}
	stopMon     chan struct{}
	mu          sync.Mutex
	closed      bool

	ctx    context.Context
	cancel context.CancelFunc
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   playbackSampleRate,
			ChannelCount: playbackChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New returns an unprepared player for path. No I/O happens until Prepare.
func New(path string) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		ctx:         ctx,
		cancel:      cancel,
		path:        path,
		volume:      0.8,
		paused:      true,
		bytesPerSec: bytesPerSec,
		done:        make(chan struct{}),
	}
}

// Prepare decodes the file and opens the audio output. Playback does not
// start until Start is called.
func (p *Player) Prepare() error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	src, err := decodeFile(p.ctx, p.path)
	if err != nil {
		return err
	}
	data, err := normalize(src)
	if err != nil {
		return err
	}
	ctx, err := initOto()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrNotPrepared
	}
	p.data = data
	p.decoder = bytes.NewReader(data)
	p.counter = &countingReader{reader: p.decoder}
	p.otoCtx = ctx
	p.newOutput = func(r io.Reader) output { return ctx.NewPlayer(r) }
	p.duration = time.Duration(float64(len(data)) / float64(p.bytesPerSec) * float64(time.Second))
	p.otoPlayer = p.newOutput(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	p.prepared = true
	p.stopMon = make(chan struct{})
	go p.monitor(p.stopMon, p.done)
	return nil
}

// monitor closes done once every decoded byte has been played.
func (p *Player) monitor(stop <-chan struct{}, done chan struct{}) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		finished := !p.paused && p.counter.Pos() >= int64(len(p.data)) && p.otoPlayer.BufferedSize() == 0
		if finished {
			p.paused = true
		}
		p.mu.Unlock()

		if finished {
			close(done)
			return
		}
	}
}

// Done returns a channel that closes when playback reaches the end.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Start resumes playback.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.prepared || p.closed || !p.paused {
		return
	}
	p.otoPlayer.Play()
	p.paused = false
}

// Pause stops playback at the current position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	p.paused = true
}

// IsPlaying reports whether audio is being produced.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prepared && !p.closed && !p.paused
}

// CurrentPosition returns the position of the audio being heard, excluding
// what is still buffered in the output.
func (p *Player) CurrentPosition() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.counter == nil {
		return 0
	}
	pos := p.counter.Pos()
	if p.otoPlayer != nil {
		pos -= int64(p.otoPlayer.BufferedSize())
	}
	if pos < 0 {
		pos = 0
	}
	return time.Duration(float64(pos) / float64(p.bytesPerSec) * float64(time.Second))
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func clampSeekByteOffset(target time.Duration, bytesPerSec, totalBytes, frameSize int64) int64 {
	newPos := int64(target.Seconds() * float64(bytesPerSec))
	if newPos < 0 {
		newPos = 0
	}
	if newPos > totalBytes {
		newPos = totalBytes
	}
	return newPos - (newPos % frameSize)
}

// SeekTo moves playback to target, keeping the current play/pause state.
// Seeking back from the end re-arms Done.
func (p *Player) SeekTo(target time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.prepared || p.closed {
		return ErrNotPrepared
	}

	newPos := clampSeekByteOffset(target, p.bytesPerSec, int64(len(p.data)), playbackFrameSize)
	if _, err := p.decoder.Seek(newPos, io.SeekStart); err != nil {
		return err
	}
	p.counter.SetPos(newPos)

	// Recreate the output to flush its buffer
	p.otoPlayer.Pause()
	p.otoPlayer = p.newOutput(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	if !p.paused {
		p.otoPlayer.Play()
	}

	select {
	case <-p.done:
		if newPos < int64(len(p.data)) {
			p.done = make(chan struct{})
			p.stopMon = make(chan struct{})
			go p.monitor(p.stopMon, p.done)
		}
	default:
	}
	return nil
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.volume = v
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(v)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Release stops playback and drops the decoded audio. A Prepare still
// decoding is abandoned. It is idempotent.
func (p *Player) Release() {
	p.cancel()
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	if p.stopMon != nil {
		close(p.stopMon)
	}
	p.data = nil
	p.paused = true
}
