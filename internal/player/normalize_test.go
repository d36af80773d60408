package player

import (
	"encoding/binary"
	"testing"
)

func readFrames(t *testing.T, raw []byte) [][2]int16 {
	t.Helper()
	if len(raw)%playbackFrameSize != 0 {
		t.Fatalf("output is not frame aligned: %d bytes", len(raw))
	}
	out := make([][2]int16, len(raw)/playbackFrameSize)
	for i := range out {
		off := i * playbackFrameSize
		out[i][0] = int16(binary.LittleEndian.Uint16(raw[off:]))
		out[i][1] = int16(binary.LittleEndian.Uint16(raw[off+2:]))
	}
	return out
}

func TestNormalizeUpmixesMono(t *testing.T) {
	raw, err := normalize(&pcm{samples: []int16{1000, -2000, 3000}, sampleRate: playbackSampleRate, channels: 1})
	if err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	frames := readFrames(t, raw)
	want := [][2]int16{{1000, 1000}, {-2000, -2000}, {3000, 3000}}
	if len(frames) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(frames))
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Fatalf("frame %d: expected %v, got %v", i, want[i], frames[i])
		}
	}
}

func TestNormalizePassesThroughStereo48k(t *testing.T) {
	raw, err := normalize(&pcm{samples: []int16{1, 2, 3, 4}, sampleRate: playbackSampleRate, channels: 2})
	if err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	frames := readFrames(t, raw)
	if frames[0] != [2]int16{1, 2} || frames[1] != [2]int16{3, 4} {
		t.Fatalf("unexpected frames %v", frames)
	}
}

func TestNormalizeUpsamplesByInterpolation(t *testing.T) {
	// 24 kHz doubles to 48 kHz; odd frames sit halfway between neighbours.
	raw, err := normalize(&pcm{samples: []int16{0, 0, 100, -100}, sampleRate: 24000, channels: 2})
	if err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	frames := readFrames(t, raw)
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}
	if frames[1] != [2]int16{50, -50} {
		t.Fatalf("expected interpolated frame {50 -50}, got %v", frames[1])
	}
	if frames[3] != [2]int16{100, -100} {
		t.Fatalf("expected last frame held, got %v", frames[3])
	}
}

func TestNormalizeRejectsBadFormats(t *testing.T) {
	if _, err := normalize(&pcm{sampleRate: 0, channels: 2}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := normalize(&pcm{sampleRate: 44100, channels: 6}); err == nil {
		t.Fatal("expected error for 6 channels")
	}
}
