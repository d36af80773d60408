package player

import (
	"encoding/binary"
	"fmt"
)

const (
	playbackSampleRate     = 48000
	playbackChannels       = 2
	playbackBytesPerSample = 2
	playbackFrameSize      = playbackChannels * playbackBytesPerSample
)

// normalize converts decoded PCM to the fixed 48 kHz stereo s16le layout the
// shared output context is opened with. Mono is duplicated to both channels;
// other rates are linearly interpolated.
func normalize(src *pcm) ([]byte, error) {
	if src.sampleRate <= 0 {
		return nil, fmt.Errorf("unsupported sample rate: %d", src.sampleRate)
	}
	if src.channels < 1 || src.channels > playbackChannels {
		return nil, fmt.Errorf("unsupported channel count: %d", src.channels)
	}

	srcFrames := src.frames()
	outFrames := int(int64(srcFrames) * playbackSampleRate / int64(src.sampleRate))
	if srcFrames > 0 && outFrames == 0 {
		outFrames = 1
	}

	out := make([]byte, outFrames*playbackFrameSize)
	for i := range outFrames {
		// Source frame of output frame i is num/playbackSampleRate.
		num := int64(i) * int64(src.sampleRate)
		base := int(num / playbackSampleRate)
		frac := float64(num%playbackSampleRate) / playbackSampleRate

		for ch := range playbackChannels {
			a := frameSample(src, base, ch)
			b := a
			if base+1 < srcFrames {
				b = frameSample(src, base+1, ch)
			}
			v := float64(a) + (float64(b)-float64(a))*frac
			off := i*playbackFrameSize + ch*playbackBytesPerSample
			binary.LittleEndian.PutUint16(out[off:], uint16(int16(v)))
		}
	}
	return out, nil
}

func frameSample(src *pcm, frame, ch int) int16 {
	if src.channels == 1 {
		ch = 0
	}
	return src.samples[frame*src.channels+ch]
}
