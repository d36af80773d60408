package player

import (
	"context"
	"time"

	"github.com/olivier-w/wavescrub/internal/waveform"
)

// DefaultSamplesPerSecond is the waveform resolution produced by Extractor.
const DefaultSamplesPerSecond = 200

// Extractor decodes a file into waveform samples.
type Extractor struct {
	path      string
	perSecond int
}

// NewExtractor returns an extractor for path.
func NewExtractor(path string) *Extractor {
	return &Extractor{path: path, perSecond: DefaultSamplesPerSecond}
}

// Extract decodes the file. Cancelling ctx abandons the decode.
func (e *Extractor) Extract(ctx context.Context) (waveform.Samples, error) {
	src, err := decodeFile(ctx, e.path)
	if err != nil {
		return waveform.Samples{}, err
	}
	if err := ctx.Err(); err != nil {
		return waveform.Samples{}, err
	}
	return extractSamples(src, e.perSecond), nil
}

// extractSamples mixes src to mono and keeps, for each window of
// sampleRate/perSecond frames, the sample with the largest magnitude.
func extractSamples(src *pcm, perSecond int) waveform.Samples {
	frames := src.frames()
	if frames == 0 || src.sampleRate <= 0 {
		return waveform.Samples{}
	}
	window := 1
	if perSecond > 0 && src.sampleRate > perSecond {
		window = src.sampleRate / perSecond
	}

	data := make([]int, 0, frames/window+1)
	for start := 0; start < frames; start += window {
		end := min(start+window, frames)
		peak := 0
		for f := start; f < end; f++ {
			sum := 0
			for ch := range src.channels {
				sum += int(src.samples[f*src.channels+ch])
			}
			v := sum / src.channels
			if abs(v) > abs(peak) {
				peak = v
			}
		}
		data = append(data, peak)
	}

	return waveform.Samples{
		Data:     data,
		Duration: time.Duration(float64(frames) / float64(src.sampleRate) * float64(time.Second)),
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
