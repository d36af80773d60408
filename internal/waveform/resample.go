// Package waveform reduces decoded samples to display buckets and derives the
// bar geometry drawn for them.
package waveform

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavescrub/internal/config"
)

// Samples is a decoded amplitude buffer and the stream duration it covers.
type Samples struct {
	Data     []int
	Duration time.Duration
}

// BucketCount returns how many bars of blockWidth fit in viewWidth.
func BucketCount(viewWidth, blockWidth float64) int {
	if viewWidth <= 0 || blockWidth <= 0 {
		return 0
	}
	return int(math.Floor(viewWidth / blockWidth))
}

// Resample folds samples into bucketCount magnitudes. Each bucket covers
// len(samples)/bucketCount consecutive samples; the remainder at the end is
// not part of any bucket. Nothing is returned when the samples already fit.
func Resample(samples []int, bucketCount int, mode config.PeakMode) []float64 {
	if bucketCount <= 0 || len(samples) <= bucketCount {
		return nil
	}

	per := len(samples) / bucketCount
	out := make([]float64, bucketCount)
	for i := range bucketCount {
		chunk := samples[i*per : (i+1)*per]
		if mode == config.PeakMax {
			out[i] = peakMax(chunk)
		} else {
			out[i] = peakAverage(chunk)
		}
	}
	return out
}

func peakAverage(chunk []int) float64 {
	var sum float64
	for _, s := range chunk {
		sum += math.Abs(float64(s))
	}
	return sum / float64(len(chunk))
}

// peakMax uses the signed maximum, so a range of negative samples reads as 0.
func peakMax(chunk []int) float64 {
	m := 0
	for _, s := range chunk {
		if s > m {
			m = s
		}
	}
	return float64(m)
}

// ResampledMsg carries buckets computed off the update loop.
type ResampledMsg struct {
	Seq     uint64
	Buckets []float64
}

// ResampleCmd resamples in a command goroutine. The caller applies the
// result only if seq is still the latest one it issued.
func ResampleCmd(seq uint64, samples []int, bucketCount int, mode config.PeakMode) tea.Cmd {
	return func() tea.Msg {
		return ResampledMsg{Seq: seq, Buckets: Resample(samples, bucketCount, mode)}
	}
}
