package player

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// pcm is a fully decoded stream of interleaved signed 16-bit samples.
type pcm struct {
	samples    []int16
	sampleRate int
	channels   int
}

func (p *pcm) frames() int {
	if p.channels == 0 {
		return 0
	}
	return len(p.samples) / p.channels
}

// ctxReader fails reads once ctx is done so long decodes can be abandoned.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// decodeFile detects the format by extension and decodes the whole file.
func decodeFile(ctx context.Context, path string) (*pcm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3":
		return decodeMP3(ctx, f)
	case ".wav":
		return decodeWAV(ctx, f)
	case ".flac":
		return decodeFLAC(ctx, f)
	case ".ogg":
		return decodeOGG(ctx, f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// go-mp3 always produces 16-bit stereo.
func decodeMP3(ctx context.Context, f *os.File) (*pcm, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	raw, err := io.ReadAll(ctxReader{ctx: ctx, r: dec})
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
	}
	return &pcm{samples: samples, sampleRate: dec.SampleRate(), channels: 2}, nil
}

func decodeWAV(ctx context.Context, f *os.File) (*pcm, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bitDepth := int(dec.BitDepth)
	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		if bitDepth == 8 {
			// 8-bit WAV is unsigned
			s -= 128
		}
		samples[i] = to16(s, bitDepth)
	}
	return &pcm{samples: samples, sampleRate: int(dec.SampleRate), channels: int(dec.NumChans)}, nil
}

func decodeFLAC(ctx context.Context, f *os.File) (*pcm, error) {
	stream, err := flac.New(ctxReader{ctx: ctx, r: f})
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bps := int(info.BitsPerSample)
	samples := make([]int16, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding FLAC: %w", err)
		}
		n := int(frame.Subframes[0].NSamples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, to16(int(frame.Subframes[ch].Samples[i]), bps))
			}
		}
	}
	return &pcm{samples: samples, sampleRate: int(info.SampleRate), channels: channels}, nil
}

func decodeOGG(ctx context.Context, f *os.File) (*pcm, error) {
	data, format, err := oggvorbis.ReadAll(ctxReader{ctx: ctx, r: f})
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	samples := make([]int16, len(data))
	for i, s := range data {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		samples[i] = int16(s * 32767)
	}
	return &pcm{samples: samples, sampleRate: format.SampleRate, channels: format.Channels}, nil
}

// to16 rescales a sample of the given bit depth to 16 bits.
func to16(sample, bitDepth int) int16 {
	switch {
	case bitDepth > 16:
		sample >>= bitDepth - 16
	case bitDepth > 0 && bitDepth < 16:
		sample <<= 16 - bitDepth
	}
	if sample > 32767 {
		sample = 32767
	} else if sample < -32768 {
		sample = -32768
	}
	return int16(sample)
}
