// Package waveform extracts a coarse peak envelope from an audio file for
// display. Audio is decoded to mono 16-bit PCM at a deliberately low rate:
// only the shape matters, not fidelity.
package waveform

import (
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultBins is the envelope length used by the studio display.
const DefaultBins = 50

// decodeRate is the PCM sample rate requested from the decoder.
const decodeRate = 4000

// glyphs are the eight display levels, lowest to highest.
var glyphs = []rune("▁▂▃▄▅▆▇█")

// Envelope is a fixed-length peak envelope with values in [0,1], plus the
// source duration when known. Immutable once produced.
type Envelope struct {
	Peaks      []float64
	DurationMS float64
}

// runFunc executes an external command and returns its stdout. Injectable
// for tests.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor decodes audio via external ffmpeg/ffprobe processes.
type Extractor struct {
	FFmpegPath  string
	FFprobePath string
	run         runFunc
}

func New() *Extractor {
	return &Extractor{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe", run: runCommand}
}

// Extract returns the peak envelope of the file. Decode failures (short or
// empty PCM stream, non-zero decoder exit) degrade to an all-zero envelope;
// only an unspawnable decoder is an error.
func (e *Extractor) Extract(ctx context.Context, path string, bins int) (Envelope, error) {
	if bins <= 0 {
		bins = DefaultBins
	}
	zero := Envelope{Peaks: make([]float64, bins)}

	raw, err := e.run(ctx, e.FFmpegPath,
		"-i", path, "-f", "s16le", "-ac", "1", "-ar", strconv.Itoa(decodeRate), "pipe:1")
	if err != nil {
		if _, exited := err.(*exec.ExitError); exited {
			return zero, nil
		}
		return zero, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(raw) < 2 {
		return zero, nil
	}

	samples := parseSamples(raw)
	peaks := binPeaks(samples, bins)
	normalizePeaks(peaks)
	return Envelope{Peaks: peaks}, nil
}

// Duration returns the container duration in milliseconds. The value is
// advisory: any probe or parse failure yields 0.
func (e *Extractor) Duration(ctx context.Context, path string) (float64, error) {
	out, err := e.run(ctx, e.FFprobePath,
		"-v", "quiet", "-show_entries", "format=duration", "-of", "csv=p=0", path)
	if err != nil {
		if _, exited := err.(*exec.ExitError); exited {
			return 0, nil
		}
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, nil
	}
	return secs * 1000, nil
}

func parseSamples(raw []byte) []int16 {
	n := len(raw) / 2
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return samples
}

// binPeaks splits the stream into bins contiguous windows and takes the
// maximum absolute magnitude of each. Windows past the end of the stream
// yield 0.
func binPeaks(samples []int16, bins int) []float64 {
	n := len(samples)
	binSize := n / bins
	if binSize < 1 {
		binSize = 1
	}

	peaks := make([]float64, bins)
	for i := 0; i < bins; i++ {
		start := i * binSize
		if start >= n {
			continue
		}
		end := start + binSize
		if end > n {
			end = n
		}
		var peak float64
		for _, s := range samples[start:end] {
			v := float64(s)
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		peaks[i] = peak
	}
	return peaks
}

// normalizePeaks scales in place by the global maximum. An all-zero input
// stays all zero.
func normalizePeaks(peaks []float64) {
	var mx float64
	for _, p := range peaks {
		if p > mx {
			mx = p
		}
	}
	if mx == 0 {
		return
	}
	for i := range peaks {
		peaks[i] /= mx
	}
}

// Render maps up to width peaks onto the eight glyph levels. Pure
// formatting: peak 0 is the lowest glyph, peak 1 the highest.
func Render(env Envelope, width int) string {
	var b strings.Builder
	for i, p := range env.Peaks {
		if i >= width {
			break
		}
		idx := int(p * float64(len(glyphs)-1))
		if idx > len(glyphs)-1 {
			idx = len(glyphs) - 1
		}
		b.WriteRune(glyphs[idx])
	}
	return b.String()
}
