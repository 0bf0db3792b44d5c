package waveform

import (
	"context"
	"encoding/binary"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcmBytes(samples []int16) []byte {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	return raw
}

func fakeRun(out []byte, err error) runFunc {
	return func(context.Context, string, ...string) ([]byte, error) {
		return out, err
	}
}

func TestNormalizePeaks(t *testing.T) {
	peaks := []float64{4, 8, 2, 0}
	normalizePeaks(peaks)
	assert.Equal(t, []float64{0.5, 1.0, 0.25, 0.0}, peaks)
}

func TestNormalizePeaksAllZero(t *testing.T) {
	peaks := []float64{0, 0, 0}
	normalizePeaks(peaks)
	assert.Equal(t, []float64{0, 0, 0}, peaks)
}

func TestBinPeaks(t *testing.T) {
	// 8 samples into 4 bins of 2: peak is the max absolute value per window.
	samples := []int16{1, -9, 3, 4, 0, 0, -2, 1}
	got := binPeaks(samples, 4)
	assert.Equal(t, []float64{9, 4, 0, 2}, got)
}

func TestBinPeaksShortStream(t *testing.T) {
	// Fewer samples than bins: trailing windows have no samples and stay 0.
	got := binPeaks([]int16{5, -7}, 4)
	assert.Equal(t, []float64{5, 7, 0, 0}, got)
}

func TestRenderGlyphLevels(t *testing.T) {
	env := Envelope{Peaks: []float64{0.0, 0.5, 1.0}}
	got := []rune(Render(env, 50))

	require.Len(t, got, 3)
	assert.Equal(t, '▁', got[0])
	assert.Equal(t, '▄', got[1]) // floor(0.5*7) = 3, fourth of eight levels
	assert.Equal(t, '█', got[2])
}

func TestRenderHonorsWidth(t *testing.T) {
	env := Envelope{Peaks: make([]float64, 50)}
	assert.Len(t, []rune(Render(env, 10)), 10)
}

func TestExtract(t *testing.T) {
	samples := make([]int16, 100)
	samples[10] = 1000
	samples[60] = -500

	e := New()
	e.run = fakeRun(pcmBytes(samples), nil)

	env, err := e.Extract(context.Background(), "x.wav", 2)
	require.NoError(t, err)
	require.Len(t, env.Peaks, 2)
	assert.Equal(t, 1.0, env.Peaks[0])
	assert.Equal(t, 0.5, env.Peaks[1])
}

func TestExtractDecodeFailure(t *testing.T) {
	e := New()
	e.run = fakeRun(nil, &exec.ExitError{})

	env, err := e.Extract(context.Background(), "broken.wav", 5)
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 5), env.Peaks)
}

func TestExtractEmptyStream(t *testing.T) {
	e := New()
	e.run = fakeRun([]byte{0x01}, nil) // less than one sample

	env, err := e.Extract(context.Background(), "tiny.wav", 3)
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 3), env.Peaks)
}

func TestExtractSpawnFailure(t *testing.T) {
	e := New()
	e.run = fakeRun(nil, &exec.Error{Name: "ffmpeg", Err: errors.New("not found")})

	_, err := e.Extract(context.Background(), "x.wav", 5)
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	e := New()
	e.run = fakeRun([]byte("2.500000\n"), nil)

	ms, err := e.Duration(context.Background(), "x.wav")
	require.NoError(t, err)
	assert.InDelta(t, 2500, ms, 0.001)
}

func TestDurationParseFailure(t *testing.T) {
	e := New()
	e.run = fakeRun([]byte("N/A\n"), nil)

	ms, err := e.Duration(context.Background(), "x.wav")
	require.NoError(t, err)
	assert.Equal(t, 0.0, ms)
}

func TestDurationProbeExitFailure(t *testing.T) {
	e := New()
	e.run = fakeRun(nil, &exec.ExitError{})

	ms, err := e.Duration(context.Background(), "x.wav")
	require.NoError(t, err)
	assert.Equal(t, 0.0, ms)
}
