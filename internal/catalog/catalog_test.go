package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestScanDrumNotePattern(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "36-kick.wav", 88200)

	got := New(dir).Scan()

	require.Len(t, got["kick"], 1)
	rec := got["kick"][0]
	assert.Equal(t, "kick", rec.Instrument)
	assert.Equal(t, 36, rec.MIDINote)
	assert.Equal(t, 0, rec.VariantNum)
	assert.Equal(t, int64(88200), rec.SizeBytes)
	assert.InDelta(t, 1.0, rec.EstimatedDuration, 0.001)
}

func TestScanVariantPattern(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "bass-v2.wav", 100)

	got := New(dir).Scan()

	require.Len(t, got["bass"], 1)
	assert.Equal(t, "bass", got["bass"][0].Instrument)
	assert.Equal(t, 2, got["bass"][0].VariantNum)
	assert.Equal(t, 0, got["bass"][0].MIDINote)
}

func TestScanBareName(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "snare.wav", 100)
	writeSample(t, dir, "SNARE.mp3", 100) // case-insensitive

	got := New(dir).Scan()

	require.Len(t, got["snare"], 2)
	assert.Equal(t, 0, got["snare"][0].VariantNum)
}

func TestScanSkipsUnknownFiles(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "99-unknown.wav", 100) // no note mapping
	writeSample(t, dir, "guitar-v1.wav", 100)  // not an instrument
	writeSample(t, dir, "readme.txt", 100)     // not audio
	writeSample(t, dir, "49-crash.wav", 100)   // known note, unbucketed instrument

	got := New(dir).Scan()

	for inst, recs := range got {
		assert.Empty(t, recs, "instrument %s should have no samples", inst)
	}
}

func TestScanMissingDirectory(t *testing.T) {
	got := New(filepath.Join(t.TempDir(), "nope")).Scan()

	assert.Len(t, got, len(AllInstruments))
	for _, inst := range AllInstruments {
		recs, ok := got[inst]
		assert.True(t, ok, "bucket %s missing", inst)
		assert.Empty(t, recs)
	}
}

func TestClassificationPrecedence(t *testing.T) {
	// A drum-note prefix wins over everything else: "36-kick" must not be
	// treated as a bare name or variant.
	dir := t.TempDir()
	writeSample(t, dir, "36-snare.wav", 100)

	got := New(dir).Scan()

	require.Len(t, got["kick"], 1, "note 36 maps to kick regardless of suffix text")
	assert.Empty(t, got["snare"])
}

func TestDeleteIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir, "kick.wav", 10)

	c := New(dir)
	require.NoError(t, c.Delete(path))
	require.NoError(t, c.Delete(path)) // already gone

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSortedVariants(t *testing.T) {
	recs := []SampleRecord{
		{Filename: "bass-v3.wav", VariantNum: 3},
		{Filename: "bass-v1.wav", VariantNum: 1},
		{Filename: "bass.wav"},
	}
	got := SortedVariants(recs)

	assert.Equal(t, "bass.wav", got[0].Filename)
	assert.Equal(t, "bass-v1.wav", got[1].Filename)
	assert.Equal(t, "bass-v3.wav", got[2].Filename)
}

func TestDefaultPromptDeterministic(t *testing.T) {
	assert.Equal(t, "deep kick drum trip-hop warm", DefaultPrompt("kick", "trip-hop"))
	assert.Equal(t, DefaultPrompt("pad", "house"), DefaultPrompt("pad", "house"))
	assert.Equal(t, "theremin ambient", DefaultPrompt("theremin", "ambient"))
}
