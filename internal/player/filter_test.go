package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatgen/studio/internal/edit"
)

func stageNames(c Chain) []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.Name
	}
	return names
}

func TestCompileDefaultIsEmpty(t *testing.T) {
	c := Compile(edit.Default(), 1000, 0)
	assert.Empty(t, c)
	assert.Equal(t, "", c.String())
}

func TestCompileStageOrder(t *testing.T) {
	e := edit.Default()
	e.TrimStartMS = 100
	e.TrimEndMS = 100
	e.Reverse = true
	e.AttackMS = 50
	e.ReleaseMS = 50
	e.GainDB = 3
	e.HighPassHz = 200
	e.LowPassHz = 8000
	e.Normalize = true

	c := Compile(e, 2000, 5)

	assert.Equal(t, []string{
		"atrim", "asetpts", "areverse", "afade", "afade",
		"volume", "highpass", "lowpass", "dynaudnorm",
		"asetrate", "aresample",
	}, stageNames(c))
}

func TestCompileTrimClamp(t *testing.T) {
	e := edit.Default()
	e.TrimStartMS = 900
	e.TrimEndMS = 300

	c := Compile(e, 1000, 0)

	require.NotEmpty(t, c)
	assert.Equal(t, "atrim=start_ms=900:end_ms=950", c[0].String())
	assert.Equal(t, "asetpts=PTS-STARTPTS", c[1].String())
}

func TestCompileFadeClamp(t *testing.T) {
	e := edit.Default()
	e.AttackMS = 5000

	c := Compile(e, 1000, 0)

	require.Len(t, c, 1)
	assert.Equal(t, "afade=t=in:d=0.900", c[0].String())
}

func TestCompileReleaseOffset(t *testing.T) {
	e := edit.Default()
	e.ReleaseMS = 300

	c := Compile(e, 1000, 0)

	require.Len(t, c, 1)
	assert.Equal(t, "afade=t=out:st=0.700:d=0.300", c[0].String())
}

func TestCompileEffectiveDurationFloor(t *testing.T) {
	// Duration 0 would make the fade math degenerate; it is floored at
	// 50ms, so the attack caps at 45ms.
	e := edit.Default()
	e.AttackMS = 1000

	c := Compile(e, 0, 0)

	require.Len(t, c, 1)
	assert.Equal(t, "afade=t=in:d=0.045", c[0].String())
}

func TestCompileToneFilterThresholds(t *testing.T) {
	// The range extremes mean "off".
	e := edit.Default()
	assert.Empty(t, Compile(e, 1000, 0))

	e.HighPassHz = 21
	e.LowPassHz = 19999
	c := Compile(e, 1000, 0)
	assert.Equal(t, []string{"highpass", "lowpass"}, stageNames(c))
	assert.Equal(t, "highpass=f=21", c[0].String())
	assert.Equal(t, "lowpass=f=19999", c[1].String())
}

func TestCompileGainEmission(t *testing.T) {
	e := edit.Default()
	e.GainDB = -6
	c := Compile(e, 1000, 0)

	require.Len(t, c, 1)
	assert.Equal(t, "volume=-6dB", c[0].String())
}

func TestPitchChain(t *testing.T) {
	assert.Nil(t, PitchChain(0))

	// +12 semitones doubles the rate exactly.
	c := PitchChain(12)
	require.Len(t, c, 2)
	assert.Equal(t, "asetrate=44100*2", c[0].String())
	assert.Equal(t, "aresample=44100", c[1].String())

	// -12 halves it.
	c = PitchChain(-12)
	assert.Equal(t, "asetrate=44100*0.5", c[0].String())
}

func TestChainString(t *testing.T) {
	c := Chain{{Name: "areverse"}, {"volume", "3dB"}}
	assert.Equal(t, "areverse,volume=3dB", c.String())
}
