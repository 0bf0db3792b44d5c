package player

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beatgen/studio/internal/edit"
)

// RefSampleRate is the fixed reference rate the pitch shift resamples
// against.
const RefSampleRate = 44100

// Stage is one named filter with its argument string, e.g.
// {"afade", "t=in:d=0.100"}.
type Stage struct {
	Name string
	Args string
}

func (s Stage) String() string {
	if s.Args == "" {
		return s.Name
	}
	return s.Name + "=" + s.Args
}

// Chain is an ordered filter-stage list. Stage order is audible: each
// stage's parameters assume the output of the previous one.
type Chain []Stage

// String renders the chain as an ffmpeg -af filtergraph.
func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

// Compile turns an edit model plus known duration into the filter chain,
// with an optional pitch shift appended. An empty chain means the original
// file can be played as-is.
//
// Order is fixed: trim → reverse → fades → gain → tone filters → normalize
// → pitch.
func Compile(e edit.Model, durationMS float64, semitones int) Chain {
	var c Chain

	// 1. Trim, then reset timestamps so fade offsets are relative to the
	// trimmed region.
	if e.TrimStartMS > 0 || e.TrimEndMS > 0 {
		endMS := durationMS - e.TrimEndMS
		if endMS < e.TrimStartMS {
			endMS = e.TrimStartMS + 50 // prevent a zero-length region
		}
		c = append(c, Stage{"atrim", fmt.Sprintf("start_ms=%s:end_ms=%s", formatNum(e.TrimStartMS), formatNum(endMS))})
		c = append(c, Stage{"asetpts", "PTS-STARTPTS"})
	}

	// 2. Reverse operates on the already-trimmed region.
	if e.Reverse {
		c = append(c, Stage{Name: "areverse"})
	}

	// 3. Fades. Fade lengths are capped at 90% of the effective duration,
	// which itself is floored at 50ms.
	effectiveS := (durationMS - e.TrimStartMS - e.TrimEndMS) / 1000
	if effectiveS < 0.05 {
		effectiveS = 0.05
	}

	if e.AttackMS > 0 {
		attackS := math.Min(e.AttackMS/1000, effectiveS*0.9)
		c = append(c, Stage{"afade", fmt.Sprintf("t=in:d=%.3f", attackS)})
	}
	if e.ReleaseMS > 0 {
		releaseS := math.Min(e.ReleaseMS/1000, effectiveS*0.9)
		fadeStart := math.Max(effectiveS-releaseS, 0)
		c = append(c, Stage{"afade", fmt.Sprintf("t=out:st=%.3f:d=%.3f", fadeStart, releaseS)})
	}

	// 4. Gain.
	if e.GainDB != 0 {
		c = append(c, Stage{"volume", formatNum(e.GainDB) + "dB"})
	}

	// 5. Tone filters. The range extremes mean "off".
	if e.HighPassHz > edit.HighPassMin {
		c = append(c, Stage{"highpass", fmt.Sprintf("f=%d", e.HighPassHz)})
	}
	if e.LowPassHz < edit.LowPassMax {
		c = append(c, Stage{"lowpass", fmt.Sprintf("f=%d", e.LowPassHz)})
	}

	// 6. Normalize last, so the peak reflects all prior shaping.
	if e.Normalize {
		c = append(c, Stage{Name: "dynaudnorm"})
	}

	// 7. Pitch shift, independent of the edit chain.
	c = append(c, PitchChain(semitones)...)

	return c
}

// PitchChain returns the two-stage resample pitch shift: raise the nominal
// rate by 2^(semitones/12), then resample back to the reference rate. This
// changes playback duration as a side effect; that is accepted, not
// corrected.
func PitchChain(semitones int) Chain {
	if semitones == 0 {
		return nil
	}
	factor := math.Pow(2, float64(semitones)/12)
	return Chain{
		{"asetrate", fmt.Sprintf("%d*%s", RefSampleRate, strconv.FormatFloat(factor, 'f', -1, 64))},
		{"aresample", strconv.Itoa(RefSampleRate)},
	}
}

// formatNum prints a float without a trailing ".0" for whole values.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
