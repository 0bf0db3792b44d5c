package app

import (
	"testing"

	"github.com/beatgen/studio/internal/edit"
)

func paramIndex(t *testing.T, label string) int {
	t.Helper()
	for i, p := range editorParams {
		if p.label == label {
			return i
		}
	}
	t.Fatalf("no editor param %q", label)
	return -1
}

func TestAdjustParamFineStep(t *testing.T) {
	m := adjustParam(edit.Default(), paramIndex(t, "Attack"), 1, false)
	if m.AttackMS != 10 {
		t.Errorf("AttackMS = %v, want 10", m.AttackMS)
	}
}

func TestAdjustParamCoarseStep(t *testing.T) {
	m := adjustParam(edit.Default(), paramIndex(t, "Release"), 1, true)
	if m.ReleaseMS != 100 {
		t.Errorf("ReleaseMS = %v, want 100", m.ReleaseMS)
	}
}

func TestAdjustParamClampsAtBounds(t *testing.T) {
	m := edit.Default()
	m.GainDB = edit.GainMaxDB
	m = adjustParam(m, paramIndex(t, "Gain"), 1, true)
	if m.GainDB != edit.GainMaxDB {
		t.Errorf("GainDB = %v, want clamp at %v", m.GainDB, float64(edit.GainMaxDB))
	}

	m = adjustParam(edit.Default(), paramIndex(t, "Trim start"), -1, false)
	if m.TrimStartMS != 0 {
		t.Errorf("TrimStartMS = %v, want 0", m.TrimStartMS)
	}
}

func TestAdjustParamFilterFrequencies(t *testing.T) {
	m := adjustParam(edit.Default(), paramIndex(t, "HP"), 1, true)
	if m.HighPassHz != edit.HighPassMin+100 {
		t.Errorf("HighPassHz = %d, want %d", m.HighPassHz, edit.HighPassMin+100)
	}

	m = adjustParam(edit.Default(), paramIndex(t, "LP"), -1, true)
	if m.LowPassHz != edit.LowPassMax-1000 {
		t.Errorf("LowPassHz = %d, want %d", m.LowPassHz, edit.LowPassMax-1000)
	}
}

func TestAdjustParamOutOfRangeIndex(t *testing.T) {
	m := adjustParam(edit.Default(), len(editorParams), 1, false)
	if !m.IsDefault() {
		t.Error("out-of-range index mutated the model")
	}
}

func TestParamFormatting(t *testing.T) {
	gain := editorParams[paramIndex(t, "Gain")]
	if got := gain.format(-6); got != "-6dB" {
		t.Errorf("gain format = %q, want %q", got, "-6dB")
	}
	if got := gain.format(3); got != "+3dB" {
		t.Errorf("gain format = %q, want %q", got, "+3dB")
	}

	lp := editorParams[paramIndex(t, "LP")]
	if got := lp.format(20000); got != "20kHz" {
		t.Errorf("lp format = %q, want %q", got, "20kHz")
	}

	hp := editorParams[paramIndex(t, "HP")]
	if got := hp.format(250); got != "250Hz" {
		t.Errorf("hp format = %q, want %q", got, "250Hz")
	}
}
