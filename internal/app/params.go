package app

import (
	"fmt"

	"github.com/beatgen/studio/internal/edit"
)

// paramSpec describes one editor parameter: its steps, bounds, and how to
// read/write it on the edit model.
type paramSpec struct {
	label  string
	fine   float64
	coarse float64
	min    float64
	max    float64
	get    func(edit.Model) float64
	set    func(*edit.Model, float64)
	format func(float64) string
}

// editorParams is the fixed parameter list shown in the editor, in display
// order. Normalize and reverse are toggles handled separately.
var editorParams = []paramSpec{
	{
		label: "Attack", fine: 10, coarse: 100, min: 0, max: edit.FadeMaxMS,
		get:    func(m edit.Model) float64 { return m.AttackMS },
		set:    func(m *edit.Model, v float64) { m.AttackMS = v },
		format: formatMS,
	},
	{
		label: "Release", fine: 10, coarse: 100, min: 0, max: edit.FadeMaxMS,
		get:    func(m edit.Model) float64 { return m.ReleaseMS },
		set:    func(m *edit.Model, v float64) { m.ReleaseMS = v },
		format: formatMS,
	},
	{
		label: "Gain", fine: 1, coarse: 3, min: edit.GainMinDB, max: edit.GainMaxDB,
		get:    func(m edit.Model) float64 { return m.GainDB },
		set:    func(m *edit.Model, v float64) { m.GainDB = v },
		format: func(v float64) string { return fmt.Sprintf("%+.0fdB", v) },
	},
	{
		label: "HP", fine: 10, coarse: 100, min: edit.HighPassMin, max: edit.HighPassMax,
		get:    func(m edit.Model) float64 { return float64(m.HighPassHz) },
		set:    func(m *edit.Model, v float64) { m.HighPassHz = int(v) },
		format: formatHz,
	},
	{
		label: "LP", fine: 100, coarse: 1000, min: edit.LowPassMin, max: edit.LowPassMax,
		get:    func(m edit.Model) float64 { return float64(m.LowPassHz) },
		set:    func(m *edit.Model, v float64) { m.LowPassHz = int(v) },
		format: formatHz,
	},
	{
		label: "Trim start", fine: 10, coarse: 100, min: 0, max: edit.TrimMaxMS,
		get:    func(m edit.Model) float64 { return m.TrimStartMS },
		set:    func(m *edit.Model, v float64) { m.TrimStartMS = v },
		format: formatMS,
	},
	{
		label: "Trim end", fine: 10, coarse: 100, min: 0, max: edit.TrimMaxMS,
		get:    func(m edit.Model) float64 { return m.TrimEndMS },
		set:    func(m *edit.Model, v float64) { m.TrimEndMS = v },
		format: formatMS,
	},
}

// adjustParam applies one step to the indexed parameter, clamped to its
// bounds, and returns the updated model.
func adjustParam(m edit.Model, idx int, direction float64, coarse bool) edit.Model {
	if idx < 0 || idx >= len(editorParams) {
		return m
	}
	p := editorParams[idx]
	step := p.fine
	if coarse {
		step = p.coarse
	}
	v := p.get(m) + step*direction
	if v < p.min {
		v = p.min
	}
	if v > p.max {
		v = p.max
	}
	p.set(&m, v)
	return m
}

func formatMS(v float64) string {
	return fmt.Sprintf("%dms", int(v))
}

func formatHz(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%dkHz", int(v)/1000)
	}
	return fmt.Sprintf("%dHz", int(v))
}
