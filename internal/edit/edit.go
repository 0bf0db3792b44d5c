// Package edit holds the non-destructive per-instrument edit model. Edits
// are applied as ffmpeg filters at playback time and never touch the source
// file.
package edit

import "encoding/json"

// Parameter bounds. The filter floor/ceiling values double as "off".
const (
	FadeMaxMS   = 2000
	GainMinDB   = -24
	GainMaxDB   = 12
	HighPassMin = 20
	HighPassMax = 5000
	LowPassMin  = 200
	LowPassMax  = 20000
	TrimMaxMS   = 10000
)

// Model is the edit parameter set for one instrument. The zero value is not
// the default model: use Default, which sets the filter cutoffs to their
// "off" positions.
type Model struct {
	AttackMS    float64 `json:"attack_ms"`
	ReleaseMS   float64 `json:"release_ms"`
	GainDB      float64 `json:"gain_db"`
	Normalize   bool    `json:"normalize"`
	HighPassHz  int     `json:"hp_freq"`
	LowPassHz   int     `json:"lp_freq"`
	Reverse     bool    `json:"reverse"`
	TrimStartMS float64 `json:"trim_start_ms"`
	TrimEndMS   float64 `json:"trim_end_ms"`
}

// Default returns the identity model: no fades, no gain, filters open,
// no trim.
func Default() Model {
	return Model{HighPassHz: HighPassMin, LowPassHz: LowPassMax}
}

// IsDefault reports whether no edits have been made.
func (m Model) IsDefault() bool {
	return m == Default()
}

// MarshalJSON writes only the fields that differ from the default model, so
// an absent key always means "default". A fully default model marshals to
// an empty object.
func (m Model) MarshalJSON() ([]byte, error) {
	d := Default()
	out := make(map[string]any)
	if m.AttackMS != d.AttackMS {
		out["attack_ms"] = m.AttackMS
	}
	if m.ReleaseMS != d.ReleaseMS {
		out["release_ms"] = m.ReleaseMS
	}
	if m.GainDB != d.GainDB {
		out["gain_db"] = m.GainDB
	}
	if m.Normalize != d.Normalize {
		out["normalize"] = m.Normalize
	}
	if m.HighPassHz != d.HighPassHz {
		out["hp_freq"] = m.HighPassHz
	}
	if m.LowPassHz != d.LowPassHz {
		out["lp_freq"] = m.LowPassHz
	}
	if m.Reverse != d.Reverse {
		out["reverse"] = m.Reverse
	}
	if m.TrimStartMS != d.TrimStartMS {
		out["trim_start_ms"] = m.TrimStartMS
	}
	if m.TrimEndMS != d.TrimEndMS {
		out["trim_end_ms"] = m.TrimEndMS
	}
	return json.Marshal(out)
}

// UnmarshalJSON starts from the default model and overlays whatever keys are
// present, so records written by older versions (or with elided defaults)
// load correctly.
func (m *Model) UnmarshalJSON(data []byte) error {
	type alias Model
	a := alias(Default())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Model(a)
	return nil
}

// Clamp returns a copy with every field forced into its legal range.
func (m Model) Clamp() Model {
	m.AttackMS = clampF(m.AttackMS, 0, FadeMaxMS)
	m.ReleaseMS = clampF(m.ReleaseMS, 0, FadeMaxMS)
	m.GainDB = clampF(m.GainDB, GainMinDB, GainMaxDB)
	m.HighPassHz = clampI(m.HighPassHz, HighPassMin, HighPassMax)
	m.LowPassHz = clampI(m.LowPassHz, LowPassMin, LowPassMax)
	m.TrimStartMS = clampF(m.TrimStartMS, 0, TrimMaxMS)
	m.TrimEndMS = clampF(m.TrimEndMS, 0, TrimMaxMS)
	return m
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
