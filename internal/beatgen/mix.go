package beatgen

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// mixConfig is the JSON shape the render CLI expects for per-track gains.
type mixConfig struct {
	Tracks map[string]trackGain `json:"tracks"`
	Master trackGain            `json:"master"`
}

type trackGain struct {
	Gain float64 `json:"gain"`
}

// WriteMixConfig writes the session's non-zero mix volumes to a temp JSON
// file for the CLI and returns its path. When every volume is zero there is
// nothing to configure and it returns "". The caller removes the file after
// the render.
func WriteMixConfig(volumes map[string]float64) (string, error) {
	cfg := mixConfig{Tracks: make(map[string]trackGain)}
	for inst, db := range volumes {
		if db != 0 {
			cfg.Tracks[inst] = trackGain{Gain: db}
		}
	}
	if len(cfg.Tracks) == 0 {
		return "", nil
	}

	f, err := os.CreateTemp("", "mix-*.json")
	if err != nil {
		return "", fmt.Errorf("create mix config: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write mix config: %w", err)
	}
	return f.Name(), nil
}

// MixDuration reads the duration of a rendered mix straight from its WAV
// container, in milliseconds. Advisory: any open or decode failure yields 0.
func MixDuration(path string) float64 {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	dur, err := wav.NewDecoder(f).Duration()
	if err != nil {
		return 0
	}
	return float64(dur.Milliseconds())
}
