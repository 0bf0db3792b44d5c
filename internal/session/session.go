// Package session holds studio session state and its SQLite persistence.
package session

import (
	"encoding/json"
	"time"

	"github.com/beatgen/studio/internal/edit"
)

// Session is one named studio project: generation parameters plus the
// per-instrument selections, prompts, edits, and mix volumes.
type Session struct {
	Name      string
	Genre     string
	Key       string
	BPM       int
	Seed      *int64
	Variety   float64
	Density   float64
	Weirdness float64
	Duration  *int
	Preset    string

	SamplesDir  string
	Selections  map[string]string  // instrument -> filename
	Prompts     map[string]string  // instrument -> custom prompt
	MixVolumes  map[string]float64 // instrument -> gain dB
	Arrangement json.RawMessage

	// edits holds only instruments with non-default edits; absence of an
	// entry means "default model".
	edits map[string]edit.Model

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New returns a session with the studio defaults.
func New(name string) *Session {
	return &Session{
		Name:       name,
		Genre:      "trip-hop",
		Key:        "C",
		BPM:        120,
		Variety:    0.5,
		Density:    0.5,
		Weirdness:  0.3,
		Selections: make(map[string]string),
		Prompts:    make(map[string]string),
		MixVolumes: make(map[string]float64),
	}
}

// Edits returns the instrument's edit model, defaulting when none is
// stored. The caller gets a value copy; mutations only persist through
// SetEdits.
func (s *Session) Edits(instrument string) edit.Model {
	if m, ok := s.edits[instrument]; ok {
		return m
	}
	return edit.Default()
}

// SetEdits stores the instrument's edits, dropping the entry entirely when
// the model is default so that "has custom edits" stays a cheap existence
// check and persisted sessions never carry default records.
func (s *Session) SetEdits(instrument string, m edit.Model) {
	if m.IsDefault() {
		delete(s.edits, instrument)
		return
	}
	if s.edits == nil {
		s.edits = make(map[string]edit.Model)
	}
	s.edits[instrument] = m
}

// HasEdits reports whether the instrument has non-default edits.
func (s *Session) HasEdits(instrument string) bool {
	_, ok := s.edits[instrument]
	return ok
}

// EditedInstruments returns the instruments carrying non-default edits.
func (s *Session) EditedInstruments() []string {
	out := make([]string, 0, len(s.edits))
	for inst := range s.edits {
		out = append(out, inst)
	}
	return out
}
