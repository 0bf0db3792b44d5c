package app

import (
	"encoding/json"

	"github.com/beatgen/studio/internal/catalog"
	"github.com/beatgen/studio/internal/waveform"
)

// samplesScannedMsg carries a fresh catalog scan.
type samplesScannedMsg struct {
	Samples map[string][]catalog.SampleRecord
}

// waveformLoadedMsg carries the envelope extracted for a sample path. The
// path identifies which request this answers; stale answers are dropped.
type waveformLoadedMsg struct {
	Path     string
	Envelope waveform.Envelope
}

// playbackStartedMsg is sent when a playback process has been launched.
type playbackStartedMsg struct {
	File string
}

// playbackErrorMsg is sent when playback or its render step failed.
type playbackErrorMsg struct {
	Err error
}

// playbackTickMsg polls whether the playback process is still alive.
type playbackTickMsg struct{}

// sampleDeletedMsg is sent after a delete attempt; a rescan follows.
type sampleDeletedMsg struct {
	Path string
	Err  error
}

// arrangementMsg carries a generated arrangement pattern.
type arrangementMsg struct {
	Data json.RawMessage
	Err  error
}

// samplesGeneratedMsg is sent when the generation backend finished
// producing sample files for an instrument.
type samplesGeneratedMsg struct {
	Instrument string
	Files      []string
	Err        error
}

// renderStartedMsg hands over the event channel of an in-flight full-track
// render.
type renderStartedMsg struct {
	Events chan renderEvent
}

// renderProgressMsg updates the render progress percentage.
type renderProgressMsg struct {
	Pct int
}

// renderDoneMsg is sent when the full-track render finished.
type renderDoneMsg struct {
	Mix        string
	DurationMS float64
	Err        error
}

// sessionSavedMsg reports the outcome of a background session save.
type sessionSavedMsg struct {
	Err error
}

// clearErrorMsg clears a transient error after a timeout.
type clearErrorMsg struct{}

// renderEvent is one step of an in-flight render: progress or completion.
type renderEvent struct {
	pct        int
	done       bool
	mix        string
	durationMS float64
	err        error
}
