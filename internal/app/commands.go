package app

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/beatgen/studio/internal/beatgen"
	"github.com/beatgen/studio/internal/catalog"
	"github.com/beatgen/studio/internal/session"
	"github.com/beatgen/studio/internal/waveform"
)

// scanCmd rescans the sample directory and sorts each bucket by variant.
func (m Model) scanCmd() tea.Cmd {
	return func() tea.Msg {
		buckets := m.deps.Catalog.Scan()
		for inst, recs := range buckets {
			buckets[inst] = catalog.SortedVariants(recs)
		}
		return samplesScannedMsg{Samples: buckets}
	}
}

// loadWaveformCmd extracts the envelope for the selected sample on the
// waveform lane. Navigating again supersedes the in-flight extraction.
func (m Model) loadWaveformCmd() tea.Cmd {
	rec, ok := m.currentSample()
	if !ok {
		return nil
	}
	ctx := m.deps.Lanes.Replace(laneWaveform)
	wave := m.deps.Wave
	log := m.deps.Log
	return func() tea.Msg {
		env, err := wave.Extract(ctx, rec.Path, waveform.DefaultBins)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			log.WithError(err).WithField("path", rec.Path).Warn("waveform extraction failed")
			env = waveform.Envelope{}
		}
		if ms, err := wave.Duration(ctx, rec.Path); err == nil {
			env.DurationMS = ms
		}
		if ctx.Err() != nil {
			return nil
		}
		return waveformLoadedMsg{Path: rec.Path, Envelope: env}
	}
}

// playCmd auditions the selected sample with the instrument's current edits
// and the global pitch offset.
func (m Model) playCmd() tea.Cmd {
	rec, ok := m.currentSample()
	if !ok {
		return nil
	}
	inst := m.currentInstrument()
	edits := m.deps.Session.Edits(inst)
	durationMS := m.sampleDurationMS(rec)
	pitch := m.pitch
	ctx := m.deps.Lanes.Replace(lanePlayback)
	p := m.deps.Player
	return func() tea.Msg {
		err := p.PlayWithEdits(ctx, rec.Path, edits, durationMS, pitch)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return playbackErrorMsg{Err: err}
		}
		return playbackStartedMsg{File: rec.Filename}
	}
}

// tickCmd schedules the next liveness poll for the playback indicator.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(playbackPollInterval, func(time.Time) tea.Msg {
		return playbackTickMsg{}
	})
}

// deleteCmd removes the selected sample file from disk.
func (m Model) deleteCmd() tea.Cmd {
	rec, ok := m.currentSample()
	if !ok {
		return nil
	}
	cat := m.deps.Catalog
	return func() tea.Msg {
		return sampleDeletedMsg{Path: rec.Path, Err: cat.Delete(rec.Path)}
	}
}

// generateCmd produces new sample variants for the instrument: drums go
// through a text prompt, pitched and texture instruments through the
// instrument synthesis mode.
func (m Model) generateCmd(inst string) tea.Cmd {
	sess := m.deps.Session
	gen := m.deps.Gen
	outDir := m.deps.Catalog.Dir
	ctx := m.deps.Lanes.Replace(laneSampleGen)

	drum := false
	for _, d := range catalog.DrumInstruments {
		if d == inst {
			drum = true
			break
		}
	}
	prompt := sess.Prompts[inst]
	if prompt == "" {
		prompt = catalog.DefaultPrompt(inst, sess.Genre)
	}
	genre := sess.Genre

	return func() tea.Msg {
		var files []string
		var err error
		if drum {
			files, err = gen.GenerateSample(ctx, prompt, outDir, 1)
		} else {
			files, err = gen.GenerateInstrumentSample(ctx, genre, outDir, 1)
		}
		if ctx.Err() != nil {
			return nil
		}
		return samplesGeneratedMsg{Instrument: inst, Files: files, Err: err}
	}
}

// arrangeCmd regenerates the arrangement pattern for the session.
func (m Model) arrangeCmd() tea.Cmd {
	sess := m.deps.Session
	gen := m.deps.Gen
	ctx := m.deps.Lanes.Replace(laneGenerate)
	opts := optionsFromSession(sess)
	return func() tea.Msg {
		data, err := gen.GenerateArrangement(ctx, sess.Genre, sess.Key, sess.BPM, opts)
		if ctx.Err() != nil {
			return nil
		}
		return arrangementMsg{Data: data, Err: err}
	}
}

// renderCmd starts a full-track render in the background and returns a
// channel the update loop drains for progress and completion.
func (m Model) renderCmd() tea.Cmd {
	sess := m.deps.Session
	gen := m.deps.Gen
	samplesDir := m.deps.Catalog.Dir
	ctx := m.deps.Lanes.Replace(laneRender)
	opts := optionsFromSession(sess)

	events := make(chan renderEvent, 16)
	go func() {
		defer close(events)

		mixCfg, err := beatgen.WriteMixConfig(sess.MixVolumes)
		if err != nil {
			events <- renderEvent{done: true, err: err}
			return
		}
		if mixCfg != "" {
			defer os.Remove(mixCfg)
		}

		mix, err := gen.RenderFullTrack(ctx, sess.Genre, sess.Key, sess.BPM,
			samplesDir, mixCfg, opts, func(line string) {
				if pct, ok := parseRenderProgress(line); ok {
					select {
					case events <- renderEvent{pct: pct}:
					default:
					}
				}
			})

		var durationMS float64
		if err == nil {
			durationMS = beatgen.MixDuration(mix)
		}
		events <- renderEvent{done: true, mix: mix, durationMS: durationMS, err: err}
	}()

	return func() tea.Msg {
		return renderStartedMsg{Events: events}
	}
}

// listenRenderCmd waits for the next render event.
func listenRenderCmd(events chan renderEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		if ev.done {
			return renderDoneMsg{Mix: ev.mix, DurationMS: ev.durationMS, Err: ev.err}
		}
		return renderProgressMsg{Pct: ev.pct}
	}
}

// saveCmd persists the session.
func (m Model) saveCmd() tea.Cmd {
	sess := m.deps.Session
	sess.SamplesDir = m.deps.Catalog.Dir
	store := m.deps.Store
	return func() tea.Msg {
		return sessionSavedMsg{Err: store.Save(sess)}
	}
}

// optionsFromSession maps session parameters onto CLI options. Slider
// values always have a meaning in the session, so they are always passed.
func optionsFromSession(sess *session.Session) beatgen.Options {
	variety, density, weirdness := sess.Variety, sess.Density, sess.Weirdness
	return beatgen.Options{
		Seed:      sess.Seed,
		Variety:   &variety,
		Density:   &density,
		Weirdness: &weirdness,
		Duration:  sess.Duration,
		Preset:    sess.Preset,
	}
}
