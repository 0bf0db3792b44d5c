// Package app implements the terminal UI for the sample studio.
package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/beatgen/studio/internal/beatgen"
	"github.com/beatgen/studio/internal/catalog"
	"github.com/beatgen/studio/internal/edit"
	"github.com/beatgen/studio/internal/lane"
	"github.com/beatgen/studio/internal/player"
	"github.com/beatgen/studio/internal/session"
	"github.com/beatgen/studio/internal/waveform"
)

const (
	pitchMin = -12
	pitchMax = 12

	playbackPollInterval = 500 * time.Millisecond
	errorDisplayTime     = 4 * time.Second

	// Lane names. Starting work on a lane cancels whatever was already
	// running on it.
	lanePlayback  = "playback"
	laneWaveform  = "waveform"
	laneGenerate  = "generate"
	laneSampleGen = "sample_gen"
	laneRender    = "render"
)

// Deps bundles the engine components the UI drives.
type Deps struct {
	Catalog *catalog.Catalog
	Player  *player.Player
	Wave    *waveform.Extractor
	Gen     *beatgen.Client
	Store   *session.Store
	Lanes   *lane.Runner
	Session *session.Session
	Log     *logrus.Logger
}

// Model is the bubbletea model for the studio screen.
type Model struct {
	deps Deps

	samples    map[string][]catalog.SampleRecord
	instIdx    int
	variantIdx map[string]int

	pitch    int
	playing  bool
	ticking  bool
	editing  bool
	paramIdx int

	envelope waveform.Envelope
	envPath  string

	generating   map[string]bool
	rendering    bool
	renderPct    int
	renderMix    string
	renderEvents chan renderEvent

	statusText   string
	errorMessage string

	width  int
	height int
}

// NewModel builds the initial model around the wired dependencies.
func NewModel(deps Deps) Model {
	return Model{
		deps:       deps,
		samples:    make(map[string][]catalog.SampleRecord),
		variantIdx: make(map[string]int),
		generating: make(map[string]bool),
	}
}

func (m Model) Init() tea.Cmd {
	return m.scanCmd()
}

// instruments returns the display-ordered instrument list.
func (m Model) instruments() []string {
	return catalog.AllInstruments
}

// currentInstrument returns the instrument under the cursor.
func (m Model) currentInstrument() string {
	insts := m.instruments()
	if m.instIdx < 0 || m.instIdx >= len(insts) {
		return ""
	}
	return insts[m.instIdx]
}

// currentSample returns the selected sample record, if any.
func (m Model) currentSample() (catalog.SampleRecord, bool) {
	inst := m.currentInstrument()
	recs := m.samples[inst]
	if len(recs) == 0 {
		return catalog.SampleRecord{}, false
	}
	idx := m.variantIdx[inst]
	if idx < 0 || idx >= len(recs) {
		idx = 0
	}
	return recs[idx], true
}

// sampleDurationMS returns the best duration guess for the selected sample:
// the probed envelope duration when it answers the same path, otherwise the
// size-based estimate.
func (m Model) sampleDurationMS(rec catalog.SampleRecord) float64 {
	if m.envPath == rec.Path && m.envelope.DurationMS > 0 {
		return m.envelope.DurationMS
	}
	return rec.EstimatedDuration * 1000
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case samplesScannedMsg:
		m.samples = msg.Samples
		for inst, idx := range m.variantIdx {
			if n := len(m.samples[inst]); idx >= n {
				m.variantIdx[inst] = maxInt(n-1, 0)
			}
		}
		return m, m.loadWaveformCmd()

	case waveformLoadedMsg:
		// Stale answers for a sample we have since navigated away from
		// are dropped.
		if rec, ok := m.currentSample(); !ok || rec.Path != msg.Path {
			return m, nil
		}
		m.envelope = msg.Envelope
		m.envPath = msg.Path
		return m, nil

	case playbackStartedMsg:
		m.playing = true
		m.statusText = "playing " + msg.File
		if m.ticking {
			return m, nil
		}
		m.ticking = true
		return m, m.tickCmd()

	case playbackErrorMsg:
		m.playing = false
		return m, m.reportError(msg.Err)

	case playbackTickMsg:
		if m.deps.Player.IsPlaying() {
			return m, m.tickCmd()
		}
		m.playing = false
		m.ticking = false
		m.statusText = ""
		return m, nil

	case sampleDeletedMsg:
		if msg.Err != nil {
			return m, m.reportError(msg.Err)
		}
		m.statusText = "deleted " + filepath.Base(msg.Path)
		return m, m.scanCmd()

	case arrangementMsg:
		if msg.Err != nil {
			return m, m.reportError(msg.Err)
		}
		m.deps.Session.Arrangement = msg.Data
		m.statusText = "arrangement generated"
		return m, nil

	case samplesGeneratedMsg:
		delete(m.generating, msg.Instrument)
		if msg.Err != nil {
			return m, m.reportError(msg.Err)
		}
		m.statusText = fmt.Sprintf("generated %d file(s) for %s", len(msg.Files), msg.Instrument)
		return m, m.scanCmd()

	case renderStartedMsg:
		m.rendering = true
		m.renderPct = 0
		m.renderEvents = msg.Events
		return m, listenRenderCmd(msg.Events)

	case renderProgressMsg:
		m.renderPct = msg.Pct
		if m.renderEvents == nil {
			return m, nil
		}
		return m, listenRenderCmd(m.renderEvents)

	case renderDoneMsg:
		m.rendering = false
		m.renderEvents = nil
		if msg.Err != nil {
			return m, m.reportError(msg.Err)
		}
		m.renderMix = msg.Mix
		m.statusText = fmt.Sprintf("rendered %s (%.1fs)", msg.Mix, msg.DurationMS/1000)
		return m, nil

	case sessionSavedMsg:
		if msg.Err != nil {
			return m, m.reportError(msg.Err)
		}
		m.statusText = "session saved"
		return m, nil

	case clearErrorMsg:
		m.errorMessage = ""
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case KeyQuit, KeyCtrlC:
		m.deps.Lanes.Shutdown()
		m.deps.Player.Cleanup()
		return m, tea.Quit

	case KeyStop:
		m.deps.Lanes.Cancel(lanePlayback)
		m.deps.Player.Stop()
		m.playing = false
		m.statusText = ""
		return m, nil
	}

	if m.editing {
		if next, cmd, handled := m.handleEditorKey(key); handled {
			return next, cmd
		}
	}

	switch key {
	case KeyUp, KeyK:
		if m.editing {
			return m, nil
		}
		if m.instIdx > 0 {
			m.instIdx--
			return m, m.selectionChanged()
		}
		return m, nil

	case KeyDown, KeyJ:
		if m.editing {
			return m, nil
		}
		if m.instIdx < len(m.instruments())-1 {
			m.instIdx++
			return m, m.selectionChanged()
		}
		return m, nil

	case KeyLeft:
		return m.moveVariant(-1)

	case KeyRight:
		return m.moveVariant(1)

	case KeySpace, KeyEnter:
		return m, m.playCmd()

	case KeyPitchDown:
		if m.pitch > pitchMin {
			m.pitch--
		}
		return m, nil

	case KeyPitchUp:
		if m.pitch < pitchMax {
			m.pitch++
		}
		return m, nil

	case KeyPitchZero:
		m.pitch = 0
		return m, nil

	case KeyEditor:
		m.editing = !m.editing
		m.paramIdx = 0
		return m, nil

	case KeyDelete:
		return m, m.deleteCmd()

	case KeyGenerate:
		return m.startGenerate()

	case KeyArrange:
		m.statusText = "generating arrangement..."
		return m, m.arrangeCmd()

	case KeyRender:
		if m.rendering {
			return m, nil
		}
		return m, m.renderCmd()

	case KeySave:
		return m, m.saveCmd()
	}

	return m, nil
}

// handleEditorKey consumes keys that only have meaning while the editor
// panel is open. Unhandled keys fall through to the main bindings.
func (m Model) handleEditorKey(key string) (Model, tea.Cmd, bool) {
	inst := m.currentInstrument()
	if inst == "" {
		return m, nil, false
	}
	edits := m.deps.Session.Edits(inst)

	switch key {
	case KeyUp, KeyK:
		if m.paramIdx > 0 {
			m.paramIdx--
		}
		return m, nil, true

	case KeyDown, KeyJ:
		if m.paramIdx < len(editorParams)-1 {
			m.paramIdx++
		}
		return m, nil, true

	case KeyLeft:
		m.deps.Session.SetEdits(inst, adjustParam(edits, m.paramIdx, -1, false))
		return m, nil, true

	case KeyRight:
		m.deps.Session.SetEdits(inst, adjustParam(edits, m.paramIdx, 1, false))
		return m, nil, true

	case KeyShiftLeft:
		m.deps.Session.SetEdits(inst, adjustParam(edits, m.paramIdx, -1, true))
		return m, nil, true

	case KeyShiftRight:
		m.deps.Session.SetEdits(inst, adjustParam(edits, m.paramIdx, 1, true))
		return m, nil, true

	case KeyNormalize:
		edits.Normalize = !edits.Normalize
		m.deps.Session.SetEdits(inst, edits)
		return m, nil, true

	case KeyReverse:
		edits.Reverse = !edits.Reverse
		m.deps.Session.SetEdits(inst, edits)
		return m, nil, true

	case KeyResetEdit:
		m.deps.Session.SetEdits(inst, edit.Default())
		return m, nil, true
	}

	return m, nil, false
}

func (m Model) moveVariant(delta int) (tea.Model, tea.Cmd) {
	if m.editing {
		return m, nil
	}
	inst := m.currentInstrument()
	recs := m.samples[inst]
	if len(recs) == 0 {
		return m, nil
	}
	idx := m.variantIdx[inst] + delta
	if idx < 0 || idx >= len(recs) {
		return m, nil
	}
	m.variantIdx[inst] = idx
	m.deps.Session.Selections[inst] = recs[idx].Filename
	return m, m.selectionChanged()
}

// selectionChanged refreshes the waveform for the newly selected sample.
func (m *Model) selectionChanged() tea.Cmd {
	m.envelope = waveform.Envelope{}
	m.envPath = ""
	if inst := m.currentInstrument(); inst != "" {
		if recs := m.samples[inst]; len(recs) > 0 {
			if f, ok := m.deps.Session.Selections[inst]; ok {
				for i, r := range recs {
					if r.Filename == f {
						m.variantIdx[inst] = i
						break
					}
				}
			}
		}
	}
	return m.loadWaveformCmd()
}

func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	inst := m.currentInstrument()
	if inst == "" || m.generating[inst] {
		return m, nil
	}
	m.generating[inst] = true
	m.statusText = "generating " + inst + "..."
	return m, m.generateCmd(inst)
}

// reportError surfaces the error and schedules its removal.
func (m *Model) reportError(err error) tea.Cmd {
	m.deps.Log.WithError(err).Error("operation failed")
	m.errorMessage = err.Error()
	return tea.Tick(errorDisplayTime, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// padRight pads or truncates s to exactly width display cells.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return truncateToWidth(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

func truncateToWidth(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
