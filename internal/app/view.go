package app

import (
	"fmt"
	"strings"

	"github.com/beatgen/studio/internal/catalog"
	"github.com/beatgen/studio/internal/ui"
	"github.com/beatgen/studio/internal/waveform"
)

const instrumentColWidth = 20

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder

	b.WriteString(m.viewHeader(width))
	b.WriteString("\n")
	b.WriteString(m.viewStatus(width))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(m.viewBody(width))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	if m.errorMessage != "" {
		b.WriteString(ui.ErrorStyle.Render("error: ") + ui.ErrorTextStyle.Render(truncateToWidth(m.errorMessage, width-7)))
		b.WriteString("\n")
	}
	b.WriteString(m.viewFooter())

	return b.String()
}

func (m Model) viewHeader(width int) string {
	sess := m.deps.Session
	title := ui.TitleStyle.Render("BEAT STUDIO")
	info := ui.StatusStyle.Render(fmt.Sprintf("  %s · %s %dbpm %sm", sess.Name, sess.Genre, sess.BPM, sess.Key))
	pitch := ""
	if m.pitch != 0 {
		pitch = ui.EditedMarkStyle.Render(fmt.Sprintf("  pitch %+d", m.pitch))
	}
	return title + info + pitch
}

func (m Model) viewStatus(width int) string {
	var dot string
	if m.playing {
		dot = ui.PlayingDotStyle.Render("●")
	} else {
		dot = ui.IdleDotStyle.Render("○")
	}

	text := m.statusText
	if m.rendering {
		text = fmt.Sprintf("rendering %s", renderBar(m.renderPct, 24))
	}
	return dot + " " + ui.StatusStyle.Render(text)
}

// renderBar draws a fixed-width progress bar for the full-track render.
func renderBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := width * pct / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return ui.ProgressStyle.Render(bar) + fmt.Sprintf(" %d%%", pct)
}

func (m Model) viewBody(width int) string {
	left := m.viewInstruments()
	right := m.viewSamplePanel(width - instrumentColWidth - 3)

	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")
	rows := maxInt(len(leftLines), len(rightLines))

	var b strings.Builder
	for i := 0; i < rows; i++ {
		var l, r string
		if i < len(leftLines) {
			l = leftLines[i]
		}
		if i < len(rightLines) {
			r = rightLines[i]
		}
		b.WriteString(padRight(l, instrumentColWidth))
		b.WriteString(ui.DividerStyle.Render(" │ "))
		b.WriteString(r)
		if i < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) viewInstruments() string {
	var b strings.Builder
	groups := []struct {
		title string
		insts []string
	}{
		{"DRUMS", catalog.DrumInstruments},
		{"PITCHED", catalog.PitchedInstruments},
		{"TEXTURE", catalog.TextureInstruments},
	}

	idx := 0
	for gi, g := range groups {
		if gi > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ui.PanelTitleStyle.Render(g.title))
		b.WriteString("\n")
		for _, inst := range g.insts {
			line := inst
			if n := len(m.samples[inst]); n > 0 {
				line = fmt.Sprintf("%s (%d)", inst, n)
			}
			mark := "  "
			if m.deps.Session.HasEdits(inst) {
				mark = ui.EditedMarkStyle.Render("* ")
			}
			if m.generating[inst] {
				mark = ui.SpinnerStyle.Render("~ ")
			}

			if idx == m.instIdx {
				b.WriteString(mark + ui.SelectedStyle.Render("> "+line))
			} else if len(m.samples[inst]) == 0 {
				b.WriteString(mark + ui.DimStyle.Render("  "+line))
			} else {
				b.WriteString(mark + "  " + line)
			}
			b.WriteString("\n")
			idx++
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewSamplePanel(width int) string {
	if width < 10 {
		width = 10
	}
	inst := m.currentInstrument()
	recs := m.samples[inst]

	var b strings.Builder
	title := ui.PanelTitleStyle
	if m.editing {
		title = ui.PanelTitleActiveStyle
	}
	b.WriteString(title.Render(strings.ToUpper(inst)))
	b.WriteString("\n\n")

	if len(recs) == 0 {
		b.WriteString(ui.DimStyle.Render("no samples · press g to generate"))
		return b.String()
	}

	rec, _ := m.currentSample()
	b.WriteString(fmt.Sprintf("%s  %s\n",
		rec.Filename,
		ui.DimStyle.Render(fmt.Sprintf("[%d/%d]", m.variantIdx[inst]+1, len(recs)))))

	durMS := m.sampleDurationMS(rec)
	b.WriteString(ui.DimStyle.Render(fmt.Sprintf("%.2fs · %.1fkB", durMS/1000, float64(rec.SizeBytes)/1000)))
	b.WriteString("\n\n")

	if m.envPath == rec.Path && len(m.envelope.Peaks) > 0 {
		b.WriteString(ui.WaveformStyle.Render(waveform.Render(m.envelope, width)))
	} else {
		b.WriteString(ui.DimStyle.Render(strings.Repeat("·", minInt(width, waveform.DefaultBins))))
	}
	b.WriteString("\n")

	if m.editing {
		b.WriteString("\n")
		b.WriteString(m.viewEditor())
	}
	return b.String()
}

func (m Model) viewEditor() string {
	inst := m.currentInstrument()
	edits := m.deps.Session.Edits(inst)

	var b strings.Builder
	for i, p := range editorParams {
		label := ui.ParamLabelStyle.Render(padRight(p.label, 11))
		value := p.format(p.get(edits))
		if i == m.paramIdx {
			b.WriteString(ui.ParamActiveStyle.Render("> ") + label + ui.ParamActiveStyle.Render(value))
		} else {
			b.WriteString("  " + label + ui.ParamValueStyle.Render(value))
		}
		b.WriteString("\n")
	}

	b.WriteString("  " + ui.ParamLabelStyle.Render(padRight("Normalize", 11)) + toggleValue(edits.Normalize))
	b.WriteString("\n")
	b.WriteString("  " + ui.ParamLabelStyle.Render(padRight("Reverse", 11)) + toggleValue(edits.Reverse))
	return b.String()
}

func toggleValue(on bool) string {
	if on {
		return ui.EditedMarkStyle.Render("on")
	}
	return ui.ParamValueStyle.Render("off")
}

func (m Model) viewFooter() string {
	type hint struct{ key, desc string }
	var hints []hint
	if m.editing {
		hints = []hint{
			{"↑↓", "param"}, {"←→", "adjust"}, {"shift", "coarse"},
			{"n", "norm"}, {"v", "rev"}, {"x", "reset"}, {"e", "close"},
		}
	} else {
		hints = []hint{
			{"↑↓", "instrument"}, {"←→", "variant"}, {"space", "play"},
			{"s", "stop"}, {"[/]", "pitch"}, {"e", "edit"}, {"g", "gen"},
			{"R", "render"}, {"w", "save"}, {"q", "quit"},
		}
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, ui.FooterKeyStyle.Render(h.key)+" "+ui.FooterDescStyle.Render(h.desc))
	}
	return strings.Join(parts, ui.FooterDescStyle.Render(" · "))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
