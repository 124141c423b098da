package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"relisten/internal/transcribe"
	"relisten/internal/ui"
)

// Placeholder lines shown in the transcript panel for the two failure
// classes the adapter reports.
const (
	msgModelNotReady    = "Transcription unavailable: speech model not loaded."
	msgTranscribeFailed = "Transcription failed."
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderMainContent())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.prompting {
		sections = append(sections, ui.PromptStyle.Render(m.pathInput.View()))
	} else if m.errMsg != "" {
		sections = append(sections, ui.ErrorStyle.Render("Error: ")+ui.ErrorTextStyle.Render(m.errMsg))
	}

	sections = append(sections, m.help.View(m.keys))

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("RELISTEN")
	var dir string
	if m.libraryDir != "" {
		dir = ui.DimStyle.Render(" — " + m.libraryDir)
	}
	return title + dir
}

func (m Model) renderStatusBar() string {
	var dot string
	if m.isPlaying {
		dot = ui.PlayingDotStyle.Render("▶ PLAYING")
	} else if m.selected != nil {
		dot = ui.PausedDotStyle.Render("⏸ PAUSED")
	} else {
		dot = ui.PausedDotStyle.Render("○ IDLE")
	}

	var model string
	switch m.pipeline.Phase() {
	case transcribe.PhaseInitializing:
		model = "  " + m.spinner.View() + ui.DimStyle.Render(fmt.Sprintf("loading model %d%%", m.initPct))
	case transcribe.PhaseFailed:
		model = "  " + ui.ErrorTextStyle.Render("model unavailable")
	case transcribe.PhaseTranscribing:
		model = "  " + ui.TranscribingStyle.Render("⟳ transcribing")
	}

	var status string
	if m.status != "" {
		status = "  " + ui.StatusStyle.Render(m.status)
	}

	return dot + model + status
}

func (m Model) contentHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + status(1) + dividers(2) + prompt/error(1) + help(1)
	reserved := 7
	return max(5, m.height-reserved)
}

func (m Model) browserPanelWidth() int {
	if m.width == 0 {
		return 30
	}
	return max(24, m.width*35/100)
}

func (m Model) playerPanelWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(30, m.width-m.browserPanelWidth()-3)
}

func (m Model) renderMainContent() string {
	browserW := m.browserPanelWidth()
	playerW := m.playerPanelWidth()
	contentH := m.contentHeight()

	browserPanel := m.renderBrowserPanel(browserW, contentH)
	playerPanel := m.renderPlayerPanel(playerW, contentH)

	divider := ui.DividerStyle.Render("│")

	browserLines := strings.Split(browserPanel, "\n")
	playerLines := strings.Split(playerPanel, "\n")

	var rows []string
	for i := 0; i < contentH; i++ {
		left := strings.Repeat(" ", browserW)
		if i < len(browserLines) {
			left = browserLines[i]
		}
		right := ""
		if i < len(playerLines) {
			right = playerLines[i]
		}
		rows = append(rows, left+divider+right)
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderBrowserPanel(width, height int) string {
	header := ui.PanelTitleActiveStyle.Render(fmt.Sprintf("RECORDINGS (%d)", len(m.recordings)))

	var lines []string
	lines = append(lines, header)

	if len(m.rows) == 0 {
		lines = append(lines, ui.DimStyle.Render("  No recordings loaded"))
		lines = append(lines, ui.DimStyle.Render("  Press o to open a folder"))
	} else {
		visible := height - 1
		end := min(len(m.rows), m.browserScroll+visible)
		for i := m.browserScroll; i < end; i++ {
			lines = append(lines, truncateToWidth(m.renderRow(i), width))
		}
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = padRight(l, width)
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderRow(i int) string {
	r := m.rows[i]
	switch r.kind {
	case rowYear:
		return ui.YearStyle.Render(r.text)
	case rowMonth:
		return "  " + ui.MonthStyle.Render(r.text)
	default:
		marker := "  "
		if m.selected != nil && m.selected.Path == r.rec.Path {
			marker = ui.PlayingDotStyle.Render("♪ ")
		}
		label := r.rec.Day + " " + r.rec.Clock + "  " + ui.ClockStyle.Render(r.text)
		if i == m.cursor {
			return "  " + ui.SelectedStyle.Render("> ") + marker + ui.SelectedStyle.Render(r.rec.Day+" "+r.rec.Clock) + "  " + ui.ClockStyle.Render(r.text)
		}
		return "    " + marker + label
	}
}

func (m Model) renderPlayerPanel(width, height int) string {
	var lines []string
	lines = append(lines, ui.PanelTitleStyle.Render("NOW PLAYING"))

	if m.selected == nil {
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  Select a recording with enter"))
	} else {
		sel := *m.selected
		lines = append(lines, "  "+sel.Name)
		lines = append(lines, "  "+ui.DimStyle.Render(fmt.Sprintf("%s-%s-%s %s", sel.Year, sel.Month, sel.Day, sel.Clock)))
		lines = append(lines, "")
		lines = append(lines, "  "+m.renderTransport(width-4))
		lines = append(lines, "")
		lines = append(lines, ui.PanelTitleStyle.Render("TRANSCRIPT"))
		lines = append(lines, m.renderTranscript(width)...)
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// renderTransport draws the play state, seek bar and M:SS clocks.
func (m Model) renderTransport(width int) string {
	var dot string
	if m.isPlaying {
		dot = ui.PlayingDotStyle.Render("▶")
	} else {
		dot = ui.PausedDotStyle.Render("⏸")
	}

	clocks := formatClock(m.position) + " / " + formatClock(m.duration)

	barLen := max(8, width-lipgloss.Width(clocks)-4)
	filled := 0
	if m.duration > 0 {
		filled = int(int64(barLen) * int64(m.position) / int64(m.duration))
		if filled > barLen {
			filled = barLen
		}
	}
	bar := ui.SeekBarStyle.Render(strings.Repeat("█", filled)) +
		ui.SeekBarRestStyle.Render(strings.Repeat("░", barLen-filled))

	return dot + " " + bar + " " + ui.ClockStyle.Render(clocks)
}

func (m Model) renderTranscript(width int) []string {
	textWidth := max(10, width-4)

	switch {
	case m.pipeline.Phase() == transcribe.PhaseInitializing:
		return []string{"  " + m.spinner.View() + ui.DimStyle.Render(fmt.Sprintf("Loading speech model... %d%%", m.initPct))}

	case m.transcribing:
		return []string{
			"  " + m.progress.ViewAs(float64(m.transcriptPct) / 100),
			"  " + ui.TranscribingStyle.Render(fmt.Sprintf("Transcribing... %d%%", m.transcriptPct)),
		}

	case m.hasTranscript:
		text, ok := m.transcript.Text()
		if !ok {
			placeholder := msgTranscribeFailed
			if errors.Is(m.transcript.Err(), transcribe.ErrNotReady) {
				placeholder = msgModelNotReady
			}
			return []string{"  " + ui.ErrorTextStyle.Render(placeholder)}
		}
		if text == "" {
			return []string{"  " + ui.DimStyle.Render("(no speech detected)")}
		}
		var lines []string
		for _, l := range wrapText(text, textWidth) {
			lines = append(lines, "  "+ui.TranscriptStyle.Render(l))
		}
		return lines

	default:
		return []string{"  " + ui.DimStyle.Render("Waiting for transcription...")}
	}
}

// Helpers

// formatClock renders a duration as M:SS.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
