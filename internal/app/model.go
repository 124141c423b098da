// Package app holds the root bubbletea model: a two-pane browser for dated
// recordings with playback and automatic transcription.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/google/uuid"

	"relisten/internal/config"
	"relisten/internal/library"
	"relisten/internal/transcribe"
	"relisten/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// seekStep is the distance one seek keypress moves the position.
const seekStep = 5 * time.Second

// AudioPlayer is the playback surface the model drives. *player.Player
// satisfies it; tests substitute a fake.
type AudioPlayer interface {
	Load(path string) error
	Toggle() bool
	Seek(d time.Duration) error
	Position() time.Duration
	Duration() time.Duration
	Rewind() error
	Done() <-chan struct{}
	Close() error
}

// rowKind discriminates browser rows.
type rowKind int

const (
	rowYear rowKind = iota
	rowMonth
	rowFile
)

// row is one rendered line of the browser pane.
type row struct {
	kind rowKind
	text string
	rec  library.Recording // set for rowFile only
}

// progressUpdate travels from backend callbacks to the update loop.
type progressUpdate struct {
	jobID   uuid.UUID
	percent int
}

// Model is the root bubbletea model.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger
	player AudioPlayer

	// Transcription
	pipeline         *transcribe.Pipeline
	progressCh       chan progressUpdate
	jobID            uuid.UUID
	cancelTranscribe context.CancelFunc
	transcribing     bool
	transcriptPct    int
	initPct          int
	transcript       transcribe.Result
	hasTranscript    bool

	// Library
	libraryDir     string
	recordings     []library.Recording
	listingVersion int
	groupedVersion int
	groups         []library.YearGroup
	rows           []row
	cursor         int
	browserScroll  int

	// Selection and playback. playGen counts stream bindings; end
	// watchers armed for an older generation are stale.
	selected  *library.Recording
	isPlaying bool
	position  time.Duration
	duration  time.Duration
	playGen   int

	// Folder prompt
	prompting bool
	pathInput textinput.Model

	// UI state
	width    int
	height   int
	status   string
	errMsg   string
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model
}

// New wires the model with its injected dependencies. The transcriber is a
// constructor parameter so tests can substitute a fake for the speech model.
func New(cfg *config.Config, logger *slog.Logger, player AudioPlayer, tr transcribe.Transcriber) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/recordings"
	ti.Prompt = "folder> "

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.TranscribingStyle))

	h := help.New()
	h.Styles.ShortKey = ui.FooterKeyStyle
	h.Styles.ShortDesc = ui.FooterDescStyle
	h.Styles.FullKey = ui.FooterKeyStyle
	h.Styles.FullDesc = ui.FooterDescStyle

	return Model{
		cfg:        cfg,
		logger:     logger,
		player:     player,
		pipeline:   transcribe.NewPipeline(tr),
		progressCh: make(chan progressUpdate, 16),
		status:     "Starting...",
		keys:       defaultKeyMap(),
		help:       h,
		spinner:    sp,
		progress:   progress.New(progress.WithDefaultGradient()),
		pathInput:  ti,
	}
}

// Init starts model initialization, the progress listener, the position
// ticker, and the initial folder scan when one is configured.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		listenProgressCmd(m.progressCh),
		tickCmd(),
	}

	if err := m.pipeline.BeginInit(); err == nil {
		cmds = append(cmds, initPipelineCmd(m.pipeline.Transcriber(), m.progressFunc(uuid.Nil)))
	}

	if m.cfg.LibraryDir != "" {
		cmds = append(cmds, scanCmd(m.cfg.LibraryDir))
	}

	return tea.Batch(cmds...)
}

// progressFunc adapts backend progress callbacks to the message loop. Sends
// never block; a dropped update only costs one display refresh.
func (m Model) progressFunc(jobID uuid.UUID) transcribe.ProgressFunc {
	ch := m.progressCh
	return func(percent int) {
		select {
		case ch <- progressUpdate{jobID: jobID, percent: percent}:
		default:
		}
	}
}

// scanCmd enumerates a recordings folder.
func scanCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		recs, err := library.Scan(dir)
		return LibraryScannedMsg{Dir: dir, Recordings: recs, Err: err}
	}
}

// initPipelineCmd loads the speech model.
func initPipelineCmd(tr transcribe.Transcriber, onProgress transcribe.ProgressFunc) tea.Cmd {
	return func() tea.Msg {
		return PipelineInitDoneMsg{Err: tr.Initialize(context.Background(), onProgress)}
	}
}

// transcribeCmd reads the recording and runs one inference over the whole
// payload. The job ID lets the update loop drop results that resolve after
// the selection has moved on.
func transcribeCmd(ctx context.Context, tr transcribe.Transcriber, jobID uuid.UUID, path string, onProgress transcribe.ProgressFunc) tea.Cmd {
	return func() tea.Msg {
		audio, err := os.ReadFile(path)
		if err != nil {
			return TranscriptDoneMsg{JobID: jobID, Result: transcribe.Fail(fmt.Errorf("read recording: %w", err))}
		}
		text, err := tr.Transcribe(ctx, audio, onProgress)
		if err != nil {
			return TranscriptDoneMsg{JobID: jobID, Result: transcribe.Fail(err)}
		}
		return TranscriptDoneMsg{JobID: jobID, Result: transcribe.Ok(text)}
	}
}

// listenProgressCmd reads the next progress update off the channel.
func listenProgressCmd(ch <-chan progressUpdate) tea.Cmd {
	return func() tea.Msg {
		u := <-ch
		return ProgressMsg{JobID: u.jobID, Percent: u.percent}
	}
}

// waitEndCmd waits for the end channel of one stream binding to resolve.
// The generation travels with the message so the update loop can tell a
// natural end from the release of a superseded binding.
func waitEndCmd(done <-chan struct{}, path string, gen int) tea.Cmd {
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		<-done
		return PlaybackEndedMsg{Path: path, Gen: gen}
	}
}

// tickCmd drives the position poll.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(10, m.playerPanelWidth()-6)
		return m, nil

	case spinner.TickMsg:
		if m.pipeline.Phase() != transcribe.PhaseInitializing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.selected != nil {
			m.position = m.player.Position()
			if d := m.player.Duration(); d > 0 {
				m.duration = d
			}
		}
		return m, tickCmd()

	case LibraryScannedMsg:
		if msg.Err != nil {
			// Keep the previous listing; a failed re-scan must not
			// destroy a loaded one.
			m.logger.Error("scan folder", "dir", msg.Dir, "error", msg.Err)
			m.errMsg = "Could not read folder: " + msg.Dir
			return m, nil
		}
		m.libraryDir = msg.Dir
		m.recordings = msg.Recordings
		m.listingVersion++
		m.regroup()
		m.errMsg = ""
		m.status = fmt.Sprintf("%d recordings in %s", len(m.recordings), msg.Dir)
		m.logger.Info("folder scanned", "dir", msg.Dir, "recordings", len(m.recordings))
		return m, nil

	case PipelineInitDoneMsg:
		m.pipeline.FinishInit(msg.Err)
		if msg.Err != nil {
			m.logger.Error("speech model init", "error", msg.Err)
			m.status = "Speech model unavailable"
		} else {
			m.logger.Info("speech model ready", "backend", m.pipeline.Transcriber().Name())
			m.status = "Speech model ready"
		}
		return m, nil

	case ProgressMsg:
		if msg.JobID == uuid.Nil {
			m.initPct = clampPercent(msg.Percent)
		} else if msg.JobID == m.jobID && m.transcribing {
			m.transcriptPct = clampPercent(msg.Percent)
		}
		return m, listenProgressCmd(m.progressCh)

	case TranscriptDoneMsg:
		if msg.JobID != m.jobID || !m.transcribing {
			// Late result of a canceled job; the selection moved on.
			m.logger.Debug("stale transcription dropped", "job", msg.JobID)
			return m, nil
		}
		if m.cancelTranscribe != nil {
			m.cancelTranscribe()
			m.cancelTranscribe = nil
		}
		m.pipeline.FinishTranscribe()
		m.transcribing = false
		m.transcriptPct = 100
		m.transcript = msg.Result
		m.hasTranscript = true
		if err := msg.Result.Err(); err != nil {
			m.logger.Error("transcription", "error", err)
		}
		return m, nil

	case PlaybackEndedMsg:
		if m.selected == nil || msg.Path != m.selected.Path || msg.Gen != m.playGen {
			// The binding this watcher belonged to was superseded;
			// its channel was released, not played to the end.
			return m, nil
		}
		m.isPlaying = false
		m.position = 0
		if err := m.player.Rewind(); err != nil {
			m.logger.Warn("rewind", "error", err)
		}
		m.playGen++
		return m, waitEndCmd(m.player.Done(), msg.Path, m.playGen)
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompting {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Select):
		return m.selectCurrent()

	case key.Matches(msg, m.keys.PlayPause):
		if m.selected == nil {
			return m, nil
		}
		m.isPlaying = m.player.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.SeekBack):
		return m.seekBy(-seekStep), nil

	case key.Matches(msg, m.keys.SeekFwd):
		return m.seekBy(seekStep), nil

	case key.Matches(msg, m.keys.OpenFolder):
		m.prompting = true
		m.pathInput.SetValue(m.libraryDir)
		m.pathInput.CursorEnd()
		m.pathInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// handlePromptKey routes keys into the folder path prompt.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompting = false
		m.pathInput.Blur()
		return m, nil
	case "enter":
		dir := m.pathInput.Value()
		m.prompting = false
		m.pathInput.Blur()
		if dir == "" {
			return m, nil
		}
		return m, scanCmd(dir)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// quit cancels any in-flight work and shuts the player down.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancelTranscribe != nil {
		m.cancelTranscribe()
	}
	if err := m.pipeline.Transcriber().Close(); err != nil {
		m.logger.Warn("close transcriber", "error", err)
	}
	if err := m.player.Close(); err != nil {
		m.logger.Warn("close player", "error", err)
	}
	return m, tea.Quit
}

// selectCurrent binds the recording under the cursor: playback stops and
// rebinds first, then transcription restarts for the new file.
func (m Model) selectCurrent() (tea.Model, tea.Cmd) {
	rec, ok := m.currentFile()
	if !ok {
		return m, nil
	}

	if err := m.player.Load(rec.Path); err != nil {
		// Selection and transcript state stay as they were.
		m.logger.Error("load recording", "file", rec.Name, "error", err)
		m.errMsg = "Could not open " + rec.Name
		return m, nil
	}

	sel := rec
	m.selected = &sel
	m.isPlaying = false
	m.position = 0
	m.duration = m.player.Duration()
	m.playGen++
	m.errMsg = ""

	// Cancel the previous transcription; its late result is dropped by
	// job ID when it arrives.
	if m.cancelTranscribe != nil {
		m.cancelTranscribe()
		m.cancelTranscribe = nil
		m.pipeline.FinishTranscribe()
	}
	m.transcribing = false
	m.transcriptPct = 0
	m.transcript = transcribe.Result{}
	m.hasTranscript = false

	cmds := []tea.Cmd{waitEndCmd(m.player.Done(), rec.Path, m.playGen)}

	if err := m.pipeline.BeginTranscribe(); err != nil {
		m.logger.Warn("transcription unavailable", "file", rec.Name, "error", err)
		m.transcript = transcribe.Fail(err)
		m.hasTranscript = true
		return m, tea.Batch(cmds...)
	}

	m.jobID = uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelTranscribe = cancel
	m.transcribing = true
	m.logger.Info("transcribing", "file", rec.Name, "job", m.jobID)
	cmds = append(cmds, transcribeCmd(ctx, m.pipeline.Transcriber(), m.jobID, rec.Path, m.progressFunc(m.jobID)))

	return m, tea.Batch(cmds...)
}

// seekBy moves the playback position without clamping; the decoder rejects
// out-of-range targets itself.
func (m Model) seekBy(delta time.Duration) Model {
	if m.selected == nil {
		return m
	}
	target := m.position + delta
	if err := m.player.Seek(target); err != nil {
		m.logger.Debug("seek", "target", target, "error", err)
		return m
	}
	m.position = m.player.Position()
	return m
}

// regroup refreshes the derived grouping. The derivation is memoized on the
// listing version so repeated renders reuse it.
func (m *Model) regroup() {
	if m.groupedVersion == m.listingVersion && m.rows != nil {
		return
	}
	m.groups = library.Group(m.recordings)
	m.groupedVersion = m.listingVersion

	m.rows = m.rows[:0]
	for _, yg := range m.groups {
		m.rows = append(m.rows, row{kind: rowYear, text: yg.Year})
		for _, mg := range yg.Months {
			m.rows = append(m.rows, row{kind: rowMonth, text: mg.Key})
			for _, rec := range mg.Recordings {
				m.rows = append(m.rows, row{kind: rowFile, text: rec.Name, rec: rec})
			}
		}
	}

	m.cursor = firstFileRow(m.rows)
	m.browserScroll = 0
}

// firstFileRow returns the index of the first selectable row, or 0.
func firstFileRow(rows []row) int {
	for i, r := range rows {
		if r.kind == rowFile {
			return i
		}
	}
	return 0
}

// moveCursor steps the cursor to the next file row in the given direction,
// skipping the year and month headers.
func (m *Model) moveCursor(dir int) {
	i := m.cursor + dir
	for i >= 0 && i < len(m.rows) {
		if m.rows[i].kind == rowFile {
			m.cursor = i
			m.scrollCursorIntoView()
			return
		}
		i += dir
	}
}

// scrollCursorIntoView keeps the cursor row inside the browser viewport.
func (m *Model) scrollCursorIntoView() {
	visible := m.contentHeight() - 1 // header line
	if visible <= 0 {
		return
	}
	if m.cursor < m.browserScroll {
		m.browserScroll = m.cursor
	}
	if m.cursor >= m.browserScroll+visible {
		m.browserScroll = m.cursor - visible + 1
	}
}

// currentFile returns the recording under the cursor.
func (m Model) currentFile() (library.Recording, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return library.Recording{}, false
	}
	r := m.rows[m.cursor]
	if r.kind != rowFile {
		return library.Recording{}, false
	}
	return r.rec, true
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
