package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tonearm/internal/musicd"
	"github.com/five82/tonearm/internal/notify"
	"github.com/five82/tonearm/internal/prefs"
	"github.com/five82/tonearm/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewPlayer View = iota
	ViewPlaylists
	ViewJobs
	ViewLogs
)

// inputMode is set while a keyboard drag of a control is in progress.
type inputMode int

const (
	modeNone inputMode = iota
	modeScrub
	modeVolume
)

// statusTTL is how long a notice or failure stays in the command bar.
const statusTTL = 6 * time.Second

// Controls is the command surface of the reconciler.
type Controls interface {
	TogglePlayback()
	SkipPrev()
	SkipNext()
	BeginScrub()
	ScrubTo(pos time.Duration)
	EndScrub(pos time.Duration)
	SeekBy(delta time.Duration)
	BeginVolumeChange()
	AdjustVolume(v float64)
	EndVolumeChange(v float64)
	NudgeVolume(delta float64)
	SelectTrack(i int)
	SelectPlaylist(id string, mode musicd.PlaylistMode)
	Publish(name string, urls []string) error
	Clean()
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Controls  Controls
	Feed      *Feed
	Notifier  notify.Notifier
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string
	Host      string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	controls  Controls
	feed      *Feed
	notifier  notify.Notifier
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	host      string
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal

	// Player state as last rendered by the reconciler
	player    state.View
	title     Marquee
	seekBar   progress.Model
	volumeBar progress.Model

	// Control drags
	mode     inputMode
	scrubPos time.Duration
	dragging bool

	// Lists
	selectedTrack    int
	selectedPlaylist int
	selectedJob      int

	// Command feedback
	pending   map[state.Action]bool
	status    statusLine
	statusSeq int

	// Logs
	logViewport viewport.Model
	logLines    []string
	logErr      error
}

// statusLine is the transient message shown in the command bar.
type statusLine struct {
	text  string
	isErr bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	feed := opts.Feed
	if feed == nil {
		feed = NewFeed()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NotifierFunc(func(string, string) error { return nil })
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := opts.Prefs
	defaults := prefs.Defaults()
	if userPrefs.VolumeStep <= 0 {
		userPrefs.VolumeStep = defaults.VolumeStep
	}
	if userPrefs.SeekStep <= 0 {
		userPrefs.SeekStep = defaults.SeekStep
	}

	m := Model{
		ctx:         ctx,
		controls:    opts.Controls,
		feed:        feed,
		notifier:    notifier,
		prefs:       userPrefs,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		host:        opts.Host,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(userPrefs.Theme),
		currentView: ViewPlayer,
		pending:     make(map[state.Action]bool),
	}
	m.player.Paused = true
	m.player.Volume = 1
	m.applyTheme()
	return m
}

// applyTheme rebuilds the theme-dependent components.
func (m *Model) applyTheme() {
	m.seekBar = progress.New(
		progress.WithSolidFill(m.theme.Accent),
		progress.WithoutPercentage(),
	)
	m.seekBar.EmptyColor = m.theme.Border
	m.volumeBar = progress.New(
		progress.WithSolidFill(m.theme.Success),
		progress.WithoutPercentage(),
	)
	m.volumeBar.EmptyColor = m.theme.Border
	m.layout()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.feed.Wait(m.ctx)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case renderBatchMsg:
		cmds := []tea.Cmd{m.feed.Wait(m.ctx)}
		for _, r := range msg {
			if cmd := m.applyRender(r); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case marqueeTickMsg:
		if m.title.Update(msg) {
			return m, m.title.Tick()
		}
		return m, nil

	case statusExpiredMsg:
		if int(msg) == m.statusSeq {
			m.status = statusLine{}
		}
		return m, nil

	case logLoadedMsg:
		m.handleLogLoaded(msg)
		return m, nil
	}

	return m, nil
}

// applyRender folds one reconciler render instruction into the model.
func (m *Model) applyRender(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case renderAllMsg:
		m.player = msg.view
		m.selectedTrack = max(msg.view.TrackIndex, 0)
		m.clampSelections()
		m.title.Reset(msg.view.TrackName)
		return m.title.Tick()

	case playStateMsg:
		m.player.Paused = msg.paused

	case trackMsg:
		m.player.TrackIndex = msg.index
		m.player.TrackName = msg.name
		m.selectedTrack = max(msg.index, 0)
		m.clampSelections()
		m.title.Reset(msg.name)
		return m.title.Tick()

	case durationMsg:
		m.player.Duration = msg.d
		m.player.DurationKnown = msg.known

	case playlistMsg:
		m.player.PlaylistID = msg.id
		m.player.PlaylistName = msg.name
		m.clampSelections()

	case positionMsg:
		m.player.PositionLabel = msg.label
		if msg.move {
			m.player.Position = msg.pos
		}

	case volumeMsg:
		m.player.Volume = msg.v

	case playlistsMsg:
		m.player.Playlists = msg.playlists
		m.clampSelections()

	case jobsMsg:
		m.player.Jobs = msg.jobs
		m.clampSelections()

	case connectionMsg:
		m.player.Live = msg.live

	case notifyMsg:
		return tea.Batch(
			m.setStatus(msg.title+": "+msg.message, false),
			notifyCmd(m.notifier, msg.title, msg.message),
		)

	case pendingMsg:
		if msg.pending {
			m.pending[msg.action] = true
		} else {
			delete(m.pending, msg.action)
		}

	case failedMsg:
		return m.setStatus(string(msg.action)+" failed: "+msg.err.Error(), true)
	}
	return nil
}

// setStatus shows text in the command bar until statusTTL passes or another
// status replaces it.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = statusLine{text: text, isErr: isErr}
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg(seq)
	})
}

// clampSelections keeps list cursors inside their lists.
func (m *Model) clampSelections() {
	m.selectedTrack = clampIndex(m.selectedTrack, len(m.currentTracks()))
	m.selectedPlaylist = clampIndex(m.selectedPlaylist, len(m.player.Playlists))
	m.selectedJob = clampIndex(m.selectedJob, len(m.player.Jobs))
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.mode != modeNone {
		return m.handleDragKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.applyTheme()
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, m.prefs)
		}
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.currentView = (m.currentView + 1) % (ViewLogs + 1)
		return m, m.enterView()

	case key.Matches(msg, m.keys.ViewPlayer), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewPlayer
		return m, nil
	case key.Matches(msg, m.keys.ViewPlaylists):
		m.currentView = ViewPlaylists
		return m, nil
	case key.Matches(msg, m.keys.ViewJobs):
		m.currentView = ViewJobs
		return m, nil
	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, m.enterView()

	case key.Matches(msg, m.keys.PlayPause):
		m.controls.TogglePlayback()
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.controls.SkipPrev()
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.controls.SkipNext()
		return m, nil
	case key.Matches(msg, m.keys.VolumeUp):
		m.controls.NudgeVolume(m.prefs.VolumeStep)
		return m, nil
	case key.Matches(msg, m.keys.VolumeDown):
		m.controls.NudgeVolume(-m.prefs.VolumeStep)
		return m, nil

	case key.Matches(msg, m.keys.Scrub):
		m.mode = modeScrub
		m.scrubPos = m.player.Position
		m.controls.BeginScrub()
		return m, nil
	case key.Matches(msg, m.keys.VolumeMode):
		m.mode = modeVolume
		m.controls.BeginVolumeChange()
		return m, nil

	case key.Matches(msg, m.keys.Publish):
		m.modal = newPublishForm(m.controls.Publish)
		return m, nil
	case key.Matches(msg, m.keys.Clean):
		m.modal = newConfirm("Clean", "Remove the daemon's temporary downloads?", m.controls.Clean)
		return m, nil
	}

	switch m.currentView {
	case ViewPlayer:
		return m.handlePlayerKey(msg)
	case ViewPlaylists:
		return m.handlePlaylistsKey(msg)
	case ViewJobs:
		return m.handleJobsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// handleDragKey drives the seek or volume control while it is held from
// the keyboard. Enter or esc lets go and commits the value.
func (m Model) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := time.Duration(m.prefs.SeekStep) * time.Second
	switch m.mode {
	case modeScrub:
		switch msg.String() {
		case "left", "h", ",":
			m.scrubPos = max(m.scrubPos-step, 0)
			m.controls.ScrubTo(m.scrubPos)
		case "right", "l", ".":
			m.scrubPos += step
			if m.player.DurationKnown {
				m.scrubPos = min(m.scrubPos, m.player.Duration)
			}
			m.controls.ScrubTo(m.scrubPos)
		case "enter", "esc", "s":
			m.mode = modeNone
			m.controls.EndScrub(m.scrubPos)
		case "ctrl+c":
			return m, tea.Quit
		}
	case modeVolume:
		switch msg.String() {
		case "up", "right", "k", "l", "+", "=":
			m.controls.AdjustVolume(m.player.Volume + m.prefs.VolumeStep)
		case "down", "left", "j", "h", "-", "_":
			m.controls.AdjustVolume(m.player.Volume - m.prefs.VolumeStep)
		case "enter", "esc", "v":
			m.mode = modeNone
			m.controls.EndVolumeChange(m.player.Volume)
		case "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

// enterView runs the side effects of switching to the current view.
func (m *Model) enterView() tea.Cmd {
	if m.currentView == ViewLogs {
		return loadLogCmd(m.logPath)
	}
	return nil
}

// Messages

type statusExpiredMsg int

// Commands

// notifyCmd delivers a desktop notification off the UI goroutine.
func notifyCmd(n notify.Notifier, title, message string) tea.Cmd {
	return func() tea.Msg {
		_ = n.Notify(title, message)
		return nil
	}
}

// Run starts the Bubble Tea program and blocks until it exits or the
// options' context ends.
func Run(opts Options) error {
	m := New(opts)
	ctx := m.ctx
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
