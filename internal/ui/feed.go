package ui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tonearm/internal/musicd"
	"github.com/five82/tonearm/internal/state"
)

// Feed is the state.Renderer the TUI hands to the reconciler. Render calls
// arrive under the reconciler lock, so Feed only queues them as messages and
// wakes the program; Wait delivers them to Update in order.
type Feed struct {
	mu    sync.Mutex
	queue []tea.Msg
	wake  chan struct{}
}

var _ state.Renderer = (*Feed)(nil)

// NewFeed returns an empty Feed.
func NewFeed() *Feed {
	return &Feed{wake: make(chan struct{}, 1)}
}

func (f *Feed) push(msg tea.Msg) {
	f.mu.Lock()
	f.queue = append(f.queue, msg)
	f.mu.Unlock()
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Drain removes and returns everything queued so far.
func (f *Feed) Drain() []tea.Msg {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.queue
	f.queue = nil
	return out
}

// Wait returns a command that blocks until something is queued and then
// delivers the queued messages as one batch. It returns nil once ctx ends.
func (f *Feed) Wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-f.wake:
			return renderBatchMsg(f.Drain())
		case <-ctx.Done():
			return nil
		}
	}
}

// Render messages

type renderBatchMsg []tea.Msg

type renderAllMsg struct{ view state.View }

type playStateMsg struct{ paused bool }

type trackMsg struct {
	index int
	name  string
}

type durationMsg struct {
	d     time.Duration
	known bool
}

type playlistMsg struct{ id, name string }

type positionMsg struct {
	label string
	pos   time.Duration
	move  bool
}

type volumeMsg struct{ v float64 }

type playlistsMsg struct{ playlists []musicd.Playlist }

type jobsMsg struct{ jobs []musicd.Job }

type connectionMsg struct{ live bool }

type notifyMsg struct{ title, message string }

type pendingMsg struct {
	action  state.Action
	pending bool
}

type failedMsg struct {
	action state.Action
	err    error
}

// RenderAll implements state.Renderer.
func (f *Feed) RenderAll(v state.View) {
	f.push(renderAllMsg{view: v})
}

func (f *Feed) RenderPlayState(paused bool) {
	f.push(playStateMsg{paused: paused})
}

func (f *Feed) RenderTrack(index int, name string) {
	f.push(trackMsg{index: index, name: name})
}

func (f *Feed) RenderDuration(d time.Duration, known bool) {
	f.push(durationMsg{d: d, known: known})
}

func (f *Feed) RenderPlaylist(id, name string) {
	f.push(playlistMsg{id: id, name: name})
}

func (f *Feed) RenderPosition(label string, pos time.Duration, moveControl bool) {
	f.push(positionMsg{label: label, pos: pos, move: moveControl})
}

func (f *Feed) RenderVolume(v float64) {
	f.push(volumeMsg{v: v})
}

func (f *Feed) RenderPlaylists(playlists []musicd.Playlist) {
	f.push(playlistsMsg{playlists: playlists})
}

func (f *Feed) RenderJobs(jobs []musicd.Job) {
	f.push(jobsMsg{jobs: jobs})
}

func (f *Feed) RenderConnection(live bool) {
	f.push(connectionMsg{live: live})
}

func (f *Feed) Notify(title, message string) {
	f.push(notifyMsg{title: title, message: message})
}

func (f *Feed) CommandPending(action state.Action, pending bool) {
	f.push(pendingMsg{action: action, pending: pending})
}

func (f *Feed) CommandFailed(action state.Action, err error) {
	f.push(failedMsg{action: action, err: err})
}
