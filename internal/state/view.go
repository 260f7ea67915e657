package state

import (
	"slices"
	"time"

	"github.com/five82/tonearm/internal/musicd"
)

// Action names a user command in render callbacks.
type Action string

const (
	ActionPlayback Action = "playback"
	ActionPrev     Action = "prev"
	ActionNext     Action = "next"
	ActionSeek     Action = "seek"
	ActionVolume   Action = "volume"
	ActionTrack    Action = "track"
	ActionPlaylist Action = "playlist"
	ActionPublish  Action = "publish"
	ActionClean    Action = "clean"
)

// View is the client-side picture of the daemon. Copies returned by
// Reconciler.View are detached from the reconciler.
type View struct {
	// Ready is set once the first snapshot has been applied.
	Ready bool
	// Live reports whether the push channel is open.
	Live bool

	Paused       bool
	PlaylistID   string
	PlaylistName string
	TrackIndex   int
	TrackName    string

	// Position is the seek control value. It follows the daemon except
	// while Scrubbing.
	Position time.Duration
	// PositionLabel is the daemon's "pos / total" text. It always follows
	// the daemon.
	PositionLabel string

	Duration      time.Duration
	DurationKnown bool
	Volume        float64

	Playlists []musicd.Playlist
	Jobs      []musicd.Job

	Scrubbing      bool
	ChangingVolume bool
}

// CurrentPlaylist returns the listing entry for the active playlist.
func (v View) CurrentPlaylist() (musicd.Playlist, bool) {
	for _, p := range v.Playlists {
		if p.Meta.ID == v.PlaylistID {
			return p, true
		}
	}
	return musicd.Playlist{}, false
}

func (v View) clone() View {
	v.Playlists = slices.Clone(v.Playlists)
	v.Jobs = slices.Clone(v.Jobs)
	return v
}

// Renderer receives render instructions from the Reconciler. Calls are made
// while the reconciler is locked, in the order reactions happen, so
// implementations must not block or call back into the Reconciler.
type Renderer interface {
	// RenderAll draws everything from scratch after the first snapshot.
	RenderAll(v View)
	RenderPlayState(paused bool)
	// RenderTrack shows a new current track and restarts its scrolling title.
	RenderTrack(index int, name string)
	RenderDuration(d time.Duration, known bool)
	RenderPlaylist(id, name string)
	// RenderPosition updates the position label. The seek control moves to
	// pos only when moveControl is true.
	RenderPosition(label string, pos time.Duration, moveControl bool)
	RenderVolume(v float64)
	RenderPlaylists(playlists []musicd.Playlist)
	RenderJobs(jobs []musicd.Job)
	RenderConnection(live bool)
	Notify(title, message string)
	CommandPending(action Action, pending bool)
	CommandFailed(action Action, err error)
}

type nopRenderer struct{}

func (nopRenderer) RenderAll(View)                             {}
func (nopRenderer) RenderPlayState(bool)                       {}
func (nopRenderer) RenderTrack(int, string)                    {}
func (nopRenderer) RenderDuration(time.Duration, bool)         {}
func (nopRenderer) RenderPlaylist(string, string)              {}
func (nopRenderer) RenderPosition(string, time.Duration, bool) {}
func (nopRenderer) RenderVolume(float64)                       {}
func (nopRenderer) RenderPlaylists([]musicd.Playlist)          {}
func (nopRenderer) RenderJobs([]musicd.Job)                    {}
func (nopRenderer) RenderConnection(bool)                      {}
func (nopRenderer) Notify(string, string)                      {}
func (nopRenderer) CommandPending(Action, bool)                {}
func (nopRenderer) CommandFailed(Action, error)                {}
