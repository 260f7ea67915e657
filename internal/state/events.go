package state

import (
	"github.com/five82/tonearm/internal/event"
	"github.com/five82/tonearm/internal/musicd"
)

// applier applies pushed events to a locked Reconciler.
type applier struct {
	r *Reconciler
}

var _ event.Handler = applier{}

func (a applier) PlaybackToggled(e event.PlaybackToggled) {
	a.r.view.Paused = e.Paused
	a.r.render.RenderPlayState(e.Paused)
}

func (a applier) TrackChanged(e event.TrackChanged) {
	v := &a.r.view
	v.TrackIndex, v.TrackName = e.Index, e.Name
	a.r.render.RenderTrack(e.Index, e.Name)
	a.r.fetchPlaylistsLocked()
}

func (a applier) TrackDurationChanged(e event.TrackDurationChanged) {
	v := &a.r.view
	v.Duration, v.DurationKnown = e.Duration, e.Known
	a.r.render.RenderDuration(e.Duration, e.Known)
}

func (a applier) PlaylistChanged(e event.PlaylistChanged) {
	v := &a.r.view
	v.PlaylistID, v.PlaylistName = e.ID, e.Name
	a.r.render.RenderPlaylist(e.ID, e.Name)
	a.r.fetchPlaylistsLocked()
}

func (a applier) PlaylistPublished(e event.PlaylistPublished) {
	a.r.render.Notify("Playlist published", e.Label())
	a.r.fetchPlaylistsLocked()
}

// SeekPositionChanged always refreshes the label; the control only moves
// when the user is not scrubbing.
func (a applier) SeekPositionChanged(e event.SeekPositionChanged) {
	v := &a.r.view
	v.PositionLabel = musicd.FormatPosition(e.Position, v.Duration, v.DurationKnown)
	if a.r.scrub.active {
		a.r.render.RenderPosition(v.PositionLabel, v.Position, false)
		return
	}
	v.Position = e.Position
	a.r.render.RenderPosition(v.PositionLabel, v.Position, true)
}

func (a applier) VolumeChanged(e event.VolumeChanged) {
	if a.r.volume.active {
		return
	}
	a.r.view.Volume = e.Value
	a.r.render.RenderVolume(e.Value)
}

func (a applier) JobsUpdated(event.JobsUpdated) {
	a.r.fetchJobsLocked()
}

func (a applier) JobStarted(e event.JobStarted) {
	a.r.render.Notify("Job started", e.ID)
}
