package state

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/five82/tonearm/internal/musicd"
)

// ErrNothingToPublish is returned by Publish when the name or URL list is empty.
var ErrNothingToPublish = errors.New("publish needs a name and at least one url")

// commandLocked issues one request off-lock. CommandPending brackets the
// request; after, when set, runs under the lock once it returns.
func (r *Reconciler) commandLocked(action Action, call func(context.Context) error, after func()) {
	r.render.CommandPending(action, true)
	r.spawnLocked(func() {
		err := call(r.ctx)
		r.lock()
		defer r.unlock()
		r.render.CommandPending(action, false)
		if err != nil {
			r.log.Warn().Err(err).Str("action", string(action)).Msg("command failed")
			r.render.CommandFailed(action, err)
		}
		if after != nil {
			after()
		}
	})
}

// readyLocked reports whether the view holds daemon state. Commands relative
// to the current state are dropped until it does.
func (r *Reconciler) readyLocked(what string) bool {
	if !r.view.Ready {
		r.log.Debug().Str("command", what).Msg("ignored before first snapshot")
		return false
	}
	return true
}

// TogglePlayback flips the paused flag optimistically and asks the daemon
// to follow.
func (r *Reconciler) TogglePlayback() {
	r.lock()
	defer r.unlock()
	if !r.readyLocked("toggle playback") {
		return
	}
	paused := !r.view.Paused
	r.view.Paused = paused
	r.render.RenderPlayState(paused)
	r.commandLocked(ActionPlayback, func(ctx context.Context) error {
		if paused {
			return r.api.Pause(ctx)
		}
		return r.api.Play(ctx)
	}, nil)
}

// SkipPrev moves to the previous track.
func (r *Reconciler) SkipPrev() {
	r.lock()
	defer r.unlock()
	r.commandLocked(ActionPrev, r.api.Prev, nil)
}

// SkipNext moves to the next track.
func (r *Reconciler) SkipNext() {
	r.lock()
	defer r.unlock()
	r.commandLocked(ActionNext, r.api.Next, nil)
}

// BeginScrub marks the seek control as held by the user.
func (r *Reconciler) BeginScrub() {
	r.lock()
	defer r.unlock()
	r.scrub.begin()
}

// ScrubTo moves the seek control locally without contacting the daemon.
func (r *Reconciler) ScrubTo(pos time.Duration) {
	r.lock()
	defer r.unlock()
	if !r.scrub.held {
		r.scrub.begin()
	}
	r.view.Position = r.clampPositionLocked(pos)
	r.render.RenderPosition(r.view.PositionLabel, r.view.Position, true)
}

// EndScrub releases the seek control and seeks to pos. The guard stays up
// until the quiescence window after the seek completes.
func (r *Reconciler) EndScrub(pos time.Duration) {
	r.lock()
	defer r.unlock()
	if !r.scrub.held {
		r.scrub.begin()
	}
	r.scrub.release()
	r.seekLocked(pos)
}

// SeekTo seeks to pos as a single discrete scrub.
func (r *Reconciler) SeekTo(pos time.Duration) {
	r.lock()
	defer r.unlock()
	r.scrub.begin()
	r.scrub.release()
	r.seekLocked(pos)
}

// SeekBy seeks relative to the current control position.
func (r *Reconciler) SeekBy(delta time.Duration) {
	r.lock()
	defer r.unlock()
	if !r.readyLocked("relative seek") {
		return
	}
	r.scrub.begin()
	r.scrub.release()
	r.seekLocked(r.view.Position + delta)
}

func (r *Reconciler) clampPositionLocked(pos time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if r.view.DurationKnown && pos > r.view.Duration {
		return r.view.Duration
	}
	return pos
}

func (r *Reconciler) seekLocked(pos time.Duration) {
	pos = r.clampPositionLocked(pos)
	r.view.Position = pos
	r.render.RenderPosition(r.view.PositionLabel, pos, true)
	r.scrub.inflight++
	secs := uint64(pos / time.Second)
	r.commandLocked(ActionSeek, func(ctx context.Context) error {
		return r.api.Seek(ctx, secs)
	}, func() {
		r.scrub.inflight--
		r.settleLocked(&r.scrub, "scrub")
	})
}

// BeginVolumeChange marks the volume control as held by the user.
func (r *Reconciler) BeginVolumeChange() {
	r.lock()
	defer r.unlock()
	r.volume.begin()
}

// AdjustVolume moves the volume control locally without contacting the daemon.
func (r *Reconciler) AdjustVolume(v float64) {
	r.lock()
	defer r.unlock()
	if !r.volume.held {
		r.volume.begin()
	}
	r.view.Volume = musicd.ClampVolume(v)
	r.render.RenderVolume(r.view.Volume)
}

// EndVolumeChange releases the volume control and sends v to the daemon.
func (r *Reconciler) EndVolumeChange(v float64) {
	r.lock()
	defer r.unlock()
	if !r.volume.held {
		r.volume.begin()
	}
	r.volume.release()
	r.setVolumeLocked(v)
}

// SetVolume sets the volume as a single discrete change.
func (r *Reconciler) SetVolume(v float64) {
	r.lock()
	defer r.unlock()
	r.volume.begin()
	r.volume.release()
	r.setVolumeLocked(v)
}

// NudgeVolume changes the volume relative to the current control value.
func (r *Reconciler) NudgeVolume(delta float64) {
	r.lock()
	defer r.unlock()
	if !r.readyLocked("volume nudge") {
		return
	}
	r.volume.begin()
	r.volume.release()
	r.setVolumeLocked(r.view.Volume + delta)
}

func (r *Reconciler) setVolumeLocked(v float64) {
	v = musicd.ClampVolume(v)
	r.view.Volume = v
	r.render.RenderVolume(v)
	r.volume.inflight++
	r.commandLocked(ActionVolume, func(ctx context.Context) error {
		return r.api.SetVolume(ctx, v)
	}, func() {
		r.volume.inflight--
		r.settleLocked(&r.volume, "volume")
	})
}

// SelectTrack jumps to track index i of the current playlist. Selecting the
// track that is already current does nothing once a snapshot has said which
// track that is.
func (r *Reconciler) SelectTrack(i int) {
	r.lock()
	defer r.unlock()
	if i < 0 || (r.view.Ready && i == r.view.TrackIndex) {
		return
	}
	r.commandLocked(ActionTrack, func(ctx context.Context) error {
		return r.api.SelectTrack(ctx, i)
	}, nil)
}

// SelectPlaylist switches to playlist id, now or after the current track.
func (r *Reconciler) SelectPlaylist(id string, mode musicd.PlaylistMode) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	r.lock()
	defer r.unlock()
	r.commandLocked(ActionPlaylist, func(ctx context.Context) error {
		return r.api.SelectPlaylist(ctx, id, mode)
	}, nil)
}

// Publish asks the daemon to download urls into a new playlist called name.
func (r *Reconciler) Publish(name string, urls []string) error {
	name = strings.TrimSpace(name)
	var sources []string
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			sources = append(sources, u)
		}
	}
	if name == "" || len(sources) == 0 {
		return ErrNothingToPublish
	}
	req := musicd.PublishRequest{Name: name, SourceURLs: sources, Downloader: r.downloader}

	r.lock()
	defer r.unlock()
	r.commandLocked(ActionPublish, func(ctx context.Context) error {
		return r.api.Publish(ctx, req)
	}, nil)
	return nil
}

// Clean removes the daemon's temporary downloads.
func (r *Reconciler) Clean() {
	r.lock()
	defer r.unlock()
	r.commandLocked(ActionClean, r.api.Clean, nil)
}
