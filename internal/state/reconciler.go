package state

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/five82/tonearm/internal/event"
	"github.com/five82/tonearm/internal/musicd"
)

// DefaultQuiescence is how long a guard outlives the command it triggered.
const DefaultQuiescence = time.Second

// API is the daemon surface the Reconciler drives. *musicd.Client
// implements it.
type API interface {
	musicd.StatusFetcher
	musicd.Controller
}

// Options configure a Reconciler. API is required.
type Options struct {
	API        API
	Renderer   Renderer
	Clock      clock.Clock
	Quiescence time.Duration
	// Exec runs network calls off the reconciler lock. Defaults to a new
	// goroutine per call.
	Exec       func(func())
	Context    context.Context
	Logger     zerolog.Logger
	Downloader string
}

// Reconciler merges polled snapshots and pushed events into one View while
// protecting controls the user is driving. Every reaction runs under one
// mutex, so snapshots, events, commands and guard expiries never interleave.
type Reconciler struct {
	api        API
	render     Renderer
	clock      clock.Clock
	quiescence time.Duration
	exec       func(func())
	ctx        context.Context
	log        zerolog.Logger
	downloader string

	mu     sync.Mutex
	view   View
	scrub  guard
	volume guard
	outbox []func()
}

// New builds a Reconciler. Nothing is rendered until the first snapshot.
func New(opts Options) *Reconciler {
	r := &Reconciler{
		api:        opts.API,
		render:     opts.Renderer,
		clock:      opts.Clock,
		quiescence: opts.Quiescence,
		exec:       opts.Exec,
		ctx:        opts.Context,
		log:        opts.Logger.With().Str("component", "reconciler").Logger(),
		downloader: opts.Downloader,
	}
	if r.render == nil {
		r.render = nopRenderer{}
	}
	if r.clock == nil {
		r.clock = clock.New()
	}
	if r.quiescence <= 0 {
		r.quiescence = DefaultQuiescence
	}
	if r.exec == nil {
		r.exec = func(f func()) { go f() }
	}
	if r.ctx == nil {
		r.ctx = context.Background()
	}
	r.view.Volume = 1
	r.view.Paused = true
	return r
}

func (r *Reconciler) lock() {
	r.mu.Lock()
}

// unlock releases the mutex and then starts the network work queued by the
// reaction that held it.
func (r *Reconciler) unlock() {
	work := r.outbox
	r.outbox = nil
	r.mu.Unlock()
	for _, f := range work {
		r.exec(f)
	}
}

func (r *Reconciler) spawnLocked(f func()) {
	r.outbox = append(r.outbox, f)
}

// View returns a copy of the current view.
func (r *Reconciler) View() View {
	r.lock()
	defer r.unlock()
	v := r.view.clone()
	v.Scrubbing = r.scrub.active
	v.ChangingVolume = r.volume.active
	return v
}

// SetConnected records whether the push channel is open.
func (r *Reconciler) SetConnected(live bool) {
	r.lock()
	defer r.unlock()
	if r.view.Live == live {
		return
	}
	r.view.Live = live
	r.render.RenderConnection(live)
}

// OnSnapshot applies a polled /status response. The first one initializes
// the view wholesale; every one skips the seek position while scrubbing and
// the volume while it is being changed.
func (r *Reconciler) OnSnapshot(s *musicd.StatusResponse) {
	if s == nil {
		return
	}
	r.lock()
	defer r.unlock()
	if !r.view.Ready {
		r.initLocked(s)
		return
	}
	r.mergeLocked(s)
}

func (r *Reconciler) initLocked(s *musicd.StatusResponse) {
	v := &r.view
	v.Ready = true
	v.Paused = s.Paused()
	v.PlaylistID = s.PlaylistIDValue()
	v.PlaylistName = s.PlaylistNameValue()
	v.TrackIndex = s.CurrentIndex
	v.TrackName = s.TrackName()
	v.PositionLabel = s.PositionLabel()
	v.Duration = musicd.OptDuration(s.TotalDuration)
	v.DurationKnown = s.TotalDuration != nil
	if !r.scrub.active {
		v.Position = musicd.OptDuration(s.CurrentPos)
	}
	if !r.volume.active {
		v.Volume = s.VolumeLevel()
	}

	snapshot := v.clone()
	snapshot.Scrubbing = r.scrub.active
	snapshot.ChangingVolume = r.volume.active
	r.render.RenderAll(snapshot)
	r.log.Debug().Str("playlist", v.PlaylistID).Int("track", v.TrackIndex).Msg("initial snapshot applied")

	r.fetchPlaylistsLocked()
	r.fetchJobsLocked()
}

func (r *Reconciler) mergeLocked(s *musicd.StatusResponse) {
	v := &r.view

	if paused := s.Paused(); paused != v.Paused {
		v.Paused = paused
		r.render.RenderPlayState(paused)
	}
	if id, name := s.PlaylistIDValue(), s.PlaylistNameValue(); id != v.PlaylistID || name != v.PlaylistName {
		v.PlaylistID, v.PlaylistName = id, name
		r.render.RenderPlaylist(id, name)
	}
	if idx, name := s.CurrentIndex, s.TrackName(); idx != v.TrackIndex || name != v.TrackName {
		v.TrackIndex, v.TrackName = idx, name
		r.render.RenderTrack(idx, name)
	}
	if d, known := musicd.OptDuration(s.TotalDuration), s.TotalDuration != nil; d != v.Duration || known != v.DurationKnown {
		v.Duration, v.DurationKnown = d, known
		r.render.RenderDuration(d, known)
	}

	v.PositionLabel = s.PositionLabel()
	if r.scrub.active {
		r.render.RenderPosition(v.PositionLabel, v.Position, false)
	} else {
		v.Position = musicd.OptDuration(s.CurrentPos)
		r.render.RenderPosition(v.PositionLabel, v.Position, true)
	}

	if vol := s.VolumeLevel(); !r.volume.active && vol != v.Volume {
		v.Volume = vol
		r.render.RenderVolume(vol)
	}
}

// OnRemoteEvent applies one pushed event.
func (r *Reconciler) OnRemoteEvent(e event.Event) {
	if e == nil {
		return
	}
	r.lock()
	defer r.unlock()
	e.Dispatch(applier{r})
}

func (r *Reconciler) fetchPlaylistsLocked() {
	r.spawnLocked(func() {
		playlists, err := r.api.FetchPlaylists(r.ctx)
		r.lock()
		defer r.unlock()
		if err != nil {
			r.log.Warn().Err(err).Msg("playlist fetch failed")
			return
		}
		r.view.Playlists = playlists
		r.render.RenderPlaylists(r.view.clone().Playlists)
	})
}

func (r *Reconciler) fetchJobsLocked() {
	r.spawnLocked(func() {
		jobs, err := r.api.FetchJobs(r.ctx)
		r.lock()
		defer r.unlock()
		if err != nil {
			r.log.Warn().Err(err).Msg("job fetch failed")
			return
		}
		r.view.Jobs = jobs
		r.render.RenderJobs(r.view.clone().Jobs)
	})
}

// settleLocked arms the guard's expiry once nothing keeps it active. Each
// call restarts the window.
func (r *Reconciler) settleLocked(g *guard, name string) {
	if !g.settling() {
		return
	}
	g.stopTimer()
	g.gen++
	gen := g.gen
	g.timer = r.clock.AfterFunc(r.quiescence, func() {
		r.lock()
		defer r.unlock()
		if g.gen != gen || !g.settling() {
			return
		}
		g.active = false
		g.timer = nil
		r.log.Debug().Str("guard", name).Msg("guard expired")
	})
}
