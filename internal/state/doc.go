// Package state reconciles the daemon's player state for the tonearm UI.
//
// # Overview
//
// Two independent sources describe the same daemon: a full /status snapshot
// polled every 1.5 seconds and a stream of pushed events. They overlap, race
// and may arrive stale. The Reconciler merges both into one View and turns
// user input into daemon commands.
//
// # Architecture
//
//	Poller ──OnSnapshot──┐
//	                     │         ┌──────────────┐
//	Push conn ─OnRemote──┼──mutex─>│  Reconciler  │──Renderer calls──> UI
//	          Event      │         │  View+guards │
//	UI keys ──commands───┘         └──────┬───────┘
//	                                      │ Exec (off-lock)
//	                                      v
//	                               musicd HTTP API
//
// Every reaction (snapshot, event, command, request completion, guard
// expiry) runs under one mutex, so reactions never interleave. Network
// calls are queued while locked and started after the lock is released;
// their results come back as new reactions.
//
// # Snapshots
//
// The first snapshot initializes the view wholesale, calls RenderAll and
// fetches the playlist and job listings. Later snapshots overwrite every
// field except the seek position while the scrub guard is active and the
// volume while the volume guard is active. Snapshots are applied in arrival
// order without sequence numbers.
//
// # Guards
//
// A guard protects a control the user is driving:
//
//	BeginScrub ──> held ──EndScrub(pos)──> seek in flight ──done──> 1s window ──> cleared
//
// While a guard is active, remote updates of that control are ignored.
// Pushed seek positions still refresh the position label. Each completed
// command restarts the window, and the window only starts once every command
// triggered under the guard has returned. The scrub and volume guards are
// independent.
//
// # Events
//
//	PLAYED / PAUSED          set paused, render play state
//	TRACK_CHANGED            set track, restart title, refetch playlists
//	TRACK_DURATION_CHANGED   set duration
//	PLAYLIST_CHANGED         set playlist, refetch playlists
//	PLAYLIST_PUBLISHED       notify, refetch playlists
//	SEEK_POSITION_CHANGED    set label; move control unless scrubbing
//	VOLUME_CHANGED           set volume unless changing volume
//	JOBS_UPDATED             refetch jobs
//	RUNNING_JOB              notify
//
// # Commands
//
// TogglePlayback is optimistic. Seek and volume commands update their
// control optimistically under a guard. Everything else only marks the
// action pending until the request returns. Failed commands are logged and
// reported through CommandFailed; the next snapshot or event corrects any
// optimistic state.
//
// # Testing
//
// Options.Clock and Options.Exec make expiry and request completion fully
// deterministic:
//
//	r := state.New(state.Options{API: fake, Clock: clk, Exec: queue.run})
package state
