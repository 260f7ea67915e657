// Package musicd provides an HTTP client for the musicd player daemon API.
//
// # Overview
//
// This package defines the request/response side of talking to musicd: the
// periodic status snapshot, the playlist and job listings, and the control
// commands. The push channel lives in package wsconn; this package only knows
// its address (PushURL).
//
// # Architecture
//
//   - client.go: HTTP client, read endpoints and control commands
//   - types.go: Data structures mirroring the daemon's JSON schema
//
// # API Endpoints
//
// Read endpoints:
//
//   - GET /status: player snapshot (playlist, track, position, volume)
//   - GET /playlists: published playlists, newest first
//   - GET /jobs: scheduled jobs
//
// Commands (all POST, all answering {"success": bool, "message": string}):
//
//   - /control/play, /control/pause, /control/prev, /control/next
//   - /control/seek {"secs": n}
//   - /control/volume {"value": 0..1}
//   - /control/track/{idx}
//   - /control/playlist/{id} {"mode": "queue"|"skip"}
//   - /publish {"name", "source_urls", "downloader"}
//   - /clean
//
// # Error Handling
//
// All errors are wrapped with context using fmt.Errorf:
//
//   - "execute request: dial tcp: connection refused"
//   - "api /status returned status 500"
//   - "decode response: unexpected end of JSON input"
//
// A command the daemon answers with success=false yields an error matching
// ErrCommandRejected via errors.Is.
//
// # Durations
//
// The daemon encodes durations as {"secs": u64, "nanos": u32}. Duration
// mirrors that shape and converts with Std and NewDuration. Optional
// durations are pointers; OptDuration maps nil to zero.
//
// # Thread Safety
//
// The Client is safe for concurrent use. Commands are issued from background
// goroutines while the poller fetches status on its own ticker.
package musicd
