// Package ui provides the terminal user interface for tonearm, built on
// Bubble Tea, Bubbles and Lip Gloss.
//
// # Architecture Overview
//
// The UI never talks to musicd directly. Commands go to a Controls value
// (the state.Reconciler in production) and everything the UI shows arrives
// back through a Feed, the state.Renderer the reconciler draws on:
//
//	key / mouse ──► Model.Update ──► Controls (reconciler) ──► musicd
//	                     ▲                     │
//	                     └──── Feed.Wait ◄─────┘ render calls
//
// The reconciler calls its renderer while holding its lock, so Feed never
// blocks: it appends a message to a queue and wakes the Wait command, which
// hands the whole batch to Update. Update applies render messages in order
// and re-arms Wait.
//
// # Package Structure
//
//   - app.go: Model, Options, key routing and Run
//   - feed.go: Feed and the render messages
//   - player.go: now playing panel, seek bar geometry and mouse scrubbing
//   - library.go: playlists and jobs views
//   - logs.go: tail of the client's own log file
//   - modal.go: publish form and confirmation dialog
//   - marquee.go: scrolling track title
//   - header.go, box.go, help.go: chrome
//   - theme.go, style_helpers.go, keys.go: styling and bindings
//
// # Views
//
//   - Player: title, seek and volume bars, and the current playlist's tracks
//   - Playlists: published playlists; enter queues one, S switches now
//   - Jobs: scheduled daemon jobs and their repeat rules
//   - Logs: the last lines of the client log, colored by level
//
// # Controls Held by the User
//
// Pressing s (or pressing the left button on the seek bar) holds the seek
// control: arrow keys or mouse motion move it locally and enter (or the
// button release) sends the seek. v does the same for volume. While a
// control is held the reconciler keeps polled values from moving it.
//
// # Usage Example
//
//	feed := ui.NewFeed()
//	rec := state.New(state.Options{API: client, Renderer: feed})
//	err := ui.Run(ui.Options{
//		Context:  ctx,
//		Controls: rec,
//		Feed:     feed,
//		Prefs:    userPrefs,
//		LogPath:  cfg.LogFile,
//	})
//
// # Key Bindings
//
// See keys.go and the in-app help (h or ?). Theme changes (T) are saved to
// the preferences file.
package ui
