// Package app is the composition root for tonearm.
//
// # Overview
//
// Run wires configuration, logging, the musicd client, the push channel,
// the reconciler and the UI, then blocks in the TUI until the user quits or
// the context is cancelled. Watch reuses the same push wiring without a UI
// and prints every event frame.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> logging.New()      zerolog to the log file
//	       ├─────> musicd.NewClient() HTTP control surface
//	       ├─────> state.New()        reconciler, renders into ui.Feed
//	       ├─────> wsconn.New()       push channel, BindPush() -> reconciler
//	       ├─────> StartPoller()      /status now, then every poll interval
//	       └─────> ui.Run()           bubbletea program (blocks)
//
// # Sources of truth
//
// Two inputs reach the reconciler concurrently:
//
//   - Push events from the websocket, applied as they arrive.
//   - Snapshots from the poller, which repair anything push missed.
//
// Guards inside the reconciler keep either source from overwriting a value
// the user is still adjusting.
//
// # Error Handling
//
// Run returns errors only for setup failures such as a bad log path or an
// unparsable host. A daemon that is down at startup is not fatal: the UI
// starts in the reconnecting state and the poller keeps trying.
package app
