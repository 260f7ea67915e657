// Package wsconn maintains one self-healing websocket to the musicd push
// endpoint.
//
// # Overview
//
// A Conn dials a fixed endpoint, reconnects with exponential backoff after
// any failure and sends a keep-alive frame while the socket is open. Callers
// never see transport errors as return values; they subscribe to lifecycle
// notices instead:
//
//	conn := wsconn.New(client.PushURL(), wsconn.Options{Logger: log})
//	conn.On(wsconn.KindMessage, func(n wsconn.Notice) { ... })
//	conn.On(wsconn.KindClosed, func(n wsconn.Notice) { ... })
//	conn.Open(ctx)
//	defer conn.Close(websocket.CloseNormalClosure, "bye")
//
// # Lifecycle
//
//	Disconnected ──Open──> Connecting ──dial ok──> Open
//	     ^                     │                    │
//	     └──── wait backoff ───┴──── drop/error ────┘
//
//	Close(code, reason) from any state ──> ClosingIntentional (terminal)
//
// Entering Open resets the backoff to its base delay and starts the
// heartbeat. Leaving Open stops the heartbeat immediately, emits a closed
// notice and schedules the next dial after the current delay, which then
// doubles up to the ceiling. Retries are unbounded.
//
// # Messages
//
// Send writes a text frame only while Open. Otherwise it logs a warning and
// returns false; nothing is queued for later delivery. Incoming frames are
// delivered raw through KindMessage notices and decoded by the caller.
//
// # Testing
//
// Options.Clock, Options.Dialer and Options.Spawn make every timer and dial
// controllable. With a clock.Mock and a synchronous Spawn, advancing the
// mock runs the reconnect dial on the timer's goroutine, so tests wait for
// the resulting state instead of asserting immediately.
package wsconn
