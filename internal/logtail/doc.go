// Package logtail reads the tail of tonearm's log file and decodes its lines
// for display in the TUI.
//
// # Reading
//
// Read returns the last maxLines lines of a file using a ring buffer, so
// memory stays proportional to maxLines rather than the file size. A missing
// file yields no lines and no error, since the logger may not have written
// anything yet.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// # Parsing
//
// The logger writes one JSON object per line. Parse pulls out the well known
// keys (time, level, component, message) and keeps the rest as sorted Fields.
// Anything that is not a JSON object, such as a panic trace, comes back as a
// Raw entry carrying the original text.
//
//	{"level":"warn","component":"wsconn","error":"refused","time":"...","message":"connect failed"}
//
// renders through Entry.String as
//
//	2026-10-18 14:32:15 WARN [wsconn] connect failed – error=refused
//
// Styling is left to the UI.
package logtail
