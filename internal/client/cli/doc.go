// Package cli implements the interactive mycolog command loop: recording
// observations into the local store, browsing and editing them, and the
// operator surface of cloud sync (login, manual sync, status, on/off).
//
// The loop itself is dumb on purpose: command handlers own their errors and
// their output, the REPL only parses and dispatches.
package cli
