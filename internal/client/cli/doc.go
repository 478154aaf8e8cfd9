// Package cli implements the interactive braindump REPL: account commands,
// audio import with live analysis progress, and recording library browsing.
//
// Output rendering is plain text; action-item completion toggled via "done"
// is a local overlay that never reaches the backend.
package cli
