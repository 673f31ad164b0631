// Package history records pipeline runs and per-file outcomes in a SQLite
// database under the state directory.
//
// The ledger is informational. Whether a file still needs transcription is
// decided by the presence of its transcript, never by history rows, so the
// database can be deleted at any time.
package history
