// Package history keeps a durable record of upload outcomes in SQLite.
// The sidecar marker files remain the user-facing source of truth; the
// history database serves queries that markers cannot answer, like
// outcomes for videos whose markers have since expired.
package history
