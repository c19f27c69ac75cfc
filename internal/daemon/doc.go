// Package daemon coordinates the long-running crosscast process.
//
// It wires the drop-folder watcher, the library scanner, and the upload
// pool into a single lifecycle with flock-based locking to prevent
// multiple instances. Orchestration logic lives here; the individual
// pieces live in their own packages.
package daemon
