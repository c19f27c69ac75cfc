// Package status tracks the upload lifecycle of local video files through
// plain-text marker files stored next to each video.
//
// A marker is named {baseName}_{KIND}.txt and at most one exists per base
// name at any time; creating a record for a different kind removes the old
// marker first. Absence of a marker is the valid PENDING state, not an
// error. The tracker is best-effort bookkeeping: every operation converts
// filesystem failures into logged boolean results so it can never interrupt
// an upload in progress.
//
// Markers are human-readable and the on-disk format is a user-facing
// contract; treat this package as the single source of truth for marker
// naming and content.
package status
