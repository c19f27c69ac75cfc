// Package uploader dispatches videos to their routed platforms and drives
// the marker lifecycle for each run: UPLOADING while work is in flight,
// then COMPLETED, PARTIAL, ERROR, or CANCELLED depending on how the
// platforms fared.
package uploader
