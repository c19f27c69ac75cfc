// Command crosscast is the CLI for the crosscast upload tracker. It reports
// and edits sidecar status markers, scans the drop folders, and runs the
// watch daemon that uploads new videos as they arrive.
package main
