package status

import "time"

// Record is the view of one tracked file's current status. For files without
// a marker it is synthesized with KindPending and an empty Path.
type Record struct {
	BaseName  string
	Kind      Kind
	Message   string
	Content   string
	Timestamp time.Time
	Path      string
}

// Pending reports whether the record is the synthetic no-marker state.
func (r Record) Pending() bool {
	return r.Kind == KindPending
}

// Counts aggregates marker records in a folder. Pending counts records whose
// kind falls outside the four tracked buckets (in practice CANCELLED); it
// does not count files that have no marker at all. Callers needing true
// untracked counts must reconcile against the directory listing themselves.
type Counts struct {
	Total     int
	Completed int
	Failed    int
	Uploading int
	Partial   int
	Pending   int
}
