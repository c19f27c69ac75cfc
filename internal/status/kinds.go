package status

import "strings"

// Kind identifies the lifecycle state a marker file records for a video.
type Kind string

const (
	KindUploading Kind = "UPLOADING"
	KindCompleted Kind = "COMPLETED"
	KindPartial   Kind = "PARTIAL"
	KindError     Kind = "ERROR"
	KindCancelled Kind = "CANCELLED"

	// KindPending is synthetic: reported for files without a marker,
	// never written to disk.
	KindPending Kind = "PENDING"
)

// markerKinds is the probe and enumeration order for on-disk markers.
var markerKinds = []Kind{
	KindUploading,
	KindCompleted,
	KindPartial,
	KindError,
	KindCancelled,
}

var kindMessages = map[Kind]string{
	KindUploading: "Upload in progress",
	KindCompleted: "Upload completed successfully",
	KindPartial:   "Partial upload (some platforms failed)",
	KindError:     "Upload failed",
	KindCancelled: "Upload cancelled by user",
	KindPending:   "Ready for upload",
}

// MarkerKinds returns the ordered list of kinds persisted as marker files.
func MarkerKinds() []Kind {
	cp := make([]Kind, len(markerKinds))
	copy(cp, markerKinds)
	return cp
}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	normalized := Kind(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	if _, ok := kindMessages[normalized]; !ok {
		return "", false
	}
	return normalized, true
}

// Message returns the fixed human-readable description bound to the kind.
func (k Kind) Message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return "Unknown status"
}

// IsMarker reports whether the kind is persisted as a marker file.
func (k Kind) IsMarker() bool {
	for _, known := range markerKinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the kind ends a tracking lifecycle. Any state
// can still be re-entered by a fresh Create call.
func (k Kind) IsTerminal() bool {
	switch k {
	case KindCompleted, KindPartial, KindError, KindCancelled:
		return true
	default:
		return false
	}
}

// Processed reports whether the kind counts as already handled. Only
// COMPLETED and ERROR qualify; PARTIAL and CANCELLED stay retryable.
func (k Kind) Processed() bool {
	return k == KindCompleted || k == KindError
}

// markerSuffix returns the filename suffix markers of this kind carry.
func (k Kind) markerSuffix() string {
	return "_" + string(k) + ".txt"
}
