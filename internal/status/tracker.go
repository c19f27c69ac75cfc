package status

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"crosscast/internal/logging"
)

// timeLayout is the human-readable stamp written into marker bodies.
const timeLayout = "2006-01-02 15:04:05"

// Tracker records upload lifecycle state in marker files stored next to the
// tracked video. Every operation traps filesystem failures, logs them, and
// reports success as a bool so bookkeeping can never abort an upload.
type Tracker struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewTracker constructs a tracker. A nil logger is replaced with a no-op.
func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{
		logger: logging.NewComponentLogger(logger, "tracker"),
		now:    time.Now,
	}
}

// Create replaces any existing marker for the file's base name with a fresh
// marker of the given kind. The optional content lines come first, then the
// kind with its fixed message, a timestamp, and the tracked file's name.
func (t *Tracker) Create(filePath string, kind Kind, content string) bool {
	if !kind.IsMarker() {
		t.logger.Error("cannot create marker for non-persistable kind",
			logging.String("kind", string(kind)),
			logging.String("file", filePath),
		)
		return false
	}

	// Removal failures are already logged; the write below still proceeds.
	t.Cleanup(filePath)

	var body strings.Builder
	if content != "" {
		body.WriteString(content)
		body.WriteByte('\n')
	}
	fmt.Fprintf(&body, "%s - %s\n", kind, kind.Message())
	fmt.Fprintf(&body, "Time: %s\n", t.now().Format(timeLayout))
	fmt.Fprintf(&body, "File: %s\n", filepath.Base(filePath))

	marker := markerPath(filePath, kind)
	if err := renameio.WriteFile(marker, []byte(body.String()), 0o644); err != nil {
		t.logger.Error("write marker failed",
			logging.Error(err),
			logging.String("marker", marker),
		)
		return false
	}
	return true
}

// Update appends one progress line to the file's active marker. The line is
// prefixed with the supplied timestamp, or the current local time when none
// is given. Returns false without creating anything when no marker exists.
func (t *Tracker) Update(filePath, content, platform, timestamp string) bool {
	marker, _, ok := t.findMarker(filePath)
	if !ok {
		t.logger.Debug("no marker to update", logging.String("file", filePath))
		return false
	}

	prefix := strings.TrimSpace(timestamp)
	if prefix == "" {
		prefix = t.now().Format("15:04:05")
	}
	line := fmt.Sprintf("%s - %s: %s\n", prefix, platform, content)

	f, err := os.OpenFile(marker, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.logger.Error("open marker for append failed",
			logging.Error(err),
			logging.String("marker", marker),
		)
		return false
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		t.logger.Error("append progress line failed",
			logging.Error(err),
			logging.String("marker", marker),
		)
		return false
	}
	return true
}

// Status returns the file's current record. Absence of a marker is not an
// error: a synthetic PENDING record with the current time is returned, as it
// is for unreadable markers after logging the failure.
func (t *Tracker) Status(filePath string) Record {
	base := stem(filePath)
	marker, kind, ok := t.findMarker(filePath)
	if !ok {
		return t.pendingRecord(base)
	}

	record, err := t.readRecord(marker, base, kind)
	if err != nil {
		t.logger.Error("read marker failed",
			logging.Error(err),
			logging.String("marker", marker),
		)
		return t.pendingRecord(base)
	}
	return record
}

// Cleanup removes every marker for the file's base name, across all kinds.
// Deleting nothing is still success.
func (t *Tracker) Cleanup(filePath string) bool {
	ok := true
	for _, kind := range markerKinds {
		marker := markerPath(filePath, kind)
		if err := os.Remove(marker); err != nil && !errors.Is(err, fs.ErrNotExist) {
			t.logger.Error("remove marker failed",
				logging.Error(err),
				logging.String("marker", marker),
			)
			ok = false
		}
	}
	return ok
}

// ListAll recursively scans the folder for marker files and returns one
// record per distinct base name, first match winning in scan order. A
// missing folder yields an empty map.
func (t *Tracker) ListAll(folderPath string) map[string]Record {
	records := make(map[string]Record)

	err := filepath.WalkDir(folderPath, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == folderPath && errors.Is(walkErr, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			t.logger.Warn("scan entry skipped",
				logging.Error(walkErr),
				logging.String("path", path),
			)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		base, kind, ok := splitMarkerName(d.Name())
		if !ok {
			return nil
		}
		if _, seen := records[base]; seen {
			return nil
		}
		record, err := t.readRecord(path, base, kind)
		if err != nil {
			t.logger.Warn("unreadable marker skipped",
				logging.Error(err),
				logging.String("marker", path),
			)
			return nil
		}
		records[base] = record
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.logger.Error("scan folder failed",
			logging.Error(err),
			logging.String("folder", folderPath),
		)
	}

	return records
}

// Aggregate computes per-bucket totals over ListAll. The bucket counts
// always sum to Total; see Counts for the pending bucket's semantics.
func (t *Tracker) Aggregate(folderPath string) Counts {
	counts := Counts{}
	for _, record := range t.ListAll(folderPath) {
		counts.Total++
		switch record.Kind {
		case KindCompleted:
			counts.Completed++
		case KindError:
			counts.Failed++
		case KindUploading:
			counts.Uploading++
		case KindPartial:
			counts.Partial++
		default:
			counts.Pending++
		}
	}
	return counts
}

// MarkCompleted records a successful upload to the given platforms.
func (t *Tracker) MarkCompleted(filePath string, platforms []string, details string) bool {
	content := "Successfully uploaded to: " + strings.Join(platforms, ", ")
	if details != "" {
		content += "\nDetails: " + details
	}
	return t.Create(filePath, KindCompleted, content)
}

// MarkFailed records a failed upload with the error text.
func (t *Tracker) MarkFailed(filePath, errorMessage string) bool {
	return t.Create(filePath, KindError, errorMessage)
}

// MarkPartial records an upload that succeeded on some platforms only.
func (t *Tracker) MarkPartial(filePath string, successful, failed []string) bool {
	content := "Successful: " + strings.Join(successful, ", ") +
		"\nFailed: " + strings.Join(failed, ", ")
	return t.Create(filePath, KindPartial, content)
}

// MarkCancelled records a user- or shutdown-initiated cancellation.
func (t *Tracker) MarkCancelled(filePath, reason string) bool {
	return t.Create(filePath, KindCancelled, reason)
}

// IsProcessed reports whether the file's current kind is COMPLETED or ERROR.
// PARTIAL and CANCELLED deliberately stay false so they can be retried.
func (t *Tracker) IsProcessed(filePath string) bool {
	return t.Status(filePath).Kind.Processed()
}

// Recent returns up to limit COMPLETED or PARTIAL records from the folder,
// most recent first. A limit of zero or less applies the default of 10.
func (t *Tracker) Recent(folderPath string, limit int) []Record {
	if limit <= 0 {
		limit = 10
	}

	var uploads []Record
	for _, record := range t.ListAll(folderPath) {
		if record.Kind == KindCompleted || record.Kind == KindPartial {
			uploads = append(uploads, record)
		}
	}
	sort.Slice(uploads, func(i, j int) bool {
		if uploads[i].Timestamp.Equal(uploads[j].Timestamp) {
			return uploads[i].BaseName < uploads[j].BaseName
		}
		return uploads[i].Timestamp.After(uploads[j].Timestamp)
	})

	if len(uploads) > limit {
		uploads = uploads[:limit]
	}
	return uploads
}

// ExpireOlderThan deletes marker files directly under the folder whose
// modification time is older than the given age, returning the number
// deleted. A missing folder yields 0. Age zero expires everything.
func (t *Tracker) ExpireOlderThan(folderPath string, age time.Duration) int {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			t.logger.Error("read folder failed",
				logging.Error(err),
				logging.String("folder", folderPath),
			)
		}
		return 0
	}

	cutoff := t.now().Add(-age)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, _, ok := splitMarkerName(entry.Name()); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			t.logger.Warn("stat marker failed",
				logging.Error(err),
				logging.String("marker", entry.Name()),
			)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(folderPath, entry.Name())
		if err := os.Remove(path); err != nil {
			t.logger.Warn("expire marker failed",
				logging.Error(err),
				logging.String("marker", path),
			)
			continue
		}
		deleted++
	}
	return deleted
}

func (t *Tracker) pendingRecord(base string) Record {
	return Record{
		BaseName:  base,
		Kind:      KindPending,
		Message:   KindPending.Message(),
		Timestamp: t.now(),
	}
}

// findMarker probes each kind in enumeration order for the file's base name.
func (t *Tracker) findMarker(filePath string) (string, Kind, bool) {
	for _, kind := range markerKinds {
		marker := markerPath(filePath, kind)
		if _, err := os.Stat(marker); err == nil {
			return marker, kind, true
		}
	}
	return "", "", false
}

func (t *Tracker) readRecord(marker, base string, kind Kind) (Record, error) {
	data, err := os.ReadFile(marker)
	if err != nil {
		return Record{}, err
	}
	info, err := os.Stat(marker)
	if err != nil {
		return Record{}, err
	}
	return Record{
		BaseName:  base,
		Kind:      kind,
		Message:   kind.Message(),
		Content:   strings.TrimSpace(string(data)),
		Timestamp: info.ModTime(),
		Path:      marker,
	}, nil
}

// markerPath returns the sibling marker path for the tracked file and kind.
func markerPath(filePath string, kind Kind) string {
	dir := filepath.Dir(filePath)
	return filepath.Join(dir, stem(filePath)+kind.markerSuffix())
}

// splitMarkerName extracts the base name and kind from a marker filename.
func splitMarkerName(name string) (string, Kind, bool) {
	for _, kind := range markerKinds {
		suffix := kind.markerSuffix()
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			return strings.TrimSuffix(name, suffix), kind, true
		}
	}
	return "", "", false
}

// stem returns the tracked file's name with its extension removed.
func stem(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
