package uploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"crosscast/internal/config"
	"crosscast/internal/history"
	"crosscast/internal/library"
	"crosscast/internal/logging"
	"crosscast/internal/notifications"
	"crosscast/internal/status"
)

// Platform is an upload target. Implementations must be safe for
// concurrent use; the manager may upload different files in parallel.
type Platform interface {
	Name() string
	Upload(ctx context.Context, file library.FileInfo) error
}

// Progress reports a step in an upload run.
type Progress struct {
	UploadID string
	BaseName string
	Platform string
	Message  string
}

// Outcome summarizes one finished upload run.
type Outcome struct {
	UploadID   string
	Kind       status.Kind
	Successful []string
	Failed     []string
}

// Manager routes queued videos to their platforms with a bounded worker
// pool and keeps the sidecar markers and history store in step.
type Manager struct {
	cfg       *config.Config
	tracker   *status.Tracker
	store     *history.Store
	logger    *slog.Logger
	platforms map[string]Platform
	notifier  notifications.Service

	onProgress func(Progress)
}

// NewManager constructs an upload manager. The history store may be nil
// when history is disabled.
func NewManager(cfg *config.Config, tracker *status.Tracker, store *history.Store, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:       cfg,
		tracker:   tracker,
		store:     store,
		logger:    logging.NewComponentLogger(logger, "uploader"),
		platforms: make(map[string]Platform),
		notifier:  notifications.NewService(cfg),
	}
}

// SetNotifier replaces the notification service (used in tests).
func (m *Manager) SetNotifier(notifier notifications.Service) {
	m.notifier = notifier
}

// RegisterPlatform makes a platform available under its name. Registration
// must finish before Start or Upload is called.
func (m *Manager) RegisterPlatform(platform Platform) {
	m.platforms[strings.ToLower(platform.Name())] = platform
}

// OnProgress installs a callback invoked for each upload step. Must be set
// before Start or Upload is called.
func (m *Manager) OnProgress(fn func(Progress)) {
	m.onProgress = fn
}

// Upload runs the full upload for one video: marker transitions, each
// routed platform in order, and a history record. It blocks until the
// run finishes or the context is cancelled.
func (m *Manager) Upload(ctx context.Context, file library.FileInfo) Outcome {
	uploadID := uuid.NewString()
	outcome := Outcome{UploadID: uploadID}

	log := m.logger.With(
		logging.String("upload_id", uploadID),
		logging.String("file", file.Name),
	)
	log.Info("upload started", logging.Any("platforms", file.Platforms))

	m.tracker.Create(file.Path, status.KindUploading, "Title: "+file.Title)
	m.report(uploadID, file, "", "upload started")

	var failures []string
	for _, name := range file.Platforms {
		if err := ctx.Err(); err != nil {
			return m.cancelled(ctx, log, uploadID, file, outcome)
		}

		platform, ok := m.platforms[strings.ToLower(name)]
		if !ok {
			outcome.Failed = append(outcome.Failed, name)
			failures = append(failures, fmt.Sprintf("%s: no such platform", name))
			m.tracker.Update(file.Path, "platform not configured", name, "")
			log.Warn("platform not configured", logging.String("platform", name))
			continue
		}

		m.tracker.Update(file.Path, "upload started", name, "")
		m.report(uploadID, file, name, "upload started")

		err := platform.Upload(ctx, file)
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return m.cancelled(ctx, log, uploadID, file, outcome)
		}
		if err != nil {
			outcome.Failed = append(outcome.Failed, name)
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			m.tracker.Update(file.Path, "upload failed: "+err.Error(), name, "")
			m.report(uploadID, file, name, "upload failed")
			log.Error("platform upload failed", logging.Error(err), logging.String("platform", name))
			continue
		}

		outcome.Successful = append(outcome.Successful, name)
		m.tracker.Update(file.Path, "upload complete", name, "")
		m.report(uploadID, file, name, "upload complete")
	}

	detail := strings.Join(failures, "; ")
	switch {
	case len(outcome.Failed) == 0 && len(outcome.Successful) > 0:
		outcome.Kind = status.KindCompleted
		m.tracker.MarkCompleted(file.Path, outcome.Successful, "")
		m.notify(log, m.notifier.NotifyUploadCompleted(ctx, displayTitle(file), outcome.Successful))
	case len(outcome.Successful) == 0:
		outcome.Kind = status.KindError
		if detail == "" {
			detail = "no platforms routed"
		}
		m.tracker.MarkFailed(file.Path, detail)
		m.notify(log, m.notifier.NotifyUploadFailed(ctx, displayTitle(file), detail))
	default:
		outcome.Kind = status.KindPartial
		m.tracker.MarkPartial(file.Path, outcome.Successful, outcome.Failed)
		m.notify(log, m.notifier.NotifyUploadPartial(ctx, displayTitle(file), outcome.Successful, outcome.Failed))
	}

	m.record(ctx, uploadID, file, outcome.Kind, detail, outcome.Successful)
	m.report(uploadID, file, "", "upload finished")
	log.Info("upload finished",
		logging.String("result", string(outcome.Kind)),
		logging.Any("successful", outcome.Successful),
		logging.Any("failed", outcome.Failed),
	)
	return outcome
}

func (m *Manager) cancelled(ctx context.Context, log *slog.Logger, uploadID string, file library.FileInfo, outcome Outcome) Outcome {
	outcome.Kind = status.KindCancelled
	m.tracker.MarkCancelled(file.Path, "upload aborted")
	m.notify(log, m.notifier.NotifyUploadCancelled(context.WithoutCancel(ctx), displayTitle(file)))
	m.record(ctx, uploadID, file, status.KindCancelled, "upload aborted", outcome.Successful)
	m.report(uploadID, file, "", "upload cancelled")
	log.Warn("upload cancelled")
	return outcome
}

// record writes the run into the history store. History failures are logged
// and swallowed; the marker files already carry the outcome.
func (m *Manager) record(ctx context.Context, uploadID string, file library.FileInfo, kind status.Kind, detail string, platforms []string) {
	if m.store == nil {
		return
	}
	entry := &history.Entry{
		UploadID:   uploadID,
		BaseName:   strings.TrimSuffix(file.Name, filepath.Ext(file.Name)),
		SourcePath: file.Path,
		Kind:       kind,
		Platforms:  platforms,
		Detail:     detail,
	}
	if err := m.store.Add(context.WithoutCancel(ctx), entry); err != nil {
		m.logger.Error("record history failed", logging.Error(err))
	}
}

// notify logs notification delivery failures; they never affect the upload.
func (m *Manager) notify(log *slog.Logger, err error) {
	if err != nil {
		log.Warn("send notification failed", logging.Error(err))
	}
}

func displayTitle(file library.FileInfo) string {
	if file.Title != "" {
		return file.Title
	}
	return file.Name
}

func (m *Manager) report(uploadID string, file library.FileInfo, platform, message string) {
	if m.onProgress == nil {
		return
	}
	m.onProgress(Progress{
		UploadID: uploadID,
		BaseName: strings.TrimSuffix(file.Name, filepath.Ext(file.Name)),
		Platform: platform,
		Message:  message,
	})
}
