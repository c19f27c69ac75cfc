// Package library scans configured drop folders for videos awaiting upload
// and resolves the metadata and platform routing for each one.
package library

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"crosscast/internal/config"
	"crosscast/internal/logging"
	"crosscast/internal/status"
)

// FileInfo describes a video ready for upload.
type FileInfo struct {
	Path             string
	Name             string
	Folder           string
	Title            string
	Description      string
	ShortDescription string
	Platforms        []string
}

// FolderCount reports how many uploadable videos a drop folder holds.
type FolderCount struct {
	Name   string
	Dir    string
	Videos int
}

// Scanner walks the configured drop folders and builds FileInfo values for
// videos that still need uploading.
type Scanner struct {
	cfg     *config.Config
	tracker *status.Tracker
	logger  *slog.Logger
}

func NewScanner(cfg *config.Config, tracker *status.Tracker, logger *slog.Logger) *Scanner {
	return &Scanner{
		cfg:     cfg,
		tracker: tracker,
		logger:  logging.NewComponentLogger(logger, "library"),
	}
}

// Scan returns every uploadable video across all configured folders, in
// folder order and path order within each folder.
func (s *Scanner) Scan() []FileInfo {
	var files []FileInfo
	for _, folder := range s.cfg.Folders {
		files = append(files, s.scanFolder(folder)...)
	}
	return files
}

// ScanFolder returns the uploadable videos in a single named folder.
func (s *Scanner) ScanFolder(name string) ([]FileInfo, error) {
	folder, ok := s.cfg.FolderByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown folder %q", name)
	}
	return s.scanFolder(folder), nil
}

func (s *Scanner) scanFolder(folder config.Folder) []FileInfo {
	extensions := s.cfg.VideoExtensionSet()

	var files []FileInfo
	err := filepath.WalkDir(folder.Dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == folder.Dir {
				return filepath.SkipAll
			}
			s.logger.Warn("walk error",
				logging.Error(err),
				logging.String("path", path),
			)
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if !isVideo(entry.Name(), extensions) {
			return nil
		}
		info, err := entry.Info()
		if err != nil || info.Size() == 0 {
			return nil
		}
		if s.skipByStatus(path) {
			return nil
		}
		files = append(files, s.describe(path, folder))
		return nil
	})
	if err != nil {
		s.logger.Warn("scan folder failed",
			logging.Error(err),
			logging.String("folder", folder.Name),
		)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Describe builds the FileInfo for a single video path. The path must live
// under one of the configured drop folders.
func (s *Scanner) Describe(path string) (FileInfo, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("resolve path: %w", err)
	}
	folder, ok := s.folderFor(absolute)
	if !ok {
		return FileInfo{}, fmt.Errorf("path %q is outside all configured folders", path)
	}
	if !isVideo(filepath.Base(absolute), s.cfg.VideoExtensionSet()) {
		return FileInfo{}, fmt.Errorf("path %q is not a video file", path)
	}
	return s.describe(absolute, folder), nil
}

func (s *Scanner) describe(path string, folder config.Folder) FileInfo {
	name := filepath.Base(path)
	meta := readMetadata(path)
	if meta.Title == "" {
		meta.Title = inferTitle(name)
	}
	return FileInfo{
		Path:             path,
		Name:             name,
		Folder:           folder.Name,
		Title:            meta.Title,
		Description:      meta.Description,
		ShortDescription: meta.ShortDescription,
		Platforms:        platformsFor(folder, name),
	}
}

// FolderStats counts the uploadable videos per folder and in total.
func (s *Scanner) FolderStats() ([]FolderCount, int) {
	counts := make([]FolderCount, 0, len(s.cfg.Folders))
	total := 0
	for _, folder := range s.cfg.Folders {
		videos := len(s.scanFolder(folder))
		counts = append(counts, FolderCount{Name: folder.Name, Dir: folder.Dir, Videos: videos})
		total += videos
	}
	return counts, total
}

// EnsureFolders creates any configured drop folders that do not exist yet.
func (s *Scanner) EnsureFolders() error {
	for _, folder := range s.cfg.Folders {
		if err := os.MkdirAll(folder.Dir, 0o755); err != nil {
			return fmt.Errorf("create folder %q: %w", folder.Name, err)
		}
	}
	return nil
}

// skipByStatus reports whether the file is already uploading or uploaded.
func (s *Scanner) skipByStatus(path string) bool {
	kind := s.tracker.Status(path).Kind
	return kind == status.KindUploading || kind == status.KindCompleted
}

func (s *Scanner) folderFor(path string) (config.Folder, bool) {
	for _, folder := range s.cfg.Folders {
		rel, err := filepath.Rel(folder.Dir, path)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return folder, true
		}
	}
	return config.Folder{}, false
}

// platformsFor resolves the target platforms for a file in the given folder,
// including bonus platforms when the filename matches.
func platformsFor(folder config.Folder, name string) []string {
	platforms := append([]string(nil), folder.Platforms...)
	if folder.BonusMatch != "" && strings.Contains(name, folder.BonusMatch) {
		for _, bonus := range folder.BonusPlatforms {
			if !containsFold(platforms, bonus) {
				platforms = append(platforms, bonus)
			}
		}
	}
	return platforms
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}

func isVideo(name string, extensions map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := extensions[ext]
	return ok
}
