package library

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type metadata struct {
	Title            string
	Description      string
	ShortDescription string
}

// readMetadata loads sidecar metadata for a video. A per-file sidecar
// ("{base} TITLE.txt") wins over the folder-wide fallback ("TITLE.txt").
func readMetadata(videoPath string) metadata {
	dir := filepath.Dir(videoPath)
	base := filepath.Base(videoPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	return metadata{
		Title:            readSidecar(dir, base, "TITLE"),
		Description:      readSidecar(dir, base, "DESCRIPTION"),
		ShortDescription: readSidecar(dir, base, "SHORT_DESCRIPTION"),
	}
}

func readSidecar(dir, base, field string) string {
	candidates := []string{
		filepath.Join(dir, base+" "+field+".txt"),
		filepath.Join(dir, field+".txt"),
	}
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			return text
		}
	}
	return ""
}

// inferTitle derives a presentable title from a video filename: the extension
// and any leading sequence digits are dropped, separators collapse to spaces,
// and the result is title-cased.
func inferTitle(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.TrimLeftFunc(base, func(r rune) bool {
		return unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})

	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return cases.Title(language.Und).String(title)
}
