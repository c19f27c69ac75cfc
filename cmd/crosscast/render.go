package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"crosscast/internal/status"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiCyan   = "\x1b[36m"
)

// renderRecord formats a one-line status summary for a tracked file.
func renderRecord(record status.Record, colorize bool) string {
	kind := string(record.Kind)
	if colorize {
		if color := kindColor(record.Kind); color != "" {
			kind = color + kind + ansiReset
		}
	}
	line := fmt.Sprintf("%s  %s - %s", record.Timestamp.Format(time.DateTime), kind, record.Message)
	if record.Kind == status.KindPending {
		line = fmt.Sprintf("%s - %s", kind, record.Message)
	}
	return line
}

func kindColor(kind status.Kind) string {
	switch kind {
	case status.KindCompleted:
		return ansiGreen
	case status.KindPartial, status.KindCancelled:
		return ansiYellow
	case status.KindError:
		return ansiRed
	case status.KindUploading:
		return ansiCyan
	case status.KindPending:
		return ansiBlue
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
