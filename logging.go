package main

import (
	"os"

	"github.com/charmbracelet/log"
)

func logLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// setupLogger installs the process wide logger. Output goes to stderr so
// that the filter command keeps stdout for the document.
func setupLogger(level string, asJSON bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           logLevel(level),
	})
	if asJSON {
		l.SetFormatter(log.JSONFormatter)
	}
	log.SetDefault(l)
	return l
}
