// Package logging builds the leveled key/value logger shared by the commands.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a config level name to a logger level; unknown names fall
// back to info.
func ParseLevel(name string) log.Level {
	lvl, err := log.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func New(w io.Writer, prefix, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           ParseLevel(level),
	})
}
