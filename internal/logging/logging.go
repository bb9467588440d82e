package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New returns a text logger writing to w at the given level name
// (debug, info, warn, error). Unknown names fall back to info.
func New(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
