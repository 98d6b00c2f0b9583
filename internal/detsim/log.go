package detsim

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetDebug switches the package logger between info and debug level.
func SetDebug(on bool) {
	Debug = on
	level := slog.LevelInfo
	if on {
		level = slog.LevelDebug
	}
	Logger = newLogger(os.Stderr, level)
}

// DebugLog is a printf style shortcut for Logger.Debug, a no-op unless Debug is set.
func DebugLog(format string, args ...interface{}) {
	if !Debug {
		return
	}
	Logger.Debug(fmt.Sprintf(format, args...))
}
