package detsim

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDebugLog(t *testing.T) {
	oldDebug, oldLogger := Debug, Logger
	defer func() { Debug, Logger = oldDebug, oldLogger }()

	var buf bytes.Buffer
	Logger = newLogger(&buf, slog.LevelDebug)

	Debug = false
	DebugLog("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("unexpected output with Debug off: %q", buf.String())
	}

	Debug = true
	DebugLog("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") || !strings.Contains(buf.String(), "level=DEBUG") {
		t.Fatalf("missing debug line: %q", buf.String())
	}
}

func TestSetDebug(t *testing.T) {
	oldDebug, oldLogger := Debug, Logger
	defer func() { Debug, Logger = oldDebug, oldLogger }()

	SetDebug(true)
	if !Debug || !Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("SetDebug(true) did not enable debug logging")
	}
	SetDebug(false)
	if Debug || Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("SetDebug(false) left debug logging on")
	}
}
