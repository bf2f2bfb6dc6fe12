package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/icodeforyou/solarproposal-go/database"
)

type memoryStore struct {
	entries []database.LogEntryRow
	err     error
}

func (s *memoryStore) SaveLogEntry(_ context.Context, r database.LogEntryRow) error {
	s.entries = append(s.entries, r)
	return s.err
}

func TestSQLiteHandlerKeepsModuleAttr(t *testing.T) {
	store := &memoryStore{}
	logger := slog.New(NewSQLiteHandler(store, slog.LevelInfo, LogAttrFormatText)).With("module", "proposal")

	logger.Debug("dropped")
	logger.Info("simulation done", slog.Int("breakeven", 74))

	if len(store.entries) != 1 {
		t.Fatalf("got %d entries, wanted 1", len(store.entries))
	}
	e := store.entries[0]
	if e.Message != "simulation done" {
		t.Errorf("got message %q, wanted %q", e.Message, "simulation done")
	}
	if e.Attrs != "module=proposal; breakeven=74" {
		t.Errorf("got attrs %q, wanted %q", e.Attrs, "module=proposal; breakeven=74")
	}
}

func TestSQLiteHandlerJSON(t *testing.T) {
	store := &memoryStore{}
	logger := slog.New(NewSQLiteHandler(store, slog.LevelDebug, LogAttrFormatJSON)).WithGroup("req")

	logger.Warn("slow", slog.String("path", "/api/proposals"))

	if got := store.entries[0].Attrs; got != `[{"req.path":"/api/proposals"}]` {
		t.Errorf("got attrs %s", got)
	}
	if store.entries[0].Level != int(slog.LevelWarn) {
		t.Errorf("got level %d, wanted %d", store.entries[0].Level, slog.LevelWarn)
	}
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var console bytes.Buffer
	store := &memoryStore{}
	h := NewMultiHandler(
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		NewSQLiteHandler(store, slog.LevelInfo, LogAttrFormatJSON),
	)
	logger := slog.New(h)

	logger.Debug("nobody")
	logger.Info("database only")
	logger.Error("both")

	if strings.Contains(console.String(), "database only") {
		t.Errorf("got info record on console: %s", console.String())
	}
	if !strings.Contains(console.String(), "both") {
		t.Errorf("got no error record on console")
	}
	if len(store.entries) != 2 {
		t.Errorf("got %d stored entries, wanted 2", len(store.entries))
	}
}

func TestMultiHandlerContinuesAfterError(t *testing.T) {
	failing := &memoryStore{err: errors.New("disk full")}
	ok := &memoryStore{}
	h := NewMultiHandler(
		NewSQLiteHandler(failing, slog.LevelInfo, LogAttrFormatJSON),
		NewSQLiteHandler(ok, slog.LevelInfo, LogAttrFormatJSON),
	)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	if err := h.Handle(context.Background(), r); err == nil {
		t.Errorf("got no error, wanted disk full")
	}
	if len(ok.entries) != 1 {
		t.Errorf("got %d entries in second handler, wanted 1", len(ok.entries))
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    *string
		expected slog.Level
	}{
		{nil, slog.LevelInfo},
		{ptr("debug"), slog.LevelDebug},
		{ptr("WARN"), slog.LevelWarn},
		{ptr("Error"), slog.LevelError},
		{ptr(" warning "), slog.LevelWarn},
		{ptr("debug+2"), slog.LevelDebug + 2},
		{ptr("verbose"), slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := LevelFromString(tt.input); got != tt.expected {
			t.Errorf("got %s, wanted %s", got, tt.expected)
		}
	}
}

func TestAttrFormatFromString(t *testing.T) {
	if got := AttrFormatFromString(nil); got != LogAttrFormatJSON {
		t.Errorf("got %s, wanted %s", got, LogAttrFormatJSON)
	}
	if got := AttrFormatFromString(ptr("text")); got != LogAttrFormatText {
		t.Errorf("got %s, wanted %s", got, LogAttrFormatText)
	}
	if got := AttrFormatFromString(ptr("yaml")); got != LogAttrFormatJSON {
		t.Errorf("got %s, wanted %s", got, LogAttrFormatJSON)
	}
}

func ptr(s string) *string { return &s }
