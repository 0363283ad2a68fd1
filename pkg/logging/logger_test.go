package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		events = append(events, ev)
	}
	return events
}

func TestLoggerWritesServiceLog(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer logger.Close()

	if err := logger.Info(CategoryAuth, "login_ok", "authenticated", map[string]any{"identifier": "12345"}); err != nil {
		t.Fatalf("Info: %v", err)
	}
	if err := logger.Error(CategorySource, "fetch_failed", "GET failed", nil); err != nil {
		t.Fatalf("Error: %v", err)
	}

	service := readEvents(t, filepath.Join(dir, "drawdex.jsonl"))
	if len(service) != 2 {
		t.Fatalf("service log has %d events, want 2", len(service))
	}
	if service[0].Category != CategoryAuth || service[0].EventType != "login_ok" {
		t.Fatalf("unexpected first event: %+v", service[0])
	}
	if service[0].Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}

	errs := readEvents(t, filepath.Join(dir, "errors.jsonl"))
	if len(errs) != 1 || errs[0].Level != LevelError {
		t.Fatalf("error log = %+v, want the single error event", errs)
	}
}

func TestLoggerRespectsMinLevel(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer logger.Close()

	logger.SetMinLevel(LevelWarn)
	if err := logger.Debug(CategoryCache, "refresh", "", nil); err != nil {
		t.Fatalf("Debug: %v", err)
	}
	if err := logger.Info(CategoryCache, "refresh", "", nil); err != nil {
		t.Fatalf("Info: %v", err)
	}
	if err := logger.Warn(CategoryCache, "stale", "", nil); err != nil {
		t.Fatalf("Warn: %v", err)
	}

	events := readEvents(t, filepath.Join(dir, "drawdex.jsonl"))
	if len(events) != 1 || events[0].Level != LevelWarn {
		t.Fatalf("events = %+v, want only the warn event", events)
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	logger := Discard()
	if err := logger.Error(CategoryServer, "boom", "", nil); err != nil {
		t.Fatalf("Error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
