package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelRouting(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, err := New(&stdout, &stderr, Options{Level: "info"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("donation created", "amount", 500)
	logger.Warn("default secret")
	logger.Error("database down")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(stdout.String(), "donation created") || !strings.Contains(stdout.String(), "default secret") {
		t.Errorf("expected info and warn on stdout, got %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "database down") {
		t.Error("error record should not reach stdout")
	}
	if !strings.Contains(stderr.String(), "database down") {
		t.Errorf("expected error on stderr, got %q", stderr.String())
	}
}

func TestJSONFormatKeepsAttrs(t *testing.T) {
	var stdout bytes.Buffer
	logger, err := New(&stdout, &bytes.Buffer{}, Options{Format: "json", Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.With("request_id", "abc").WithGroup("user").Debug("login", "id", 7)

	var record map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", stdout.String(), err)
	}
	if record["request_id"] != "abc" {
		t.Errorf("expected request_id attr, got %v", record)
	}
	user, _ := record["user"].(map[string]any)
	if user["id"] != float64(7) {
		t.Errorf("expected grouped id, got %v", record)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSetupWritesFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "donaciones.log")
	cleanup, err := Setup(Options{File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	slog.Info("written to file")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("expected record in log file, got %q", data)
	}
}
