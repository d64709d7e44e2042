package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "wpp.log")

	logger, err := New(logPath, "main", "debug", false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("store opened")
	_ = logger.Sync()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	for _, want := range []string{`"msg":"store opened"`, `"profile":"main"`, `"ts":`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %s", line, want)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "wpp.log")

	logger, err := New(logPath, "main", "warn", false)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	_ = logger.Sync()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Error("info line written at warn level")
	}
	if !strings.Contains(string(data), "kept") {
		t.Error("warn line missing")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "wpp.log"), "main", "loud", false); err == nil {
		t.Error("New() expected error for unknown level")
	}
}
