package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestColorLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewColorLoggerTo(&buf)

	l.Info("hello %s", "world")
	l.Log("Ignored %s command from server, not implemented.", "NOTICE")
	l.Error("boom")

	out := buf.String()
	for _, want := range []string{"INFO: hello world", "LOG: Ignored NOTICE command", "ERROR: boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}

func TestColorLogger_ChannelInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewColorLoggerTo(&buf)

	l.ChannelInfo("global", "", []string{"LudBot", "alice"})

	out := buf.String()
	tests := []string{
		"Current Channel: #global",
		"Topic: (none)",
		"Users: LudBot, alice",
	}
	for _, want := range tests {
		if !strings.Contains(out, want) {
			t.Errorf("ChannelInfo output missing %q, got:\n%s", want, out)
		}
	}
}

func TestErrorLogger_WritesEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "error.log")
	if err := EnsureLogDirectory(path); err != nil {
		t.Fatalf("EnsureLogDirectory() error = %v", err)
	}

	e := NewErrorLogger(path, 1, 2)
	if err := e.LogError("NicknameExhausted", "no nickname left", errors.New("suffix 100")); err != nil {
		t.Fatalf("LogError() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	for _, want := range []string{"ERROR: no nickname left", "Type: NicknameExhausted", "Details: suffix 100", "Stack Trace:"} {
		if !strings.Contains(content, want) {
			t.Errorf("log entry missing %q, got:\n%s", want, content)
		}
	}
}

func TestErrorLogger_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")
	e := NewErrorLogger(path, 1, 2)

	// Pre-fill past the 1MB limit so the next write rotates.
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 1024*1024), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := e.LogError("Connection", "dropped", nil); err != nil {
		t.Fatalf("LogError() error = %v", err)
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("expected rotated file %s.1: %v", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() >= 1024*1024 {
		t.Errorf("current log size = %d, want a fresh file", info.Size())
	}
}

func TestOutput_LogErrorToFile(t *testing.T) {
	rec := NewRecorder()
	out, err := NewOutput(rec, filepath.Join(t.TempDir(), "data", "error.log"), 0, 0)
	if err != nil {
		t.Fatalf("NewOutput() error = %v", err)
	}

	out.LogErrorToFile("Framing", "undecodable input", errors.New("invalid utf-8"))

	if !rec.Contains("Framing: undecodable input - invalid utf-8") {
		t.Errorf("terminal log missing entry, got %v", rec.Lines())
	}
}
