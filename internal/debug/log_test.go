package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledIsNoop(t *testing.T) {
	Disable()
	Log("player", "dropped %d", 1)
	if Enabled() {
		t.Fatal("Enabled after Disable")
	}
}

func TestLogWritesCategory(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("player", "started %s", "fire")
	line := buf.String()
	for _, want := range []string{"level=DEBUG", `msg="started fire"`, "category=player"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %s", line, want)
		}
	}
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	for i := 0; i < 10; i++ {
		LogEvery(5, "frame", "tick")
	}
	if got := strings.Count(buf.String(), "tick"); got != 2 {
		t.Errorf("LogEvery wrote %d lines, want 2", got)
	}
}

func TestEnableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	Log("wire", "connected")
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "connected") {
		t.Errorf("log file = %q", data)
	}
}
