package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)
	log.Info("hidden")
	log.Warn("shown", "count", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=shown count=3") {
		t.Fatalf("missing warn line: %q", out)
	}
}

func TestNewUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("chatty", &buf)
	log.Debug("debug")
	log.Info("info")
	if strings.Contains(buf.String(), "msg=debug") || !strings.Contains(buf.String(), "msg=info") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
