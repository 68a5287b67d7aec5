package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogger_VerboseGating(t *testing.T) {
	verbose := false
	var buf bytes.Buffer

	log := New("session", func() bool { return verbose })
	log.SetOutput(&buf)

	log.Debug("hidden %d", 1)
	log.Info("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("Expected no output when not verbose, got %q", buf.String())
	}

	log.Warn("visible")
	if !strings.Contains(buf.String(), "WARN [session] visible") {
		t.Errorf("Expected warn line, got %q", buf.String())
	}

	verbose = true
	buf.Reset()
	log.Debug("now %s", "shown")
	if !strings.Contains(buf.String(), "DEBUG [session] now shown") {
		t.Errorf("Expected debug line, got %q", buf.String())
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := New("service", nil)
	log.SetOutput(&buf)

	log.WarnWithFields("request failed", []Field{RequestID("abc"), Error(errors.New("boom"))})

	out := buf.String()
	if !strings.Contains(out, "[request_id=abc error=boom]") {
		t.Errorf("Expected fields in output, got %q", out)
	}
}

func TestLogger_WithComponentSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	root := New("", nil)
	child := root.WithComponent("ui")

	root.SetOutput(&buf)
	child.Error("x")

	if !strings.Contains(buf.String(), "ERROR [ui] x") {
		t.Errorf("Expected child to follow root output, got %q", buf.String())
	}

	buf.Reset()
	root.Error("y")
	if !strings.Contains(buf.String(), "[main] y") {
		t.Errorf("Expected default component main, got %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error("dropped")
	if log.IsVerbose() {
		t.Error("Nop logger should not be verbose")
	}
}
