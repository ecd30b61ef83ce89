package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.InfoLevel)

	ctx := WithLogger(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Error("expected attached logger")
	}

	if FromContext(context.Background()) == nil {
		t.Error("expected default logger")
	}
}

func TestLevel(t *testing.T) {
	if Level(true) != log.DebugLevel {
		t.Error("verbose should map to debug")
	}
	if Level(false) != log.InfoLevel {
		t.Error("default should map to info")
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(New(&buf, log.InfoLevel))
	p.Done("Plotting output files")

	if !strings.Contains(buf.String(), "Plotting output files (") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDebugFiltered(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.InfoLevel)
	l.Debug("hidden")

	if buf.Len() != 0 {
		t.Errorf("debug message should be filtered, got %q", buf.String())
	}
}
