package meshlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestOpPrefixesMessages(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf).Op("RebuildAsync")
	l.Printf("dropped %d degenerate triangles", 3)

	got := buf.String()
	if !strings.Contains(got, "RebuildAsync:") {
		t.Errorf("expected operation prefix, got %q", got)
	}
	if !strings.Contains(got, "dropped 3 degenerate triangles") {
		t.Errorf("expected formatted message, got %q", got)
	}
}

func TestNewDefaultsToStderr(t *testing.T) {
	l := New(nil)
	if l.std == nil {
		t.Fatal("expected non-nil underlying logger")
	}
}
