package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestHistory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), HistoryFile)
	h := NewHistory(path)

	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"a(b,c)", modeEval},
		{"help", modeCtrl},
		{"a(b,c)", modeEval}, // moves to the end
		{"   ", modeEval},    // ignored
		{"help", modeEval},   // distinct mode
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"help", modeCtrl},
		{"a(b,c)", modeEval},
		{"help", modeEval},
	}

	check := func(h *History) {
		t.Helper()

		if h.Len() != len(want) {
			t.Fatalf("Len() = %d, want %d", h.Len(), len(want))
		}

		for i, w := range want {
			got, err := h.Entry(i)
			if err != nil || got != w {
				t.Errorf("Entry(%d) = %+v, %v; want %+v", i, got, err, w)
			}
		}
	}

	check(h)

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load(): %v", err)
	}

	check(reloaded)

	if _, err := h.Entry(len(want)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry(out of range) error = %v, want ErrOutOfBounds", err)
	}
}

func TestHistory_InMemory(t *testing.T) {
	t.Parallel()

	h := NewHistory("")
	if err := h.Add("x", modeEval); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}

	if err := h.Load(); err != nil || h.Len() != 0 {
		t.Errorf("Load() = %v, Len() = %d; want nil, 0", err, h.Len())
	}
}

func TestHistory_SkipsMultiline(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), HistoryFile)
	h := NewHistory(path)

	if err := h.Add("a\nb", modeEval); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("history file written for skipped entry: %v", err)
	}
}
