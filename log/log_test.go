package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func TestZeroLogger(t *testing.T) {
	t.Parallel()

	var l Logger

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports enabled")
	}

	// None of these may panic.
	l.Trace("x")
	l.Error("x", slog.Int("n", 1))
	l = l.With(slog.String("k", "v")).WithGroup("g")
	l.InfoContext(t.Context(), "x")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"Warn", LevelWarn},
		{"error", LevelError},
		{"warn+1", LevelWarn + 1},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelsAndFormats(t *testing.T) {
	t.Parallel()

	if got := slices.Collect(Levels()); !slices.Equal(got, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", got)
	}

	for name := range Formats() {
		if got := ParseFormat(name).String(); got != name {
			t.Errorf("ParseFormat(%q).String() = %q", name, got)
		}
	}

	if ParseFormat("yaml") != DefaultFormat {
		t.Error("unknown format did not fall back to default")
	}
}

func TestResolveLayout(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":          "",
		"none":      "",
		"RFC3339":   "2006-01-02T15:04:05Z07:00",
		"Kitchen":   "3:04PM",
		"time-only": "15:04:05",
		"15:04":     "15:04",
	}

	for in, want := range tests {
		if got := resolveLayout(in); got != want {
			t.Errorf("resolveLayout(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelWarn), WithTimeLayout("none"), WithPretty(false))

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}

	if !strings.Contains(out, "shown") || !strings.Contains(out, "level=WARN") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestTraceLevelName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelTrace), WithTimeLayout("none"), WithPretty(false))
	l.Trace("step")

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrettyText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithTimeLayout("none"))
	l = l.With(slog.String("pkg", "lang")).WithGroup("exec")
	l.Info("done", slog.Int("rows", 4), slog.String("src", "a b"))

	want := `INFO  done pkg=lang exec.rows=4 exec.src="a b"` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPrettyJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	l.Error("failed", slog.Group("err", slog.Int("offset", 3)))

	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("output not indented: %q", buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if rec["msg"] != "failed" || rec["level"] != "ERROR" {
		t.Errorf("record = %v", rec)
	}

	if grp, ok := rec["err"].(map[string]any); !ok || grp["offset"] != float64(3) {
		t.Errorf("group = %v", rec["err"])
	}
}

func TestWrapKeepsSettings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelDebug), WithFormat(FormatJSON))
	w := l.Wrap(WithLevel(LevelError))

	if w.Format() != FormatJSON || w.Output() != &buf {
		t.Error("Wrap dropped settings")
	}

	if w.Level() != LevelError || l.Level() != LevelDebug {
		t.Error("Wrap changed the wrong logger")
	}

	if w.Enabled(context.Background(), LevelWarn) {
		t.Error("wrapped logger enabled below its level")
	}
}

func TestDefault(t *testing.T) {
	var buf bytes.Buffer

	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	Config(WithOutput(&buf), WithTimeLayout("none"), WithPretty(false))
	Info("hello", slog.Bool("ok", true))
	WarnContext(t.Context(), "careful")

	if got := buf.String(); got != "level=INFO msg=hello ok=true\nlevel=WARN msg=careful\n" {
		t.Errorf("got %q", got)
	}
}
