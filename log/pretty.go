package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	time, key, msg, source lipgloss.Style
	levels                 map[Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)

	return palette{
		time:   r.NewStyle().Faint(true),
		key:    r.NewStyle().Foreground(lipgloss.Color("6")),
		msg:    r.NewStyle().Bold(true),
		source: r.NewStyle().Faint(true).Italic(true),
		levels: map[Level]lipgloss.Style{
			LevelTrace: r.NewStyle().Foreground(lipgloss.Color("8")),
			LevelDebug: r.NewStyle().Foreground(lipgloss.Color("4")),
			LevelInfo:  r.NewStyle().Foreground(lipgloss.Color("2")),
			LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("3")),
			LevelError: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	for _, n := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if Level(l) >= n {
			return p.levels[n]
		}
	}

	return p.levels[LevelTrace]
}

// prettyText renders each record on one line:
//
//	TIME LEVEL message key=value group.key=value
type prettyText struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   *slog.HandlerOptions
	style  palette
	groups []string
	attrs  []byte
}

func newPrettyText(w io.Writer, opts *slog.HandlerOptions) *prettyText {
	return &prettyText{
		mu:    new(sync.Mutex),
		w:     w,
		opts:  opts,
		style: newPalette(w),
	}
}

func (h *prettyText) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyText) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = bytes.Clone(h.attrs)

	for _, a := range attrs {
		c.attrs = c.appendAttr(c.attrs, h.groups, a)
	}

	return &c
}

func (h *prettyText) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyText) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)

	if !r.Time.IsZero() {
		if a := h.replace(nil, slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			buf = append(buf, h.style.time.Render(a.Value.String())...)
			buf = append(buf, ' ')
		}
	}

	if a := h.replace(nil, slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		buf = append(buf, h.style.level(r.Level).Render(pad(a.Value.String(), 5))...)
		buf = append(buf, ' ')
	}

	if h.opts.AddSource && r.PC != 0 {
		f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if f.File != "" {
			src := f.File[strings.LastIndexByte(f.File, '/')+1:] + ":" + strconv.Itoa(f.Line)
			buf = append(buf, h.style.source.Render(src)...)
			buf = append(buf, ' ')
		}
	}

	buf = append(buf, h.style.msg.Render(r.Message)...)
	buf = append(buf, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, h.groups, a)

		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf)

	return err
}

func (h *prettyText) replace(groups []string, a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(groups, a)
}

func (h *prettyText) appendAttr(buf []byte, groups []string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		sub := a.Value.Group()
		if len(sub) == 0 {
			return buf
		}

		if a.Key != "" {
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, s := range sub {
			buf = h.appendAttr(buf, groups, s)
		}

		return buf
	}

	if a = h.replace(groups, a); a.Equal(slog.Attr{}) {
		return buf
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	buf = append(buf, ' ')
	buf = append(buf, h.style.key.Render(key)...)
	buf = append(buf, '=')

	return append(buf, quote(a.Value.String())...)
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}

	return s + strings.Repeat(" ", n-len(s))
}

// quote returns s unchanged unless it is empty or contains characters that
// would make the key=value form ambiguous.
func quote(s string) string {
	if s == "" {
		return `""`
	}

	for _, r := range s {
		if r == '=' || r == '"' || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return strconv.Quote(s)
		}
	}

	return s
}

// prettyJSON encodes records with [slog.JSONHandler] and indents the result.
type prettyJSON struct {
	mu    *sync.Mutex
	buf   *bytes.Buffer
	w     io.Writer
	inner slog.Handler
}

func newPrettyJSON(w io.Writer, opts *slog.HandlerOptions) *prettyJSON {
	buf := new(bytes.Buffer)

	return &prettyJSON{
		mu:    new(sync.Mutex),
		buf:   buf,
		w:     w,
		inner: slog.NewJSONHandler(buf, opts),
	}
}

func (h *prettyJSON) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *prettyJSON) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)

	return &c
}

func (h *prettyJSON) WithGroup(name string) slog.Handler {
	c := *h
	c.inner = h.inner.WithGroup(name)

	return &c
}

func (h *prettyJSON) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()

	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(h.buf.Bytes()), "", "  "); err != nil {
		return err
	}

	out.WriteByte('\n')

	_, err := h.w.Write(out.Bytes())

	return err
}
