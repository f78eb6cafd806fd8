package lang

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Sentinel errors. Use [errors.Is] to classify an error returned by this
// package; the more specific parse errors also match [ErrParse].
var (
	ErrParse           = NewError("parse error")
	ErrMissingVariable = NewError("missing variable")
	ErrSink            = NewError("sink write failed")
	ErrTooManyRows     = NewError("too many rows")
	ErrReadInput       = NewError("failed to read input")
)

var (
	ErrUnterminatedGroup  = ErrParse.Kind("unterminated group")
	ErrUnterminatedFormat = ErrParse.Kind("unterminated format string")
	ErrUnterminatedRaw    = ErrParse.Kind("unterminated raw string")
	ErrUnterminatedMarker = ErrParse.Kind("unterminated substitution marker")
	ErrEmptyMarker        = ErrParse.Kind("empty substitution marker")
	ErrUnmatchedBrace     = ErrParse.Kind("unmatched '}'")
	ErrDanglingEscape     = ErrParse.Kind("dangling escape")
	ErrTrailingInput      = ErrParse.Kind("unexpected trailing input")
	ErrEmptyGroup         = ErrParse.Kind("empty group")
	ErrMaxDepthExceeded   = ErrParse.Kind("maximum group depth exceeded")

	// ErrBindingFailed is a name whose binding exists but whose value could
	// not be computed.
	ErrBindingFailed = ErrMissingVariable.Kind("variable binding failed")
)

// Error is an error with an optional source span and structured logging
// attributes. It implements [slog.LogValuer].
//
// Every Error derives from a sentinel made with [NewError] or [Error.Kind].
// Methods that add detail return copies, and the copies still match their
// sentinel under [errors.Is].
type Error struct {
	msg    string
	err    error
	kind   *Error // sentinel this error derives from
	parent *Error // broader sentinel, set on sentinels made by Kind
	span   Span
	spanOK bool
	attrs  []slog.Attr
}

// NewError returns a new sentinel error.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// Kind returns a new sentinel that also matches the sentinel of e.
func (e *Error) Kind(msg string) *Error {
	k := &Error{msg: msg, parent: e.kind}
	k.kind = k

	return k
}

// WrapError returns err as an *Error. If err already contains an *Error it
// is returned as is.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

func (e *Error) clone() *Error {
	c := *e
	c.attrs = slices.Clip(e.attrs)

	return &c
}

// At returns a copy of e located at span s.
func (e *Error) At(s Span) *Error {
	c := e.clone()
	c.span, c.spanOK = s, true

	return c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// Span returns the input span e refers to, if any.
func (e *Error) Span() (Span, bool) { return e.span, e.spanOK }

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return slices.Clip(e.attrs) }

// Message returns the message chain of e without location or cause.
func (e *Error) Message() string {
	var chain []string
	for k := e.kind; k != nil; k = k.parent {
		chain = append(chain, k.msg)
	}

	slices.Reverse(chain)

	return strings.Join(chain, ": ")
}

func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Message())

	if e.spanOK {
		sb.WriteString(" at offset ")
		sb.WriteString(strconv.Itoa(e.span.Start))
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e derives from, or one of the
// broader sentinels above it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.kind == nil {
		return false
	}

	for k := e.kind; k != nil; k = k.parent {
		if k == t.kind {
			return true
		}
	}

	return false
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if msg := e.Message(); msg != "" {
		attrs = append(attrs, slog.String("error", msg))
	}

	if e.spanOK {
		attrs = append(attrs, slog.Int("start", e.span.Start), slog.Int("end", e.span.End))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// FormatError renders err with a snippet of src marking the span the error
// refers to. Errors without a span are rendered by their Error method.
//
//	parse error: unterminated group at 1:2
//	  1 | a(b
//	    |  ^
func FormatError(err error, src []byte) string {
	var e *Error
	if !errors.As(err, &e) || !e.spanOK || e.span.Start > len(src) {
		return err.Error()
	}

	pos := e.span.Position(src)

	lineStart := pos.Offset - (pos.Column - 1)
	lineEnd := len(src)

	if i := bytes.IndexByte(src[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
	}

	width := max(1, min(e.span.End, lineEnd)-e.span.Start)
	num := strconv.Itoa(pos.Line)
	gutter := strings.Repeat(" ", len(num))

	var sb strings.Builder

	sb.WriteString(e.Message())
	sb.WriteString(" at ")
	sb.WriteString(pos.String())

	if e.err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.err.Error())
	}

	sb.WriteString("\n  " + num + " | ")
	sb.Write(src[lineStart:lineEnd])
	sb.WriteString("\n  " + gutter + " | ")
	sb.WriteString(strings.Repeat(" ", pos.Column-1))
	sb.WriteString(strings.Repeat("^", width))
	sb.WriteByte('\n')

	return sb.String()
}
