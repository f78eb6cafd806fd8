package lang

import (
	"bytes"
	"strconv"
)

// Span is the half-open byte range [Start, End) of some input.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End - s.Start }

// Contiguous reports whether t begins exactly where s ends.
func (s Span) Contiguous(t Span) bool { return s.End == t.Start }

// Join returns the smallest span covering both s and t.
func (s Span) Join(t Span) Span {
	return Span{Start: min(s.Start, t.Start), End: max(s.End, t.End)}
}

func (s Span) String() string {
	return strconv.Itoa(s.Start) + ":" + strconv.Itoa(s.End)
}

// Position is a human-readable location in the input.
// Line and Column are 1-based and count bytes, not runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Position locates the start of s in src.
func (s Span) Position(src []byte) Position {
	off := min(max(s.Start, 0), len(src))
	head := src[:off]

	line := bytes.Count(head, []byte{'\n'}) + 1
	col := off - (bytes.LastIndexByte(head, '\n') + 1) + 1

	return Position{Offset: s.Start, Line: line, Column: col}
}

// WithSpan pairs a value with the span of input it came from.
type WithSpan[T any] struct {
	Value T
	Span  Span
}

// Spanned returns v tagged with s.
func Spanned[T any](v T, s Span) WithSpan[T] {
	return WithSpan[T]{Value: v, Span: s}
}
