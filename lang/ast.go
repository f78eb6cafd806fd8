package lang

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// ArgKind identifies the variant held by an [Arg].
type ArgKind uint8

const (
	// ArgString is literal text, used verbatim.
	ArgString ArgKind = iota

	// ArgFString is a format string whose markers are substituted from the
	// environment when the expression is evaluated.
	ArgFString

	// ArgGroup is a set of alternatives, each a nested expression.
	ArgGroup
)

func (k ArgKind) String() string {
	switch k {
	case ArgString:
		return "String"
	case ArgFString:
		return "FString"
	case ArgGroup:
		return "Group"
	default:
		return "ArgKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Arg is one segment of an expression.
//
// Text holds the bytes of a String, or the raw template of an FString (the
// bytes between the quotes, escapes and markers still in place). Alts holds
// the alternatives of a Group. Span covers the whole segment in the input.
type Arg struct {
	Kind ArgKind
	Text WithSpan[ByteStr]
	Alts []*AST
	Span Span
}

// AST is a parsed expression: an ordered sequence of args whose bytes are
// concatenated to form each row.
//
// An AST produced by a parse function borrows its input. It is never
// modified after construction and is safe for concurrent use.
type AST struct {
	Args []Arg
	Span Span

	src  ByteStr
	opts options
}

// New returns an expression built from args rather than parsed.
func New(args ...Arg) *AST {
	return &AST{Args: args, opts: defaultOptions()}
}

// NewString returns a literal arg.
func NewString(s string) Arg {
	return Arg{Kind: ArgString, Text: Spanned(StringOf(s), Span{})}
}

// NewFString returns a format string arg with the given template.
// The template is validated when the expression is evaluated.
func NewFString(template string) Arg {
	return Arg{Kind: ArgFString, Text: Spanned(StringOf(template), Span{})}
}

// NewGroup returns a group arg with the given alternatives.
func NewGroup(alts ...*AST) Arg {
	return Arg{Kind: ArgGroup, Alts: alts}
}

// Source returns the input the expression was parsed from.
func (a *AST) Source() ByteStr { return a.src }

// Len returns the number of top-level args.
func (a *AST) Len() int { return len(a.Args) }

// All yields every arg of the expression depth-first, each group before the
// args of its alternatives.
func (a *AST) All() iter.Seq[Arg] {
	return func(yield func(Arg) bool) {
		a.walk(yield)
	}
}

func (a *AST) walk(yield func(Arg) bool) bool {
	for _, arg := range a.Args {
		if !yield(arg) {
			return false
		}

		for _, alt := range arg.Alts {
			if !alt.walk(yield) {
				return false
			}
		}
	}

	return true
}

// Names returns the distinct marker names of all format strings in the
// expression, in order of first appearance. Templates that fail to scan
// contribute the names before the error.
func (a *AST) Names() []string {
	var names []string

	seen := make(map[string]bool)

	for arg := range a.All() {
		if arg.Kind != ArgFString {
			continue
		}

		for frag, err := range Fragments(arg.Text) {
			if err != nil {
				break
			}

			if frag.Kind == FragmentMarker && !seen[frag.Value.String()] {
				seen[frag.Value.String()] = true
				names = append(names, frag.Value.String())
			}
		}
	}

	return names
}

// Print writes an indented dump of the tree to w.
func (a *AST) Print(ctx context.Context, w io.Writer) error {
	var sb strings.Builder

	a.print(&sb, 0)

	a.opts.logger.TraceContext(ctx, "print ast",
		slog.Int("args", len(a.Args)),
		slog.Int("bytes", sb.Len()))

	_, err := io.WriteString(w, sb.String())

	return err
}

func (a *AST) print(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)

	sb.WriteString(indent + "AST " + a.Span.String() + "\n")

	for _, arg := range a.Args {
		sb.WriteString(indent + "  " + arg.Kind.String() + " " + arg.Span.String())

		switch arg.Kind {
		case ArgString, ArgFString:
			sb.WriteString(" " + strconv.Quote(arg.Text.Value.String()) + "\n")

		case ArgGroup:
			sb.WriteString(" alts=" + strconv.Itoa(len(arg.Alts)) + "\n")

			for _, alt := range arg.Alts {
				alt.print(sb, depth+2)
			}
		}
	}
}
