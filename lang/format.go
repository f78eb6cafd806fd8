package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Quote returns the expression syntax of a literal holding b. Parsing the
// result yields only String args whose concatenated bytes are exactly b.
// Escaped delimiters are not contiguous with the text around them, so that
// form parses to one String arg per run.
func Quote(b []byte) string {
	if len(b) == 0 {
		return "''"
	}

	if !bytes.ContainsFunc(b, func(r rune) bool { return r < 0x80 && isDelim(byte(r)) }) {
		return string(b)
	}

	if bytes.IndexByte(b, RawQuote) < 0 {
		return "'" + string(b) + "'"
	}

	var sb strings.Builder

	for _, c := range b {
		if isDelim(c) {
			sb.WriteByte(Escape)
		}

		sb.WriteByte(c)
	}

	return sb.String()
}

// String returns the canonical syntax of a. Parsing it yields an expression
// with the same rows as a.
func (a *AST) String() string {
	var sb strings.Builder

	a.format(&sb)

	return sb.String()
}

func (a *AST) format(sb *strings.Builder) {
	for _, arg := range a.Args {
		switch arg.Kind {
		case ArgString:
			sb.WriteString(Quote(arg.Text.Value.Bytes()))

		case ArgFString:
			sb.WriteByte(FormatQuote)
			quoteTemplate(sb, arg.Text.Value.Bytes())
			sb.WriteByte(FormatQuote)

		case ArgGroup:
			sb.WriteByte(GroupOpen)

			for i, alt := range arg.Alts {
				if i > 0 {
					sb.WriteByte(AltSep)
				}

				// "()" has no alternatives, so a lone empty one needs a
				// visible placeholder.
				if len(arg.Alts) == 1 && len(alt.Args) == 0 {
					sb.WriteString("''")
				}

				alt.format(sb)
			}

			sb.WriteByte(GroupClose)
		}
	}
}

// quoteTemplate writes a template, escaping any bare '"' in it.
func quoteTemplate(sb *strings.Builder, t []byte) {
	for i := 0; i < len(t); i++ {
		switch t[i] {
		case Escape:
			sb.WriteByte(Escape)

			if i+1 < len(t) {
				i++
				sb.WriteByte(t[i])
			} else {
				sb.WriteByte(Escape)
			}

		case FormatQuote:
			sb.WriteString(`\"`)

		default:
			sb.WriteByte(t[i])
		}
	}
}

// Format writes the canonical syntax of a to w, followed by a newline.
func (a *AST) Format(_ context.Context, w io.Writer) error {
	_, err := fmt.Fprintln(w, a.String())

	return err
}

// ToNative converts a to plain Go values: a list with one map per arg.
func (a *AST) ToNative() []any {
	args := make([]any, len(a.Args))

	for i, arg := range a.Args {
		m := map[string]any{
			"kind": arg.Kind.String(),
			"span": []int{arg.Span.Start, arg.Span.End},
		}

		switch arg.Kind {
		case ArgString, ArgFString:
			m["text"] = arg.Text.Value.String()

		case ArgGroup:
			alts := make([]any, len(arg.Alts))
			for j, alt := range arg.Alts {
				alts[j] = alt.ToNative()
			}

			m["alts"] = alts
		}

		args[i] = m
	}

	return args
}

// MarshalJSON implements [json.Marshaler].
func (a *AST) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToNative())
}

// FormatJSON writes a as JSON to w. A positive indent pretty-prints.
func (a *AST) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(a, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(a)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes a as YAML to w. A positive indent selects block style,
// otherwise flow style is used.
func (a *AST) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, a.ToNative(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
