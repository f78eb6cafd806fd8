package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/argx/lang"
	"github.com/ardnew/argx/log"
)

// Expand writes the rows of every expression.
type Expand struct {
	Format string `default:"lines" enum:"lines,nul,json,yaml,shell" help:"Row encoding (${enum})." short:"o"`

	Limits   `embed:""`
	Bindings `embed:""`
	Sources  `embed:""`
}

// Run executes the expand command. Every input is parsed and prepared,
// resolving all of its markers, before any row is written, so a bad input
// produces no output at all. Lines and NUL output is then streamed row by
// row; the other encodings collect the rows of all expressions first.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	enc, err := lang.ParseEncoding(e.Format)
	if err != nil {
		return ErrFormat.Wrap(err)
	}

	inputs, err := e.Inputs(ctx)
	if err != nil {
		return err
	}

	env, err := e.environment(ctx)
	if err != nil {
		return err
	}

	opts := e.options()
	execs := make([]*lang.Exec, 0, len(inputs))

	for _, in := range inputs {
		ast, err := lang.ParseString(ctx, in.Text, opts...)
		if err != nil {
			return report(ctx, "expand", in, err)
		}

		x, err := ast.Exec(env)
		if err != nil {
			return report(ctx, "expand", in, err)
		}

		execs = append(execs, x)
	}

	out := bufio.NewWriter(streamsFrom(ctx).Out)

	if err := writeRows(ctx, out, execs, enc); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", enc.String()))
	}

	if err := out.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	log.Default().DebugContext(ctx, "expanded",
		slog.Int("inputs", len(inputs)),
		slog.String("format", enc.String()))

	return nil
}

// writeRows writes every row of execs to w in encoding enc. It stops early
// when ctx is done.
func writeRows(ctx context.Context, w io.Writer, execs []*lang.Exec, enc lang.Encoding) error {
	if enc.Streaming() {
		sink := lang.Delimited(w, enc.Delimiter())

		for _, x := range execs {
			for x.Next() {
				if err := context.Cause(ctx); err != nil {
					return err
				}

				if _, err := x.WriteRow(sink); err != nil {
					return err
				}
			}
		}

		return nil
	}

	var rows []lang.ByteStr

	for _, x := range execs {
		for x.Next() {
			rows = append(rows, lang.BytesOf(x.Append(nil)))
		}
	}

	return lang.Encode(w, rows, enc)
}
