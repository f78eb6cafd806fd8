package cmd

import (
	"bufio"
	"context"
	"log/slog"

	"github.com/ardnew/argx/lang"
	"github.com/ardnew/argx/pkg"
)

// Fmt prints the canonical form of every expression.
type Fmt struct {
	Limits  `embed:""`
	Sources `embed:""`
}

// Run executes the fmt command. Every input is processed; failures are
// reported together.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return eachInput(ctx, "fmt", f.Sources, f.options(),
		func(w *bufio.Writer, ast *lang.AST) error {
			return ast.Format(ctx, w)
		})
}

// AST prints the syntax tree of every expression.
type AST struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Tree encoding (${enum})." short:"o"`
	Indent int    `default:"2"                           help:"Indent width for json and yaml." short:"i"`

	Limits  `embed:""`
	Sources `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return eachInput(ctx, "ast", a.Sources, a.options(),
		func(w *bufio.Writer, ast *lang.AST) error {
			switch a.Format {
			case "json":
				return ast.FormatJSON(ctx, w, a.Indent)
			case "yaml":
				return ast.FormatYAML(ctx, w, a.Indent)
			case "text", "":
				return ast.Print(ctx, w)
			default:
				return ErrFormat.With(slog.String("format", a.Format))
			}
		})
}

// eachInput parses every input of src and passes the result to fn. Failures
// of either step are reported and collected so later inputs still run.
func eachInput(
	ctx context.Context,
	command string,
	src Sources,
	opts []lang.Option,
	fn func(*bufio.Writer, *lang.AST) error,
) error {
	inputs, err := src.Inputs(ctx)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(streamsFrom(ctx).Out)

	var errs pkg.Error

	for _, in := range inputs {
		ast, err := lang.ParseString(ctx, in.Text, opts...)
		if err != nil {
			errs = errs.Wrap(report(ctx, command, in, err))

			continue
		}

		if err := fn(out, ast); err != nil {
			errs = errs.Wrap(report(ctx, command, in, err))
		}
	}

	if err := out.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return errs.Err()
}
