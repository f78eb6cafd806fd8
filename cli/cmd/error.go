package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/argx/lang"
)

// Sentinel errors returned by commands. Each is a [lang.Error], so wrapped
// copies carry structured attributes and still match under errors.Is.
var (
	ErrNoInput     = lang.NewError("no expressions given")
	ErrReadSource  = lang.NewError("read expression source")
	ErrExpression  = lang.NewError("expression failed")
	ErrFormat      = lang.NewError("invalid output format")
	ErrWriteOutput = lang.NewError("write output")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
)

// report prints a diagnostic for err, pointing into the text of in, to the
// error stream of ctx. It returns err wrapped with the input's origin.
func report(ctx context.Context, command string, in Input, err error) error {
	msg := strings.TrimRight(lang.FormatError(err, []byte(in.Text)), "\n")

	fmt.Fprintf(streamsFrom(ctx).Err, "%s: %s\n", in.Origin, msg)

	return ErrExpression.Wrap(err).With(
		slog.String("command", command),
		slog.String("input", in.Origin),
	)
}
