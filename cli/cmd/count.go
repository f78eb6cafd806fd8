package cmd

import (
	"bufio"
	"context"
	"strconv"

	"github.com/ardnew/argx/lang"
)

// Count prints the number of rows of every expression without rendering
// them. Names are still resolved, so a missing variable is an error.
type Count struct {
	Total bool `help:"Print one sum instead of a count per expression." short:"t"`

	Limits   `embed:""`
	Bindings `embed:""`
	Sources  `embed:""`
}

// Run executes the count command.
func (c *Count) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env, err := c.environment(ctx)
	if err != nil {
		return err
	}

	var total int

	err = eachInput(ctx, "count", c.Sources, c.options(),
		func(w *bufio.Writer, ast *lang.AST) error {
			x, err := ast.Exec(env)
			if err != nil {
				return err
			}

			if c.Total {
				total += x.Len()

				return nil
			}

			_, err = w.WriteString(strconv.Itoa(x.Len()) + "\n")

			return err
		})
	if err != nil || !c.Total {
		return err
	}

	_, err = streamsFrom(ctx).Out.Write([]byte(strconv.Itoa(total) + "\n"))

	return err
}
