package cmd

import (
	"context"
	"path/filepath"

	"github.com/ardnew/argx/cli/cmd/repl"
	"github.com/ardnew/argx/lang"
	"github.com/ardnew/argx/log"
)

// REPL previews expressions interactively.
type REPL struct {
	Watch   bool `help:"Reload when the bindings file changes."                           short:"w"`
	Preview int  `default:"8"                                    help:"Rows to preview while typing."`

	Limits   `embed:""`
	Bindings `embed:""`
}

// Run executes the repl command.
func (r *REPL) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var history string

	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			history = filepath.Join(dir, repl.HistoryFile)
		}
	}

	cfg := repl.Config{
		Environment: func() (lang.Environment, error) {
			return r.environment(ctx)
		},
		HistoryPath: history,
		PreviewRows: r.Preview,
		Options:     r.options(),
		Logger:      log.Default(),
	}

	if r.Watch {
		cfg.Watch = r.Bindings.Bindings
	}

	return repl.Run(ctx, cfg)
}
