package cmd

import (
	"context"

	"github.com/ardnew/argx/environ"
	"github.com/ardnew/argx/lang"
	"github.com/ardnew/argx/log"
)

// Bindings are the flags that decide how marker names resolve.
type Bindings struct {
	Set          []string `help:"Bind NAME to VALUE (repeatable)."                          placeholder:"NAME=VALUE" sep:"none" short:"D"`
	SetExpr      []string `help:"Bind NAME to the result of an expr-lang program."          placeholder:"NAME=EXPR"  sep:"none"`
	Bindings     string   `help:"YAML file of vars and exprs to bind."                      placeholder:"FILE"                   short:"b" type:"existingfile"`
	NoProcessEnv bool     `help:"Do not resolve names from the process environment."`
}

func (b Bindings) sources() environ.Sources {
	return environ.Sources{
		Set:          b.Set,
		SetExpr:      b.SetExpr,
		File:         b.Bindings,
		NoProcessEnv: b.NoProcessEnv,
	}
}

// environment composes the layered environment selected by b.
func (b Bindings) environment(_ context.Context) (lang.Layered, error) {
	return environ.Compose(b.sources(), environ.WithLogger(log.Default()))
}

// Limits are the flags that bound parsing and expansion.
type Limits struct {
	MaxRows          int  `default:"${maxRows}" help:"Fail when an expression expands to more rows (0 for no limit)."`
	MaxDepth         int  `default:"100"        help:"Maximum group nesting depth (0 for no limit)."`
	AllowEmptyGroups bool `default:"true"       help:"Accept '()' as a group with no alternatives."            negatable:""`
}

func (l Limits) options() []lang.Option {
	return []lang.Option{
		lang.WithMaxRows(l.MaxRows),
		lang.WithMaxDepth(l.MaxDepth),
		lang.WithEmptyGroups(l.AllowEmptyGroups),
		lang.WithLogger(log.Default()),
	}
}
