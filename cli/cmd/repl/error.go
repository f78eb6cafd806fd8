package repl

import "github.com/ardnew/argx/lang"

// Sentinel errors.
var (
	ErrOutOfBounds = lang.NewError("history index out of range")
	ErrNoEnv       = lang.NewError("no environment source")
	ErrWatch       = lang.NewError("watch bindings file")
)
