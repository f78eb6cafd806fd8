package environ

import (
	"log/slog"
	"maps"

	"github.com/ardnew/argx/lang"
)

// Sources lists the layers of a composed environment, highest precedence
// first.
type Sources struct {
	// Set holds NAME=VALUE assignments.
	Set []string

	// SetExpr holds NAME=EXPR computed bindings.
	SetExpr []string

	// File is the path of a bindings file. Empty means none.
	File string

	// Environ is the process environment as "KEY=VALUE" strings. Nil reads
	// the environment of this process.
	Environ []string

	// NoProcessEnv drops the process environment layer. Builtins still see
	// it through env().
	NoProcessEnv bool
}

// Compose builds the environment described by src. A name resolves from the
// first of these layers that binds it:
//
//  1. src.Set
//  2. src.SetExpr
//  3. vars of src.File
//  4. exprs of src.File
//  5. the process environment, unless src.NoProcessEnv
func Compose(src Sources, opts ...Option) (lang.Layered, error) {
	o := makeOptions(opts...)

	set, err := ParseAssignments(src.Set)
	if err != nil {
		return nil, err
	}

	setExpr, err := ParseAssignments(src.SetExpr)
	if err != nil {
		return nil, err
	}

	var file File

	if src.File != "" {
		if file, err = LoadFile(src.File); err != nil {
			return nil, err
		}
	}

	computed, err := NewExpr(setExpr, src.Environ, opts...)
	if err != nil {
		return nil, err
	}

	fileComputed, err := NewExpr(file.Exprs, src.Environ, opts...)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", src.File))
	}

	layers := lang.Layered{set, computed, lang.Vars(maps.Clone(file.Vars)), fileComputed}

	if !src.NoProcessEnv {
		layers = append(layers, lang.NewProcessEnv(src.Environ))
	}

	o.logger.Debug("composed environment",
		slog.Int("set", len(set)),
		slog.Int("set_expr", len(setExpr)),
		slog.Int("file_vars", len(file.Vars)),
		slog.Int("file_exprs", len(file.Exprs)),
		slog.Bool("process_env", !src.NoProcessEnv))

	return layers, nil
}
