package environ

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/argx/lang"
	"github.com/ardnew/argx/log"
)

var (
	ErrBinding  = lang.NewError("invalid binding")
	ErrCompile  = ErrBinding.Kind("expression compile failed")
	ErrEvaluate = ErrBinding.Kind("expression evaluation failed")
)

// Expr is an environment of computed bindings. Each name maps to an
// expr-lang program.
//
// Programs are compiled by [NewExpr] and run at most once, the first time
// their name is resolved. An Expr is safe for concurrent use.
type Expr struct {
	env      map[string]any
	bindings map[string]*computed
	logger   log.Logger
}

type computed struct {
	source  string
	program *vm.Program

	once  sync.Once
	value lang.ByteStr
	err   error
}

// NewExpr compiles sources, a map of names to expr-lang source text.
// Builtins read process variables from environ, a list of "KEY=VALUE"
// strings; nil means the environment of this process.
func NewExpr(sources map[string]string, environ []string, opts ...Option) (*Expr, error) {
	o := makeOptions(opts...)

	e := &Expr{
		env:      builtins(environMap(environ)),
		bindings: make(map[string]*computed, len(sources)),
		logger:   o.logger,
	}

	for _, name := range sortedKeys(sources) {
		program, err := expr.Compile(sources[name], expr.Env(e.env))
		if err != nil {
			return nil, ErrCompile.Wrap(err).With(
				slog.String("name", name),
				slog.String("source", sources[name]),
			)
		}

		e.bindings[name] = &computed{source: sources[name], program: program}
	}

	e.logger.Trace("compiled bindings", slog.Int("count", len(e.bindings)))

	return e, nil
}

// Eval implements [lang.Evaluator]. It returns the value of the binding
// name, running its program if it has not run yet. A bound name whose
// program fails reports true with the error.
func (e *Expr) Eval(name string) (lang.ByteStr, bool, error) {
	c, ok := e.bindings[name]
	if !ok {
		return lang.ByteStr{}, false, nil
	}

	c.once.Do(func() {
		out, err := expr.Run(c.program, e.env)
		if err != nil {
			c.err = ErrEvaluate.Wrap(err).With(
				slog.String("name", name),
				slog.String("source", c.source),
			)

			return
		}

		c.value = toBytes(out)

		e.logger.Trace("evaluated binding",
			slog.String("name", name),
			slog.Int("bytes", c.value.Len()))
	})

	return c.value, true, c.err
}

// Resolve implements [lang.Environment]. A binding whose program fails is
// logged and reported as unresolved; [lang.Layered] and evaluation use Eval
// instead, so the failure is not replaced by a lower layer.
func (e *Expr) Resolve(name string) (lang.ByteStr, bool) {
	v, ok, err := e.Eval(name)
	if err != nil {
		e.logger.Warn("binding unavailable", slog.Any("error", err))

		return lang.ByteStr{}, false
	}

	return v, ok
}

// Names returns the bound names in sorted order.
func (e *Expr) Names() []string { return sortedKeys(e.bindings) }

// Source returns the source text bound to name.
func (e *Expr) Source(name string) (string, bool) {
	c, ok := e.bindings[name]
	if !ok {
		return "", false
	}

	return c.source, true
}

func toBytes(v any) lang.ByteStr {
	switch v := v.(type) {
	case nil:
		return lang.ByteStr{}
	case string:
		return lang.StringOf(v)
	case []byte:
		return lang.BytesOf(slices.Clone(v))
	case fmt.Stringer:
		return lang.StringOf(v.String())
	default:
		return lang.StringOf(fmt.Sprint(v))
	}
}
