package lang

import (
	"os"
	"slices"
	"strings"
)

// Environment resolves substitution marker names to values.
//
// Resolve must not modify any state visible to later calls. Implementations
// shared between goroutines must be safe for concurrent use; every
// implementation in this package is.
type Environment interface {
	Resolve(name string) (ByteStr, bool)
}

// NameLister is implemented by environments that can enumerate the names
// they resolve.
type NameLister interface {
	Names() []string
}

// Evaluator is implemented by environments whose bindings are computed and
// may fail. Eval reports whether name is bound and, for a bound name, its
// value or the error that prevented computing it.
type Evaluator interface {
	Eval(name string) (ByteStr, bool, error)
}

// Lookup resolves name in env through Eval when env is an [Evaluator], and
// through Resolve otherwise.
func Lookup(env Environment, name string) (ByteStr, bool, error) {
	if ev, ok := env.(Evaluator); ok {
		return ev.Eval(name)
	}

	v, ok := env.Resolve(name)

	return v, ok, nil
}

// EnvFunc adapts a function to an [Environment].
type EnvFunc func(name string) (ByteStr, bool)

func (f EnvFunc) Resolve(name string) (ByteStr, bool) { return f(name) }

// EmptyEnv resolves nothing.
type EmptyEnv struct{}

func (EmptyEnv) Resolve(string) (ByteStr, bool) { return ByteStr{}, false }

func (EmptyEnv) Names() []string { return nil }

// Vars is an environment backed by a map.
type Vars map[string]string

func (v Vars) Resolve(name string) (ByteStr, bool) {
	s, ok := v[name]
	if !ok {
		return ByteStr{}, false
	}

	return StringOf(s), true
}

func (v Vars) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// ProcessEnv is a snapshot of a process environment.
type ProcessEnv struct {
	vars map[string]ByteStr
}

// NewProcessEnv returns a snapshot of environ, a list of "KEY=VALUE"
// strings. A nil environ snapshots [os.Environ]. Entries without '=' are
// ignored, and a later entry for a key replaces an earlier one.
func NewProcessEnv(environ []string) ProcessEnv {
	if environ == nil {
		environ = os.Environ()
	}

	vars := make(map[string]ByteStr, len(environ))

	for _, kv := range environ {
		if key, value, ok := strings.Cut(kv, "="); ok && key != "" {
			vars[key] = StringOf(value)
		}
	}

	return ProcessEnv{vars: vars}
}

func (p ProcessEnv) Resolve(name string) (ByteStr, bool) {
	v, ok := p.vars[name]

	return v, ok
}

func (p ProcessEnv) Names() []string {
	names := make([]string, 0, len(p.vars))
	for name := range p.vars {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Layered resolves a name from the first environment that binds it. A
// binding that fails hides the layers below it.
type Layered []Environment

func (l Layered) Resolve(name string) (ByteStr, bool) {
	v, ok, err := l.Eval(name)

	return v, ok && err == nil
}

// Eval implements [Evaluator]. The search stops at the first layer binding
// name, whether or not its value could be computed.
func (l Layered) Eval(name string) (ByteStr, bool, error) {
	for _, env := range l {
		if env == nil {
			continue
		}

		if v, ok, err := Lookup(env, name); ok || err != nil {
			return v, true, err
		}
	}

	return ByteStr{}, false, nil
}

// Names returns the sorted union of the names of every layer that
// implements [NameLister].
func (l Layered) Names() []string {
	var names []string

	for _, env := range l {
		if nl, ok := env.(NameLister); ok {
			names = append(names, nl.Names()...)
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}
