package environ

import (
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/argx/lang"
)

// ErrAssignment is returned for a NAME=VALUE assignment without a name or
// without '='.
var ErrAssignment = ErrBinding.Kind("malformed assignment")

// ParseAssignments parses a list of NAME=VALUE strings. A later assignment
// to a name replaces an earlier one.
func ParseAssignments(list []string) (lang.Vars, error) {
	vars := make(lang.Vars, len(list))

	for _, kv := range list {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, ErrAssignment.With(slog.String("assignment", kv))
		}

		vars[name] = value
	}

	return vars, nil
}

// environMap converts a list of "KEY=VALUE" strings to a map, ignoring
// malformed entries. A nil list reads [os.Environ].
func environMap(environ []string) map[string]string {
	if environ == nil {
		environ = os.Environ()
	}

	m := make(map[string]string, len(environ))

	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			m[k] = v
		}
	}

	return m
}
