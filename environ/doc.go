// Package environ provides the variable sources behind argx expressions.
//
// Markers in format strings are resolved through a [lang.Environment]. This
// package builds one from several layers:
//
//   - literal NAME=VALUE assignments ([ParseAssignments])
//   - computed bindings written in expr-lang ([Expr])
//   - a YAML bindings file ([Load])
//   - the process environment
//
// [Compose] stacks them with the first layer taking precedence.
//
// Computed bindings see a small set of builtins: env(key), target, platform,
// hostname, shell, cwd(), path.abs/cat/rel, file.exists/isDir/isRegular/
// isSymlink, and mung.prefix/prefixif for PATH-style lists.
package environ
