// Package lang parses and evaluates argument expressions.
//
// An expression describes one or more rows of bytes, typically the argv of
// a process. Evaluating it against an [Environment] yields every row.
//
// # Syntax
//
//	Expr     = { Segment } .
//	Segment  = Literal | Escape | Raw | Format | Group .
//	Literal  = any bytes except \ ' " ( ) , .
//	Escape   = "\" any byte .
//	Raw      = "'" { any byte except ' } "'" .
//	Format   = '"' { FChar | Marker } '"' .
//	FChar    = any byte except \ " { } | "\" any byte .
//	Marker   = "{" name "}" .
//	Group    = "(" [ Expr { "," Expr } ] ")" .
//
// Whitespace is literal. Bytes need not be valid UTF-8.
//
// A group multiplies rows: every alternative of every group is combined with
// every alternative of the others. The rightmost group varies fastest:
//
//	(a,b)(x,y)          → ax ay bx by
//	"{HOME}"/(bin,lib)  → /home/me/bin /home/me/lib
//	x()                 → no rows
//	x(,)                → x x
//
// The empty group "()" has no alternatives, so any expression containing it
// yields no rows. It can be rejected with [WithEmptyGroups].
//
// # Evaluation
//
// A parsed [AST] borrows its input and is immutable. Each evaluation builds a
// transient [Exec] that resolves every marker up front, then walks the rows
// as an odometer without materializing them:
//
//	ast, err := lang.ParseString(ctx, `-I"{ROOT}"/(include,src)`)
//	if err != nil {
//		return err
//	}
//	for n, err := range ast.Evaluate(lang.NewProcessEnv(nil), w) {
//		...
//	}
//
// Evaluation is all or nothing: a missing variable fails before any row is
// written, and the first sink error ends it.
package lang
