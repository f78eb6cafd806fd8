package lang

import (
	"context"
	"log/slog"
)

// Parse parses one expression from src.
//
// The returned AST borrows src, which must not be modified afterward.
// Parse does not consult the parse cache; see [ParseString].
func Parse(src []byte, opts ...Option) (*AST, error) {
	return parse(context.Background(), BytesOf(src), defaultOptions().apply(opts...))
}

// parser is a recursive-descent parser with one token of lookahead.
type parser struct {
	lex  *Lexer
	tok  Token
	src  ByteStr
	opts options
}

func parse(ctx context.Context, src ByteStr, o options) (*AST, error) {
	o.logger.TraceContext(ctx, "parse start", slog.Int("source_bytes", src.Len()))

	p := &parser{lex: NewLexer(src), src: src, opts: o}
	if err := p.advance(); err != nil {
		return nil, err
	}

	ast, err := p.expr(0)
	if err != nil {
		return nil, err
	}

	// expr stops at ')' and ',' as well as at the end of input. At the top
	// level those are stray tokens.
	if p.tok.Kind != TokenEOF {
		return nil, ErrTrailingInput.At(p.tok.Span).
			With(slog.String("token", p.tok.Value.Value.String()))
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("args", len(ast.Args)),
		slog.Int("source_bytes", src.Len()))

	return ast, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

// expr parses args until the end of input or a ')' or ',' token, which is
// left unconsumed.
func (p *parser) expr(depth int) (*AST, error) {
	ast := &AST{src: p.src, opts: p.opts}
	start := p.tok.Span.Start

	for {
		switch p.tok.Kind {
		case TokenText, TokenEscape, TokenRaw:
			ast.appendText(p.tok)

		case TokenFormat:
			ast.Args = append(ast.Args, Arg{
				Kind: ArgFString,
				Text: p.tok.Value,
				Span: p.tok.Span,
			})

		case TokenOpen:
			arg, err := p.group(depth + 1)
			if err != nil {
				return nil, err
			}

			ast.Args = append(ast.Args, arg)

			continue // group consumed its closing token

		default:
			ast.Span = Span{Start: start, End: p.tok.Span.Start}

			return ast, nil
		}

		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

// group parses the alternatives of a group whose opening token is current.
func (p *parser) group(depth int) (Arg, error) {
	open := p.tok

	if p.opts.maxDepth > 0 && depth > p.opts.maxDepth {
		return Arg{}, ErrMaxDepthExceeded.At(open.Span).
			With(slog.Int("max_depth", p.opts.maxDepth))
	}

	if err := p.advance(); err != nil {
		return Arg{}, err
	}

	arg := Arg{Kind: ArgGroup}

	if p.tok.Kind == TokenClose {
		if !p.opts.emptyGroups {
			return Arg{}, ErrEmptyGroup.At(open.Span.Join(p.tok.Span))
		}
	} else {
		for {
			alt, err := p.expr(depth)
			if err != nil {
				return Arg{}, err
			}

			arg.Alts = append(arg.Alts, alt)

			if p.tok.Kind != TokenComma {
				break
			}

			if err := p.advance(); err != nil {
				return Arg{}, err
			}
		}

		if p.tok.Kind != TokenClose {
			return Arg{}, ErrUnterminatedGroup.At(open.Span).
				With(slog.Int("alternatives", len(arg.Alts)))
		}
	}

	arg.Span = open.Span.Join(p.tok.Span)

	return arg, p.advance()
}

// appendText adds the literal bytes of tok, extending the previous String
// arg when the bytes are adjacent in the input.
func (a *AST) appendText(tok Token) {
	v := tok.Value
	if v.Value.IsEmpty() {
		return
	}

	if n := len(a.Args); n > 0 {
		last := &a.Args[n-1]
		if last.Kind == ArgString && last.Text.Span.Contiguous(v.Span) {
			last.Text = Spanned(
				a.src.Slice(last.Text.Span.Start, v.Span.End),
				last.Text.Span.Join(v.Span),
			)
			last.Span = last.Span.Join(tok.Span)

			return
		}
	}

	a.Args = append(a.Args, Arg{Kind: ArgString, Text: v, Span: tok.Span})
}
