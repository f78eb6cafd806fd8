package lang

import (
	"iter"
	"log/slog"
	"strconv"
)

// Delimiter bytes of the expression grammar.
const (
	GroupOpen   = '('
	GroupClose  = ')'
	AltSep      = ','
	FormatQuote = '"'
	RawQuote    = '\''
	Escape      = '\\'
	MarkerOpen  = '{'
	MarkerClose = '}'
)

// TokenKind identifies the lexical class of a [Token].
type TokenKind uint8

const (
	TokenEOF    TokenKind = iota
	TokenText             // run of plain bytes
	TokenEscape           // '\' and the byte it escapes
	TokenRaw              // '...'
	TokenFormat           // "..."
	TokenOpen             // (
	TokenClose            // )
	TokenComma            // ,
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenText:
		return "Text"
	case TokenEscape:
		return "Escape"
	case TokenRaw:
		return "Raw"
	case TokenFormat:
		return "Format"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	case TokenComma:
		return "Comma"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsLiteral reports whether tokens of kind k contribute literal bytes.
func (k TokenKind) IsLiteral() bool {
	return k == TokenText || k == TokenEscape || k == TokenRaw
}

// Token is one lexeme of an expression.
//
// Span covers the whole lexeme including any quotes or escape byte.
// Value is the payload and its own span: the escaped byte of an escape,
// the bytes between the quotes of a raw or format string, or the lexeme
// itself otherwise.
type Token struct {
	Kind  TokenKind
	Span  Span
	Value WithSpan[ByteStr]
}

func (t Token) String() string {
	return t.Kind.String() + "@" + t.Span.String() + " " + strconv.Quote(t.Value.Value.String())
}

// Lexer splits an expression into tokens. Whitespace is not significant to
// the lexer: it is part of whatever text run it appears in.
type Lexer struct {
	src ByteStr
	pos int
}

// NewLexer returns a lexer over src.
func NewLexer(src ByteStr) *Lexer { return &Lexer{src: src} }

// Offset returns the offset of the next unread byte.
func (l *Lexer) Offset() int { return l.pos }

func isDelim(c byte) bool {
	switch c {
	case GroupOpen, GroupClose, AltSep, FormatQuote, RawQuote, Escape:
		return true
	}

	return false
}

func (l *Lexer) token(kind TokenKind, start, vstart, vend, end int) Token {
	l.pos = end

	return Token{
		Kind:  kind,
		Span:  Span{Start: start, End: end},
		Value: Spanned(l.src.Slice(vstart, vend), Span{Start: vstart, End: vend}),
	}
}

// Next returns the next token. At end of input it returns a [TokenEOF]
// token with an empty span at the end of the input.
func (l *Lexer) Next() (Token, error) {
	n := l.src.Len()
	start := l.pos

	if start >= n {
		return l.token(TokenEOF, n, n, n, n), nil
	}

	switch c := l.src.At(start); c {
	case GroupOpen:
		return l.token(TokenOpen, start, start, start+1, start+1), nil

	case GroupClose:
		return l.token(TokenClose, start, start, start+1, start+1), nil

	case AltSep:
		return l.token(TokenComma, start, start, start+1, start+1), nil

	case Escape:
		if start+1 >= n {
			return Token{}, ErrDanglingEscape.At(Span{Start: start, End: n})
		}

		return l.token(TokenEscape, start, start+1, start+2, start+2), nil

	case RawQuote:
		end := l.src.Slice(start+1, n).IndexByte(RawQuote)
		if end < 0 {
			return Token{}, ErrUnterminatedRaw.At(Span{Start: start, End: start + 1})
		}

		end += start + 1

		return l.token(TokenRaw, start, start+1, end, end+1), nil

	case FormatQuote:
		return l.format(start)

	default:
		end := start + 1
		for end < n && !isDelim(l.src.At(end)) {
			end++
		}

		return l.token(TokenText, start, start, end, end), nil
	}
}

// format lexes a format string opening at start and validates its
// template, so that a parsed expression never fails to scan at exec time.
func (l *Lexer) format(start int) (Token, error) {
	n := l.src.Len()

	for i := start + 1; i < n; i++ {
		switch l.src.At(i) {
		case Escape:
			i++

		case FormatQuote:
			tok := l.token(TokenFormat, start, start+1, i, i+1)

			for _, err := range Fragments(tok.Value) {
				if err != nil {
					return Token{}, err
				}
			}

			return tok, nil
		}
	}

	return Token{}, ErrUnterminatedFormat.
		At(Span{Start: start, End: start + 1}).
		With(slog.Int("length", n-start))
}

// All yields every token up to and including the EOF token, or stops after
// the first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Kind == TokenEOF {
				return
			}
		}
	}
}
