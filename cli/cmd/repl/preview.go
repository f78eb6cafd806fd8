package repl

import (
	"strconv"
	"strings"

	"github.com/ardnew/argx/lang"
)

// preview is the evaluation of the expression being typed.
type preview struct {
	src   string
	rows  []string
	count int
	err   error
}

// evaluate parses src and renders at most limit of its rows. The parse is
// not cached, since each keystroke yields a new source.
func evaluate(src string, env lang.Environment, limit int, opts ...lang.Option) preview {
	p := preview{src: src}

	ast, err := lang.Parse([]byte(src), opts...)
	if err != nil {
		p.err = err

		return p
	}

	x, err := ast.Exec(env)
	if err != nil {
		p.err = err

		return p
	}

	p.count = x.Len()

	var buf []byte

	for len(p.rows) < limit && x.Next() {
		buf = x.Append(buf[:0])
		p.rows = append(p.rows, string(buf))
	}

	return p
}

// render formats p for display, showing at most limit rows.
func (p preview) render(limit int) string {
	if p.err != nil {
		return errorStyle.Render(strings.TrimRight(lang.FormatError(p.err, []byte(p.src)), "\n"))
	}

	var b strings.Builder

	noun := " rows"
	if p.count == 1 {
		noun = " row"
	}

	b.WriteString(hintStyle.Render(strconv.Itoa(p.count) + noun))

	for i, row := range p.rows {
		if i == limit {
			break
		}

		b.WriteString("\n")
		b.WriteString(resultStyle.Render(strconv.Quote(row)))
	}

	if p.count > min(limit, len(p.rows)) {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("..."))
	}

	return b.String()
}
