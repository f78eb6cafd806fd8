package lang

import (
	"io"
	"iter"
	"log/slog"
	"math"
	"slices"
	"sort"
)

// plan is the evaluation state of one expression: its args reduced to fixed
// byte strings and groups, with the row count of each.
type plan struct {
	nodes  []node
	stride []int // rows per step of each node's digit
	count  int
}

type node struct {
	kind  ArgKind
	text  ByteStr   // String, or FString after substitution
	tmpl  WithSpan[ByteStr]
	alts  []*plan
	offs  []int // offs[i] is the first row of alts[i]; offs[len(alts)] is count
	count int
}

// planner builds a plan and resolves markers, each name at most once.
type planner struct {
	env     Environment
	values  map[string]ByteStr
	markers int
}

func mul(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	if a > math.MaxInt/b {
		return 0, false
	}

	return a * b, true
}

func limit(n, maxRows int, s Span) error {
	if maxRows > 0 && n > maxRows {
		return ErrTooManyRows.At(s).With(
			slog.Int("rows", n),
			slog.Int("max_rows", maxRows),
		)
	}

	return nil
}

func overflow(s Span) error {
	return ErrTooManyRows.At(s).With(slog.String("rows", "overflow"))
}

// build computes the shape and row counts of a.
func (pl *planner) build(a *AST) (*plan, error) {
	p := &plan{
		nodes:  make([]node, len(a.Args)),
		stride: make([]int, len(a.Args)),
		count:  1,
	}

	for i, arg := range a.Args {
		n := node{kind: arg.Kind, count: 1}

		switch arg.Kind {
		case ArgString:
			n.text = arg.Text.Value

		case ArgFString:
			n.tmpl = arg.Text

		case ArgGroup:
			n.alts = make([]*plan, len(arg.Alts))
			n.offs = make([]int, len(arg.Alts)+1)

			sum := 0

			for j, alt := range arg.Alts {
				sub, err := pl.build(alt)
				if err != nil {
					return nil, err
				}

				if sub.count > math.MaxInt-sum {
					return nil, overflow(arg.Span)
				}

				n.alts[j] = sub
				n.offs[j] = sum
				sum += sub.count
			}

			n.offs[len(arg.Alts)] = sum
			n.count = sum
		}

		p.nodes[i] = n
	}

	// Any group without alternatives annihilates the expression, however
	// large the other counts are.
	if slices.ContainsFunc(p.nodes, func(n node) bool { return n.count == 0 }) {
		p.count = 0

		return p, nil
	}

	for i, n := range p.nodes {
		var ok bool
		if p.count, ok = mul(p.count, n.count); !ok {
			return nil, overflow(a.Args[i].Span)
		}
	}

	// Rightmost node varies fastest.
	step := 1
	for i := len(p.nodes) - 1; i >= 0; i-- {
		p.stride[i] = step
		step *= p.nodes[i].count
	}

	return p, nil
}

// resolve substitutes every format string reachable through alternatives
// that produce at least one row.
func (pl *planner) resolve(p *plan) error {
	for i := range p.nodes {
		n := &p.nodes[i]

		switch n.kind {
		case ArgFString:
			text, err := pl.render(n.tmpl)
			if err != nil {
				return err
			}

			n.text = text

		case ArgGroup:
			for _, alt := range n.alts {
				if alt.count == 0 {
					continue
				}

				if err := pl.resolve(alt); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (pl *planner) render(tmpl WithSpan[ByteStr]) (ByteStr, error) {
	var buf []byte

	for frag, err := range Fragments(tmpl) {
		if err != nil {
			return ByteStr{}, err
		}

		if frag.Kind == FragmentText {
			buf = append(buf, frag.Value.Bytes()...)

			continue
		}

		name := frag.Value.String()

		value, ok := pl.values[name]
		if !ok {
			v, bound, err := Lookup(pl.env, name)

			switch {
			case err != nil:
				return ByteStr{}, ErrBindingFailed.At(frag.Span).
					With(slog.String("name", name)).Wrap(err)
			case !bound:
				return ByteStr{}, ErrMissingVariable.At(frag.Span).
					With(slog.String("name", name))
			}

			value = v

			pl.values[name] = value
			pl.markers++
		}

		buf = append(buf, value.Bytes()...)
	}

	return BytesOf(buf), nil
}

// appendRow appends row idx of p to dst.
func (p *plan) appendRow(dst []byte, idx int) []byte {
	for i := range p.nodes {
		n := &p.nodes[i]

		if n.kind != ArgGroup {
			dst = append(dst, n.text.Bytes()...)

			continue
		}

		dst = n.appendAlt(dst, (idx/p.stride[i])%n.count)
	}

	return dst
}

// appendAlt appends row d of the group, counting across its alternatives
// in order.
func (n *node) appendAlt(dst []byte, d int) []byte {
	j := sort.SearchInts(n.offs, d+1) - 1

	return n.alts[j].appendRow(dst, d-n.offs[j])
}

// Exec is the state of one evaluation of an [AST].
//
// Rows are visited in odometer order over the top-level args: the rightmost
// group varies fastest, and the rows of a group are those of its first
// alternative, then its second, and so on. For "(a,b)(x,y)" that order is
// ax, ay, bx, by.
//
//	x, err := ast.Exec(env)
//	if err != nil {
//		return err
//	}
//	for x.Next() {
//		if _, err := x.WriteRow(w); err != nil {
//			return err
//		}
//	}
//
// An Exec must not be shared between goroutines.
type Exec struct {
	root   *plan
	digits []int
	index  int
	buf    []byte
}

// Exec prepares an evaluation of a against env.
//
// Every marker in an alternative that produces rows is resolved here, once
// per name, so a missing variable fails with [ErrMissingVariable] before any
// row exists. A nil env resolves nothing.
func (a *AST) Exec(env Environment, opts ...Option) (*Exec, error) {
	o := a.opts.apply(opts...)

	if env == nil {
		env = EmptyEnv{}
	}

	pl := &planner{env: env, values: make(map[string]ByteStr)}

	root, err := pl.build(a)
	if err != nil {
		return nil, err
	}

	if err := limit(root.count, o.maxRows, a.Span); err != nil {
		return nil, err
	}

	if root.count > 0 {
		if err := pl.resolve(root); err != nil {
			return nil, err
		}
	}

	o.logger.Trace("exec plan",
		slog.Int("rows", root.count),
		slog.Int("args", len(root.nodes)),
		slog.Int("markers", pl.markers))

	return &Exec{root: root, digits: make([]int, len(root.nodes)), index: -1}, nil
}

// Count returns the number of rows a would produce, without resolving any
// markers.
func (a *AST) Count(opts ...Option) (int, error) {
	o := a.opts.apply(opts...)
	p, err := new(planner).build(a)
	if err != nil {
		return 0, err
	}

	if err := limit(p.count, o.maxRows, a.Span); err != nil {
		return 0, err
	}

	return p.count, nil
}

// Len returns the total number of rows.
func (x *Exec) Len() int { return x.root.count }

// Index returns the index of the current row, or -1 before the first call to
// Next.
func (x *Exec) Index() int { return x.index }

// Next advances to the next row and reports whether there is one.
func (x *Exec) Next() bool {
	if x.index+1 >= x.root.count {
		x.index = x.root.count

		return false
	}

	x.index++

	if x.index == 0 {
		return true
	}

	for i := len(x.digits) - 1; i >= 0; i-- {
		x.digits[i]++
		if x.digits[i] < x.root.nodes[i].count {
			break
		}

		x.digits[i] = 0
	}

	return true
}

// Append appends the current row to dst.
func (x *Exec) Append(dst []byte) []byte {
	if x.index < 0 || x.index >= x.root.count {
		return dst
	}

	for i := range x.root.nodes {
		n := &x.root.nodes[i]

		if n.kind != ArgGroup {
			dst = append(dst, n.text.Bytes()...)

			continue
		}

		dst = n.appendAlt(dst, x.digits[i])
	}

	return dst
}

// WriteRow renders the current row and hands it to w in a single call to
// Write. It returns the number of bytes w accepted. A failed or short write
// is reported as [ErrSink].
func (x *Exec) WriteRow(w io.Writer) (int, error) {
	x.buf = x.Append(x.buf[:0])

	n, err := w.Write(x.buf)
	if err == nil && n < len(x.buf) {
		err = io.ErrShortWrite
	}

	if err != nil {
		return n, ErrSink.Wrap(err).With(
			slog.Int("row", x.index),
			slog.Int("written", n),
			slog.Int("length", len(x.buf)),
		)
	}

	return n, nil
}

// Evaluate yields one element per row of a evaluated against env, in order.
// Each row is written to w by a single call to Write and the element holds
// the number of bytes written. The sequence stops after the first error;
// an error preparing the evaluation is yielded before any row is written.
//
// The caller may stop ranging at any point between rows.
func (a *AST) Evaluate(env Environment, w io.Writer, opts ...Option) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		x, err := a.Exec(env, opts...)
		if err != nil {
			yield(0, err)

			return
		}

		for x.Next() {
			n, err := x.WriteRow(w)
			if !yield(n, err) || err != nil {
				return
			}
		}
	}
}

// Rows evaluates a against env and returns every row, or an error and no
// rows.
func (a *AST) Rows(env Environment, opts ...Option) ([]ByteStr, error) {
	x, err := a.Exec(env, opts...)
	if err != nil {
		return nil, err
	}

	rows := make([]ByteStr, 0, x.Len())
	for x.Next() {
		rows = append(rows, BytesOf(x.Append(nil)))
	}

	return rows, nil
}

// Strings is like [AST.Rows] but converts each row to a string.
func (a *AST) Strings(env Environment, opts ...Option) ([]string, error) {
	rows, err := a.Rows(env, opts...)
	if err != nil {
		return nil, err
	}

	return Strings(rows), nil
}
