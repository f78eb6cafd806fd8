package lang

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func mustParse(t testing.TB, s string, opts ...Option) *AST {
	t.Helper()

	ast, err := Parse([]byte(s), opts...)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}

	return ast
}

func TestExec_Rows(t *testing.T) {
	t.Parallel()

	env := Vars{"A": "1", "B": "2", "HOME": "/home/me", "E": ""}

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"literal", "abc", []string{"abc"}},
		{"empty expression", "", []string{""}},
		{"canonical order", "(a,b)(x,y)", []string{"ax", "ay", "bx", "by"}},
		{"surrounding text", "pre(a,b)post", []string{"preapost", "prebpost"}},
		{"single alternative", "x(a)y", []string{"xay"}},
		{"empty alternatives", "x(,)", []string{"x", "x"}},
		{"empty group annihilates", "x()(a,b)", nil},
		{"nested flatten", "((a,b),c)", []string{"a", "b", "c"}},
		{
			"nested odometer", "(a,(b,c)d)(1,2)",
			[]string{"a1", "a2", "bd1", "bd2", "cd1", "cd2"},
		},
		{"three groups", "(a,b)(c,d)(e,f)", []string{
			"ace", "acf", "ade", "adf", "bce", "bcf", "bde", "bdf",
		}},
		{"dead alternative", "(a,x()y,b)", []string{"a", "b"}},
		{"substitution", `"{A}-{B}"`, []string{"1-2"}},
		{"substitution in group", `"{HOME}"/(bin,lib)`, []string{"/home/me/bin", "/home/me/lib"}},
		{"empty value", `a"{E}"b`, []string{"ab"}},
		{"format escapes", `"\{A\}\"\\"`, []string{`{A}"\`}},
		{"raw keeps delimiters", `'(a,b)'`, []string{"(a,b)"}},
		{"whitespace", "a (b, c)", []string{"a b", "a  c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := mustParse(t, tt.input).Strings(env)
			if err != nil {
				t.Fatalf("Strings: %v", err)
			}

			if !slices.Equal(got, tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
				t.Errorf("%q rows = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExec_Count(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  int
	}{
		{"abc", 1},
		{"(a,b)(x,y,z)", 6},
		{"(a,b)()", 0},
		{"((a,b),(c,d,e))", 5},
		{`"{NOPE}"(a,b)`, 2},
	}

	for _, tt := range tests {
		got, err := mustParse(t, tt.input).Count()
		if err != nil {
			t.Fatalf("Count(%q): %v", tt.input, err)
		}

		if got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestExec_MissingVariable(t *testing.T) {
	t.Parallel()

	ast := mustParse(t, `(a,b)"prefix-{name}-suffix"`)

	var sink RowBuffer

	n := 0

	var last error

	for _, err := range ast.Evaluate(Vars{}, &sink) {
		n++
		last = err
	}

	if n != 1 || !errors.Is(last, ErrMissingVariable) {
		t.Fatalf("got %d results, last error %v", n, last)
	}

	if sink.Len() != 0 {
		t.Errorf("sink received %d rows", sink.Len())
	}

	if span, _ := WrapError(last).Span(); span != (Span{13, 19}) {
		t.Errorf("span = %v", span)
	}

	if _, err := ast.Rows(nil); !errors.Is(err, ErrMissingVariable) {
		t.Errorf("Rows error = %v", err)
	}
}

func TestExec_UnreachableMarkerIgnored(t *testing.T) {
	t.Parallel()

	for _, input := range []string{`()"{NOPE}"`, `(a,()"{NOPE}")`} {
		if _, err := mustParse(t, input).Rows(EmptyEnv{}); err != nil {
			t.Errorf("%s: %v", input, err)
		}
	}
}

func TestExec_ResolvesOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	env := EnvFunc(func(name string) (ByteStr, bool) {
		calls.Add(1)

		return StringOf(strings.ToLower(name)), true
	})

	rows, err := mustParse(t, `"{A}{A}"(x,"{A}",y)"{B}"`).Strings(env)
	if err != nil {
		t.Fatal(err)
	}

	if want := []string{"aaxb", "aaab", "aayb"}; !slices.Equal(rows, want) {
		t.Errorf("rows = %q, want %q", rows, want)
	}

	if calls.Load() != 2 {
		t.Errorf("Resolve called %d times, want 2", calls.Load())
	}
}

func TestExec_TooManyRows(t *testing.T) {
	t.Parallel()

	ast := mustParse(t, "(a,b)(a,b)(a,b)")

	if _, err := ast.Exec(nil, WithMaxRows(4)); !errors.Is(err, ErrTooManyRows) {
		t.Errorf("limit 4: %v", err)
	}

	if x, err := ast.Exec(nil, WithMaxRows(8)); err != nil || x.Len() != 8 {
		t.Errorf("limit 8: %v", err)
	}

	limited := mustParse(t, "(a,b)(a,b)", WithMaxRows(2))
	if _, err := limited.Rows(nil); !errors.Is(err, ErrTooManyRows) {
		t.Errorf("parse-time limit: %v", err)
	}

	if _, err := limited.Rows(nil, WithMaxRows(0)); err != nil {
		t.Errorf("override: %v", err)
	}
}

func TestExec_Overflow(t *testing.T) {
	t.Parallel()

	two := NewGroup(New(NewString("0")), New(NewString("1")))

	args := make([]Arg, 64)
	for i := range args {
		args[i] = two
	}

	if _, err := New(args...).Count(WithMaxRows(0)); !errors.Is(err, ErrTooManyRows) {
		t.Errorf("2^64 rows: %v", err)
	}

	// An empty group wins over any overflow.
	args = append(args, NewGroup())
	if n, err := New(args...).Count(WithMaxRows(0)); err != nil || n != 0 {
		t.Errorf("annihilated: %d, %v", n, err)
	}
}

func TestExec_Iteration(t *testing.T) {
	t.Parallel()

	x, err := mustParse(t, "(a,b,c)").Exec(nil)
	if err != nil {
		t.Fatal(err)
	}

	if x.Len() != 3 || x.Index() != -1 {
		t.Fatalf("Len=%d Index=%d", x.Len(), x.Index())
	}

	if got := x.Append(nil); got != nil {
		t.Errorf("row before Next = %q", got)
	}

	var rows []string

	for x.Next() {
		rows = append(rows, string(x.Append(nil))+string(rune('0'+x.Index())))
	}

	if !slices.Equal(rows, []string{"a0", "b1", "c2"}) {
		t.Errorf("rows = %q", rows)
	}

	if x.Next() {
		t.Error("Next after end returned true")
	}
}

func TestExec_WriteRow(t *testing.T) {
	t.Parallel()

	x, err := mustParse(t, "(ab,c)").Exec(nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer

	var counts []int

	for x.Next() {
		n, err := x.WriteRow(&buf)
		if err != nil {
			t.Fatal(err)
		}

		counts = append(counts, n)
	}

	if buf.String() != "abc" || !slices.Equal(counts, []int{2, 1}) {
		t.Errorf("wrote %q with counts %v", buf.String(), counts)
	}
}

type failWriter struct {
	n   int
	err error
}

func (w failWriter) Write(p []byte) (int, error) { return min(w.n, len(p)), w.err }

func TestExec_SinkErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	tests := []struct {
		name  string
		sink  io.Writer
		cause error
	}{
		{"write error", failWriter{0, boom}, boom},
		{"short write", failWriter{1, nil}, io.ErrShortWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results := 0

			for _, err := range mustParse(t, "(abc,def)").Evaluate(nil, tt.sink) {
				results++

				if !errors.Is(err, ErrSink) || !errors.Is(err, tt.cause) {
					t.Errorf("err = %v, want %v wrapping %v", err, ErrSink, tt.cause)
				}
			}

			if results != 1 {
				t.Errorf("evaluation continued after sink error: %d results", results)
			}
		})
	}
}

func TestEvaluate_StopEarly(t *testing.T) {
	t.Parallel()

	var sink RowBuffer

	for n, err := range mustParse(t, "(a,b,c)").Evaluate(nil, &sink) {
		if err != nil || n != 1 {
			t.Fatalf("n=%d err=%v", n, err)
		}

		break
	}

	if sink.Len() != 1 || sink.Row(0).String() != "a" {
		t.Errorf("sink rows = %q", Strings(sink.Rows()))
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	t.Parallel()

	ast := mustParse(t, `("{A}",b)(c,(d,e))`)
	env := Vars{"A": "a"}

	first, err := ast.Strings(env)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup

	for range 8 {
		wg.Go(func() {
			got, err := ast.Strings(env)
			if err != nil || !slices.Equal(got, first) {
				t.Errorf("concurrent evaluation = %q, %v", got, err)
			}
		})
	}

	wg.Wait()
}

func TestEvaluate_Environments(t *testing.T) {
	t.Parallel()

	ast := mustParse(t, `"{X}"`)

	for _, v := range []string{"one", "two"} {
		got, err := ast.Strings(Vars{"X": v})
		if err != nil || len(got) != 1 || got[0] != v {
			t.Errorf("X=%s: %q, %v", v, got, err)
		}
	}
}

func TestExec_ProgrammaticTemplate(t *testing.T) {
	t.Parallel()

	_, err := New(NewFString("{unterminated")).Rows(Vars{})
	if !errors.Is(err, ErrUnterminatedMarker) {
		t.Errorf("err = %v", err)
	}
}
