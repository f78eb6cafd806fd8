package lang

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/ardnew/argx/log"
)

func TestParseString_Cache(t *testing.T) {
	t.Parallel()

	src := "cache(a,b)" + t.Name()

	first, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	second, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Error("cache returned the same *AST to two callers")
	}

	if &first.Args[0].Text.Value.Bytes()[0] != &second.Args[0].Text.Value.Bytes()[0] {
		t.Error("second parse did not reuse cached tree")
	}
}

func TestParseString_CacheKeyedByOptions(t *testing.T) {
	t.Parallel()

	src := "x()" + t.Name()

	if _, err := ParseString(t.Context(), src); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseString(t.Context(), src, WithEmptyGroups(false)); !errors.Is(err, ErrEmptyGroup) {
		t.Errorf("cached result ignored options: %v", err)
	}
}

func TestParseString_CachedErrors(t *testing.T) {
	t.Parallel()

	src := "(" + t.Name()

	for range 2 {
		if _, err := ParseString(t.Context(), src); !errors.Is(err, ErrUnterminatedGroup) {
			t.Errorf("err = %v", err)
		}
	}
}

func TestParseString_CarriesOptions(t *testing.T) {
	t.Parallel()

	src := "(a,b)(c,d)" + t.Name()

	if _, err := ParseString(t.Context(), src); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer

	ast, err := ParseString(t.Context(), src,
		WithMaxRows(2),
		WithLogger(log.Make(&logs, log.WithLevel(log.LevelTrace))))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ast.Rows(nil); !errors.Is(err, ErrTooManyRows) {
		t.Errorf("cached AST lost WithMaxRows: %v", err)
	}

	if !strings.Contains(logs.String(), "cache_hit=true") {
		t.Errorf("trace log missing cache hit: %q", logs.String())
	}
}

func TestParseReader(t *testing.T) {
	t.Parallel()

	ast, err := ParseReader(t.Context(), strings.NewReader("r(a,b)"))
	if err != nil {
		t.Fatal(err)
	}

	if n, _ := ast.Count(); n != 2 {
		t.Errorf("Count = %d", n)
	}

	_, err = ParseReader(t.Context(), iotest.ErrReader(io.ErrUnexpectedEOF))
	if !errors.Is(err, ErrReadInput) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v", err)
	}
}

func TestClearCache(t *testing.T) {
	src := "clear" + t.Name()

	first, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	ClearCache()

	second, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	if &first.Args[0].Text.Value.Bytes()[0] == &second.Args[0].Text.Value.Bytes()[0] {
		t.Error("ClearCache kept the parsed tree")
	}
}
