package repl

import (
	"strings"
	"testing"

	"github.com/ardnew/argx/lang"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	p := evaluate("x(1,2,3)", nil, 2)

	if p.err != nil {
		t.Fatalf("evaluate: %v", p.err)
	}

	if p.count != 3 || len(p.rows) != 2 {
		t.Fatalf("count = %d, rows = %q; want 3 and two rows", p.count, p.rows)
	}

	out := p.render(2)
	for _, want := range []string{"3 rows", `"x1"`, `"x2"`, "..."} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, `"x3"`) {
		t.Errorf("render shows rows past the limit:\n%s", out)
	}
}

func TestEvaluate_Single(t *testing.T) {
	t.Parallel()

	out := evaluate("abc", nil, 5).render(5)
	if !strings.Contains(out, "1 row") || strings.Contains(out, "...") {
		t.Errorf("render = %q", out)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	t.Parallel()

	if p := evaluate("a(b", nil, 1); p.err == nil {
		t.Error("parse error not reported")
	} else if out := p.render(1); !strings.Contains(out, "^") {
		t.Errorf("render of parse error has no caret:\n%s", out)
	}

	p := evaluate(`"{NOPE}"`, lang.Vars{}, 1)
	if p.err == nil || !strings.Contains(p.render(1), "missing variable") {
		t.Errorf("missing variable not reported: %v", p.err)
	}
}
