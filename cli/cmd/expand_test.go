package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/argx/lang"
)

func expandCmd(format string, exprs ...string) *Expand {
	return &Expand{
		Format:   format,
		Limits:   Limits{AllowEmptyGroups: true},
		Bindings: Bindings{Set: []string{"X=1", "Y=a,b"}, NoProcessEnv: true},
		Sources:  Sources{Exprs: exprs},
	}
}

func TestExpand_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		exprs  []string
		want   string
	}{
		{"lines", []string{"a(b,c)", `"{X}"`}, "ab\nac\n1\n"},
		{"nul", []string{"a(b,c)"}, "ab\x00ac\x00"},
		{"json", []string{"a(b,c)", `"{Y}"`}, `["ab","ac","a,b"]` + "\n"},
		{"yaml", []string{"a(b,c)"}, "- ab\n- ac\n"},
		{"shell", []string{"('a b',c)"}, "'a b' c\n"},
		{"lines", []string{"()"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.format+"/"+strings.Join(tt.exprs, " "), func(t *testing.T) {
			t.Parallel()

			ctx, out, _ := streams(t, "")

			if err := expandCmd(tt.format, tt.exprs...).Run(ctx); err != nil {
				t.Fatalf("Run: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpand_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cmd    *Expand
		target error
	}{
		{"parse", expandCmd("lines", "a(b"), lang.ErrUnterminatedGroup},
		{"missing_variable", expandCmd("lines", `"{NOPE}"`), lang.ErrMissingVariable},
		{"bad_format", expandCmd("xml", "a"), ErrFormat},
		{"no_input", expandCmd("lines"), ErrNoInput},
		{"bad_assignment", &Expand{
			Format:   "lines",
			Bindings: Bindings{Set: []string{"novalue"}},
			Sources:  Sources{Exprs: []string{"a"}},
		}, nil},
		{"too_many_rows", &Expand{
			Format:   "json",
			Limits:   Limits{MaxRows: 3},
			Bindings: Bindings{NoProcessEnv: true},
			Sources:  Sources{Exprs: []string{"(a,b)(c,d)"}},
		}, lang.ErrTooManyRows},
		{"empty_group_rejected", &Expand{
			Format:   "lines",
			Bindings: Bindings{NoProcessEnv: true},
			Sources:  Sources{Exprs: []string{"a()"}},
		}, lang.ErrEmptyGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, _, _ := streams(t, "")

			err := tt.cmd.Run(ctx)
			if err == nil {
				t.Fatal("Run succeeded")
			}

			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestExpand_ReportsLocation(t *testing.T) {
	t.Parallel()

	ctx, _, errOut := streams(t, "")

	err := expandCmd("lines", "ok", `x"{NOPE}"`).Run(ctx)
	if !errors.Is(err, ErrExpression) || !errors.Is(err, lang.ErrMissingVariable) {
		t.Fatalf("error = %v", err)
	}

	diag := errOut.String()
	for _, want := range []string{"arg 2:", "missing variable", "^^^"} {
		if !strings.Contains(diag, want) {
			t.Errorf("diagnostic missing %q:\n%s", want, diag)
		}
	}
}

func TestExpand_FromFileAndStdin(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "exprs", "f(1,2)\n")
	ctx, out, _ := streams(t, "s\n")

	cmd := expandCmd("lines")
	cmd.File = []string{file, "-"}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got, want := out.String(), "f1\nf2\ns\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestExpand_SetExpr(t *testing.T) {
	t.Parallel()

	ctx, out, _ := streams(t, "")

	cmd := expandCmd("lines", `"{N}"`)
	cmd.SetExpr = []string{`N="n" + "1"`}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := out.String(); got != "n1\n" {
		t.Errorf("output = %q, want %q", got, "n1\n")
	}
}

func TestExpand_NoOutputWhenLaterInputFails(t *testing.T) {
	t.Parallel()

	digits := "(0,1,2,3,4,5,6,7,8,9)"

	for _, format := range []string{"lines", "nul", "json"} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			ctx, out, _ := streams(t, "")

			// 10^4 rows, far beyond the output buffer
			cmd := expandCmd(format, strings.Repeat(digits, 4), `"{NOPE}"`)

			if err := cmd.Run(ctx); !errors.Is(err, lang.ErrMissingVariable) {
				t.Fatalf("error = %v, want ErrMissingVariable", err)
			}

			if out.Len() != 0 {
				t.Errorf("wrote %d bytes before failing", out.Len())
			}
		})
	}
}

func TestExpand_FailingSetExprDoesNotFallThrough(t *testing.T) {
	t.Parallel()

	ctx, out, _ := streams(t, "")

	cmd := &Expand{
		Format: "lines",
		Bindings: Bindings{
			SetExpr: []string{`HOME=[1, 2][env("ARGX_TEST_UNSET") == "" ? 5 : 0]`},
		},
		Sources: Sources{Exprs: []string{`"{HOME}"/bin`}},
	}

	if err := cmd.Run(ctx); !errors.Is(err, lang.ErrBindingFailed) {
		t.Fatalf("error = %v, want ErrBindingFailed", err)
	}

	if out.Len() != 0 {
		t.Errorf("output = %q, want none", out.String())
	}
}
