//go:build property

package lang

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func properties(seed int64) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(seed)
	parameters.MinSuccessfulTests = 200

	return gopter.NewProperties(parameters)
}

// groups builds "(0,1,..)(0,1,..).." with the given alternative counts.
func groups(counts []int) string {
	var sb strings.Builder

	for _, n := range counts {
		sb.WriteByte('(')

		for j := range n {
			if j > 0 {
				sb.WriteByte(',')
			}

			sb.WriteString(strconv.Itoa(j))
		}

		sb.WriteByte(')')
	}

	return sb.String()
}

// odometer enumerates rows of groups(counts) with nested loops, the
// rightmost group varying fastest.
func odometer(counts []int) []string {
	rows := []string{""}

	for _, n := range counts {
		next := make([]string, 0, len(rows)*n)

		for _, row := range rows {
			for j := range n {
				next = append(next, row+strconv.Itoa(j))
			}
		}

		rows = next
	}

	return rows
}

func TestLiteralProperties(t *testing.T) {
	properties := properties(1357)

	properties.Property("expression without groups yields one row", prop.ForAll(
		func(parts []string) bool {
			var src strings.Builder
			for _, p := range parts {
				src.WriteString(Quote([]byte(p)))
			}

			ast, err := Parse([]byte(src.String()))
			if err != nil {
				return false
			}

			rows, err := ast.Strings(nil)

			return err == nil && len(rows) == 1 && rows[0] == strings.Join(parts, "")
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.Property("quoted literal re-parses to the same row", prop.ForAll(
		func(s string) bool {
			first, err := mustParseQuiet(Quote([]byte(s))).Strings(nil)
			if err != nil || len(first) != 1 {
				return false
			}

			again, err := mustParseQuiet(Quote([]byte(first[0]))).Strings(nil)

			return err == nil && slices.Equal(first, again)
		},
		gen.AnyString(),
	))

	properties.Property("single alternative group is a no-op", prop.ForAll(
		func(s string) bool {
			bare, err1 := mustParseQuiet(Quote([]byte(s))).Strings(nil)
			grouped, err2 := mustParseQuiet("(" + Quote([]byte(s)) + ")").Strings(nil)

			return err1 == nil && err2 == nil && slices.Equal(bare, grouped)
		},
		gen.AnyString(),
	))

	properties.Property("canonical form evaluates identically", prop.ForAll(
		func(parts []string) bool {
			src := "(" + strings.Join(quoteAll(parts), ",") + ")x"

			ast := mustParseQuiet(src)
			want, err := ast.Strings(nil)
			if err != nil {
				return false
			}

			got, err := mustParseQuiet(ast.String()).Strings(nil)

			return err == nil && slices.Equal(got, want)
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.TestingRun(t)
}

func TestExpansionProperties(t *testing.T) {
	properties := properties(2468)

	counts := gen.SliceOfN(4, gen.IntRange(0, 4))

	properties.Property("row count is the product of alternative counts", prop.ForAll(
		func(counts []int) bool {
			want := 1
			for _, n := range counts {
				want *= n
			}

			n, err := mustParseQuiet(groups(counts)).Count()

			return err == nil && n == want
		},
		counts,
	))

	properties.Property("rows follow odometer order", prop.ForAll(
		func(counts []int) bool {
			rows, err := mustParseQuiet(groups(counts)).Strings(nil)
			if err != nil {
				return false
			}

			want := odometer(counts)

			return len(rows) == len(want) && (len(rows) == 0 || slices.Equal(rows, want))
		},
		counts,
	))

	properties.Property("evaluation is deterministic", prop.ForAll(
		func(counts []int) bool {
			ast := mustParseQuiet(groups(counts))

			a, err1 := ast.Strings(nil)
			b, err2 := ast.Strings(nil)

			return err1 == nil && err2 == nil && slices.Equal(a, b)
		},
		counts,
	))

	properties.Property("missing variable yields no rows", prop.ForAll(
		func(counts []int, name string) bool {
			if name == "" {
				return true
			}

			ast := mustParseQuiet(groups(counts) + `"prefix-{` + name + `}-suffix"`)

			var sink RowBuffer

			for _, err := range ast.Evaluate(EmptyEnv{}, &sink) {
				if err != nil && !errors.Is(err, ErrMissingVariable) {
					return false
				}
			}

			return sink.Len() == 0
		},
		counts,
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

func quoteAll(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = Quote([]byte(p))
	}

	return out
}

func mustParseQuiet(s string) *AST {
	ast, err := Parse([]byte(s), WithMaxRows(0))
	if err != nil {
		panic(err)
	}

	return ast
}
