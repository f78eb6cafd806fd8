package lang

import "iter"

// FragmentKind identifies the parts of a format string template.
type FragmentKind uint8

const (
	FragmentText   FragmentKind = iota // bytes copied verbatim
	FragmentMarker                     // name substituted from the environment
)

func (k FragmentKind) String() string {
	if k == FragmentMarker {
		return "Marker"
	}

	return "Text"
}

// Fragment is one piece of a format string template.
//
// For text, Value holds bytes to copy. An escape sequence yields a fragment
// holding only the escaped byte. For a marker, Value holds the name between
// the braces and Span covers the braces too.
type Fragment struct {
	Kind  FragmentKind
	Value ByteStr
	Span  Span
}

// Fragments scans the template of a format string, the bytes between its
// quotes. Spans are offsets in the same input as tmpl.Span.
//
// Within a template, '\' escapes the byte after it, "{name}" is a marker,
// and a '}' outside a marker is an error. Scanning stops at the first error.
func Fragments(tmpl WithSpan[ByteStr]) iter.Seq2[Fragment, error] {
	return func(yield func(Fragment, error) bool) {
		src, base := tmpl.Value, tmpl.Span.Start
		n := src.Len()

		emit := func(kind FragmentKind, vi, vj, si, sj int) bool {
			return yield(Fragment{
				Kind:  kind,
				Value: src.Slice(vi, vj),
				Span:  Span{Start: base + si, End: base + sj},
			}, nil)
		}

		fail := func(err *Error, si, sj int) {
			yield(Fragment{}, err.At(Span{Start: base + si, End: base + sj}))
		}

		text := 0 // start of the pending text run

		flush := func(end int) bool {
			if end > text {
				return emit(FragmentText, text, end, text, end)
			}

			return true
		}

		for i := 0; i < n; {
			switch src.At(i) {
			case Escape:
				if i+1 >= n {
					fail(ErrDanglingEscape, i, n)

					return
				}

				if !flush(i) || !emit(FragmentText, i+1, i+2, i, i+2) {
					return
				}

				i += 2
				text = i

			case MarkerClose:
				fail(ErrUnmatchedBrace, i, i+1)

				return

			case MarkerOpen:
				if !flush(i) {
					return
				}

				j := i + 1
				for j < n && src.At(j) != MarkerClose && src.At(j) != MarkerOpen {
					j++
				}

				switch {
				case j >= n || src.At(j) == MarkerOpen:
					fail(ErrUnterminatedMarker, i, i+1)

					return

				case j == i+1:
					fail(ErrEmptyMarker, i, j+1)

					return
				}

				if !emit(FragmentMarker, i+1, j, i, j+1) {
					return
				}

				i = j + 1
				text = i

			default:
				i++
			}
		}

		flush(n)
	}
}
