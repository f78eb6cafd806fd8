package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/argx/lang"
)

// ctrlCommands are the commands of control mode.
var ctrlCommands = []string{"help", "names", "reload", "clear", "quit"}

// scanner states of markerBounds.
const (
	inText = iota
	inRaw
	inFormat
	inMarker
)

// markerBounds finds the substitution marker name under the cursor. It
// scans input up to cursor the way the lexer does, and ok is true only
// when the cursor sits after an unclosed '{' inside a format string. The
// name extends forward to the next '}' or '"'.
func markerBounds(input string, cursor int) (word string, start, end int, ok bool) {
	cursor = max(0, min(cursor, len(input)))
	state := inText

	for i := 0; i < cursor; i++ {
		c := input[i]

		switch state {
		case inText:
			switch c {
			case lang.Escape:
				i++
			case lang.RawQuote:
				state = inRaw
			case lang.FormatQuote:
				state = inFormat
			}

		case inRaw:
			if c == lang.RawQuote {
				state = inText
			}

		case inFormat:
			switch c {
			case lang.Escape:
				i++
			case lang.FormatQuote:
				state = inText
			case lang.MarkerOpen:
				state = inMarker
				start = i + 1
			}

		case inMarker:
			switch c {
			case lang.MarkerClose:
				state = inFormat
			case lang.FormatQuote:
				state = inText
			}
		}
	}

	if state != inMarker {
		return "", cursor, cursor, false
	}

	end = cursor
	for end < len(input) && input[end] != lang.MarkerClose && input[end] != lang.FormatQuote {
		end++
	}

	return input[start:end], start, end, true
}

// commandBounds treats the whole trimmed input as the word to complete.
func commandBounds(input string) (word string, start, end int) {
	start = len(input) - len(strings.TrimLeft(input, " \t"))
	end = len(strings.TrimRight(input, " \t"))

	if end < start {
		return "", start, start
	}

	return input[start:end], start, end
}

// computeMatches returns the completion candidates for the word at the
// cursor, ranked best first, and the word's bounds. An empty marker name
// matches every known name.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	if m.mode == modeCtrl {
		word, start, end := commandBounds(input)
		if word == "" || strings.ContainsAny(word, " \t") {
			return nil, start, end
		}

		return fuzzy.Find(word, ctrlCommands), start, end
	}

	word, start, end, ok := markerBounds(input, m.input.Position())
	if !ok || len(m.names) == 0 {
		return nil, start, end
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(m.names))
		for i, name := range m.names {
			matches[i] = fuzzy.Match{Str: name, Index: i}
		}

		return matches, start, end
	}

	return fuzzy.Find(word, m.names), start, end
}

// renderCandidateBar renders matches on one line, ellipsized to width. The
// selected candidate is highlighted while tab-cycling.
func renderCandidateBar(matches fuzzy.Matches, selected int, tabActive bool, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == selected)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && i < len(matches)-1 && used+w+reserve > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched bytes in bold.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, bold := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, bold = selectedStyle, selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(bold.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
