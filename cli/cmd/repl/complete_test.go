package repl

import (
	"testing"
)

func TestMarkerBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{"plain_text", "abc", 3, "", 3, 3, false},
		{"open_format", `"x`, 2, "", 2, 2, false},
		{"just_opened", `"{`, 2, "", 2, 2, true},
		{"partial_name", `"{HO`, 4, "HO", 2, 4, true},
		{"mid_name", `"{HOME}"`, 4, "HOME", 2, 6, true},
		{"after_marker", `"{HOME}x`, 7, "", 7, 7, false},
		{"second_marker", `"{A}-{B`, 7, "B", 6, 7, true},
		{"in_group", `(a,"{N`, 6, "N", 5, 6, true},
		{"brace_in_text", `{x`, 2, "", 2, 2, false},
		{"brace_in_raw", `'"{x`, 4, "", 4, 4, false},
		{"escaped_brace", `"\{x`, 4, "", 4, 4, false},
		{"escaped_quote", `\"{x`, 4, "", 4, 4, false},
		{"closed_format", `"{A}"{x`, 7, "", 7, 7, false},
		{"cursor_past_end", `"{ab`, 10, "ab", 2, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end, ok := markerBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd || ok != tt.wantOK {
				t.Errorf("markerBounds(%q, %d) = (%q, %d, %d, %v), want (%q, %d, %d, %v)",
					tt.input, tt.cursor, word, start, end, ok,
					tt.wantWord, tt.wantStart, tt.wantEnd, tt.wantOK)
			}
		})
	}
}

func TestCommandBounds(t *testing.T) {
	tests := []struct {
		input     string
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"", "", 0, 0},
		{"qu", "qu", 0, 2},
		{"  help ", "help", 2, 6},
		{"   ", "", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			word, start, end := commandBounds(tt.input)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("commandBounds(%q) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, word, start, end, tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
