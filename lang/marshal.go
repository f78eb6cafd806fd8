package lang

import (
	"bufio"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
)

// Encoding is a textual representation of a list of rows.
type Encoding int

const (
	EncodingLines Encoding = iota // one row per line
	EncodingNUL                   // each row terminated by a NUL byte
	EncodingJSON                  // JSON array of strings
	EncodingYAML                  // YAML sequence of strings
	EncodingShell                 // POSIX shell words on one line
)

var encodingNames = [...]string{
	EncodingLines: "lines",
	EncodingNUL:   "nul",
	EncodingJSON:  "json",
	EncodingYAML:  "yaml",
	EncodingShell: "shell",
}

// ErrEncoding is returned for an unknown encoding name.
var ErrEncoding = NewError("unknown encoding")

func (e Encoding) String() string {
	if e < 0 || int(e) >= len(encodingNames) {
		return "unknown"
	}

	return encodingNames[e]
}

// Encodings yields the names of all encodings.
func Encodings() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range encodingNames {
			if !yield(name) {
				return
			}
		}
	}
}

// ParseEncoding returns the encoding named s, ignoring case.
func ParseEncoding(s string) (Encoding, error) {
	for i, name := range encodingNames {
		if strings.EqualFold(s, name) {
			return Encoding(i), nil
		}
	}

	return 0, ErrEncoding.With(slog.String("name", s))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (e *Encoding) UnmarshalText(text []byte) error {
	enc, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}

	*e = enc

	return nil
}

// Streaming reports whether rows can be written as they are produced,
// rather than collected and encoded as a whole.
func (e Encoding) Streaming() bool {
	return e == EncodingLines || e == EncodingNUL
}

// Delimiter returns the row terminator of a streaming encoding.
func (e Encoding) Delimiter() byte {
	if e == EncodingNUL {
		return 0
	}

	return '\n'
}

// Encode writes rows to w in encoding e.
func Encode(w io.Writer, rows []ByteStr, e Encoding) error {
	switch e {
	case EncodingLines, EncodingNUL:
		bw := bufio.NewWriter(w)
		for _, row := range rows {
			_, _ = bw.Write(row.Bytes())
			_ = bw.WriteByte(e.Delimiter())
		}

		return bw.Flush()

	case EncodingJSON:
		data, err := json.Marshal(Strings(rows))
		if err != nil {
			return err
		}

		_, err = w.Write(append(data, '\n'))

		return err

	case EncodingYAML:
		data, err := yaml.Marshal(Strings(rows))
		if err != nil {
			return err
		}

		_, err = w.Write(data)

		return err

	case EncodingShell:
		words := make([]string, len(rows))
		for i, row := range rows {
			words[i] = ShellQuote(row.Bytes())
		}

		_, err := io.WriteString(w, strings.Join(words, " ")+"\n")

		return err

	default:
		return ErrEncoding.With(slog.Int("encoding", int(e)))
	}
}

// ShellQuote returns b as one POSIX shell word. Words made only of safe
// bytes are returned as is; anything else is single-quoted.
func ShellQuote(b []byte) string {
	if len(b) == 0 {
		return "''"
	}

	safe := true

	for _, c := range b {
		if !isShellSafe(c) {
			safe = false

			break
		}
	}

	if safe {
		return string(b)
	}

	return "'" + strings.ReplaceAll(string(b), "'", `'\''`) + "'"
}

func isShellSafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}

	return strings.IndexByte("@%+=:,./-_", c) >= 0
}
