package lang

import (
	"bytes"
	"io"
)

// ByteStr is an immutable view over a byte buffer.
//
// Slicing a ByteStr never copies: every sub-slice shares the buffer of its
// parent. The bytes need not be valid UTF-8.
type ByteStr struct {
	b []byte
}

// BytesOf returns a ByteStr viewing b without copying it.
// The caller must not modify b afterward.
func BytesOf(b []byte) ByteStr { return ByteStr{b: b} }

// StringOf returns a ByteStr holding a copy of s.
func StringOf(s string) ByteStr { return ByteStr{b: []byte(s)} }

// Len returns the number of bytes in s.
func (s ByteStr) Len() int { return len(s.b) }

// IsEmpty reports whether s has no bytes.
func (s ByteStr) IsEmpty() bool { return len(s.b) == 0 }

// Bytes returns the viewed bytes. The result has its capacity clipped to its
// length, so appending to it always reallocates. It must not be modified.
func (s ByteStr) Bytes() []byte { return s.b[:len(s.b):len(s.b)] }

// At returns the byte at index i.
func (s ByteStr) At(i int) byte { return s.b[i] }

// Slice returns the view of bytes [i, j) of s.
func (s ByteStr) Slice(i, j int) ByteStr { return ByteStr{b: s.b[i:j:j]} }

// String returns a copy of the bytes as a string.
func (s ByteStr) String() string { return string(s.b) }

// Equal reports whether s and t hold the same bytes.
func (s ByteStr) Equal(t ByteStr) bool { return bytes.Equal(s.b, t.b) }

// EqualString reports whether s holds the bytes of t.
func (s ByteStr) EqualString(t string) bool { return string(s.b) == t }

// IndexByte returns the index of the first c in s, or -1.
func (s ByteStr) IndexByte(c byte) int { return bytes.IndexByte(s.b, c) }

// WriteTo writes the bytes of s to w.
func (s ByteStr) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.b)

	return int64(n), err
}

// MarshalText implements [encoding.TextMarshaler].
func (s ByteStr) MarshalText() ([]byte, error) { return s.Bytes(), nil }

// Strings converts a list of ByteStr to strings.
func Strings(list []ByteStr) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.String()
	}

	return out
}
