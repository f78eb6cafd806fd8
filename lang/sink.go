package lang

import "io"

// RowBuffer is a sink that records each call to Write as one row.
//
// [Exec.WriteRow] and [AST.Evaluate] write each row with a single call, so
// a RowBuffer collects rows without copying them into separate slices.
type RowBuffer struct {
	buf  []byte
	ends []int
}

func (b *RowBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	b.ends = append(b.ends, len(b.buf))

	return len(p), nil
}

// Len returns the number of rows written.
func (b *RowBuffer) Len() int { return len(b.ends) }

// Row returns row i. It remains valid until Reset.
func (b *RowBuffer) Row(i int) ByteStr {
	start := 0
	if i > 0 {
		start = b.ends[i-1]
	}

	return BytesOf(b.buf[start:b.ends[i]:b.ends[i]])
}

// Rows returns every row written.
func (b *RowBuffer) Rows() []ByteStr {
	rows := make([]ByteStr, len(b.ends))
	for i := range rows {
		rows[i] = b.Row(i)
	}

	return rows
}

// Reset discards all rows.
func (b *RowBuffer) Reset() {
	b.buf = b.buf[:0]
	b.ends = b.ends[:0]
}

// Delimited returns a sink that terminates every row written to w with
// delim. Each row and its delimiter reach w in one call to Write.
func Delimited(w io.Writer, delim byte) io.Writer {
	return &delimited{w: w, delim: delim}
}

type delimited struct {
	w     io.Writer
	delim byte
	buf   []byte
}

// Write reports the bytes of p written, not counting the delimiter.
func (d *delimited) Write(p []byte) (int, error) {
	d.buf = append(append(d.buf[:0], p...), d.delim)

	n, err := d.w.Write(d.buf)
	if err == nil && n < len(d.buf) {
		err = io.ErrShortWrite
	}

	return min(n, len(p)), err
}
