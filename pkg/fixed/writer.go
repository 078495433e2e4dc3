package fixed

import (
	"bufio"
	"io"
)

// Writer appends fixed-width records to an underlying writer with no
// delimiters, producing streams that Reader consumes.
type Writer struct {
	w     *bufio.Writer
	width int
	pad   byte
	line  []byte
	count int
}

// NewWriter returns a buffered Writer for records of the given width. Call
// Flush when done.
func NewWriter(w io.Writer, width int) (*Writer, error) {
	return NewWriterPad(w, width, DefaultPad)
}

// NewWriterPad is NewWriter with the pad byte used by WriteBytes.
func NewWriterPad(w io.Writer, width int, pad byte) (*Writer, error) {
	if w == nil {
		return nil, invalidArgument("nil destination")
	}
	if width <= 0 {
		return nil, invalidArgument("record width must be > 0, got %d", width)
	}
	return &Writer{
		w:     bufio.NewWriter(w),
		width: width,
		pad:   pad,
		line:  make([]byte, width),
	}, nil
}

// Write appends rec, whose width must match the writer's.
func (w *Writer) Write(rec *Record) error {
	if rec == nil {
		return invalidArgument("nil record")
	}
	if rec.Width() != w.width {
		return invalidArgument("record width %d does not match writer width %d", rec.Width(), w.width)
	}
	if _, err := w.w.Write(rec.data); err != nil {
		return err
	}
	w.count++
	return nil
}

// WriteBytes appends b as one record, padding short input with the pad byte
// and truncating long input.
func (w *Writer) WriteBytes(b []byte) error {
	n := copy(w.line, b)
	fill(w.line[n:], w.pad)
	if _, err := w.w.Write(w.line); err != nil {
		return err
	}
	w.count++
	return nil
}

// Flush writes any buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Width returns the record width of the writer.
func (w *Writer) Width() int {
	return w.width
}
