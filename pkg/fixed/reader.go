package fixed

import (
	"errors"
	"io"
	"os"
)

// maxConsecutiveEmptyReads matches bufio's tolerance for sources that return
// no data and no error.
const maxConsecutiveEmptyReads = 100

var errInvalidRead = errors.New("fixed: source returned invalid count from Read")

// ReaderOption configures a Reader.
type ReaderOption func(*readerOptions)

type readerOptions struct {
	buf    []byte
	bufSet bool
	pad    byte
}

// WithBuffer makes the reader use buf as its scratch buffer instead of
// allocating one of exactly the record width. A larger buffer means fewer
// calls to the source. buf must hold at least one record.
func WithBuffer(buf []byte) ReaderOption {
	return func(o *readerOptions) {
		o.buf = buf
		o.bufSet = true
	}
}

// WithPad sets the pad byte of the Record handed out by the reader.
func WithPad(pad byte) ReaderOption {
	return func(o *readerOptions) {
		o.pad = pad
	}
}

// Reader extracts consecutive fixed-width records from a byte stream.
//
// Next advances to the next complete record; Record returns it. The same
// Record is reused for every call to Next.
type Reader struct {
	src   io.Reader
	width int
	buf   []byte
	pos   int // first unconsumed byte in buf
	end   int // one past the last byte received from src
	rec   *Record
	count int
	eof   bool
	done  bool
	err   error
}

// NewReader returns a Reader over src producing records of the given width.
func NewReader(src io.Reader, width int, opts ...ReaderOption) (*Reader, error) {
	if src == nil {
		return nil, invalidArgument("nil source")
	}
	if width <= 0 {
		return nil, invalidArgument("record width must be > 0, got %d", width)
	}

	o := readerOptions{pad: DefaultPad}
	for _, opt := range opts {
		opt(&o)
	}

	buf := o.buf
	if !o.bufSet {
		buf = make([]byte, width)
	}
	if buf == nil {
		return nil, invalidArgument("nil scratch buffer")
	}
	if len(buf) < width {
		return nil, invalidArgument("scratch buffer of %d bytes is smaller than record width %d", len(buf), width)
	}

	rec, err := NewRecordPad(width, o.pad)
	if err != nil {
		return nil, err
	}

	return &Reader{
		src:   src,
		width: width,
		buf:   buf,
		rec:   rec,
	}, nil
}

// Next loads the next complete record. It returns false at the end of the
// stream or on a read error; Err tells the two apart.
func (r *Reader) Next() bool {
	if r.done {
		return false
	}
	if err := r.fill(); err != nil {
		r.done = true
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	copy(r.rec.data, r.buf[r.pos:r.pos+r.width])
	r.pos += r.width
	r.count++
	return true
}

// Record returns the current record. It is overwritten by the next call to Next.
func (r *Reader) Record() *Record {
	return r.rec
}

// Err returns the first read error. The end of the stream is not an error.
func (r *Reader) Err() error {
	return r.err
}

// Count returns the number of complete records produced so far.
func (r *Reader) Count() int {
	return r.count
}

// Trailing returns how many bytes were left over when the stream ended in the
// middle of a record. Those bytes are discarded.
func (r *Reader) Trailing() int {
	if !r.done || r.err != nil {
		return 0
	}
	return r.end - r.pos
}

// Each calls fn for every remaining record and returns how many calls
// succeeded. A non-nil error from fn stops the loop and is returned as is.
func (r *Reader) Each(fn func(*Record) error) (int, error) {
	if fn == nil {
		return 0, invalidArgument("nil record callback")
	}
	n := 0
	for r.Next() {
		if err := fn(r.rec); err != nil {
			return n, err
		}
		n++
	}
	return n, r.err
}

// fill makes sure at least one full record is buffered, compacting the
// unconsumed tail to the front of the buffer first. It returns io.EOF once the
// source is exhausted and less than a record remains.
func (r *Reader) fill() error {
	if r.end-r.pos < r.width && r.pos > 0 {
		n := copy(r.buf, r.buf[r.pos:r.end])
		r.pos, r.end = 0, n
	}

	empty := 0
	for r.end-r.pos < r.width {
		if r.eof {
			return io.EOF
		}
		n, err := r.src.Read(r.buf[r.end:])
		if n < 0 || n > len(r.buf)-r.end {
			return errInvalidRead
		}
		r.end += n

		switch {
		case err == io.EOF:
			r.eof = true
		case err != nil:
			return err
		case n == 0:
			empty++
			if empty >= maxConsecutiveEmptyReads {
				return io.ErrNoProgress
			}
		default:
			empty = 0
		}
	}
	return nil
}

// ReadRecords streams records of the given width from src into fn using a
// scratch buffer of exactly one record. It returns the number of records fn
// accepted. A trailing partial record is dropped without error.
func ReadRecords(src io.Reader, width int, fn func(*Record) error) (int, error) {
	return readRecords(src, width, fn)
}

// ReadRecordsBuffer is ReadRecords with a caller supplied scratch buffer.
func ReadRecordsBuffer(src io.Reader, width int, fn func(*Record) error, buf []byte) (int, error) {
	return readRecords(src, width, fn, WithBuffer(buf))
}

// ReadFile opens path and streams its records into fn. The file is closed on
// every return path, including when fn fails.
func ReadFile(path string, width int, fn func(*Record) error, opts ...ReaderOption) (n int, err error) {
	if fn == nil {
		return 0, invalidArgument("nil record callback")
	}
	if width <= 0 {
		return 0, invalidArgument("record width must be > 0, got %d", width)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return readRecords(f, width, fn, opts...)
}

func readRecords(src io.Reader, width int, fn func(*Record) error, opts ...ReaderOption) (int, error) {
	if fn == nil {
		return 0, invalidArgument("nil record callback")
	}
	r, err := NewReader(src, width, opts...)
	if err != nil {
		return 0, err
	}
	return r.Each(fn)
}
