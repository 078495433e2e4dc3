package fixed

// DefaultPad is the pad byte used when none is given.
const DefaultPad byte = ' '

// Record is a fixed-width slot of raw bytes. It is mutated in place and is
// meant to be reused; use Bytes to keep a copy of its content.
type Record struct {
	pad  byte
	data []byte
}

// NewRecord creates a record of the given width filled with DefaultPad.
func NewRecord(width int) (*Record, error) {
	return NewRecordPad(width, DefaultPad)
}

// NewRecordPad creates a record of the given width filled with pad.
func NewRecordPad(width int, pad byte) (*Record, error) {
	if width <= 0 {
		return nil, invalidArgument("record width must be > 0, got %d", width)
	}
	r := &Record{
		pad:  pad,
		data: make([]byte, width),
	}
	r.ResetAll()
	return r, nil
}

// Width returns the fixed number of bytes held by the record.
func (r *Record) Width() int {
	return len(r.data)
}

// Pad returns the record's default fill byte.
func (r *Record) Pad() byte {
	return r.pad
}

// Reset fills [start, end) with the pad byte.
func (r *Record) Reset(start, end int) error {
	if err := r.checkRange(start, end-start); err != nil {
		return err
	}
	fill(r.data[start:end], r.pad)
	return nil
}

// ResetAll fills the whole record with the pad byte.
func (r *Record) ResetAll() {
	fill(r.data, r.pad)
}

// SetString writes s into [start, start+length), padding with the record's pad
// byte when s is shorter and truncating when it is longer.
func (r *Record) SetString(s string, start, length int) error {
	return r.SetStringFill(s, start, length, r.pad)
}

// SetStringFill is SetString with an explicit fill byte.
func (r *Record) SetStringFill(s string, start, length int, fillByte byte) error {
	if err := r.checkRange(start, length); err != nil {
		return err
	}
	field := r.data[start : start+length]
	n := copy(field, s)
	fill(field[n:], fillByte)
	return nil
}

// SetBytes writes b into [start, start+length) with the same padding and
// truncation rules as SetString.
func (r *Record) SetBytes(b []byte, start, length int) error {
	return r.SetBytesFill(b, start, length, r.pad)
}

// SetBytesFill is SetBytes with an explicit fill byte.
func (r *Record) SetBytesFill(b []byte, start, length int, fillByte byte) error {
	if err := r.checkRange(start, length); err != nil {
		return err
	}
	field := r.data[start : start+length]
	n := copy(field, b)
	fill(field[n:], fillByte)
	return nil
}

// SetByte writes a single byte at index.
func (r *Record) SetByte(b byte, index int) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}
	r.data[index] = b
	return nil
}

// SetChar writes c at index. Only the low byte of c is stored.
func (r *Record) SetChar(c rune, index int) error {
	return r.SetByte(byte(c), index)
}

// Text decodes [start, start+length) as single-byte text.
func (r *Record) Text(start, length int) (string, error) {
	if err := r.checkRange(start, length); err != nil {
		return "", err
	}
	return string(r.data[start : start+length]), nil
}

// Byte returns the raw byte at index.
func (r *Record) Byte(index int) (byte, error) {
	if err := r.checkIndex(index); err != nil {
		return 0, err
	}
	return r.data[index], nil
}

// Bytes returns a copy of the record content. The copy is not affected by
// later writes to the record.
func (r *Record) Bytes() []byte {
	out := make([]byte, len(r.data))
	copy(out, r.data)
	return out
}

// Load replaces the record content with b, which must be exactly Width() bytes.
func (r *Record) Load(b []byte) error {
	if len(b) != len(r.data) {
		return invalidArgument("expected %d bytes, got %d", len(r.data), len(b))
	}
	copy(r.data, b)
	return nil
}

// CopyTo copies the content of r into dst. It returns false and changes
// nothing when dst is nil or its width differs.
func (r *Record) CopyTo(dst *Record) bool {
	if dst == nil || len(dst.data) != len(r.data) {
		return false
	}
	copy(dst.data, r.data)
	return true
}

// CopyFrom copies the content of src into r. It returns false and changes
// nothing when src is nil or its width differs.
func (r *Record) CopyFrom(src *Record) bool {
	if src == nil {
		return false
	}
	return src.CopyTo(r)
}

func (r *Record) String() string {
	return string(r.data)
}

func (r *Record) checkRange(start, length int) error {
	if start < 0 || length < 0 || length > len(r.data)-start {
		return &RangeError{Start: start, Length: length, Width: len(r.data)}
	}
	return nil
}

func (r *Record) checkIndex(index int) error {
	if index < 0 || index >= len(r.data) {
		return &RangeError{Start: index, Length: 1, Width: len(r.data)}
	}
	return nil
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
