package fixed

import (
	"bytes"
	"testing"
	"testing/iotest"
)

// FuzzReadRecords checks that any input splits into len/width records plus a
// dropped remainder, regardless of how the source fragments its reads.
func FuzzReadRecords(f *testing.F) {
	f.Add([]byte("A0001GON   YI     41A0002JOHN  DOE    42"), 20, 20)
	f.Add([]byte("hello world"), 5, 5)
	f.Add([]byte{}, 3, 8)
	f.Add([]byte{0x00, 0xFF, 0x10}, 1, 1)

	f.Fuzz(func(t *testing.T, data []byte, width, bufSize int) {
		if width <= 0 || width > 512 {
			t.Skip()
		}
		if bufSize < width {
			bufSize = width
		}
		if bufSize > 4096 {
			bufSize = 4096
		}

		var got bytes.Buffer
		r, err := NewReader(iotest.HalfReader(bytes.NewReader(data)), width, WithBuffer(make([]byte, bufSize)))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		n, err := r.Each(func(rec *Record) error {
			got.Write(rec.Bytes())
			return nil
		})
		if err != nil {
			t.Fatalf("Each failed: %v", err)
		}

		want := len(data) / width
		if n != want {
			t.Errorf("record count mismatch: got %d, want %d", n, want)
		}
		if r.Trailing() != len(data)%width {
			t.Errorf("trailing mismatch: got %d, want %d", r.Trailing(), len(data)%width)
		}
		if !bytes.Equal(got.Bytes(), data[:want*width]) {
			t.Errorf("content mismatch")
		}
	})
}
