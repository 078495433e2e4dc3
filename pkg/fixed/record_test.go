package fixed

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	t.Run("filled with default pad", func(t *testing.T) {
		rec, err := NewRecord(20)
		require.NoError(t, err)
		assert.Equal(t, 20, rec.Width())
		assert.Equal(t, DefaultPad, rec.Pad())
		assert.Equal(t, bytes.Repeat([]byte{' '}, 20), rec.Bytes())
	})

	t.Run("filled with custom pad", func(t *testing.T) {
		for _, width := range []int{1, 2, 7, 64, 4096} {
			rec, err := NewRecordPad(width, '0')
			require.NoError(t, err)
			assert.Equal(t, bytes.Repeat([]byte{'0'}, width), rec.Bytes())
		}
	})

	t.Run("non-positive width", func(t *testing.T) {
		for _, width := range []int{0, -1, -100} {
			rec, err := NewRecord(width)
			assert.Nil(t, rec)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		}
	})
}

func TestRecord_Reset(t *testing.T) {
	rec, err := NewRecordPad(10, '.')
	require.NoError(t, err)
	require.NoError(t, rec.SetString("0123456789", 0, 10))

	require.NoError(t, rec.Reset(2, 5))
	assert.Equal(t, "01...56789", rec.String())

	require.NoError(t, rec.Reset(4, 4))
	assert.Equal(t, "01...56789", rec.String())

	rec.ResetAll()
	assert.Equal(t, "..........", rec.String())

	testCases := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 3},
		{"end past width", 0, 11},
		{"start after end", 6, 5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := rec.Reset(tc.start, tc.end)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestRecord_SetString(t *testing.T) {
	testCases := []struct {
		name   string
		text   string
		start  int
		length int
		fill   byte
		want   string
	}{
		{"exact fit", "A0001", 0, 5, ' ', "A0001     "},
		{"short text padded", "GON", 5, 5, ' ', "     GON  "},
		{"long text truncated", "PETER PAN III", 2, 6, ' ', "  PETER   "},
		{"custom fill", "7", 0, 4, '*', "7***      "},
		{"empty text fills range", "", 3, 4, '-', "   ----   "},
		{"zero length is a no-op", "ignored", 4, 0, ' ', "          "},
		{"whole record", "abcdefghij", 0, 10, ' ', "abcdefghij"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := NewRecord(10)
			require.NoError(t, err)

			require.NoError(t, rec.SetStringFill(tc.text, tc.start, tc.length, tc.fill))
			assert.Equal(t, tc.want, rec.String())
		})
	}
}

func TestRecord_SetGetRoundTrip(t *testing.T) {
	rec, err := NewRecord(20)
	require.NoError(t, err)

	for start := 0; start < rec.Width(); start++ {
		for length := 0; start+length <= rec.Width(); length++ {
			text := "XY"
			require.NoError(t, rec.SetString(text, start, length))

			got, err := rec.Text(start, length)
			require.NoError(t, err)

			want := make([]byte, length)
			n := copy(want, text)
			fill(want[n:], rec.Pad())
			assert.Equal(t, string(want), got, "start=%d length=%d", start, length)
		}
	}
}

func TestRecord_SetBytes(t *testing.T) {
	rec, err := NewRecordPad(8, 0x00)
	require.NoError(t, err)

	require.NoError(t, rec.SetBytes([]byte{0xFF, 0xFE}, 1, 4))
	assert.Equal(t, []byte{0x00, 0xFF, 0xFE, 0x00, 0x00, 0x00, 0x00, 0x00}, rec.Bytes())

	require.NoError(t, rec.SetBytesFill([]byte{1, 2, 3, 4, 5}, 5, 3, 9))
	assert.Equal(t, []byte{0x00, 0xFF, 0xFE, 0x00, 0x00, 1, 2, 3}, rec.Bytes())

	require.NoError(t, rec.SetBytesFill(nil, 0, 3, 7))
	assert.Equal(t, []byte{7, 7, 7, 0x00, 0x00, 1, 2, 3}, rec.Bytes())

	assert.ErrorIs(t, rec.SetBytes([]byte("x"), 6, 3), ErrOutOfRange)
	assert.ErrorIs(t, rec.SetBytes([]byte("x"), -1, 1), ErrOutOfRange)
	assert.ErrorIs(t, rec.SetBytes([]byte("x"), 0, -1), ErrOutOfRange)
}

func TestRecord_OutOfRangeLeavesContent(t *testing.T) {
	rec, err := NewRecord(5)
	require.NoError(t, err)
	require.NoError(t, rec.SetString("hello", 0, 5))

	err = rec.SetString("world", 3, 5)
	require.Error(t, err)

	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 3, rangeErr.Start)
	assert.Equal(t, 5, rangeErr.Length)
	assert.Equal(t, 5, rangeErr.Width)
	assert.Equal(t, "hello", rec.String())
}

func TestRecord_SingleByteAccess(t *testing.T) {
	rec, err := NewRecord(4)
	require.NoError(t, err)

	require.NoError(t, rec.SetByte('a', 0))
	require.NoError(t, rec.SetChar('z', 3))

	b, err := rec.Byte(0)
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)

	b, err = rec.Byte(3)
	require.NoError(t, err)
	assert.Equal(t, byte('z'), b)

	for _, index := range []int{-1, 4, 100} {
		assert.ErrorIs(t, rec.SetByte('x', index), ErrOutOfRange)
		assert.ErrorIs(t, rec.SetChar('x', index), ErrOutOfRange)
		_, err := rec.Byte(index)
		assert.ErrorIs(t, err, ErrOutOfRange)
	}
	assert.Equal(t, "a  z", rec.String())
}

func TestRecord_Text(t *testing.T) {
	rec, err := NewRecord(20)
	require.NoError(t, err)
	require.NoError(t, rec.Load([]byte("A0001GON   YI     41")))

	testCases := []struct {
		start, length int
		want          string
	}{
		{0, 5, "A0001"},
		{5, 6, "GON   "},
		{11, 7, "YI     "},
		{18, 2, "41"},
		{20, 0, ""},
	}
	for _, tc := range testCases {
		got, err := rec.Text(tc.start, tc.length)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err = rec.Text(18, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = rec.Text(-1, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestRecord_BytesIsSnapshot(t *testing.T) {
	rec, err := NewRecord(3)
	require.NoError(t, err)
	require.NoError(t, rec.SetString("abc", 0, 3))

	snapshot := rec.Bytes()
	require.NoError(t, rec.SetString("xyz", 0, 3))

	assert.Equal(t, []byte("abc"), snapshot)
	assert.Equal(t, "xyz", rec.String())

	snapshot[0] = 'Q'
	assert.Equal(t, "xyz", rec.String())
}

func TestRecord_Load(t *testing.T) {
	rec, err := NewRecord(4)
	require.NoError(t, err)

	require.NoError(t, rec.Load([]byte("abcd")))
	assert.Equal(t, "abcd", rec.String())

	assert.ErrorIs(t, rec.Load([]byte("abc")), ErrInvalidArgument)
	assert.ErrorIs(t, rec.Load([]byte("abcde")), ErrInvalidArgument)
	assert.Equal(t, "abcd", rec.String())
}

func TestRecord_Copy(t *testing.T) {
	t.Run("equal widths", func(t *testing.T) {
		src, err := NewRecord(6)
		require.NoError(t, err)
		require.NoError(t, src.SetString("source", 0, 6))

		dst, err := NewRecordPad(6, '#')
		require.NoError(t, err)

		assert.True(t, src.CopyTo(dst))
		assert.Equal(t, src.Bytes(), dst.Bytes())

		other, err := NewRecord(6)
		require.NoError(t, err)
		assert.True(t, other.CopyFrom(dst))
		assert.Equal(t, "source", other.String())
	})

	t.Run("different widths", func(t *testing.T) {
		a, err := NewRecord(4)
		require.NoError(t, err)
		require.NoError(t, a.SetString("aaaa", 0, 4))

		b, err := NewRecord(5)
		require.NoError(t, err)
		require.NoError(t, b.SetString("bbbbb", 0, 5))

		assert.False(t, a.CopyTo(b))
		assert.False(t, a.CopyFrom(b))
		assert.False(t, b.CopyTo(a))
		assert.False(t, b.CopyFrom(a))

		assert.Equal(t, "aaaa", a.String())
		assert.Equal(t, "bbbbb", b.String())
	})

	t.Run("nil record", func(t *testing.T) {
		a, err := NewRecord(4)
		require.NoError(t, err)

		assert.False(t, a.CopyTo(nil))
		assert.False(t, a.CopyFrom(nil))
	})
}
