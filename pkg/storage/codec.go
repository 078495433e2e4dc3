package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"time"
)

// ErrCorrupt is returned when a stored value fails its integrity check
var ErrCorrupt = errors.New("corrupt record value")

// Value format: [CRC32(4)][Size(4)][Timestamp(8)][Data]
const valueHeaderSize = 16

// encodeValue frames data with its size, the store time and a checksum
func encodeValue(data []byte, storedAt time.Time) []byte {
	buf := make([]byte, valueHeaderSize+len(data))
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(data)))
	binary.LittleEndian.PutUint64(buf[8:], uint64(storedAt.UnixNano()))
	copy(buf[valueHeaderSize:], data)
	binary.LittleEndian.PutUint32(buf[0:], crc32.ChecksumIEEE(buf[4:]))
	return buf
}

// decodeValue validates a framed value. The returned data aliases b.
func decodeValue(b []byte) ([]byte, time.Time, error) {
	if len(b) < valueHeaderSize {
		return nil, time.Time{}, fmt.Errorf("%w: %d bytes is too short for the header", ErrCorrupt, len(b))
	}

	size := binary.LittleEndian.Uint32(b[4:8])
	if uint64(len(b)-valueHeaderSize) != uint64(size) {
		return nil, time.Time{}, fmt.Errorf("%w: size %d does not match %d data bytes", ErrCorrupt, size, len(b)-valueHeaderSize)
	}

	want := binary.LittleEndian.Uint32(b[0:4])
	if got := crc32.ChecksumIEEE(b[4:]); got != want {
		return nil, time.Time{}, fmt.Errorf("%w: CRC32 mismatch: %d != %d", ErrCorrupt, got, want)
	}

	ts := int64(binary.LittleEndian.Uint64(b[8:16]))
	return b[valueHeaderSize:], time.Unix(0, ts), nil
}
