// Package fixed reads, writes and manipulates fixed-width records.
//
// A fixed-width stream is a sequence of records of one predeclared width,
// concatenated with no delimiters:
//
//	[record 0 (width bytes)][record 1 (width bytes)]...[trailing partial?]
//
// Text inside a record is treated as single-byte (ASCII range) data. Multi-byte
// encodings are not validated.
//
// # Records
//
// A Record owns exactly Width() bytes for its whole lifetime. Every accessor is
// bounds-checked against [0, Width()) and fails with an error wrapping
// ErrOutOfRange instead of panicking:
//
//	rec, _ := fixed.NewRecord(20)
//	_ = rec.SetString("A0001", 0, 5)
//	_ = rec.SetString("GON", 5, 6) // "GON   "
//	id, _ := rec.Text(0, 5)
//
// # Streaming
//
// ReadRecords extracts consecutive records from any io.Reader using a single
// scratch buffer and a single reusable Record:
//
//	n, err := fixed.ReadRecords(f, 20, func(rec *fixed.Record) error {
//	    name, _ := rec.Text(5, 6)
//	    fmt.Println(name)
//	    return nil
//	})
//
// The Record handed to the callback is overwritten by the next record. A
// callback that needs the content later must take a copy with Record.Bytes.
//
// Before each record the reader compacts unconsumed bytes to the front of the
// scratch buffer and refills it from the source until a full record is
// available. Sources that deliver data in arbitrarily small chunks are
// therefore supported. When the source ends with fewer than width bytes left,
// those bytes are dropped silently; the count is available from
// Reader.Trailing.
//
// # Errors
//
//   - ErrInvalidArgument: nil source or callback, width <= 0, scratch buffer
//     smaller than width. Reported before any I/O takes place.
//   - ErrOutOfRange: a Record accessor addressed bytes outside the record.
//   - Read errors from the source are returned unchanged and never retried.
//
// # Thread Safety
//
// Records, Readers and Writers are not safe for concurrent use.
package fixed
