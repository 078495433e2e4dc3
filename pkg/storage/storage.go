// Package storage persists record snapshots in a pebble database keyed by KSUID.
// Every value is framed with its size, store time and a CRC32 checksum.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/segmentio/ksuid"
)

var (
	// ErrNotFound is returned when no record exists for an id
	ErrNotFound = errors.New("record not found")
	// ErrInvalidRecord is returned when an empty record is stored
	ErrInvalidRecord = errors.New("invalid record: empty data")
)

// Key layout: "rec/" + 20 byte KSUID
var (
	recordPrefix     = []byte("rec/")
	recordUpperBound = []byte("rec0")
)

// StoredRecord is a persisted snapshot of one fixed-width record
type StoredRecord struct {
	ID       ksuid.KSUID
	Data     []byte
	StoredAt time.Time
}

// Width returns the width of the stored record
func (r StoredRecord) Width() int {
	return len(r.Data)
}

// Option configures the underlying pebble database
type Option func(*pebble.Options)

// WithFS makes pebble use fs instead of the OS filesystem
func WithFS(fs vfs.FS) Option {
	return func(o *pebble.Options) {
		o.FS = fs
	}
}

// WithLogger routes pebble's internal logging through logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *pebble.Options) {
		o.Logger = pebbleLogger{logger: logger.With("component", "pebble")}
	}
}

type pebbleLogger struct {
	logger *slog.Logger
}

func (l pebbleLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l pebbleLogger) Fatalf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

// DefaultStorage stores record snapshots in pebble. Ids it issues sort in
// creation order, so scans return records in the order they were stored.
type DefaultStorage struct {
	db *pebble.DB

	mu     sync.Mutex
	lastID ksuid.KSUID
}

// NewDefaultStorage opens (or creates) the database at path
func NewDefaultStorage(path string, opts ...Option) (*DefaultStorage, error) {
	options := &pebble.Options{}
	for _, opt := range opts {
		opt(options)
	}

	db, err := pebble.Open(path, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return &DefaultStorage{db: db}, nil
}

// Create stores a copy of data under a new id
func (s *DefaultStorage) Create(data []byte) (ksuid.KSUID, error) {
	if len(data) == 0 {
		return ksuid.Nil, ErrInvalidRecord
	}
	id := s.nextIDs(1)
	if err := s.db.Set(recordKey(id), encodeValue(data, time.Now()), pebble.Sync); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// CreateBatch stores every entry of data in one atomic batch. The returned
// ids are in the same order as data and sort in that order.
func (s *DefaultStorage) CreateBatch(data [][]byte) ([]ksuid.KSUID, error) {
	if len(data) == 0 {
		return nil, nil
	}
	for _, d := range data {
		if len(d) == 0 {
			return nil, ErrInvalidRecord
		}
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	ids := make([]ksuid.KSUID, len(data))
	id := s.nextIDs(len(data))
	now := time.Now()
	for i, d := range data {
		ids[i] = id
		if err := batch.Set(recordKey(id), encodeValue(d, now), nil); err != nil {
			return nil, err
		}
		id = id.Next()
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, err
	}
	return ids, nil
}

// nextIDs reserves n consecutive ids and returns the first. A fresh KSUID
// has a random payload, so within the same second it may sort before the
// last issued id; the reservation then continues from that id instead.
func (s *DefaultStorage) nextIDs(n int) ksuid.KSUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	first := ksuid.New()
	if !s.lastID.IsNil() {
		if next := s.lastID.Next(); ksuid.Compare(first, next) < 0 {
			first = next
		}
	}
	last := first
	for i := 1; i < n; i++ {
		last = last.Next()
	}
	s.lastID = last
	return first
}

// Read returns the record stored under id
func (s *DefaultStorage) Read(id ksuid.KSUID) (*StoredRecord, error) {
	data, closer, err := s.db.Get(recordKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	rec, err := decodeRecord(id, data)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update replaces the data of an existing record
func (s *DefaultStorage) Update(id ksuid.KSUID, data []byte) error {
	if len(data) == 0 {
		return ErrInvalidRecord
	}
	if err := s.exists(id); err != nil {
		return err
	}
	return s.db.Set(recordKey(id), encodeValue(data, time.Now()), pebble.Sync)
}

// Delete removes the record stored under id
func (s *DefaultStorage) Delete(id ksuid.KSUID) error {
	if err := s.exists(id); err != nil {
		return err
	}
	return s.db.Delete(recordKey(id), pebble.Sync)
}

// exists reports ErrNotFound when no value is stored under id. The value
// itself is not decoded so corrupt records can still be replaced or removed.
func (s *DefaultStorage) exists(id ksuid.KSUID) error {
	_, closer, err := s.db.Get(recordKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return closer.Close()
}

// Scan calls fn for each record in id order until fn returns an error
func (s *DefaultStorage) Scan(fn func(StoredRecord) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: recordPrefix,
		UpperBound: recordUpperBound,
	})
	if err != nil {
		return err
	}

	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(recordPrefix):])
		if err != nil {
			_ = iter.Close()
			return fmt.Errorf("corrupt record key %x: %w", iter.Key(), err)
		}
		rec, err := decodeRecord(id, iter.Value())
		if err != nil {
			_ = iter.Close()
			return err
		}

		if err := fn(rec); err != nil {
			_ = iter.Close()
			return err
		}
	}

	return iter.Close()
}

// errStopScan ends a Scan early without surfacing an error
var errStopScan = errors.New("stop scan")

// List returns up to limit records in id order. A limit <= 0 returns all.
func (s *DefaultStorage) List(limit int) ([]StoredRecord, error) {
	var records []StoredRecord
	err := s.Scan(func(r StoredRecord) error {
		records = append(records, r)
		if limit > 0 && len(records) >= limit {
			return errStopScan
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopScan) {
		return nil, err
	}
	return records, nil
}

// Count returns the number of stored records
func (s *DefaultStorage) Count() (int, error) {
	n := 0
	err := s.Scan(func(StoredRecord) error {
		n++
		return nil
	})
	return n, err
}

// Close closes the database
func (s *DefaultStorage) Close() error {
	return s.db.Close()
}

// decodeRecord copies a stored value out of pebble-owned memory
func decodeRecord(id ksuid.KSUID, value []byte) (StoredRecord, error) {
	data, storedAt, err := decodeValue(value)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("record %s: %w", id, err)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return StoredRecord{ID: id, Data: out, StoredAt: storedAt}, nil
}

func recordKey(id ksuid.KSUID) []byte {
	key := make([]byte, 0, len(recordPrefix)+len(ksuid.Nil))
	key = append(key, recordPrefix...)
	return append(key, id.Bytes()...)
}
