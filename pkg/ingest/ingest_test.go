package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/gonap/gava/pkg/fixed"
	"github.com/gonap/gava/pkg/logging"
	"github.com/gonap/gava/pkg/metrics"
	"github.com/gonap/gava/pkg/storage"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roster = "A0001GON   YI     41" +
	"A0002JOHN  DOE    42" +
	"A0003PETER PAN III43" +
	"A0004WENDY DARLING44" +
	"A0005HOOK"

func newTestStorage(t *testing.T) *storage.DefaultStorage {
	t.Helper()
	s, err := storage.NewDefaultStorage("ingest", storage.WithFS(vfs.NewMem()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// countingStore records the batch sizes it was handed
type countingStore struct {
	batches []int
	failOn  int
}

func (c *countingStore) CreateBatch(data [][]byte) ([]ksuid.KSUID, error) {
	if c.failOn > 0 && len(c.batches)+1 == c.failOn {
		return nil, errors.New("disk full")
	}
	c.batches = append(c.batches, len(data))
	ids := make([]ksuid.KSUID, len(data))
	for i := range ids {
		ids[i] = ksuid.New()
	}
	return ids, nil
}

func TestIngest(t *testing.T) {
	store := newTestStorage(t)
	m := metrics.New()
	ing := New(store, WithBatchSize(2), WithMetrics(m), WithLogger(logging.Discard()))

	res, err := ing.Ingest(context.Background(), strings.NewReader(roster), 20)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Records)
	assert.Equal(t, 9, res.TrailingBytes)
	require.Len(t, res.IDs, 4)

	stored, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, "A0001GON   YI     41", string(stored[0].Data))
	assert.Equal(t, "A0004WENDY DARLING44", string(stored[3].Data))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, w.Body.String(), "fixrec_records_ingested_total 4")
	assert.Contains(t, w.Body.String(), "fixrec_trailing_bytes_dropped_total 9")
}

func TestIngest_PreservesOrderAcrossBatches(t *testing.T) {
	store := newTestStorage(t)
	ing := New(store, WithBatchSize(2), WithLogger(logging.Discard()))

	var input strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&input, "%05d", i)
	}

	res, err := ing.Ingest(context.Background(), strings.NewReader(input.String()), 5)
	require.NoError(t, err)
	require.Equal(t, 200, res.Records)

	var scanned strings.Builder
	require.NoError(t, store.Scan(func(rec storage.StoredRecord) error {
		scanned.Write(rec.Data)
		return nil
	}))
	assert.Equal(t, input.String(), scanned.String())
	assert.True(t, ksuid.IsSorted(res.IDs))
}

func TestIngest_Batching(t *testing.T) {
	testCases := []struct {
		name      string
		batchSize int
		want      []int
	}{
		{"batch of one", 1, []int{1, 1, 1, 1}},
		{"uneven batches", 3, []int{3, 1}},
		{"single batch", 10, []int{4}},
		{"non-positive falls back to default", 0, []int{4}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &countingStore{}
			ing := New(store, WithBatchSize(tc.batchSize), WithLogger(logging.Discard()))

			res, err := ing.Ingest(context.Background(), strings.NewReader(roster), 20)
			require.NoError(t, err)
			assert.Equal(t, 4, res.Records)
			assert.Equal(t, tc.want, store.batches)
		})
	}
}

func TestIngest_FragmentedSource(t *testing.T) {
	store := newTestStorage(t)
	ing := New(store, WithBufferSize(64), WithLogger(logging.Discard()))

	res, err := ing.Ingest(context.Background(), iotest.OneByteReader(strings.NewReader(roster)), 20)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Records)
	assert.Equal(t, 9, res.TrailingBytes)
}

func TestIngest_EmptyStream(t *testing.T) {
	store := &countingStore{}
	ing := New(store, WithLogger(logging.Discard()))

	res, err := ing.Ingest(context.Background(), strings.NewReader(""), 20)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Records)
	assert.Equal(t, 0, res.TrailingBytes)
	assert.Empty(t, store.batches)
}

func TestIngest_InvalidWidth(t *testing.T) {
	ing := New(&countingStore{}, WithLogger(logging.Discard()))

	_, err := ing.Ingest(context.Background(), strings.NewReader(roster), 0)
	assert.ErrorIs(t, err, fixed.ErrInvalidArgument)
}

func TestIngest_StoreFailure(t *testing.T) {
	m := metrics.New()
	store := &countingStore{failOn: 2}
	ing := New(store, WithBatchSize(2), WithMetrics(m), WithLogger(logging.Discard()))

	res, err := ing.Ingest(context.Background(), strings.NewReader(roster), 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, w.Body.String(), `fixrec_ingests_total{status="error"} 1`)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, 0, res.TrailingBytes)
}

func TestIngest_ReadError(t *testing.T) {
	boom := errors.New("connection reset")
	src := iotest.ErrReader(boom)
	ing := New(&countingStore{}, WithLogger(logging.Discard()))

	_, err := ing.Ingest(context.Background(), src, 20)
	assert.ErrorIs(t, err, boom)
}

func TestIngest_Cancelled(t *testing.T) {
	store := &countingStore{}
	ing := New(store, WithLogger(logging.Discard()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := ing.Ingest(ctx, strings.NewReader(roster), 20)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Records)
	assert.Empty(t, store.batches)
}

func TestIngestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.dat")
	require.NoError(t, os.WriteFile(path, []byte(roster), 0600))

	store := &countingStore{}
	ing := New(store, WithLogger(logging.Discard()))

	res, err := ing.IngestFile(context.Background(), path, 20)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Records)

	_, err = ing.IngestFile(context.Background(), filepath.Join(t.TempDir(), "missing.dat"), 20)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
