// Package ingest streams fixed-width records from a source into the record
// store, committing them in batches.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gonap/gava/pkg/fixed"
	"github.com/gonap/gava/pkg/logging"
	"github.com/gonap/gava/pkg/metrics"
	"github.com/segmentio/ksuid"
)

// DefaultBatchSize is used when no positive batch size is configured
const DefaultBatchSize = 1000

// Store is the subset of the record store the ingester writes to
type Store interface {
	CreateBatch(data [][]byte) ([]ksuid.KSUID, error)
}

// Result describes one ingested stream
type Result struct {
	Records       int           `json:"records"`
	TrailingBytes int           `json:"trailing_bytes"`
	IDs           []ksuid.KSUID `json:"ids"`
}

// Option configures an Ingester
type Option func(*Ingester)

// WithBufferSize sets the reader's scratch buffer size. Sizes smaller than the
// record width fall back to a single-record buffer.
func WithBufferSize(n int) Option {
	return func(i *Ingester) {
		i.bufferSize = n
	}
}

// WithBatchSize sets how many records are committed per store batch
func WithBatchSize(n int) Option {
	return func(i *Ingester) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

// WithPad sets the pad byte of the records read from the stream
func WithPad(pad byte) Option {
	return func(i *Ingester) {
		i.pad = pad
	}
}

// WithMetrics reports ingest outcomes to m
func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Ingester) {
		i.metrics = m
	}
}

// WithLogger sets the logger used for ingest summaries
func WithLogger(l *slog.Logger) Option {
	return func(i *Ingester) {
		i.logger = l
	}
}

// Ingester reads fixed-width streams and stores each record
type Ingester struct {
	store      Store
	metrics    *metrics.Metrics
	logger     *slog.Logger
	bufferSize int
	batchSize  int
	pad        byte
}

// New creates an Ingester writing to store
func New(store Store, opts ...Option) *Ingester {
	i := &Ingester{
		store:     store,
		batchSize: DefaultBatchSize,
		pad:       fixed.DefaultPad,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = logging.OrDefault(i.logger)
	return i
}

// Ingest stores every complete record of the given width read from src. A
// trailing partial record is dropped and reported in the result. On error the
// result still describes the batches committed before the failure.
func (i *Ingester) Ingest(ctx context.Context, src io.Reader, width int) (*Result, error) {
	start := time.Now()
	res := &Result{}

	err := i.ingest(ctx, src, width, res)

	duration := time.Since(start)
	if i.metrics != nil {
		i.metrics.RecordIngest(res.Records, res.TrailingBytes, err == nil, duration)
	}

	if err != nil {
		i.logger.Error("ingest failed",
			"width", width,
			"records", res.Records,
			"error", err)
		return res, err
	}

	i.logger.Info("ingest complete",
		"width", width,
		"records", res.Records,
		"trailing_bytes", res.TrailingBytes,
		"duration", duration)
	return res, nil
}

// IngestFile opens path and ingests its contents
func (i *Ingester) IngestFile(ctx context.Context, path string, width int) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return i.Ingest(ctx, f, width)
}

func (i *Ingester) ingest(ctx context.Context, src io.Reader, width int, res *Result) error {
	opts := []fixed.ReaderOption{fixed.WithPad(i.pad)}
	if width > 0 && i.bufferSize >= width {
		opts = append(opts, fixed.WithBuffer(make([]byte, i.bufferSize)))
	}

	r, err := fixed.NewReader(src, width, opts...)
	if err != nil {
		return err
	}

	batch := make([][]byte, 0, i.batchSize)
	commit := func() error {
		if len(batch) == 0 {
			return nil
		}
		ids, err := i.store.CreateBatch(batch)
		if err != nil {
			return fmt.Errorf("failed to store batch of %d records: %w", len(batch), err)
		}
		res.IDs = append(res.IDs, ids...)
		res.Records += len(ids)
		i.logger.Debug("committed batch", "records", len(ids))
		batch = batch[:0]
		return nil
	}

	_, err = r.Each(func(rec *fixed.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch = append(batch, rec.Bytes())
		if len(batch) >= i.batchSize {
			return commit()
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := commit(); err != nil {
		return err
	}
	res.TrailingBytes = r.Trailing()
	return nil
}
