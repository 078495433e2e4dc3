package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gonap/gava/pkg/fixed"
	"github.com/gonap/gava/pkg/ingest"
	"github.com/gonap/gava/pkg/logging"
	"github.com/gonap/gava/pkg/metrics"
	"github.com/gonap/gava/pkg/storage"
	"github.com/segmentio/ksuid"
)

// Server holds the API server state
type Server struct {
	store    RecordStore
	ingester *ingest.Ingester
	config   ServerConfig
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewServer creates a new API server
func NewServer(store RecordStore, config ServerConfig, m *metrics.Metrics, logger *slog.Logger) *Server {
	logger = logging.OrDefault(logger)
	if m == nil {
		m = metrics.New()
	}
	return &Server{
		store: store,
		ingester: ingest.New(store,
			ingest.WithBufferSize(config.BufferSize),
			ingest.WithBatchSize(config.BatchSize),
			ingest.WithPad(config.Pad),
			ingest.WithMetrics(m),
			ingest.WithLogger(logger),
		),
		config:  config,
		metrics: m,
		logger:  logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count()
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to count records: %v", err), http.StatusServiceUnavailable)
		return
	}
	sendSuccess(w, map[string]interface{}{
		"status":  "healthy",
		"records": count,
	})
}

// handleIngest streams the request body through the fixed-width reader
// and stores every complete record.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	width := s.config.Width
	if v := r.URL.Query().Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			sendError(w, fmt.Sprintf("Invalid width: %q", v), http.StatusBadRequest)
			return
		}
		width = n
	}

	start := time.Now()
	res, err := s.ingester.Ingest(r.Context(), r.Body, width)
	s.metrics.RecordStoreOperation("ingest", err == nil, time.Since(start))
	if err != nil {
		msg := fmt.Sprintf("Failed to ingest records: %v", err)
		if res != nil && res.Records > 0 {
			sendErrorData(w, msg, statusFor(err), res)
			return
		}
		sendError(w, msg, statusFor(err))
		return
	}

	sendSuccess(w, res)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			sendError(w, fmt.Sprintf("Invalid limit: %q", v), http.StatusBadRequest)
			return
		}
		limit = n
	}

	start := time.Now()
	records, err := s.store.List(limit)
	s.metrics.RecordStoreOperation("list", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list records: %v", err), http.StatusInternalServerError)
		return
	}

	summaries := make([]RecordSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, RecordSummary{ID: rec.ID.String(), Width: rec.Width()})
	}
	sendSuccess(w, summaries)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid record id", http.StatusBadRequest)
		return
	}

	start := time.Now()
	rec, err := s.store.Read(id)
	s.metrics.RecordStoreOperation("get", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to get record: %v", err), statusFor(err))
		return
	}

	resp := RecordResponse{
		ID:    rec.ID.String(),
		Width: rec.Width(),
		Data:  string(rec.Data),
	}
	if len(s.config.Fields) > 0 && rec.Width() == s.config.Width {
		fields, err := s.decodeFields(rec.Data)
		if err != nil {
			s.logger.Warn("failed to decode record fields", "id", resp.ID, "error", err)
		} else {
			resp.Fields = fields
		}
	}

	sendSuccess(w, resp)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid record id", http.StatusBadRequest)
		return
	}

	start := time.Now()
	err = s.store.Delete(id)
	s.metrics.RecordStoreOperation("delete", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to delete record: %v", err), statusFor(err))
		return
	}

	sendSuccess(w, map[string]string{"status": "deleted"})
}

func (s *Server) decodeFields(data []byte) ([]fixed.FieldValue, error) {
	rec, err := fixed.NewRecordPad(len(data), s.config.Pad)
	if err != nil {
		return nil, err
	}
	if err := rec.Load(data); err != nil {
		return nil, err
	}
	return s.config.Fields.Decode(rec, true)
}

// updateStoredRecords refreshes the stored record gauge
func (s *Server) updateStoredRecords() {
	count, err := s.store.Count()
	if err != nil {
		s.logger.Warn("failed to count stored records", "error", err)
		return
	}
	s.metrics.SetStoredRecords(count)
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, fixed.ErrInvalidArgument), errors.Is(err, fixed.ErrOutOfRange),
		errors.Is(err, storage.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
