package api

import (
	"github.com/gonap/gava/pkg/config"
	"github.com/gonap/gava/pkg/fixed"
	"github.com/gonap/gava/pkg/storage"
	"github.com/segmentio/ksuid"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RecordResponse is a stored record as returned by the API
type RecordResponse struct {
	ID     string             `json:"id"`
	Width  int                `json:"width"`
	Data   string             `json:"data"`
	Fields []fixed.FieldValue `json:"fields,omitempty"`
}

// RecordSummary is one entry of a record listing
type RecordSummary struct {
	ID    string `json:"id"`
	Width int    `json:"width"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind       string
	Port       int
	APIKey     string
	Width      int // default width for ingest requests without ?width=
	Pad        byte
	BufferSize int
	BatchSize  int
	Fields     fixed.Layout
}

// NewServerConfig derives the server settings from the loaded configuration
func NewServerConfig(cfg *config.Config) ServerConfig {
	return ServerConfig{
		Bind:       cfg.Bind,
		Port:       cfg.Port,
		APIKey:     cfg.Security.APIKey,
		Width:      cfg.Record.Width,
		Pad:        cfg.Record.PadByte(),
		BufferSize: cfg.Record.BufferSize,
		BatchSize:  cfg.Record.BatchSize,
		Fields:     cfg.Record.Fields,
	}
}

// RecordStore defines the record store operations the API needs
type RecordStore interface {
	CreateBatch(data [][]byte) ([]ksuid.KSUID, error)
	Read(id ksuid.KSUID) (*storage.StoredRecord, error)
	Delete(id ksuid.KSUID) error
	List(limit int) ([]storage.StoredRecord, error)
	Count() (int, error)
}
