package api

import (
	"encoding/json"

	"github.com/ssargent/prodfile/pkg/client"
	"github.com/ssargent/prodfile/pkg/journal"
	"github.com/ssargent/prodfile/pkg/schema"
	"github.com/ssargent/prodfile/pkg/store"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ProductRequest is the body of POST /products. Cost may be sent as a JSON
// number or as a numeric string.
type ProductRequest struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Cost        json.Number `json:"cost"`
}

// ProductResponse is a single stored product
type ProductResponse struct {
	Slot   int64         `json:"slot"`
	Record schema.Record `json:"record"`
	Cost   string        `json:"cost_text"`
}

// StatsResponse describes the data file
type StatsResponse struct {
	Path       string `json:"path"`
	Slots      int64  `json:"slots"`
	SizeBytes  int64  `json:"size_bytes"`
	RecordSize int    `json:"record_size"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string // empty disables authentication

	RequestLogging bool
}

// ProductStore is the slot store as seen by the HTTP layer
type ProductStore interface {
	store.Appender
	store.Reader
	store.Scanner
	Size() (int64, error)
	Path() string
}

// JournalReader lists journaled entries
type JournalReader interface {
	List(limit int) ([]journal.Entry, error)
}

// Dependencies are the collaborators a Server talks to. Journal may be nil.
type Dependencies struct {
	Store   ProductStore
	Entry   *client.EntryClient
	Search  *client.SearchClient
	Journal JournalReader
}
