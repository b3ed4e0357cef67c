// Package client implements the entry and search front-ends as
// message-passing clients of the slot store. A front-end (CLI, HTTP handler,
// interactive shell) builds a command, submits it and renders the typed
// result.
package client

import (
	"context"
	"errors"
	"time"

	"github.com/ssargent/prodfile/pkg/schema"
)

// AddRecord asks the entry client to store a new product. Fields hold the raw
// text as typed by the user.
type AddRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
}

// AddResult is returned for an accepted AddRecord
type AddResult struct {
	Slot   int64         `json:"slot"`
	Count  int64         `json:"count"`
	Record schema.Record `json:"record"`
}

// SearchByName asks the search client for products whose name contains Query
type SearchByName struct {
	Query string `json:"query"`
}

// Match is a record found by a search
type Match struct {
	Slot   int64         `json:"slot"`
	Record schema.Record `json:"record"`
}

// SlotFailure is a slot that could not be decoded during a search
type SlotFailure struct {
	Slot int64  `json:"slot"`
	Err  string `json:"error"`
}

// SearchResult holds matches in slot order
type SearchResult struct {
	Query   string        `json:"query"`
	Scanned int64         `json:"scanned"`
	Matches []Match       `json:"matches"`
	Corrupt []SlotFailure `json:"corrupt,omitempty"`
}

// Entry describes an accepted AddRecord for a Recorder
type Entry struct {
	Slot int64
	ID   string
	Name string
	Cost float64
	At   time.Time
}

// Recorder is notified after every accepted AddRecord
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Errors
var (
	ErrInvalidCost = errors.New("cost must be a numeric value")
	ErrEmptyQuery  = errors.New("please enter a product name to search")
)
