// Package journal keeps an audit trail of accepted product entries in a
// pebble database. Keys are KSUIDs, so iteration order is creation order.
// The journal is never consulted to locate records in the slot file.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/prodfile/pkg/client"
)

// Entry is one journaled AddRecord
type Entry struct {
	Key  string    `json:"key"`
	Slot int64     `json:"slot"`
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Cost float64   `json:"cost"`
	At   time.Time `json:"at"`
}

// Journal is a pebble-backed entry log
type Journal struct {
	db *pebble.DB
}

var _ client.Recorder = (*Journal)(nil)

// Open opens or creates the journal database in dir
func Open(dir string) (*Journal, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record stores an entry under a new KSUID derived from its timestamp
func (j *Journal) Record(ctx context.Context, e client.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	id, err := ksuid.NewRandomWithTime(at)
	if err != nil {
		return fmt.Errorf("failed to generate journal key: %w", err)
	}

	value, err := json.Marshal(Entry{
		Key:  id.String(),
		Slot: e.Slot,
		ID:   e.ID,
		Name: e.Name,
		Cost: e.Cost,
		At:   at.UTC(),
	})
	if err != nil {
		return err
	}

	return j.db.Set(id.Bytes(), value, pebble.Sync)
}

// Get returns the entry stored under key
func (j *Journal) Get(key string) (*Entry, error) {
	id, err := ksuid.Parse(key)
	if err != nil {
		return nil, fmt.Errorf("invalid journal key %q: %w", key, err)
	}

	data, closer, err := j.db.Get(id.Bytes())
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("corrupt journal entry %s: %w", key, err)
	}
	return &e, nil
}

// List returns up to limit entries, oldest first. A limit <= 0 returns all.
func (j *Journal) List(limit int) ([]Entry, error) {
	iter, err := j.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	entries := []Entry{}
	for iter.First(); iter.Valid(); iter.Next() {
		if limit > 0 && len(entries) >= limit {
			break
		}
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, fmt.Errorf("corrupt journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Close closes the journal database
func (j *Journal) Close() error {
	return j.db.Close()
}
