package client

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ssargent/prodfile/pkg/schema"
	"github.com/ssargent/prodfile/pkg/store"
)

// EntryClient validates user input and appends products to a store
type EntryClient struct {
	store    store.Appender
	recorder Recorder
	now      func() time.Time
}

// NewEntryClient creates an entry client writing to s. recorder may be nil.
func NewEntryClient(s store.Appender, recorder Recorder) *EntryClient {
	return &EntryClient{store: s, recorder: recorder, now: time.Now}
}

// Submit validates cmd and appends it. Validation failures are returned as
// *schema.ValidationError or ErrInvalidCost and leave the store untouched.
func (c *EntryClient) Submit(ctx context.Context, cmd AddRecord) (AddResult, error) {
	if err := ctx.Err(); err != nil {
		return AddResult{}, err
	}

	cost, err := ParseCostInput(cmd.Cost)
	if err != nil {
		return AddResult{}, err
	}

	record, err := schema.NewRecord(
		strings.TrimSpace(cmd.ID),
		strings.TrimSpace(cmd.Name),
		strings.TrimSpace(cmd.Description),
		cost,
	)
	if err != nil {
		return AddResult{}, err
	}

	slot, err := c.store.Append(record)
	if err != nil {
		return AddResult{}, fmt.Errorf("failed to add product %s: %w", record.ID, err)
	}

	if c.recorder != nil {
		entry := Entry{Slot: slot, ID: record.ID, Name: record.Name, Cost: record.Cost, At: c.now()}
		if err := c.recorder.Record(ctx, entry); err != nil {
			// The product is already stored; journal failures are only logged.
			log.Printf("journal: failed to record slot %d: %v", slot, err)
		}
	}

	return AddResult{Slot: slot, Count: slot + 1, Record: record}, nil
}

// ParseCostInput parses the cost text typed by a user. Negative numbers are
// returned as parsed; the schema rejects them with a NegativeCost error.
func ParseCostInput(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, ErrInvalidCost
	}
	cost, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0, ErrInvalidCost
	}
	return schema.NormalizeCost(cost), nil
}
