package client

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ssargent/prodfile/pkg/codec"
	"github.com/ssargent/prodfile/pkg/schema"
	"github.com/ssargent/prodfile/pkg/store"
)

const separator = "-----------------------------------------"

// SearchClient finds products by a substring of their name
type SearchClient struct {
	store store.Scanner
}

// NewSearchClient creates a search client reading from s
func NewSearchClient(s store.Scanner) *SearchClient {
	return &SearchClient{store: s}
}

// Submit scans every slot and returns the records whose name contains the
// query, ignoring case. Slots that fail to decode are listed in Corrupt.
func (c *SearchClient) Submit(ctx context.Context, cmd SearchByName) (SearchResult, error) {
	query := strings.TrimSpace(cmd.Query)
	if query == "" {
		return SearchResult{}, ErrEmptyQuery
	}

	it, err := c.store.Scan()
	if err != nil {
		return SearchResult{}, fmt.Errorf("failed to scan store: %w", err)
	}
	defer it.Close()

	fold := cases.Fold()
	needle := fold.String(query)

	result := SearchResult{Query: query, Matches: []Match{}}
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return SearchResult{}, err
		}
		result.Scanned++

		record, err := it.Record()
		if err != nil {
			result.Corrupt = append(result.Corrupt, SlotFailure{Slot: it.Slot(), Err: err.Error()})
			continue
		}

		if strings.Contains(fold.String(record.Name), needle) {
			result.Matches = append(result.Matches, Match{Slot: it.Slot(), Record: record})
		}
	}
	if err := it.Err(); err != nil {
		return SearchResult{}, fmt.Errorf("failed to scan store: %w", err)
	}

	return result, nil
}

// Render writes the text report shown to users
func (r SearchResult) Render(w io.Writer) error {
	if len(r.Matches) == 0 {
		_, err := fmt.Fprintf(w, "No products found matching the name: %s\n", r.Query)
		return err
	}

	for _, m := range r.Matches {
		if err := RenderRecord(w, m.Record); err != nil {
			return err
		}
	}
	return nil
}

// RenderRecord writes one record block of the text report
func RenderRecord(w io.Writer, rec schema.Record) error {
	_, err := fmt.Fprintf(w, "ID: %s\nName: %s\nDescription: %s\nCost: $%s\n%s\n",
		rec.ID, rec.Name, rec.Description, codec.FormatCost(rec.Cost), separator)
	return err
}
