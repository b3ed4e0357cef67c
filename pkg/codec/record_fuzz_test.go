//go:build fuzz
// +build fuzz

package codec

import (
	"math"
	"testing"

	"github.com/ssargent/prodfile/pkg/schema"
)

// FuzzRecordCodec_RoundTrip checks the round trip for every record that passes validation
func FuzzRecordCodec_RoundTrip(f *testing.F) {
	codec := NewRecordCodec()

	f.Add("P1", "Widget", "A small widget", int64(1999))
	f.Add("A", "B", "", int64(0))
	f.Add(" P2 ", " Padded ", "  ", int64(5))
	f.Add("éé", "Crème", "brûlée", int64(42))

	f.Fuzz(func(t *testing.T, id, name, description string, cents int64) {
		if cents < 0 || cents > 99999999 {
			t.Skip()
		}
		cost := float64(cents) / 100

		r, err := schema.NewRecord(id, name, description, cost)
		if err != nil {
			t.Skip()
		}

		decoded, err := codec.Decode(codec.Encode(r))
		if err != nil {
			t.Fatalf("Decode failed for %v: %v", r, err)
		}

		if decoded.ID != r.ID || decoded.Name != r.Name || decoded.Description != r.Description {
			t.Errorf("Text mismatch: got %v, want %v", decoded, r)
		}
		if math.Abs(decoded.Cost-r.Cost) > 0.001 {
			t.Errorf("Cost mismatch: got %v, want %v", decoded.Cost, r.Cost)
		}
	})
}

// FuzzRecordCodec_Decode makes sure arbitrary blocks never panic
func FuzzRecordCodec_Decode(f *testing.F) {
	codec := NewRecordCodec()

	f.Add(codec.Encode(schema.Record{ID: "P1", Name: "Widget", Cost: 1}))
	f.Add([]byte{})
	f.Add(make([]byte, schema.RecordLen))

	f.Fuzz(func(t *testing.T, data []byte) {
		r, err := codec.Decode(data)
		if err != nil {
			return
		}
		if r.Cost < 0 {
			t.Errorf("Decoded negative cost %v", r.Cost)
		}
	})
}
