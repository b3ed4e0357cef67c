// Package schema defines the product record and the field limits shared by the
// codec and the slot store.
package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field widths in bytes. A record occupies exactly RecordLen bytes on disk.
const (
	IDLen     = 6
	NameLen   = 35
	DescLen   = 75
	CostLen   = 10
	RecordLen = IDLen + NameLen + DescLen + CostLen
)

// Field names used in validation errors
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCost        = "cost"
)

// Record is a single product. Values are immutable once built; use NewRecord
// to obtain a validated one.
//
// Text fields are stored space padded, so leading and trailing spaces are not
// significant. Normalize gives the form a record has after it is read back.
type Record struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// NewRecord validates the fields and returns the normalized record
func NewRecord(id, name, description string, cost float64) (Record, error) {
	if err := Validate(id, name, description, cost); err != nil {
		return Record{}, err
	}
	return Record{ID: id, Name: name, Description: description, Cost: cost}.Normalize(), nil
}

// Normalize strips padding spaces from the text fields and turns a negative
// zero cost into zero
func (r Record) Normalize() Record {
	return Record{
		ID:          trimPad(r.ID),
		Name:        trimPad(r.Name),
		Description: trimPad(r.Description),
		Cost:        NormalizeCost(r.Cost),
	}
}

// NormalizeCost maps -0 to 0 and leaves every other value alone
func NormalizeCost(cost float64) float64 {
	if cost == 0 {
		return 0
	}
	return cost
}

func trimPad(s string) string {
	return strings.Trim(s, " ")
}

// Validate checks the record against the field limits
func (r Record) Validate() error {
	return Validate(r.ID, r.Name, r.Description, r.Cost)
}

// String renders the record for debugging
func (r Record) String() string {
	return fmt.Sprintf("Product{ID=%q, Name=%q, Description=%q, Cost=%s}",
		r.ID, r.Name, r.Description, strconv.FormatFloat(r.Cost, 'f', 2, 64))
}

// Validate checks raw field values. It returns nil or a *ValidationError.
// Widths are measured without padding spaces; an id or name that is blank
// after trimming counts as empty.
func Validate(id, name, description string, cost float64) error {
	id, name, description = trimPad(id), trimPad(name), trimPad(description)

	if strings.TrimSpace(id) == "" {
		return &ValidationError{Kind: EmptyField, Field: FieldID}
	}
	if len(id) > IDLen {
		return &ValidationError{Kind: FieldTooLong, Field: FieldID, Max: IDLen}
	}
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Kind: EmptyField, Field: FieldName}
	}
	if len(name) > NameLen {
		return &ValidationError{Kind: FieldTooLong, Field: FieldName, Max: NameLen}
	}
	if len(description) > DescLen {
		return &ValidationError{Kind: FieldTooLong, Field: FieldDescription, Max: DescLen}
	}
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return &ValidationError{Kind: NegativeCost, Field: FieldCost}
	}
	// The two-decimal text has to fit the cost column or it would be cut on encode.
	if len(strconv.FormatFloat(NormalizeCost(cost), 'f', 2, 64)) > CostLen {
		return &ValidationError{Kind: FieldTooLong, Field: FieldCost, Max: CostLen}
	}
	return nil
}
