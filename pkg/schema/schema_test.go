package schema

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLen(t *testing.T) {
	assert.Equal(t, 126, RecordLen)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		id          string
		productName string
		description string
		cost        float64
		wantKind    ValidationKind
		wantField   string
	}{
		{name: "valid", id: "P1", productName: "Widget", description: "A small widget", cost: 19.99},
		{name: "empty description allowed", id: "P1", productName: "Widget", cost: 0},
		{name: "max widths", id: strings.Repeat("i", IDLen), productName: strings.Repeat("n", NameLen),
			description: strings.Repeat("d", DescLen), cost: 9999999.99},
		{name: "empty id", id: "", productName: "Widget", wantKind: EmptyField, wantField: FieldID},
		{name: "empty name", id: "P1", productName: "", wantKind: EmptyField, wantField: FieldName},
		{name: "blank id", id: "   ", productName: "Widget", wantKind: EmptyField, wantField: FieldID},
		{name: "blank name", id: "P1", productName: " \t ", wantKind: EmptyField, wantField: FieldName},
		{name: "padding not counted", id: " P1234 ", productName: " " + strings.Repeat("n", NameLen) + " ", cost: 1},
		{name: "negative zero cost", id: "P1", productName: "Widget", cost: math.Copysign(0, -1)},
		{name: "id too long", id: "P123456", productName: "Widget", wantKind: FieldTooLong, wantField: FieldID},
		{name: "name too long", id: "P1", productName: strings.Repeat("n", NameLen+1),
			wantKind: FieldTooLong, wantField: FieldName},
		{name: "description too long", id: "P1", productName: "Widget",
			description: strings.Repeat("d", DescLen+1), wantKind: FieldTooLong, wantField: FieldDescription},
		{name: "negative cost", id: "P1", productName: "Widget", cost: -0.01,
			wantKind: NegativeCost, wantField: FieldCost},
		{name: "nan cost", id: "P1", productName: "Widget", cost: math.NaN(),
			wantKind: NegativeCost, wantField: FieldCost},
		{name: "cost wider than column", id: "P1", productName: "Widget", cost: 12345678.9,
			wantKind: FieldTooLong, wantField: FieldCost},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.id, tc.productName, tc.description, tc.cost)
			if tc.wantKind == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.wantKind, verr.Kind)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

func TestValidationError_Is(t *testing.T) {
	err := Validate("", "Widget", "", 1)
	assert.ErrorIs(t, err, ErrEmptyField)
	assert.NotErrorIs(t, err, ErrFieldTooLong)

	err = Validate("P1", "Widget", "", -1)
	assert.ErrorIs(t, err, ErrNegativeCost)
	assert.Equal(t, "cost cannot be negative", err.Error())

	err = Validate("P1234567", "Widget", "", 1)
	assert.ErrorIs(t, err, ErrFieldTooLong)
	assert.Equal(t, "id must be at most 6 characters", err.Error())
}

func TestRecord_Normalize(t *testing.T) {
	r := Record{ID: " P1 ", Name: "  Alpha  Tool ", Description: " ", Cost: math.Copysign(0, -1)}.Normalize()

	assert.Equal(t, Record{ID: "P1", Name: "Alpha  Tool", Description: "", Cost: 0}, r)
	assert.False(t, math.Signbit(r.Cost))
	assert.Equal(t, 12.5, NormalizeCost(12.5))
}

func TestNewRecord_Normalizes(t *testing.T) {
	r, err := NewRecord(" P1", "Widget ", "", math.Copysign(0, -1))
	require.NoError(t, err)
	assert.Equal(t, "P1", r.ID)
	assert.Equal(t, "Widget", r.Name)
	assert.False(t, math.Signbit(r.Cost))
}

func TestNewRecord(t *testing.T) {
	r, err := NewRecord("P1", "Widget", "A small widget", 19.99)
	require.NoError(t, err)
	assert.Equal(t, Record{ID: "P1", Name: "Widget", Description: "A small widget", Cost: 19.99}, r)
	assert.NoError(t, r.Validate())
	assert.Contains(t, r.String(), "Cost=19.99")

	_, err = NewRecord("P1", "", "", 1)
	assert.ErrorIs(t, err, ErrEmptyField)
}
