package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ssargent/prodfile/pkg/schema"
)

// Byte offsets of each field inside a block
const (
	IDOffset   = 0
	NameOffset = IDOffset + schema.IDLen
	DescOffset = NameOffset + schema.NameLen
	CostOffset = DescOffset + schema.DescLen
)

const padByte = ' '

// Block is one encoded record
type Block [schema.RecordLen]byte

// RecordCodec handles serialization and deserialization of records
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// Encode serializes a record into a fixed-width block
// Format: [ID(6)][Name(35)][Description(75)][Cost(10)]
func (c *RecordCodec) Encode(r schema.Record) []byte {
	b := EncodeBlock(r)
	return b[:]
}

// Decode deserializes a block into a record
func (c *RecordCodec) Decode(data []byte) (schema.Record, error) {
	return Decode(data)
}

// EncodeBlock lays the record out field by field. Over-wide values are cut to
// the field width.
func EncodeBlock(r schema.Record) Block {
	var b Block
	putField(b[IDOffset:NameOffset], r.ID)
	putField(b[NameOffset:DescOffset], r.Name)
	putField(b[DescOffset:CostOffset], r.Description)
	putField(b[CostOffset:], FormatCost(r.Cost))
	return b
}

// Decode slices a block at the fixed boundaries and parses each field
func Decode(data []byte) (schema.Record, error) {
	if len(data) != schema.RecordLen {
		return schema.Record{}, &DecodeError{
			Kind:   WrongBlockLength,
			Detail: fmt.Sprintf("got %d bytes, want %d", len(data), schema.RecordLen),
		}
	}

	cost, err := ParseCost(string(data[CostOffset:]))
	if err != nil {
		return schema.Record{}, err
	}

	return schema.Record{
		ID:          field(data[IDOffset:NameOffset]),
		Name:        field(data[NameOffset:DescOffset]),
		Description: field(data[DescOffset:CostOffset]),
		Cost:        cost,
	}, nil
}

// FormatCost renders a cost the way it is stored, with two fractional digits.
// Negative zero is written as 0.00.
func FormatCost(cost float64) string {
	return strconv.FormatFloat(schema.NormalizeCost(cost), 'f', 2, 64)
}

// ParseCost reads a stored cost column. Only plain decimal text is accepted:
// digits with at most one '.', surrounded by optional padding.
func ParseCost(s string) (float64, error) {
	text := strings.Trim(s, " ")
	if !isDecimal(text) {
		return 0, &DecodeError{Kind: MalformedCost, Detail: fmt.Sprintf("%q", text)}
	}
	cost, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(cost, 0) {
		return 0, &DecodeError{Kind: MalformedCost, Detail: fmt.Sprintf("%q", text)}
	}
	return cost, nil
}

// putField copies s into dst, cutting on a rune boundary and padding the rest
func putField(dst []byte, s string) {
	n := len(s)
	if n > len(dst) {
		n = len(dst)
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
	}
	copy(dst, s[:n])
	for i := n; i < len(dst); i++ {
		dst[i] = padByte
	}
}

func field(b []byte) string {
	return strings.Trim(string(b), " ")
}

func isDecimal(s string) bool {
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
