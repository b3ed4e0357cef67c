// Package codec converts product records to and from fixed-width byte blocks.
//
// # Record Format
//
// Every record is encoded into exactly 126 bytes:
//
//	[ID(6)][Name(35)][Description(75)][Cost(10)]
//
// Fields:
//   - ID: bytes 0-6, text, space padded on the right
//   - Name: bytes 6-41, text, space padded on the right
//   - Description: bytes 41-116, text, space padded on the right
//   - Cost: bytes 116-126, decimal text with two fractional digits ("19.99"),
//     space padded on the right
//
// There is no header, length prefix or checksum. Because every block has the
// same width, record n of a file starts at byte n*126.
//
// # Padding and Truncation
//
// Encoding pads each field with ASCII spaces up to its width. A value wider
// than its field is cut to the width; a cut never splits a UTF-8 sequence, the
// partial rune is replaced by padding instead. Decoding trims spaces from both
// ends of every field, so leading and trailing blanks are not preserved.
//
// Encode never fails. Callers that must not lose data validate first with
// schema.Validate, which rejects every value that would be cut.
//
// # Usage
//
//	codec := codec.NewRecordCodec()
//
//	block := codec.Encode(schema.Record{ID: "P1", Name: "Widget", Cost: 19.99})
//
//	record, err := codec.Decode(block)
//	if err != nil {
//	    return err // *DecodeError
//	}
//
// # Error Handling
//
// Decode returns a *DecodeError when the block is not 126 bytes long
// (WrongBlockLength) or when the cost column does not hold a non-negative
// decimal number (MalformedCost). Use errors.Is with ErrWrongBlockLength or
// ErrMalformedCost to branch on the kind.
//
// # Round Trip
//
// Decode(Encode(r)) == r holds for every record whose text fields fit their
// widths, carry no surrounding blanks, and whose cost has at most two decimal
// places.
//
// # Thread Safety
//
// RecordCodec holds no state and is safe for concurrent use.
package codec
